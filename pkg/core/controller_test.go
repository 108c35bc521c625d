package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavecam/pkg/camera"
	"wavecam/pkg/model"
)

// recorder collects delivered events.
type recorder struct {
	mu     sync.Mutex
	events []*model.CommitEvent
}

func (r *recorder) OnCommit(ctx context.Context, ev *model.CommitEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) take() []*model.CommitEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

func newTestController(t *testing.T) (*Controller, *recorder) {
	t.Helper()
	c := NewController(camera.NewRegistry(nil), nil)
	rec := &recorder{}
	c.AddListener(rec)
	return c, rec
}

func TestRequestSetValue_WidthMovesHeight(t *testing.T) {
	c, rec := newTestController(t)
	ctx := context.Background()

	status, err := c.RequestSetValue(ctx, camera.Width, camera.Width2K)
	require.NoError(t, err)
	assert.Equal(t, camera.Accepted, status)

	events := rec.take()
	require.Len(t, events, 2)

	assert.Equal(t, "width", events[0].Setting)
	assert.Equal(t, 0, events[0].From)
	assert.Equal(t, 1, events[0].To)
	assert.Equal(t, "  2048 x", events[0].ToLabel)

	assert.Equal(t, "height", events[1].Setting)
	assert.Equal(t, 2, events[1].From)
	assert.Equal(t, 11, events[1].To)
	assert.Equal(t, "accepted", events[1].Status)
	assert.NotEqual(t, events[0].ID, events[1].ID)
	assert.Equal(t, events[0].Timestamp, events[1].Timestamp)

	snap := c.Snapshot()
	assert.Equal(t, [camera.NumSettings]int{0, 1, 11, 1, 2, 0}, snap.Indices())
}

func TestRequestSetValue_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		id         camera.SettingID
		index      int
		wantStatus camera.Status
		wantErr    error
		wantEvents int
	}{
		{"FPS accepted", camera.FPS, 7, camera.Accepted, nil, 1},
		{"Same value is a silent accept", camera.FPS, 1, camera.Accepted, nil, 0},
		{"Playback rejected", camera.Mode, camera.ModePlayback, camera.Rejected, nil, 0},
		{"Disabled FPS rejected", camera.FPS, 40, camera.Rejected, nil, 0},
		{"Index past table", camera.Shutter, 19, camera.InvalidIndex, camera.ErrInvalidIndex, 0},
		{"Negative index", camera.Height, -1, camera.InvalidIndex, camera.ErrInvalidIndex, 0},
		{"Unknown setting", camera.SettingID(9), 0, camera.InvalidSetting, camera.ErrUnknownSetting, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestController(t)
			before := c.Snapshot()

			status, err := c.RequestSetValue(context.Background(), tt.id, tt.index)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, rec.take(), tt.wantEvents)
			if !status.Committed() {
				assert.Equal(t, before, c.Snapshot(), "state must not move")
			}
		})
	}
}

func TestRequestSetValue_FormatIsMomentary(t *testing.T) {
	c, rec := newTestController(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		status, err := c.RequestSetValue(ctx, camera.Format, camera.FormatConfirm)
		require.NoError(t, err)
		require.Equal(t, camera.Accepted, status)
	}

	events := rec.take()
	require.Len(t, events, 2, "every confirm is an action")
	assert.Equal(t, 0, events[0].From)
	assert.Equal(t, 1, events[1].From)
	assert.Equal(t, 1, events[1].To)
}

func TestRequestSetValue_ListenerFunc(t *testing.T) {
	c := NewController(camera.NewRegistry(nil), nil)
	var got []string
	c.AddListener(CommitListenerFunc(func(ctx context.Context, ev *model.CommitEvent) {
		// Listeners may read back through the controller without deadlocking
		v, err := c.View(camera.SettingID(ev.SettingID))
		require.NoError(t, err)
		got = append(got, ev.Setting+"="+v.Name)
	}))

	_, err := c.RequestSetValue(context.Background(), camera.Mode, camera.ModeRec)
	require.NoError(t, err)
	assert.Equal(t, []string{"mode=mode"}, got)
}

func TestStep(t *testing.T) {
	tests := []struct {
		name       string
		id         camera.SettingID
		deltas     []int
		wantStatus camera.Status
		wantIndex  int
	}{
		{"FPS up", camera.FPS, []int{1}, camera.Accepted, 2},
		{"FPS down to user", camera.FPS, []int{-1}, camera.Accepted, 0},
		{"FPS clamps at last enabled", camera.FPS, []int{100}, camera.Accepted, 30},
		{"FPS nothing below zero", camera.FPS, []int{-1, -1}, camera.Rejected, 0},
		{"Width past end", camera.Width, []int{5, 1}, camera.Rejected, 1},
		{"Mode to rec", camera.Mode, []int{1}, camera.Accepted, camera.ModeRec},
		{"Mode rec to playback refused", camera.Mode, []int{1, 1}, camera.Rejected, camera.ModeRec},
		{"Mode clamps at standby", camera.Mode, []int{-3}, camera.Rejected, camera.ModeStandby},
		{"Zero delta", camera.Shutter, []int{0}, camera.Rejected, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t)
			var status camera.Status
			var err error
			for _, d := range tt.deltas {
				status, err = c.Step(context.Background(), tt.id, d)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantIndex, c.Snapshot()[tt.id].Index)
		})
	}

	c, _ := newTestController(t)
	status, err := c.Step(context.Background(), camera.SettingID(200), 1)
	assert.Equal(t, camera.InvalidSetting, status)
	assert.ErrorIs(t, err, camera.ErrUnknownSetting)
}

func TestRestore(t *testing.T) {
	t.Run("AppliesInOrder", func(t *testing.T) {
		c, rec := newTestController(t)
		results := c.Restore(context.Background(), map[string]int{
			"width": 1, "height": 12, "fps": 3, "shutter": 4,
			"mode": camera.ModeRec, "format": camera.FormatConfirm,
		})

		snap := c.Snapshot()
		assert.Equal(t, [camera.NumSettings]int{0, 1, 12, 3, 4, 0}, snap.Indices())
		assert.Len(t, results, 4)
		for id, st := range results {
			assert.True(t, st.Committed(), "%s: %s", id, st)
		}
		// width, dependent height, height again, fps, shutter
		assert.Len(t, rec.take(), 5)
	})

	t.Run("HeightCheckedAgainstRestoredWidth", func(t *testing.T) {
		c, _ := newTestController(t)
		results := c.Restore(context.Background(), map[string]int{"width": 1, "height": 2})

		assert.Equal(t, camera.Rejected, results[camera.Height])
		assert.Equal(t, 11, c.Snapshot()[camera.Height].Index)
	})

	t.Run("InvalidValuesSkipped", func(t *testing.T) {
		c, _ := newTestController(t)
		results := c.Restore(context.Background(), map[string]int{"shutter": 200, "fps": 5})

		assert.Equal(t, camera.InvalidIndex, results[camera.Shutter])
		assert.Equal(t, camera.Accepted, results[camera.FPS])
		assert.Equal(t, 2, c.Snapshot()[camera.Shutter].Index)
		assert.Equal(t, 5, c.Snapshot()[camera.FPS].Index)
	})
}

func TestController_ConcurrentReadersSeeConsistentHeight(t *testing.T) {
	c := NewController(camera.NewRegistry(nil), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, _ = c.RequestSetValue(ctx, camera.Width, i%2)
			}
		}()
	}

	var readers sync.WaitGroup
	bad := make(chan [camera.NumSettings]int, 1)
	for r := 0; r < 4; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := c.Snapshot()
				idx := snap.Indices()
				// 4K pairs with height 2, 2K with height 11
				if (idx[camera.Width] == 0 && idx[camera.Height] != 2) || (idx[camera.Width] == 1 && idx[camera.Height] != 11) {
					select {
					case bad <- idx:
					default:
					}
					return
				}
			}
		}()
	}

	wg.Wait()
	close(stop)
	readers.Wait()

	select {
	case idx := <-bad:
		t.Fatalf("reader observed inconsistent width/height: %v", idx)
	default:
	}
}
