package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wavecam/pkg/camera"
	"wavecam/pkg/config"
	"wavecam/pkg/core"
)

// MockStore for testing
type MockStore struct {
	Data map[string]string
}

func (m *MockStore) GetState(ctx context.Context, key string) (string, bool) {
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockStore) SetState(ctx context.Context, key, value string) error {
	if m.Data == nil {
		m.Data = make(map[string]string)
	}
	m.Data[key] = value
	return nil
}

func (m *MockStore) DeleteState(ctx context.Context, key string) error {
	delete(m.Data, key)
	return nil
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name        string
		persisted   string
		restore     bool
		wantApplied int
		wantIndices [camera.NumSettings]int
	}{
		{
			name:        "Config defaults",
			restore:     true,
			wantApplied: 4,
			wantIndices: [camera.NumSettings]int{0, 0, 2, 1, 2, 0},
		},
		{
			name:        "Persisted state wins",
			persisted:   `{"width":1,"height":13,"fps":4,"shutter":6}`,
			restore:     true,
			wantApplied: 4,
			wantIndices: [camera.NumSettings]int{0, 1, 13, 4, 6, 0},
		},
		{
			name:        "Persisted state ignored when restore is off",
			persisted:   `{"width":1,"height":13,"fps":4,"shutter":6}`,
			restore:     false,
			wantApplied: 4,
			wantIndices: [camera.NumSettings]int{0, 0, 2, 1, 2, 0},
		},
		{
			name:        "Illegal values discarded",
			persisted:   `{"width":1,"height":3,"fps":50,"shutter":99}`,
			restore:     true,
			wantApplied: 1,
			wantIndices: [camera.NumSettings]int{0, 1, 11, 1, 2, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Camera.Restore = tt.restore
			cfg.Persistence.Interval = config.Duration(time.Second)
			st := &MockStore{Data: map[string]string{}}
			if tt.persisted != "" {
				st.Data[config.KeyCameraSettings] = tt.persisted
			}

			ctrl := core.NewController(camera.NewRegistry(nil), nil)
			applied := Restore(context.Background(), config.NewProvider(cfg, st), ctrl)

			assert.Equal(t, tt.wantApplied, applied)
			snap := ctrl.Snapshot()
			assert.Equal(t, tt.wantIndices, snap.Indices())
		})
	}
}
