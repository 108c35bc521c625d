package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wavecam/pkg/camera"
	"wavecam/pkg/logging"
	"wavecam/pkg/model"
	"wavecam/pkg/store"
)

// Store is the persistence the manager needs.
type Store interface {
	store.SettingEventStore
	store.ClipStore
}

// SnapshotSource provides the current camera state.
type SnapshotSource interface {
	Snapshot() camera.Snapshot
}

// Manager tracks the recording session: it records commit history and turns
// Mode transitions into clips.
type Manager struct {
	st  Store
	src SnapshotSource

	mu        sync.RWMutex
	current   *model.Clip
	clipCount int

	now func() time.Time
}

// NewManager creates a new session manager.
func NewManager(st Store, src SnapshotSource) *Manager {
	return &Manager{st: st, src: src, now: time.Now}
}

// OnCommit implements core.CommitListener.
func (m *Manager) OnCommit(ctx context.Context, ev *model.CommitEvent) {
	if err := m.st.SaveSettingEvent(ctx, ev); err != nil {
		slog.Error("Session: Failed to save commit event", "setting", ev.Setting, "error", err)
	}
	logging.LogEvent(ev)

	switch camera.SettingID(ev.SettingID) {
	case camera.Mode:
		switch {
		case ev.From == camera.ModeStandby && ev.To == camera.ModeRec:
			m.startClip(ctx)
		case ev.From == camera.ModeRec && ev.To == camera.ModeStandby:
			m.endClip(ctx)
		}
	case camera.Format:
		if ev.To == camera.FormatConfirm {
			m.format(ctx)
		}
	}
}

func (m *Manager) startClip(ctx context.Context) {
	snap := m.src.Snapshot()
	clip := &model.Clip{
		ID:        uuid.NewString(),
		StartedAt: m.now(),
		Width:     label(&snap, camera.Width),
		Height:    label(&snap, camera.Height),
		FPS:       label(&snap, camera.FPS),
		Shutter:   label(&snap, camera.Shutter),
	}

	m.mu.Lock()
	m.current = clip
	m.mu.Unlock()

	// Stored open, so an unclean shutdown leaves a trace for maintenance to close.
	if err := m.st.SaveClip(ctx, clip); err != nil {
		slog.Error("Session: Failed to save clip start", "clip", clip.ID, "error", err)
	}
	slog.Info("Session: Recording started", "clip", clip.ID, "width", clip.Width, "height", clip.Height, "fps", clip.FPS)
}

func (m *Manager) endClip(ctx context.Context) {
	m.mu.Lock()
	clip := m.current
	m.current = nil
	if clip != nil {
		clip.EndedAt = m.now()
		m.clipCount++
	}
	m.mu.Unlock()

	if clip == nil {
		slog.Warn("Session: Recording stopped without an open clip")
		return
	}
	if err := m.st.SaveClip(ctx, clip); err != nil {
		slog.Error("Session: Failed to save clip", "clip", clip.ID, "error", err)
		return
	}
	slog.Info("Session: Recording stopped", "clip", clip.ID, "duration", clip.Duration(clip.EndedAt))
}

// format deletes every stored clip. A clip being recorded stays open and is
// stored again when it ends.
func (m *Manager) format(ctx context.Context) {
	n, err := m.st.DeleteClips(ctx)
	if err != nil {
		slog.Error("Session: Format failed", "error", err)
		return
	}
	m.mu.Lock()
	m.clipCount = 0
	m.mu.Unlock()
	slog.Info("Session: Storage formatted", "clips_deleted", n)
}

// Current returns a copy of the clip being recorded, or nil.
func (m *Manager) Current() *model.Clip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	c := *m.current
	return &c
}

// ClipCount returns the number of clips finished since start or the last format.
func (m *Manager) ClipCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clipCount
}

func label(snap *camera.Snapshot, id camera.SettingID) string {
	return strings.TrimSpace(snap[id].Label)
}
