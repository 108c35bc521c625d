package actuator

import (
	"context"
	"log/slog"
	"sync"

	"wavecam/pkg/camera"
	"wavecam/pkg/model"
)

// SnapshotSource provides the current camera state.
type SnapshotSource interface {
	Snapshot() camera.Snapshot
}

// Listener pushes a new frame to its sink whenever a commit changes the
// resolved magnitudes.
type Listener struct {
	sink    Sink
	src     SnapshotSource
	userFPS func(ctx context.Context) float64

	mu   sync.Mutex
	last Frame
	sent bool
}

// NewListener creates a listener. userFPS supplies the frame rate of the
// USER fps entry at the time of each commit.
func NewListener(sink Sink, src SnapshotSource, userFPS func(ctx context.Context) float64) *Listener {
	return &Listener{sink: sink, src: src, userFPS: userFPS}
}

// OnCommit implements core.CommitListener.
func (l *Listener) OnCommit(ctx context.Context, ev *model.CommitEvent) {
	l.Sync(ctx)
}

// Sync sends the current frame unless it equals the last one sent.
func (l *Listener) Sync(ctx context.Context) {
	snap := l.src.Snapshot()
	f := FrameFromSnapshot(&snap, l.userFPS(ctx))

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sent && f == l.last {
		return
	}
	if err := l.sink.Send(ctx, f); err != nil {
		slog.Error("Actuator: Failed to send frame", "frame", f.String(), "error", err)
		return
	}
	l.last, l.sent = f, true
}
