package core

import (
	"context"

	"wavecam/pkg/model"
)

// CommitListener receives one event per setting whose value changed.
// Listeners run on the committing goroutine after the controller lock is
// released and may read the controller freely.
type CommitListener interface {
	OnCommit(ctx context.Context, ev *model.CommitEvent)
}

// CommitListenerFunc adapts a function to CommitListener.
type CommitListenerFunc func(ctx context.Context, ev *model.CommitEvent)

func (f CommitListenerFunc) OnCommit(ctx context.Context, ev *model.CommitEvent) {
	f(ctx, ev)
}
