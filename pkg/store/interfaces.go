package store

import (
	"context"

	"wavecam/pkg/model"
)

// SettingEventStore handles the commit history.
type SettingEventStore interface {
	SaveSettingEvent(ctx context.Context, ev *model.CommitEvent) error
	// ListSettingEvents returns the latest events, newest first.
	ListSettingEvents(ctx context.Context, limit int) ([]*model.CommitEvent, error)
}

// ClipStore handles recorded clip metadata.
type ClipStore interface {
	SaveClip(ctx context.Context, c *model.Clip) error
	GetClip(ctx context.Context, id string) (*model.Clip, error)
	// ListClips returns all clips, newest first.
	ListClips(ctx context.Context) ([]*model.Clip, error)
	ListOpenClips(ctx context.Context) ([]*model.Clip, error)
	DeleteClips(ctx context.Context) (int64, error)
}

// StateStore handles persistent application state.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}
