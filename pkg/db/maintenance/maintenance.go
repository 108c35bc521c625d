package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wavecam/pkg/db"
	"wavecam/pkg/store"
)

const lastMaintenanceStateKey = "last_maintenance"

// Run executes all startup maintenance tasks: closing clips left open by an
// unclean shutdown and pruning the commit history.
// It blocks until completion.
func Run(ctx context.Context, s store.Store, d *db.DB, retention time.Duration) error {
	slog.Info("Starting database maintenance...")

	if n, err := closeDanglingClips(ctx, s); err != nil {
		slog.Error("Closing dangling clips failed", "error", err)
		// Not fatal for startup.
	} else if n > 0 {
		slog.Warn("Closed clips left open by an earlier run", "count", n)
	}

	if retention > 0 {
		n, err := d.PruneHistory(retention)
		if err != nil {
			slog.Error("History pruning failed", "error", err)
		} else {
			slog.Info("History pruning completed", "removed", n)
		}
	}

	if err := s.SetState(ctx, lastMaintenanceStateKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}
	return nil
}

// closeDanglingClips ends every stored clip that has no end time. Nothing is
// recording at startup, so such clips are marked as ending where they began.
func closeDanglingClips(ctx context.Context, s store.ClipStore) (int, error) {
	open, err := s.ListOpenClips(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range open {
		c.EndedAt = c.StartedAt
		if err := s.SaveClip(ctx, c); err != nil {
			return 0, fmt.Errorf("failed to close clip %s: %w", c.ID, err)
		}
	}
	return len(open), nil
}
