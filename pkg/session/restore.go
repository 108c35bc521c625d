package session

import (
	"context"
	"log/slog"

	"wavecam/pkg/camera"
	"wavecam/pkg/config"
)

// Restorer replays boot values through the commit path.
type Restorer interface {
	Restore(ctx context.Context, indices map[string]int) map[camera.SettingID]camera.Status
}

// Restore applies the boot indices from p (persisted state or configured
// defaults) to the camera. It returns the number of settings that ended up at
// their requested value.
func Restore(ctx context.Context, p config.Provider, r Restorer) int {
	indices := p.BootIndices(ctx)
	results := r.Restore(ctx, indices)

	applied := 0
	for id, status := range results {
		if status.Committed() {
			applied++
			continue
		}
		slog.Warn("Session: Boot value discarded", "setting", id, "index", indices[id.String()], "status", status)
	}
	slog.Info("Session: Camera settings restored", "applied", applied, "requested", len(results))
	return applied
}
