package config

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"wavecam/pkg/store"
)

// Provider defines the interface for accessing unified configuration.
type Provider interface {
	// Camera
	BootIndices(ctx context.Context) map[string]int
	UserFPS(ctx context.Context) float64
	SetUserFPS(ctx context.Context, fps float64) error

	// Persistence
	PersistInterval(ctx context.Context) time.Duration
	HistoryLimit(ctx context.Context) int
	HistoryRetention(ctx context.Context) time.Duration

	// Raw access (for components that need deep access)
	AppConfig() *Config
}

// UnifiedProvider implements Provider by bridging static Config and persistent Store.
type UnifiedProvider struct {
	base  *Config
	store store.StateStore
}

// NewProvider creates a new UnifiedProvider.
func NewProvider(base *Config, st store.StateStore) *UnifiedProvider {
	return &UnifiedProvider{
		base:  base,
		store: st,
	}
}

func (p *UnifiedProvider) AppConfig() *Config { return p.base }

// BootIndices returns the setting indices to apply at startup, keyed by
// setting name. Persisted values win over configured ones when restore is on.
func (p *UnifiedProvider) BootIndices(ctx context.Context) map[string]int {
	out := map[string]int{
		"width":   p.base.Camera.Width,
		"height":  p.base.Camera.Height,
		"fps":     p.base.Camera.FPS,
		"shutter": p.base.Camera.Shutter,
	}
	if !p.base.Camera.Restore || p.store == nil {
		return out
	}

	val, ok := p.store.GetState(ctx, KeyCameraSettings)
	if !ok || val == "" {
		return out
	}
	var saved map[string]int
	if err := json.Unmarshal([]byte(val), &saved); err != nil {
		slog.Warn("Config: ignoring unreadable persisted camera settings", "error", err)
		return out
	}
	for name, idx := range saved {
		if _, known := out[name]; known {
			out[name] = idx
		}
	}
	return out
}

func (p *UnifiedProvider) UserFPS(ctx context.Context) float64 {
	return p.getFloat64(ctx, KeyUserFPS, p.base.Camera.UserFPS)
}

func (p *UnifiedProvider) SetUserFPS(ctx context.Context, fps float64) error {
	return p.store.SetState(ctx, KeyUserFPS, strconv.FormatFloat(fps, 'f', -1, 64))
}

func (p *UnifiedProvider) PersistInterval(ctx context.Context) time.Duration {
	return time.Duration(p.base.Persistence.Interval)
}

func (p *UnifiedProvider) HistoryLimit(ctx context.Context) int {
	if p.base.Persistence.HistoryLimit <= 0 {
		return 50
	}
	return p.base.Persistence.HistoryLimit
}

func (p *UnifiedProvider) HistoryRetention(ctx context.Context) time.Duration {
	return time.Duration(p.base.Persistence.Retention)
}

// --- Helpers ---

func (p *UnifiedProvider) getFloat64(ctx context.Context, key string, fallback float64) float64 {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return f
			}
		}
	}
	return fallback
}
