package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"wavecam/pkg/camera"
	"wavecam/pkg/logging"
	"wavecam/pkg/model"
)

// restoreOrder is the order boot values are replayed in. Width goes first so
// its height mask is in place before Height is checked.
var restoreOrder = []camera.SettingID{camera.Width, camera.Height, camera.FPS, camera.Shutter}

// Controller owns the setting registry. It serializes every commit and fans
// the resulting changes out to listeners.
type Controller struct {
	mu     sync.RWMutex
	reg    *camera.Registry
	logger *slog.Logger

	lmu       sync.RWMutex
	listeners []CommitListener

	now func() time.Time
}

// NewController creates a controller around reg.
func NewController(reg *camera.Registry, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		reg:    reg,
		logger: logger.With("component", "controller"),
		now:    time.Now,
	}
}

// AddListener registers l for every future change.
func (c *Controller) AddListener(l CommitListener) {
	c.lmu.Lock()
	defer c.lmu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Snapshot returns a consistent copy of every setting.
func (c *Controller) Snapshot() camera.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.Snapshot()
}

// View returns a copy of one setting.
func (c *Controller) View(id camera.SettingID) (camera.SettingView, error) {
	if !id.Valid() {
		return camera.SettingView{}, fmt.Errorf("%w: %d", camera.ErrUnknownSetting, id)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.View(id), nil
}

// IsEnabled reports whether index is currently selectable for the setting.
func (c *Controller) IsEnabled(id camera.SettingID, index int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.IsEnabled(id, index)
}

// RequiresUser reports whether index needs an externally supplied value.
func (c *Controller) RequiresUser(id camera.SettingID, index int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg.RequiresUser(id, index)
}

// RequestSetValue commits index to the setting and notifies listeners of every
// setting that changed as a result. An error is returned only for an unknown
// setting or an index outside the setting's table; policy rejections are
// reported through the status alone.
func (c *Controller) RequestSetValue(ctx context.Context, id camera.SettingID, index int) (camera.Status, error) {
	if !id.Valid() {
		return camera.InvalidSetting, fmt.Errorf("%w: %d", camera.ErrUnknownSetting, id)
	}

	c.mu.Lock()
	before := c.reg.Snapshot()
	status := c.reg.TrySetValue(id, index)
	after := c.reg.Snapshot()
	c.mu.Unlock()

	switch status {
	case camera.InvalidIndex:
		c.logger.Debug("Commit refused", "setting", id, "index", index, "status", status)
		return status, fmt.Errorf("%w: %s has no index %d", camera.ErrInvalidIndex, id, index)
	case camera.Rejected:
		c.logger.Debug("Commit rejected", "setting", id, "index", index)
		return status, nil
	case camera.Unresolved:
		c.logger.Warn("Commit abandoned: no height enabled for width", "index", index)
		return status, nil
	case camera.HeightFallback:
		c.logger.Info("Height fell back to smallest enabled value", "height", after[camera.Height].Label)
	}

	c.deliver(ctx, c.changes(id, status, &before, &after))
	return status, nil
}

// changes builds the events for one commit: the requested setting first, then
// any other setting it moved. Format is a momentary action, so an accepted
// Format commit is reported even when its index did not change.
func (c *Controller) changes(id camera.SettingID, status camera.Status, before, after *camera.Snapshot) []*model.CommitEvent {
	ts := c.now()
	var events []*model.CommitEvent
	add := func(sid camera.SettingID) {
		b, a := &before[sid], &after[sid]
		if b.Index == a.Index && !(sid == camera.Format && sid == id) {
			return
		}
		events = append(events, &model.CommitEvent{
			ID:        uuid.NewString(),
			SettingID: int(sid),
			Setting:   sid.String(),
			From:      b.Index,
			To:        a.Index,
			FromLabel: b.Label,
			ToLabel:   a.Label,
			Status:    status.String(),
			Timestamp: ts,
		})
	}

	add(id)
	for _, sid := range camera.AllSettings {
		if sid != id {
			add(sid)
		}
	}
	return events
}

func (c *Controller) deliver(ctx context.Context, events []*model.CommitEvent) {
	c.lmu.RLock()
	listeners := make([]CommitListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.lmu.RUnlock()

	for _, ev := range events {
		logging.Trace(c.logger, "Delivering commit", "setting", ev.Setting, "from", ev.From, "to", ev.To, "listeners", len(listeners))
		for _, l := range listeners {
			l.OnCommit(ctx, ev)
		}
	}
}

// Step moves the setting |delta| selectable entries up or down. Mode has no
// enable-mask semantics and simply moves by delta, clamped to its table.
func (c *Controller) Step(ctx context.Context, id camera.SettingID, delta int) (camera.Status, error) {
	if !id.Valid() {
		return camera.InvalidSetting, fmt.Errorf("%w: %d", camera.ErrUnknownSetting, id)
	}

	c.mu.RLock()
	var target int
	var ok bool
	if id == camera.Mode {
		v := c.reg.View(id)
		target = min(max(v.Index+delta, 0), v.Count-1)
		ok = target != v.Index
	} else {
		target, ok = c.reg.NextEnabled(id, delta)
	}
	c.mu.RUnlock()

	if !ok {
		c.logger.Debug("Step found nothing to move to", "setting", id, "delta", delta)
		return camera.Rejected, nil
	}
	return c.RequestSetValue(ctx, id, target)
}

// Restore replays boot values keyed by setting name through the normal commit
// path, so each one passes its legality check. Mode and Format are never
// restored. The returned map holds the status of every attempted setting.
func (c *Controller) Restore(ctx context.Context, indices map[string]int) map[camera.SettingID]camera.Status {
	results := make(map[camera.SettingID]camera.Status, len(restoreOrder))
	for _, id := range restoreOrder {
		idx, ok := indices[id.String()]
		if !ok {
			continue
		}
		if c.Snapshot()[id].Index == idx {
			results[id] = camera.Accepted
			continue
		}
		status, err := c.RequestSetValue(ctx, id, idx)
		if err != nil || !status.Committed() {
			c.logger.Warn("Boot value not applied", "setting", id, "index", idx, "status", status, "error", err)
		}
		results[id] = status
	}
	return results
}
