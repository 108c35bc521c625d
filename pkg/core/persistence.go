package core

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"wavecam/pkg/camera"
	"wavecam/pkg/config"
	"wavecam/pkg/store"
)

// PersistenceJob periodically saves the restorable camera settings.
type PersistenceJob struct {
	BaseJob
	st       store.StateStore
	ctrl     *Controller
	interval time.Duration

	mu             sync.Mutex
	lastRun        time.Time
	lastSavedState []byte
}

// NewPersistenceJob creates a new persistence job.
func NewPersistenceJob(st store.StateStore, ctrl *Controller, interval time.Duration) *PersistenceJob {
	return &PersistenceJob{
		BaseJob:  NewBaseJob("Persistence"),
		st:       st,
		ctrl:     ctrl,
		interval: interval,
	}
}

func (j *PersistenceJob) ShouldFire(now time.Time) bool {
	if j.isRunning() {
		return false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return now.Sub(j.lastRun) >= j.interval
}

func (j *PersistenceJob) Run(ctx context.Context) {
	if !j.TryLock() {
		return
	}
	defer j.Unlock()

	j.mu.Lock()
	j.lastRun = time.Now()
	j.mu.Unlock()

	j.checkAndSave(ctx)
}

// Flush saves immediately, regardless of the interval. Used on shutdown.
func (j *PersistenceJob) Flush(ctx context.Context) {
	j.checkAndSave(ctx)
}

// PersistedSettings encodes the restorable settings of snap as the JSON object
// stored under config.KeyCameraSettings.
func PersistedSettings(snap *camera.Snapshot) ([]byte, error) {
	out := make(map[string]int, len(restoreOrder))
	for _, id := range restoreOrder {
		out[id.String()] = snap[id].Index
	}
	return json.Marshal(out)
}

func (j *PersistenceJob) checkAndSave(ctx context.Context) {
	snap := j.ctrl.Snapshot()
	data, err := PersistedSettings(&snap)
	if err != nil {
		slog.Error("Persistence: Failed to serialize camera settings", "error", err)
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	// Dirty Check
	if bytes.Equal(data, j.lastSavedState) {
		return
	}

	if err := j.st.SetState(ctx, config.KeyCameraSettings, string(data)); err != nil {
		slog.Error("Persistence: Failed to save camera settings", "error", err)
		return
	}
	j.lastSavedState = data
	slog.Debug("Persistence: Camera settings saved", "state", string(data))
}
