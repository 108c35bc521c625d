// Package probe runs startup checks before the camera controller starts
// taking requests.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"wavecam/pkg/camera"
)

const checkTimeout = 5 * time.Second

// CheckFunc returns nil if the check passes.
type CheckFunc func(ctx context.Context) error

// Probe is a single startup check.
type Probe struct {
	Name     string
	Check    CheckFunc
	Critical bool // A failure prevents startup
}

// Result holds the outcome of a single probe.
type Result struct {
	Probe    Probe
	Error    error
	Duration time.Duration
}

// Run executes probes in order. Each check gets its own timeout.
func Run(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, len(probes))
	for i, p := range probes {
		start := time.Now()
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := p.Check(checkCtx)
		cancel()

		results[i] = Result{Probe: p, Error: err, Duration: time.Since(start)}
	}
	return results
}

// AnalyzeResults logs a summary and joins the errors of failed critical probes.
func AnalyzeResults(results []Result) error {
	var criticalErrors []error

	slog.Info("Startup Checks Summary")
	for _, r := range results {
		status := "PASS"
		if r.Error != nil {
			status = "FAIL"
		}
		msg := fmt.Sprintf("[%s] %-20s (%v)", status, r.Probe.Name, r.Duration.Round(time.Millisecond))

		if r.Error == nil {
			slog.Info(msg)
			continue
		}
		slog.Error(msg, "error", r.Error)
		if r.Probe.Critical {
			criticalErrors = append(criticalErrors, fmt.Errorf("%s: %w", r.Probe.Name, r.Error))
		}
	}
	return errors.Join(criticalErrors...)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Database fails when the store cannot be reached.
func Database(p Pinger) Probe {
	return Probe{
		Name:     "Database",
		Critical: true,
		Check:    p.PingContext,
	}
}

// SettingViewer is satisfied by core.Controller.
type SettingViewer interface {
	View(id camera.SettingID) (camera.SettingView, error)
}

// BootIndices reports boot values that name an unknown setting or fall
// outside their table. Restore would discard them, so this only warns.
func BootIndices(v SettingViewer, indices map[string]int) Probe {
	return Probe{
		Name: "Boot values",
		Check: func(ctx context.Context) error {
			var errs []error
			for name, idx := range indices {
				id, err := camera.ParseSettingID(name)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				view, err := v.View(id)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				if idx < 0 || idx >= view.Count {
					errs = append(errs, fmt.Errorf("%w: %s has %d entries, boot index is %d", camera.ErrInvalidIndex, name, view.Count, idx))
				}
			}
			return errors.Join(errs...)
		},
	}
}
