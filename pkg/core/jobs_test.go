package core

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// TestBaseJob_LockUnlock tests the atomic lock behavior.
func TestBaseJob_LockUnlock(t *testing.T) {
	tests := []struct {
		name        string
		prelock     bool
		wantTryLock bool
	}{
		{"Unlocked - TryLock succeeds", false, true},
		{"Prelocked - TryLock fails", true, true}, // First TryLock succeeds, second fails
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBaseJob("test")

			if tt.prelock {
				if !b.TryLock() {
					t.Fatal("First TryLock should succeed")
				}
				if b.TryLock() {
					t.Error("Second TryLock should fail when already locked")
				}
				b.Unlock()
				if !b.TryLock() {
					t.Error("TryLock should succeed after Unlock")
				}
			} else {
				if got := b.TryLock(); got != tt.wantTryLock {
					t.Errorf("TryLock() = %v, want %v", got, tt.wantTryLock)
				}
			}
		})
	}
}

// TestBaseJob_Name tests the Name method.
func TestBaseJob_Name(t *testing.T) {
	tests := []struct {
		name     string
		jobName  string
		wantName string
	}{
		{"Simple name", "Persistence", "Persistence"},
		{"Empty name", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBaseJob(tt.jobName)
			if got := b.Name(); got != tt.wantName {
				t.Errorf("Name() = %v, want %v", got, tt.wantName)
			}
		})
	}
}

// TestTimeJob_ShouldFire tests the time-based trigger logic.
func TestTimeJob_ShouldFire(t *testing.T) {
	tests := []struct {
		name      string
		threshold time.Duration
		advance   time.Duration
		wantFire  bool
	}{
		{"Below threshold - no fire", time.Hour, time.Minute, false},
		{"At threshold - fires", time.Minute, time.Minute, true},
		{"Above threshold - fires", time.Second, time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var runs int32
			job := NewTimeJob("test", tt.threshold, func(ctx context.Context) { atomic.AddInt32(&runs, 1) })

			if !job.ShouldFire(time.Now()) {
				t.Fatal("First run should always fire")
			}
			job.Run(context.Background())
			if atomic.LoadInt32(&runs) != 1 {
				t.Fatalf("action ran %d times, want 1", runs)
			}

			if got := job.ShouldFire(time.Now().Add(tt.advance)); got != tt.wantFire {
				t.Errorf("ShouldFire() = %v, want %v", got, tt.wantFire)
			}
		})
	}
}

// TestTimeJob_Running tests that job doesn't fire while running.
func TestTimeJob_Running(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	job := NewTimeJob("test", 0, func(ctx context.Context) {
		close(started)
		<-release
	})

	go job.Run(context.Background())
	<-started

	if job.ShouldFire(time.Now().Add(time.Hour)) {
		t.Error("ShouldFire should return false while job is running")
	}
	close(release)
}
