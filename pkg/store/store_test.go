package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"wavecam/pkg/db"
	"wavecam/pkg/model"
)

// setupTestStore creates a test database and store for each test.
func setupTestStore(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	d, err := db.Init(dbPath)
	if err != nil {
		t.Fatalf("Failed to init DB: %v", err)
	}

	store := NewSQLiteStore(d)
	cleanup := func() { d.Close() }
	return store, cleanup
}

// =============================================================================
// SettingEventStore Tests
// =============================================================================

func TestSettingEventStore_ListSettingEvents(t *testing.T) {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	tests := []struct {
		name    string
		count   int
		limit   int
		wantIDs []string
	}{
		{
			name:    "empty database",
			count:   0,
			limit:   10,
			wantIDs: []string{},
		},
		{
			name:    "newest first",
			count:   3,
			limit:   10,
			wantIDs: []string{"ev-2", "ev-1", "ev-0"},
		},
		{
			name:    "limit applied",
			count:   5,
			limit:   2,
			wantIDs: []string{"ev-4", "ev-3"},
		},
		{
			name:    "zero limit",
			count:   2,
			limit:   0,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, cleanup := setupTestStore(t)
			defer cleanup()

			for i := 0; i < tt.count; i++ {
				ev := &model.CommitEvent{
					ID:        fmt.Sprintf("ev-%d", i),
					Setting:   "fps",
					From:      i,
					To:        i + 1,
					Status:    "accepted",
					Timestamp: base.Add(time.Duration(i) * time.Second),
				}
				if err := s.SaveSettingEvent(ctx, ev); err != nil {
					t.Fatalf("SaveSettingEvent failed: %v", err)
				}
			}

			got, err := s.ListSettingEvents(ctx, tt.limit)
			if err != nil {
				t.Fatalf("ListSettingEvents failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Expected %d events, got %d", len(tt.wantIDs), len(got))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("events[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

// =============================================================================
// ClipStore Tests
// =============================================================================

func TestClipStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStore(t)
	defer cleanup()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	clips := []*model.Clip{
		{ID: "a", StartedAt: base, EndedAt: base.Add(time.Minute)},
		{ID: "b", StartedAt: base.Add(2 * time.Minute), EndedAt: base.Add(3 * time.Minute)},
		{ID: "c", StartedAt: base.Add(4 * time.Minute)}, // still open
	}
	for _, c := range clips {
		if err := s.SaveClip(ctx, c); err != nil {
			t.Fatalf("SaveClip failed: %v", err)
		}
	}

	all, err := s.ListClips(ctx)
	if err != nil {
		t.Fatalf("ListClips failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("Expected clips c,b,a; got %v", clipIDs(all))
	}

	open, err := s.ListOpenClips(ctx)
	if err != nil {
		t.Fatalf("ListOpenClips failed: %v", err)
	}
	if len(open) != 1 || open[0].ID != "c" {
		t.Errorf("Expected only clip c open; got %v", clipIDs(open))
	}

	n, err := s.DeleteClips(ctx)
	if err != nil {
		t.Fatalf("DeleteClips failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 clips deleted, got %d", n)
	}
	all, _ = s.ListClips(ctx)
	if len(all) != 0 {
		t.Errorf("Expected no clips after delete, got %d", len(all))
	}

	// Deleting an empty table is not an error
	if n, err := s.DeleteClips(ctx); err != nil || n != 0 {
		t.Errorf("Expected 0, nil on empty delete; got %d, %v", n, err)
	}
}

func clipIDs(clips []*model.Clip) []string {
	ids := make([]string, len(clips))
	for i, c := range clips {
		ids[i] = c.ID
	}
	return ids
}

// =============================================================================
// StateStore Tests
// =============================================================================

func TestStateStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStore(t)
	defer cleanup()

	tests := []struct {
		key string
		val string
	}{
		{"camera_settings", `{"width":0}`},
		{"camera_settings", `{"width":1}`},
		{"user_fps", "25"},
	}
	for _, tt := range tests {
		if err := s.SetState(ctx, tt.key, tt.val); err != nil {
			t.Fatalf("SetState(%s) failed: %v", tt.key, err)
		}
		if got, _ := s.GetState(ctx, tt.key); got != tt.val {
			t.Errorf("GetState(%s) = %s, want %s", tt.key, got, tt.val)
		}
	}

	if _, hit := s.GetState(ctx, "missing"); hit {
		t.Error("Expected miss for unknown key")
	}
}
