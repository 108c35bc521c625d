package db_test

import (
	"path/filepath"
	"testing"
	"time"

	"wavecam/pkg/db"
)

func TestDB(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "db_test.db")

	d, err := db.Init(path)
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if d == nil {
		t.Fatal("Init() returned nil DB")
	}
	d.Close()

	// Re-opening runs the migrations again on an existing schema.
	d, err = db.Init(path)
	if err != nil {
		t.Fatalf("second Init() failed: %v", err)
	}
	d.Close()
}

func TestPruneHistory(t *testing.T) {
	d, err := db.Init(filepath.Join(t.TempDir(), "prune.db"))
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer d.Close()

	now := time.Now().UTC()
	rows := []struct {
		id  string
		age time.Duration
	}{
		{"old-1", 48 * time.Hour},
		{"old-2", 30 * time.Hour},
		{"fresh", time.Minute},
	}
	for _, r := range rows {
		if _, err := d.Exec(`INSERT INTO setting_events (id, setting, created_at) VALUES (?, 'fps', ?)`, r.id, now.Add(-r.age)); err != nil {
			t.Fatalf("insert %s: %v", r.id, err)
		}
	}

	n, err := d.PruneHistory(24 * time.Hour)
	if err != nil {
		t.Fatalf("PruneHistory() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows pruned, got %d", n)
	}

	var left int
	if err := d.QueryRow(`SELECT count(*) FROM setting_events`).Scan(&left); err != nil {
		t.Fatal(err)
	}
	if left != 1 {
		t.Errorf("expected 1 row left, got %d", left)
	}
}
