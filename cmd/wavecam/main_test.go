package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wavecam/pkg/config"
	"wavecam/pkg/db"
	"wavecam/pkg/store"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "wavecam.db")

	tempConfig := `
server:
    address: localhost:0  # 0 lets OS choose free port
log:
    server:
        path: "` + filepath.Join(dir, "server.log") + `"
        level: "debug"
    requests:
        path: "` + filepath.Join(dir, "requests.log") + `"
        level: "info"
    events:
        path: "` + filepath.Join(dir, "events.log") + `"
db:
    path: "` + dbPath + `"
camera:
    width: 1
    height: 11
persistence:
    interval: 50ms
`
	configPath := filepath.Join(dir, "wavecam.yaml")
	if err := os.WriteFile(configPath, []byte(tempConfig), 0o644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	// Cancel quickly to verify the startup and shutdown sequence
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := run(ctx, configPath); err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	// Shutdown flushes the restored settings
	d, err := db.Init(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen DB: %v", err)
	}
	defer d.Close()
	st := store.NewSQLiteStore(d)

	val, ok := st.GetState(context.Background(), config.KeyCameraSettings)
	if !ok {
		t.Fatal("camera settings were not persisted")
	}
	if val != `{"fps":1,"height":11,"shutter":2,"width":1}` {
		t.Errorf("unexpected persisted settings %s", val)
	}
	if _, ok := st.GetState(context.Background(), "last_maintenance"); !ok {
		t.Error("maintenance did not run")
	}
}

func TestRun_BadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "wavecam.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  address: nowhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := run(context.Background(), configPath); err == nil {
		t.Error("expected error for invalid server address")
	}
}
