package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Register driver
)

// DB wraps the sql.DB connection.
type DB struct {
	*sql.DB
}

// Init opens the database and runs migrations.
func Init(path string) (*DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	// WAL lets the HTTP readers run while the persistence job writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000;"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	d := &DB{db}
	// Single connection avoids SQLITE_BUSY on concurrent writes
	db.SetMaxOpenConns(1)

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return d, nil
}

// PruneHistory removes commit events older than the specified duration.
// It returns the number of rows deleted.
func (d *DB) PruneHistory(olderThan time.Duration) (int64, error) {
	deadline := time.Now().Add(-olderThan).UTC()
	res, err := d.Exec("DELETE FROM setting_events WHERE created_at < ?", deadline)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (d *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS persistent_state (
			key TEXT PRIMARY KEY,
			value TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS setting_events (
			id TEXT PRIMARY KEY,
			setting_id INTEGER,
			setting TEXT,
			from_index INTEGER,
			to_index INTEGER,
			from_label TEXT,
			to_label TEXT,
			status TEXT,
			created_at DATETIME
		);`,
		`CREATE INDEX IF NOT EXISTS idx_setting_events_created ON setting_events(created_at);`,
		`CREATE TABLE IF NOT EXISTS clips (
			id TEXT PRIMARY KEY,
			started_at DATETIME,
			ended_at DATETIME,
			width TEXT,
			height TEXT,
			fps TEXT,
			shutter TEXT
		);`,
	}

	for _, q := range queries {
		if _, err := d.Exec(q); err != nil {
			return fmt.Errorf("exec error: %w query: %s", err, q)
		}
	}

	// Migration: databases from before labels were stored
	var colCount int
	err := d.QueryRow("SELECT count(*) FROM pragma_table_info('setting_events') WHERE name='to_label'").Scan(&colCount)
	if err == nil && colCount == 0 {
		for _, col := range []string{"from_label", "to_label"} {
			if _, err := d.Exec("ALTER TABLE setting_events ADD COLUMN " + col + " TEXT"); err != nil {
				return fmt.Errorf("failed to add %s column: %w", col, err)
			}
		}
	}

	return nil
}
