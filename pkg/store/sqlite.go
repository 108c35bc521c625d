package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wavecam/pkg/db"
	"wavecam/pkg/model"
)

// Store defines the repository interface.
// It composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	SettingEventStore
	ClipStore
	StateStore

	// Close closes the store connection.
	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Setting Events ---

func (s *SQLiteStore) SaveSettingEvent(ctx context.Context, ev *model.CommitEvent) error {
	query := `INSERT OR REPLACE INTO setting_events
		(id, setting_id, setting, from_index, to_index, from_label, to_label, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		ev.ID, ev.SettingID, ev.Setting, ev.From, ev.To, ev.FromLabel, ev.ToLabel, ev.Status, ev.Timestamp.UTC())
	return err
}

func (s *SQLiteStore) ListSettingEvents(ctx context.Context, limit int) ([]*model.CommitEvent, error) {
	if limit <= 0 {
		return []*model.CommitEvent{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, setting_id, setting, from_index, to_index, from_label, to_label, status, created_at
		 FROM setting_events ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*model.CommitEvent{}
	for rows.Next() {
		var ev model.CommitEvent
		var fromLabel, toLabel sql.NullString
		if err := rows.Scan(&ev.ID, &ev.SettingID, &ev.Setting, &ev.From, &ev.To,
			&fromLabel, &toLabel, &ev.Status, &ev.Timestamp); err != nil {
			return nil, err
		}
		ev.FromLabel = fromLabel.String
		ev.ToLabel = toLabel.String
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// --- Clips ---

func (s *SQLiteStore) SaveClip(ctx context.Context, c *model.Clip) error {
	var ended sql.NullTime
	if !c.EndedAt.IsZero() {
		ended = sql.NullTime{Time: c.EndedAt.UTC(), Valid: true}
	}
	query := `INSERT OR REPLACE INTO clips (id, started_at, ended_at, width, height, fps, shutter)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, c.ID, c.StartedAt.UTC(), ended, c.Width, c.Height, c.FPS, c.Shutter)
	return err
}

const clipColumns = `id, started_at, ended_at, width, height, fps, shutter`

func (s *SQLiteStore) GetClip(ctx context.Context, id string) (*model.Clip, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+clipColumns+` FROM clips WHERE id = ?`, id)
	c, err := scanClip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	return c, err
}

func (s *SQLiteStore) ListClips(ctx context.Context) ([]*model.Clip, error) {
	return s.queryClips(ctx, `SELECT `+clipColumns+` FROM clips ORDER BY started_at DESC`)
}

func (s *SQLiteStore) ListOpenClips(ctx context.Context) ([]*model.Clip, error) {
	return s.queryClips(ctx, `SELECT `+clipColumns+` FROM clips WHERE ended_at IS NULL ORDER BY started_at DESC`)
}

func (s *SQLiteStore) DeleteClips(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM clips")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) queryClips(ctx context.Context, query string, args ...any) ([]*model.Clip, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clips := []*model.Clip{}
	for rows.Next() {
		c, err := scanClip(rows)
		if err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClip(row scanner) (*model.Clip, error) {
	var c model.Clip
	var ended sql.NullTime
	if err := row.Scan(&c.ID, &c.StartedAt, &ended, &c.Width, &c.Height, &c.FPS, &c.Shutter); err != nil {
		return nil, err
	}
	if ended.Valid {
		c.EndedAt = ended.Time
	}
	return &c, nil
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	query := `INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}
