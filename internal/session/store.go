package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"focusflow/internal/audio"
)

var ErrNotFound = errors.New("not found")

// Store keeps focus session history in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the database file and its directory if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sessions: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id           TEXT PRIMARY KEY,
			goal         TEXT NOT NULL,
			planned_sec  INTEGER NOT NULL,
			elapsed_sec  INTEGER NOT NULL DEFAULT 0,
			started_at   DATETIME NOT NULL,
			completed    INTEGER NOT NULL DEFAULT 0,
			blockers     TEXT NOT NULL DEFAULT '',
			insight      TEXT NOT NULL DEFAULT '',
			priority     TEXT NOT NULL DEFAULT 'medium',
			sound        TEXT NOT NULL DEFAULT 'silence'
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
		CREATE TABLE IF NOT EXISTS durations (
			name        TEXT PRIMARY KEY COLLATE NOCASE,
			minutes     INTEGER NOT NULL,
			created_at  DATETIME NOT NULL
		);
	`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces r. A record without an ID is given one.
func (s *Store) Save(ctx context.Context, r *Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, goal, planned_sec, elapsed_sec, started_at, completed, blockers, insight, priority, sound)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			goal = excluded.goal,
			planned_sec = excluded.planned_sec,
			elapsed_sec = excluded.elapsed_sec,
			started_at = excluded.started_at,
			completed = excluded.completed,
			blockers = excluded.blockers,
			insight = excluded.insight,
			priority = excluded.priority,
			sound = excluded.sound
	`, r.ID, r.Goal, int64(r.Planned/time.Second), int64(r.Elapsed/time.Second),
		r.StartedAt.UTC(), r.Completed, r.Blockers, r.Insight, string(r.Priority), r.Sound.String())
	if err != nil {
		return fmt.Errorf("save session %s: %w", r.ID, err)
	}
	return nil
}

// Clear deletes every recorded session and reports how many were removed.
// Custom durations are kept.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("clear sessions: %w", err)
	}
	return res.RowsAffected()
}

const selectColumns = `id, goal, planned_sec, elapsed_sec, started_at, completed, blockers, insight, priority, sound`

func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM sessions WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return r, nil
}

// Recent returns up to limit sessions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		r                  Record
		planned, elapsed   int64
		priority, soundStr string
	)
	if err := sc.Scan(&r.ID, &r.Goal, &planned, &elapsed, &r.StartedAt, &r.Completed,
		&r.Blockers, &r.Insight, &priority, &soundStr); err != nil {
		return nil, err
	}
	r.Planned = time.Duration(planned) * time.Second
	r.Elapsed = time.Duration(elapsed) * time.Second
	r.Priority = Priority(priority)
	sound, err := audio.ParsePreset(soundStr)
	if err != nil {
		return nil, err
	}
	r.Sound = sound
	return &r, nil
}
