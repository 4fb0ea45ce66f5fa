package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrBuiltinDuration = errors.New("built-in duration")

// Duration is a named session length offered by focus --preset.
type Duration struct {
	Name    string
	Minutes int
	Custom  bool
}

// BuiltinDurations are always available and cannot be removed.
var BuiltinDurations = []Duration{
	{Name: "Quick", Minutes: 15},
	{Name: "Focus", Minutes: 25},
	{Name: "Deep", Minutes: 45},
	{Name: "Hour", Minutes: 60},
}

func builtinDuration(name string) (Duration, bool) {
	for _, d := range BuiltinDurations {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Duration{}, false
}

// Durations lists the built-in durations followed by custom ones in the
// order they were added.
func (s *Store) Durations(ctx context.Context) ([]Duration, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, minutes FROM durations ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list durations: %w", err)
	}
	defer rows.Close()

	out := append([]Duration(nil), BuiltinDurations...)
	for rows.Next() {
		d := Duration{Custom: true}
		if err := rows.Scan(&d.Name, &d.Minutes); err != nil {
			return nil, fmt.Errorf("scan duration: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AddDuration saves a custom duration. Adding a name that already exists
// replaces its length; built-in names are rejected.
func (s *Store) AddDuration(ctx context.Context, name string, minutes int) (Duration, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Duration{}, errors.New("duration name is empty")
	}
	if minutes <= 0 {
		return Duration{}, fmt.Errorf("duration %q: minutes must be positive, got %d", name, minutes)
	}
	if _, ok := builtinDuration(name); ok {
		return Duration{}, fmt.Errorf("%w: %s", ErrBuiltinDuration, name)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO durations (name, minutes, created_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET minutes = excluded.minutes
	`, name, minutes, time.Now().UTC())
	if err != nil {
		return Duration{}, fmt.Errorf("add duration %s: %w", name, err)
	}
	return Duration{Name: name, Minutes: minutes, Custom: true}, nil
}

// RemoveDuration deletes a custom duration by name, ignoring case.
func (s *Store) RemoveDuration(ctx context.Context, name string) error {
	if _, ok := builtinDuration(name); ok {
		return fmt.Errorf("%w: %s", ErrBuiltinDuration, name)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM durations WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("remove duration %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// LookupDuration finds a built-in or custom duration by name, ignoring case.
func (s *Store) LookupDuration(ctx context.Context, name string) (Duration, error) {
	if d, ok := builtinDuration(name); ok {
		return d, nil
	}
	d := Duration{Custom: true}
	err := s.db.QueryRowContext(ctx, `SELECT name, minutes FROM durations WHERE name = ?`, strings.TrimSpace(name)).
		Scan(&d.Name, &d.Minutes)
	if errors.Is(err, sql.ErrNoRows) {
		return Duration{}, ErrNotFound
	}
	if err != nil {
		return Duration{}, fmt.Errorf("lookup duration %s: %w", name, err)
	}
	return d, nil
}
