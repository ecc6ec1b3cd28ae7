// Package preset persists named searches in a SQLite database.
package preset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/psacc/lumberjack/internal/model"
)

const schema = `CREATE TABLE IF NOT EXISTS presets (
	name       TEXT PRIMARY KEY,
	grp        TEXT NOT NULL DEFAULT '',
	start_spec TEXT NOT NULL DEFAULT '',
	end_spec   TEXT NOT NULL DEFAULT '',
	query      TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
)`

// ErrEmptyName is returned when saving a preset without a name.
var ErrEmptyName = errors.New("preset name must not be empty")

// Store is a preset database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the preset database at path.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create preset directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open presets %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init presets %s: %w", path, err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns every preset ordered by name.
func (s *Store) List(ctx context.Context) ([]model.Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, grp, start_spec, end_spec, query, updated_at FROM presets ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var presets []model.Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("list presets: %w", err)
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// Get returns the named preset, or nil if it does not exist.
func (s *Store) Get(ctx context.Context, name string) (*model.Preset, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT name, grp, start_spec, end_spec, query, updated_at FROM presets WHERE name = ?",
		strings.TrimSpace(name))
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preset %q: %w", name, err)
	}
	return &p, nil
}

// Save inserts p, replacing any preset with the same name. UpdatedAt is
// set to the current time.
func (s *Store) Save(ctx context.Context, p model.Preset) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrEmptyName
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO presets (name, grp, start_spec, end_spec, query, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			grp = excluded.grp,
			start_spec = excluded.start_spec,
			end_spec = excluded.end_spec,
			query = excluded.query,
			updated_at = excluded.updated_at`,
		name, p.Group, p.Start, p.End, p.Query, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save preset %q: %w", name, err)
	}
	return nil
}

// Delete removes the named preset and reports whether it existed.
func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM presets WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return false, fmt.Errorf("delete preset %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete preset %q: %w", name, err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(sc scanner) (model.Preset, error) {
	var (
		p           model.Preset
		updatedAtMs int64
	)
	if err := sc.Scan(&p.Name, &p.Group, &p.Start, &p.End, &p.Query, &updatedAtMs); err != nil {
		return model.Preset{}, err
	}
	p.UpdatedAt = time.UnixMilli(updatedAtMs).UTC()
	return p, nil
}
