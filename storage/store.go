package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// KeySelectedFrame stores the selected frame id as a decimal string.
const KeySelectedFrame = "selectedFrameId"

const schema = `
CREATE TABLE IF NOT EXISTS prefs (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS captures (
	id         TEXT PRIMARY KEY,
	frame_id   INTEGER NOT NULL,
	path       TEXT NOT NULL,
	photos     INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS captures_created_at ON captures(created_at DESC);
`

// Capture is a saved composite recorded in the gallery.
type Capture struct {
	ID        string
	FrameID   int
	Path      string
	Photos    int
	CreatedAt time.Time
}

// Store persists preferences and the gallery in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// dsn adds the per-connection pragmas understood by modernc.org/sqlite.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	if path != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "synchronous(NORMAL)")
	}
	return "file:" + path + "?" + q.Encode()
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("storage: empty database path")
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("storage: mkdir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	// one writer; an in-memory database also lives on a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Get returns the preference value for key; ok is false when unset.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a preference, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefs(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("storage: set %s: %w", key, err)
	}
	return nil
}

// LoadFrame returns the persisted frame id. An unparsable value counts as no
// selection.
func (s *Store) LoadFrame(ctx context.Context) (int, bool, error) {
	v, ok, err := s.Get(ctx, KeySelectedFrame)
	if err != nil || !ok {
		return 0, false, err
	}
	id, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("ignoring malformed frame preference", "value", v)
		}
		return 0, false, nil
	}
	return id, true, nil
}

func (s *Store) SaveFrame(ctx context.Context, id int) error {
	return s.Set(ctx, KeySelectedFrame, strconv.Itoa(id))
}

// RecordCapture adds c to the gallery.
func (s *Store) RecordCapture(ctx context.Context, c Capture) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO captures(id, frame_id, path, photos, created_at) VALUES(?, ?, ?, ?, ?)`,
		c.ID, c.FrameID, c.Path, c.Photos, c.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("storage: record capture: %w", err)
	}
	return nil
}

// RecentCaptures lists up to limit gallery entries, newest first.
func (s *Store) RecentCaptures(ctx context.Context, limit int) ([]Capture, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, frame_id, path, photos, created_at FROM captures ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: list captures: %w", err)
	}
	defer rows.Close()
	var out []Capture
	for rows.Next() {
		var c Capture
		var ms int64
		if err := rows.Scan(&c.ID, &c.FrameID, &c.Path, &c.Photos, &ms); err != nil {
			return nil, fmt.Errorf("storage: scan capture: %w", err)
		}
		c.CreatedAt = time.UnixMilli(ms)
		out = append(out, c)
	}
	return out, rows.Err()
}
