package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rowanfield/cartsync/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// Row keys for the two persisted blobs.
const (
	keyItems   = "items"
	keyPending = "pending"
)

// SQLite stores snapshots in a single-table SQLite database. Each blob is
// one row: the JSON-serialized item array under a fixed key.
//
// SQLite implements both Store and QueueStore.
type SQLite struct {
	db *sql.DB
}

// Open creates or opens the snapshot database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect snapshot database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors under the engine's write pattern.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply snapshot schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load implements Store.
func (s *SQLite) Load(ctx context.Context) ([]model.Item, error) {
	return s.load(ctx, keyItems)
}

// Save implements Store.
func (s *SQLite) Save(ctx context.Context, items []model.Item) error {
	return s.save(ctx, keyItems, items)
}

// LoadQueue implements QueueStore.
func (s *SQLite) LoadQueue(ctx context.Context) ([]model.Item, error) {
	return s.load(ctx, keyPending)
}

// SaveQueue implements QueueStore.
func (s *SQLite) SaveQueue(ctx context.Context, items []model.Item) error {
	return s.save(ctx, keyPending, items)
}

func (s *SQLite) load(ctx context.Context, key string) ([]model.Item, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshots WHERE key = ?`, key,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // no cached data
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", key, err)
	}

	var items []model.Item
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		// Corrupt blob. The caller treats this the same as missing data.
		return nil, fmt.Errorf("decode snapshot %q: %w", key, err)
	}
	return items, nil
}

func (s *SQLite) save(ctx context.Context, key string, items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(blob))
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}
