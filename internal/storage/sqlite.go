package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var errNotInitialized = errors.New("catalog is not initialized")

type SQLiteCatalog struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteCatalog(path string) *SQLiteCatalog {
	return &SQLiteCatalog{path: path}
}

func (c *SQLiteCatalog) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return errors.New("sqlite path is required")
	}
	if c.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	c.db = db
	return nil
}

func (c *SQLiteCatalog) Record(ctx context.Context, meta RunMetadata) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, pilot, zone, recorded_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			pilot = excluded.pilot,
			zone = excluded.zone,
			recorded_at = excluded.recorded_at,
			payload = excluded.payload
	`, meta.ID, meta.Pilot, meta.Zone, meta.Timestamp.UTC().Format(time.RFC3339Nano), payload)
	return err
}

func (c *SQLiteCatalog) Runs(ctx context.Context) ([]RunMetadata, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT payload FROM runs ORDER BY recorded_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RunMetadata, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var meta RunMetadata
		if err := json.Unmarshal(payload, &meta); err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, rows.Err()
}

func (c *SQLiteCatalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *SQLiteCatalog) getDB() (*sql.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, errNotInitialized
	}
	return c.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			pilot TEXT NOT NULL,
			zone TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
