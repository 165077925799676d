// Package sqlite provides SQLite-based persistent storage for tally.
// Uses WAL mode for crash-safe writes.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/tally-cli/tally/internal/domain"
)

// FileName is the database file created inside the data directory.
const FileName = "state.db"

// DB wraps a SQLite connection with WAL mode and migrations.
// It implements domain.Store.
type DB struct {
	db *sql.DB
}

var (
	_ domain.Store       = (*DB)(nil)
	_ domain.Timestamped = (*DB)(nil)
)

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, FileName)
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// One JSON document per key ("config", "tasks").
		`CREATE TABLE IF NOT EXISTS store (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Key/Value Store ────────────────────────────────────────────────────────

// Get retrieves the JSON value stored under key.
func (d *DB) Get(key string) (json.RawMessage, bool, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return json.RawMessage(value), true, nil
}

// Set encodes value as JSON and upserts it under key.
func (d *DB) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = d.db.Exec(
		`INSERT INTO store (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at`,
		key, string(data), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// All returns every key with its JSON value.
func (d *DB) All() (map[string]json.RawMessage, error) {
	rows, err := d.db.Query(`SELECT key, value FROM store ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		all[key] = json.RawMessage(value)
	}
	return all, rows.Err()
}

// UpdatedAt returns when key was last written, zero if never.
func (d *DB) UpdatedAt(key string) (time.Time, error) {
	var ts int64
	err := d.db.QueryRow(`SELECT updated_at FROM store WHERE key = ?`, key).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(ts, 0), nil
}
