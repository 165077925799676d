package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// Infrastructure implements these; the tracker depends only on them.

// Store is the persisted key/value backing for settings and tasks.
// Values are JSON documents.
type Store interface {
	// Get returns the raw value for key; ok is false when the key is unset.
	Get(key string) (value json.RawMessage, ok bool, err error)

	// Set replaces the value stored under key.
	Set(key string, value any) error

	// All returns a snapshot of every key.
	All() (map[string]json.RawMessage, error)

	Close() error
}

// Timestamped is implemented by stores that know when a key was last
// written. The zero time means never.
type Timestamped interface {
	UpdatedAt(key string) (time.Time, error)
}

// TaskRepository loads and saves the whole task list.
type TaskRepository interface {
	Load(ctx context.Context) (TaskList, error)
	Save(ctx context.Context, tasks TaskList) error
}

// SettingsRepository loads and saves the tracking settings record.
type SettingsRepository interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}
