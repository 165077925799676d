package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tally-cli/tally/internal/domain"
)

// Store keys.
const (
	KeyConfig = "config"
	KeyTasks  = "tasks"
)

// StoreRepository keeps the task list and settings as two JSON documents in
// a domain.Store.
type StoreRepository struct {
	store    domain.Store
	fallback domain.Settings
}

var (
	_ domain.TaskRepository     = (*StoreRepository)(nil)
	_ domain.SettingsRepository = (*StoreRepository)(nil)
)

// NewStoreRepository wraps store. fallback is returned by LoadSettings while
// the store has no config record.
func NewStoreRepository(store domain.Store, fallback domain.Settings) *StoreRepository {
	return &StoreRepository{store: store, fallback: fallback}
}

// Load returns the persisted task list, empty when nothing was saved yet.
func (r *StoreRepository) Load(ctx context.Context) (domain.TaskList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, ok, err := r.store.Get(KeyTasks)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	tasks := domain.TaskList{}
	if !ok {
		return tasks, nil
	}
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = domain.TaskList{}
	}
	return tasks, nil
}

// Save replaces the whole task list.
func (r *StoreRepository) Save(ctx context.Context, tasks domain.TaskList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tasks == nil {
		tasks = domain.TaskList{}
	}
	return r.store.Set(KeyTasks, tasks)
}

// LoadSettings returns the config record, or the fallback when absent.
// Fields missing from the record keep their fallback values.
func (r *StoreRepository) LoadSettings(ctx context.Context) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, err
	}
	s := r.fallback
	raw, ok, err := r.store.Get(KeyConfig)
	if err != nil {
		return s, fmt.Errorf("load config: %w", err)
	}
	if !ok {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return r.fallback, fmt.Errorf("decode config: %w", err)
	}
	if s.DateFormat == "" {
		s.DateFormat = domain.DefaultDatePattern
	}
	return s, nil
}

// SaveSettings writes the config record.
func (r *StoreRepository) SaveSettings(ctx context.Context, s domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Set(KeyConfig, s)
}
