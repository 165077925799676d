// Package health runs consistency checks over a tally store.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tally-cli/tally/internal/app/tracker"
	"github.com/tally-cli/tally/internal/domain"
)

// Check defines a single health check with an optional repair action.
type Check struct {
	Name      string
	CheckFn   func(ctx context.Context) error
	RecoverFn func(ctx context.Context) error
}

// Status represents the result of a health check.
type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	Repaired  bool      `json:"repaired,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// pinger is implemented by stores backed by a database connection.
type pinger interface {
	Ping() error
}

// Checker runs the store checks.
type Checker struct {
	checks   []Check
	statuses []Status
	now      func() time.Time
}

// NewChecker creates a checker for store, kept under dir. Settings records
// that fail validation are repaired to fallback when repair is set.
func NewChecker(store domain.Store, dir string, fallback domain.Settings, repair bool) *Checker {
	c := &Checker{now: time.Now}
	c.checks = []Check{
		{
			Name: "data_dir",
			CheckFn: func(ctx context.Context) error {
				return checkDir(dir)
			},
		},
		{
			Name: "store",
			CheckFn: func(ctx context.Context) error {
				if p, ok := store.(pinger); ok {
					if err := p.Ping(); err != nil {
						return fmt.Errorf("ping store: %w", err)
					}
				}
				_, err := store.All()
				return err
			},
		},
		{
			Name: "settings",
			CheckFn: func(ctx context.Context) error {
				return checkSettings(store)
			},
		},
		{
			Name: "tasks",
			CheckFn: func(ctx context.Context) error {
				return checkTasks(store)
			},
		},
	}
	if repair {
		c.checks[2].RecoverFn = func(ctx context.Context) error {
			return store.Set(tracker.KeyConfig, fallback)
		}
	}
	return c
}

// Run executes every check once, attempting recovery on failure.
func (c *Checker) Run(ctx context.Context) []Status {
	statuses := make([]Status, 0, len(c.checks))
	for _, check := range c.checks {
		if ctx.Err() != nil {
			break
		}
		s := Status{Name: check.Name, CheckedAt: c.now()}
		if err := check.CheckFn(ctx); err != nil {
			s.Error = err.Error()
			if check.RecoverFn != nil && check.RecoverFn(ctx) == nil {
				s.Repaired = true
				s.Healthy = check.CheckFn(ctx) == nil
			}
		} else {
			s.Healthy = true
		}
		statuses = append(statuses, s)
	}
	c.statuses = statuses
	return c.Statuses()
}

// Statuses returns the latest results.
func (c *Checker) Statuses() []Status {
	result := make([]Status, len(c.statuses))
	copy(result, c.statuses)
	return result
}

// IsHealthy returns true if all checks passed.
func (c *Checker) IsHealthy() bool {
	for _, s := range c.statuses {
		if !s.Healthy {
			return false
		}
	}
	return true
}

// ─── Check Implementations ──────────────────────────────────────────────────

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("check data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func checkSettings(store domain.Store) error {
	raw, ok, err := store.Get(tracker.KeyConfig)
	if err != nil || !ok {
		return err
	}
	var s domain.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if s.DateFormat == "" {
		return nil
	}
	f, err := domain.ParseDateFormat(s.DateFormat)
	if err != nil {
		return err
	}
	if !f.HasDate() {
		return fmt.Errorf("%w: date format %q has no date tokens", domain.ErrInvalidSetting, s.DateFormat)
	}
	return nil
}

// checkTasks verifies the task list invariants: unique names, known
// statuses, at most one open interval, and no interval ending before it
// starts.
func checkTasks(store domain.Store) error {
	raw, ok, err := store.Get(tracker.KeyTasks)
	if err != nil || !ok {
		return err
	}
	var tasks domain.TaskList
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return fmt.Errorf("decode tasks: %w", err)
	}

	seen := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		if task.Name == "" {
			return domain.ErrNameRequired
		}
		if seen[task.Name] {
			return fmt.Errorf("task %s: duplicate name", task.Name)
		}
		seen[task.Name] = true

		if task.Status != "" && !task.Status.Valid() {
			return fmt.Errorf("task %s: unknown status %q", task.Name, task.Status)
		}
		open := 0
		for _, iv := range task.Log {
			if iv.Open() {
				open++
				continue
			}
			if iv.Stop.Before(iv.Start) {
				return fmt.Errorf("task %s: %w", task.Name, domain.ErrStopBeforeStart)
			}
		}
		if open > 1 {
			return fmt.Errorf("task %s: %d open intervals", task.Name, open)
		}
	}
	return nil
}
