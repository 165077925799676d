// Package tracker implements the time-tracking operations on top of a task
// repository. Every operation loads the full task list, applies domain
// transitions to a restored copy, and saves the list exactly once, only when
// it succeeds. Failed operations persist nothing.
package tracker

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tally-cli/tally/internal/domain"
	"github.com/tally-cli/tally/internal/infra/metrics"
)

// TimeTracker orchestrates task transitions and reports results to out.
type TimeTracker struct {
	repo     domain.TaskRepository
	settings domain.Settings
	out      io.Writer
	now      func() time.Time
	metrics  *metrics.Recorder
}

// Option customizes a TimeTracker.
type Option func(*TimeTracker)

// WithOutput sets where result lines and the summary table are written.
func WithOutput(w io.Writer) Option {
	return func(t *TimeTracker) { t.out = w }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *TimeTracker) { t.now = now }
}

// WithMetrics records operation counters on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(t *TimeTracker) { t.metrics = r }
}

// New creates a tracker over repo using settings.
func New(repo domain.TaskRepository, settings domain.Settings, opts ...Option) *TimeTracker {
	t := &TimeTracker{
		repo:     repo,
		settings: settings,
		out:      os.Stdout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Settings returns the settings the tracker was built with.
func (t *TimeTracker) Settings() domain.Settings {
	return t.settings
}

// ─── Start ──────────────────────────────────────────────────────────────────

// Start opens a new interval on the named task, creating it if needed. With
// pauseOthers, every other task in progress is paused first.
func (t *TimeTracker) Start(ctx context.Context, name, description string, pauseOthers bool) (err error) {
	defer func() { t.metrics.Operation("start", err) }()

	if name == "" {
		return domain.ErrNameRequired
	}
	tasks, err := t.repo.Load(ctx)
	if err != nil {
		return err
	}
	now := t.now()

	var closed []closedSpan
	if pauseOthers {
		for i := range tasks {
			if tasks[i].Name == name || tasks[i].Status != domain.StatusInProgress {
				continue
			}
			other := domain.RestoreTask(tasks[i])
			span := openSpan(other, now)
			if other.Stop(domain.StatusPaused, now) == nil {
				tasks[i] = *other
				closed = append(closed, span)
			}
		}
	}

	task, ok := tasks.Find(name)
	if !ok {
		task = domain.NewTask(name)
	}
	if err := task.Start(description, now); err != nil {
		return fmt.Errorf("task %s: %w", name, err)
	}
	tasks.Upsert(task)

	if err := t.save(ctx, tasks); err != nil {
		return err
	}
	t.recordSpans(closed)
	t.printf("Task %s started.\n", name)
	return nil
}

// ─── Stop ───────────────────────────────────────────────────────────────────

// Stop moves the named task to status (PAUSED or FINISHED). An empty name
// stops every task in progress. timestamp is optional: "H:MM" for today, or a
// full date in the date+time format.
func (t *TimeTracker) Stop(ctx context.Context, name string, status domain.TaskStatus, timestamp string) (err error) {
	defer func() { t.metrics.Operation("stop", err) }()

	if status != domain.StatusPaused && status != domain.StatusFinished {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	tasks, err := t.repo.Load(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return domain.ErrNoTasks
	}
	now := t.now()

	if name == "" {
		return t.stopAllInProgress(ctx, tasks, status, now)
	}

	idx := tasks.Index(name)
	if idx == -1 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, name)
	}
	task := domain.RestoreTask(tasks[idx])

	at, err := t.stopTime(timestamp, now)
	if err != nil {
		return err
	}
	if last, ok := task.LastInterval(); ok && last.Open() && at.Before(last.Start) {
		return fmt.Errorf("task %s: %w (started %s)", name, domain.ErrStopBeforeStart,
			t.settings.DateTime().Format(last.Start))
	}

	span := openSpan(task, at)
	if err := task.Stop(status, at); err != nil {
		return fmt.Errorf("task %s: %w", name, err)
	}
	tasks[idx] = *task

	if err := t.save(ctx, tasks); err != nil {
		return err
	}
	t.recordSpans([]closedSpan{span})
	t.printf("Task %s has been %s.\n", name, status.Verb())
	return nil
}

func (t *TimeTracker) stopAllInProgress(ctx context.Context, tasks domain.TaskList, status domain.TaskStatus, now time.Time) error {
	var closed []closedSpan
	for i := range tasks {
		if tasks[i].Status != domain.StatusInProgress {
			continue
		}
		task := domain.RestoreTask(tasks[i])
		span := openSpan(task, now)
		if task.Stop(status, now) == nil {
			tasks[i] = *task
			closed = append(closed, span)
		}
	}

	if err := t.save(ctx, tasks); err != nil {
		return err
	}
	t.recordSpans(closed)
	t.printf("All tasks in progress have been %s.\n", status.Verb())
	return nil
}

// stopTime resolves the optional stop timestamp. Anything containing "/" is
// a full date; otherwise "H:MM" on today's date is tried first and a full
// date second, so formats like DD.MM.YYYY still work.
func (t *TimeTracker) stopTime(timestamp string, now time.Time) (time.Time, error) {
	if timestamp == "" {
		return now, nil
	}
	full := t.settings.DateTime()
	if !strings.Contains(timestamp, "/") {
		if spec, err := domain.ParseClockTime(timestamp); err == nil {
			return spec.On(now), nil
		}
	}
	at, err := full.Parse(timestamp, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (use H:MM or %s)", domain.ErrInvalidTime, timestamp, full.Pattern())
	}
	return at, nil
}

// ─── Add ────────────────────────────────────────────────────────────────────

// Add records timeSpent ("H:MM", "Nh", "Nm") as a closed interval starting at
// date (date+time format, default now). A task created this way is FINISHED.
func (t *TimeTracker) Add(ctx context.Context, name, timeSpent, date string) (err error) {
	defer func() { t.metrics.Operation("add", err) }()

	if name == "" {
		return domain.ErrNameRequired
	}
	format := t.settings.DateTime()
	now := t.now()
	if date == "" {
		date = format.Format(now)
	} else if _, err := format.Parse(date, time.Local); err != nil {
		return err
	}

	spent, err := domain.ParseTimeSpent(timeSpent)
	if err != nil {
		return err
	}

	tasks, err := t.repo.Load(ctx)
	if err != nil {
		return err
	}
	task, existed := tasks.Find(name)
	if !existed {
		task = domain.NewTask(name)
	}
	if err := task.Add(date, format, spent.Hours, spent.Minutes); err != nil {
		return err
	}
	if !existed {
		task.Status = domain.StatusFinished
	}
	tasks.Upsert(task)

	if err := t.save(ctx, tasks); err != nil {
		return err
	}
	t.metrics.Tracked(name, spent.Span())
	if existed {
		t.printf("The entered time was added in the task %s.\n", name)
	} else {
		t.printf("Task %s added.\n", name)
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func (t *TimeTracker) save(ctx context.Context, tasks domain.TaskList) error {
	if err := t.repo.Save(ctx, tasks); err != nil {
		log.Printf("[tracker] save tasks: %v", err)
		return fmt.Errorf("%w: %v", domain.ErrPersist, err)
	}
	t.metrics.Snapshot(tasks)
	return nil
}

func (t *TimeTracker) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// closedSpan is an interval about to be closed, kept for metrics.
type closedSpan struct {
	task string
	d    time.Duration
}

func openSpan(task *domain.Task, at time.Time) closedSpan {
	last, ok := task.LastInterval()
	if !ok || !last.Open() {
		return closedSpan{task: task.Name}
	}
	return closedSpan{task: task.Name, d: at.Sub(last.Start)}
}

func (t *TimeTracker) recordSpans(spans []closedSpan) {
	for _, s := range spans {
		t.metrics.Tracked(s.task, s.d)
	}
}
