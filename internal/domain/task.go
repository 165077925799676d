// Package domain holds the time-tracking model: tasks, their interval log,
// and the rules for moving a task between statuses.
// A Task is a named unit of work: start → pause/finish → (start again) …
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus tracks task lifecycle.
type TaskStatus string

const (
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusPaused     TaskStatus = "PAUSED"
	StatusFinished   TaskStatus = "FINISHED"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusPaused, StatusFinished:
		return true
	}
	return false
}

// Label is the human form used in the daily summary.
func (s TaskStatus) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusPaused:
		return "Paused"
	case StatusFinished:
		return "Finished"
	default:
		return ""
	}
}

// Verb is the past participle used in stop messages ("has been paused").
func (s TaskStatus) Verb() string {
	if s == StatusFinished {
		return "completed"
	}
	return "paused"
}

// Interval is one continuous period of work. Stop is nil while it is open.
type Interval struct {
	ID    string     `json:"id" yaml:"id"`
	Start time.Time  `json:"start" yaml:"start"`
	Stop  *time.Time `json:"stop,omitempty" yaml:"stop,omitempty"`
}

// Open reports whether the interval has no stop time yet.
func (iv Interval) Open() bool {
	return iv.Stop == nil
}

// Duration returns stop-start, or now-start for an open interval.
func (iv Interval) Duration(now time.Time) time.Duration {
	if iv.Stop == nil {
		return now.Sub(iv.Start)
	}
	return iv.Stop.Sub(iv.Start)
}

func newInterval(start time.Time, stop *time.Time) Interval {
	return Interval{ID: uuid.NewString(), Start: start, Stop: stop}
}

// Task is a named unit of tracked work with its interval log.
type Task struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Status      TaskStatus `json:"status" yaml:"status"`
	Log         []Interval `json:"log" yaml:"log"`
}

// NewTask returns a fresh task with default state and an empty log.
func NewTask(name string) *Task {
	return &Task{
		Name:   name,
		Status: StatusInProgress,
		Log:    []Interval{},
	}
}

// RestoreTask rebuilds a task from a persisted record. The log is copied so
// mutating the returned task never touches the caller's snapshot.
func RestoreTask(rec Task) *Task {
	t := rec
	t.Log = make([]Interval, len(rec.Log))
	for i, iv := range rec.Log {
		if iv.Stop != nil {
			stop := *iv.Stop
			iv.Stop = &stop
		}
		t.Log[i] = iv
	}
	if t.Status == "" {
		t.Status = StatusInProgress
	}
	return &t
}

// LastInterval returns the tail of the log.
func (t *Task) LastInterval() (Interval, bool) {
	if len(t.Log) == 0 {
		return Interval{}, false
	}
	return t.Log[len(t.Log)-1], true
}

// IsRunning reports whether the tail interval is open.
func (t *Task) IsRunning() bool {
	last, ok := t.LastInterval()
	return ok && last.Open()
}

// Start opens a new interval at now. The description is replaced, cleared
// when empty.
func (t *Task) Start(description string, now time.Time) error {
	if t.IsRunning() {
		return ErrAlreadyStarted
	}
	t.Log = append(t.Log, newInterval(now, nil))
	t.Description = description
	t.Status = StatusInProgress
	return nil
}

// Stop moves the task to target, closing the open tail interval at at.
// Stopping into the current status is rejected even if at differs.
func (t *Task) Stop(target TaskStatus, at time.Time) error {
	if t.Status == target {
		if target == StatusFinished {
			return ErrAlreadyFinished
		}
		return ErrAlreadyPaused
	}
	if t.IsRunning() {
		stop := at
		t.Log[len(t.Log)-1].Stop = &stop
	}
	t.Status = target
	return nil
}

// Add prepends a closed interval starting at date (parsed under format) and
// lasting hours:minutes. Manual entries go to the head of the log.
func (t *Task) Add(date string, format DateFormat, hours, minutes int) error {
	start, err := format.Parse(date, time.Local)
	if err != nil {
		return err
	}
	stop := start.Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute)
	t.Log = append([]Interval{newInterval(start, &stop)}, t.Log...)
	return nil
}

// DurationOn sums the intervals whose start falls on day, where "falls on"
// means both format to the same string under format. The second result is
// false when no interval matched.
func (t *Task) DurationOn(day string, format DateFormat, now time.Time) (time.Duration, bool) {
	var total time.Duration
	matched := false
	for _, iv := range t.Log {
		if format.Format(iv.Start) != day {
			continue
		}
		matched = true
		total += iv.Duration(now)
	}
	return total, matched
}

// TaskList is the ordered snapshot of every task in the store.
type TaskList []Task

// Index returns the position of name, or -1.
func (l TaskList) Index(name string) int {
	for i, t := range l {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// Find restores the named task, or reports false.
func (l TaskList) Find(name string) (*Task, bool) {
	i := l.Index(name)
	if i == -1 {
		return nil, false
	}
	return RestoreTask(l[i]), true
}

// Upsert replaces the task with the same name or appends it.
// It reports whether the task was new.
func (l *TaskList) Upsert(t *Task) bool {
	if i := l.Index(t.Name); i != -1 {
		(*l)[i] = *t
		return false
	}
	*l = append(*l, *t)
	return true
}

// CountByStatus tallies tasks per status.
func (l TaskList) CountByStatus() map[TaskStatus]int {
	counts := map[TaskStatus]int{
		StatusInProgress: 0,
		StatusPaused:     0,
		StatusFinished:   0,
	}
	for _, t := range l {
		counts[t.Status]++
	}
	return counts
}
