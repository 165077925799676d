package domain

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)

// ─── Status ─────────────────────────────────────────────────────────────────

func TestTaskStatus_Labels(t *testing.T) {
	tests := []struct {
		status TaskStatus
		label  string
		verb   string
	}{
		{StatusInProgress, "In Progress", "paused"},
		{StatusPaused, "Paused", "paused"},
		{StatusFinished, "Finished", "completed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if !tt.status.Valid() {
				t.Errorf("Valid() = false for %s", tt.status)
			}
			if got := tt.status.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
			if got := tt.status.Verb(); got != tt.verb {
				t.Errorf("Verb() = %q, want %q", got, tt.verb)
			}
		})
	}
	if TaskStatus("DONE").Valid() {
		t.Error("Valid() = true for unknown status")
	}
}

// ─── Factories ──────────────────────────────────────────────────────────────

func TestNewTask_Defaults(t *testing.T) {
	task := NewTask("t1")
	if task.Name != "t1" || task.Description != "" {
		t.Errorf("NewTask() = %+v", task)
	}
	if task.Status != StatusInProgress {
		t.Errorf("Status = %s, want %s", task.Status, StatusInProgress)
	}
	if len(task.Log) != 0 {
		t.Errorf("len(Log) = %d, want 0", len(task.Log))
	}
}

func TestRestoreTask_CopiesLog(t *testing.T) {
	stop := t0.Add(time.Hour)
	rec := Task{
		Name:   "t1",
		Status: StatusPaused,
		Log:    []Interval{{ID: "a", Start: t0, Stop: &stop}},
	}

	task := RestoreTask(rec)
	*task.Log[0].Stop = t0.Add(2 * time.Hour)
	task.Log[0].ID = "b"

	if !rec.Log[0].Stop.Equal(stop) {
		t.Error("mutating restored task changed the record's stop time")
	}
	if rec.Log[0].ID != "a" {
		t.Error("mutating restored task changed the record's interval")
	}
}

// ─── Start ──────────────────────────────────────────────────────────────────

func TestTask_Start(t *testing.T) {
	task := NewTask("t1")
	if err := task.Start("desc", t0); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if task.Status != StatusInProgress {
		t.Errorf("Status = %s, want IN_PROGRESS", task.Status)
	}
	if len(task.Log) != 1 || !task.Log[0].Open() {
		t.Fatalf("Log = %+v, want one open interval", task.Log)
	}
	if task.Log[0].ID == "" {
		t.Error("interval has no id")
	}
	if task.Description != "desc" {
		t.Errorf("Description = %q, want %q", task.Description, "desc")
	}
}

func TestTask_StartTwice(t *testing.T) {
	task := NewTask("t1")
	task.Start("", t0)

	err := task.Start("again", t0.Add(time.Minute))
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
	if len(task.Log) != 1 {
		t.Errorf("len(Log) = %d, want 1", len(task.Log))
	}
}

func TestTask_StartClearsDescription(t *testing.T) {
	task := NewTask("t1")
	task.Start("first", t0)
	task.Stop(StatusPaused, t0.Add(time.Hour))
	task.Start("", t0.Add(2*time.Hour))

	if task.Description != "" {
		t.Errorf("Description = %q, want empty", task.Description)
	}
	if len(task.Log) != 2 {
		t.Errorf("len(Log) = %d, want 2", len(task.Log))
	}
}

// ─── Stop ───────────────────────────────────────────────────────────────────

func TestTask_Stop(t *testing.T) {
	task := NewTask("t1")
	task.Start("", t0)

	at := t0.Add(90 * time.Minute)
	if err := task.Stop(StatusPaused, at); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if task.Status != StatusPaused {
		t.Errorf("Status = %s, want PAUSED", task.Status)
	}
	last, _ := task.LastInterval()
	if last.Open() || !last.Stop.Equal(at) {
		t.Errorf("last interval = %+v, want closed at %v", last, at)
	}
}

func TestTask_StopSameStatus(t *testing.T) {
	tests := []struct {
		target TaskStatus
		want   error
	}{
		{StatusPaused, ErrAlreadyPaused},
		{StatusFinished, ErrAlreadyFinished},
	}
	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			task := NewTask("t1")
			task.Start("", t0)
			task.Stop(tt.target, t0.Add(time.Hour))

			err := task.Stop(tt.target, t0.Add(2*time.Hour))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Stop() error = %v, want %v", err, tt.want)
			}
			last, _ := task.LastInterval()
			if !last.Stop.Equal(t0.Add(time.Hour)) {
				t.Errorf("stop time changed to %v", last.Stop)
			}
		})
	}
}

func TestTask_StopPausedToFinished(t *testing.T) {
	task := NewTask("t1")
	task.Start("", t0)
	task.Stop(StatusPaused, t0.Add(time.Hour))

	if err := task.Stop(StatusFinished, t0.Add(3*time.Hour)); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	last, _ := task.LastInterval()
	if !last.Stop.Equal(t0.Add(time.Hour)) {
		t.Errorf("closed interval was re-stopped at %v", last.Stop)
	}
	if task.Status != StatusFinished {
		t.Errorf("Status = %s, want FINISHED", task.Status)
	}
}

// ─── Add ────────────────────────────────────────────────────────────────────

func TestTask_AddPrepends(t *testing.T) {
	task := NewTask("t1")
	task.Start("", t0)

	f := MustDateFormat("MM/DD/YYYY").WithClock()
	if err := task.Add("05/30/2024 8:15", f, 2, 30); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if len(task.Log) != 2 {
		t.Fatalf("len(Log) = %d, want 2", len(task.Log))
	}

	head := task.Log[0]
	wantStart := time.Date(2024, 5, 30, 8, 15, 0, 0, time.Local)
	if !head.Start.Equal(wantStart) {
		t.Errorf("head start = %v, want %v", head.Start, wantStart)
	}
	if head.Open() || head.Stop.Sub(head.Start) != 150*time.Minute {
		t.Errorf("head = %+v, want closed 2h30m interval", head)
	}
	if !task.IsRunning() {
		t.Error("open tail interval should still be running")
	}
}

func TestTask_AddInvalidDate(t *testing.T) {
	task := NewTask("t1")
	err := task.Add("yesterday", MustDateFormat("MM/DD/YYYY").WithClock(), 1, 0)
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("Add() error = %v, want ErrInvalidDate", err)
	}
	if len(task.Log) != 0 {
		t.Errorf("len(Log) = %d, want 0", len(task.Log))
	}
}

// ─── Aggregation ────────────────────────────────────────────────────────────

func TestTask_DurationOn(t *testing.T) {
	f := MustDateFormat("MM/DD/YYYY")
	s1 := t0.Add(time.Hour)
	s2 := t0.Add(24*time.Hour + 30*time.Minute)
	task := Task{Log: []Interval{
		{Start: t0, Stop: &s1},
		{Start: t0.Add(24 * time.Hour), Stop: &s2},
		{Start: t0.Add(5 * time.Hour)},
	}}

	now := t0.Add(5*time.Hour + 20*time.Minute)
	got, ok := task.DurationOn("06/01/2024", f, now)
	if !ok {
		t.Fatal("DurationOn() matched nothing")
	}
	if want := 80 * time.Minute; got != want {
		t.Errorf("DurationOn() = %v, want %v", got, want)
	}

	if _, ok := task.DurationOn("06/03/2024", f, now); ok {
		t.Error("DurationOn() matched a day with no intervals")
	}
}

// ─── TaskList ───────────────────────────────────────────────────────────────

func TestTaskList_Upsert(t *testing.T) {
	var list TaskList
	if !list.Upsert(NewTask("a")) {
		t.Error("Upsert(new) = false, want true")
	}
	list.Upsert(NewTask("b"))

	a := NewTask("a")
	a.Description = "changed"
	if list.Upsert(a) {
		t.Error("Upsert(existing) = true, want false")
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Description != "changed" {
		t.Errorf("list[0].Description = %q, want %q", list[0].Description, "changed")
	}
	if list.Index("missing") != -1 {
		t.Error("Index(missing) != -1")
	}
}

func TestTaskList_CountByStatus(t *testing.T) {
	list := TaskList{
		{Name: "a", Status: StatusInProgress},
		{Name: "b", Status: StatusPaused},
		{Name: "c", Status: StatusPaused},
	}
	counts := list.CountByStatus()
	if counts[StatusPaused] != 2 || counts[StatusInProgress] != 1 || counts[StatusFinished] != 0 {
		t.Errorf("CountByStatus() = %v", counts)
	}
}

func TestClockDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{150 * time.Minute, "02:30"},
		{59*time.Second + 59*time.Minute, "00:59"},
		{123*time.Hour + 5*time.Minute, "123:05"},
		{-time.Hour, "00:00"},
	}
	for _, tt := range tests {
		if got := ClockDuration(tt.in); got != tt.want {
			t.Errorf("ClockDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
