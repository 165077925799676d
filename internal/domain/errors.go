package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Expected failures of a tracker operation. Each one leaves the store untouched.

var (
	// Store errors
	ErrNoTasks = errors.New("there are no tasks added yet")
	ErrPersist = errors.New("an error occurred while saving tasks")

	// Task errors
	ErrTaskNotFound    = errors.New("task not found")
	ErrAlreadyStarted  = errors.New("this task already has been started")
	ErrAlreadyPaused   = errors.New("this task already has been paused")
	ErrAlreadyFinished = errors.New("this task already has been completed")
	ErrStopBeforeStart = errors.New("the time entered must be greater than the start time of the task")

	// Input errors
	ErrInvalidTime      = errors.New("time is not in a valid format")
	ErrInvalidTimeSpent = errors.New("time spent is not in a valid format")
	ErrInvalidDate      = errors.New("date is not in a valid format")
	ErrInvalidSetting   = errors.New("invalid setting")
	ErrNameRequired     = errors.New("a task name is required")
	ErrInvalidStatus    = errors.New("a task can only be paused or finished")
)
