package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidFilter = errors.New("model: invalid filter")
	ErrTimerExpired  = errors.New("model: timer already expired")
	ErrNoDuration    = errors.New("model: task has no duration")
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	default:
		return false
	}
}

// Matches reports whether t belongs to the filter. An unknown filter matches
// everything, like "all".
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		return FilterAll, nil
	}
	if !f.IsValid() {
		return FilterAll, fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
	return f, nil
}

type TimerState string

const (
	TimerNone    TimerState = "none"
	TimerIdle    TimerState = "idle"
	TimerPaused  TimerState = "paused"
	TimerRunning TimerState = "running"
	TimerExpired TimerState = "expired"
)

type Task struct {
	ID        string
	Text      string
	Completed bool
	CreatedAt time.Time
	Duration  time.Duration
	// Remaining is authoritative while paused. While running it is only the
	// last snapshot taken by a tick; DueAt is the source of truth.
	Remaining time.Duration
	Running   bool
	DueAt     *time.Time
}

func NewTask(id, text string, duration time.Duration, now time.Time) (Task, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Task{}, &ValidationError{Field: "text", Message: "task text is required"}
	}
	if duration < 0 {
		return Task{}, &ValidationError{Field: "duration", Message: fmt.Sprintf("duration must not be negative, got %s", duration)}
	}
	t := Task{
		ID:        id,
		Text:      trimmed,
		CreatedAt: now,
		Duration:  duration,
		Remaining: duration,
	}
	return t, t.Validate()
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return &ValidationError{Field: "id", Message: "task id is required"}
	}
	if strings.TrimSpace(t.Text) == "" {
		return &ValidationError{Field: "text", Message: "task text is required"}
	}
	if t.CreatedAt.IsZero() {
		return &ValidationError{Field: "createdAt", Message: "task created_at is required"}
	}
	if t.Duration < 0 || t.Remaining < 0 {
		return &ValidationError{Field: "duration", Message: "durations must not be negative"}
	}
	if t.Running && t.DueAt == nil {
		return errors.New("model: dueAt is required while the timer is running")
	}
	if !t.Running && t.DueAt != nil {
		return errors.New("model: dueAt must be nil when the timer is not running")
	}
	return nil
}

// Normalize repairs a task loaded from an older or hand-edited snapshot so the
// running/dueAt invariant holds.
func (t *Task) Normalize() {
	t.Text = strings.TrimSpace(t.Text)
	if t.Duration < 0 {
		t.Duration = 0
	}
	if t.Remaining < 0 {
		t.Remaining = 0
	}
	if t.Running && t.DueAt == nil {
		t.Running = false
	}
	if !t.Running {
		t.DueAt = nil
	}
}

func (t Task) HasTimer() bool {
	return t.Duration > 0
}

func (t Task) TimerState() TimerState {
	switch {
	case t.Duration <= 0:
		return TimerNone
	case t.Running:
		return TimerRunning
	case t.Completed && t.Remaining == 0:
		return TimerExpired
	case t.Remaining == 0 || t.Remaining >= t.Duration:
		return TimerIdle
	default:
		return TimerPaused
	}
}

// RemainingAt returns the time left on the countdown at now, recomputed from
// DueAt while running.
func (t Task) RemainingAt(now time.Time) time.Duration {
	if t.Running && t.DueAt != nil {
		rem := t.DueAt.Sub(now)
		if rem < 0 {
			return 0
		}
		return rem
	}
	if t.Remaining > 0 {
		return t.Remaining
	}
	if t.TimerState() == TimerExpired {
		return 0
	}
	return t.Duration
}

// Display is the countdown text shown next to the task, empty when the task
// has no timer.
func (t Task) Display(now time.Time) string {
	if !t.HasTimer() {
		return ""
	}
	return FormatRemaining(t.RemainingAt(now))
}

func (t Task) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), q)
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	out := t
	if t.DueAt != nil {
		due := *t.DueAt
		out.DueAt = &due
	}
	return out
}
