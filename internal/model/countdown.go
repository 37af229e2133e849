package model

import "time"

// StartTimer moves the countdown into the running state. It returns false
// without error when the timer is already running.
func (t *Task) StartTimer(now time.Time) (bool, error) {
	if t.Running {
		return false, nil
	}
	if t.TimerState() == TimerExpired {
		return false, &TimerPreconditionError{TaskID: t.ID, Err: ErrTimerExpired}
	}
	remaining := t.Remaining
	if remaining <= 0 {
		remaining = t.Duration
	}
	if remaining <= 0 {
		return false, &TimerPreconditionError{TaskID: t.ID, Err: ErrNoDuration}
	}
	due := now.Add(remaining)
	t.Running = true
	t.DueAt = &due
	t.Remaining = remaining
	return true, nil
}

func (t *Task) PauseTimer(now time.Time) bool {
	if !t.Running {
		return false
	}
	rem := t.Remaining
	if t.DueAt != nil {
		rem = t.DueAt.Sub(now)
	}
	if rem < 0 {
		rem = 0
	}
	t.Running = false
	t.DueAt = nil
	t.Remaining = rem
	return true
}

// Advance recomputes a running countdown from DueAt. On expiry the timer stops
// and the task is marked completed.
func (t *Task) Advance(now time.Time) (expired bool) {
	if !t.Running || t.DueAt == nil {
		return false
	}
	rem := t.DueAt.Sub(now)
	if rem <= 0 {
		t.Running = false
		t.Remaining = 0
		t.DueAt = nil
		t.Completed = true
		return true
	}
	t.Remaining = rem
	return false
}
