package model

import (
	"errors"
	"testing"
	"time"
)

func newTimedTask(t *testing.T, d time.Duration) Task {
	t.Helper()
	task, err := NewTask("task-1", "work", d, time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	return task
}

func TestCountdownRoundTrip(t *testing.T) {
	t0 := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := newTimedTask(t, 60*time.Second)

	started, err := task.StartTimer(t0)
	if err != nil || !started {
		t.Fatalf("start: started=%v err=%v", started, err)
	}
	if !task.DueAt.Equal(t0.Add(60 * time.Second)) {
		t.Fatalf("unexpected dueAt: %v", task.DueAt)
	}

	if task.Advance(t0.Add(30 * time.Second)) {
		t.Fatal("did not expect expiry at half time")
	}
	if task.Remaining != 30*time.Second || !task.Running {
		t.Fatalf("unexpected running snapshot: %+v", task)
	}

	if !task.PauseTimer(t0.Add(30 * time.Second)) {
		t.Fatal("expected pause to apply")
	}
	if task.Remaining != 30*time.Second || task.Running || task.DueAt != nil {
		t.Fatalf("unexpected paused state: %+v", task)
	}
	if task.TimerState() != TimerPaused {
		t.Fatalf("expected paused state, got %s", task.TimerState())
	}

	resume := t0.Add(30 * time.Second)
	if _, err := task.StartTimer(resume); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !task.Advance(resume.Add(30*time.Second + time.Millisecond)) {
		t.Fatal("expected expiry")
	}
	if !task.Completed || task.Running || task.Remaining != 0 || task.DueAt != nil {
		t.Fatalf("unexpected expired state: %+v", task)
	}
	if task.TimerState() != TimerExpired {
		t.Fatalf("expected expired state, got %s", task.TimerState())
	}
}

func TestStartTimerWithoutDuration(t *testing.T) {
	task := newTimedTask(t, 0)
	_, err := task.StartTimer(time.Now())
	if !IsTimerPrecondition(err) || !errors.Is(err, ErrNoDuration) {
		t.Fatalf("expected no-duration precondition error, got %v", err)
	}
	if task.Running || task.DueAt != nil {
		t.Fatalf("state must be unchanged: %+v", task)
	}
}

func TestStartTimerAfterExpiryIsRejected(t *testing.T) {
	t0 := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := newTimedTask(t, time.Second)
	if _, err := task.StartTimer(t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	task.Advance(t0.Add(2 * time.Second))

	_, err := task.StartTimer(t0.Add(3 * time.Second))
	if !errors.Is(err, ErrTimerExpired) {
		t.Fatalf("expected ErrTimerExpired, got %v", err)
	}
}

func TestStartTimerTwiceIsNoop(t *testing.T) {
	t0 := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := newTimedTask(t, time.Minute)
	if _, err := task.StartTimer(t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	started, err := task.StartTimer(t0.Add(10 * time.Second))
	if err != nil || started {
		t.Fatalf("second start should be a no-op: started=%v err=%v", started, err)
	}
	if !task.DueAt.Equal(t0.Add(time.Minute)) {
		t.Fatalf("dueAt moved: %v", task.DueAt)
	}
}

func TestPauseClampsAtZero(t *testing.T) {
	t0 := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := newTimedTask(t, time.Second)
	if _, err := task.StartTimer(t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	task.PauseTimer(t0.Add(5 * time.Second))
	if task.Remaining != 0 {
		t.Fatalf("expected clamp to zero, got %s", task.Remaining)
	}
	if task.PauseTimer(t0.Add(6 * time.Second)) {
		t.Fatal("pause on a stopped timer must be a no-op")
	}
}

func TestAdvanceSurvivesSkippedTicks(t *testing.T) {
	t0 := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := newTimedTask(t, 10*time.Minute)
	if _, err := task.StartTimer(t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	task.Advance(t0.Add(7 * time.Minute))
	if task.Remaining != 3*time.Minute {
		t.Fatalf("expected 3m remaining after a long gap, got %s", task.Remaining)
	}
}

func TestDisplay(t *testing.T) {
	t0 := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := newTimedTask(t, 90*time.Second)
	if got := task.Display(t0); got != "01:30" {
		t.Fatalf("idle display = %q", got)
	}
	if _, err := task.StartTimer(t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := task.Display(t0.Add(45 * time.Second)); got != "00:45" {
		t.Fatalf("running display = %q", got)
	}
	if got := (Task{}).Display(t0); got != "" {
		t.Fatalf("no-timer display = %q", got)
	}
}
