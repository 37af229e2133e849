package tasks

import (
	"context"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/logging"
	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/notify"
)

// StartTimer starts or resumes the countdown of a task. A task without a
// duration, or whose timer already expired, is refused with a notification.
func (s *Store) StartTimer(ctx context.Context, id string) error {
	now := s.now()
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	started, err := s.tasks[i].StartTimer(now)
	if err != nil {
		s.mu.Unlock()
		s.reject(ctx, err)
		return err
	}
	if !started {
		s.mu.Unlock()
		return nil
	}
	saveErr := s.saveLocked(ctx)
	s.mu.Unlock()
	logging.Debug(subsystem, "timer started for %s", id)
	s.emit(Change{Kind: ChangeTimer, IDs: []string{id}})
	return saveErr
}

func (s *Store) PauseTimer(ctx context.Context, id string) error {
	now := s.now()
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 || !s.tasks[i].PauseTimer(now) {
		s.mu.Unlock()
		return nil
	}
	err := s.saveLocked(ctx)
	s.mu.Unlock()
	logging.Debug(subsystem, "timer paused for %s", id)
	s.emit(Change{Kind: ChangeTimer, IDs: []string{id}})
	return err
}

// ToggleTimer pauses a running countdown and starts any other.
func (s *Store) ToggleTimer(ctx context.Context, id string) error {
	task, err := s.Get(id)
	if err != nil {
		return nil
	}
	if task.Running {
		return s.PauseTimer(ctx, id)
	}
	return s.StartTimer(ctx, id)
}

// Tick recomputes every running countdown from its due time. Expired timers
// stop, complete their task and send one notification each. It reports whether
// any task changed state; the remaining-time snapshots of timers that are
// still running are not persisted.
func (s *Store) Tick(ctx context.Context, now time.Time) (bool, error) {
	s.mu.Lock()
	var expired []model.Task
	for i := range s.tasks {
		if !s.tasks[i].Running {
			continue
		}
		if s.tasks[i].Advance(now) {
			expired = append(expired, s.tasks[i].Clone())
		}
	}
	if len(expired) == 0 {
		s.mu.Unlock()
		return false, nil
	}
	err := s.saveLocked(ctx)
	s.mu.Unlock()

	ids := make([]string, 0, len(expired))
	for _, t := range expired {
		ids = append(ids, t.ID)
		logging.Info(subsystem, "timer finished: %s", logging.Truncate(t.Text, 60))
		s.notifyBestEffort(ctx, notify.Message{Title: "Task timer finished", Body: "Time is up: " + t.Text, Level: notify.LevelInfo})
	}
	s.emit(Change{Kind: ChangeExpired, IDs: ids})
	return true, err
}
