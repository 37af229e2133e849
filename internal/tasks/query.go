package tasks

import "github.com/sandeepkv93/tasktimer/internal/model"

// VisibleTasks returns the tasks matching filter whose text contains query,
// case-insensitively, newest first.
func (s *Store) VisibleTasks(filter model.Filter, query string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Matches(t) && t.MatchesQuery(query) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Counts is computed from the full list, never the filtered view.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Counts{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			c.Completed++
		}
	}
	c.Active = c.Total - c.Completed
	return c
}

func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneLocked()
}

func (s *Store) Get(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return model.Task{}, &model.NotFoundError{ID: id}
	}
	return s.tasks[i].Clone(), nil
}

// AllCompleted is false for an empty list.
func (s *Store) AllCompleted() bool {
	c := s.Counts()
	return c.Total > 0 && c.Active == 0
}

func (s *Store) HasRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.Running {
			return true
		}
	}
	return false
}
