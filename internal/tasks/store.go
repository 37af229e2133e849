// Package tasks owns the task list: mutations, filtered queries, and the
// countdown timers attached to tasks. Every mutation is persisted as a full
// snapshot before subscribers are told about it.
package tasks

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/tasktimer/internal/logging"
	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/notify"
	"github.com/sandeepkv93/tasktimer/internal/storage"
)

const subsystem = "tasks"

type Persistence interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
}

type Options struct {
	// Persistence may be nil for a purely in-memory store.
	Persistence Persistence
	Notifier    notify.Notifier
	Now         func() time.Time
	NewID       func() string
}

type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeEdited    ChangeKind = "edited"
	ChangeToggled   ChangeKind = "toggled"
	ChangeDeleted   ChangeKind = "deleted"
	ChangeMarkedAll ChangeKind = "marked_all"
	ChangeCleared   ChangeKind = "cleared"
	ChangeTimer     ChangeKind = "timer"
	ChangeExpired   ChangeKind = "expired"
	ChangeReloaded  ChangeKind = "reloaded"
)

type Change struct {
	Kind ChangeKind
	IDs  []string
}

type Counts struct {
	Total     int
	Active    int
	Completed int
}

// SaveError wraps a persistence failure. The in-memory list keeps the change
// and stays authoritative until a later save succeeds.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return fmt.Sprintf("tasks: save snapshot: %v", e.Err) }

func (e *SaveError) Unwrap() error { return e.Err }

// ErrUnsavedChanges is returned by Reload while a failed save is outstanding.
var ErrUnsavedChanges = errors.New("tasks: unsaved changes, reload skipped")

type Store struct {
	mu        sync.Mutex
	tasks     []model.Task
	persist   Persistence
	notifier  notify.Notifier
	now       func() time.Time
	newID     func() string
	listeners map[int]func(Change)
	nextSub   int

	// snapshot fingerprints the list as last loaded or saved; dirty is set
	// while the in-memory list holds changes whose save failed. generation
	// counts successful local saves.
	snapshot   [sha256.Size]byte
	dirty      bool
	generation uint64
}

// New builds a store and loads the persisted snapshot. A corrupt snapshot is
// logged and reported through the notifier; whatever could be recovered is
// used.
func New(ctx context.Context, opts Options) (*Store, error) {
	s := &Store{
		tasks:     []model.Task{},
		persist:   opts.Persistence,
		notifier:  opts.Notifier,
		now:       opts.Now,
		newID:     opts.NewID,
		listeners: make(map[int]func(Change)),
	}
	if s.notifier == nil {
		s.notifier = notify.Noop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.persist == nil {
		return s, nil
	}
	loaded, err := s.persist.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptSnapshot) {
			return nil, err
		}
		logging.Warn(subsystem, "recovered %d tasks from damaged snapshot: %v", len(loaded), err)
		s.notifyBestEffort(ctx, notify.Message{Title: "Storage", Body: "Saved tasks were damaged; some could not be restored.", Level: notify.LevelWarn})
	}
	if loaded != nil {
		s.tasks = loaded
	}
	s.snapshot = fingerprint(s.tasks)
	logging.Debug(subsystem, "loaded %d tasks", len(s.tasks))
	return s, nil
}

// Subscribe registers fn for change events and returns a function that
// removes it. Listeners run after the store lock is released.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) Add(ctx context.Context, text string, duration time.Duration) (model.Task, error) {
	task, err := model.NewTask(s.newID(), text, duration, s.now())
	if err != nil {
		s.reject(ctx, err)
		return model.Task{}, err
	}
	s.mu.Lock()
	s.tasks = append([]model.Task{task}, s.tasks...)
	err = s.saveLocked(ctx)
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeAdded, IDs: []string{task.ID}})
	return task.Clone(), err
}

// Edit replaces the text of a task. An empty replacement is discarded so an
// edit never produces an empty task; an unknown id is ignored.
func (s *Store) Edit(ctx context.Context, id, newText string) error {
	trimmed := strings.TrimSpace(newText)
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	if trimmed == "" {
		s.mu.Unlock()
		err := &model.ValidationError{Field: "text", Message: "task text is required"}
		s.reject(ctx, err)
		return err
	}
	if s.tasks[i].Text == trimmed {
		s.mu.Unlock()
		return nil
	}
	s.tasks[i].Text = trimmed
	err := s.saveLocked(ctx)
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeEdited, IDs: []string{id}})
	return err
}

func (s *Store) Toggle(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	err := s.saveLocked(ctx)
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeToggled, IDs: []string{id}})
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	err := s.saveLocked(ctx)
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeDeleted, IDs: []string{id}})
	return err
}

// MarkAllCompleted completes every task. Confirmation is the caller's job.
func (s *Store) MarkAllCompleted(ctx context.Context) error {
	s.mu.Lock()
	if len(s.tasks) == 0 {
		s.mu.Unlock()
		return nil
	}
	ids := make([]string, 0, len(s.tasks))
	for i := range s.tasks {
		if !s.tasks[i].Completed {
			s.tasks[i].Completed = true
			ids = append(ids, s.tasks[i].ID)
		}
	}
	if len(ids) == 0 {
		s.mu.Unlock()
		return nil
	}
	err := s.saveLocked(ctx)
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeMarkedAll, IDs: ids})
	return err
}

// ClearCompleted removes completed tasks and keeps the order of the rest.
func (s *Store) ClearCompleted(ctx context.Context) error {
	s.mu.Lock()
	kept := make([]model.Task, 0, len(s.tasks))
	removed := make([]string, 0)
	for _, t := range s.tasks {
		if t.Completed {
			removed = append(removed, t.ID)
			continue
		}
		kept = append(kept, t)
	}
	if len(removed) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.tasks = kept
	err := s.saveLocked(ctx)
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeCleared, IDs: removed})
	return err
}

// Reload replaces the in-memory list with the persisted snapshot, picking up
// writes made by another process. A snapshot identical to the one this store
// last loaded or saved is ignored, so our own writes never come back as a
// reload. While a failed save is outstanding the in-memory list stays
// authoritative and ErrUnsavedChanges is returned. A damaged snapshot leaves
// the list as is.
func (s *Store) Reload(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	s.mu.Lock()
	dirty, generation := s.dirty, s.generation
	s.mu.Unlock()
	if dirty {
		return ErrUnsavedChanges
	}

	loaded, err := s.persist.Load(ctx)
	if err != nil {
		return err
	}
	sum := fingerprint(loaded)

	s.mu.Lock()
	switch {
	case s.dirty:
		s.mu.Unlock()
		return ErrUnsavedChanges
	case s.generation != generation:
		// A local save landed after the load; its own event follows.
		s.mu.Unlock()
		return nil
	case sum == s.snapshot:
		s.mu.Unlock()
		return nil
	}
	s.tasks = loaded
	s.snapshot = sum
	s.mu.Unlock()
	s.emit(Change{Kind: ChangeReloaded})
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) cloneLocked() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) saveLocked(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	list := s.cloneLocked()
	if err := s.persist.Save(ctx, list); err != nil {
		s.dirty = true
		logging.Warn(subsystem, "save failed, keeping in-memory state: %v", err)
		return &SaveError{Err: err}
	}
	s.dirty = false
	s.generation++
	s.snapshot = fingerprint(list)
	return nil
}

// fingerprint hashes the persisted form of list. An unencodable list hashes
// to the zero value, which never matches a real snapshot.
func fingerprint(list []model.Task) [sha256.Size]byte {
	raw, err := storage.EncodeTasks(list)
	if err != nil {
		return [sha256.Size]byte{}
	}
	return sha256.Sum256(raw)
}

func (s *Store) emit(change Change) {
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(change)
	}
}

// reject tells the user why an action was refused.
func (s *Store) reject(ctx context.Context, err error) {
	s.notifyBestEffort(ctx, notify.Message{Title: "Not saved", Body: UserMessage(err), Level: notify.LevelWarn})
}

func (s *Store) notifyBestEffort(ctx context.Context, msg notify.Message) {
	if err := s.notifier.Notify(ctx, msg); err != nil {
		logging.Warn(subsystem, "notify failed: %v", err)
	}
}

// UserMessage turns a store error into the sentence shown to the user.
func UserMessage(err error) string {
	var ve *model.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrNoDuration):
		return "Task has no duration. Edit the task and set a duration first."
	case errors.Is(err, model.ErrTimerExpired):
		return "The timer for this task has already finished."
	case errors.As(err, &ve):
		msg := ve.Message
		if msg == "" {
			return "Invalid input."
		}
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	default:
		return err.Error()
	}
}
