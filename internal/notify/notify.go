// Package notify delivers best-effort user notifications: timer expiry and
// rejected actions. Failures are reported to the caller, which must not let
// them affect task state.
package notify

import (
	"context"
	"errors"
	"sync"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type Message struct {
	Title string
	Body  string
	Level Level
}

// Text is the single-line form used by status bars and chat webhooks.
func (m Message) Text() string {
	if m.Title == "" {
		return m.Body
	}
	if m.Body == "" {
		return m.Title
	}
	return m.Title + ": " + m.Body
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

type Func func(ctx context.Context, msg Message) error

func (f Func) Notify(ctx context.Context, msg Message) error { return f(ctx, msg) }

type Noop struct{}

func (Noop) Notify(context.Context, Message) error { return nil }

// Multi fans a message out to every notifier; one failing target does not stop
// the others.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every message it receives.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (r *Recorder) Notify(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return r.Err
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
