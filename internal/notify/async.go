package notify

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned when every delivery slot of an Async notifier is taken.
var ErrBusy = errors.New("notify: too many deliveries in flight")

const (
	DefaultAsyncTimeout = 10 * time.Second
	DefaultAsyncLimit   = 4
)

// Async delivers through a slow notifier (a webhook, a desktop helper) on
// background goroutines so the caller never waits for it. Each delivery gets
// its own timeout and at most limit run at once; failures go to onError.
type Async struct {
	next    Notifier
	timeout time.Duration
	slots   chan struct{}
	onError func(error)
	wg      sync.WaitGroup
}

func NewAsync(next Notifier, timeout time.Duration, limit int, onError func(error)) *Async {
	if timeout <= 0 {
		timeout = DefaultAsyncTimeout
	}
	if limit <= 0 {
		limit = DefaultAsyncLimit
	}
	return &Async{next: next, timeout: timeout, slots: make(chan struct{}, limit), onError: onError}
}

// Notify returns as soon as the message is handed off. Cancelling ctx after
// the hand-off does not abort the delivery.
func (a *Async) Notify(ctx context.Context, msg Message) error {
	select {
	case a.slots <- struct{}{}:
	default:
		return ErrBusy
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() { <-a.slots }()
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if err := a.next.Notify(dctx, msg); err != nil && a.onError != nil {
			a.onError(err)
		}
	}()
	return nil
}

// Wait blocks until every handed-off delivery has finished or timed out.
func (a *Async) Wait() {
	a.wg.Wait()
}
