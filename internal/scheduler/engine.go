package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidWakeTime = errors.New("scheduler: invalid wake time")
	ErrStopped         = errors.New("scheduler: ticker stopped")
)

const DefaultInterval = 500 * time.Millisecond

type wakeQueue []time.Time

func (q wakeQueue) Len() int { return len(q) }

func (q wakeQueue) Less(i, j int) bool { return q[i].Before(q[j]) }

func (q wakeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *wakeQueue) Push(x any) {
	*q = append(*q, x.(time.Time))
}

func (q *wakeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Ticker delivers the current time on C at a fixed interval and, in addition,
// at every instant registered with WakeAt. Delivery never blocks: when the
// consumer is behind, the tick is counted in Dropped and discarded.
type Ticker struct {
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	queue   wakeQueue
	out     chan time.Time
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewTicker(interval time.Duration, bufferSize int) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Ticker{
		interval: interval,
		now:      time.Now,
		queue:    make(wakeQueue, 0),
		out:      make(chan time.Time, bufferSize),
		wakeup:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (t *Ticker) C() <-chan time.Time {
	return t.out
}

func (t *Ticker) Interval() time.Duration {
	return t.interval
}

func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.stopped {
		return
	}
	t.started = true
	heap.Init(&t.queue)
	go t.loop()
}

// Stop halts delivery and closes C. It is safe to call more than once.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.started || t.stopped {
		t.stopped = true
		t.mu.Unlock()
		return
	}
	t.stopped = true
	close(t.stopCh)
	t.mu.Unlock()
	<-t.doneCh
}

// WakeAt requests an extra tick at the given instant, typically a timer's due
// time, so expiry is observed without waiting for the next interval.
func (t *Ticker) WakeAt(at time.Time) error {
	if at.IsZero() {
		return ErrInvalidWakeTime
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return ErrStopped
	}
	heap.Push(&t.queue, at)
	t.signalWakeup()
	return nil
}

func (t *Ticker) Dropped() uint64 {
	return atomic.LoadUint64(&t.dropped)
}

func (t *Ticker) loop() {
	defer close(t.doneCh)
	defer close(t.out)

	periodic := time.NewTicker(t.interval)
	defer periodic.Stop()

	var timer *time.Timer
	defer func() { stopTimer(timer) }()
	for {
		var wakeC <-chan time.Time
		if next, ok := t.peek(); ok {
			wait := next.Sub(t.now())
			if wait < 0 {
				wait = 0
			}
			timer = resetTimer(timer, wait)
			wakeC = timer.C
		}

		select {
		case <-periodic.C:
			t.deliver(t.now())
		case <-wakeC:
			now := t.now()
			if t.popDue(now) > 0 {
				t.deliver(now)
			}
		case <-t.wakeup:
			continue
		case <-t.stopCh:
			return
		}
	}
}

func (t *Ticker) deliver(now time.Time) {
	select {
	case t.out <- now:
	default:
		atomic.AddUint64(&t.dropped, 1)
	}
}

func (t *Ticker) signalWakeup() {
	select {
	case t.wakeup <- struct{}{}:
	default:
	}
}

func (t *Ticker) peek() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.queue) == 0 {
		return time.Time{}, false
	}
	return t.queue[0], true
}

// popDue removes every wake time at or before now and reports how many.
func (t *Ticker) popDue(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for len(t.queue) > 0 {
		if t.queue[0].After(now) {
			break
		}
		heap.Pop(&t.queue)
		n++
	}
	return n
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
