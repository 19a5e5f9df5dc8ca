// internal/sched/sched.go
//
// Cooperative scheduling for game sessions.
// Responsibilities:
//   - Scheduler: the single "run fn after d" seam the game engine depends on.
//   - Loop: one goroutine per session executing posted work in arrival order,
//     so engine state is only ever touched from one logical thread.
//   - Virtual: a manual clock used by tests to step through timed presentation.
//
// Timers never block the loop; a fired timer posts its continuation back onto
// the loop queue like any other event.

package sched

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Scheduler runs fn once, no earlier than d from now.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("sched: loop stopped")

// Loop serializes work onto a single goroutine started by Run.
type Loop struct {
	queue chan func()
	done  chan struct{}

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

// NewLoop constructs a loop with the given queue depth (64 if <= 0).
func NewLoop(depth int) *Loop {
	if depth <= 0 {
		depth = 64
	}
	return &Loop{
		queue:  make(chan func(), depth),
		done:   make(chan struct{}),
		timers: make(map[*time.Timer]struct{}),
	}
}

// Run executes posted functions until ctx is cancelled.
// Pending timers are stopped on exit.
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		for t := range l.timers {
			t.Stop()
		}
		l.timers = nil
		l.mu.Unlock()
		close(l.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post enqueues fn. It reports false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do posts fn and waits for it to run.
func (l *Loop) Do(fn func()) error {
	ran := make(chan struct{})
	if !l.Post(func() { fn(); close(ran) }) {
		return ErrStopped
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// After implements Scheduler. fn runs on the loop goroutine.
func (l *Loop) After(d time.Duration, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timers == nil {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		l.mu.Lock()
		if l.timers != nil {
			delete(l.timers, t)
		}
		l.mu.Unlock()
		l.Post(fn)
	})
	l.timers[t] = struct{}{}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }
