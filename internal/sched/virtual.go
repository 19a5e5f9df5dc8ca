package sched

import (
	"sort"
	"time"
)

// Virtual is a manually advanced clock. It is not safe for concurrent use.
type Virtual struct {
	now   time.Time
	seq   int
	queue []pending
}

type pending struct {
	at  time.Time
	seq int
	fn  func()
}

// NewVirtual starts a virtual clock at a fixed instant.
func NewVirtual() *Virtual {
	return &Virtual{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// After implements Scheduler.
func (v *Virtual) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	v.seq++
	v.queue = append(v.queue, pending{at: v.now.Add(d), seq: v.seq, fn: fn})
}

// Now returns the virtual time.
func (v *Virtual) Now() time.Time { return v.now }

// Pending returns the number of continuations not yet run.
func (v *Virtual) Pending() int { return len(v.queue) }

// Advance moves the clock forward by d, running every continuation that
// falls due in time order. Continuations scheduled while advancing run too
// if they fall inside the window.
func (v *Virtual) Advance(d time.Duration) {
	end := v.now.Add(d)
	for {
		i := v.next()
		if i < 0 || v.queue[i].at.After(end) {
			break
		}
		p := v.queue[i]
		v.queue = append(v.queue[:i], v.queue[i+1:]...)
		if p.at.After(v.now) {
			v.now = p.at
		}
		p.fn()
	}
	v.now = end
}

// RunAll drains the queue, jumping the clock to each deadline.
func (v *Virtual) RunAll() {
	for len(v.queue) > 0 {
		i := v.next()
		v.Advance(v.queue[i].at.Sub(v.now))
	}
}

func (v *Virtual) next() int {
	if len(v.queue) == 0 {
		return -1
	}
	sort.SliceStable(v.queue, func(a, b int) bool {
		if v.queue[a].at.Equal(v.queue[b].at) {
			return v.queue[a].seq < v.queue[b].seq
		}
		return v.queue[a].at.Before(v.queue[b].at)
	})
	return 0
}
