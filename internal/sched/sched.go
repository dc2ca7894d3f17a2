// Package sched provides a single-threaded cooperative timer scheduler.
//
// Time is virtual: it only moves when the owner calls Advance or AdvanceTo.
// The TUI advances it to elapsed wall time on every tick and before handing
// an input to a game; tests advance it explicitly.
package sched

import (
	"container/heap"
	"time"
)

// Scheduler runs callbacks at virtual instants, in due order.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

// Timer is a pending callback.
type Timer struct {
	at      time.Duration
	seq     uint64
	fn      func()
	index   int
	stopped bool
	fired   bool
}

// New returns a Scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once d has elapsed. A non-positive d fires on the
// next Advance.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{at: s.now + d, seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	return t
}

// Stop cancels the timer. It reports whether the call prevented the timer
// from firing.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Due returns the virtual time at which the timer fires.
func (t *Timer) Due() time.Duration {
	return t.at
}

// Advance moves time forward by d, firing everything that becomes due.
func (s *Scheduler) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	return s.AdvanceTo(s.now + d)
}

// AdvanceTo moves time to at, firing due callbacks in (due time, scheduling
// order). Callbacks observe Now() equal to their own due time and may schedule
// further callbacks, which fire in the same call when due. If at is earlier
// than the current time only already-due callbacks run. It returns the number
// of callbacks fired.
func (s *Scheduler) AdvanceTo(at time.Duration) int {
	if at < s.now {
		at = s.now
	}
	fired := 0
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.stopped {
			heap.Pop(&s.queue)
			continue
		}
		if next.at > at {
			break
		}
		heap.Pop(&s.queue)
		if next.at > s.now {
			s.now = next.at
		}
		next.fired = true
		next.fn()
		fired++
	}
	s.now = at
	return fired
}

// RunUntilIdle fires every pending callback regardless of due time, moving
// time forward as needed. limit bounds the number of callbacks to guard
// against self-rescheduling loops; it returns the number fired.
func (s *Scheduler) RunUntilIdle(limit int) int {
	fired := 0
	for fired < limit {
		next, ok := s.Next()
		if !ok {
			break
		}
		fired += s.AdvanceTo(next)
	}
	return fired
}

// Next returns the due time of the earliest live timer.
func (s *Scheduler) Next() (time.Duration, bool) {
	for s.queue.Len() > 0 {
		if s.queue[0].stopped {
			heap.Pop(&s.queue)
			continue
		}
		return s.queue[0].at, true
	}
	return 0, false
}

// Pending returns the number of live timers.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Group tracks the timers of one session so they can be cancelled together.
type Group struct {
	s      *Scheduler
	timers []*Timer
}

// NewGroup returns a Group scheduling on s.
func NewGroup(s *Scheduler) *Group {
	return &Group{s: s}
}

// After schedules fn on the underlying scheduler and tracks the timer.
func (g *Group) After(d time.Duration, fn func()) *Timer {
	g.compact()
	t := g.s.After(d, fn)
	g.timers = append(g.timers, t)
	return t
}

// Cancel stops every tracked timer.
func (g *Group) Cancel() {
	for _, t := range g.timers {
		t.Stop()
	}
	g.timers = g.timers[:0]
}

// Live returns the number of tracked timers that have not fired or stopped.
func (g *Group) Live() int {
	n := 0
	for _, t := range g.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (g *Group) compact() {
	live := g.timers[:0]
	for _, t := range g.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(g.timers); i++ {
		g.timers[i] = nil
	}
	g.timers = live
}

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
