// Package scheduler drives per-frame observers and delayed callbacks from a
// single external tick. Nothing here runs on its own goroutine.
package scheduler

import (
	"sort"
	"time"
)

// Handle identifies a registered observer or timer. The zero handle is never
// issued, so it can be used as "nothing registered".
type Handle uint64

// TickFunc observes one frame; dt is the frame's delta time.
type TickFunc func(dt time.Duration)

type observer struct {
	handle Handle
	fn     TickFunc
	active bool
}

type timer struct {
	handle Handle
	due    time.Duration
	fn     func()
	active bool
}

// Scheduler runs observers every tick and timers once their due time has
// passed. Registrations made during a tick take effect on the next one.
type Scheduler struct {
	now       time.Duration
	next      Handle
	observers []*observer
	timers    []*timer
	index     map[Handle]func()
}

func New() *Scheduler {
	return &Scheduler{index: make(map[Handle]func())}
}

// Now is the scheduler's clock: the sum of every dt passed to Tick.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// OnBeforeTick registers fn to run at the start of every tick until cancelled.
func (s *Scheduler) OnBeforeTick(fn TickFunc) Handle {
	s.next++
	o := &observer{handle: s.next, fn: fn, active: true}
	s.observers = append(s.observers, o)
	s.index[o.handle] = func() { o.active = false }
	return o.handle
}

// After runs fn once, d after the current clock. A non-positive d fires on
// the next tick.
func (s *Scheduler) After(d time.Duration, fn func()) Handle {
	s.next++
	t := &timer{handle: s.next, due: s.now + d, fn: fn, active: true}
	s.timers = append(s.timers, t)
	s.index[t.handle] = func() { t.active = false }
	return t.handle
}

// Cancel stops an observer or pending timer. Unknown or already-fired
// handles are ignored.
func (s *Scheduler) Cancel(h Handle) {
	if stop, ok := s.index[h]; ok {
		stop()
		delete(s.index, h)
	}
}

// Pending reports whether a handle is still registered.
func (s *Scheduler) Pending(h Handle) bool {
	_, ok := s.index[h]
	return ok
}

// Len returns the number of live observers and timers.
func (s *Scheduler) Len() int {
	return len(s.index)
}

// Tick advances the clock by dt, runs every observer, then fires due timers in
// due-time order.
func (s *Scheduler) Tick(dt time.Duration) {
	s.now += dt

	observers := append([]*observer(nil), s.observers...)
	for _, o := range observers {
		if o.active {
			o.fn(dt)
		}
	}

	var due []*timer
	for _, t := range s.timers {
		if t.active && t.due <= s.now {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].due < due[j].due })
	for _, t := range due {
		if !t.active {
			continue // cancelled by an earlier timer this tick
		}
		t.active = false
		delete(s.index, t.handle)
		t.fn()
	}

	s.compact()
}

func (s *Scheduler) compact() {
	obs := s.observers[:0]
	for _, o := range s.observers {
		if o.active {
			obs = append(obs, o)
		}
	}
	s.observers = obs

	timers := s.timers[:0]
	for _, t := range s.timers {
		if t.active {
			timers = append(timers, t)
		}
	}
	s.timers = timers
}
