package scheduler

import "time"

// Source is the part of a Scheduler a Group needs.
type Source interface {
	After(d time.Duration, fn func()) Handle
	OnBeforeTick(fn TickFunc) Handle
	Cancel(h Handle)
	Pending(h Handle) bool
}

// Group tracks every handle a component registers so they can be cancelled
// together on reset. Handles that already fired are skipped on cancel.
type Group struct {
	s       Source
	handles []Handle
}

func NewGroup(s Source) *Group {
	return &Group{s: s}
}

func (g *Group) After(d time.Duration, fn func()) Handle {
	h := g.s.After(d, fn)
	g.track(h)
	return h
}

func (g *Group) OnBeforeTick(fn TickFunc) Handle {
	h := g.s.OnBeforeTick(fn)
	g.track(h)
	return h
}

// Cancel stops a single tracked handle.
func (g *Group) Cancel(h Handle) {
	g.s.Cancel(h)
}

// CancelAll stops everything registered through the group.
func (g *Group) CancelAll() {
	for _, h := range g.handles {
		g.s.Cancel(h)
	}
	g.handles = g.handles[:0]
}

// Live returns how many tracked handles are still pending.
func (g *Group) Live() int {
	n := 0
	for _, h := range g.handles {
		if g.s.Pending(h) {
			n++
		}
	}
	return n
}

func (g *Group) track(h Handle) {
	// Drop fired handles so long sessions don't grow the list.
	live := g.handles[:0]
	for _, old := range g.handles {
		if g.s.Pending(old) {
			live = append(live, old)
		}
	}
	g.handles = append(live, h)
}
