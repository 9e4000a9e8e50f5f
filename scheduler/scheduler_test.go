package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAfter_FiresOnceWhenDue(t *testing.T) {
	s := New()
	fired := 0
	s.After(250*time.Millisecond, func() { fired++ })

	s.Tick(100 * time.Millisecond)
	s.Tick(100 * time.Millisecond)
	assert.Equal(t, 0, fired)

	s.Tick(100 * time.Millisecond)
	assert.Equal(t, 1, fired)

	s.Tick(time.Second)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, s.Len())
}

func TestAfter_OrderByDueTime(t *testing.T) {
	s := New()
	var got []string
	s.After(30*time.Millisecond, func() { got = append(got, "late") })
	s.After(10*time.Millisecond, func() { got = append(got, "early") })

	s.Tick(50 * time.Millisecond)
	assert.Equal(t, []string{"early", "late"}, got)
}

func TestCancel(t *testing.T) {
	s := New()
	fired, observed := false, 0
	h := s.After(10*time.Millisecond, func() { fired = true })
	o := s.OnBeforeTick(func(time.Duration) { observed++ })

	s.Tick(time.Millisecond)
	s.Cancel(h)
	s.Cancel(o)
	s.Cancel(o) // idempotent
	s.Tick(time.Second)

	assert.False(t, fired)
	assert.Equal(t, 1, observed)
	assert.False(t, s.Pending(h))
}

func TestTimerCancelsLaterTimerInSameTick(t *testing.T) {
	s := New()
	secondFired := false
	var second Handle
	s.After(time.Millisecond, func() { s.Cancel(second) })
	second = s.After(2*time.Millisecond, func() { secondFired = true })

	s.Tick(10 * time.Millisecond)
	assert.False(t, secondFired)
}

func TestObserverRegisteredDuringTickRunsNextTick(t *testing.T) {
	s := New()
	inner := 0
	s.OnBeforeTick(func(time.Duration) {
		if inner == 0 {
			s.OnBeforeTick(func(time.Duration) { inner++ })
		}
	})
	s.Tick(time.Millisecond)
	assert.Equal(t, 0, inner)
	s.Tick(time.Millisecond)
	assert.Equal(t, 1, inner)
}

func TestObserverReceivesDelta(t *testing.T) {
	s := New()
	var total time.Duration
	s.OnBeforeTick(func(dt time.Duration) { total += dt })
	s.Tick(16 * time.Millisecond)
	s.Tick(17 * time.Millisecond)
	assert.Equal(t, 33*time.Millisecond, total)
	assert.Equal(t, 33*time.Millisecond, s.Now())
}

func TestGroup_CancelAll(t *testing.T) {
	s := New()
	g := NewGroup(s)
	fired := 0
	g.After(time.Millisecond, func() { fired++ })
	g.After(time.Second, func() { fired++ })
	g.OnBeforeTick(func(time.Duration) {})

	s.Tick(10 * time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 2, g.Live())

	g.CancelAll()
	g.CancelAll()
	s.Tick(2 * time.Second)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, g.Live())
	assert.Equal(t, 0, s.Len())
}
