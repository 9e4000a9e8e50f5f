package physics

import (
	"testing"
	"time"

	"github.com/automoto/astrododge/gamemath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorld() *World {
	return NewWorld(Config{
		MinX: -10, MaxX: 10,
		MinY: -12, MaxY: 14,
		Scale:    16,
		CellSize: 16,
	})
}

func box(w *World, x, y, half float64) *Body {
	return w.CreateBody(BodyOptions{
		Shape:       ShapeBox,
		HalfExtents: gamemath.V3(half, half, half),
		Position:    gamemath.V3(x, y, 0),
	})
}

func TestStep_IntegratesVelocity(t *testing.T) {
	w := testWorld()
	b := box(w, 0, 0, 0.5)
	b.SetLinearVelocity(gamemath.V3(1, -5, 0))
	b.SetAngularVelocity(gamemath.V3(0, 0, 2))

	w.Step(500 * time.Millisecond)

	assert.InDelta(t, 0.5, b.Position().X, 1e-9)
	assert.InDelta(t, -2.5, b.Position().Y, 1e-9)
	assert.InDelta(t, 1.0, b.Rotation().Z, 1e-9)
}

func TestStep_FixedSubsteps(t *testing.T) {
	w := NewWorld(Config{MinX: -10, MaxX: 10, MinY: -10, MaxY: 10, FixedStep: 10 * time.Millisecond, MaxSubSteps: 4})
	b := box(w, 0, 0, 0.5)
	b.SetLinearVelocity(gamemath.V3(0, -1, 0))

	w.Step(25 * time.Millisecond)
	assert.Equal(t, uint64(2), w.Steps())
	w.Step(5 * time.Millisecond)
	assert.Equal(t, uint64(3), w.Steps())
	assert.InDelta(t, -0.03, b.Position().Y, 1e-9)

	// backlog beyond MaxSubSteps is dropped
	w.Step(time.Second)
	assert.Equal(t, uint64(7), w.Steps())
}

func TestDisabledBodyDoesNotMove(t *testing.T) {
	w := testWorld()
	b := box(w, 0, 0, 0.5)
	b.SetLinearVelocity(gamemath.V3(0, -5, 0))
	w.Disable(b)

	w.Step(time.Second)
	assert.Equal(t, 0.0, b.Position().Y)
	assert.False(t, b.Enabled())

	w.Enable(b)
	w.Step(time.Second)
	assert.InDelta(t, -5, b.Position().Y, 1e-9)
}

func TestOnContact_FiresOnlyWhileOverlapping(t *testing.T) {
	w := testWorld()
	a := box(w, 0, 0, 0.5)
	b := box(w, 3, 0, 0.5)

	hits := 0
	h := w.OnContact(a, b, func(x, y *Body) {
		assert.Same(t, a, x)
		assert.Same(t, b, y)
		hits++
	})
	require.NotZero(t, h)

	w.Step(time.Millisecond)
	assert.Equal(t, 0, hits)

	b.SetPosition(gamemath.V3(0.8, 0.2, 0))
	w.Step(time.Millisecond)
	assert.Equal(t, 1, hits)

	w.OffContact(h)
	w.Step(time.Millisecond)
	assert.Equal(t, 1, hits)
	assert.False(t, w.HasContact(h))
}

func TestOnContact_UnregisteredPairIsSilent(t *testing.T) {
	w := testWorld()
	a := box(w, 0, 0, 0.5)
	b := box(w, 0, 0, 0.5)
	c := box(w, 0, 0, 0.5)

	hits := 0
	w.OnContact(a, b, func(_, _ *Body) { hits++ })
	w.Step(time.Millisecond)
	assert.Equal(t, 1, hits, "c overlaps both but has no registration")
	_ = c
}

func TestSphereShapes(t *testing.T) {
	w := testWorld()
	s := w.CreateBody(BodyOptions{Shape: ShapeSphere, HalfExtents: gamemath.V3(1, 1, 1)})
	near := box(w, 1.3, 0, 0.4)
	far := box(w, 1.2, 1.2, 0.3) // corner outside the circle

	hitNear, hitFar := false, false
	w.OnContact(s, near, func(_, _ *Body) { hitNear = true })
	w.OnContact(s, far, func(_, _ *Body) { hitFar = true })
	w.Step(time.Millisecond)

	assert.True(t, hitNear)
	assert.False(t, hitFar)
}

func TestDispose_DropsRegistrations(t *testing.T) {
	w := testWorld()
	a := box(w, 0, 0, 0.5)
	b := box(w, 0, 0, 0.5)
	w.OnContact(a, b, func(_, _ *Body) {})
	require.Equal(t, 1, w.ContactCount())
	require.Equal(t, 2, w.BodyCount())

	w.Dispose(b)
	assert.Equal(t, 0, w.ContactCount())
	assert.Equal(t, 1, w.BodyCount())
	assert.True(t, b.Disposed())

	// idempotent
	w.Dispose(b)
	assert.Zero(t, w.OnContact(a, b, func(_, _ *Body) {}))
}

func TestDispose_InsideCallbackIsDeferred(t *testing.T) {
	w := testWorld()
	a := box(w, 0, 0, 0.5)
	b := box(w, 0, 0, 0.5)
	c := box(w, 0, 0, 0.5)

	var disposedDuringCallback bool
	secondSawB := false
	w.OnContact(a, b, func(_, other *Body) {
		w.Dispose(other)
		disposedDuringCallback = other.Disposed()
	})
	w.OnContact(b, c, func(_, _ *Body) { secondSawB = true })

	w.Step(time.Millisecond)
	assert.False(t, disposedDuringCallback)
	assert.True(t, secondSawB, "b stays live for the rest of the step")
	assert.True(t, b.Disposed(), "disposed at the post-step sync point")
	assert.Equal(t, 0, w.ContactCount())
}

func TestAfterStep_RunsOnce(t *testing.T) {
	w := testWorld()
	runs := 0
	w.AfterStep(func() {
		runs++
		w.AfterStep(func() { runs++ })
	})
	w.Step(time.Millisecond)
	w.Step(time.Millisecond)
	assert.Equal(t, 2, runs)
}

func TestRegistrationDuringDispatch(t *testing.T) {
	w := testWorld()
	a := box(w, 0, 0, 0.5)
	b := box(w, 0, 0, 0.5)
	late := 0
	w.OnContact(a, b, func(_, _ *Body) {
		w.OnContact(a, b, func(_, _ *Body) { late++ })
	})

	w.Step(time.Millisecond)
	assert.Equal(t, 0, late, "registrations made mid-step start next step")
	w.Step(time.Millisecond)
	assert.Equal(t, 1, late)
}

func TestOutOfBoundsBodiesNeverTouch(t *testing.T) {
	w := testWorld()
	a := box(w, 0, 30, 0.5)
	b := box(w, 0, 30, 0.5)
	hits := 0
	w.OnContact(a, b, func(_, _ *Body) { hits++ })
	w.Step(time.Millisecond)
	assert.Equal(t, 0, hits)
}
