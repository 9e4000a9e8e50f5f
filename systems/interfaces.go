package systems

import (
	"context"
	"time"

	"github.com/automoto/astrododge/assets"
	"github.com/automoto/astrododge/physics"
	"github.com/automoto/astrododge/scheduler"
)

// PhysicsWorld is the slice of *physics.World the gameplay systems use.
type PhysicsWorld interface {
	CreateBody(opts physics.BodyOptions) *physics.Body
	Enable(b *physics.Body)
	Disable(b *physics.Body)
	Dispose(b *physics.Body)
	OnContact(a, b *physics.Body, fn physics.ContactFunc) physics.ContactHandle
	OffContact(h physics.ContactHandle)
	HasContact(h physics.ContactHandle) bool
	AfterStep(fn func())
}

// PlayerState is the player's side of the collision bridge. The current body
// changes when the shield toggles; readers must follow it.
type PlayerState interface {
	CurrentBody() *physics.Body
	// SubscribeBody calls fn whenever the current body is swapped. The
	// returned func cancels the subscription.
	SubscribeBody(fn func(*physics.Body)) (cancel func())
	ToggleShield(on bool)
	ShieldActive() bool
	Health() int
	SetHealth(v int)
	MaxHealth() int
}

// Clock is the frame scheduler.
type Clock interface {
	scheduler.Source
	Now() time.Duration
}

// ModelSource loads actor models without blocking the frame.
type ModelSource interface {
	LoadAsync(ctx context.Context, path string) *assets.Pending
}

// InputSource provides the normalised tilt value in [-1, 1].
type InputSource interface {
	Tilt() float64
}

// InputFunc adapts a func to InputSource.
type InputFunc func() float64

func (f InputFunc) Tilt() float64 { return f() }
