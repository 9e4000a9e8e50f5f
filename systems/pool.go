package systems

import (
	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/gamemath"
	"github.com/yohamta/donburi"
)

// ActorFactory builds one new actor: a single entity with components.Actor
// and exactly one physics body. It is the expensive path the pool amortises.
type ActorFactory func() *donburi.Entry

// ActorPool recycles physics-backed actors. An actor is either active
// (enabled body) or pooled (disabled, zero velocity, no contact
// registration), never both, and active+pooled never exceeds the capacity.
type ActorPool struct {
	world    donburi.World
	physics  PhysicsWorld
	capacity int
	factory  ActorFactory

	active []*donburi.Entry
	free   []*donburi.Entry
}

func NewActorPool(w donburi.World, pw PhysicsWorld, capacity int, factory ActorFactory) *ActorPool {
	return &ActorPool{world: w, physics: pw, capacity: capacity, factory: factory}
}

// Acquire returns an enabled actor, or nil when the pool is exhausted. A nil
// return means "skip this spawn".
func (p *ActorPool) Acquire() *donburi.Entry {
	var e *donburi.Entry
	switch {
	case len(p.free) > 0:
		e = p.free[len(p.free)-1]
		p.free[len(p.free)-1] = nil
		p.free = p.free[:len(p.free)-1]
		p.physics.Enable(components.Actor.Get(e).Body)
	case len(p.active)+len(p.free) < p.capacity:
		e = p.factory()
		if e == nil {
			return nil
		}
	default:
		return nil
	}
	components.Actor.Get(e).Active = true
	p.active = append(p.active, e)
	return e
}

// Release disables an active actor and returns it to the free list.
// Releasing a pooled actor is a no-op.
func (p *ActorPool) Release(e *donburi.Entry) {
	if e == nil || !e.Valid() {
		return
	}
	actor := components.Actor.Get(e)
	if !actor.Active {
		return
	}
	idx := p.indexOf(e)
	if idx < 0 {
		return
	}
	if actor.Contact != 0 {
		p.physics.OffContact(actor.Contact)
	}
	actor.Contact, actor.Partner = 0, 0
	actor.Active = false

	body := actor.Body
	body.SetLinearVelocity(gamemath.Vec3{})
	body.SetAngularVelocity(gamemath.Vec3{})
	p.physics.Disable(body)

	p.active = append(p.active[:idx], p.active[idx+1:]...)
	p.free = append(p.free, e)
}

// DisposeAll frees every body and entity the pool ever built. Teardown only;
// level resets release instead.
func (p *ActorPool) DisposeAll() {
	for _, list := range [][]*donburi.Entry{p.active, p.free} {
		for _, e := range list {
			if !e.Valid() {
				continue
			}
			p.physics.Dispose(components.Actor.Get(e).Body)
			p.world.Remove(e.Entity())
		}
	}
	p.active, p.free = nil, nil
}

// Active returns a snapshot of the active actors, safe to release from while
// iterating.
func (p *ActorPool) Active() []*donburi.Entry {
	return append([]*donburi.Entry(nil), p.active...)
}

func (p *ActorPool) ActiveCount() int { return len(p.active) }

func (p *ActorPool) PooledCount() int { return len(p.free) }

func (p *ActorPool) Capacity() int { return p.capacity }

func (p *ActorPool) indexOf(e *donburi.Entry) int {
	for i, a := range p.active {
		if a.Entity() == e.Entity() {
			return i
		}
	}
	return -1
}
