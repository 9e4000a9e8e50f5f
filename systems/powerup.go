package systems

import (
	"context"
	"time"

	"github.com/automoto/astrododge/archetypes"
	"github.com/automoto/astrododge/assets"
	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/gamemath"
	"github.com/automoto/astrododge/physics"
	"github.com/automoto/astrododge/scheduler"
	"github.com/automoto/astrododge/tags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yohamta/donburi"
)

// PowerupEffect is what a pickup does. Reset must be idempotent.
type PowerupEffect interface {
	Apply()
	Reset()
}

// SpawnContext is the level state a spawn needs.
type SpawnContext struct {
	Level     int
	Asteroids []gamemath.Vec3
	// OnDone fires once per spawn: collected, or despawned (false).
	OnDone func(collected bool)
}

// Powerup is the lifecycle shared by every pickup kind:
// idle -> falling -> (hovering) -> collected | despawned.
// At most one instance per kind is live.
type Powerup struct {
	deps   Deps
	kind   config.PowerupKind
	cfg    config.PowerupTypeConfig
	effect PowerupEffect
	logger zerolog.Logger

	pending  *assets.Pending
	model    *assets.Model
	fallback bool
	disabled bool

	entry        *donburi.Entry
	state        components.PowerupState
	consumed     bool
	registeredID physics.BodyID
	onDone       func(bool)
	cancelSub    func()
	timers       *scheduler.Group
}

// NewPowerup starts loading the kind's model. With fallback set a failed
// load is replaced by a primitive; otherwise the kind is disabled.
func NewPowerup(ctx context.Context, deps Deps, kind config.PowerupKind, effect PowerupEffect, fallback bool) *Powerup {
	p := &Powerup{
		deps:     deps,
		kind:     kind,
		cfg:      config.Powerups.Types[kind],
		effect:   effect,
		fallback: fallback,
		logger:   log.With().Str("powerup", kind.String()).Logger(),
		timers:   scheduler.NewGroup(deps.Clock),
	}
	p.deps.Notify = orNop(deps.Notify)
	if deps.Models != nil && p.cfg.ModelPath != "" {
		p.pending = deps.Models.LoadAsync(ctx, p.cfg.ModelPath)
	} else {
		p.pending = assets.Ready(assets.Primitive(kind.String(), p.cfg.Color))
	}
	return p
}

func (p *Powerup) Kind() config.PowerupKind { return p.kind }

// State is idle when nothing is live, otherwise the live instance's state.
// After a pickup or despawn it reports the terminal state until the next
// spawn.
func (p *Powerup) State() components.PowerupState { return p.state }

func (p *Powerup) Live() bool { return p.entry != nil }

func (p *Powerup) Entry() *donburi.Entry { return p.entry }

// Ready reports whether the model is loaded and the kind can spawn.
func (p *Powerup) Ready() bool {
	if p.model != nil {
		return true
	}
	if p.disabled {
		return false
	}
	m, done, err := p.pending.Poll()
	if !done {
		return false
	}
	if err != nil {
		if !p.fallback {
			p.logger.Warn().Err(err).Msg("model failed to load, power-up disabled")
			p.disabled = true
			return false
		}
		p.logger.Warn().Err(err).Msg("model failed to load, using primitive")
		m = assets.Primitive(p.kind.String(), p.cfg.Color)
	}
	p.model = m
	return true
}

// Spawn places a new instance above the playfield. It is a no-op when an
// instance is live or the model is not ready yet.
func (p *Powerup) Spawn(ctx SpawnContext) bool {
	if p.entry != nil || !p.Ready() {
		return false
	}

	x := p.pickX(ctx.Asteroids)
	e := archetypes.Powerup.Spawn(p.deps.World)
	size := p.cfg.Size
	body := p.deps.Physics.CreateBody(physics.BodyOptions{
		Shape:       physics.ShapeSphere,
		HalfExtents: gamemath.V3(size, size, size),
		Mass:        0.5,
		Position:    gamemath.V3(x, config.Powerups.SpawnY, 0),
		Tags:        []string{tags.ResolvPowerup},
		Data:        e,
	})
	body.SetLinearVelocity(gamemath.V3(0, -p.cfg.FallSpeed, 0))
	body.SetAngularVelocity(gamemath.V3(0, 1, 0))

	components.Actor.SetValue(e, components.ActorData{Body: body, Active: true, Scale: size, Model: p.model})
	components.Powerup.SetValue(e, components.PowerupData{Kind: p.kind, State: components.PowerupFalling})

	p.entry = e
	p.state = components.PowerupFalling
	p.consumed = false
	p.onDone = ctx.OnDone

	p.bind(p.deps.Player.CurrentBody())
	p.cancelSub = p.deps.Player.SubscribeBody(p.bind)
	p.timers.OnBeforeTick(func(_ time.Duration) { p.update() })

	p.logger.Debug().Float64("x", x).Int("level", ctx.Level).Msg("spawned")
	p.deps.Notify.Notify(Event{Kind: EventPowerupSpawned, Level: ctx.Level, Text: p.kind.String()})
	return true
}

// pickX samples away from active asteroids. Placement is best effort: after
// the last attempt the last sample is used even if it overlaps.
func (p *Powerup) pickX(asteroids []gamemath.Vec3) float64 {
	var x float64
	attempts := max(1, config.Powerups.SpawnAttempts)
	for range attempts {
		x = gamemath.Symmetric(p.deps.Rand, config.Powerups.SpawnHalfBand)
		spawn := gamemath.V3(x, config.Powerups.SpawnY, 0)
		safe := true
		for _, a := range asteroids {
			if a.DistXY(spawn) < config.Powerups.SafeRadius {
				safe = false
				break
			}
		}
		if safe {
			return x
		}
	}
	return x
}

// bind registers the pickup contact against body, dropping any registration
// against an older body.
func (p *Powerup) bind(body *physics.Body) {
	if p.entry == nil || body == nil {
		return
	}
	actor := components.Actor.Get(p.entry)
	if actor.Contact != 0 && p.registeredID == body.ID() && p.deps.Physics.HasContact(actor.Contact) {
		return
	}
	if actor.Contact != 0 {
		p.deps.Physics.OffContact(actor.Contact)
	}
	e := p.entry
	actor.Contact = p.deps.Physics.OnContact(actor.Body, body, func(_, _ *physics.Body) { p.collect(e) })
	actor.Partner = body.ID()
	p.registeredID = body.ID()
}

func (p *Powerup) update() {
	if p.entry == nil {
		return
	}
	if body := p.deps.Player.CurrentBody(); body != nil && body.ID() != p.registeredID {
		p.bind(body)
	}
	if p.consumed {
		return
	}

	data := components.Powerup.Get(p.entry)
	body := components.Actor.Get(p.entry).Body
	pos := body.Position()
	switch {
	case p.state == components.PowerupFalling && p.cfg.Hover && pos.Y <= p.cfg.HoverY:
		body.SetPosition(gamemath.V3(pos.X, p.cfg.HoverY, pos.Z))
		body.SetLinearVelocity(gamemath.Vec3{})
		p.state = components.PowerupHovering
		data.State = p.state
	case pos.Y < config.Powerups.DespawnY:
		p.logger.Debug().Msg("despawned")
		p.teardown()
		p.state = components.PowerupDespawned
		p.finish(false)
	}
}

// collect runs inside the contact dispatch. The consumed flag stops a second
// contact in the same step; disposal waits for the post-step queue.
func (p *Powerup) collect(e *donburi.Entry) {
	if p.consumed || p.entry == nil || p.entry.Entity() != e.Entity() {
		return
	}
	p.consumed = true
	p.state = components.PowerupCollected
	components.Powerup.Get(e).State = p.state

	p.effect.Apply()
	p.logger.Debug().Msg("collected")
	p.deps.Notify.Notify(Event{Kind: EventPowerupCollected, Text: p.kind.String()})

	p.deps.Physics.AfterStep(func() {
		if p.entry == nil || p.entry.Entity() != e.Entity() {
			return
		}
		p.teardown()
		p.finish(true)
	})
}

func (p *Powerup) finish(collected bool) {
	fn := p.onDone
	p.onDone = nil
	if fn != nil {
		fn(collected)
	}
}

func (p *Powerup) teardown() {
	p.timers.CancelAll()
	if p.cancelSub != nil {
		p.cancelSub()
		p.cancelSub = nil
	}
	if p.entry == nil {
		return
	}
	if p.entry.Valid() {
		actor := components.Actor.Get(p.entry)
		if actor.Contact != 0 {
			p.deps.Physics.OffContact(actor.Contact)
		}
		p.deps.Physics.Dispose(actor.Body)
		p.deps.World.Remove(p.entry.Entity())
	}
	p.entry = nil
	p.registeredID = 0
}

// Reset tears down any live instance and the effect's timers. Safe to call
// repeatedly or with nothing live.
func (p *Powerup) Reset() {
	p.teardown()
	p.effect.Reset()
	p.consumed = false
	p.onDone = nil
	p.state = components.PowerupIdle
}
