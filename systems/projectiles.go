package systems

import (
	"image/color"
	"math"

	"github.com/automoto/astrododge/archetypes"
	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/gamemath"
	"github.com/automoto/astrododge/physics"
	"github.com/automoto/astrododge/tags"
	"github.com/yohamta/donburi"
)

// ProjectileSystem fires and disposes projectiles. Shots are short-lived and
// infrequent, so they are created and disposed rather than pooled.
type ProjectileSystem struct {
	world   donburi.World
	physics PhysicsWorld

	visual config.ProjectileVisual
	active []*donburi.Entry

	onFire   []func(*donburi.Entry)
	onRemove []func(*donburi.Entry)
}

func NewProjectileSystem(w donburi.World, pw PhysicsWorld) *ProjectileSystem {
	return &ProjectileSystem{
		world:   w,
		physics: pw,
		visual: config.ProjectileVisual{
			Size:          config.Projectile.DefaultSize,
			Color:         config.Projectile.DefaultColor,
			GlowIntensity: config.Projectile.DefaultGlow,
		},
	}
}

// Fire shoots straight along Y; negative speed is downward.
func (s *ProjectileSystem) Fire(origin gamemath.Vec3, speed float64, owner components.ProjectileOwner) *donburi.Entry {
	return s.FireWithVelocity(origin, gamemath.V3(0, speed, 0), owner)
}

// FireWithVelocity shoots in an explicit direction.
func (s *ProjectileSystem) FireWithVelocity(origin, velocity gamemath.Vec3, owner components.ProjectileOwner) *donburi.Entry {
	size, clr, glow := s.visual.Size, s.visual.Color, s.visual.GlowIntensity
	if owner == components.OwnerPlayer {
		size, clr, glow = config.Projectile.PlayerSize, config.Projectile.PlayerColor, config.Projectile.DefaultGlow
	}

	e := archetypes.Projectile.Spawn(s.world)
	body := s.physics.CreateBody(physics.BodyOptions{
		Shape:         physics.ShapeSphere,
		HalfExtents:   gamemath.V3(size, size, size),
		Mass:          config.Projectile.Mass,
		LinearDamping: config.Projectile.LinearDamping,
		Position:      origin,
		Tags:          []string{tags.ResolvProjectile},
		Data:          e,
	})
	body.SetLinearVelocity(velocity)

	components.Actor.SetValue(e, components.ActorData{Body: body, Active: true, Scale: size})
	components.Projectile.SetValue(e, components.ProjectileData{
		Owner: owner,
		Size:  size,
		Color: clr,
		Glow:  glow,
	})
	s.active = append(s.active, e)

	for _, fn := range s.onFire {
		fn(e)
	}
	return e
}

// FirePattern fires one volley. Spread shots are exact mirror images across
// the vertical axis.
func (s *ProjectileSystem) FirePattern(origin gamemath.Vec3, speed float64, pattern config.ShootingPattern, owner components.ProjectileOwner) []*donburi.Entry {
	angle := config.Projectile.SpreadAngle
	dx, dy := speed*math.Sin(angle), speed*math.Cos(angle)

	switch pattern {
	case config.PatternSpread:
		return []*donburi.Entry{
			s.FireWithVelocity(origin, gamemath.V3(-dx, dy, 0), owner),
			s.FireWithVelocity(origin, gamemath.V3(dx, dy, 0), owner),
		}
	case config.PatternTripleSpread:
		return []*donburi.Entry{
			s.FireWithVelocity(origin, gamemath.V3(-dx, dy, 0), owner),
			s.Fire(origin, speed, owner),
			s.FireWithVelocity(origin, gamemath.V3(dx, dy, 0), owner),
		}
	default:
		return []*donburi.Entry{s.Fire(origin, speed, owner)}
	}
}

// Update disposes every projectile past the vertical bound.
func (s *ProjectileSystem) Update() {
	bound := config.World.ProjectileBound
	for _, e := range s.Active() {
		if math.Abs(components.Actor.Get(e).Body.Position().Y) > bound {
			s.Remove(e)
		}
	}
}

// Remove disposes a projectile now. Contact handlers must not call it
// directly; queue it with PhysicsWorld.AfterStep.
func (s *ProjectileSystem) Remove(e *donburi.Entry) {
	if e == nil {
		return
	}
	idx := -1
	for i, a := range s.active {
		if a.Entity() == e.Entity() {
			idx = i
			break
		}
	}
	if idx < 0 || !e.Valid() {
		return
	}
	s.active = append(s.active[:idx], s.active[idx+1:]...)

	for _, fn := range s.onRemove {
		fn(e)
	}
	actor := components.Actor.Get(e)
	actor.Active = false
	if actor.Contact != 0 {
		s.physics.OffContact(actor.Contact)
		actor.Contact = 0
	}
	s.physics.Dispose(actor.Body)
	s.world.Remove(e.Entity())
}

// SetVisualConfig themes shots fired from now on.
func (s *ProjectileSystem) SetVisualConfig(size float64, clr color.RGBA, glow float64) {
	s.visual = config.ProjectileVisual{Size: size, Color: clr, GlowIntensity: glow}
}

func (s *ProjectileSystem) Visual() config.ProjectileVisual { return s.visual }

func (s *ProjectileSystem) OnFire(fn func(*donburi.Entry)) {
	s.onFire = append(s.onFire, fn)
}

func (s *ProjectileSystem) OnRemove(fn func(*donburi.Entry)) {
	s.onRemove = append(s.onRemove, fn)
}

// Active returns a snapshot of live projectiles.
func (s *ProjectileSystem) Active() []*donburi.Entry {
	return append([]*donburi.Entry(nil), s.active...)
}

func (s *ProjectileSystem) ActiveCount() int { return len(s.active) }

// Clear disposes every live projectile.
func (s *ProjectileSystem) Clear() {
	for _, e := range s.Active() {
		s.Remove(e)
	}
}
