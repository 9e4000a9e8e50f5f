package systems

import (
	"time"

	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/physics"
	"github.com/rs/zerolog/log"
	"github.com/yohamta/donburi"
)

// CollisionBridge turns contacts between the player and asteroids or enemy
// shots into damage. Every registration targets the player's current body and
// is rebuilt whenever that body is swapped.
type CollisionBridge struct {
	physics     PhysicsWorld
	player      PlayerState
	clock       Clock
	notify      Notifier
	asteroids   *AsteroidField
	projectiles *ProjectileSystem

	bodyID     physics.BodyID
	cancelSub  func()
	lastHit    map[donburi.Entity]time.Duration
	dead       bool
	onDeath    []func()
	onDamage   []func(amount int)
	cooldown   time.Duration
	shotDamage int
}

func NewCollisionBridge(pw PhysicsWorld, player PlayerState, clock Clock, n Notifier, asteroids *AsteroidField, projectiles *ProjectileSystem) *CollisionBridge {
	b := &CollisionBridge{
		physics:     pw,
		player:      player,
		clock:       clock,
		notify:      orNop(n),
		asteroids:   asteroids,
		projectiles: projectiles,
		lastHit:     make(map[donburi.Entity]time.Duration),
		cooldown:    config.Player.DamageCooldown,
		shotDamage:  config.Projectile.Damage,
	}
	if body := player.CurrentBody(); body != nil {
		b.bodyID = body.ID()
	}
	b.cancelSub = player.SubscribeBody(func(*physics.Body) { b.rewireAll() })

	asteroids.OnSpawn(b.wireAsteroid)
	asteroids.OnRecycle(b.unwire)
	projectiles.OnFire(func(e *donburi.Entry) {
		if components.Projectile.Get(e).Owner == components.OwnerEnemy {
			b.wireProjectile(e)
		}
	})
	projectiles.OnRemove(b.unwire)
	return b
}

// OnDeath runs once when health first reaches zero.
func (b *CollisionBridge) OnDeath(fn func()) {
	b.onDeath = append(b.onDeath, fn)
}

func (b *CollisionBridge) OnDamage(fn func(amount int)) {
	b.onDamage = append(b.onDamage, fn)
}

// Update catches body swaps that happened without a notification.
func (b *CollisionBridge) Update() {
	body := b.player.CurrentBody()
	if body != nil && body.ID() != b.bodyID {
		b.rewireAll()
	}
}

func (b *CollisionBridge) rewireAll() {
	body := b.player.CurrentBody()
	if body == nil {
		return
	}
	b.bodyID = body.ID()
	for _, e := range b.asteroids.Active() {
		b.wireAsteroid(e)
	}
	for _, e := range b.projectiles.Active() {
		if components.Projectile.Get(e).Owner == components.OwnerEnemy {
			b.wireProjectile(e)
		}
	}
	log.Debug().Uint64("body", uint64(b.bodyID)).Msg("collision bridge rewired")
}

// bind registers fn between the actor and the player's current body,
// replacing a registration against any older body.
func (b *CollisionBridge) bind(e *donburi.Entry, fn physics.ContactFunc) {
	actor := components.Actor.Get(e)
	body := b.player.CurrentBody()
	if body == nil || !actor.Active {
		return
	}
	if actor.Contact != 0 {
		if actor.Partner == body.ID() && b.physics.HasContact(actor.Contact) {
			return
		}
		b.physics.OffContact(actor.Contact)
	}
	actor.Contact = b.physics.OnContact(actor.Body, body, fn)
	actor.Partner = body.ID()
}

func (b *CollisionBridge) unwire(e *donburi.Entry) {
	actor := components.Actor.Get(e)
	if actor.Contact != 0 {
		b.physics.OffContact(actor.Contact)
	}
	actor.Contact, actor.Partner = 0, 0
	delete(b.lastHit, e.Entity())
}

func (b *CollisionBridge) wireAsteroid(e *donburi.Entry) {
	b.bind(e, func(_, _ *physics.Body) { b.asteroidHit(e) })
}

func (b *CollisionBridge) asteroidHit(e *donburi.Entry) {
	if !e.Valid() || b.player.ShieldActive() {
		return
	}
	now := b.clock.Now()
	key := e.Entity()
	if last, ok := b.lastHit[key]; ok && now-last < b.cooldown {
		return
	}
	b.lastHit[key] = now
	b.damage(components.Asteroid.Get(e).Damage)
}

func (b *CollisionBridge) wireProjectile(e *donburi.Entry) {
	b.bind(e, func(_, _ *physics.Body) { b.projectileHit(e) })
}

func (b *CollisionBridge) projectileHit(e *donburi.Entry) {
	if !e.Valid() {
		return
	}
	shot := components.Projectile.Get(e)
	if shot.Hit || shot.Owner != components.OwnerEnemy {
		return
	}
	shot.Hit = true
	if !b.player.ShieldActive() {
		b.damage(b.shotDamage)
	}
	b.physics.AfterStep(func() { b.projectiles.Remove(e) })
}

func (b *CollisionBridge) damage(amount int) {
	if b.dead || amount <= 0 {
		return
	}
	health := b.player.Health() - amount
	b.player.SetHealth(health)
	b.notify.Notify(Event{Kind: EventDamage, Value: float64(amount)})
	for _, fn := range b.onDamage {
		fn(amount)
	}
	if b.player.Health() <= 0 {
		b.dead = true
		log.Info().Msg("player destroyed")
		for _, fn := range b.onDeath {
			fn()
		}
	}
}

// Dead reports whether OnDeath has fired since the last Reset.
func (b *CollisionBridge) Dead() bool { return b.dead }

// Reset clears cooldowns and the death latch, and rewires against the
// current body.
func (b *CollisionBridge) Reset() {
	b.dead = false
	clear(b.lastHit)
	b.rewireAll()
}

// Dispose stops following the player's body.
func (b *CollisionBridge) Dispose() {
	if b.cancelSub != nil {
		b.cancelSub()
		b.cancelSub = nil
	}
}
