package systems

import (
	"math"
	"testing"
	"time"

	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/gamemath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

type bridgeRig struct {
	*rig
	field  *AsteroidField
	shots  *ProjectileSystem
	bridge *CollisionBridge
}

func newBridgeRig(t *testing.T) *bridgeRig {
	r := newRig(t)
	field := NewAsteroidField(r.world, r.physics, r.rng)
	shots := NewProjectileSystem(r.world, r.physics)
	return &bridgeRig{
		rig:    r,
		field:  field,
		shots:  shots,
		bridge: NewCollisionBridge(r.physics, r.player, r.clock, r.events, field, shots),
	}
}

// spawnOnPlayer spawns one asteroid and parks it on the player.
func (b *bridgeRig) spawnOnPlayer() *donburi.Entry {
	b.field.SetSpawnRate(1)
	b.field.SetActive(true)
	b.field.Update(time.Second)
	b.field.SetActive(false)
	active := b.field.Active()
	e := active[len(active)-1]
	body := components.Actor.Get(e).Body
	body.SetLinearVelocity(gamemath.Vec3{})
	body.SetPosition(b.playerPos())
	return e
}

func TestCollisionBridge_AsteroidDamageWithCooldown(t *testing.T) {
	b := newBridgeRig(t)
	e := b.spawnOnPlayer()
	rock := components.Asteroid.Get(e)
	want := int(math.Round(rock.Size * config.Asteroids.DamagePerSize))
	full := b.player.Health()

	b.frame(16 * time.Millisecond)
	assert.Equal(t, full-want, b.player.Health())

	b.frame(16 * time.Millisecond)
	assert.Equal(t, full-want, b.player.Health(), "cooldown must block a second hit")

	b.clock.Tick(config.Player.DamageCooldown)
	b.physics.Step(16 * time.Millisecond)
	assert.Equal(t, full-2*want, b.player.Health())
	assert.Equal(t, 2, b.events.count(EventDamage))
}

func TestCollisionBridge_ShieldAbsorbsAsteroids(t *testing.T) {
	b := newBridgeRig(t)
	b.player.ToggleShield(true)
	e := b.spawnOnPlayer()

	b.frame(16 * time.Millisecond)

	assert.Equal(t, b.player.MaxHealth(), b.player.Health())
	assert.Equal(t, b.player.CurrentBody().ID(), components.Actor.Get(e).Partner)
}

func TestCollisionBridge_RewiresOnBodySwap(t *testing.T) {
	b := newBridgeRig(t)
	e := b.spawnOnPlayer()
	actor := components.Actor.Get(e)
	ship := b.player.CurrentBody()
	require.Equal(t, ship.ID(), actor.Partner)
	oldHandle := actor.Contact

	b.player.ToggleShield(true)

	assert.Equal(t, b.player.CurrentBody().ID(), actor.Partner)
	assert.False(t, b.physics.HasContact(oldHandle))
	assert.True(t, b.physics.HasContact(actor.Contact))

	b.player.ToggleShield(false)
	assert.Equal(t, ship.ID(), actor.Partner)
	b.frame(16 * time.Millisecond)
	assert.Less(t, b.player.Health(), b.player.MaxHealth())
}

func TestCollisionBridge_EnemyShotHitsOnce(t *testing.T) {
	b := newBridgeRig(t)
	shot := b.shots.Fire(b.playerPos(), 0, components.OwnerEnemy)
	body := components.Actor.Get(shot).Body

	b.physics.Step(16 * time.Millisecond)

	assert.Equal(t, b.player.MaxHealth()-config.Projectile.Damage, b.player.Health())
	assert.Zero(t, b.shots.ActiveCount(), "consumed shot is removed after the step")
	assert.True(t, body.Disposed())
}

func TestCollisionBridge_EnemyShotAgainstShield(t *testing.T) {
	b := newBridgeRig(t)
	b.player.ToggleShield(true)
	b.shots.Fire(b.playerPos(), 0, components.OwnerEnemy)

	b.physics.Step(16 * time.Millisecond)

	assert.Equal(t, b.player.MaxHealth(), b.player.Health())
	assert.Zero(t, b.shots.ActiveCount())
}

func TestCollisionBridge_PlayerShotsIgnored(t *testing.T) {
	b := newBridgeRig(t)
	b.shots.Fire(b.playerPos(), 0, components.OwnerPlayer)

	b.physics.Step(16 * time.Millisecond)

	assert.Equal(t, b.player.MaxHealth(), b.player.Health())
	assert.Equal(t, 1, b.shots.ActiveCount())
}

func TestCollisionBridge_DeathFiresOnce(t *testing.T) {
	b := newBridgeRig(t)
	deaths := 0
	b.bridge.OnDeath(func() { deaths++ })
	b.player.SetHealth(1)

	b.shots.Fire(b.playerPos(), 0, components.OwnerEnemy)
	b.shots.Fire(b.playerPos(), 0, components.OwnerEnemy)
	b.physics.Step(16 * time.Millisecond)
	b.shots.Fire(b.playerPos(), 0, components.OwnerEnemy)
	b.physics.Step(16 * time.Millisecond)

	assert.Equal(t, 1, deaths)
	assert.True(t, b.bridge.Dead())
	assert.Zero(t, b.player.Health())

	b.bridge.Reset()
	assert.False(t, b.bridge.Dead())
}

func TestCollisionBridge_RecycleDropsRegistration(t *testing.T) {
	b := newBridgeRig(t)
	e := b.spawnOnPlayer()
	handle := components.Actor.Get(e).Contact
	require.True(t, b.physics.HasContact(handle))

	b.field.Recycle(e)

	assert.False(t, b.physics.HasContact(handle))
}
