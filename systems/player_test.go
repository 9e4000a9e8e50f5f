package systems

import (
	"testing"
	"time"

	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayer_ShieldSwapsCurrentBody(t *testing.T) {
	r := newRig(t)
	ship := r.player.CurrentBody()
	require.True(t, ship.Enabled())

	var seen []physics.BodyID
	r.player.SubscribeBody(func(b *physics.Body) { seen = append(seen, b.ID()) })

	r.player.ToggleShield(true)
	shield := r.player.CurrentBody()
	assert.NotEqual(t, ship.ID(), shield.ID())
	assert.True(t, shield.Enabled())
	assert.False(t, ship.Enabled())
	assert.True(t, r.player.ShieldActive())
	assert.Equal(t, physics.ShapeSphere, shield.Shape())

	r.player.ToggleShield(true)
	r.player.ToggleShield(false)
	assert.Equal(t, ship.ID(), r.player.CurrentBody().ID())
	assert.Equal(t, []physics.BodyID{shield.ID(), ship.ID()}, seen, "redundant toggles must not publish")
}

func TestPlayer_SubscriptionCancel(t *testing.T) {
	r := newRig(t)
	calls := 0
	cancel := r.player.SubscribeBody(func(*physics.Body) { calls++ })

	r.player.ToggleShield(true)
	cancel()
	r.player.ToggleShield(false)

	assert.Equal(t, 1, calls)
}

func TestPlayer_UpdateSteersWithinBand(t *testing.T) {
	r := newRig(t)

	r.player.Update(100*time.Millisecond, 1)
	assert.InDelta(t, config.Player.MaxSpeed*0.1, r.playerPos().X, 1e-9)
	assert.Equal(t, config.Player.Y, r.playerPos().Y)

	for i := 0; i < 100; i++ {
		r.player.Update(100*time.Millisecond, 5)
	}
	assert.Equal(t, config.Player.BandHalfWidth, r.playerPos().X)

	r.player.ToggleShield(true)
	assert.Equal(t, config.Player.BandHalfWidth, r.playerPos().X, "shield takes over at the ship's position")
	for i := 0; i < 100; i++ {
		r.player.Update(100*time.Millisecond, -1)
	}
	assert.Equal(t, -config.Player.BandHalfWidth, r.playerPos().X)
}

func TestPlayer_HealthClamps(t *testing.T) {
	r := newRig(t)
	full := r.player.MaxHealth()

	r.player.SetHealth(full + 50)
	assert.Equal(t, full, r.player.Health())
	r.player.SetHealth(-10)
	assert.Zero(t, r.player.Health())
	assert.Equal(t, 2, r.events.count(EventHealth))
}

func TestPlayer_Reset(t *testing.T) {
	r := newRig(t)
	r.player.ToggleShield(true)
	r.player.SetHealth(10)
	r.player.Update(time.Second, 1)

	r.player.Reset()

	assert.False(t, r.player.ShieldActive())
	assert.Equal(t, r.player.MaxHealth(), r.player.Health())
	assert.Zero(t, r.playerPos().X)
}
