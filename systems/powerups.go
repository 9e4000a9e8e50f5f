package systems

import (
	"context"
	"time"

	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/scheduler"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// HealthBoost heals the player, capped at max health.
type HealthBoost struct {
	Player PlayerState
	Notify Notifier
	Amount int
}

func (h *HealthBoost) Apply() {
	before := h.Player.Health()
	h.Player.SetHealth(min(h.Player.MaxHealth(), before+h.Amount))
	orNop(h.Notify).Notify(Event{Kind: EventHeal, Value: float64(h.Player.Health() - before)})
}

func (h *HealthBoost) Reset() {}

// ShieldEffect raises the shield for a fixed duration, publishing the
// remaining fill every tick, then drops it.
type ShieldEffect struct {
	player   PlayerState
	notify   Notifier
	duration time.Duration
	timers   *scheduler.Group

	fill   *gween.Tween
	value  float64
	active bool
}

func NewShieldEffect(player PlayerState, clock Clock, n Notifier, duration time.Duration) *ShieldEffect {
	return &ShieldEffect{
		player:   player,
		notify:   orNop(n),
		duration: duration,
		timers:   scheduler.NewGroup(clock),
	}
}

// Apply starts the countdown; a second pickup restarts it.
func (s *ShieldEffect) Apply() {
	s.timers.CancelAll()
	s.active = true
	s.value = 1
	s.fill = gween.New(1, 0, float32(s.duration.Seconds()), ease.Linear)
	s.player.ToggleShield(true)
	s.notify.Notify(Event{Kind: EventShieldTimer, Value: 1})
	s.timers.OnBeforeTick(s.tick)
}

func (s *ShieldEffect) tick(dt time.Duration) {
	v, done := s.fill.Update(float32(dt.Seconds()))
	s.value = float64(v)
	s.notify.Notify(Event{Kind: EventShieldTimer, Value: s.value})
	if done {
		s.stop()
	}
}

func (s *ShieldEffect) stop() {
	s.timers.CancelAll()
	s.value = 0
	if s.active {
		s.active = false
		s.player.ToggleShield(false)
	}
}

// Fill is the remaining shield time in [0, 1].
func (s *ShieldEffect) Fill() float64 { return s.value }

func (s *ShieldEffect) Active() bool { return s.active }

func (s *ShieldEffect) Reset() {
	s.stop()
	s.fill = nil
}

// RocketShooter switches the auto-cannon on.
type RocketShooter struct {
	Cannon *AutoCannon
}

func (r *RocketShooter) Apply() { r.Cannon.Enable() }

func (r *RocketShooter) Reset() { r.Cannon.Disable() }

// PowerupSet holds one controller per kind.
type PowerupSet struct {
	Health *Powerup
	Shield *Powerup
	Rocket *Powerup

	ShieldEffect *ShieldEffect
	Cannon       *AutoCannon
}

// NewPowerupSet wires the three kinds. Only the rocket shooter falls back to a
// primitive model: the boss gate depends on it.
func NewPowerupSet(ctx context.Context, deps Deps, projectiles *ProjectileSystem) *PowerupSet {
	shield := NewShieldEffect(deps.Player, deps.Clock, deps.Notify, config.Powerups.ShieldDuration)
	cannon := NewAutoCannon(deps.Player, deps.Clock, projectiles)
	return &PowerupSet{
		Health: NewPowerup(ctx, deps, config.PowerupHealthBoost, &HealthBoost{
			Player: deps.Player,
			Notify: deps.Notify,
			Amount: config.Powerups.HealAmount,
		}, false),
		Shield:       NewPowerup(ctx, deps, config.PowerupShield, shield, false),
		Rocket:       NewPowerup(ctx, deps, config.PowerupRocketShooter, &RocketShooter{Cannon: cannon}, true),
		ShieldEffect: shield,
		Cannon:       cannon,
	}
}

// Get returns the controller for a kind.
func (s *PowerupSet) Get(kind config.PowerupKind) *Powerup {
	switch kind {
	case config.PowerupHealthBoost:
		return s.Health
	case config.PowerupShield:
		return s.Shield
	case config.PowerupRocketShooter:
		return s.Rocket
	}
	return nil
}

func (s *PowerupSet) All() []*Powerup {
	return []*Powerup{s.Health, s.Shield, s.Rocket}
}

func (s *PowerupSet) Reset() {
	for _, p := range s.All() {
		p.Reset()
	}
}
