package systems

import (
	"sort"
	"time"

	"github.com/automoto/astrododge/archetypes"
	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/gamemath"
	"github.com/automoto/astrododge/physics"
	"github.com/automoto/astrododge/tags"
	"github.com/rs/zerolog/log"
	"github.com/yohamta/donburi"
)

// Player owns the ship and shield hitboxes. Exactly one of them is enabled
// and that one is the current body every contact registration must target.
type Player struct {
	world   donburi.World
	physics PhysicsWorld
	notify  Notifier
	entry   *donburi.Entry

	current *physics.Body
	subs    map[int]func(*physics.Body)
	nextSub int
}

func NewPlayer(w donburi.World, pw PhysicsWorld, n Notifier) *Player {
	p := &Player{
		world:   w,
		physics: pw,
		notify:  orNop(n),
		subs:    make(map[int]func(*physics.Body)),
	}
	p.entry = archetypes.Player.Spawn(w)
	start := gamemath.V3(0, config.Player.Y, 0)

	ship := pw.CreateBody(physics.BodyOptions{
		Shape:       physics.ShapeBox,
		HalfExtents: gamemath.V3(config.Player.HalfWidth, config.Player.HalfHeight, config.Player.HalfWidth),
		Mass:        1,
		Position:    start,
		Tags:        []string{tags.ResolvShip},
		Data:        p.entry,
	})
	r := config.Player.ShieldRadius
	shield := pw.CreateBody(physics.BodyOptions{
		Shape:       physics.ShapeSphere,
		HalfExtents: gamemath.V3(r, r, r),
		Mass:        1,
		Position:    start,
		Tags:        []string{tags.ResolvShield},
		Data:        p.entry,
	})
	pw.Disable(shield)
	p.current = ship

	components.Player.SetValue(p.entry, components.PlayerData{Ship: ship, Shield: shield})
	components.Health.SetValue(p.entry, components.HealthData{
		Current: config.Player.Health,
		Max:     config.Player.Health,
	})
	components.Flash.SetValue(p.entry, components.FlashData{R: 1, G: 1, B: 1})
	return p
}

func (p *Player) Entry() *donburi.Entry { return p.entry }

// CurrentBody is the hitbox that currently represents the player.
func (p *Player) CurrentBody() *physics.Body { return p.current }

// SubscribeBody registers fn for body swaps.
func (p *Player) SubscribeBody(fn func(*physics.Body)) (cancel func()) {
	p.nextSub++
	id := p.nextSub
	p.subs[id] = fn
	return func() { delete(p.subs, id) }
}

// ToggleShield swaps the current body between ship and shield.
func (p *Player) ToggleShield(on bool) {
	data := components.Player.Get(p.entry)
	if data.ShieldActive == on {
		return
	}
	next, prev := data.Ship, data.Shield
	if on {
		next, prev = data.Shield, data.Ship
	}
	next.SetPosition(prev.Position())
	p.physics.Enable(next)
	p.physics.Disable(prev)
	data.ShieldActive = on
	p.current = next
	log.Debug().Bool("shield", on).Uint64("body", uint64(next.ID())).Msg("player body swapped")
	p.publish()
}

func (p *Player) publish() {
	ids := make([]int, 0, len(p.subs))
	for id := range p.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		// a subscriber may cancel another one
		if fn, ok := p.subs[id]; ok {
			fn(p.current)
		}
	}
}

func (p *Player) ShieldActive() bool {
	return components.Player.Get(p.entry).ShieldActive
}

func (p *Player) Health() int {
	return components.Health.Get(p.entry).Current
}

// SetHealth clamps to [0, max] and publishes the new value.
func (p *Player) SetHealth(v int) {
	h := components.Health.Get(p.entry)
	v = max(0, min(v, h.Max))
	if v < h.Current {
		flash := components.Flash.Get(p.entry)
		flash.Remaining = config.UFO.HitFlash
		flash.R, flash.G, flash.B = 1, 0.4, 0.4
	}
	h.Current = v
	p.notify.Notify(Event{Kind: EventHealth, Value: float64(v), Max: float64(h.Max)})
}

func (p *Player) MaxHealth() int {
	return components.Health.Get(p.entry).Max
}

func (p *Player) Position() gamemath.Vec3 {
	return p.current.Position()
}

// Update steers by tilt in [-1, 1] and keeps both hitboxes together inside
// the play band.
func (p *Player) Update(dt time.Duration, tilt float64) {
	tilt = gamemath.ClampFloat(tilt, -1, 1)
	pos := p.current.Position()
	pos.X += tilt * config.Player.MaxSpeed * dt.Seconds()
	pos.X = gamemath.ClampFloat(pos.X, -config.Player.BandHalfWidth, config.Player.BandHalfWidth)
	pos.Y = config.Player.Y
	p.moveTo(pos)
	data := components.Player.Get(p.entry)
	data.Ship.SetRotation(gamemath.V3(0, 0, -tilt*config.Player.MaxTilt*gamemath.DegToRad))

	flash := components.Flash.Get(p.entry)
	if flash.Remaining > 0 {
		flash.Remaining = max(0, flash.Remaining-dt)
	}
}

func (p *Player) moveTo(pos gamemath.Vec3) {
	data := components.Player.Get(p.entry)
	data.Ship.SetPosition(pos)
	data.Shield.SetPosition(pos)
}

// Reset restores full health, drops the shield and recentres the ship.
func (p *Player) Reset() {
	p.ToggleShield(false)
	h := components.Health.Get(p.entry)
	p.SetHealth(h.Max)
	components.Flash.Get(p.entry).Remaining = 0
	p.moveTo(gamemath.V3(0, config.Player.Y, 0))
}

// Dispose frees both hitboxes.
func (p *Player) Dispose() {
	data := components.Player.Get(p.entry)
	p.physics.Dispose(data.Ship)
	p.physics.Dispose(data.Shield)
	p.world.Remove(p.entry.Entity())
	p.subs = make(map[int]func(*physics.Body))
}
