package systems

import (
	"context"
	"slices"
	"sort"
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
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
	math2 "github.com/yohamta/donburi/features/math"
)

// UFOController flies one UFO at a time along a scripted path:
// idle -> entering -> flying -> exiting -> idle.
// The boss model loops its path until its health runs out.
type UFOController struct {
	deps        Deps
	projectiles *ProjectileSystem
	timers      *scheduler.Group
	logger      zerolog.Logger

	models  map[string]*donburi.Entry
	pending map[string]*assets.Pending
	current string
	entry   *donburi.Entry

	phase      components.UFOPhase
	flight     config.UFOFlight
	path       []math2.Vec2
	index      int
	from, to   math2.Vec2
	segment    *gween.Tween
	shotsFired int
	onComplete func()

	boss   bool
	health int
	wired  map[donburi.Entity]physics.ContactHandle
}

// NewUFOController builds one parked, disabled entity per configured model
// and starts loading their outlines.
func NewUFOController(ctx context.Context, deps Deps, projectiles *ProjectileSystem) *UFOController {
	c := &UFOController{
		deps:        deps,
		projectiles: projectiles,
		timers:      scheduler.NewGroup(deps.Clock),
		logger:      log.With().Str("component", "ufo").Logger(),
		models:      make(map[string]*donburi.Entry),
		pending:     make(map[string]*assets.Pending),
		wired:       make(map[donburi.Entity]physics.ContactHandle),
	}
	c.deps.Notify = orNop(deps.Notify)

	names := make([]string, 0, len(config.UFO.Models))
	for name := range config.UFO.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mc := config.UFO.Models[name]
		e := archetypes.UFO.Spawn(deps.World)
		body := deps.Physics.CreateBody(physics.BodyOptions{
			Shape:       physics.ShapeBox,
			HalfExtents: gamemath.V3(mc.HalfWidth, mc.HalfHeight, mc.HalfWidth),
			Mass:        5,
			Position:    config.UFO.ParkAt,
			Tags:        []string{tags.ResolvUFO},
			Data:        e,
		})
		deps.Physics.Disable(body)
		components.Actor.SetValue(e, components.ActorData{Body: body, Scale: 1})
		components.UFO.SetValue(e, components.UFOData{Model: name})
		components.Flash.SetValue(e, components.FlashData{R: 1, G: 1, B: 1})
		c.models[name] = e
		if deps.Models != nil && mc.ModelPath != "" {
			c.pending[name] = deps.Models.LoadAsync(ctx, mc.ModelPath)
		} else {
			c.pending[name] = assets.Ready(assets.Primitive(name, mc.Color))
		}
	}

	projectiles.OnRemove(func(e *donburi.Entry) { delete(c.wired, e.Entity()) })
	return c
}

// pollModels attaches outlines as their loads finish.
func (c *UFOController) pollModels() {
	for name, p := range c.pending {
		m, done, err := p.Poll()
		if !done {
			continue
		}
		if err != nil {
			c.logger.Warn().Err(err).Str("model", name).Msg("ufo model failed to load, using primitive")
			m = assets.Primitive(name, config.UFO.Models[name].Color)
		}
		components.Actor.Get(c.models[name]).Model = m
		delete(c.pending, name)
	}
}

// SetModel selects the model for the next flight. Rejected unless idle.
func (c *UFOController) SetModel(name string) bool {
	if c.phase != components.UFOIdle {
		return false
	}
	e, ok := c.models[name]
	if !ok {
		c.logger.Warn().Str("model", name).Msg("unknown ufo model")
		return false
	}
	c.pollModels()
	c.current = name
	c.entry = e
	return true
}

// Fly starts a pass with the given flight config. Rejected unless idle with a
// model selected. onComplete runs once the UFO has left the screen.
func (c *UFOController) Fly(flight config.UFOFlight, onComplete func()) bool {
	if c.phase != components.UFOIdle || c.entry == nil {
		return false
	}
	c.flight = flight
	c.onComplete = onComplete
	c.shotsFired = 0
	c.boss = c.current == config.UFO.BossModel
	c.health = 0
	if c.boss {
		c.health = config.UFO.BossHealth
	}

	n := max(1, flight.PathPoints)
	c.path = make([]math2.Vec2, n)
	for i := range c.path {
		c.path[i] = math2.Vec2{
			X: flight.PathXRange.Sample(c.deps.Rand),
			Y: flight.PathYRange.Sample(c.deps.Rand),
		}
	}
	c.index = 0

	body := components.Actor.Get(c.entry).Body
	start := config.UFO.EnterFrom
	body.SetPosition(start)
	c.deps.Physics.Enable(body)
	components.Actor.Get(c.entry).Active = true

	c.setPhase(components.UFOEntering)
	c.startSegment(math2.Vec2{X: start.X, Y: start.Y}, c.path[0], flight.EnterDuration)
	c.timers.OnBeforeTick(c.update)

	c.logger.Debug().Str("model", c.current).Bool("boss", c.boss).Int("points", n).Msg("ufo entering")
	c.deps.Notify.Notify(Event{Kind: EventUFOPhase, Text: c.current})
	return true
}

func (c *UFOController) startSegment(from, to math2.Vec2, d time.Duration) {
	c.from, c.to = from, to
	c.segment = gween.New(0, 1, float32(d.Seconds()), gamemath.Smoothstep)
}

func (c *UFOController) update(dt time.Duration) {
	if c.entry == nil || c.phase == components.UFOIdle {
		return
	}
	c.pollModels()
	if c.boss {
		c.wireProjectiles()
	}
	if flash := components.Flash.Get(c.entry); flash.Remaining > 0 {
		flash.Remaining = max(0, flash.Remaining-dt)
	}

	t, done := c.segment.Update(float32(dt.Seconds()))
	pos := gamemath.Lerp(
		gamemath.V3(c.from.X, c.from.Y, 0),
		gamemath.V3(c.to.X, c.to.Y, 0),
		float64(t),
	)
	components.Actor.Get(c.entry).Body.SetPosition(pos)
	if !done {
		return
	}

	switch c.phase {
	case components.UFOEntering:
		c.setPhase(components.UFOFlying)
		c.index = 0
		c.advance()
	case components.UFOFlying:
		c.advance()
	case components.UFOExiting:
		c.finish()
	}
}

// advance leaves the waypoint just reached.
func (c *UFOController) advance() {
	here := c.path[c.index]
	if c.index+1 >= len(c.path) {
		if c.boss && c.health > 0 && len(c.path) > 1 {
			slices.Reverse(c.path)
			c.index = 0
		} else {
			c.startExit()
			return
		}
	}
	c.fire(here)
	c.index++
	d := c.flight.TimePerPoint
	if c.boss && config.UFO.BossPathScale > 0 {
		d = time.Duration(float64(d) * config.UFO.BossPathScale)
	}
	c.startSegment(here, c.path[c.index], d)
}

func (c *UFOController) fire(at math2.Vec2) {
	if c.shotsFired >= c.flight.TotalShots {
		return
	}
	c.shotsFired++
	pattern := c.flight.ShootingPattern
	if pattern == "" {
		pattern = config.PatternSingle
	}
	origin := gamemath.V3(at.X, at.Y-config.UFO.ShotOffsetY, 0)
	c.projectiles.FirePattern(origin, c.flight.ProjectileSpeed, pattern, components.OwnerEnemy)
}

func (c *UFOController) startExit() {
	pos := components.Actor.Get(c.entry).Body.Position()
	here := math2.Vec2{X: pos.X, Y: pos.Y}
	c.path = []math2.Vec2{here}
	c.index = 0
	c.setPhase(components.UFOExiting)
	c.startSegment(here, math2.Vec2{X: pos.X + config.UFO.ExitTo.X, Y: config.UFO.ExitTo.Y}, c.flight.ExitDuration)
	c.logger.Debug().Str("model", c.current).Msg("ufo exiting")
}

func (c *UFOController) finish() {
	done := c.onComplete
	c.Reset()
	if done != nil {
		done()
	}
}

// wireProjectiles registers each live player shot against the boss once.
func (c *UFOController) wireProjectiles() {
	boss := components.Actor.Get(c.entry).Body
	for _, e := range c.projectiles.Active() {
		if components.Projectile.Get(e).Owner != components.OwnerPlayer {
			continue
		}
		if _, ok := c.wired[e.Entity()]; ok {
			continue
		}
		shot := e
		c.wired[e.Entity()] = c.deps.Physics.OnContact(components.Actor.Get(e).Body, boss, func(_, _ *physics.Body) {
			c.bossHit(shot)
		})
	}
}

// bossHit runs inside the contact dispatch.
func (c *UFOController) bossHit(e *donburi.Entry) {
	if !c.boss || c.health <= 0 || !e.Valid() {
		return
	}
	if c.phase != components.UFOEntering && c.phase != components.UFOFlying {
		return
	}
	shot := components.Projectile.Get(e)
	if shot.Hit || shot.Owner != components.OwnerPlayer {
		return
	}
	shot.Hit = true
	c.deps.Physics.AfterStep(func() { c.projectiles.Remove(e) })

	c.health--
	components.UFO.Get(c.entry).Health = c.health
	flash := components.Flash.Get(c.entry)
	flash.Remaining = config.UFO.HitFlash
	flash.R, flash.G, flash.B = 1, 0.5, 0.5

	c.logger.Debug().Int("health", c.health).Msg("boss hit")
	c.deps.Notify.Notify(Event{Kind: EventBossHit, Value: float64(c.health)})
	if c.health == 0 {
		c.startExit()
	}
}

func (c *UFOController) unwireAll() {
	for ent, h := range c.wired {
		c.deps.Physics.OffContact(h)
		delete(c.wired, ent)
	}
}

func (c *UFOController) setPhase(p components.UFOPhase) {
	c.phase = p
	if c.entry != nil {
		u := components.UFO.Get(c.entry)
		u.Phase, u.Boss, u.Health = p, c.boss, c.health
	}
}

// Reset parks the UFO and clears every flight state. Safe to call when idle.
func (c *UFOController) Reset() {
	c.timers.CancelAll()
	c.unwireAll()
	if c.entry != nil {
		actor := components.Actor.Get(c.entry)
		actor.Active = false
		actor.Body.SetLinearVelocity(gamemath.Vec3{})
		actor.Body.SetPosition(config.UFO.ParkAt)
		c.deps.Physics.Disable(actor.Body)
		components.Flash.Get(c.entry).Remaining = 0
	}
	c.boss = false
	c.health = 0
	c.setPhase(components.UFOIdle)
	c.path = nil
	c.index = 0
	c.segment = nil
	c.shotsFired = 0
	c.onComplete = nil
}

func (c *UFOController) Phase() components.UFOPhase { return c.phase }

// Health is the boss's remaining hits; zero for regular UFOs.
func (c *UFOController) Health() int { return c.health }

func (c *UFOController) Boss() bool { return c.boss }

func (c *UFOController) Model() string { return c.current }

func (c *UFOController) ShotsFired() int { return c.shotsFired }

func (c *UFOController) Entry() *donburi.Entry { return c.entry }

func (c *UFOController) Position() gamemath.Vec3 {
	if c.entry == nil {
		return config.UFO.ParkAt
	}
	return components.Actor.Get(c.entry).Body.Position()
}

// Entries returns every model entity, for rendering.
func (c *UFOController) Entries() []*donburi.Entry {
	out := make([]*donburi.Entry, 0, len(c.models))
	for _, e := range c.models {
		out = append(out, e)
	}
	return out
}

// Dispose frees every model's body and entity.
func (c *UFOController) Dispose() {
	c.Reset()
	for name, e := range c.models {
		if e.Valid() {
			c.deps.Physics.Dispose(components.Actor.Get(e).Body)
			c.deps.World.Remove(e.Entity())
		}
		delete(c.models, name)
	}
	c.entry = nil
	c.current = ""
}
