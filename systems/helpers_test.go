package systems

import (
	"context"
	"math/rand"
	"testing"
	"testing/fstest"
	"time"

	"github.com/automoto/astrododge/assets"
	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/gamemath"
	"github.com/automoto/astrododge/physics"
	"github.com/automoto/astrododge/scheduler"
	"github.com/yohamta/donburi"
)

// preserveConfig restores the tuning globals a test changes.
func preserveConfig(t *testing.T) {
	t.Helper()
	world, asteroids, player := config.World, config.Asteroids, config.Player
	projectile, powerups, ufo := config.Projectile, config.Powerups, config.UFO
	director, background := config.Director, config.Background
	levels := append([]config.Level(nil), config.Levels...)
	t.Cleanup(func() {
		config.World, config.Asteroids, config.Player = world, asteroids, player
		config.Projectile, config.Powerups, config.UFO = projectile, powerups, ufo
		config.Director, config.Background = director, background
		config.Levels = levels
	})
}

type eventLog struct {
	events []Event
}

func (l *eventLog) Notify(ev Event) { l.events = append(l.events, ev) }

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, ev := range l.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// syncModels finishes every load before handing it out.
type syncModels struct {
	loader *assets.Loader
}

func (m syncModels) LoadAsync(ctx context.Context, path string) *assets.Pending {
	p := m.loader.LoadAsync(ctx, path)
	_, _ = p.Wait(ctx)
	return p
}

// embeddedModels loads the real models synchronously.
func embeddedModels() ModelSource {
	return syncModels{loader: assets.Embedded()}
}

// missingModels fails every load.
func missingModels() ModelSource {
	return syncModels{loader: assets.NewLoader(fstest.MapFS{})}
}

// stalledModels never finishes loading.
type stalledModels struct{}

func (stalledModels) LoadAsync(context.Context, string) *assets.Pending {
	return new(assets.Pending)
}

type rig struct {
	world   donburi.World
	physics *physics.World
	clock   *scheduler.Scheduler
	player  *Player
	rng     *rand.Rand
	events  *eventLog
}

func newRig(t *testing.T) *rig {
	t.Helper()
	cfg := physics.DefaultConfig()
	cfg.FixedStep = 0
	r := &rig{
		world:   donburi.NewWorld(),
		physics: physics.NewWorld(cfg),
		clock:   scheduler.New(),
		rng:     rand.New(rand.NewSource(42)),
		events:  &eventLog{},
	}
	r.player = NewPlayer(r.world, r.physics, r.events)
	return r
}

func (r *rig) deps(models ModelSource) Deps {
	return Deps{
		World:   r.world,
		Physics: r.physics,
		Player:  r.player,
		Clock:   r.clock,
		Notify:  r.events,
		Rand:    r.rng,
		Models:  models,
	}
}

// frame advances the clock, then steps physics, like one Session frame
// without the gameplay systems.
func (r *rig) frame(dt time.Duration) {
	r.clock.Tick(dt)
	r.physics.Step(dt)
}

func (r *rig) playerPos() gamemath.Vec3 {
	return r.player.CurrentBody().Position()
}

// newFixedRig steps physics in 10ms substeps so one Step can deliver the
// same contact several times.
func newFixedRig(t *testing.T) *rig {
	t.Helper()
	r := newRig(t)
	cfg := physics.DefaultConfig()
	cfg.FixedStep = 10 * time.Millisecond
	cfg.MaxSubSteps = 8
	r.physics = physics.NewWorld(cfg)
	r.player = NewPlayer(r.world, r.physics, r.events)
	return r
}

// silentPlayer never announces body swaps, leaving only the per-tick check.
type silentPlayer struct {
	*Player
}

func (silentPlayer) SubscribeBody(func(*physics.Body)) func() { return func() {} }

type countingEffect struct {
	applied, resets int
}

func (c *countingEffect) Apply() { c.applied++ }

func (c *countingEffect) Reset() { c.resets++ }
