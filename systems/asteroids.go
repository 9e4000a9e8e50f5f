package systems

import (
	"math"
	"math/rand"
	"time"

	"github.com/automoto/astrododge/archetypes"
	"github.com/automoto/astrododge/assets"
	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/gamemath"
	"github.com/automoto/astrododge/physics"
	"github.com/automoto/astrododge/tags"
	"github.com/rs/zerolog/log"
	"github.com/yohamta/donburi"
)

// AsteroidField spawns asteroids at a steady average rate and recycles them
// once they fall out of the playfield.
type AsteroidField struct {
	world   donburi.World
	physics PhysicsWorld
	pool    *ActorPool
	rng     *rand.Rand

	// Model is drawn for every asteroid; nil draws a circle.
	Model *assets.Model

	active bool
	speed  gamemath.Range
	rate   float64
	// acc is spawn credit scaled by time.Second so whole-millisecond frame
	// times accumulate without float drift.
	acc     float64
	spawned int
	dodged  int

	onSpawn   []func(*donburi.Entry)
	onRecycle []func(*donburi.Entry)
}

func NewAsteroidField(w donburi.World, pw PhysicsWorld, rng *rand.Rand) *AsteroidField {
	f := &AsteroidField{
		world:   w,
		physics: pw,
		rng:     rng,
	}
	if lvl, ok := config.LevelAt(0); ok {
		f.speed = lvl.AsteroidSpeed
		f.rate = lvl.SpawnRate
	}
	f.pool = NewActorPool(w, pw, config.Asteroids.PoolCapacity, f.newAsteroid)
	return f
}

func (f *AsteroidField) newAsteroid() *donburi.Entry {
	e := archetypes.Asteroid.Spawn(f.world)
	size := config.Asteroids.Size.Min
	body := f.physics.CreateBody(physics.BodyOptions{
		Shape:          physics.ShapeSphere,
		HalfExtents:    gamemath.V3(size, size, size),
		Mass:           config.Asteroids.Mass,
		Restitution:    config.Asteroids.Restitution,
		Friction:       config.Asteroids.Friction,
		AngularDamping: config.Asteroids.AngularDamping,
		Position:       gamemath.V3(0, config.Asteroids.SpawnY, 0),
		Tags:           []string{tags.ResolvAsteroid},
		Data:           e,
	})
	components.Actor.SetValue(e, components.ActorData{Body: body, Scale: size})
	return e
}

// Update spawns from the accumulator while active, then culls. Culling runs
// even while spawning is paused so the field drains.
func (f *AsteroidField) Update(dt time.Duration) {
	if f.active {
		f.acc += f.rate * float64(dt)
		for f.acc >= float64(time.Second) {
			f.spawn()
			f.acc -= float64(time.Second)
		}
	}

	for _, e := range f.pool.Active() {
		if components.Actor.Get(e).Body.Position().Y < config.Asteroids.DeathZoneY {
			f.dodged++
			f.Recycle(e)
		}
	}
}

func (f *AsteroidField) spawn() {
	e := f.pool.Acquire()
	if e == nil {
		log.Debug().Int("active", f.pool.ActiveCount()).Msg("asteroid pool exhausted, spawn skipped")
		return
	}
	cfg := config.Asteroids

	size := cfg.Size.Sample(f.rng)
	actor := components.Actor.Get(e)
	actor.Scale = size
	actor.Model = f.Model

	body := actor.Body
	body.Resize(gamemath.V3(size, size, size))
	body.SetPosition(gamemath.V3(gamemath.Symmetric(f.rng, cfg.SpawnBandHalfWidth), cfg.SpawnY, 0))
	body.SetRotation(gamemath.V3(
		f.rng.Float64()*2*math.Pi,
		f.rng.Float64()*2*math.Pi,
		f.rng.Float64()*2*math.Pi,
	))
	body.SetLinearVelocity(gamemath.V3(gamemath.Symmetric(f.rng, cfg.Drift), -f.speed.Sample(f.rng), 0))
	body.SetAngularVelocity(gamemath.V3(
		gamemath.Symmetric(f.rng, cfg.Spin),
		gamemath.Symmetric(f.rng, cfg.Spin),
		gamemath.Symmetric(f.rng, cfg.Spin),
	))

	components.Asteroid.SetValue(e, components.AsteroidData{
		Size:   size,
		Damage: int(math.Round(size * cfg.DamagePerSize)),
	})

	f.spawned++
	for _, fn := range f.onSpawn {
		fn(e)
	}
}

// Recycle returns an active asteroid to the pool.
func (f *AsteroidField) Recycle(e *donburi.Entry) {
	if e == nil || !e.Valid() || !components.Actor.Get(e).Active {
		return
	}
	for _, fn := range f.onRecycle {
		fn(e)
	}
	f.pool.Release(e)
}

// SetActive gates spawning only.
func (f *AsteroidField) SetActive(active bool) {
	f.active = active
}

func (f *AsteroidField) IsActive() bool { return f.active }

// SetSpeedRange applies to future spawns; live asteroids keep their speed.
func (f *AsteroidField) SetSpeedRange(r gamemath.Range) {
	f.speed = r
}

// SetSpawnRate sets asteroids per second for future spawns.
func (f *AsteroidField) SetSpawnRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	f.rate = rate
}

func (f *AsteroidField) SpeedRange() gamemath.Range { return f.speed }

func (f *AsteroidField) SpawnRate() float64 { return f.rate }

func (f *AsteroidField) OnSpawn(fn func(*donburi.Entry)) {
	f.onSpawn = append(f.onSpawn, fn)
}

func (f *AsteroidField) OnRecycle(fn func(*donburi.Entry)) {
	f.onRecycle = append(f.onRecycle, fn)
}

func (f *AsteroidField) Active() []*donburi.Entry {
	return f.pool.Active()
}

// Positions returns the positions of every active asteroid.
func (f *AsteroidField) Positions() []gamemath.Vec3 {
	active := f.pool.Active()
	out := make([]gamemath.Vec3, 0, len(active))
	for _, e := range active {
		out = append(out, components.Actor.Get(e).Body.Position())
	}
	return out
}

func (f *AsteroidField) Pool() *ActorPool { return f.pool }

// SpawnedTotal counts spawns since construction or the last Reset.
func (f *AsteroidField) SpawnedTotal() int { return f.spawned }

// Dodged counts asteroids that fell out of the playfield.
func (f *AsteroidField) Dodged() int { return f.dodged }

// Reset recycles every active asteroid and stops spawning. Bodies stay
// pooled for the next level.
func (f *AsteroidField) Reset() {
	f.active = false
	f.acc = 0
	f.spawned = 0
	f.dodged = 0
	for _, e := range f.pool.Active() {
		f.Recycle(e)
	}
}

// Dispose frees every asteroid body. The field is unusable afterwards.
func (f *AsteroidField) Dispose() {
	f.Reset()
	f.pool.DisposeAll()
	f.onSpawn, f.onRecycle = nil, nil
}
