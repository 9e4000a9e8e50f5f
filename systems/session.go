package systems

import (
	"context"
	"math/rand"
	"time"

	"github.com/automoto/astrododge/physics"
	"github.com/automoto/astrododge/scheduler"
	"github.com/rs/zerolog/log"
	"github.com/yohamta/donburi"
)

// BossHitScore is added to the score for every hit on the boss.
const BossHitScore = 10

// SessionOptions configures a Session. Zero values get sensible defaults.
type SessionOptions struct {
	Physics  physics.Config
	Input    InputSource
	Notify   Notifier
	Models   ModelSource
	Rand     *rand.Rand
	Progress *ProgressStore
}

// Session owns one game: every system, the physics world and the clock.
// Update is the whole per-frame pipeline.
type Session struct {
	World       donburi.World
	Physics     *physics.World
	Clock       *scheduler.Scheduler
	Player      *Player
	Asteroids   *AsteroidField
	Projectiles *ProjectileSystem
	Powerups    *PowerupSet
	UFO         *UFOController
	Director    *WaveDirector
	Bridge      *CollisionBridge
	Background  *Background
	Progress    *ProgressStore

	input    InputSource
	notify   Notifier
	over     bool
	complete bool
	bossHits int
	score    int
}

func NewSession(ctx context.Context, world donburi.World, opts SessionOptions) *Session {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Physics == (physics.Config{}) {
		opts.Physics = physics.DefaultConfig()
	}
	if opts.Progress == nil {
		opts.Progress = NewProgressStore(nil)
	}

	s := &Session{
		World:    world,
		Physics:  physics.NewWorld(opts.Physics),
		Clock:    scheduler.New(),
		Progress: opts.Progress,
		input:    opts.Input,
	}
	s.notify = Notifiers{NotifierFunc(s.observe), orNop(opts.Notify)}

	s.Player = NewPlayer(world, s.Physics, s.notify)
	deps := Deps{
		World:   world,
		Physics: s.Physics,
		Player:  s.Player,
		Clock:   s.Clock,
		Notify:  s.notify,
		Rand:    opts.Rand,
		Models:  opts.Models,
	}
	s.Asteroids = NewAsteroidField(world, s.Physics, opts.Rand)
	s.Projectiles = NewProjectileSystem(world, s.Physics)
	s.Bridge = NewCollisionBridge(s.Physics, s.Player, s.Clock, s.notify, s.Asteroids, s.Projectiles)
	s.Powerups = NewPowerupSet(ctx, deps, s.Projectiles)
	s.UFO = NewUFOController(ctx, deps, s.Projectiles)
	s.Background = NewBackground(world, opts.Rand)
	s.Director = NewWaveDirector(deps, s.Asteroids, s.Projectiles, s.UFO, s.Powerups, s.Background, opts.Input)

	s.Bridge.OnDeath(s.gameOver)
	s.Director.OnComplete(s.finished)
	return s
}

// observe keeps score from the event stream.
func (s *Session) observe(ev Event) {
	if ev.Kind == EventBossHit {
		s.bossHits++
	}
}

// Start begins the run at the director's current level.
func (s *Session) Start() {
	s.Director.Start()
}

// Update runs one frame. Gameplay systems move first, then the clock fires
// observers and timers, then physics steps and drains its post-step queue.
func (s *Session) Update(dt time.Duration) {
	if s.over || s.complete {
		return
	}
	tilt := 0.0
	if s.input != nil {
		tilt = s.input.Tilt()
	}
	s.Player.Update(dt, tilt)
	s.Bridge.Update()
	s.Asteroids.Update(dt)
	s.Projectiles.Update()
	s.Background.Update(dt)
	s.Clock.Tick(dt)
	s.Physics.Step(dt)

	if score := s.Score(); score != s.score {
		s.score = score
		s.notify.Notify(Event{Kind: EventScore, Value: float64(score)})
	}
}

// Score is asteroids dodged plus boss hits.
func (s *Session) Score() int {
	return s.Asteroids.Dodged() + s.bossHits*BossHitScore
}

func (s *Session) Over() bool { return s.over }

func (s *Session) Complete() bool { return s.complete }

func (s *Session) gameOver() {
	if s.over {
		return
	}
	s.over = true
	s.Director.Stop()
	s.Powerups.Reset()
	level := s.Director.CurrentLevel() + 1
	log.Info().Int("level", level).Int("score", s.Score()).Msg("game over")
	s.notify.Notify(Event{Kind: EventGameOver, Level: level, Value: float64(s.Score())})
	if err := s.Progress.Record(level, s.Score(), false); err != nil {
		log.Warn().Err(err).Msg("could not record progress")
	}
}

func (s *Session) finished() {
	s.complete = true
	s.Powerups.Reset()
	if err := s.Progress.Record(s.Director.CurrentLevel()+1, s.Score(), true); err != nil {
		log.Warn().Err(err).Msg("could not record progress")
	}
}

// Restart tears the run down to a clean first level without freeing pooled
// bodies, then starts again.
func (s *Session) Restart() {
	s.reset()
	s.Start()
}

func (s *Session) reset() {
	s.Director.Reset()
	s.UFO.Reset()
	s.Powerups.Reset()
	s.Projectiles.Clear()
	s.Asteroids.Reset()
	s.Background.Reset()
	s.Player.Reset()
	s.Bridge.Reset()
	s.over = false
	s.complete = false
	s.bossHits = 0
	s.score = 0
}

// Dispose frees every body the session created.
func (s *Session) Dispose() {
	s.reset()
	s.Bridge.Dispose()
	s.Asteroids.Dispose()
	s.UFO.Dispose()
	s.Player.Dispose()
}
