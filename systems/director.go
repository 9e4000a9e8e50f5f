package systems

import (
	"time"

	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/scheduler"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DirectorPhase is where the current level is in its sequence.
type DirectorPhase int

const (
	PhaseIdle DirectorPhase = iota
	PhaseAnnounce
	PhasePractice
	PhaseWave
	PhaseBossGate // wave over, waiting for the rocket shooter pickup
	PhaseUFO
	PhaseNextLevel
	PhaseComplete
	PhaseStopped
)

func (p DirectorPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnnounce:
		return "announce"
	case PhasePractice:
		return "practice"
	case PhaseWave:
		return "wave"
	case PhaseBossGate:
		return "boss_gate"
	case PhaseUFO:
		return "ufo"
	case PhaseNextLevel:
		return "next_level"
	case PhaseComplete:
		return "complete"
	case PhaseStopped:
		return "stopped"
	}
	return "unknown"
}

// WaveDirector sequences each level:
// announce -> (practice, first level only) -> wave -> end wave -> UFO -> next.
// Every timer and observer it registers lives in one group so Reset and Stop
// can cancel them all.
type WaveDirector struct {
	deps        Deps
	field       *AsteroidField
	projectiles *ProjectileSystem
	ufo         *UFOController
	powerups    *PowerupSet
	background  *Background
	input       InputSource
	timers      *scheduler.Group
	logger      zerolog.Logger

	levelIndex      int
	phase           DirectorPhase
	waveActive      bool
	practicePending bool
	announceScale   float64
	powerupOffsets  []time.Duration

	onComplete []func()
}

func NewWaveDirector(deps Deps, field *AsteroidField, projectiles *ProjectileSystem, ufo *UFOController, powerups *PowerupSet, background *Background, input InputSource) *WaveDirector {
	d := &WaveDirector{
		deps:        deps,
		field:       field,
		projectiles: projectiles,
		ufo:         ufo,
		powerups:    powerups,
		background:  background,
		input:       input,
		timers:      scheduler.NewGroup(deps.Clock),
		logger:      log.With().Str("component", "director").Logger(),
	}
	d.deps.Notify = orNop(deps.Notify)
	return d
}

// Start begins a fresh run from the current level. The first level gets the
// tilt practice gate.
func (d *WaveDirector) Start() bool {
	d.practicePending = d.input != nil
	return d.StartWave(d.levelIndex)
}

// StartWave configures the field, projectiles and UFO for a level and
// announces it. The boss model stays hidden until the UFO phase.
func (d *WaveDirector) StartWave(index int) bool {
	level, ok := config.LevelAt(index)
	if !ok {
		d.logger.Warn().Int("index", index).Msg("no such level")
		return false
	}
	d.timers.CancelAll()
	d.levelIndex = index
	d.waveActive = false

	d.field.SetActive(false)
	d.field.SetSpeedRange(level.AsteroidSpeed)
	d.field.SetSpawnRate(level.SpawnRate)
	d.projectiles.SetVisualConfig(level.Projectile.Size, level.Projectile.Color, level.Projectile.GlowIntensity)
	d.ufo.SetModel(level.UFOModel)

	d.logger.Info().Int("level", level.Level).Dur("duration", level.Duration).Msg("starting wave")
	d.announce(level)
	return true
}

func (d *WaveDirector) announce(level config.Level) {
	d.phase = PhaseAnnounce
	dur := config.Director.AnnounceDuration
	if dur <= 0 {
		d.announceScale = 1
		d.deps.Notify.Notify(Event{Kind: EventAnnounce, Level: level.Level, Value: 1})
		d.afterAnnounce()
		return
	}

	d.announceScale = 0
	tw := gween.New(0, 1, float32(dur.Seconds()), ease.OutBack)
	d.deps.Notify.Notify(Event{Kind: EventAnnounce, Level: level.Level})
	var h scheduler.Handle
	h = d.timers.OnBeforeTick(func(dt time.Duration) {
		v, done := tw.Update(float32(dt.Seconds()))
		d.announceScale = float64(v)
		d.deps.Notify.Notify(Event{Kind: EventAnnounce, Level: level.Level, Value: d.announceScale})
		if done {
			d.timers.Cancel(h)
			d.afterAnnounce()
		}
	})
}

func (d *WaveDirector) afterAnnounce() {
	if d.levelIndex == 0 && d.practicePending {
		d.practice()
		return
	}
	d.beginWave()
}

// practice waits for a deliberate lean both ways, or gives up after the
// timeout.
func (d *WaveDirector) practice() {
	d.phase = PhasePractice
	d.deps.Notify.Notify(Event{Kind: EventPractice, Value: 1, Text: "Tilt left and right to steer"})

	var left, right, finished bool
	var watch, timeout scheduler.Handle
	finish := func(reason string) {
		if finished {
			return
		}
		finished = true
		d.timers.Cancel(watch)
		d.timers.Cancel(timeout)
		d.practicePending = false
		d.logger.Debug().Str("reason", reason).Msg("practice finished")
		d.deps.Notify.Notify(Event{Kind: EventPractice, Value: 0})
		d.beginWave()
	}
	watch = d.timers.OnBeforeTick(func(time.Duration) {
		tilt := d.input.Tilt()
		left = left || tilt <= -config.Director.PracticeTilt
		right = right || tilt >= config.Director.PracticeTilt
		if left && right {
			finish("tilted")
		}
	})
	timeout = d.timers.After(config.Director.PracticeTimeout, func() { finish("timeout") })
}

func (d *WaveDirector) beginWave() {
	level := d.Level()
	d.phase = PhaseWave
	d.waveActive = true
	d.field.SetActive(true)
	d.schedulePowerups(level)
	d.timers.After(level.Duration, d.EndWave)
	d.deps.Notify.Notify(Event{Kind: EventWaveStart, Level: level.Level})
}

// schedulePowerups splits the safe window into one segment per power-up and
// picks a random offset inside each, then pushes offsets apart so no two
// land within the minimum gap.
func (d *WaveDirector) schedulePowerups(level config.Level) {
	d.powerupOffsets = d.powerupOffsets[:0]
	n := len(level.Powerups)
	if n == 0 {
		return
	}
	start := config.Director.PowerupSafeStart
	end := level.Duration - config.Director.PowerupSafeEnd
	if end < start {
		end = start
	}
	seg := (end - start) / time.Duration(n)

	var prev time.Duration
	for i, kind := range level.Powerups {
		off := start + seg*time.Duration(i)
		if seg > 0 {
			off += time.Duration(d.deps.Rand.Int63n(int64(seg)))
		}
		if i > 0 && off-prev < config.Director.PowerupMinGap {
			off = prev + config.Director.PowerupMinGap
		}
		if off >= level.Duration {
			d.logger.Debug().Str("kind", kind.String()).Msg("no room for power-up this wave")
			continue
		}
		prev = off
		d.powerupOffsets = append(d.powerupOffsets, off)

		p := d.powerups.Get(kind)
		lvl := level.Level
		d.timers.After(off, func() {
			if !p.Spawn(SpawnContext{Level: lvl, Asteroids: d.field.Positions()}) {
				d.logger.Info().Str("kind", p.Kind().String()).Int("level", lvl).
					Bool("live", p.Live()).Msg("scheduled power-up skipped")
			}
		})
	}
}

// PowerupOffsets returns the offsets scheduled for the current wave.
func (d *WaveDirector) PowerupOffsets() []time.Duration {
	return append([]time.Duration(nil), d.powerupOffsets...)
}

// EndWave stops spawning and moves on to the UFO phase. Boss levels first
// wait for the rocket shooter pickup; missing it means no UFO phase this
// attempt.
func (d *WaveDirector) EndWave() {
	if !d.waveActive {
		return
	}
	level := d.Level()
	d.waveActive = false
	d.field.SetActive(false)
	if d.background != nil {
		d.background.Spawn()
	}
	d.deps.Notify.Notify(Event{Kind: EventWaveEnd, Level: level.Level})

	if !level.HasBossEvent {
		d.StartUFOPhase()
		return
	}

	d.phase = PhaseBossGate
	gate := d.powerups.Rocket
	ctx := SpawnContext{
		Level: level.Level,
		OnDone: func(collected bool) {
			if !collected {
				d.logger.Info().Msg("rocket shooter missed, boss stays away")
				return
			}
			if d.phase == PhaseBossGate {
				d.StartUFOPhase()
			}
		},
	}
	// The gate model may still be loading; keep trying each frame.
	var h scheduler.Handle
	h = d.timers.OnBeforeTick(func(time.Duration) {
		ctx.Asteroids = d.field.Positions()
		if gate.Spawn(ctx) {
			d.timers.Cancel(h)
		}
	})
}

// StartUFOPhase reveals the level's UFO (the boss on boss levels) and flies
// it. When it leaves, the next level follows after a delay.
func (d *WaveDirector) StartUFOPhase() bool {
	level := d.Level()
	if level.HasBossEvent {
		d.ufo.SetModel(config.UFO.BossModel)
	}
	if !d.ufo.Fly(level.UFO, d.ufoDone) {
		d.logger.Warn().Str("model", d.ufo.Model()).Msg("ufo busy, phase skipped")
		return false
	}
	d.phase = PhaseUFO
	return true
}

func (d *WaveDirector) ufoDone() {
	if d.phase != PhaseUFO {
		return
	}
	next := d.levelIndex + 1
	if next >= len(config.Levels) {
		d.phase = PhaseComplete
		d.timers.CancelAll()
		d.logger.Info().Msg("all levels cleared")
		d.deps.Notify.Notify(Event{Kind: EventGameComplete, Level: d.Level().Level})
		for _, fn := range d.onComplete {
			fn()
		}
		return
	}
	d.phase = PhaseNextLevel
	d.timers.After(config.Director.NextLevelDelay, func() { d.StartWave(next) })
}

// OnComplete runs after the last level's UFO leaves.
func (d *WaveDirector) OnComplete(fn func()) {
	d.onComplete = append(d.onComplete, fn)
}

// Reset cancels everything and rewinds to the first level.
func (d *WaveDirector) Reset() {
	d.halt()
	d.levelIndex = 0
	d.phase = PhaseIdle
	d.practicePending = false
	d.announceScale = 0
	d.powerupOffsets = d.powerupOffsets[:0]
}

// Stop cancels everything but keeps the level reached.
func (d *WaveDirector) Stop() {
	d.halt()
	d.phase = PhaseStopped
}

func (d *WaveDirector) halt() {
	d.timers.CancelAll()
	if d.phase == PhaseUFO {
		// the pass runs on the UFO's own timers and would call ufoDone
		d.ufo.Reset()
	}
	d.waveActive = false
	d.field.SetActive(false)
}

// CurrentLevel is the zero-based level index.
func (d *WaveDirector) CurrentLevel() int { return d.levelIndex }

func (d *WaveDirector) Level() config.Level {
	level, _ := config.LevelAt(d.levelIndex)
	return level
}

func (d *WaveDirector) Phase() DirectorPhase { return d.phase }

func (d *WaveDirector) IsWaveActive() bool { return d.waveActive }

// AnnounceScale is the level banner's current scale.
func (d *WaveDirector) AnnounceScale() float64 { return d.announceScale }

// PendingTimers counts live timers and observers.
func (d *WaveDirector) PendingTimers() int { return d.timers.Live() }
