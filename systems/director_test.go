package systems

import (
	"bytes"
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

func newTestSession(t *testing.T, input InputSource, store ItemStore) (*Session, *eventLog) {
	t.Helper()
	events := &eventLog{}
	s := NewSession(context.Background(), donburi.NewWorld(), SessionOptions{
		Input:    input,
		Notify:   events,
		Models:   embeddedModels(),
		Rand:     rand.New(rand.NewSource(7)),
		Progress: NewProgressStore(store),
	})
	return s, events
}

// tickWave drives spawning and the clock the way Session.Update orders them,
// without moving the player or stepping physics.
func tickWave(s *Session, dt time.Duration) {
	s.Asteroids.Update(dt)
	s.Clock.Tick(dt)
}

func TestDirector_FirstLevelEndToEnd(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, events := newTestSession(t, nil, nil)

	require.True(t, s.Director.Start())
	require.Equal(t, PhaseWave, s.Director.Phase())
	require.True(t, s.Asteroids.IsActive())

	for i := 0; i < 99; i++ {
		tickWave(s, 100*time.Millisecond)
	}
	assert.True(t, s.Director.IsWaveActive(), "wave still running at 9.9s")

	tickWave(s, 100*time.Millisecond)
	assert.Equal(t, 5, s.Asteroids.SpawnedTotal())
	assert.False(t, s.Director.IsWaveActive())
	assert.False(t, s.Asteroids.IsActive())
	assert.Equal(t, PhaseUFO, s.Director.Phase())
	assert.Equal(t, components.UFOEntering, s.UFO.Phase())
	assert.Equal(t, "scout", s.UFO.Model())
	assert.Equal(t, 1, events.count(EventWaveStart))
	assert.Equal(t, 1, events.count(EventWaveEnd))
	assert.Equal(t, 1, s.Background.Count())

	for i := 0; i < 10; i++ {
		tickWave(s, 100*time.Millisecond)
	}
	assert.Equal(t, 5, s.Asteroids.SpawnedTotal(), "no spawns after the wave ends")
}

func TestDirector_ConfiguresLevel(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, _ := newTestSession(t, nil, nil)

	require.True(t, s.Director.StartWave(2))
	level := config.Levels[2]
	assert.Equal(t, level.AsteroidSpeed, s.Asteroids.SpeedRange())
	assert.Equal(t, level.SpawnRate, s.Asteroids.SpawnRate())
	assert.Equal(t, level.Projectile, s.Projectiles.Visual())
	assert.Equal(t, "striker", s.UFO.Model())

	assert.False(t, s.Director.StartWave(len(config.Levels)))
	assert.Equal(t, 2, s.Director.CurrentLevel())
}

func TestDirector_AnnounceScalesUp(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = time.Second
	s, events := newTestSession(t, nil, nil)

	require.True(t, s.Director.Start())
	assert.Equal(t, PhaseAnnounce, s.Director.Phase())
	assert.Zero(t, s.Director.AnnounceScale())
	assert.False(t, s.Asteroids.IsActive())

	s.Clock.Tick(500 * time.Millisecond)
	assert.Greater(t, s.Director.AnnounceScale(), 0.5)
	assert.Equal(t, PhaseAnnounce, s.Director.Phase())

	s.Clock.Tick(500 * time.Millisecond)
	assert.InDelta(t, 1, s.Director.AnnounceScale(), 1e-6)
	assert.Equal(t, PhaseWave, s.Director.Phase())
	assert.Equal(t, 3, events.count(EventAnnounce))
}

func TestDirector_PracticeEndsOnBothLeans(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	tilt := 0.0
	s, events := newTestSession(t, InputFunc(func() float64 { return tilt }), nil)

	require.True(t, s.Director.Start())
	require.Equal(t, PhasePractice, s.Director.Phase())

	tilt = -0.6
	s.Clock.Tick(100 * time.Millisecond)
	tilt = 0.3
	s.Clock.Tick(100 * time.Millisecond)
	assert.Equal(t, PhasePractice, s.Director.Phase(), "a gentle lean does not count")

	tilt = 0.7
	s.Clock.Tick(100 * time.Millisecond)
	assert.Equal(t, PhaseWave, s.Director.Phase())
	assert.True(t, s.Director.IsWaveActive())
	assert.Equal(t, 2, events.count(EventPractice))
}

func TestDirector_PracticeTimesOut(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, _ := newTestSession(t, InputFunc(func() float64 { return 0.9 }), nil)

	require.True(t, s.Director.Start())
	s.Clock.Tick(config.Director.PracticeTimeout - time.Millisecond)
	assert.Equal(t, PhasePractice, s.Director.Phase())

	s.Clock.Tick(time.Millisecond)
	assert.Equal(t, PhaseWave, s.Director.Phase())
}

func TestDirector_PracticeOnlyOnFirstLevel(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, _ := newTestSession(t, InputFunc(func() float64 { return 0 }), nil)

	require.True(t, s.Director.StartWave(1))
	assert.Equal(t, PhaseWave, s.Director.Phase())
}

func TestDirector_PowerupOffsets(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0

	for seed := int64(0); seed < 25; seed++ {
		s := NewSession(context.Background(), donburi.NewWorld(), SessionOptions{
			Models: embeddedModels(),
			Rand:   rand.New(rand.NewSource(seed)),
		})
		require.True(t, s.Director.StartWave(3))
		level := config.Levels[3]
		offsets := s.Director.PowerupOffsets()
		require.NotEmpty(t, offsets, "seed %d", seed)
		assert.LessOrEqual(t, len(offsets), len(level.Powerups))

		for i, off := range offsets {
			assert.GreaterOrEqual(t, off, config.Director.PowerupSafeStart, "seed %d", seed)
			assert.Less(t, off, level.Duration, "seed %d", seed)
			if i > 0 {
				assert.GreaterOrEqual(t, off-offsets[i-1], config.Director.PowerupMinGap, "seed %d", seed)
			}
		}
	}
}

func TestDirector_PowerupSpawnsAtOffset(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, events := newTestSession(t, nil, nil)

	require.True(t, s.Director.StartWave(0))
	offsets := s.Director.PowerupOffsets()
	require.Len(t, offsets, 1)

	s.Clock.Tick(offsets[0] - time.Millisecond)
	assert.False(t, s.Powerups.Health.Live())
	s.Clock.Tick(time.Millisecond)
	assert.True(t, s.Powerups.Health.Live())
	assert.Equal(t, 1, events.count(EventPowerupSpawned))
}

func TestDirector_BossGateCollected(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, _ := newTestSession(t, nil, nil)

	require.True(t, s.Director.StartWave(4))
	assert.Equal(t, "destroyer", s.UFO.Model(), "boss stays hidden during the wave")
	s.Director.EndWave()
	require.Equal(t, PhaseBossGate, s.Director.Phase())
	assert.Equal(t, components.UFOIdle, s.UFO.Phase())

	s.Clock.Tick(16 * time.Millisecond)
	rocket := s.Powerups.Rocket
	require.True(t, rocket.Live())

	components.Actor.Get(rocket.Entry()).Body.SetPosition(s.Player.Position())
	s.Physics.Step(20 * time.Millisecond)

	assert.False(t, rocket.Live())
	assert.Equal(t, PhaseUFO, s.Director.Phase())
	assert.True(t, s.UFO.Boss())
	assert.Equal(t, config.UFO.BossModel, s.UFO.Model())
	assert.Equal(t, config.UFO.BossHealth, s.UFO.Health())
	assert.True(t, s.Powerups.Cannon.Enabled())
}

func TestDirector_BossGateWaitsForPickup(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, _ := newTestSession(t, nil, nil)

	require.True(t, s.Director.StartWave(4))
	s.Director.EndWave()
	for i := 0; i < 300; i++ {
		s.Clock.Tick(100 * time.Millisecond)
	}

	assert.Equal(t, PhaseBossGate, s.Director.Phase())
	assert.Equal(t, components.UFOIdle, s.UFO.Phase())
	assert.True(t, s.Powerups.Rocket.Live())
}

func TestDirector_AdvancesAfterUFO(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, _ := newTestSession(t, nil, nil)

	require.True(t, s.Director.Start())
	s.Director.EndWave()
	require.Equal(t, PhaseUFO, s.Director.Phase())

	for i := 0; i < 300 && s.Director.CurrentLevel() == 0; i++ {
		s.Clock.Tick(100 * time.Millisecond)
	}
	assert.Equal(t, 1, s.Director.CurrentLevel())
	assert.Equal(t, PhaseWave, s.Director.Phase())
	assert.Equal(t, components.UFOIdle, s.UFO.Phase())
	assert.Equal(t, "raider", s.UFO.Model())
}

func TestDirector_CompletesAfterLastLevel(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	config.Levels = config.Levels[:1]
	store := newMemStore()
	s, events := newTestSession(t, nil, store)

	completed := 0
	s.Director.OnComplete(func() { completed++ })
	require.True(t, s.Director.Start())
	s.Director.EndWave()
	for i := 0; i < 300 && !s.Complete(); i++ {
		s.Clock.Tick(100 * time.Millisecond)
	}

	assert.True(t, s.Complete())
	assert.Equal(t, 1, completed)
	assert.Equal(t, PhaseComplete, s.Director.Phase())
	assert.Zero(t, s.Director.PendingTimers())
	assert.Equal(t, 1, events.count(EventGameComplete))
	assert.True(t, s.Progress.Progress().Completed)
	assert.Contains(t, store.items, progressKey)
}

func TestDirector_StopKeepsLevel(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, _ := newTestSession(t, nil, nil)

	require.True(t, s.Director.StartWave(2))
	require.NotZero(t, s.Director.PendingTimers())

	s.Director.Stop()
	assert.Equal(t, PhaseStopped, s.Director.Phase())
	assert.Equal(t, 2, s.Director.CurrentLevel())
	assert.Zero(t, s.Director.PendingTimers())
	assert.False(t, s.Director.IsWaveActive())
	assert.False(t, s.Asteroids.IsActive())
}

func TestDirector_StopDuringUFOStaysStopped(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, events := newTestSession(t, nil, nil)

	require.True(t, s.Director.Start())
	s.Director.EndWave()
	require.Equal(t, PhaseUFO, s.Director.Phase())

	s.Director.Stop()
	assert.Equal(t, components.UFOIdle, s.UFO.Phase())
	for i := 0; i < 300; i++ {
		s.Clock.Tick(100 * time.Millisecond)
	}

	assert.Equal(t, PhaseStopped, s.Director.Phase())
	assert.Zero(t, s.Director.CurrentLevel())
	assert.Equal(t, components.UFOIdle, s.UFO.Phase())
	assert.Equal(t, 1, events.count(EventWaveStart))
	assert.Zero(t, s.Director.PendingTimers())
}

func TestDirector_ResetDuringUFOStaysIdle(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, events := newTestSession(t, nil, nil)

	require.True(t, s.Director.StartWave(2))
	s.Director.EndWave()
	require.Equal(t, PhaseUFO, s.Director.Phase())

	s.Director.Reset()
	for i := 0; i < 300; i++ {
		s.Clock.Tick(100 * time.Millisecond)
	}

	assert.Equal(t, PhaseIdle, s.Director.Phase())
	assert.Zero(t, s.Director.CurrentLevel())
	assert.Equal(t, components.UFOIdle, s.UFO.Phase())
	assert.Equal(t, 1, events.count(EventWaveStart))
	assert.False(t, s.Asteroids.IsActive())
}

func TestDirector_SkippedPowerupIsLogged(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	config.Levels[0].Powerups = []config.PowerupKind{config.PowerupShield}
	s, events := newTestSession(t, nil, nil)
	require.True(t, s.Powerups.Shield.Spawn(SpawnContext{Level: 1}))

	require.True(t, s.Director.StartWave(0))
	offsets := s.Director.PowerupOffsets()
	require.Len(t, offsets, 1)
	s.Clock.Tick(offsets[0])

	assert.Equal(t, 1, events.count(EventPowerupSpawned), "only the manual spawn")
	assert.Contains(t, buf.String(), "scheduled power-up skipped")
	assert.Contains(t, buf.String(), `"kind":"shield"`)
	assert.Contains(t, buf.String(), `"live":true`)
}

func TestDirector_ResetIsIdempotent(t *testing.T) {
	preserveConfig(t)
	config.Director.AnnounceDuration = 0
	s, _ := newTestSession(t, nil, nil)

	s.Director.Reset()
	require.True(t, s.Director.StartWave(3))
	s.Director.Reset()
	s.Director.Reset()

	assert.Equal(t, PhaseIdle, s.Director.Phase())
	assert.Zero(t, s.Director.CurrentLevel())
	assert.Zero(t, s.Director.PendingTimers())
	assert.Empty(t, s.Director.PowerupOffsets())
	assert.False(t, s.Asteroids.IsActive())

	require.True(t, s.Director.Start())
	assert.Equal(t, PhaseWave, s.Director.Phase())
	assert.Zero(t, s.Director.CurrentLevel())
}

func TestDirectorPhase_String(t *testing.T) {
	assert.Equal(t, "boss_gate", PhaseBossGate.String())
	assert.Equal(t, "unknown", DirectorPhase(99).String())
}
