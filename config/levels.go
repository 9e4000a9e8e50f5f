package config

import (
	"image/color"
	"time"

	"github.com/automoto/astrododge/gamemath"
)

// ShootingPattern selects how many shots a UFO fires at once.
type ShootingPattern string

const (
	PatternSingle       ShootingPattern = "single"
	PatternSpread       ShootingPattern = "spread"       // two mirrored angled shots
	PatternTripleSpread ShootingPattern = "tripleSpread" // spread plus a straight shot
)

// ProjectileVisual themes the shots fired during a level.
type ProjectileVisual struct {
	Size          float64
	Color         color.RGBA
	GlowIntensity float64
}

// UFOFlight configures a UFO pass for one level.
type UFOFlight struct {
	PathPoints      int
	PathXRange      gamemath.Range
	PathYRange      gamemath.Range
	TimePerPoint    time.Duration
	TotalShots      int
	EnterDuration   time.Duration
	ExitDuration    time.Duration
	ProjectileSpeed float64 // negative = downward
	ShootingPattern ShootingPattern
}

// Level is one entry of the static level table.
type Level struct {
	Level         int
	Duration      time.Duration
	AsteroidSpeed gamemath.Range // downward speed magnitude
	SpawnRate     float64        // asteroids per second
	UFOModel      string
	Projectile    ProjectileVisual
	UFO           UFOFlight
	HasBossEvent  bool
	Powerups      []PowerupKind // scheduled during the asteroid phase
}

// Levels is indexed 0..4 for levels 1..5.
var Levels []Level

func init() {
	Levels = []Level{
		{
			Level:         1,
			Duration:      10 * time.Second,
			AsteroidSpeed: gamemath.Range{Min: 2, Max: 4},
			SpawnRate:     0.5,
			UFOModel:      "scout",
			Projectile:    ProjectileVisual{Size: 0.25, Color: LightRed, GlowIntensity: 0.4},
			UFO: UFOFlight{
				PathPoints:      4,
				PathXRange:      gamemath.Range{Min: -7, Max: 7},
				PathYRange:      gamemath.Range{Min: 4, Max: 9},
				TimePerPoint:    1500 * time.Millisecond,
				TotalShots:      3,
				EnterDuration:   2 * time.Second,
				ExitDuration:    2 * time.Second,
				ProjectileSpeed: -5,
				ShootingPattern: PatternSingle,
			},
			Powerups: []PowerupKind{PowerupHealthBoost},
		},
		{
			Level:         2,
			Duration:      15 * time.Second,
			AsteroidSpeed: gamemath.Range{Min: 3, Max: 5},
			SpawnRate:     0.8,
			UFOModel:      "raider",
			Projectile:    ProjectileVisual{Size: 0.28, Color: Orange, GlowIntensity: 0.5},
			UFO: UFOFlight{
				PathPoints:      5,
				PathXRange:      gamemath.Range{Min: -8, Max: 8},
				PathYRange:      gamemath.Range{Min: 3, Max: 9},
				TimePerPoint:    1300 * time.Millisecond,
				TotalShots:      4,
				EnterDuration:   2 * time.Second,
				ExitDuration:    2 * time.Second,
				ProjectileSpeed: -6,
				ShootingPattern: PatternSingle,
			},
			Powerups: []PowerupKind{PowerupShield, PowerupHealthBoost},
		},
		{
			Level:         3,
			Duration:      20 * time.Second,
			AsteroidSpeed: gamemath.Range{Min: 3.5, Max: 6},
			SpawnRate:     1.1,
			UFOModel:      "striker",
			Projectile:    ProjectileVisual{Size: 0.3, Color: Yellow, GlowIntensity: 0.6},
			UFO: UFOFlight{
				PathPoints:      6,
				PathXRange:      gamemath.Range{Min: -8, Max: 8},
				PathYRange:      gamemath.Range{Min: 3, Max: 9},
				TimePerPoint:    1200 * time.Millisecond,
				TotalShots:      5,
				EnterDuration:   1800 * time.Millisecond,
				ExitDuration:    1800 * time.Millisecond,
				ProjectileSpeed: -6.5,
				ShootingPattern: PatternSpread,
			},
			Powerups: []PowerupKind{PowerupHealthBoost, PowerupShield},
		},
		{
			Level:         4,
			Duration:      25 * time.Second,
			AsteroidSpeed: gamemath.Range{Min: 4, Max: 7},
			SpawnRate:     1.4,
			UFOModel:      "destroyer",
			Projectile:    ProjectileVisual{Size: 0.32, Color: Magenta, GlowIntensity: 0.8},
			UFO: UFOFlight{
				PathPoints:      7,
				PathXRange:      gamemath.Range{Min: -8.5, Max: 8.5},
				PathYRange:      gamemath.Range{Min: 2, Max: 9},
				TimePerPoint:    1100 * time.Millisecond,
				TotalShots:      6,
				EnterDuration:   1600 * time.Millisecond,
				ExitDuration:    1600 * time.Millisecond,
				ProjectileSpeed: -7,
				ShootingPattern: PatternTripleSpread,
			},
			Powerups: []PowerupKind{PowerupShield, PowerupHealthBoost, PowerupShield},
		},
		{
			Level:         5,
			Duration:      30 * time.Second,
			AsteroidSpeed: gamemath.Range{Min: 4.5, Max: 8},
			SpawnRate:     1.7,
			UFOModel:      "destroyer", // the mothership is revealed when the UFO phase starts
			Projectile:    ProjectileVisual{Size: 0.35, Color: Purple, GlowIntensity: 1.0},
			UFO: UFOFlight{
				PathPoints:      6,
				PathXRange:      gamemath.Range{Min: -7, Max: 7},
				PathYRange:      gamemath.Range{Min: 4, Max: 9},
				TimePerPoint:    1400 * time.Millisecond,
				TotalShots:      12,
				EnterDuration:   2500 * time.Millisecond,
				ExitDuration:    2500 * time.Millisecond,
				ProjectileSpeed: -6,
				ShootingPattern: PatternTripleSpread,
			},
			HasBossEvent: true,
			Powerups:     []PowerupKind{PowerupHealthBoost, PowerupShield, PowerupHealthBoost},
		},
	}
}

// LevelAt returns the level at a zero-based index.
func LevelAt(index int) (Level, bool) {
	if index < 0 || index >= len(Levels) {
		return Level{}, false
	}
	return Levels[index], true
}
