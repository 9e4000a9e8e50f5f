package config

import (
	"image/color"
	"time"

	"github.com/automoto/astrododge/gamemath"
)

// Config holds the logical screen size.
type Config struct {
	Width  int
	Height int
}

// WorldConfig describes the playfield in world units. Y grows upward.
type WorldConfig struct {
	MinX, MaxX float64
	MinY, MaxY float64

	// ProjectileBound is the |Y| beyond which projectiles are disposed.
	ProjectileBound float64
}

// PhysicsConfig contains physics world configuration
type PhysicsConfig struct {
	FixedStep   time.Duration // 0 = one variable step per frame
	MaxSubSteps int

	// Broadphase grid: world units are multiplied by Scale before they reach
	// the spatial hash, whose cells are CellSize scaled units wide.
	Scale    float64
	CellSize int
}

// AsteroidConfig contains asteroid field configuration
type AsteroidConfig struct {
	PoolCapacity int

	SpawnY             float64 // fixed spawn height
	SpawnBandHalfWidth float64 // spawn X is uniform in [-w, w]
	DeathZoneY         float64 // actors below this are recycled

	Size  gamemath.Range // radius; larger rocks hit harder
	Drift float64        // lateral speed is uniform in [-Drift, Drift]
	Spin  float64        // per-axis angular speed is uniform in [-Spin, Spin]

	DamagePerSize  float64
	Mass           float64
	Restitution    float64
	Friction       float64
	AngularDamping float64
}

// PlayerConfig contains all player-related configuration values
type PlayerConfig struct {
	Health int

	Y              float64
	HalfWidth      float64
	HalfHeight     float64
	ShieldRadius   float64
	BandHalfWidth  float64
	MaxSpeed       float64       // lateral speed at full tilt
	MaxTilt        float64       // tilt value treated as full deflection
	DamageCooldown time.Duration // per-source
}

// ProjectileConfig contains projectile configuration
type ProjectileConfig struct {
	Damage        int
	SpreadAngle   float64 // radians off vertical for spread shots
	DefaultSize   float64
	DefaultColor  color.RGBA
	DefaultGlow   float64
	PlayerSpeed   float64 // auto-cannon shots, upward
	PlayerSize    float64
	PlayerColor   color.RGBA
	Mass          float64
	LinearDamping float64
}

// PowerupKind identifies a power-up type. At most one instance of each kind
// is live at a time.
type PowerupKind int

const (
	PowerupHealthBoost PowerupKind = iota
	PowerupShield
	PowerupRocketShooter
)

func (k PowerupKind) String() string {
	switch k {
	case PowerupHealthBoost:
		return "health_boost"
	case PowerupShield:
		return "shield"
	case PowerupRocketShooter:
		return "rocket_shooter"
	}
	return "unknown"
}

// PowerupTypeConfig contains configuration for a specific power-up kind
type PowerupTypeConfig struct {
	ModelPath string
	Size      float64
	FallSpeed float64
	Hover     bool    // clamp to HoverY instead of falling through
	HoverY    float64 // only used with Hover
	Color     color.RGBA
}

// PowerupConfig contains power-up system configuration
type PowerupConfig struct {
	Types map[PowerupKind]PowerupTypeConfig

	SpawnY        float64
	SpawnHalfBand float64
	DespawnY      float64
	SafeRadius    float64 // keep spawns this far from active asteroids
	SpawnAttempts int

	HealAmount       int
	ShieldDuration   time.Duration
	AutoFireInterval time.Duration
}

// UFOModelConfig describes one named UFO model
type UFOModelConfig struct {
	ModelPath  string
	HalfWidth  float64
	HalfHeight float64
	Color      color.RGBA
}

// UFOConfig contains UFO controller configuration
type UFOConfig struct {
	Models map[string]UFOModelConfig

	EnterFrom     gamemath.Vec3 // off-screen start of the entry segment
	ExitTo        gamemath.Vec3 // off-screen end of the exit segment
	ParkAt        gamemath.Vec3 // where idle models wait
	BossModel     string
	BossHealth    int
	HitFlash      time.Duration
	ShotOffsetY   float64 // shots leave from below the hull
	BossPathScale float64 // reverse-loop paths keep this fraction of the timing
}

// DirectorConfig contains wave director timing
type DirectorConfig struct {
	AnnounceDuration time.Duration
	PracticeTilt     float64 // normalised tilt that counts as a deliberate lean
	PracticeTimeout  time.Duration

	// Power-ups spawn inside [PowerupSafeStart, duration-PowerupSafeEnd].
	PowerupSafeStart time.Duration
	PowerupSafeEnd   time.Duration
	PowerupMinGap    time.Duration

	NextLevelDelay time.Duration
}

// BackgroundConfig contains the cosmetic background actor configuration
type BackgroundConfig struct {
	Speed  float64
	Radius gamemath.Range
	Color  color.RGBA
}

// MenuConfig contains menu and game over screen configuration values
type MenuConfig struct {
	BackgroundColor   color.RGBA
	TitleColor        color.RGBA
	TextColorNormal   color.RGBA
	TextColorSelected color.RGBA
	TitleY            float64
	MenuStartY        float64
	MenuItemHeight    float64
	MenuItemGap       float64
	MenuOptions       []string
}

// HUDConfig contains in-game overlay layout
type HUDConfig struct {
	Margin       float64
	BarWidth     float64
	BarHeight    float64
	HealthColor  color.RGBA
	ShieldColor  color.RGBA
	BossColor    color.RGBA
	BarBackColor color.RGBA
	TextColor    color.RGBA
	FlashColor   color.RGBA
}

// InputConfig tunes keyboard and stick steering
type InputConfig struct {
	AnalogDeadzone float64
	TiltRate       float64 // keyboard tilt change per second, in full deflections
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	SkipMenu     bool // Skip menu and go directly to game
	ShowHitboxes bool
	LogLevel     string
	PrettyLogs   bool
}

// Global configuration instances
var C *Config
var World WorldConfig
var Physics PhysicsConfig
var Asteroids AsteroidConfig
var Player PlayerConfig
var Projectile ProjectileConfig
var Powerups PowerupConfig
var UFO UFOConfig
var Director DirectorConfig
var Background BackgroundConfig
var Debug DebugConfig
var Menu MenuConfig
var GameOver MenuConfig
var HUD HUDConfig
var Input InputConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow       = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Orange       = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	BrightOrange = color.RGBA{R: 255, G: 180, B: 50, A: 255}
	Red          = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green        = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	BrightGreen  = color.RGBA{R: 0, G: 255, B: 60, A: 255}
	Blue         = color.RGBA{R: 0, G: 100, B: 255, A: 255}
	Purple       = color.RGBA{R: 128, G: 0, B: 255, A: 255}
	LightRed     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	Magenta      = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Cyan         = color.RGBA{R: 0, G: 230, B: 255, A: 255}
	Grey         = color.RGBA{R: 140, G: 140, B: 150, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
	LightBlue    = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	DarkBlue     = color.RGBA{R: 60, G: 100, B: 160, A: 255}
)

func init() {
	C = &Config{
		Width:  600,
		Height: 780,
	}

	World = WorldConfig{
		MinX:            -10,
		MaxX:            10,
		MinY:            -12,
		MaxY:            14,
		ProjectileBound: 15,
	}

	Physics = PhysicsConfig{
		FixedStep:   time.Second / 60,
		MaxSubSteps: 8,
		Scale:       16,
		CellSize:    16, // one world unit
	}

	Asteroids = AsteroidConfig{
		PoolCapacity:       60,
		SpawnY:             13,
		SpawnBandHalfWidth: 9,
		DeathZoneY:         -11,
		Size:               gamemath.Range{Min: 0.4, Max: 1.2},
		Drift:              1.0,
		Spin:               2.0,
		DamagePerSize:      20,
		Mass:               1,
		Restitution:        0.3,
		Friction:           0.1,
		AngularDamping:     0,
	}

	Player = PlayerConfig{
		Health:         100,
		Y:              -8,
		HalfWidth:      0.6,
		HalfHeight:     0.5,
		ShieldRadius:   1.2,
		BandHalfWidth:  9,
		MaxSpeed:       9,
		MaxTilt:        30, // degrees
		DamageCooldown: 800 * time.Millisecond,
	}

	Projectile = ProjectileConfig{
		Damage:        15,
		SpreadAngle:   0.35, // ~20 degrees
		DefaultSize:   0.25,
		DefaultColor:  LightRed,
		DefaultGlow:   0.6,
		PlayerSpeed:   12,
		PlayerSize:    0.2,
		PlayerColor:   BrightGreen,
		Mass:          0.1,
		LinearDamping: 0,
	}

	Powerups = PowerupConfig{
		Types: map[PowerupKind]PowerupTypeConfig{
			PowerupHealthBoost: {
				ModelPath: "models/health_boost.json",
				Size:      0.5,
				FallSpeed: 2.5,
				Color:     BrightGreen,
			},
			PowerupShield: {
				ModelPath: "models/shield.json",
				Size:      0.5,
				FallSpeed: 2.5,
				Color:     Cyan,
			},
			PowerupRocketShooter: {
				ModelPath: "models/rocket_shooter.json",
				Size:      0.6,
				FallSpeed: 2.0,
				Hover:     true,
				HoverY:    -5,
				Color:     BrightOrange,
			},
		},
		SpawnY:           13,
		SpawnHalfBand:    8,
		DespawnY:         -11,
		SafeRadius:       2.0,
		SpawnAttempts:    10,
		HealAmount:       30,
		ShieldDuration:   8 * time.Second,
		AutoFireInterval: 350 * time.Millisecond,
	}

	UFO = UFOConfig{
		Models: map[string]UFOModelConfig{
			"scout":      {ModelPath: "models/scout.json", HalfWidth: 1.0, HalfHeight: 0.4, Color: Green},
			"raider":     {ModelPath: "models/raider.json", HalfWidth: 1.2, HalfHeight: 0.5, Color: Yellow},
			"striker":    {ModelPath: "models/striker.json", HalfWidth: 1.3, HalfHeight: 0.5, Color: Orange},
			"destroyer":  {ModelPath: "models/destroyer.json", HalfWidth: 1.5, HalfHeight: 0.6, Color: Magenta},
			"mothership": {ModelPath: "models/mothership.json", HalfWidth: 2.5, HalfHeight: 1.0, Color: Purple},
		},
		EnterFrom:     gamemath.V3(0, 16, 0),
		ExitTo:        gamemath.V3(0, 17, 0),
		ParkAt:        gamemath.V3(0, 30, 0),
		BossModel:     "mothership",
		BossHealth:    3,
		HitFlash:      150 * time.Millisecond,
		ShotOffsetY:   0.8,
		BossPathScale: 1.0,
	}

	Director = DirectorConfig{
		AnnounceDuration: 1500 * time.Millisecond,
		PracticeTilt:     0.5,
		PracticeTimeout:  8 * time.Second,
		PowerupSafeStart: 2 * time.Second,
		PowerupSafeEnd:   3 * time.Second,
		PowerupMinGap:    3 * time.Second,
		NextLevelDelay:   2 * time.Second,
	}

	Background = BackgroundConfig{
		Speed:  0.6,
		Radius: gamemath.Range{Min: 2, Max: 4},
		Color:  DarkBlue,
	}

	Menu = MenuConfig{
		BackgroundColor:   color.RGBA{R: 5, G: 8, B: 24, A: 255},
		TitleColor:        Cyan,
		TextColorNormal:   White,
		TextColorSelected: BrightOrange,
		TitleY:            200,
		MenuStartY:        330,
		MenuItemHeight:    30,
		MenuItemGap:       12,
		MenuOptions:       []string{"Play", "Exit"},
	}

	GameOver = MenuConfig{
		BackgroundColor:   color.RGBA{R: 40, G: 10, B: 10, A: 255},
		TitleColor:        LightRed,
		TextColorNormal:   White,
		TextColorSelected: BrightOrange,
		TitleY:            220,
		MenuStartY:        360,
		MenuItemHeight:    30,
		MenuItemGap:       15,
		MenuOptions:       []string{"Retry", "Main Menu"},
	}

	HUD = HUDConfig{
		Margin:       10,
		BarWidth:     160,
		BarHeight:    12,
		HealthColor:  color.RGBA{R: 40, G: 220, B: 40, A: 255},
		ShieldColor:  Cyan,
		BossColor:    Purple,
		BarBackColor: color.RGBA{R: 40, G: 40, B: 40, A: 255},
		TextColor:    White,
		FlashColor:   Red,
	}

	Input = InputConfig{
		AnalogDeadzone: 0.15,
		TiltRate:       4,
	}

	// Debug Config (defaults, can be overridden by CLI flags)
	Debug = DebugConfig{
		SkipMenu: false,
		LogLevel: "info",
	}
}
