package systems

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EventKind names a one-way UI/audio hook.
type EventKind int

const (
	EventAnnounce EventKind = iota // Level, Value = announcement scale
	EventPractice                  // Text = prompt, Value = 1 while active
	EventWaveStart
	EventWaveEnd
	EventUFOPhase
	EventDamage // Value = damage dealt
	EventHeal
	EventHealth // Value = current health, Max = max health
	EventShieldTimer
	EventPowerupSpawned
	EventPowerupCollected
	EventBossHit // Value = remaining health
	EventScore
	EventGameOver
	EventGameComplete
)

var eventNames = map[EventKind]string{
	EventAnnounce:         "announce",
	EventPractice:         "practice",
	EventWaveStart:        "wave_start",
	EventWaveEnd:          "wave_end",
	EventUFOPhase:         "ufo_phase",
	EventDamage:           "damage",
	EventHeal:             "heal",
	EventHealth:           "health",
	EventShieldTimer:      "shield_timer",
	EventPowerupSpawned:   "powerup_spawned",
	EventPowerupCollected: "powerup_collected",
	EventBossHit:          "boss_hit",
	EventScore:            "score",
	EventGameOver:         "game_over",
	EventGameComplete:     "game_complete",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

// Event is a notification for the HUD, audio or logs.
type Event struct {
	Kind  EventKind
	Level int
	Value float64
	Max   float64
	Text  string
}

// Notifier receives gameplay events. Implementations must not call back into
// the systems that notify them.
type Notifier interface {
	Notify(ev Event)
}

// NotifierFunc adapts a func to Notifier.
type NotifierFunc func(ev Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

// Notifiers fans an event out to every sink in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ev Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ev)
		}
	}
}

// LogNotifier writes events to zerolog. Per-frame events (announce scale,
// shield fill) go to trace so debug logs stay readable.
type LogNotifier struct {
	Logger zerolog.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{Logger: log.With().Str("component", "events").Logger()}
}

func (n *LogNotifier) Notify(ev Event) {
	lvl := zerolog.DebugLevel
	switch ev.Kind {
	case EventAnnounce, EventShieldTimer, EventPractice:
		lvl = zerolog.TraceLevel
	case EventGameOver, EventGameComplete, EventWaveStart:
		lvl = zerolog.InfoLevel
	}
	e := n.Logger.WithLevel(lvl).Str("event", ev.Kind.String())
	if ev.Level > 0 {
		e = e.Int("level", ev.Level)
	}
	if ev.Value != 0 {
		e = e.Float64("value", ev.Value)
	}
	if ev.Text != "" {
		e = e.Str("text", ev.Text)
	}
	e.Send()
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
