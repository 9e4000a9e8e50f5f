package components

import (
	"github.com/automoto/astrododge/config"
	"github.com/yohamta/donburi"
)

type PowerupState int

const (
	PowerupIdle PowerupState = iota
	PowerupFalling
	PowerupHovering
	PowerupCollected
	PowerupDespawned
)

func (s PowerupState) String() string {
	switch s {
	case PowerupIdle:
		return "idle"
	case PowerupFalling:
		return "falling"
	case PowerupHovering:
		return "hovering"
	case PowerupCollected:
		return "collected"
	case PowerupDespawned:
		return "despawned"
	}
	return "unknown"
}

type PowerupData struct {
	Kind  config.PowerupKind
	State PowerupState
}

var Powerup = donburi.NewComponentType[PowerupData]()
