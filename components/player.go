package components

import (
	"github.com/automoto/astrododge/physics"
	"github.com/yohamta/donburi"
)

// PlayerData holds the two hitboxes the player switches between.
type PlayerData struct {
	Ship         *physics.Body
	Shield       *physics.Body
	ShieldActive bool
}

var Player = donburi.NewComponentType[PlayerData]()
