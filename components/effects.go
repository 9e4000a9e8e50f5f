package components

import (
	"time"

	"github.com/yohamta/donburi"
)

// FlashData tracks a brief hit flash (boss hit, player damage)
type FlashData struct {
	Remaining time.Duration
	R, G, B   float32 // color multipliers (1,1,1 = white, 1,0.5,0.5 = red tint)
}

var Flash = donburi.NewComponentType[FlashData]()
