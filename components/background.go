package components

import (
	"image/color"

	"github.com/automoto/astrododge/gamemath"
	"github.com/yohamta/donburi"
)

// BackgroundData is a purely cosmetic body. It has no physics and never
// collides.
type BackgroundData struct {
	Position gamemath.Vec3
	Velocity gamemath.Vec3
	Radius   float64
	Color    color.RGBA
}

var Background = donburi.NewComponentType[BackgroundData]()
