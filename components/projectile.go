package components

import (
	"image/color"

	"github.com/yohamta/donburi"
)

// ProjectileOwner tags who fired a shot. Boss damage only accepts player
// shots; player damage only accepts enemy shots.
type ProjectileOwner int

const (
	OwnerEnemy ProjectileOwner = iota
	OwnerPlayer
)

func (o ProjectileOwner) String() string {
	if o == OwnerPlayer {
		return "player"
	}
	return "enemy"
}

type ProjectileData struct {
	Owner ProjectileOwner
	// Hit is set synchronously inside the contact callback so a second
	// contact in the same step cannot consume the shot again.
	Hit bool

	Size  float64
	Color color.RGBA
	Glow  float64
}

var Projectile = donburi.NewComponentType[ProjectileData]()
