package tags

import "github.com/yohamta/donburi"

var (
	Player     = donburi.NewTag().SetName("Player")
	Asteroid   = donburi.NewTag().SetName("Asteroid")
	Projectile = donburi.NewTag().SetName("Projectile")
	Powerup    = donburi.NewTag().SetName("Powerup")
	UFO        = donburi.NewTag().SetName("UFO")
	Background = donburi.NewTag().SetName("Background")
)

// Resolv tags for physics collision
const (
	// ResolvBody is carried by every physics body so broadphase queries can
	// ask the space for "anything".
	ResolvBody = "body"

	ResolvShip       = "ship"
	ResolvShield     = "shield"
	ResolvAsteroid   = "asteroid"
	ResolvProjectile = "projectile"
	ResolvPowerup    = "powerup"
	ResolvUFO        = "ufo"
)
