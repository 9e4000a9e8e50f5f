package components

import "github.com/yohamta/donburi"

type AsteroidData struct {
	Size   float64 // radius, rolled on every spawn
	Damage int
}

var Asteroid = donburi.NewComponentType[AsteroidData]()
