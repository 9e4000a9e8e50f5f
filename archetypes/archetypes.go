package archetypes

import (
	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/tags"
	"github.com/yohamta/donburi"
)

var (
	Player = newArchetype(
		tags.Player,
		components.Player,
		components.Health,
		components.Flash,
	)
	Asteroid = newArchetype(
		tags.Asteroid,
		components.Actor,
		components.Asteroid,
	)
	Projectile = newArchetype(
		tags.Projectile,
		components.Actor,
		components.Projectile,
	)
	Powerup = newArchetype(
		tags.Powerup,
		components.Actor,
		components.Powerup,
	)
	UFO = newArchetype(
		tags.UFO,
		components.Actor,
		components.UFO,
		components.Flash,
	)
	Background = newArchetype(
		tags.Background,
		components.Background,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	all := append(append([]donburi.IComponentType(nil), a.components...), cs...)
	return w.Entry(w.Create(all...))
}
