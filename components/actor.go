package components

import (
	"github.com/automoto/astrododge/assets"
	"github.com/automoto/astrododge/physics"
	"github.com/yohamta/donburi"
)

// ActorData is the visual+physics pair shared by every transient actor.
type ActorData struct {
	Body   *physics.Body
	Active bool
	Scale  float64
	Model  *assets.Model

	// Contact is the actor's registration against Partner (usually the
	// player's current body). Zero when pooled.
	Contact physics.ContactHandle
	Partner physics.BodyID
}

var Actor = donburi.NewComponentType[ActorData]()
