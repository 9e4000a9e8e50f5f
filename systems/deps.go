package systems

import (
	"math/rand"

	"github.com/yohamta/donburi"
)

// Deps bundles the collaborators shared by the stateful controllers.
type Deps struct {
	World   donburi.World
	Physics PhysicsWorld
	Player  PlayerState
	Clock   Clock
	Notify  Notifier
	Rand    *rand.Rand
	Models  ModelSource
}
