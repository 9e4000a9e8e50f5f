package components

import "github.com/yohamta/donburi"

type UFOPhase int

const (
	UFOIdle UFOPhase = iota
	UFOEntering
	UFOFlying
	UFOExiting
)

func (p UFOPhase) String() string {
	switch p {
	case UFOIdle:
		return "idle"
	case UFOEntering:
		return "entering"
	case UFOFlying:
		return "flying"
	case UFOExiting:
		return "exiting"
	}
	return "unknown"
}

type UFOData struct {
	Model  string
	Phase  UFOPhase
	Boss   bool
	Health int // boss only
}

var UFO = donburi.NewComponentType[UFOData]()
