package components

import (
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/yohamta/donburi"
)

// InputData is the movement intent of the local player for the current tick.
type InputData struct {
	Move gamemath.Vec3 // world-space direction on the XZ plane, length <= 1
	Jump bool
}

var Input = donburi.NewComponentType[InputData]()
