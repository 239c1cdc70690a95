package components

import (
	"github.com/automoto/peerfire/shared/gamemath"
	"github.com/yohamta/donburi"
)

// TransformData places a player body in the world. Position is the centre of
// the body cylinder; Rotation holds pitch (X), yaw (Y) and roll (Z).
type TransformData struct {
	Position gamemath.Vec3
	Rotation gamemath.Vec3
	Velocity gamemath.Vec3
	OnGround bool
	CanJump  bool
	Visible  bool
}

var Transform = donburi.NewComponentType[TransformData]()
