package climb

import (
	"math"

	"github.com/vovakirdan/sky-climb/internal/core"
)

// PlayerState is the camera rig. Position is the eye point; the feet are
// EyeHeight below it. Velocity is kept in the rig's own frame: X strafes
// right, Z moves forward and Y is vertical.
type PlayerState struct {
	Position    core.Vec3
	Velocity    core.Vec3
	Yaw         float64 // Radians, 0 faces -Z, positive turns left
	JumpCharges int
	EyeHeight   float64
}

// SpawnPoint is where the rig appears: standing on the spawn pad at the
// world origin.
func SpawnPoint(eyeHeight float64) core.Vec3 {
	return core.V3(0, eyeHeight, 0)
}

// NewPlayer creates a rig standing at the spawn point with full charges.
func NewPlayer(eyeHeight float64, maxJumps int) PlayerState {
	return PlayerState{
		Position:    SpawnPoint(eyeHeight),
		JumpCharges: maxJumps,
		EyeHeight:   eyeHeight,
	}
}

// Respawn teleports the rig back to the spawn point with no momentum and no
// charges. Charges come back once it rests on the pad.
func (p *PlayerState) Respawn() {
	p.Position = SpawnPoint(p.EyeHeight)
	p.Velocity = core.Vec3{}
	p.JumpCharges = 0
}

// Feet returns the altitude of the rig's feet.
func (p PlayerState) Feet() float64 {
	return p.Position.Y - p.EyeHeight
}

// Facing returns the unit vector the rig looks along on the XZ plane.
func (p PlayerState) Facing() core.Vec3 {
	return core.V3(-math.Sin(p.Yaw), 0, -math.Cos(p.Yaw))
}

// Right returns the unit vector to the rig's right on the XZ plane.
func (p PlayerState) Right() core.Vec3 {
	return core.V3(math.Cos(p.Yaw), 0, -math.Sin(p.Yaw))
}
