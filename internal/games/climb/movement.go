package climb

import (
	"math"

	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/core"
	"github.com/vovakirdan/sky-climb/internal/world"
)

// GroundProber answers the downward ray query the step uses for support.
type GroundProber interface {
	CastDown(origin core.Vec3, maxDistance float64) world.ProbeResult
}

// MoveInput is the held-key state for one frame.
type MoveInput struct {
	Forward, Backward bool
	Left, Right       bool
	TurnLeft          bool
	TurnRight         bool
}

// MoveInputFrom reads the held movement actions of a frame.
func MoveInputFrom(in core.InputFrame) MoveInput {
	return MoveInput{
		Forward:   in.IsHeld(core.ActionForward),
		Backward:  in.IsHeld(core.ActionBackward),
		Left:      in.IsHeld(core.ActionLeft),
		Right:     in.IsHeld(core.ActionRight),
		TurnLeft:  in.IsHeld(core.ActionTurnLeft),
		TurnRight: in.IsHeld(core.ActionTurnRight),
	}
}

// Direction returns the unit input direction: X is strafe, Z is forward.
// Opposing keys cancel.
func (in MoveInput) Direction() core.Vec3 {
	d := core.V3(axis(in.Right, in.Left), 0, axis(in.Forward, in.Backward))
	return d.Normalize()
}

func axis(pos, neg bool) float64 {
	v := 0.0
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}

// StepOutcome is the boundary crossing a step detected.
type StepOutcome int

const (
	OutcomeNone StepOutcome = iota
	OutcomeFell
	OutcomeOutOfBounds
	OutcomeWon
)

func (o StepOutcome) String() string {
	switch o {
	case OutcomeFell:
		return "fell"
	case OutcomeOutOfBounds:
		return "out_of_bounds"
	case OutcomeWon:
		return "won"
	default:
		return "none"
	}
}

// Tuning holds the constants one step needs.
type Tuning struct {
	Gravity      float64
	Friction     float64
	Accel        float64
	JumpImpulse  float64
	TurnRate     float64
	MaxDelta     float64
	MaxJumps     int
	ProbeEpsilon float64
	DeathY       float64
	WinY         float64
	HalfExtent   float64
}

// TuningFrom builds the step constants from the config. A positive winY
// from the course overrides the configured goal.
func TuningFrom(cfg config.ClimbConfig, winY float64) Tuning {
	if winY <= 0 {
		winY = cfg.World.WinY
	}
	return Tuning{
		Gravity:      cfg.Physics.Gravity,
		Friction:     cfg.Physics.Friction,
		Accel:        cfg.Physics.Accel,
		JumpImpulse:  cfg.Physics.JumpImpulse,
		TurnRate:     cfg.Physics.TurnRate,
		MaxDelta:     cfg.Physics.MaxDelta,
		MaxJumps:     cfg.Player.MaxJumps,
		ProbeEpsilon: cfg.Player.ProbeEpsilon,
		DeathY:       cfg.World.DeathY,
		WinY:         winY,
		HalfExtent:   cfg.World.MapHalfExtent,
	}
}

// Step advances the rig by dt seconds: friction, gravity, ground support,
// input acceleration, then integration. It returns the first boundary the
// rig crossed. dt is clamped to [0, MaxDelta] and a zero dt does nothing.
func Step(p *PlayerState, in MoveInput, dt float64, probe GroundProber, tun Tuning) StepOutcome {
	if !core.IsFinite(dt) {
		return OutcomeNone
	}
	dt = core.ClampF(dt, 0, tun.MaxDelta)
	if dt == 0 {
		return OutcomeNone
	}

	v := &p.Velocity
	v.X -= v.X * tun.Friction * dt
	v.Z -= v.Z * tun.Friction * dt
	v.Y -= tun.Gravity * dt

	hit := probe.CastDown(p.Position, p.EyeHeight+tun.ProbeEpsilon)
	if hit.Hit && hit.Distance <= p.EyeHeight {
		v.Y = math.Max(0, v.Y)
		if v.Y == 0 {
			p.JumpCharges = tun.MaxJumps
		}
		p.Position.Y = hit.Point.Y + p.EyeHeight
		if hit.Body != nil {
			d := hit.Body.Delta()
			p.Position.X += d.X
			p.Position.Z += d.Z
		}
	}

	dir := in.Direction()
	v.X += dir.X * tun.Accel * dt
	v.Z += dir.Z * tun.Accel * dt

	if in.TurnLeft != in.TurnRight {
		turn := tun.TurnRate * dt
		if in.TurnRight {
			turn = -turn
		}
		p.Yaw = math.Remainder(p.Yaw+turn, 2*math.Pi)
	}

	move := p.Right().Scale(v.X * dt).Add(p.Facing().Scale(v.Z * dt))
	p.Position.X += move.X
	p.Position.Z += move.Z
	p.Position.Y += v.Y * dt

	switch {
	case p.Position.Y < tun.DeathY:
		return OutcomeFell
	case math.Abs(p.Position.X) > tun.HalfExtent || math.Abs(p.Position.Z) > tun.HalfExtent:
		return OutcomeOutOfBounds
	case p.Position.Y > tun.WinY:
		return OutcomeWon
	}
	return OutcomeNone
}

// Jump spends one charge and sets the vertical velocity to impulse. It
// reports whether the jump happened; with no charges left nothing changes.
func Jump(p *PlayerState, impulse float64) bool {
	if p.JumpCharges <= 0 {
		return false
	}
	p.JumpCharges--
	p.Velocity.Y = impulse
	return true
}
