package climb

import (
	"math"
	"testing"

	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/core"
	"github.com/vovakirdan/sky-climb/internal/world"
)

const frame = 1.0 / 60

func defaultTuning() Tuning {
	return TuningFrom(config.DefaultClimbConfig(), 0)
}

func padWorld() *world.World {
	return world.New([]*world.Body{world.NewSpawnPad(0, 400)})
}

func TestDirectionCancels(t *testing.T) {
	tests := []struct {
		name string
		in   MoveInput
		want core.Vec3
	}{
		{"none", MoveInput{}, core.Vec3{}},
		{"forward", MoveInput{Forward: true}, core.V3(0, 0, 1)},
		{"forward and back", MoveInput{Forward: true, Backward: true}, core.Vec3{}},
		{"left and right", MoveInput{Left: true, Right: true}, core.Vec3{}},
		{"all four", MoveInput{Forward: true, Backward: true, Left: true, Right: true}, core.Vec3{}},
		{"all but back", MoveInput{Forward: true, Left: true, Right: true}, core.V3(0, 0, 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Direction(); got != tc.want {
				t.Errorf("Direction() = %v, expected %v", got, tc.want)
			}
		})
	}

	diag := MoveInput{Forward: true, Right: true}.Direction()
	if math.Abs(diag.Len()-1) > 1e-9 {
		t.Errorf("diagonal direction should be unit length, got %v", diag.Len())
	}
}

func TestOpposingKeysDoNotMove(t *testing.T) {
	tun := defaultTuning()
	w := padWorld()
	p := NewPlayer(10, 2)
	in := MoveInput{Forward: true, Backward: true, Left: true, Right: true}

	for i := 0; i < 60; i++ {
		Step(&p, in, frame, w, tun)
	}
	if p.Position.X != 0 || p.Position.Z != 0 {
		t.Errorf("player moved to %v", p.Position)
	}
}

func TestForwardOneSecond(t *testing.T) {
	tun := defaultTuning()
	w := padWorld()
	p := NewPlayer(10, 2)

	for i := 0; i < 60; i++ {
		Step(&p, MoveInput{Forward: true}, frame, w, tun)
	}

	d := p.Position.HorizontalLen()
	if d <= 0 || d > tun.Accel/tun.Friction {
		t.Errorf("displacement %v outside (0, %v]", d, tun.Accel/tun.Friction)
	}
	if p.Position.Z >= 0 {
		t.Errorf("facing yaw 0 should move toward -Z, got %v", p.Position)
	}
	if p.Position.Y != 10 {
		t.Errorf("player should stay on the pad, y = %v", p.Position.Y)
	}
}

func TestStrafeFollowsYaw(t *testing.T) {
	tun := defaultTuning()
	w := padWorld()
	p := NewPlayer(10, 2)
	p.Yaw = math.Pi / 2 // facing -X

	for i := 0; i < 30; i++ {
		Step(&p, MoveInput{Forward: true}, frame, w, tun)
	}
	if p.Position.X >= 0 || math.Abs(p.Position.Z) > 1e-6 {
		t.Errorf("expected movement toward -X, got %v", p.Position)
	}
}

func TestTurning(t *testing.T) {
	tun := defaultTuning()
	w := padWorld()
	p := NewPlayer(10, 2)

	Step(&p, MoveInput{TurnLeft: true}, 0.1, w, tun)
	if math.Abs(p.Yaw-tun.TurnRate*0.1) > 1e-9 {
		t.Errorf("yaw = %v after turning left", p.Yaw)
	}
	Step(&p, MoveInput{TurnLeft: true, TurnRight: true}, 0.1, w, tun)
	if math.Abs(p.Yaw-tun.TurnRate*0.1) > 1e-9 {
		t.Error("opposing turn keys should cancel")
	}
}

func TestRestingRefillsCharges(t *testing.T) {
	tun := defaultTuning()
	w := padWorld()
	p := NewPlayer(10, 2)
	p.JumpCharges = 0

	Step(&p, MoveInput{}, frame, w, tun)

	if p.JumpCharges != tun.MaxJumps {
		t.Errorf("charges = %d, expected %d", p.JumpCharges, tun.MaxJumps)
	}
	if p.Velocity.Y != 0 {
		t.Errorf("vertical velocity = %v, expected 0", p.Velocity.Y)
	}
}

func TestRisingThroughSurfaceKeepsCharges(t *testing.T) {
	tun := defaultTuning()
	w := padWorld()
	p := NewPlayer(10, 2)
	Jump(&p, tun.JumpImpulse)

	Step(&p, MoveInput{}, frame, w, tun)

	if p.JumpCharges != 1 {
		t.Errorf("charges = %d, a rising player must not refill", p.JumpCharges)
	}
	if p.Position.Y <= 10 {
		t.Errorf("player should leave the ground, y = %v", p.Position.Y)
	}
}

func TestJump(t *testing.T) {
	p := NewPlayer(10, 2)
	p.Velocity.Y = -120

	if !Jump(&p, 350) {
		t.Fatal("jump with charges should succeed")
	}
	if p.Velocity.Y != 350 {
		t.Errorf("jump should set velocity, got %v", p.Velocity.Y)
	}
	if p.JumpCharges != 1 {
		t.Errorf("charges = %d, expected 1", p.JumpCharges)
	}

	Jump(&p, 350)
	before := p
	if Jump(&p, 350) {
		t.Error("jump with no charges should fail")
	}
	if p != before {
		t.Error("jump with no charges changed the player")
	}
	if p.JumpCharges != 0 {
		t.Errorf("charges = %d, expected 0", p.JumpCharges)
	}
}

func TestDeltaClamp(t *testing.T) {
	tun := defaultTuning()
	w := world.New(nil)

	p := NewPlayer(10, 2)
	Step(&p, MoveInput{}, 0, w, tun)
	if p.Velocity.Y != 0 {
		t.Error("zero delta should be a no-op")
	}
	Step(&p, MoveInput{}, math.NaN(), w, tun)
	if p.Velocity.Y != 0 {
		t.Error("NaN delta should be a no-op")
	}

	Step(&p, MoveInput{}, 5, w, tun)
	if want := -tun.Gravity * tun.MaxDelta; math.Abs(p.Velocity.Y-want) > 1e-9 {
		t.Errorf("velocity = %v, expected the clamped %v", p.Velocity.Y, want)
	}
}

func TestRidesMovingPlatform(t *testing.T) {
	tun := defaultTuning()
	b := world.NewBox(0, core.V3(0, -1, 0), 40, 2, 40)
	b.Mover = &world.Oscillator{Origin: b.Center, Axis: core.V3(1, 0, 0), Amplitude: 10, Period: 4}
	w := world.New([]*world.Body{b})
	p := NewPlayer(10, 2)

	w.Advance(0.1, 1)
	Step(&p, MoveInput{}, 0.1, w, tun)

	if math.Abs(p.Position.X-b.Delta().X) > 1e-9 || p.Position.X == 0 {
		t.Errorf("player x = %v, expected platform delta %v", p.Position.X, b.Delta().X)
	}
}

func TestBoundaryOutcomes(t *testing.T) {
	tun := defaultTuning()
	empty := world.New(nil)

	tests := []struct {
		name string
		pos  core.Vec3
		vel  core.Vec3
		want StepOutcome
	}{
		{"fell", core.V3(0, -49.9, 0), core.V3(0, -100, 0), OutcomeFell},
		{"out of bounds", core.V3(250, 100, 0), core.V3(0, 0, 20), OutcomeOutOfBounds},
		{"won", core.V3(0, 599.9, 0), core.V3(0, 300, 0), OutcomeWon},
		{"in the air", core.V3(0, 300, 0), core.Vec3{}, OutcomeNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPlayer(10, 2)
			p.Position, p.Velocity = tc.pos, tc.vel
			p.Yaw = -math.Pi / 2 // facing +X
			if got := Step(&p, MoveInput{}, frame, empty, tun); got != tc.want {
				t.Errorf("Step() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestCourseGoalOverridesWinY(t *testing.T) {
	cfg := config.DefaultClimbConfig()
	if got := TuningFrom(cfg, 330).WinY; got != 330 {
		t.Errorf("WinY = %v, expected 330", got)
	}
	if got := TuningFrom(cfg, 0).WinY; got != cfg.World.WinY {
		t.Errorf("WinY = %v, expected %v", got, cfg.World.WinY)
	}
}
