// Package config provides YAML-based tuning for the climb game and the
// difficulty presets layered on top of it.
package config

import (
	"fmt"
	"math"
)

// ClimbConfig contains all tuning for one climb session.
type ClimbConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Player     PlayerConfig     `yaml:"player"`
	World      WorldConfig      `yaml:"world"`
	Session    SessionConfig    `yaml:"session"`
	Score      ScoreConfig      `yaml:"score"`
	Input      InputConfig      `yaml:"input"`
	Audio      AudioConfig      `yaml:"audio"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PhysicsConfig defines the movement integration constants.
// Units are world units and seconds.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Friction    float64 `yaml:"friction"`     // Horizontal damping rate per second
	Accel       float64 `yaml:"accel"`        // Horizontal acceleration from input
	JumpImpulse float64 `yaml:"jump_impulse"` // Vertical velocity set by a jump
	TurnRate    float64 `yaml:"turn_rate"`    // Radians per second
	MaxDelta    float64 `yaml:"max_delta"`    // Upper clamp on frame time
}

// PlayerConfig defines the player rig.
type PlayerConfig struct {
	EyeHeight    float64 `yaml:"eye_height"`
	MaxJumps     int     `yaml:"max_jumps"`
	ProbeEpsilon float64 `yaml:"probe_epsilon"`
}

// WorldConfig defines the platform field and its boundaries.
type WorldConfig struct {
	Course        string      `yaml:"course"` // "tower" or the ID of a course file
	MapHalfExtent float64     `yaml:"map_half_extent"`
	DeathY        float64     `yaml:"death_y"`
	WinY          float64     `yaml:"win_y"`
	Tower         TowerConfig `yaml:"tower"`
}

// TowerConfig controls the seeded random tower layout.
type TowerConfig struct {
	Platforms      int     `yaml:"platforms"`
	Grid           float64 `yaml:"grid"`    // Spacing between platform slots
	Columns        int     `yaml:"columns"` // Slots per horizontal axis
	Levels         int     `yaml:"levels"`  // Vertical slots
	BoxSize        float64 `yaml:"box_size"`
	MovingFraction float64 `yaml:"moving_fraction"`
	MoveAmplitude  float64 `yaml:"move_amplitude"`
	MovePeriod     float64 `yaml:"move_period"` // Seconds per oscillation
}

// DeathPolicy selects what happens when the player falls below DeathY.
type DeathPolicy string

const (
	DeathRespawn  DeathPolicy = "respawn"
	DeathGameOver DeathPolicy = "gameover"
)

// SessionConfig defines the countdown and the fall policy.
type SessionConfig struct {
	Duration    int         `yaml:"duration"` // Seconds
	DeathPolicy DeathPolicy `yaml:"death_policy"`
}

// ScoreConfig defines display score limits.
type ScoreConfig struct {
	Cap int `yaml:"cap"` // 0 = unbounded
}

// InputConfig defines how key presses become held keys.
type InputConfig struct {
	HoldWindowMS int `yaml:"hold_window_ms"`
}

// AudioConfig lists optional sound clip files. Missing files leave the clip
// silent.
type AudioConfig struct {
	Enabled  bool   `yaml:"enabled"`
	JumpClip string `yaml:"jump_clip"`
	WinClip  string `yaml:"win_clip"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a session.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score or ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added platform speed at max difficulty
}

// Validate checks the values the simulation cannot run without.
func (c ClimbConfig) Validate() error {
	finite := map[string]float64{
		"physics.gravity":      c.Physics.Gravity,
		"physics.friction":     c.Physics.Friction,
		"physics.accel":        c.Physics.Accel,
		"physics.jump_impulse": c.Physics.JumpImpulse,
		"player.eye_height":    c.Player.EyeHeight,
		"world.death_y":        c.World.DeathY,
		"world.win_y":          c.World.WinY,
	}
	for name, v := range finite {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("config: %s must be a finite number", name)
		}
	}

	switch {
	case c.Physics.MaxDelta <= 0:
		return fmt.Errorf("config: physics.max_delta must be positive, got %v", c.Physics.MaxDelta)
	case c.Player.EyeHeight <= 0:
		return fmt.Errorf("config: player.eye_height must be positive, got %v", c.Player.EyeHeight)
	case c.Player.MaxJumps < 0:
		return fmt.Errorf("config: player.max_jumps must not be negative, got %d", c.Player.MaxJumps)
	case c.World.WinY <= c.World.DeathY:
		return fmt.Errorf("config: world.win_y (%v) must be above world.death_y (%v)", c.World.WinY, c.World.DeathY)
	case c.World.MapHalfExtent <= 0:
		return fmt.Errorf("config: world.map_half_extent must be positive, got %v", c.World.MapHalfExtent)
	case c.Session.Duration <= 0:
		return fmt.Errorf("config: session.duration must be positive, got %d", c.Session.Duration)
	case c.Score.Cap < 0:
		return fmt.Errorf("config: score.cap must not be negative, got %d", c.Score.Cap)
	}

	switch c.Session.DeathPolicy {
	case DeathRespawn, DeathGameOver:
	default:
		return fmt.Errorf("config: unknown session.death_policy %q", c.Session.DeathPolicy)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Unknown or empty strings
// yield "" which keeps the config's own settings.
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *ClimbConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Session.Duration = 180
		cfg.Session.DeathPolicy = DeathRespawn
		cfg.World.WinY = math.Min(cfg.World.WinY, 450)
	case DifficultyHard:
		cfg.Session.Duration = 90
		cfg.Session.DeathPolicy = DeathGameOver
	}
}
