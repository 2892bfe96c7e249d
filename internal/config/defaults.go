package config

import (
	_ "embed"
)

//go:embed defaults/climb.yaml
var defaultClimbYAML []byte

// DefaultClimbConfig returns the built-in climb configuration. It mirrors
// defaults/climb.yaml and is used when the embedded file cannot be parsed.
func DefaultClimbConfig() ClimbConfig {
	return ClimbConfig{
		Physics: PhysicsConfig{
			Gravity:     980,
			Friction:    10,
			Accel:       400,
			JumpImpulse: 350,
			TurnRate:    2.5,
			MaxDelta:    0.1,
		},
		Player: PlayerConfig{
			EyeHeight:    10,
			MaxJumps:     2,
			ProbeEpsilon: 0.5,
		},
		World: WorldConfig{
			Course:        "tower",
			MapHalfExtent: 250,
			DeathY:        -50,
			WinY:          600,
			Tower: TowerConfig{
				Platforms:      900,
				Grid:           20,
				Columns:        20,
				Levels:         32,
				BoxSize:        15,
				MovingFraction: 0.15,
				MoveAmplitude:  20,
				MovePeriod:     4,
			},
		},
		Session: SessionConfig{
			Duration:    120,
			DeathPolicy: DeathRespawn,
		},
		Score: ScoreConfig{
			Cap: 0,
		},
		Input: InputConfig{
			HoldWindowMS: 300,
		},
		Audio: AudioConfig{
			Enabled: true,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 600,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
	}
}

// DefaultYAML returns the embedded default climb.yaml.
func DefaultYAML() []byte {
	return defaultClimbYAML
}
