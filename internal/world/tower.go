package world

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/core"
)

// SpawnPadSize is the width and depth of the platform the player starts on.
// Its upper face sits at Y = 0.
const SpawnPadSize = 60.0

// TowerCourseID selects the seeded random tower instead of a course file.
const TowerCourseID = "tower"

// NewSpawnPad creates the starting platform.
func NewSpawnPad(id int, size float64) *Body {
	return NewBox(id, core.V3(0, -1, 0), size, 2, size)
}

type slot struct{ x, y, z int }

// GenerateTower scatters platforms over a grid of slots. The same seed
// always yields the same layout. Slots that would overlap the spawn pad
// column near the ground are skipped so the player never spawns inside a
// box.
func GenerateTower(cfg config.TowerConfig, seed int64) *World {
	rng := rand.New(rand.NewSource(seed))

	bodies := []*Body{NewSpawnPad(0, SpawnPadSize)}
	if cfg.Columns <= 0 || cfg.Levels <= 0 || cfg.Grid <= 0 || cfg.BoxSize <= 0 {
		return New(bodies)
	}

	total := cfg.Columns * cfg.Columns * cfg.Levels
	want := core.Min(cfg.Platforms, total)
	used := make(map[slot]bool, want)

	// Bounded so a crowded grid cannot spin forever.
	for attempts := 0; len(bodies)-1 < want && attempts < want*20; attempts++ {
		s := slot{
			x: rng.Intn(cfg.Columns) - cfg.Columns/2,
			y: rng.Intn(cfg.Levels),
			z: rng.Intn(cfg.Columns) - cfg.Columns/2,
		}
		if used[s] {
			continue
		}
		used[s] = true

		center := core.V3(
			float64(s.x)*cfg.Grid,
			float64(s.y)*cfg.Grid+cfg.Grid/2,
			float64(s.z)*cfg.Grid,
		)
		if overlapsSpawnColumn(center, cfg.BoxSize) {
			continue
		}

		b := NewBox(len(bodies), center, cfg.BoxSize, cfg.BoxSize, cfg.BoxSize)
		if rng.Float64() < cfg.MovingFraction && cfg.MoveAmplitude > 0 && cfg.MovePeriod > 0 {
			axis := core.V3(1, 0, 0)
			if rng.Intn(2) == 1 {
				axis = core.V3(0, 0, 1)
			}
			b.Mover = &Oscillator{
				Origin:    center,
				Axis:      axis,
				Amplitude: cfg.MoveAmplitude,
				Period:    cfg.MovePeriod,
				Phase:     rng.Float64() * 2 * math.Pi,
			}
			b.Center = b.Mover.reset()
		}
		bodies = append(bodies, b)
	}

	return New(bodies)
}

// overlapsSpawnColumn reports whether a box would intrude into the space
// directly above the spawn pad where the player appears.
func overlapsSpawnColumn(center core.Vec3, size float64) bool {
	half := size / 2
	reach := SpawnPadSize/2 + half
	low := center.Y-half < 30
	return low && math.Abs(center.X) < reach && math.Abs(center.Z) < reach
}
