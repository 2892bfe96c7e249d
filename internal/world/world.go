package world

import (
	"github.com/vovakirdan/sky-climb/internal/core"
)

// ProbeResult is the outcome of a downward ground probe.
type ProbeResult struct {
	Hit      bool
	Distance float64
	Point    core.Vec3
	Body     *Body
}

// World is a fixed set of bodies plus the platform motion pass.
type World struct {
	bodies []*Body
	winY   float64 // Course-specific goal altitude, 0 = use config
}

// New creates a world from bodies in build order. Build order decides
// probe ties.
func New(bodies []*Body) *World {
	return &World{bodies: bodies}
}

// Bodies returns all bodies in build order.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// WinY returns the course goal altitude, or 0 when the course does not
// override the configured one.
func (w *World) WinY() float64 {
	return w.winY
}

// Advance is the platform motion pass. Every moving body steps its
// oscillator by dt*speedScale and publishes the horizontal displacement it
// made; static bodies publish zero. It runs once per frame before the
// movement step, which only reads the published deltas.
func (w *World) Advance(dt, speedScale float64) {
	for _, b := range w.bodies {
		if b.Mover == nil {
			continue
		}
		next := b.Mover.advance(dt * speedScale)
		b.delta = core.V3(next.X-b.Center.X, 0, next.Z-b.Center.Z)
		b.Center = next
	}
}

// Reset returns every moving body to its starting position.
func (w *World) Reset() {
	for _, b := range w.bodies {
		if b.Mover == nil {
			continue
		}
		b.Center = b.Mover.reset()
		b.delta = core.Vec3{}
	}
}

// CastDown casts a ray from origin straight down, up to maxDistance, and
// returns the nearest upper face it meets. A body whose top is above the
// origin is not hit, so a probe starting inside a box passes through it.
// Among hits at the same distance the earliest body in build order wins.
func (w *World) CastDown(origin core.Vec3, maxDistance float64) ProbeResult {
	var best ProbeResult
	if maxDistance < 0 {
		return best
	}

	for _, b := range w.bodies {
		if !b.ContainsXZ(origin.X, origin.Z) {
			continue
		}
		d := origin.Y - b.Top()
		if d < 0 || d > maxDistance {
			continue
		}
		if !best.Hit || d < best.Distance {
			best = ProbeResult{
				Hit:      true,
				Distance: d,
				Point:    core.V3(origin.X, b.Top(), origin.Z),
				Body:     b,
			}
		}
	}
	return best
}

// Highest returns the top of the highest body, used by renderers to scale
// the altitude gauge.
func (w *World) Highest() float64 {
	top := 0.0
	for _, b := range w.bodies {
		if t := b.Top(); t > top {
			top = t
		}
	}
	return top
}
