// Package world models the climbable platform field: static boxes, the
// platforms that oscillate, and the downward ground probe the movement step
// relies on.
package world

import (
	"math"

	"github.com/vovakirdan/sky-climb/internal/core"
)

// Body is an axis-aligned platform box.
type Body struct {
	ID     int
	Center core.Vec3
	Half   core.Vec3 // Half extents along each axis
	Mover  *Oscillator

	delta core.Vec3
}

// NewBox creates a static box centred at c with full size w x h x d.
func NewBox(id int, c core.Vec3, w, h, d float64) *Body {
	return &Body{
		ID:     id,
		Center: c,
		Half:   core.V3(w/2, h/2, d/2),
	}
}

// Top returns the Y coordinate of the upper face.
func (b *Body) Top() float64 {
	return b.Center.Y + b.Half.Y
}

// Bottom returns the Y coordinate of the lower face.
func (b *Body) Bottom() float64 {
	return b.Center.Y - b.Half.Y
}

// ContainsXZ reports whether the vertical line through (x, z) passes
// through the box footprint. Edges count as inside.
func (b *Body) ContainsXZ(x, z float64) bool {
	return math.Abs(x-b.Center.X) <= b.Half.X && math.Abs(z-b.Center.Z) <= b.Half.Z
}

// Delta returns the horizontal displacement the body made during the last
// motion pass. It is zero for static bodies.
func (b *Body) Delta() core.Vec3 {
	return b.delta
}

// Moving reports whether the body oscillates.
func (b *Body) Moving() bool {
	return b.Mover != nil
}

// Oscillator moves a body back and forth along one horizontal axis.
type Oscillator struct {
	Origin    core.Vec3 // Centre of the oscillation
	Axis      core.Vec3 // Unit vector on the XZ plane
	Amplitude float64
	Period    float64 // Seconds per full cycle
	Phase     float64 // Radians

	t float64
}

// offset returns the displacement from Origin at time t.
func (o *Oscillator) offset(t float64) core.Vec3 {
	if o.Period <= 0 {
		return core.Vec3{}
	}
	s := math.Sin(2*math.Pi*t/o.Period + o.Phase)
	return o.Axis.Scale(o.Amplitude * s)
}

// advance moves the oscillator clock forward and returns the new centre.
func (o *Oscillator) advance(dt float64) core.Vec3 {
	o.t += dt
	return o.Origin.Add(o.offset(o.t))
}

// reset puts the oscillator back at time zero.
func (o *Oscillator) reset() core.Vec3 {
	o.t = 0
	return o.Origin.Add(o.offset(0))
}
