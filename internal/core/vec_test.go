package core

import (
	"math"
	"testing"
)

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"zero stays zero", V3(0, 0, 0), V3(0, 0, 0)},
		{"axis", V3(0, 0, 5), V3(0, 0, 1)},
		{"diagonal", V3(3, 0, 4), V3(0.6, 0, 0.8)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if math.Abs(got.X-tc.want.X) > 1e-9 || math.Abs(got.Y-tc.want.Y) > 1e-9 || math.Abs(got.Z-tc.want.Z) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, expected %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 5, 6)

	if got := a.Add(b); got != V3(5, 7, 9) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != V3(3, 3, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != V3(2, 4, 6) {
		t.Errorf("Scale = %v", got)
	}
	if got := V3(3, 100, 4).HorizontalLen(); got != 5 {
		t.Errorf("HorizontalLen = %v, expected 5", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Error("1.5 should be finite")
	}
	if IsFinite(math.NaN()) {
		t.Error("NaN should not be finite")
	}
	if IsFinite(math.Inf(-1)) {
		t.Error("-Inf should not be finite")
	}
	if V3(0, math.Inf(1), 0).IsFinite() {
		t.Error("vector with Inf should not be finite")
	}
}
