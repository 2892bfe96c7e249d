package climb

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDisplayScore(t *testing.T) {
	tests := []struct {
		alt  float64
		cap  int
		want int
	}{
		{10, 0, 0},
		{10.99, 0, 0},
		{11, 0, 1},
		{135.7, 0, 125},
		{5, 0, 0},
		{700, 450, 450},
		{300, 450, 290},
	}
	for _, tc := range tests {
		if got := displayScore(tc.alt, 10, tc.cap); got != tc.want {
			t.Errorf("displayScore(%v, cap %d) = %d, expected %d", tc.alt, tc.cap, got, tc.want)
		}
	}
}

func TestObserveIsMonotonic(t *testing.T) {
	s := NewScoreState(10, 0, nil)

	if s.Observe(8) || s.Observe(10) {
		t.Error("altitudes at or below eye height should not count")
	}
	if !s.Observe(50) || s.Display() != 40 {
		t.Errorf("display = %d, expected 40", s.Display())
	}
	if s.Observe(30) || s.Display() != 40 {
		t.Error("lower altitude changed the score")
	}
}

func TestNonFiniteScoreIgnored(t *testing.T) {
	var buf bytes.Buffer
	s := NewScoreState(10, 0, log.New(&buf))
	s.Observe(40)

	if s.Observe(math.NaN()) || s.Observe(math.Inf(1)) || s.Observe(math.Inf(-1)) {
		t.Error("non-finite altitude reported as a new best")
	}

	if s.Display() != 30 || s.MaxAltitude != 40 {
		t.Errorf("display = %d, expected 30", s.Display())
	}
	if !strings.Contains(buf.String(), "non-finite") {
		t.Errorf("expected a warning, log was %q", buf.String())
	}
}

func TestClock(t *testing.T) {
	c := NewGameClock(2)
	if c.Tick(c.Generation()) {
		t.Error("stopped clock should not tick")
	}

	gen := c.Start()
	if c.Tick(gen) || c.Remaining() != 1 {
		t.Errorf("remaining = %d, expected 1", c.Remaining())
	}
	if !c.Tick(gen) || c.Remaining() != 0 || c.Running() {
		t.Error("clock should expire at zero and stop")
	}
	if c.Tick(gen) {
		t.Error("expired clock should not fire again")
	}
	if c.Elapsed() != 2 {
		t.Errorf("elapsed = %d, expected 2", c.Elapsed())
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[int]string{0: "00:00", 59: "00:59", 60: "01:00", 120: "02:00", 754: "12:34", -3: "00:00"}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, expected %q", in, got, want)
		}
	}
}
