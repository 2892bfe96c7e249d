package climb

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sky-climb/internal/core"
)

// ScoreState tracks the best altitude of a session. The display score is
// the best altitude of the feet, floored and clamped to [0, Cap].
type ScoreState struct {
	MaxAltitude float64
	EyeHeight   float64
	Cap         int // 0 = unbounded

	logger *log.Logger
}

// NewScoreState creates a zeroed score for a rig with the given eye height.
func NewScoreState(eyeHeight float64, limit int, logger *log.Logger) ScoreState {
	return ScoreState{
		MaxAltitude: eyeHeight,
		EyeHeight:   eyeHeight,
		Cap:         limit,
		logger:      logger,
	}
}

// Observe raises the best altitude when y beats it. Altitudes at or below
// eye height never count. It reports whether the best altitude changed.
func (s *ScoreState) Observe(y float64) bool {
	if !core.IsFinite(y) {
		s.warn("ignoring non-finite altitude", y)
		return false
	}
	if y <= s.MaxAltitude || y <= s.EyeHeight {
		return false
	}
	s.MaxAltitude = y
	return true
}

// Display returns the score shown to the player.
func (s ScoreState) Display() int {
	return displayScore(s.MaxAltitude, s.EyeHeight, s.Cap)
}

func displayScore(altitude, eyeHeight float64, limit int) int {
	v := int(math.Floor(altitude - eyeHeight))
	if v < 0 {
		return 0
	}
	if limit > 0 && v > limit {
		return limit
	}
	return v
}

func (s *ScoreState) warn(msg string, v float64) {
	if s.logger != nil {
		s.logger.Warn(msg, "value", v)
	}
}
