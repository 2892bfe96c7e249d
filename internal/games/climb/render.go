package climb

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/sky-climb/internal/core"
	"github.com/vovakirdan/sky-climb/internal/ranking"
)

// Map scale: world units covered by one terminal cell. Cells are about
// twice as tall as they are wide.
const (
	unitsPerCol = 4.0
	unitsPerRow = 8.0
)

// HUD layout limits. Below these the HUD is skipped and only the map and
// overlays are drawn.
const (
	minHUDWidth  = 40
	minHUDHeight = 10
	gaugeWidth   = 3
)

// Visual characters for rendering
const (
	PlayerChar  = '▲'
	OffMapChar  = '·'
	SolidChar   = '█'
	MovingChar  = '▓'
	AboveChar   = '▒'
	BelowChar   = '░'
	GaugeChar   = '│'
	GaugeGoal   = '★'
	GaugePlayer = '◆'
	GaugeBest   = '▸'
	ChargeFull  = '●'
	ChargeEmpty = '○'
)

// Platform tops further than this below the feet are drawn as distant.
const bandBelowMin = -30.0

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w == 0 || h == 0 {
		return
	}
	s := g.session

	hud := w >= minHUDWidth && h >= minHUDHeight
	if !hud && !g.hudWarned {
		g.logger.Warn("screen too small for the HUD", "width", w, "height", h,
			"min_width", minHUDWidth, "min_height", minHUDHeight)
		g.hudWarned = true
	}

	if hud {
		drawMap(dst, core.NewRect(0, 1, w-gaugeWidth-1, h-2), s)
		drawHUD(dst, s)
		drawGauge(dst, core.NewRect(w-gaugeWidth, 1, gaugeWidth, h-2), s)
		drawHelp(dst, h-1)
	} else {
		drawMap(dst, core.NewRect(0, 0, w, h), s)
	}

	switch {
	case s.RankingVisible():
		drawRanking(dst, s.Board())
	case s.Phase() == PhaseIdle:
		goal := int(s.Tuning().WinY - s.Player().EyeHeight)
		drawPanel(dst, "SKY CLIMB", core.ColorBrightCyan,
			fmt.Sprintf("Reach altitude %d within %s", goal, FormatClock(s.Clock().Duration())),
			"",
			"ENTER start   TAB ranking")
	case s.Phase() == PhasePaused:
		drawPanel(dst, "PAUSED", core.ColorYellow,
			fmt.Sprintf("Score %d   Time left %s", s.Score().Display(), FormatClock(s.Clock().Remaining())),
			"",
			"ENTER resume   R restart   TAB ranking")
	case s.Phase() == PhaseEnded:
		drawResult(dst, s)
	}
}

// drawMap draws a top-down view centred on the player and rotated so the
// facing direction points up. Each cell shows the highest reachable
// platform under it, coloured by its height relative to the feet.
func drawMap(dst *core.Screen, area core.Rect, s *Session) {
	if area.W <= 0 || area.H <= 0 {
		return
	}
	p := s.Player()
	tun := s.Tuning()
	cx := area.X + area.W/2
	cy := area.Y + area.H/2
	right, facing := p.Right(), p.Facing()

	toWorld := func(col, row int) (float64, float64) {
		sx := float64(col-cx) * unitsPerCol
		sf := float64(cy-row) * unitsPerRow
		return p.Position.X + right.X*sx + facing.X*sf,
			p.Position.Z + right.Z*sx + facing.Z*sf
	}

	for row := area.Y; row < area.Bottom(); row++ {
		for col := area.X; col < area.Right(); col++ {
			x, z := toWorld(col, row)
			if math.Abs(x) > tun.HalfExtent || math.Abs(z) > tun.HalfExtent {
				dst.SetColored(col, row, OffMapChar, core.ColorGray)
			}
		}
	}

	reach := jumpReach(tun)
	feet := p.Feet()
	radius := math.Hypot(float64(area.W)/2*unitsPerCol, float64(area.H)/2*unitsPerRow)
	best := make([]float64, area.W*area.H)
	for i := range best {
		best[i] = math.Inf(-1)
	}

	for _, b := range s.World().Bodies() {
		rel := b.Top() - feet
		if rel > 2*reach {
			continue
		}
		dx, dz := b.Center.X-p.Position.X, b.Center.Z-p.Position.Z
		ext := math.Hypot(b.Half.X, b.Half.Z)
		if math.Hypot(dx, dz) > radius+ext {
			continue
		}

		sx := dx*right.X + dz*right.Z
		sf := dx*facing.X + dz*facing.Z
		c0 := core.Max(area.X, cx+int(math.Floor((sx-ext)/unitsPerCol)))
		c1 := core.Min(area.Right()-1, cx+int(math.Ceil((sx+ext)/unitsPerCol)))
		r0 := core.Max(area.Y, cy-int(math.Ceil((sf+ext)/unitsPerRow)))
		r1 := core.Min(area.Bottom()-1, cy-int(math.Floor((sf-ext)/unitsPerRow)))

		glyph, color := bodyGlyph(rel, reach, b.Moving())
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				i := (row-area.Y)*area.W + (col - area.X)
				if rel <= best[i] {
					continue
				}
				x, z := toWorld(col, row)
				if !b.ContainsXZ(x, z) {
					continue
				}
				best[i] = rel
				dst.SetColored(col, row, glyph, color)
			}
		}
	}

	dst.SetColored(cx, cy, PlayerChar, core.ColorBrightYellow)
}

// jumpReach is the apex height of one jump from rest.
func jumpReach(tun Tuning) float64 {
	if tun.Gravity <= 0 {
		return math.Inf(1)
	}
	return tun.JumpImpulse * tun.JumpImpulse / (2 * tun.Gravity)
}

func bodyGlyph(rel, reach float64, moving bool) (rune, core.Color) {
	switch {
	case rel > reach:
		return AboveChar, core.ColorOrange
	case rel > 2:
		return AboveChar, core.ColorYellow
	case rel < bandBelowMin:
		return BelowChar, core.ColorBlue
	case moving:
		return MovingChar, core.ColorCyan
	default:
		return SolidChar, core.ColorGreen
	}
}

func drawHUD(dst *core.Screen, s *Session) {
	p := s.Player()
	tun := s.Tuning()

	var charges strings.Builder
	for i := 0; i < tun.MaxJumps; i++ {
		if i < p.JumpCharges {
			charges.WriteRune(ChargeFull)
		} else {
			charges.WriteRune(ChargeEmpty)
		}
	}

	alt := core.Max(0, int(math.Floor(p.Feet())))
	goal := int(tun.WinY - p.EyeHeight)
	text := fmt.Sprintf(" SCORE %d   ALT %d/%d   JUMPS %s ", s.Score().Display(), alt, goal, charges.String())
	dst.DrawTextColored(0, 0, text, core.ColorWhite)

	remaining := s.Clock().Remaining()
	clockColor := core.ColorBrightGreen
	if remaining <= 10 {
		clockColor = core.ColorBrightRed
	}
	clock := " " + FormatClock(remaining) + " "
	dst.DrawTextColored(dst.Width()-len(clock), 0, clock, clockColor)
}

// drawGauge draws the altitude bar: goal at the top, spawn at the bottom,
// the best altitude and the current one marked on it.
func drawGauge(dst *core.Screen, area core.Rect, s *Session) {
	if area.H < 2 {
		return
	}
	bar := area.X + 1
	dst.DrawVLine(bar, area.Y, area.H, GaugeChar, core.ColorGray)
	dst.SetColored(bar, area.Y, GaugeGoal, core.ColorBrightYellow)

	p := s.Player()
	top := s.Tuning().WinY - p.EyeHeight
	rowFor := func(alt float64) int {
		if top <= 0 {
			return area.Bottom() - 1
		}
		frac := core.ClampF(alt/top, 0, 1)
		return area.Bottom() - 1 - int(math.Round(frac*float64(area.H-1)))
	}

	dst.SetColored(area.X, rowFor(s.Score().MaxAltitude-p.EyeHeight), GaugeBest, core.ColorGreen)
	dst.SetColored(bar, rowFor(p.Feet()), GaugePlayer, core.ColorBrightCyan)
}

func drawHelp(dst *core.Screen, y int) {
	help := "WASD move  Q/E turn  SPACE jump  P pause  TAB ranking  ^C quit"
	if len(help) > dst.Width() {
		help = "WASD  Q/E  SPACE  P  TAB"
	}
	dst.DrawTextColored((dst.Width()-len(help))/2, y, help, core.ColorGray)
}

func drawResult(dst *core.Screen, s *Session) {
	score := fmt.Sprintf("Score %d", s.FinalScore())
	footer := "R restart   TAB ranking"

	switch s.Reason() {
	case EndWon:
		drawPanel(dst, "SUMMIT REACHED", core.ColorBrightGreen,
			score, "Time "+FormatClock(s.Clock().Elapsed()), "", footer)
	case EndFell:
		drawPanel(dst, "YOU FELL", core.ColorBrightRed, score, "", footer)
	default:
		drawPanel(dst, "TIME UP", core.ColorBrightRed, score, "", footer)
	}
}

func drawRanking(dst *core.Screen, entries []ranking.Entry) {
	lines := make([]string, 0, len(entries)+2)
	if len(entries) == 0 {
		lines = append(lines, "No climbs yet")
	}
	for i, e := range entries {
		lines = append(lines, FormatEntry(i+1, e))
	}
	lines = append(lines, "", "X reset   TAB close")
	drawPanel(dst, "RANKING", core.ColorBrightYellow, lines...)
}

// FormatEntry renders one ranking row.
func FormatEntry(rank int, e ranking.Entry) string {
	t := "--:--"
	if e.Time != nil {
		t = FormatClock(*e.Time)
	}
	name := e.Name
	if len(name) > 12 {
		name = name[:12]
	}
	return fmt.Sprintf("%2d. %-12s %5d  %s", rank, name, e.Score, t)
}

// drawPanel draws a framed message box in the center of the screen.
func drawPanel(dst *core.Screen, title string, color core.Color, lines ...string) {
	w := len(title)
	for _, l := range lines {
		w = core.Max(w, len([]rune(l)))
	}
	boxW := core.Min(w+4, dst.Width())
	boxH := core.Min(len(lines)+4, dst.Height())
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	dst.DrawTextCentered(boxY+1, title, color)
	for i, l := range lines {
		dst.DrawText(boxX+2, boxY+3+i, l)
	}
}
