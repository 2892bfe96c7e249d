package climb

import "fmt"

// GameClock is the session countdown in whole seconds. Every start, stop
// or resume bumps the generation; ticks carrying an older generation are
// ignored, which cancels any tick scheduled before the change.
type GameClock struct {
	duration  int
	remaining int
	running   bool
	gen       uint64
}

// NewGameClock creates a stopped clock for a session of duration seconds.
func NewGameClock(duration int) GameClock {
	return GameClock{duration: duration, remaining: duration}
}

// Start rewinds the clock to the full duration and runs it.
func (c *GameClock) Start() uint64 {
	c.remaining = c.duration
	c.running = true
	c.gen++
	return c.gen
}

// Resume runs the clock from where it stopped.
func (c *GameClock) Resume() uint64 {
	if c.remaining > 0 {
		c.running = true
	}
	c.gen++
	return c.gen
}

// Stop halts the clock and invalidates pending ticks.
func (c *GameClock) Stop() {
	c.running = false
	c.gen++
}

// Tick counts one second down if gen is current. It reports whether the
// clock just reached zero; the clock stops at that point.
func (c *GameClock) Tick(gen uint64) bool {
	if !c.running || gen != c.gen {
		return false
	}
	c.remaining--
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.running = false
	return true
}

func (c GameClock) Running() bool      { return c.running }
func (c GameClock) Generation() uint64 { return c.gen }
func (c GameClock) Remaining() int     { return c.remaining }
func (c GameClock) Duration() int      { return c.duration }

// Elapsed returns the seconds counted down so far.
func (c GameClock) Elapsed() int {
	return c.duration - c.remaining
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
