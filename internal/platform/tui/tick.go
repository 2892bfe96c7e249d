// Package tui provides the Bubble Tea integration for the climb platform.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sky-climb/internal/config"
)

// TickMsg is sent to trigger a game simulation frame. Loop identifies the
// model that scheduled it, so frames of a game that was left are dropped.
type TickMsg struct {
	At   time.Time
	Loop uint64
}

// loopIDs hands out frame loop identifiers.
var loopIDs atomic.Uint64

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Loop: loop}
	})
}

// ClockMsg is one second of countdown. Gen is the clock generation the
// tick was scheduled for; the game ignores ticks from older generations.
type ClockMsg struct {
	Gen  uint64
	Loop uint64
}

func clockCmd(gen, loop uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return ClockMsg{Gen: gen, Loop: loop}
	})
}

// ConfigMsg carries tuning reloaded from disk.
type ConfigMsg struct {
	Config config.ClimbConfig
}

// ConfigErrMsg reports a config file that failed to reload.
type ConfigErrMsg struct {
	Err error
}

// watchCmd waits for the next event from the config watcher. It returns nil
// once the watcher is closed.
func watchCmd(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case cfg := <-w.Configs:
			return ConfigMsg{Config: cfg}
		case err := <-w.Errors:
			return ConfigErrMsg{Err: err}
		case <-w.Done():
			return nil
		}
	}
}
