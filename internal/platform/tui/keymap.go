package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sky-climb/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// normalizeKey folds shifted letters so caps lock does not change bindings.
func normalizeKey(msg tea.KeyMsg) string {
	key := msg.String()
	if len(key) == 1 {
		return strings.ToLower(key)
	}
	return key
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch normalizeKey(msg) {
	case "ctrl+c":
		return core.ActionQuit, true
	case "w", "up":
		return core.ActionForward, false
	case "s", "down":
		return core.ActionBackward, false
	case "a":
		return core.ActionLeft, false
	case "d":
		return core.ActionRight, false
	case "q", "left", ",":
		return core.ActionTurnLeft, false
	case "e", "right", ".":
		return core.ActionTurnRight, false
	case " ":
		return core.ActionJump, false
	case "enter":
		return core.ActionConfirm, false
	case "p", "esc":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	case "tab":
		return core.ActionRanking, false
	case "x":
		return core.ActionResetRanking, false
	}

	return core.ActionNone, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionRanking
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch normalizeKey(msg) {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionRanking
	}

	return MenuActionNone
}

// opposite pairs held actions that cancel each other. Pressing one releases
// the other at once instead of waiting for its hold window to run out.
var opposite = map[core.Action]core.Action{
	core.ActionForward:   core.ActionBackward,
	core.ActionBackward:  core.ActionForward,
	core.ActionLeft:      core.ActionRight,
	core.ActionRight:     core.ActionLeft,
	core.ActionTurnLeft:  core.ActionTurnRight,
	core.ActionTurnRight: core.ActionTurnLeft,
}

// HeldKeys turns key presses into held state. Terminals report presses and
// auto-repeats but no releases, so a key counts as down until window has
// passed since its last report.
type HeldKeys struct {
	window time.Duration
	last   map[core.Action]time.Time
}

// NewHeldKeys creates a tracker with the given hold window.
func NewHeldKeys(window time.Duration) *HeldKeys {
	return &HeldKeys{window: window, last: make(map[core.Action]time.Time)}
}

// Press records a press or repeat of a held action.
func (h *HeldKeys) Press(a core.Action, now time.Time) {
	if !a.IsHeld() {
		return
	}
	h.last[a] = now
	delete(h.last, opposite[a])
}

// Apply marks the actions still down at now as held in frame.
func (h *HeldKeys) Apply(frame *core.InputFrame, now time.Time) {
	for a, t := range h.last {
		if now.Sub(t) > h.window {
			delete(h.last, a)
			continue
		}
		frame.Hold(a)
	}
}

// Reset releases every key.
func (h *HeldKeys) Reset() {
	clear(h.last)
}

// SetWindow changes the hold window for future presses.
func (h *HeldKeys) SetWindow(window time.Duration) {
	h.window = window
}
