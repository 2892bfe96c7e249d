package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone Action = iota

	// Held actions: active for as long as the key is considered down.
	ActionForward   // W, Up arrow
	ActionBackward  // S, Down arrow
	ActionLeft      // A, Left arrow (strafe)
	ActionRight     // D, Right arrow (strafe)
	ActionTurnLeft  // Q, comma
	ActionTurnRight // E, period

	// Edge actions: fire once per key press.
	ActionJump         // Space
	ActionConfirm      // Enter - start or resume
	ActionPause        // P, Esc - release control
	ActionRestart      // R - restart after the session ended
	ActionRanking      // Tab - toggle the ranking overlay
	ActionResetRanking // X - clear the ranking while it is shown
	ActionQuit         // Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionForward:
		return "Forward"
	case ActionBackward:
		return "Backward"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionTurnLeft:
		return "TurnLeft"
	case ActionTurnRight:
		return "TurnRight"
	case ActionJump:
		return "Jump"
	case ActionConfirm:
		return "Confirm"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionRanking:
		return "Ranking"
	case ActionResetRanking:
		return "ResetRanking"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsHeld reports whether the action is a continuous (held) action rather
// than an edge-triggered one.
func (a Action) IsHeld() bool {
	return a >= ActionForward && a <= ActionTurnRight
}

// InputFrame is the input for a single simulation tick: the edge actions
// triggered since the previous tick and the set of held actions.
type InputFrame struct {
	Actions map[Action]bool
	Held    map[Action]bool
	DT      float64 // Seconds since the previous frame
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
		Held:    make(map[Action]bool),
	}
}

// Set marks an edge action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given edge action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Hold marks a held action as down for this frame.
func (f *InputFrame) Hold(a Action) {
	if f.Held == nil {
		f.Held = make(map[Action]bool)
	}
	f.Held[a] = true
}

// IsHeld returns true if the given held action is down this frame.
func (f InputFrame) IsHeld(a Action) bool {
	return f.Held[a]
}

// Clear resets edge actions, held actions and the frame delta.
func (f *InputFrame) Clear() {
	clear(f.Actions)
	clear(f.Held)
	f.DT = 0
}
