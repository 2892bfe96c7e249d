package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW    int    // Screen width in characters
	ScreenH    int    // Screen height in characters
	TickRate   int    // Frames per second (default 60)
	Seed       int64  // RNG seed for world generation
	PlayerName string // Name recorded in the ranking
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:    80,
		ScreenH:    24,
		TickRate:   60,
		Seed:       0, // 0 means use current time in platform layer
		PlayerName: "player",
	}
}

// GameState is the status a game reports to the platform after each frame.
type GameState struct {
	Score    int  // Current display score
	GameOver bool // Session ended (timeout, fall or win)
	Won      bool // Session ended by reaching the goal
	Paused   bool
	Elapsed  int // Seconds played when the session ended

	SessionID string // Unique per started session, empty before the first start
}

// StepResult is returned by Game.Step() after each frame.
type StepResult struct {
	State GameState
}
