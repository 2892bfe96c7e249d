package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sky-climb/internal/core"
	"github.com/vovakirdan/sky-climb/internal/registry"
	"github.com/vovakirdan/sky-climb/internal/storage"
)

// defaultHoldWindow applies when the options leave the window unset.
const defaultHoldWindow = 300 * time.Millisecond

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	opts       Options
	logger     *log.Logger
	keyMapper  *KeyMapper
	held       *HeldKeys
	inputFrame core.InputFrame
	gameState  core.GameState
	lastTick   time.Time
	clockGen   uint64
	clockFor   string // Session the running clock chain belongs to
	loop       uint64
	course     string
	savedFor   string // Session whose score is already recorded
	best       int    // Highest recorded score for this game
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.HoldWindow <= 0 {
		opts.HoldWindow = defaultHoldWindow
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		config:     cfg,
		opts:       opts,
		logger:     logger,
		keyMapper:  NewKeyMapper(),
		held:       NewHeldKeys(opts.HoldWindow),
		inputFrame: core.NewInputFrame(),
		course:     opts.Course,
		loop:       loopIDs.Add(1),
	}
	if m.store != nil {
		best, err := m.store.HighScore(game.ID())
		if err != nil {
			logger.Warn("could not read best score", "err", err)
		}
		m.best = best
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	return tea.Batch(tickCmd(m.config.TickRate, m.loop), watchCmd(m.opts.Watcher))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick(msg.At)

	case ClockMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleClock(msg)

	case ConfigMsg:
		cfg := msg.Config
		if m.opts.Retune != nil {
			cfg = m.opts.Retune(cfg)
		}
		if r, ok := m.game.(registry.Reconfigurable); ok {
			r.Reconfigure(cfg)
		}
		m.held.SetWindow(HoldWindow(cfg))
		m.course = cfg.World.Course
		return m, watchCmd(m.opts.Watcher)

	case ConfigErrMsg:
		m.logger.Warn("config reload failed, keeping current tuning", "err", msg.Err)
		return m, watchCmd(m.opts.Watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch normalizeKey(msg) {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "b":
		if m.canLeave() {
			m.backToMenu = true
			if !m.opts.Embedded {
				m.quitting = true
				return m, tea.Quit
			}
		}
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action == core.ActionNone {
		return m, nil
	}
	if action.IsHeld() {
		m.held.Press(action, time.Now())
	} else {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// canLeave reports whether the player may leave without abandoning a climb.
func (m Model) canLeave() bool {
	s := m.gameState
	return s.SessionID == "" || s.GameOver || s.Paused
}

// handleTick runs one simulation frame with the real time since the last one.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if !m.lastTick.IsZero() {
		m.inputFrame.DT = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now

	if m.gameState.Paused || m.gameState.GameOver {
		m.held.Reset()
	}
	m.held.Apply(&m.inputFrame, now)

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.recordScore()

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tea.Batch(tickCmd(m.config.TickRate, m.loop), m.syncClock())
}

// syncClock starts a countdown chain for a clock generation that has none.
// A new session always gets a chain, even if its generation repeats.
func (m *Model) syncClock() tea.Cmd {
	c, ok := m.game.(registry.Clocked)
	if !ok || !c.ClockRunning() {
		return nil
	}
	gen := c.ClockGeneration()
	if gen == m.clockGen && m.gameState.SessionID == m.clockFor {
		return nil
	}
	m.clockGen = gen
	m.clockFor = m.gameState.SessionID
	return clockCmd(gen, m.loop)
}

// handleClock delivers a countdown second. A tick from an older generation
// ends its chain.
func (m Model) handleClock(msg ClockMsg) (tea.Model, tea.Cmd) {
	c, ok := m.game.(registry.Clocked)
	if !ok || msg.Gen != c.ClockGeneration() || !c.ClockRunning() {
		return m, nil
	}
	c.ClockTick(msg.Gen)
	if c.ClockRunning() && c.ClockGeneration() == msg.Gen {
		return m, clockCmd(msg.Gen, m.loop)
	}
	return m, nil
}

// recordScore adds the finished session to the score history once.
func (m *Model) recordScore() {
	s := m.gameState
	if !s.GameOver || s.SessionID == "" || s.SessionID == m.savedFor {
		return
	}
	m.savedFor = s.SessionID
	if m.store == nil {
		return
	}
	rec := storage.ScoreRecord{
		GameID:    m.game.ID(),
		Name:      m.config.PlayerName,
		Course:    m.course,
		Score:     s.Score,
		Duration:  s.Elapsed,
		Won:       s.Won,
		SessionID: s.SessionID,
	}
	if _, err := m.store.SaveScore(rec); err != nil {
		m.logger.Error("could not record score", "session", s.SessionID, "err", err)
		return
	}
	m.best = core.Max(m.best, s.Score)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.screen.Clear()
	m.game.Render(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".climb", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "dir", dir, "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "path", path, "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	if m.gameState.SessionID == "" && m.best > 0 && m.screen.Height() > 2 {
		m.screen.DrawTextCentered(m.screen.Height()-2, fmt.Sprintf(" BEST ON RECORD %d ", m.best), core.ColorBrightYellow)
	}

	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State returns the game state after the latest frame.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
