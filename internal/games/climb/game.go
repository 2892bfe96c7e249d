// Package climb implements Sky Climb: a first-person climb over a field of
// floating platforms against a countdown. The player rises by jumping
// between platforms; the score is the best altitude reached.
package climb

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sky-climb/internal/audio"
	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/core"
	"github.com/vovakirdan/sky-climb/internal/ranking"
	"github.com/vovakirdan/sky-climb/internal/registry"
	"github.com/vovakirdan/sky-climb/internal/world"
)

// GameID is the registry ID and the key scores are stored under.
const GameID = "climb"

// Game adapts a Session to the platform: it maps input actions to session
// commands and draws the session.
type Game struct {
	cfg     config.ClimbConfig
	pending *config.ClimbConfig
	courses world.CourseLibrary
	ranking *ranking.Ranking
	logger  *log.Logger
	cues    Cues

	rc        core.RuntimeConfig
	session   *Session
	hudWarned bool
}

// New creates a game from the platform environment.
func New(env registry.Env) *Game {
	logger := env.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := config.DefaultClimbConfig()
	if env.Config != nil {
		cfg = *env.Config
	}
	kv := env.Store
	if kv == nil {
		kv = ranking.NewMemoryKV()
	}

	g := &Game{
		cfg:     cfg,
		courses: env.Courses,
		ranking: ranking.New(kv, logger),
		logger:  logger,
		rc:      core.DefaultConfig(),
	}
	g.cues = Cues{
		Player: audio.NewPlayer(env.Audio, cfg.Audio.Enabled),
		Jump:   audio.Load("jump", cfg.Audio.JumpClip, logger),
		Win:    audio.Load("win", cfg.Audio.WinClip, logger),
	}
	g.rebuild()
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Sky Climb"
}

// Reset builds the course for cfg.Seed and returns to the start screen.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rc = cfg
	if g.pending != nil {
		g.cfg = *g.pending
		g.pending = nil
	}
	g.rebuild()
}

// rebuild creates the world and a fresh idle session. A course that cannot
// be loaded falls back to the random tower.
func (g *Game) rebuild() {
	w, err := g.courses.Build(g.cfg.World, g.rc.Seed)
	if err != nil {
		g.logger.Error("course unavailable, using the tower", "course", g.cfg.World.Course, "err", err)
		w = world.GenerateTower(g.cfg.World.Tower, g.rc.Seed)
	}
	var base uint64
	if g.session != nil {
		base = g.session.Clock().Generation()
	}
	g.session = NewSession(SessionOptions{
		Config:     g.cfg,
		World:      w,
		Ranking:    g.ranking,
		PlayerName: g.rc.PlayerName,
		Logger:     g.logger,
		Cues:       g.cues,
		ClockBase:  base,
	})
}

// Reconfigure stores new tuning. It is applied at the next restart so a
// running climb never changes under the player.
func (g *Game) Reconfigure(cfg config.ClimbConfig) {
	g.pending = &cfg
	g.logger.Info("tuning reloaded, applies on restart")
}

// Step maps the frame's actions to session commands and advances an
// active session.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	s := g.session

	if in.Has(core.ActionRanking) {
		if !s.Handle(CmdCloseRanking) {
			s.Handle(CmdShowRanking)
		}
	}
	if in.Has(core.ActionResetRanking) {
		s.Handle(CmdResetRanking)
	}

	if in.Has(core.ActionPause) {
		if !s.Handle(CmdPause) {
			s.Handle(CmdResume)
		}
	}
	if in.Has(core.ActionConfirm) {
		switch {
		case s.RankingVisible():
			s.Handle(CmdCloseRanking)
		case s.Phase() == PhaseIdle:
			s.Handle(CmdStart)
		case s.Phase() == PhasePaused:
			s.Handle(CmdResume)
		}
	}
	if in.Has(core.ActionRestart) {
		g.restart()
	}

	g.session.Advance(MoveInputFrom(in), in.Has(core.ActionJump), in.DT)
	return core.StepResult{State: g.State()}
}

// restart starts a new climb. Pending tuning is applied first, which needs
// a new world and session.
func (g *Game) restart() {
	ph := g.session.Phase()
	if ph != PhaseEnded && ph != PhasePaused {
		return
	}
	if g.pending == nil {
		g.session.Handle(CmdRestart)
		return
	}
	g.cfg = *g.pending
	g.pending = nil
	g.rebuild()
	g.session.Handle(CmdStart)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	s := g.session
	return core.GameState{
		Score:     s.FinalScore(),
		GameOver:  s.Phase() == PhaseEnded,
		Won:       s.Reason() == EndWon,
		Paused:    s.Phase() == PhasePaused,
		Elapsed:   s.Clock().Elapsed(),
		SessionID: s.ID(),
	}
}

// Session exposes the current session.
func (g *Game) Session() *Session {
	return g.session
}

// ClockRunning reports whether the countdown needs ticks.
func (g *Game) ClockRunning() bool {
	return g.session.Phase() == PhaseActive && g.session.Clock().Running()
}

// ClockGeneration returns the generation new ticks must carry.
func (g *Game) ClockGeneration() uint64 {
	return g.session.Clock().Generation()
}

// ClockTick delivers one second of countdown.
func (g *Game) ClockTick(gen uint64) {
	g.session.ClockTick(gen)
}

var (
	_ registry.Game           = (*Game)(nil)
	_ registry.Clocked        = (*Game)(nil)
	_ registry.Reconfigurable = (*Game)(nil)
)

// Register the game with the registry
func init() {
	registry.Register(GameID, func(env registry.Env) registry.Game {
		return New(env)
	})
}
