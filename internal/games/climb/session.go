package climb

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/sky-climb/internal/audio"
	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/core"
	"github.com/vovakirdan/sky-climb/internal/ranking"
	"github.com/vovakirdan/sky-climb/internal/world"
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseIdle   Phase = iota // Start screen, nothing moves
	PhaseActive              // Physics and clock running
	PhasePaused              // Control released, clock stopped
	PhaseEnded               // Timed out, fell or won; waits for a restart
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Command is a request from the UI to the session.
type Command int

const (
	CmdStart Command = iota
	CmdPause
	CmdResume
	CmdRestart
	CmdShowRanking
	CmdCloseRanking
	CmdResetRanking
)

// EndReason tells why a session ended.
type EndReason int

const (
	EndNone EndReason = iota
	EndTimeout
	EndFell
	EndWon
)

func (r EndReason) String() string {
	switch r {
	case EndTimeout:
		return "timeout"
	case EndFell:
		return "fell"
	case EndWon:
		return "won"
	default:
		return "none"
	}
}

// Cues are the sounds a session triggers. Any field may be nil.
type Cues struct {
	Player *audio.Player
	Jump   *audio.Clip
	Win    *audio.Clip
}

// SessionOptions configures a new session.
type SessionOptions struct {
	Config     config.ClimbConfig
	World      *world.World
	Ranking    *ranking.Ranking // nil keeps results in memory only
	PlayerName string
	Logger     *log.Logger
	Cues       Cues
	// ClockBase is the clock generation to continue from. A session that
	// replaces another passes the old generation so ticks scheduled for the
	// old clock can never match the new one.
	ClockBase uint64
}

// Session is the state of one climb: the rig, its score, the countdown and
// the lifecycle. All mutation happens through Handle, Advance and
// ClockTick, which the frame loop calls from a single goroutine.
type Session struct {
	cfg        config.ClimbConfig
	tun        Tuning
	world      *world.World
	ranking    *ranking.Ranking
	difficulty *config.DifficultyManager
	name       string
	logger     *log.Logger
	cues       Cues

	id       string
	phase    Phase
	reason   EndReason
	player   PlayerState
	score    ScoreState
	clock    GameClock
	final    int
	frames   int
	respawns int

	showRanking bool
	board       []ranking.Entry
}

// NewSession creates an idle session.
func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Ranking == nil {
		opts.Ranking = ranking.New(ranking.NewMemoryKV(), logger)
	}
	if opts.World == nil {
		opts.World = world.New([]*world.Body{world.NewSpawnPad(0, world.SpawnPadSize)})
	}
	if opts.PlayerName == "" {
		opts.PlayerName = "player"
	}

	s := &Session{
		cfg:        opts.Config,
		tun:        TuningFrom(opts.Config, opts.World.WinY()),
		world:      opts.World,
		ranking:    opts.Ranking,
		difficulty: config.NewDifficultyManager(opts.Config.Difficulty),
		name:       opts.PlayerName,
		logger:     logger,
		cues:       opts.Cues,
	}
	s.player = NewPlayer(opts.Config.Player.EyeHeight, opts.Config.Player.MaxJumps)
	s.score = NewScoreState(opts.Config.Player.EyeHeight, opts.Config.Score.Cap, logger)
	s.clock = NewGameClock(opts.Config.Session.Duration)
	s.clock.gen = opts.ClockBase
	return s
}

// Handle applies a UI command. It reports whether the command was valid in
// the current state.
func (s *Session) Handle(cmd Command) bool {
	switch cmd {
	case CmdStart:
		if s.phase != PhaseIdle {
			return false
		}
		s.start()

	case CmdPause:
		if s.phase != PhaseActive {
			return false
		}
		s.phase = PhasePaused
		s.clock.Stop()

	case CmdResume:
		if s.phase != PhasePaused {
			return false
		}
		s.phase = PhaseActive
		s.showRanking = false
		s.clock.Resume()

	case CmdRestart:
		if s.phase != PhaseEnded && s.phase != PhasePaused {
			return false
		}
		s.phase = PhaseIdle
		s.start()

	case CmdShowRanking:
		if s.phase == PhaseActive {
			return false
		}
		s.board = s.ranking.Load()
		s.showRanking = true

	case CmdCloseRanking:
		if !s.showRanking {
			return false
		}
		s.showRanking = false

	case CmdResetRanking:
		if !s.showRanking {
			return false
		}
		if err := s.ranking.Reset(); err != nil {
			s.logger.Error("ranking reset failed", "err", err)
			return false
		}
		s.board = []ranking.Entry{}
		s.logger.Info("ranking cleared")

	default:
		return false
	}
	return true
}

func (s *Session) start() {
	s.id = uuid.NewString()
	s.world.Reset()
	s.player = NewPlayer(s.cfg.Player.EyeHeight, s.cfg.Player.MaxJumps)
	s.score = NewScoreState(s.cfg.Player.EyeHeight, s.cfg.Score.Cap, s.logger)
	s.reason = EndNone
	s.final = 0
	s.frames = 0
	s.respawns = 0
	s.showRanking = false
	s.cues.Player.Stop(s.cues.Win)
	s.clock.Start()
	s.phase = PhaseActive
	s.logger.Info("session started", "session", s.id, "player", s.name, "duration", s.clock.Duration())
}

// Advance runs one frame: the platform motion pass, the jump request, the
// movement step, then the boundary transition and score update. It does
// nothing unless the session is active.
func (s *Session) Advance(in MoveInput, jump bool, dt float64) StepOutcome {
	if s.phase != PhaseActive {
		return OutcomeNone
	}
	if core.IsFinite(dt) {
		s.frames++
		scale := s.difficulty.SpeedScale(s.score.Display(), s.frames)
		s.world.Advance(core.ClampF(dt, 0, s.tun.MaxDelta), scale)
	}

	if jump && Jump(&s.player, s.tun.JumpImpulse) {
		// Every honoured jump is heard, the air jump included.
		s.cues.Player.Stop(s.cues.Jump)
		s.cues.Player.Play(s.cues.Jump)
	}

	out := Step(&s.player, in, dt, s.world, s.tun)
	if s.player.Velocity.Y == 0 && s.player.JumpCharges == s.tun.MaxJumps {
		s.cues.Player.Stop(s.cues.Jump)
	}

	switch out {
	case OutcomeFell:
		if s.cfg.Session.DeathPolicy == config.DeathGameOver {
			s.finish(EndFell)
			return out
		}
		s.respawn("fell")
	case OutcomeOutOfBounds:
		s.respawn("out of bounds")
	case OutcomeWon:
		s.score.Observe(s.player.Position.Y)
		s.finish(EndWon)
		return out
	}

	s.score.Observe(s.player.Position.Y)
	return out
}

func (s *Session) respawn(why string) {
	s.respawns++
	s.player.Respawn()
	s.logger.Debug("respawn", "session", s.id, "reason", why, "count", s.respawns)
}

// ClockTick counts the clock down for a tick scheduled with generation gen.
// Stale generations are ignored. Reaching zero ends the session.
func (s *Session) ClockTick(gen uint64) {
	if s.phase != PhaseActive {
		return
	}
	if s.clock.Tick(gen) {
		s.finish(EndTimeout)
	}
}

// finish ends the session and records the result. Only a win stores the
// time it took.
func (s *Session) finish(reason EndReason) {
	s.phase = PhaseEnded
	s.reason = reason
	s.clock.Stop()
	s.final = s.score.Display()

	entry := ranking.Entry{Name: s.name, Score: s.final}
	if reason == EndWon {
		entry.Time = ranking.Seconds(s.clock.Elapsed())
		s.cues.Player.Play(s.cues.Win)
	}
	board, err := s.ranking.Save(entry)
	if err != nil {
		s.logger.Error("ranking save failed", "session", s.id, "err", err)
	} else {
		s.board = board
	}

	s.logger.Info("session ended",
		"session", s.id,
		"reason", reason,
		"score", s.final,
		"elapsed", s.clock.Elapsed(),
	)
}

func (s *Session) ID() string                 { return s.id }
func (s *Session) Phase() Phase               { return s.phase }
func (s *Session) Reason() EndReason          { return s.reason }
func (s *Session) Player() PlayerState        { return s.player }
func (s *Session) Score() ScoreState          { return s.score }
func (s *Session) Clock() GameClock           { return s.clock }
func (s *Session) World() *world.World        { return s.world }
func (s *Session) Tuning() Tuning             { return s.tun }
func (s *Session) Respawns() int              { return s.respawns }
func (s *Session) RankingVisible() bool       { return s.showRanking }
func (s *Session) Board() []ranking.Entry     { return s.board }
func (s *Session) Config() config.ClimbConfig { return s.cfg }

// FinalScore returns the score recorded when the session ended.
func (s *Session) FinalScore() int {
	if s.phase != PhaseEnded {
		return s.score.Display()
	}
	return s.final
}
