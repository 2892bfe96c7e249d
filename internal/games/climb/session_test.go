package climb

import (
	"bytes"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sky-climb/internal/audio"
	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/ranking"
	"github.com/vovakirdan/sky-climb/internal/world"
)

func newTestSession(t *testing.T, mutate func(*config.ClimbConfig)) (*Session, *ranking.Ranking) {
	t.Helper()
	cfg := config.DefaultClimbConfig()
	cfg.Difficulty.Enabled = false
	if mutate != nil {
		mutate(&cfg)
	}
	r := ranking.New(ranking.NewMemoryKV(), nil)
	s := NewSession(SessionOptions{
		Config:     cfg,
		World:      world.New([]*world.Body{world.NewSpawnPad(0, world.SpawnPadSize)}),
		Ranking:    r,
		PlayerName: "tester",
	})
	return s, r
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := newTestSession(t, nil)

	if s.Phase() != PhaseIdle {
		t.Fatalf("new session phase = %v", s.Phase())
	}
	for _, cmd := range []Command{CmdPause, CmdResume, CmdRestart, CmdCloseRanking, CmdResetRanking} {
		if s.Handle(cmd) {
			t.Errorf("command %d should be rejected while idle", cmd)
		}
	}

	if !s.Handle(CmdStart) || s.Phase() != PhaseActive {
		t.Fatal("start should activate the session")
	}
	if s.ID() == "" {
		t.Error("started session should have an id")
	}
	if !s.Clock().Running() || s.Clock().Remaining() != 120 {
		t.Errorf("clock running=%v remaining=%d", s.Clock().Running(), s.Clock().Remaining())
	}
	if s.Handle(CmdStart) || s.Handle(CmdShowRanking) {
		t.Error("start and ranking should be rejected while active")
	}

	if !s.Handle(CmdPause) || s.Phase() != PhasePaused || s.Clock().Running() {
		t.Fatal("pause should stop the clock")
	}
	if !s.Handle(CmdResume) || s.Phase() != PhaseActive || !s.Clock().Running() {
		t.Fatal("resume should restart the clock")
	}

	first := s.ID()
	s.Handle(CmdPause)
	if !s.Handle(CmdRestart) || s.Phase() != PhaseActive {
		t.Fatal("restart from pause should start a new climb")
	}
	if s.ID() == first {
		t.Error("restart should create a new session id")
	}
}

func TestDoubleJumpPlaysCueTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jump.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o600); err != nil {
		t.Fatal(err)
	}
	clip := audio.Load("jump", path, nil)
	clip.Wait()
	var out bytes.Buffer
	player := audio.NewPlayer(&out, true)

	s := NewSession(SessionOptions{
		Config:     config.DefaultClimbConfig(),
		World:      world.New([]*world.Body{world.NewSpawnPad(0, world.SpawnPadSize)}),
		PlayerName: "tester",
		Cues:       Cues{Player: player, Jump: clip},
	})
	s.Handle(CmdStart)

	s.Advance(MoveInput{}, true, frame)
	s.Advance(MoveInput{}, false, frame)
	s.Advance(MoveInput{}, true, frame)
	if got := player.Played(); got != 2 {
		t.Errorf("played %d cues for a double jump, want 2", got)
	}
	if s.Player().JumpCharges != 0 {
		t.Errorf("charges = %d after double jump", s.Player().JumpCharges)
	}
}

func TestPausedSessionDoesNotMove(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.Handle(CmdStart)
	s.Handle(CmdPause)

	before := s.Player()
	s.Advance(MoveInput{Forward: true}, true, frame)
	if s.Player() != before {
		t.Error("physics ran while paused")
	}
}

func TestStartResetsState(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.Handle(CmdStart)
	s.player.Position.Y = 200
	s.player.Velocity.X = 30
	s.player.JumpCharges = 0
	s.score.Observe(200)
	s.Handle(CmdPause)
	s.Handle(CmdRestart)

	p := s.Player()
	if p.Position != SpawnPoint(10) || p.Velocity.Len() != 0 || p.JumpCharges != 2 {
		t.Errorf("player not reset: %+v", p)
	}
	if s.Score().Display() != 0 {
		t.Errorf("score = %d after restart", s.Score().Display())
	}
}

func TestFallRespawnsOnce(t *testing.T) {
	s, r := newTestSession(t, nil)
	s.Handle(CmdStart)
	s.player.Position.X = 100 // off the pad
	s.score.Observe(80)

	for i := 0; i < 120; i++ {
		s.Advance(MoveInput{}, false, frame)
	}

	if s.Respawns() != 1 {
		t.Errorf("respawns = %d, expected exactly 1", s.Respawns())
	}
	if s.Phase() != PhaseActive {
		t.Errorf("respawn policy should keep the session active, got %v", s.Phase())
	}
	if s.Player().Position != SpawnPoint(10) {
		t.Errorf("player should rest at the spawn point, got %v", s.Player().Position)
	}
	if s.Score().Display() != 70 {
		t.Errorf("respawn should keep the score, got %d", s.Score().Display())
	}
	if len(r.Load()) != 0 {
		t.Error("respawn should not write the ranking")
	}
}

func TestFallRespawnClearsChargesUntilLanding(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.Handle(CmdStart)
	s.player.Position.Y = -49
	s.player.Position.X = 100
	s.player.Velocity.Y = -200

	s.Advance(MoveInput{}, false, frame)
	if s.Respawns() != 1 {
		t.Fatalf("expected a respawn, got %d", s.Respawns())
	}
	if s.Player().JumpCharges != 0 || s.Player().Velocity.Len() != 0 {
		t.Errorf("respawn should clear charges and velocity: %+v", s.Player())
	}

	s.Advance(MoveInput{}, false, frame)
	if s.Player().JumpCharges != 2 {
		t.Errorf("landing on the pad should refill charges, got %d", s.Player().JumpCharges)
	}
}

func TestFallGameOverPolicy(t *testing.T) {
	s, r := newTestSession(t, func(c *config.ClimbConfig) {
		c.Session.DeathPolicy = config.DeathGameOver
	})
	s.Handle(CmdStart)
	s.player.Position.X = 100
	s.score.Observe(45)

	for i := 0; i < 120; i++ {
		s.Advance(MoveInput{}, false, frame)
	}

	if s.Phase() != PhaseEnded || s.Reason() != EndFell {
		t.Fatalf("phase %v reason %v, expected ended by fall", s.Phase(), s.Reason())
	}
	entries := r.Load()
	if len(entries) != 1 {
		t.Fatalf("expected one ranking entry, got %d", len(entries))
	}
	if entries[0].Score != 35 || entries[0].Time != nil || entries[0].Name != "tester" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestOutOfBoundsRespawns(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.Handle(CmdStart)
	s.player.Position.Z = -249.9
	s.player.Velocity.Z = 60 // forward is -Z at yaw 0

	s.Advance(MoveInput{Forward: true}, false, frame)

	if s.Respawns() != 1 || s.Player().Position != SpawnPoint(10) {
		t.Errorf("expected respawn, got %d at %v", s.Respawns(), s.Player().Position)
	}
}

func TestWinFiresOnce(t *testing.T) {
	s, r := newTestSession(t, nil)
	s.Handle(CmdStart)

	gen := s.Clock().Generation()
	for i := 0; i < 7; i++ {
		s.ClockTick(gen)
	}

	s.player.Position.Y = 599
	s.player.Velocity.Y = 300
	out := s.Advance(MoveInput{}, false, frame)
	if out != OutcomeWon {
		t.Fatalf("outcome %v, expected won", out)
	}
	if s.Phase() != PhaseEnded || s.Reason() != EndWon {
		t.Fatalf("phase %v reason %v", s.Phase(), s.Reason())
	}
	if s.Clock().Running() {
		t.Error("clock should stop on a win")
	}

	wantScore := int(math.Floor(s.Player().Position.Y - 10))
	if s.FinalScore() != wantScore {
		t.Errorf("final score %d, expected %d", s.FinalScore(), wantScore)
	}

	for i := 0; i < 10; i++ {
		s.Advance(MoveInput{}, false, frame)
		s.ClockTick(s.Clock().Generation())
	}

	entries := r.Load()
	if len(entries) != 1 {
		t.Fatalf("win should save exactly once, got %d entries", len(entries))
	}
	if entries[0].Time == nil || *entries[0].Time != 7 {
		t.Errorf("entry time = %v, expected 7", entries[0].Time)
	}
	if s.Clock().Elapsed() != s.Clock().Duration()-s.Clock().Remaining() {
		t.Error("elapsed should equal duration minus remaining")
	}
}

func TestTimeoutEndsSession(t *testing.T) {
	s, r := newTestSession(t, func(c *config.ClimbConfig) {
		c.Session.Duration = 3
	})
	s.Handle(CmdStart)
	s.score.Observe(60)

	gen := s.Clock().Generation()
	s.ClockTick(gen)
	s.ClockTick(gen)
	if s.Phase() != PhaseActive {
		t.Fatal("session ended early")
	}
	s.ClockTick(gen)

	if s.Phase() != PhaseEnded || s.Reason() != EndTimeout {
		t.Fatalf("phase %v reason %v, expected timeout", s.Phase(), s.Reason())
	}
	entries := r.Load()
	if len(entries) != 1 || entries[0].Score != 50 || entries[0].Time != nil {
		t.Errorf("unexpected ranking %+v", entries)
	}

	if s.Handle(CmdResume) || s.Handle(CmdStart) {
		t.Error("an ended session only accepts restart")
	}
	if !s.Handle(CmdRestart) || s.Phase() != PhaseActive {
		t.Error("restart should leave the ended state")
	}
}

func TestStaleClockTicksIgnored(t *testing.T) {
	s, _ := newTestSession(t, nil)
	s.Handle(CmdStart)
	old := s.Clock().Generation()

	s.Handle(CmdPause)
	s.ClockTick(old)
	s.Handle(CmdResume)
	s.ClockTick(old)

	if s.Clock().Remaining() != 120 {
		t.Errorf("stale ticks changed the clock: %d left", s.Clock().Remaining())
	}

	s.ClockTick(s.Clock().Generation())
	if s.Clock().Remaining() != 119 {
		t.Errorf("current tick ignored: %d left", s.Clock().Remaining())
	}
}

func TestRankingCommands(t *testing.T) {
	s, r := newTestSession(t, nil)
	r.Save(ranking.Entry{Name: "old", Score: 99})

	if !s.Handle(CmdShowRanking) || !s.RankingVisible() {
		t.Fatal("ranking should open from the start screen")
	}
	if len(s.Board()) != 1 {
		t.Errorf("board has %d entries", len(s.Board()))
	}
	if !s.Handle(CmdResetRanking) || len(s.Board()) != 0 || len(r.Load()) != 0 {
		t.Error("reset should clear the board and the store")
	}
	if !s.Handle(CmdCloseRanking) || s.RankingVisible() {
		t.Error("close should hide the ranking")
	}
	if s.Handle(CmdResetRanking) {
		t.Error("reset needs the ranking to be shown")
	}
}

// Random play must keep jump charges in range and the score monotonic on every frame.
func TestRandomPlayKeepsBounds(t *testing.T) {
	cfg := config.DefaultClimbConfig()
	s := NewSession(SessionOptions{
		Config: cfg,
		World:  world.GenerateTower(cfg.World.Tower, 99),
	})
	s.Handle(CmdStart)

	rng := rand.New(rand.NewSource(5))
	last := s.Score().MaxAltitude
	for i := 0; i < 3000 && s.Phase() == PhaseActive; i++ {
		in := MoveInput{
			Forward:   rng.Intn(3) > 0,
			Backward:  rng.Intn(5) == 0,
			Left:      rng.Intn(4) == 0,
			Right:     rng.Intn(4) == 0,
			TurnLeft:  rng.Intn(6) == 0,
			TurnRight: rng.Intn(6) == 0,
		}
		s.Advance(in, rng.Intn(8) == 0, frame*(0.5+rng.Float64()))

		p := s.Player()
		if p.JumpCharges < 0 || p.JumpCharges > cfg.Player.MaxJumps {
			t.Fatalf("frame %d: charges %d out of range", i, p.JumpCharges)
		}
		sc := s.Score()
		if sc.MaxAltitude < last {
			t.Fatalf("frame %d: max altitude dropped from %v to %v", i, last, sc.MaxAltitude)
		}
		last = sc.MaxAltitude
		if want := displayScore(sc.MaxAltitude, 10, cfg.Score.Cap); sc.Display() != want {
			t.Fatalf("frame %d: display %d, expected %d", i, sc.Display(), want)
		}
	}
}

func TestSessionLogsEnd(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultClimbConfig()
	cfg.Session.Duration = 1
	s := NewSession(SessionOptions{Config: cfg, Logger: log.New(&buf)})
	s.Handle(CmdStart)
	s.ClockTick(s.Clock().Generation())

	if !strings.Contains(buf.String(), "session ended") {
		t.Errorf("expected end log, got %q", buf.String())
	}
}
