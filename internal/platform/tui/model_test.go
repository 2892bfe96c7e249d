package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sky-climb/internal/config"
	"github.com/vovakirdan/sky-climb/internal/core"
	"github.com/vovakirdan/sky-climb/internal/games/climb"
	"github.com/vovakirdan/sky-climb/internal/registry"
	"github.com/vovakirdan/sky-climb/internal/storage"
)

// fakeGame records what the model feeds it.
type fakeGame struct {
	frames     []core.InputFrame
	state      core.GameState
	running    bool
	gen        uint64
	clockTicks int
	reconfig   *config.ClimbConfig
	resets     int
}

func (g *fakeGame) ID() string                         { return "fake" }
func (g *fakeGame) Title() string                      { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig)           { g.resets++ }
func (g *fakeGame) State() core.GameState              { return g.state }
func (g *fakeGame) ClockRunning() bool                 { return g.running }
func (g *fakeGame) ClockGeneration() uint64            { return g.gen }
func (g *fakeGame) ClockTick(uint64)                   { g.clockTicks++ }
func (g *fakeGame) Reconfigure(cfg config.ClimbConfig) { g.reconfig = &cfg }

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	held := make(map[core.Action]bool, len(in.Held))
	for a, v := range in.Held {
		held[a] = v
	}
	actions := make(map[core.Action]bool, len(in.Actions))
	for a, v := range in.Actions {
		actions[a] = v
	}
	g.frames = append(g.frames, core.InputFrame{Actions: actions, Held: held, DT: in.DT})
	return core.StepResult{State: g.state}
}

func (g *fakeGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, "fake")
}

func newTestModel(g *fakeGame, opts Options) Model {
	cfg := core.DefaultConfig()
	cfg.Seed = 1
	cfg.PlayerName = "ana"
	return NewModel(g, cfg, opts)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestTickPassesRealDeltaAndHeldKeys(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g, Options{})

	t0 := time.Now()
	m, _ = update(t, m, runeKey('w'))
	m, _ = update(t, m, runeKey(' '))
	m, _ = update(t, m, TickMsg{At: t0, Loop: m.loop})
	m, _ = update(t, m, TickMsg{At: t0.Add(50 * time.Millisecond), Loop: m.loop})

	if len(g.frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(g.frames))
	}
	first, second := g.frames[0], g.frames[1]
	if first.DT != 0 {
		t.Errorf("first frame dt = %v, want 0", first.DT)
	}
	if !first.Has(core.ActionJump) || second.Has(core.ActionJump) {
		t.Error("jump should reach exactly one frame")
	}
	if !first.IsHeld(core.ActionForward) || !second.IsHeld(core.ActionForward) {
		t.Error("forward should stay held inside the hold window")
	}
	if second.DT < 0.049 || second.DT > 0.051 {
		t.Errorf("second frame dt = %v, want 0.05", second.DT)
	}
}

func TestTickFromOtherLoopIgnored(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g, Options{})
	other := newTestModel(&fakeGame{}, Options{})

	m, cmd := update(t, m, TickMsg{At: time.Now(), Loop: other.loop})
	if cmd != nil || len(g.frames) != 0 {
		t.Error("a frame from another loop should be dropped")
	}
}

func TestClockChainFollowsGeneration(t *testing.T) {
	g := &fakeGame{running: true, gen: 1}
	m := newTestModel(g, Options{})

	m, _ = update(t, m, TickMsg{At: time.Now(), Loop: m.loop})
	if m.clockGen != 1 {
		t.Fatalf("clockGen = %d, want 1", m.clockGen)
	}

	m, cmd := update(t, m, ClockMsg{Gen: 1, Loop: m.loop})
	if g.clockTicks != 1 || cmd == nil {
		t.Fatalf("current tick: ticks = %d, rescheduled = %v", g.clockTicks, cmd != nil)
	}

	// Pausing bumps the generation: the old chain dies.
	g.gen, g.running = 2, false
	m, cmd = update(t, m, ClockMsg{Gen: 1, Loop: m.loop})
	if g.clockTicks != 1 || cmd != nil {
		t.Error("stale clock tick should be dropped without rescheduling")
	}

	// Resuming starts a new chain on the next frame.
	g.gen, g.running = 3, true
	m, _ = update(t, m, TickMsg{At: time.Now(), Loop: m.loop})
	if m.clockGen != 3 {
		t.Errorf("clockGen = %d, want 3", m.clockGen)
	}
}

func TestScoreRecordedOncePerSession(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "climb.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	g := &fakeGame{state: core.GameState{Score: 120, GameOver: true, Won: true, Elapsed: 42, SessionID: "s-1"}}
	m := newTestModel(g, Options{Store: store, Course: "spiral"})
	for range 3 {
		m, _ = update(t, m, TickMsg{At: time.Now(), Loop: m.loop})
	}

	recs, err := store.ScoresBySession("s-1")
	if err != nil {
		t.Fatalf("ScoresBySession: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	r := recs[0]
	if r.Name != "ana" || r.Course != "spiral" || r.Score != 120 || r.Duration != 42 || !r.Won || r.GameID != "fake" {
		t.Errorf("record = %+v", r)
	}
}

func TestIdleScreenShowsBestScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "climb.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if _, err := store.SaveScore(storage.ScoreRecord{GameID: "fake", Name: "bo", Score: 75, SessionID: "old"}); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}

	g := &fakeGame{}
	m := newTestModel(g, Options{Store: store})
	m.View()
	if !strings.Contains(m.screen.String(), "BEST ON RECORD 75") {
		t.Errorf("idle screen missing best score:\n%s", m.screen.String())
	}

	g.state = core.GameState{Score: 120, GameOver: true, SessionID: "s-1"}
	m, _ = update(t, m, TickMsg{At: time.Now(), Loop: m.loop})
	if m.best != 120 {
		t.Errorf("best = %d after a higher score, want 120", m.best)
	}
	m.View()
	if strings.Contains(m.screen.String(), "BEST ON RECORD") {
		t.Error("best score should only show before the first climb")
	}
}

func TestClockChainAfterRetunedRestart(t *testing.T) {
	cfg := config.DefaultClimbConfig()
	g := climb.New(registry.Env{Config: &cfg})
	rc := core.DefaultConfig()
	rc.Seed = 7
	rc.PlayerName = "ana"
	g.Reset(rc)
	m := NewModel(g, rc, Options{})

	t0 := time.Now()
	m, _ = update(t, m, TickMsg{At: t0, Loop: m.loop})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := update(t, m, TickMsg{At: t0.Add(20 * time.Millisecond), Loop: m.loop})
	if !g.ClockRunning() || cmd == nil {
		t.Fatal("starting a climb should run the clock")
	}
	first := m.clockGen
	if first != g.ClockGeneration() {
		t.Fatalf("model chain gen %d, game gen %d", first, g.ClockGeneration())
	}

	m, _ = update(t, m, runeKey('p'))
	m, _ = update(t, m, TickMsg{At: t0.Add(40 * time.Millisecond), Loop: m.loop})
	if !m.gameState.Paused {
		t.Fatal("p should pause")
	}

	tuned := config.DefaultClimbConfig()
	tuned.Session.Duration = 45
	m, _ = update(t, m, ConfigMsg{Config: tuned})

	m, _ = update(t, m, runeKey('r'))
	m, _ = update(t, m, TickMsg{At: t0.Add(60 * time.Millisecond), Loop: m.loop})
	if g.Session().Phase() != climb.PhaseActive || !g.ClockRunning() {
		t.Fatalf("phase %v after restart", g.Session().Phase())
	}
	if g.Session().Clock().Duration() != 45 {
		t.Fatalf("duration %d, want 45", g.Session().Clock().Duration())
	}
	if m.clockGen != g.ClockGeneration() || m.clockGen <= first {
		t.Fatalf("model chain gen %d, game gen %d, old gen %d", m.clockGen, g.ClockGeneration(), first)
	}

	m, _ = update(t, m, ClockMsg{Gen: first, Loop: m.loop})
	if got := g.Session().Clock().Remaining(); got != 45 {
		t.Fatalf("old chain counted down: remaining %d", got)
	}
	_, cmd = update(t, m, ClockMsg{Gen: m.clockGen, Loop: m.loop})
	if got := g.Session().Clock().Remaining(); got != 44 {
		t.Errorf("remaining %d, want 44", got)
	}
	if cmd == nil {
		t.Error("chain should continue while the clock runs")
	}
}

func TestClockChainPerSession(t *testing.T) {
	g := &fakeGame{running: true, gen: 1, state: core.GameState{SessionID: "s-1"}}
	m := newTestModel(g, Options{})
	m, cmd := update(t, m, TickMsg{At: time.Now(), Loop: m.loop})
	if cmd == nil || m.clockGen != 1 {
		t.Fatal("first session should get a chain")
	}

	g.state.SessionID = "s-2"
	m, _ = update(t, m, TickMsg{At: time.Now(), Loop: m.loop})
	if m.clockFor != "s-2" {
		t.Errorf("chain belongs to %q, want s-2", m.clockFor)
	}
}

func TestConfigReloadRetunes(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g, Options{Retune: func(cfg config.ClimbConfig) config.ClimbConfig {
		return Retune(cfg, "drift", config.DifficultyHard)
	}})

	cfg := config.DefaultClimbConfig()
	cfg.Input.HoldWindowMS = 120
	m, _ = update(t, m, ConfigMsg{Config: cfg})

	if g.reconfig == nil {
		t.Fatal("game was not reconfigured")
	}
	if g.reconfig.World.Course != "drift" || g.reconfig.Session.Duration != 90 {
		t.Errorf("retuned config: course %q, duration %d", g.reconfig.World.Course, g.reconfig.Session.Duration)
	}
	if m.course != "drift" {
		t.Errorf("course = %q, want drift", m.course)
	}
	if m.held.window != 120*time.Millisecond {
		t.Errorf("hold window = %v, want 120ms", m.held.window)
	}
}

func TestBackOnlyWhenNotClimbing(t *testing.T) {
	g := &fakeGame{state: core.GameState{SessionID: "s-1"}}
	m := newTestModel(g, Options{Embedded: true})
	m, _ = update(t, m, TickMsg{At: time.Now(), Loop: m.loop})

	m, _ = update(t, m, runeKey('b'))
	if m.BackToMenu() {
		t.Fatal("back should be ignored during a climb")
	}

	g.state.Paused = true
	m, _ = update(t, m, TickMsg{At: time.Now(), Loop: m.loop})
	m, cmd := update(t, m, runeKey('b'))
	if !m.BackToMenu() {
		t.Fatal("back should work while paused")
	}
	if cmd != nil {
		t.Error("embedded model should not quit the program")
	}
}

func TestScreenshot(t *testing.T) {
	dir := t.TempDir()
	g := &fakeGame{}
	m := newTestModel(g, Options{ScreenshotDir: dir})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("screenshots = %v, err %v", entries, err)
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "fake") {
		t.Errorf("screenshot starts with %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ab")
	s.SetColored(3, 1, 'x', core.ColorRed)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ab") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "x") {
		t.Errorf("second line = %q", lines[1])
	}
}
