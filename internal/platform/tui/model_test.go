package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blocks"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// scriptedGame ends its run after a fixed number of ticks and records what it saw.
type scriptedGame struct {
	ticks    int
	endAfter int
	score    int
	resets   int
	lastCfg  core.RuntimeConfig
	actions  []core.Action
	elapsed  []time.Duration
	over     bool
}

func (g *scriptedGame) ID() string    { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }

func (g *scriptedGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.lastCfg = cfg
	g.ticks = 0
	g.over = false
}

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	g.actions = append(g.actions, in.Order...)
	g.elapsed = append(g.elapsed, in.Elapsed)
	if g.over && in.Has(core.ActionRestart) {
		g.ticks = 0
		g.over = false
	}
	g.ticks++
	if g.ticks >= g.endAfter {
		g.over = true
	}
	return core.StepResult{State: g.State()}
}

func (g *scriptedGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "scripted") }

func (g *scriptedGame) State() core.GameState {
	return core.GameState{Score: g.score, Level: 2, Lines: 11, GameOver: g.over}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return nm
}

func TestModelSavesRunOnceOnGameOver(t *testing.T) {
	store := openStore(t)
	game := &scriptedGame{endAfter: 3, score: 1100}
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, Options{Player: "alice"})

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	m.startedAt = clock
	m.Init()

	for range 2 {
		m = update(t, m, TickMsg{})
	}
	if m.State().GameOver {
		t.Fatal("run ended too early")
	}

	clock = clock.Add(42 * time.Second)
	for range 5 {
		m = update(t, m, TickMsg{})
	}
	if !m.State().GameOver {
		t.Fatal("run should be over")
	}

	runs, err := store.TopRuns("scripted", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected exactly one saved run, got %d", len(runs))
	}
	r := runs[0]
	if r.Player != "alice" || r.Score != 1100 || r.Level != 2 || r.Lines != 11 {
		t.Errorf("saved run = %+v", r)
	}
	if r.Duration != 42*time.Second {
		t.Errorf("Duration = %v, expected 42s", r.Duration)
	}

	// Restart begins a new run that is saved separately
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = update(t, m, TickMsg{})
	if m.State().GameOver {
		t.Fatal("restart should start a new run")
	}
	for range 5 {
		m = update(t, m, TickMsg{})
	}
	runs, _ = store.TopRuns("scripted", 10)
	if len(runs) != 2 {
		t.Errorf("expected a second run after restart, got %d", len(runs))
	}
}

func TestModelSkipsZeroScore(t *testing.T) {
	store := openStore(t)
	game := &scriptedGame{endAfter: 1}
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}, Options{})
	m.Init()
	m = update(t, m, TickMsg{})

	if !m.State().GameOver {
		t.Fatal("run should be over")
	}
	if runs, _ := store.TopRuns("scripted", 10); len(runs) != 0 {
		t.Errorf("zero-score runs should not be saved, got %d", len(runs))
	}
}

func TestModelQueuesActionsUntilTick(t *testing.T) {
	game := &scriptedGame{endAfter: 100}
	m := NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}, Options{})
	m.Init()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	if len(game.actions) != 0 {
		t.Fatal("actions should wait for the next tick")
	}

	m = update(t, m, TickMsg{})
	if len(game.actions) != 1 || game.actions[0] != core.ActionLeft {
		t.Errorf("game saw %v, expected [Left]", game.actions)
	}

	m = update(t, m, TickMsg{})
	if len(game.actions) != 1 {
		t.Errorf("input frame should be cleared after a tick, saw %v", game.actions)
	}
}

func TestModelKeepsKeyOrderWithinTick(t *testing.T) {
	game := &scriptedGame{endAfter: 100}
	m := NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}, Options{})
	m.Init()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, TickMsg{})

	expected := []core.Action{core.ActionLeft, core.ActionRotate, core.ActionLeft}
	if len(game.actions) != len(expected) {
		t.Fatalf("game saw %v, expected %v", game.actions, expected)
	}
	for i, a := range expected {
		if game.actions[i] != a {
			t.Errorf("actions[%d] = %v, expected %v", i, game.actions[i], a)
		}
	}
}

func TestModelPassesElapsedBetweenTicks(t *testing.T) {
	game := &scriptedGame{endAfter: 100}
	m := NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}, Options{})
	m.Init()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m = update(t, m, TickMsg(base))
	m = update(t, m, TickMsg(base.Add(40*time.Millisecond)))
	m = update(t, m, TickMsg(base.Add(250*time.Millisecond)))

	expected := []time.Duration{0, 40 * time.Millisecond, 210 * time.Millisecond}
	for i, want := range expected {
		if game.elapsed[i] != want {
			t.Errorf("tick %d Elapsed = %v, expected %v", i, game.elapsed[i], want)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(&scriptedGame{endAfter: 100}, nil, core.DefaultConfig(), Options{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if next.(Model).View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestModelResizeReservesFooter(t *testing.T) {
	game := &scriptedGame{endAfter: 100}
	m := NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}, Options{})
	m.Init()
	if game.lastCfg.ScreenH != 23 {
		t.Errorf("game height = %d, expected 23 with a one-line footer", game.lastCfg.ScreenH)
	}

	// Games without Resize are restarted with the new size
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if game.resets != 2 || game.lastCfg.ScreenW != 100 || game.lastCfg.ScreenH != 39 {
		t.Errorf("after resize resets=%d cfg=%+v", game.resets, game.lastCfg)
	}

	// Full help grows the footer
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if game.lastCfg.ScreenH >= 39 {
		t.Errorf("full help should take more lines, game height = %d", game.lastCfg.ScreenH)
	}
}

func TestModelViewWithBlocks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	game := blocks.New()
	m := NewModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 5}, Options{})
	m.Init()
	m = update(t, m, TickMsg{})

	view := m.View()
	for _, want := range []string{"BLOCKS", "Score", "rotate", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q", want)
		}
	}

	// Blocks follows resizes without restarting
	before := game.Snapshot()
	m = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 30})
	if after := game.Snapshot(); after.Tick != before.Tick {
		t.Error("resize should not restart a game that supports Resize")
	}
}

func TestModelScreenshot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	m := NewModel(&scriptedGame{endAfter: 100}, nil, core.RuntimeConfig{ScreenW: 20, ScreenH: 5, TickRate: 60}, Options{})
	path, err := m.saveScreenshot()
	if err != nil {
		t.Fatalf("saveScreenshot() failed: %v", err)
	}
	if !strings.HasPrefix(path, filepath.Join(home, ".blockfall", "screenshots")) {
		t.Errorf("screenshot written to %s, expected under the home directory", path)
	}
}
