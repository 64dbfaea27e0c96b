// Package blocks adapts the falling-block engine to the arcade game interface.
package blocks

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// ID is the registry key and the game_id used in the score store.
const ID = "blocks"

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger receives config fallbacks. Discarded until the CLI sets one.
var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetLogger sets the logger used by every game instance. Nil discards.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// CheckConfig loads the configured file and reports why it cannot be used.
// Reset falls back to defaults instead, so callers check before starting.
func CheckConfig() error {
	_, err := config.LoadBlocks(configPath)
	return err
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParseDifficulty(preset)
	if err != nil {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// Game drives one engine from host ticks and input frames.
type Game struct {
	eng     *engine.Engine
	cfg     config.BlocksConfig
	runtime core.RuntimeConfig

	tick     uint64
	tickDur  time.Duration
	tooSmall bool
}

// New creates a game. Reset must be called before the first Step.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return ID }

// Title returns the display name.
func (g *Game) Title() string { return "Blocks" }

// Reset loads the configuration and starts a fresh run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadBlocks(configPath)
	if err != nil {
		logger.Warn("using default config", "path", configPath, "error", err)
		cfg = config.DefaultBlocksConfig()
	}
	if difficultyPreset != "" {
		config.ApplyBlocksPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	g.tick = 0
	g.tickDur = time.Second / time.Duration(runtime.TickRateOrDefault())

	rng := rand.New(rand.NewSource(runtime.Seed))
	g.eng = engine.New(EngineConfig(cfg), engine.NewRandomGenerator(rng))
	g.eng.Start()

	g.checkScreenSize()
}

// EngineConfig converts the YAML configuration into engine rules.
func EngineConfig(cfg config.BlocksConfig) engine.Config {
	return engine.Config{
		Width:  cfg.Board.Width,
		Height: cfg.Board.Height,
		Timing: engine.DropTiming{
			Base: cfg.Drop.Base(),
			Step: cfg.Drop.Step(),
			Min:  cfg.Drop.Min(),
		},
		LinesPerLevel: cfg.Scoring.LinesPerLevel,
		PointsPerLine: cfg.Scoring.PointsPerLine,
	}
}

// Resize updates the screen size without restarting the run.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	g.checkScreenSize()
}

func (g *Game) checkScreenSize() {
	minW, minH := g.minSize()
	g.tooSmall = g.runtime.ScreenW < minW || g.runtime.ScreenH < minH
}

// Step applies the frame's actions in the order they were pressed and then
// advances gravity by the frame's elapsed time, or one nominal tick if unset.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.eng.State() == engine.GameOver {
		if in.Has(core.ActionRestart) {
			g.eng.Start()
		}
		return core.StepResult{State: g.State()}
	}

	cleared := 0
	apply := func(r engine.MoveResult) {
		cleared += r.Cleared
	}

	for _, a := range in.Order {
		if a == core.ActionPause {
			g.eng.TogglePause()
			continue
		}
		// A window that cannot show the well holds the run still.
		if g.tooSmall {
			continue
		}
		switch a {
		case core.ActionRotate:
			g.eng.Rotate()
		case core.ActionLeft:
			apply(g.eng.Move(-1, 0))
		case core.ActionRight:
			apply(g.eng.Move(1, 0))
		case core.ActionDown:
			apply(g.eng.Move(0, 1))
		case core.ActionHardDrop:
			apply(g.eng.HardDrop())
		}
	}

	if !g.tooSmall {
		elapsed := in.Elapsed
		if elapsed <= 0 {
			elapsed = g.tickDur
		}
		apply(g.eng.Tick(elapsed))
	}

	return core.StepResult{State: g.State(), Cleared: cleared}
}

// State returns the HUD view of the run.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{Level: 1}
	}
	return core.GameState{
		Score:    g.eng.Score(),
		Level:    g.eng.Level(),
		Lines:    g.eng.Lines(),
		GameOver: g.eng.State() == engine.GameOver,
		Paused:   g.eng.State() == engine.Paused,
	}
}

// Engine exposes the underlying engine for read-only inspection.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}
