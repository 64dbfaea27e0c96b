package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// Options tune a game session. The zero value is a local player with logging discarded.
type Options struct {
	Player   string             // Name stored with finished runs
	Logger   *log.Logger        // Nil discards
	Renderer *lipgloss.Renderer // Nil uses stdout; SSH sessions pass their own
}

// resizer is implemented by games that can follow a terminal resize without restarting.
type resizer interface {
	Resize(w, h int)
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game     registry.Game
	screen   *core.Screen
	store    *storage.Store
	logger   *log.Logger
	renderer *ScreenRenderer
	keys     GameKeyMap
	help     help.Model
	footer   lipgloss.Style

	config     core.RuntimeConfig
	player     string
	inputFrame core.InputFrame
	gameState  core.GameState
	startedAt  time.Time
	lastTick   time.Time
	now        func() time.Time

	quitting   bool
	scoreSaved bool // Whether the run has been saved for the current game over
}

// NewModel creates a new Bubble Tea model for the given game.
// cfg.ScreenH is the full terminal height; the help footer takes the bottom lines.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Player == "" {
		opts.Player = "local"
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	lr := opts.Renderer
	if lr == nil {
		lr = lipgloss.DefaultRenderer()
	}

	m := Model{
		game:       game,
		store:      store,
		logger:     opts.Logger.With("game", game.ID(), "player", opts.Player),
		renderer:   NewScreenRenderer(lr),
		keys:       DefaultGameKeyMap(),
		help:       help.New(),
		footer:     lr.NewStyle().Foreground(lipgloss.Color("241")),
		config:     cfg,
		player:     opts.Player,
		inputFrame: core.NewInputFrame(),
		now:        time.Now,
	}
	m.startedAt = m.now()
	m.help.Width = cfg.ScreenW
	m.screen = core.NewScreen(cfg.ScreenW, m.gameHeight())
	return m
}

// gameCfg is the runtime config handed to the game, minus the footer.
func (m Model) gameCfg() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = m.gameHeight()
	return cfg
}

func (m Model) gameHeight() int {
	return max(m.config.ScreenH-m.footerHeight(), 0)
}

func (m Model) footerHeight() int {
	if !m.help.ShowAll {
		return 1
	}
	rows := 0
	for _, col := range m.keys.FullHelp() {
		rows = max(rows, len(col))
	}
	return rows
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.gameCfg())
	m.logger.Info("run started", "seed", m.config.Seed)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg.Width, msg.Height)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey queues the action for the next tick, or handles host keys directly.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.handleResize(m.config.ScreenW, m.config.ScreenH)
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionNone:
		return m, nil
	}

	m.inputFrame.Set(action)
	return m, nil
}

// handleResize follows the terminal size.
func (m Model) handleResize(w, h int) (tea.Model, tea.Cmd) {
	m.config.ScreenW = w
	m.config.ScreenH = h
	m.help.Width = w
	m.screen.Resize(w, m.gameHeight())

	if r, ok := m.game.(resizer); ok {
		r.Resize(w, m.gameHeight())
		return m, nil
	}

	// Games without resize support start over unless the result is on screen
	if !m.gameState.GameOver {
		m.game.Reset(m.gameCfg())
	}
	return m, nil
}

// handleTick processes simulation ticks. at is the time the tick fired; the
// gap since the previous tick is passed to the game as the frame's Elapsed.
func (m Model) handleTick(at time.Time) (tea.Model, tea.Cmd) {
	wasOver := m.gameState.GameOver

	if !at.IsZero() {
		if !m.lastTick.IsZero() && at.After(m.lastTick) {
			m.inputFrame.Elapsed = at.Sub(m.lastTick)
		}
		m.lastTick = at
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if result.Cleared > 0 {
		m.logger.Debug("lines cleared", "count", result.Cleared, "score", m.gameState.Score)
	}

	if wasOver && !m.gameState.GameOver {
		m.startedAt = m.now()
		m.scoreSaved = false
		m.logger.Info("run restarted")
	}

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveRun()
		m.scoreSaved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// saveRun stores the finished run. Storage is best-effort; failures are logged.
func (m *Model) saveRun() {
	if m.startedAt.IsZero() {
		m.startedAt = m.now()
	}
	duration := m.now().Sub(m.startedAt)
	m.logger.Info("game over",
		"score", m.gameState.Score,
		"level", m.gameState.Level,
		"lines", m.gameState.Lines,
		"duration", duration.Round(time.Second),
	)

	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	id, err := m.store.SaveRun(storage.Run{
		GameID:   m.game.ID(),
		Player:   m.player,
		Score:    m.gameState.Score,
		Level:    m.gameState.Level,
		Lines:    m.gameState.Lines,
		Duration: duration,
	})
	if err != nil {
		m.logger.Error("could not save run", "error", err)
		return
	}
	m.logger.Info("run saved", "id", id)
}

// saveScreenshot writes the current screen as plain text under ~/.blockfall/screenshots.
func (m *Model) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, config.AppDir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	timestamp := m.now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// View renders the game followed by the help footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(m.renderer.Render(m.screen))
	b.WriteString("\n")
	b.WriteString(m.footer.Render(m.help.View(m.keys)))
	return b.String()
}

// State returns the game state seen at the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program for game on the local terminal.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
