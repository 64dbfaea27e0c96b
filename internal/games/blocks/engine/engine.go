// Package engine implements the falling-block rules: board, pieces, collision,
// rotation, line clearing, scoring and the gravity timer.
// It has no clock, no I/O and no rendering; hosts drive it through Tick and the
// input operations and read state back after each call.
package engine

import "time"

// RunState is the lifecycle state of a run.
type RunState int

const (
	NotRunning RunState = iota
	Running
	Paused
	GameOver
)

// String returns a human-readable name for the state.
func (s RunState) String() string {
	switch s {
	case NotRunning:
		return "not_running"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Config holds the rule constants for one engine.
type Config struct {
	Width         int
	Height        int
	Timing        DropTiming
	LinesPerLevel int
	PointsPerLine int
}

// DefaultConfig returns the classic 10x20 rules.
func DefaultConfig() Config {
	return Config{
		Width:         10,
		Height:        20,
		Timing:        DefaultDropTiming(),
		LinesPerLevel: 10,
		PointsPerLine: 100,
	}
}

// MoveResult reports what a movement did.
type MoveResult struct {
	Moved   bool // The offset was applied
	Locked  bool // A downward move was blocked and the piece settled
	Cleared int  // Rows removed by that lock
}

// Engine owns the board, pieces and score of a single run.
type Engine struct {
	cfg   Config
	gen   Generator
	board *Board

	active    Piece
	hasActive bool
	next      Piece

	score int
	level int
	lines int
	state RunState

	elapsed time.Duration // Time accumulated towards the next gravity step
}

// New creates an engine in the NotRunning state.
func New(cfg Config, gen Generator) *Engine {
	if cfg.LinesPerLevel <= 0 {
		cfg.LinesPerLevel = 10
	}
	return &Engine{
		cfg:   cfg,
		gen:   gen,
		board: NewBoard(cfg.Width, cfg.Height),
		level: 1,
		state: NotRunning,
	}
}

// Start begins a fresh run, discarding any previous board and score.
// It doubles as restart from any state.
func (e *Engine) Start() {
	e.board = NewBoard(e.cfg.Width, e.cfg.Height)
	e.score = 0
	e.lines = 0
	e.level = 1
	e.elapsed = 0
	e.hasActive = false
	e.state = Running
	e.next = e.gen.Next()
	e.spawn(e.next)
}

// Pause freezes a running game.
func (e *Engine) Pause() {
	if e.state == Running {
		e.state = Paused
	}
}

// Resume continues a paused game.
func (e *Engine) Resume() {
	if e.state == Paused {
		e.state = Running
	}
}

// TogglePause switches between Running and Paused.
func (e *Engine) TogglePause() {
	switch e.state {
	case Running:
		e.state = Paused
	case Paused:
		e.state = Running
	}
}

// spawn places p at the top centre. On collision the run ends and p is not placed.
func (e *Engine) spawn(p Piece) bool {
	p.X = e.board.Width()/2 - p.Shape.Width()/2
	p.Y = 0
	if e.board.Collides(p) {
		e.hasActive = false
		e.state = GameOver
		return false
	}
	e.active = p
	e.hasActive = true
	e.next = e.gen.Next()
	return true
}

// Rotate turns the active piece clockwise unless the result would collide.
func (e *Engine) Rotate() bool {
	if e.state != Running || !e.hasActive {
		return false
	}
	candidate := e.active
	candidate.Shape = e.active.Shape.Rotated()
	if e.board.Collides(candidate) {
		return false
	}
	e.active = candidate
	return true
}

// Move shifts the active piece. A blocked downward move locks the piece,
// clears lines and spawns the next one.
func (e *Engine) Move(dx, dy int) MoveResult {
	if e.state != Running || !e.hasActive {
		return MoveResult{}
	}
	candidate := e.active
	candidate.X += dx
	candidate.Y += dy
	if !e.board.Collides(candidate) {
		e.active = candidate
		return MoveResult{Moved: true}
	}
	if dy <= 0 {
		return MoveResult{}
	}

	cleared := e.settle()
	return MoveResult{Locked: true, Cleared: cleared}
}

// HardDrop moves the active piece straight down until it locks.
func (e *Engine) HardDrop() MoveResult {
	for {
		r := e.Move(0, 1)
		if !r.Moved {
			return r
		}
	}
}

// settle locks the active piece, scores cleared rows and spawns the next piece.
func (e *Engine) settle() int {
	e.board.lock(e.active)
	e.hasActive = false

	cleared := e.board.clearLines()
	if cleared > 0 {
		// Points use the level the piece locked at, before this clear's bump.
		e.score += cleared * e.cfg.PointsPerLine * e.level
		e.lines += cleared
		e.level = LevelForLines(e.lines, e.cfg.LinesPerLevel)
	}

	e.spawn(e.next)
	return cleared
}

// Tick advances the gravity timer by elapsed. Once the accumulated time
// exceeds the current drop interval the piece falls one row and the
// accumulator resets.
func (e *Engine) Tick(elapsed time.Duration) MoveResult {
	if e.state != Running {
		return MoveResult{}
	}
	e.elapsed += elapsed
	if e.elapsed <= e.DropInterval() {
		return MoveResult{}
	}
	e.elapsed = 0
	return e.Move(0, 1)
}

// DropInterval returns the gravity interval for the current level.
func (e *Engine) DropInterval() time.Duration {
	return e.cfg.Timing.Interval(e.level)
}

// Board returns the settled cells. Callers must treat it as read-only.
func (e *Engine) Board() *Board {
	return e.board
}

// Active returns a copy of the falling piece, if any.
func (e *Engine) Active() (Piece, bool) {
	if !e.hasActive {
		return Piece{}, false
	}
	return e.active.Clone(), true
}

// Next returns a copy of the preview piece.
func (e *Engine) Next() Piece {
	return e.next.Clone()
}

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Level returns the current level.
func (e *Engine) Level() int { return e.level }

// Lines returns the total rows cleared this run.
func (e *Engine) Lines() int { return e.lines }

// State returns the run state.
func (e *Engine) State() RunState { return e.state }

// Config returns the rule constants.
func (e *Engine) Config() Config { return e.cfg }
