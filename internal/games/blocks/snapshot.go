package blocks

import (
	"strings"

	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick   uint64
	Score  int
	Level  int
	Lines  int
	State  string
	Active string // Kind letter, empty when nothing is falling
	X, Y   int
	Next   string
	Board  []string // One string per row, '.' for empty and '#' for settled
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:  g.tick,
		Score: g.eng.Score(),
		Level: g.eng.Level(),
		Lines: g.eng.Lines(),
		State: g.eng.State().String(),
		Next:  g.eng.Next().Kind.String(),
	}
	if p, ok := g.eng.Active(); ok {
		s.Active = p.Kind.String()
		s.X, s.Y = p.X, p.Y
	}

	for _, row := range g.eng.Board().Rows() {
		var sb strings.Builder
		for _, c := range row {
			if c == engine.Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('#')
			}
		}
		s.Board = append(s.Board, sb.String())
	}
	return s
}
