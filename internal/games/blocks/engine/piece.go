package engine

import (
	"math/rand"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Kind identifies one of the seven tetrominoes.
type Kind int

const (
	KindI Kind = iota
	KindO
	KindT
	KindS
	KindZ
	KindL
	KindJ
)

// KindCount is the number of distinct tetrominoes.
const KindCount = 7

// String returns the conventional single-letter name of the kind.
func (k Kind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindO:
		return "O"
	case KindT:
		return "T"
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindL:
		return "L"
	case KindJ:
		return "J"
	default:
		return "?"
	}
}

// Shape is a piece bitmap indexed as [row][col].
type Shape [][]bool

// Width returns the number of columns.
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Height returns the number of rows.
func (s Shape) Height() int {
	return len(s)
}

// Clone returns an independent copy of the bitmap.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for y, row := range s {
		out[y] = append([]bool(nil), row...)
	}
	return out
}

// Rotated returns the shape turned 90 degrees clockwise:
// new[x][h-1-y] = old[y][x]. The receiver is not modified.
func (s Shape) Rotated() Shape {
	h, w := s.Height(), s.Width()
	out := make(Shape, w)
	for x := range w {
		out[x] = make([]bool, h)
		for y := range h {
			out[x][h-1-y] = s[y][x]
		}
	}
	return out
}

// Equal reports whether two shapes have the same dimensions and cells.
func (s Shape) Equal(other Shape) bool {
	if s.Height() != other.Height() || s.Width() != other.Width() {
		return false
	}
	for y := range s {
		for x := range s[y] {
			if s[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// Cells returns the offsets of the filled cells, row by row.
func (s Shape) Cells() []Point {
	var pts []Point
	for y, row := range s {
		for x, filled := range row {
			if filled {
				pts = append(pts, Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// Point is a board-relative coordinate.
type Point struct {
	X, Y int
}

// template is the immutable definition of a kind.
type template struct {
	shape Shape
	color core.Color
}

// Templates are never handed out directly; spawnShape returns copies.
var templates = [KindCount]template{
	KindI: {shape: Shape{{true, true, true, true}}, color: core.ColorBrightCyan},
	KindO: {shape: Shape{{true, true}, {true, true}}, color: core.ColorBrightYellow},
	KindT: {shape: Shape{{false, true, false}, {true, true, true}}, color: core.ColorMagenta},
	KindS: {shape: Shape{{false, true, true}, {true, true, false}}, color: core.ColorBrightGreen},
	KindZ: {shape: Shape{{true, true, false}, {false, true, true}}, color: core.ColorBrightRed},
	KindL: {shape: Shape{{false, false, true}, {true, true, true}}, color: core.ColorOrange},
	KindJ: {shape: Shape{{true, false, false}, {true, true, true}}, color: core.ColorBlue},
}

// Piece is a tetromino with its own shape copy and board position.
type Piece struct {
	Kind  Kind
	Shape Shape
	Color core.Color
	X, Y  int
}

// NewPiece returns a fresh piece of the given kind at the origin.
func NewPiece(k Kind) Piece {
	return Piece{
		Kind:  k,
		Shape: spawnShape(k),
		Color: colorOf(k),
	}
}

// spawnShape returns a copy of the spawn shape for a kind.
func spawnShape(k Kind) Shape {
	return templates[k].shape.Clone()
}

// colorOf returns the fixed colour of a kind.
func colorOf(k Kind) core.Color {
	return templates[k].color
}

// Clone returns a deep copy of the piece.
func (p Piece) Clone() Piece {
	p.Shape = p.Shape.Clone()
	return p
}

// Generator supplies upcoming pieces. Every returned piece owns its shape.
type Generator interface {
	Next() Piece
}

// RandomGenerator picks kinds uniformly at random.
type RandomGenerator struct {
	rng *rand.Rand
}

// NewRandomGenerator creates a generator drawing from rng.
func NewRandomGenerator(rng *rand.Rand) *RandomGenerator {
	return &RandomGenerator{rng: rng}
}

// Next returns a uniformly chosen piece.
func (g *RandomGenerator) Next() Piece {
	return NewPiece(Kind(g.rng.Intn(KindCount)))
}

// SequenceGenerator cycles through a fixed list of kinds.
type SequenceGenerator struct {
	kinds []Kind
	pos   int
}

// NewSequenceGenerator creates a generator that repeats kinds in order.
// An empty list yields I pieces forever.
func NewSequenceGenerator(kinds ...Kind) *SequenceGenerator {
	if len(kinds) == 0 {
		kinds = []Kind{KindI}
	}
	return &SequenceGenerator{kinds: kinds}
}

// Next returns the next kind in the sequence.
func (g *SequenceGenerator) Next() Piece {
	k := g.kinds[g.pos%len(g.kinds)]
	g.pos++
	return NewPiece(k)
}
