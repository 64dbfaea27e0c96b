package engine

import "github.com/vovakirdan/blockfall/internal/core"

// Empty marks an unoccupied board cell.
const Empty = core.ColorDefault

// Board is the fixed-size well of settled cells, indexed as [row][col].
// Row 0 is the top.
type Board struct {
	width  int
	height int
	cells  [][]core.Color
}

// NewBoard allocates an empty board.
func NewBoard(width, height int) *Board {
	b := &Board{width: width, height: height}
	b.cells = make([][]core.Color, height)
	for y := range b.cells {
		b.cells[y] = make([]core.Color, width)
	}
	return b
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.height
}

// At returns the cell at (x, y). Out-of-range coordinates read as Empty.
func (b *Board) At(x, y int) core.Color {
	if !b.inside(x, y) {
		return Empty
	}
	return b.cells[y][x]
}

// Rows returns a deep copy of the cell grid.
func (b *Board) Rows() [][]core.Color {
	out := make([][]core.Color, b.height)
	for y, row := range b.cells {
		out[y] = append([]core.Color(nil), row...)
	}
	return out
}

func (b *Board) inside(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Collides reports whether p overlaps a wall, the floor or a settled cell.
// Cells above the top edge (y < 0) never collide.
func (b *Board) Collides(p Piece) bool {
	for _, c := range p.Shape.Cells() {
		x, y := p.X+c.X, p.Y+c.Y
		if x < 0 || x >= b.width || y >= b.height {
			return true
		}
		if y >= 0 && b.cells[y][x] != Empty {
			return true
		}
	}
	return false
}

// lock writes the piece colour into the board. Cells outside the board are skipped.
func (b *Board) lock(p Piece) {
	for _, c := range p.Shape.Cells() {
		x, y := p.X+c.X, p.Y+c.Y
		if !b.inside(x, y) {
			continue
		}
		b.cells[y][x] = p.Color
	}
}

// rowFull reports whether every cell of row y is occupied.
func (b *Board) rowFull(y int) bool {
	for _, c := range b.cells[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

// clearLines removes all full rows, shifts the rest down and returns how many
// rows were removed.
func (b *Board) clearLines() int {
	kept := make([][]core.Color, 0, b.height)
	for y := range b.cells {
		if !b.rowFull(y) {
			kept = append(kept, b.cells[y])
		}
	}
	cleared := b.height - len(kept)
	if cleared == 0 {
		return 0
	}

	rows := make([][]core.Color, 0, b.height)
	for range cleared {
		rows = append(rows, make([]core.Color, b.width))
	}
	b.cells = append(rows, kept...)
	return cleared
}
