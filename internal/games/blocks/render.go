package blocks

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blocks/engine"
)

const (
	cellWidth  = 2  // Each board cell is two characters wide so it looks square
	panelWidth = 14 // Side panel with score and preview
	panelGap   = 2
)

const (
	blockGlyph = '█'
	emptyGlyph = '·'
)

// Layout is the screen placement of the well and panel.
type Layout struct {
	Well  core.Rect // Including the border
	Panel core.Rect
}

func (g *Game) layout() Layout {
	wellW := g.cfg.Board.Width*cellWidth + 2
	wellH := g.cfg.Board.Height + 2
	totalW := wellW + panelGap + panelWidth

	x := max((g.runtime.ScreenW-totalW)/2, 0)
	y := max((g.runtime.ScreenH-wellH)/2, 0)

	return Layout{
		Well:  core.NewRect(x, y, wellW, wellH),
		Panel: core.NewRect(x+wellW+panelGap, y, panelWidth, wellH),
	}
}

// minSize returns the smallest screen that fits the well and panel.
func (g *Game) minSize() (int, int) {
	wellW := g.cfg.Board.Width*cellWidth + 2
	wellH := g.cfg.Board.Height + 2
	return wellW + panelGap + panelWidth, wellH
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	l := g.layout()
	g.renderWell(dst, l.Well)
	g.renderPanel(dst, l.Panel)
	g.renderOverlays(dst, l.Well)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	minW, minH := g.minSize()
	y := g.runtime.ScreenH / 2
	dst.DrawTextCentered(y-1, "Window too small")
	dst.DrawTextCentered(y, fmt.Sprintf("Need %dx%d, have %dx%d", minW, minH, g.runtime.ScreenW, g.runtime.ScreenH))
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderWell draws the border, settled cells and the falling piece.
func (g *Game) renderWell(dst *core.Screen, r core.Rect) {
	dst.DrawBox(r, core.ColorGray)

	board := g.eng.Board()
	for y := range board.Height() {
		for x := range board.Width() {
			c := board.At(x, y)
			if c == engine.Empty {
				setCell(dst, r, x, y, emptyGlyph, core.ColorGray)
				continue
			}
			setCell(dst, r, x, y, blockGlyph, c)
		}
	}

	p, ok := g.eng.Active()
	if !ok {
		return
	}
	for _, pt := range p.Shape.Cells() {
		x, y := p.X+pt.X, p.Y+pt.Y
		if y < 0 {
			continue
		}
		setCell(dst, r, x, y, blockGlyph, p.Color)
	}
}

// setCell paints board cell (x, y) inside well r.
func setCell(dst *core.Screen, r core.Rect, x, y int, glyph rune, c core.Color) {
	sx := r.X + 1 + x*cellWidth
	sy := r.Y + 1 + y
	if glyph == emptyGlyph {
		dst.SetColored(sx, sy, ' ', c)
		dst.SetColored(sx+1, sy, glyph, c)
		return
	}
	dst.SetColored(sx, sy, glyph, c)
	dst.SetColored(sx+1, sy, glyph, c)
}

// renderPanel draws the title, stats and next-piece preview.
func (g *Game) renderPanel(dst *core.Screen, r core.Rect) {
	dst.DrawTextColored(r.X, r.Y, "BLOCKS", core.ColorBrightWhite)

	stats := []struct {
		label string
		value int
	}{
		{"Score", g.eng.Score()},
		{"Level", g.eng.Level()},
		{"Lines", g.eng.Lines()},
	}
	y := r.Y + 2
	for _, s := range stats {
		dst.DrawTextColored(r.X, y, s.label, core.ColorGray)
		dst.DrawText(r.X, y+1, strconv.Itoa(s.value))
		y += 3
	}

	dst.DrawTextColored(r.X, y, "Next", core.ColorGray)
	box := core.NewRect(r.X, y+1, 4*cellWidth+2, 4)
	dst.DrawBox(box, core.ColorGray)

	next := g.eng.Next()
	offX := (4 - next.Shape.Width()) / 2
	for _, pt := range next.Shape.Cells() {
		setCell(dst, box, offX+pt.X, pt.Y, blockGlyph, next.Color)
	}
}

// renderOverlays draws pause and game over boxes over the well.
func (g *Game) renderOverlays(dst *core.Screen, well core.Rect) {
	centerX := well.X + well.W/2
	centerY := well.Y + well.H/2

	switch g.eng.State() {
	case engine.Paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "P to resume")
	case engine.GameOver:
		drawOverlay(dst, centerX, centerY, "GAME OVER", "Score "+strconv.Itoa(g.eng.Score()), "R to restart")
	}
}

// drawOverlay draws a centered text box.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.NewRect(centerX-boxW/2, centerY-boxH/2, boxW, boxH)

	// Clear area behind overlay
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorBrightWhite)

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawTextColored(x, box.Y+1+i, line, core.ColorBrightWhite)
	}
}
