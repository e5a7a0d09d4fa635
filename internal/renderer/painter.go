package renderer

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vinilla/internal/terminal"
)

// Painter copies grid cells onto a tcell screen.
type Painter struct {
	screen tcell.Screen
}

// NewPainter creates a painter drawing to screen.
func NewPainter(screen tcell.Screen) *Painter {
	return &Painter{screen: screen}
}

// Paint redraws the whole grid.
func (p *Painter) Paint(g *terminal.Grid) {
	p.screen.Clear()
	lines, cols := g.Size()
	for row := 0; row < lines; row++ {
		for col := 0; col < cols; col++ {
			p.setCell(row, col, g.Cell(row, col))
		}
	}
	p.placeCursor(g)
}

// Apply draws a change list and moves the cursor.
func (p *Painter) Apply(g *terminal.Grid, changes []terminal.Change) {
	for _, ch := range changes {
		p.setCell(ch.Row, ch.Col, ch.Cell)
	}
	p.placeCursor(g)
}

// Show flushes pending content to the terminal.
func (p *Painter) Show() {
	p.screen.Show()
}

func (p *Painter) setCell(row, col int, cell terminal.Cell) {
	// tcell draws the right half of a wide glyph from the head cell.
	if cell.Bg.Has(terminal.FlagWideSpacer) {
		return
	}
	p.screen.SetContent(col, row, displayRune(cell), nil, convertStyle(cell))
}

func (p *Painter) placeCursor(g *terminal.Grid) {
	if !g.CursorVisible() {
		p.screen.HideCursor()
		return
	}
	row, col := g.Cursor()
	p.screen.SetCursorStyle(convertCursorStyle(g.CursorStyle()))
	p.screen.ShowCursor(col, row)
}
