package renderer

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vinilla/internal/terminal"
)

// convertColor maps a palette color to tcell. Default stays default.
func convertColor(c terminal.Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(int(c))
}

// convertStyle converts a cell's rendition into a tcell style.
func convertStyle(cell terminal.Cell) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(cell.Fg.Color())).
		Background(convertColor(cell.Bg.Color()))

	fg := cell.Fg
	if fg.Has(terminal.FlagBold) {
		style = style.Bold(true)
	}
	if fg.Has(terminal.FlagDim) {
		style = style.Dim(true)
	}
	if fg.Has(terminal.FlagItalic) {
		style = style.Italic(true)
	}
	if fg.Has(terminal.FlagUnderline) {
		style = style.Underline(true)
	}
	if fg.Has(terminal.FlagBlink) {
		style = style.Blink(true)
	}
	if fg.Has(terminal.FlagReverse) {
		style = style.Reverse(true)
	}
	if fg.Has(terminal.FlagStrike) {
		style = style.StrikeThrough(true)
	}

	return style
}

// displayRune returns the rune drawn for a cell. Hidden and empty cells
// draw as a space.
func displayRune(cell terminal.Cell) rune {
	if cell.Rune == 0 || cell.Bg.Has(terminal.FlagHidden) {
		return ' '
	}
	return cell.Rune
}

func convertCursorStyle(s terminal.CursorStyle) tcell.CursorStyle {
	switch s {
	case terminal.CursorUnderline:
		return tcell.CursorStyleSteadyUnderline
	case terminal.CursorBar:
		return tcell.CursorStyleSteadyBar
	default:
		return tcell.CursorStyleSteadyBlock
	}
}
