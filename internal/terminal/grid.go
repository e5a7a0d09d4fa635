package terminal

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Marker receives the coordinates a Grid mutates.
// *dirty.Tracker satisfies it.
type Marker interface {
	Mark(row, col int)
	MarkSpan(row, from, to int)
	MarkAll()
}

type noopMarker struct{}

func (noopMarker) Mark(int, int)          {}
func (noopMarker) MarkSpan(int, int, int) {}
func (noopMarker) MarkAll()               {}

// CursorStyle represents the cursor appearance.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
)

// EraseMode selects the part of a line or screen an erase affects.
type EraseMode int

const (
	// EraseToEnd erases from the cursor to the end, inclusive.
	EraseToEnd EraseMode = iota
	// EraseToStart erases from the start to the cursor, inclusive.
	EraseToStart
	// EraseAll erases everything.
	EraseAll
)

// Mode is a terminal mode toggled by SM/RM and DECSET/DECRST.
type Mode int

const (
	ModeInsert         Mode = iota // IRM
	ModeNewline                    // LNM
	ModeOrigin                     // DECOM
	ModeAutoWrap                   // DECAWM
	ModeCursorVisible              // DECTCEM
	ModeAltScreen                  // 47
	ModeAltScreenClear             // 1047
	ModeAltScreenSave              // 1049
)

// Rect is a half-open rectangle of cells: rows [Top, Bottom), columns [Left, Right).
type Rect struct {
	Top, Left, Bottom, Right int
}

type savedCursor struct {
	row, col    int
	wrapPending bool
	fg, bg      Attr
	originMode  bool
	charsets    [2]Charset
	shift       int
}

// widths measures glyphs independently of the host locale.
var widths = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// DefaultTabWidth is the distance between the initial tab stops.
const DefaultTabWidth = 8

// Grid is a fixed-size cell buffer with a cursor and rendition state.
//
// Every method that changes a cell reports the coordinate to the Grid's
// Marker before returning. Cursor movement alone marks nothing.
type Grid struct {
	lines int
	cols  int

	// rows is the active buffer, either primary or alternate.
	rows      [][]Cell
	primary   [][]Cell
	alternate [][]Cell
	altScreen bool

	// Cursor position (0-indexed), always inside the grid.
	row, col int

	// wrapPending is set after printing into the last column; the next
	// printable wraps before it is written.
	wrapPending bool

	// Pen applied to new characters
	fg, bg Attr

	saved    savedCursor
	altSaved savedCursor

	// Scroll region, inclusive
	scrollTop    int
	scrollBottom int

	tabStops []bool
	tabWidth int

	// Mode flags
	originMode  bool
	autoWrap    bool
	insertMode  bool
	newlineMode bool

	cursorVisible bool
	cursorStyle   CursorStyle

	charsets [2]Charset
	shift    int // 0 selects G0, 1 selects G1

	// lastRune is the last printed character, repeated by REP.
	lastRune rune

	marker Marker
}

// NewGrid creates a lines x cols grid reporting mutations to marker.
// Dimensions below one are raised to one; a nil marker discards marks.
func NewGrid(lines, cols int, marker Marker) *Grid {
	if lines < 1 {
		lines = 1
	}
	if cols < 1 {
		cols = 1
	}
	if marker == nil {
		marker = noopMarker{}
	}

	g := &Grid{
		lines:    lines,
		cols:     cols,
		tabWidth: DefaultTabWidth,
		marker:   marker,
	}
	g.primary = newRows(lines, cols)
	g.rows = g.primary
	g.tabStops = make([]bool, cols)
	g.resetState()
	return g
}

func newRows(lines, cols int) [][]Cell {
	rows := make([][]Cell, lines)
	backing := make([]Cell, lines*cols)
	for i := range backing {
		backing[i] = EmptyCell()
	}
	for y := range rows {
		rows[y] = backing[y*cols : (y+1)*cols : (y+1)*cols]
	}
	return rows
}

// resetState restores cursor, pen, margins, modes and tab stops.
func (g *Grid) resetState() {
	g.row, g.col = 0, 0
	g.wrapPending = false
	g.fg, g.bg = DefaultAttr, DefaultAttr
	g.scrollTop = 0
	g.scrollBottom = g.lines - 1
	g.originMode = false
	g.autoWrap = true
	g.insertMode = false
	g.newlineMode = false
	g.cursorVisible = true
	g.cursorStyle = CursorBlock
	g.charsets = [2]Charset{}
	g.shift = 0
	g.lastRune = 0
	g.saved = savedCursor{fg: DefaultAttr, bg: DefaultAttr}
	g.altSaved = g.saved
	g.resetTabStops()
}

func (g *Grid) resetTabStops() {
	for x := range g.tabStops {
		g.tabStops[x] = x > 0 && x%g.tabWidth == 0
	}
}

// SetTabWidth sets the interval of the default tab stops and resets them.
func (g *Grid) SetTabWidth(n int) {
	if n < 1 {
		n = DefaultTabWidth
	}
	g.tabWidth = n
	g.resetTabStops()
}

// Size returns the grid dimensions.
func (g *Grid) Size() (lines, cols int) {
	return g.lines, g.cols
}

// Cursor returns the cursor position.
func (g *Grid) Cursor() (row, col int) {
	return g.row, g.col
}

// CursorVisible returns whether the cursor is visible.
func (g *Grid) CursorVisible() bool {
	return g.cursorVisible
}

// CursorStyle returns the cursor style.
func (g *Grid) CursorStyle() CursorStyle {
	return g.cursorStyle
}

// SetCursorStyle sets the cursor style.
func (g *Grid) SetCursorStyle(style CursorStyle) {
	g.cursorStyle = style
}

// AltScreen returns true while the alternate buffer is active.
func (g *Grid) AltScreen() bool {
	return g.altScreen
}

// ScrollRegion returns the inclusive scroll margins.
func (g *Grid) ScrollRegion() (top, bottom int) {
	return g.scrollTop, g.scrollBottom
}

// Pen returns the attributes applied to newly written cells.
func (g *Grid) Pen() (fg, bg Attr) {
	return g.fg, g.bg
}

// Cell returns the cell at the given position.
// Returns an empty cell if out of bounds.
func (g *Grid) Cell(row, col int) Cell {
	if !g.inBounds(row, col) {
		return EmptyCell()
	}
	return g.rows[row][col]
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.lines && col >= 0 && col < g.cols
}

// Set writes a cell. Out of bounds coordinates fail with ErrOutOfBounds.
func (g *Grid) Set(row, col int, cell Cell) error {
	if !g.inBounds(row, col) {
		return ErrOutOfBounds
	}
	g.put(row, col, cell)
	return nil
}

func (g *Grid) put(row, col int, cell Cell) {
	g.rows[row][col] = cell
	g.marker.Mark(row, col)
}

// SetAttribute sets the pen used by subsequent writes. Existing cells are
// not affected.
func (g *Grid) SetAttribute(fg, bg Attr) {
	g.fg = fg
	g.bg = bg.Without(FlagWide | FlagWideSpacer)
}

// Print writes r at the cursor with the current pen and advances.
func (g *Grid) Print(r rune) {
	r = g.charsets[g.shift].translate(r)

	width := widths.RuneWidth(r)
	if width == 0 {
		return
	}
	if width > 1 && g.cols < 2 {
		width = 1
	}

	if g.wrapPending {
		g.wrapPending = false
		if g.autoWrap {
			g.col = 0
			g.index()
		}
	}

	if width == 2 && g.col == g.cols-1 {
		if g.autoWrap {
			g.col = 0
			g.index()
		} else {
			g.col = g.cols - 2
		}
	}

	if g.insertMode {
		g.InsertChars(width)
	}

	g.clearWideAt(g.row, g.col)
	if width == 2 {
		g.clearWideAt(g.row, g.col+1)
		g.put(g.row, g.col, Cell{Rune: r, Fg: g.fg, Bg: g.bg.With(FlagWide)})
		g.put(g.row, g.col+1, Cell{Rune: 0, Fg: g.fg, Bg: g.bg.With(FlagWideSpacer)})
	} else {
		g.put(g.row, g.col, Cell{Rune: r, Fg: g.fg, Bg: g.bg})
	}
	g.lastRune = r

	next := g.col + width
	if next >= g.cols {
		g.col = g.cols - 1
		g.wrapPending = g.autoWrap
	} else {
		g.col = next
	}
}

// clearWideAt blanks the other half of a double-width glyph overlapping
// (row, col), so a partial overwrite never leaves half a glyph behind.
func (g *Grid) clearWideAt(row, col int) {
	if !g.inBounds(row, col) {
		return
	}
	cell := g.rows[row][col]
	switch {
	case cell.Bg.Has(FlagWideSpacer) && col > 0:
		head := g.rows[row][col-1]
		g.put(row, col-1, blankCell(head.Bg))
	case cell.Bg.Has(FlagWide) && col+1 < g.cols:
		spacer := g.rows[row][col+1]
		g.put(row, col+1, blankCell(spacer.Bg))
	}
}

// Repeat prints the last printed character n more times.
func (g *Grid) Repeat(n int) {
	if g.lastRune == 0 {
		return
	}
	if limit := g.lines * g.cols; n > limit {
		n = limit
	}
	r := g.lastRune
	// lastRune is already translated; print it under ASCII.
	saved := g.charsets[g.shift]
	g.charsets[g.shift] = CharsetASCII
	for i := 0; i < n; i++ {
		g.Print(r)
	}
	g.charsets[g.shift] = saved
}

// SetCursor moves the cursor to an absolute position, clamping to bounds.
// In origin mode the row is relative to the scroll region.
func (g *Grid) SetCursor(row, col int) {
	top, bottom := 0, g.lines-1
	if g.originMode {
		top, bottom = g.scrollTop, g.scrollBottom
		row += top
	}
	g.row = clamp(row, top, bottom)
	g.col = clamp(col, 0, g.cols-1)
	g.wrapPending = false
}

// SetColumn moves the cursor to an absolute column on the current row.
func (g *Grid) SetColumn(col int) {
	g.col = clamp(col, 0, g.cols-1)
	g.wrapPending = false
}

// SetRow moves the cursor to an absolute row, keeping the column.
func (g *Grid) SetRow(row int) {
	col := g.col
	g.SetCursor(row, col)
}

// MoveCursorRelative moves the cursor by the given delta. Vertical moves
// stop at the scroll margins when the cursor starts inside them.
func (g *Grid) MoveCursorRelative(drow, dcol int) {
	top, bottom := 0, g.lines-1
	if g.row >= g.scrollTop && g.row <= g.scrollBottom {
		top, bottom = g.scrollTop, g.scrollBottom
	}
	g.row = clamp(g.row+drow, top, bottom)
	g.col = clamp(g.col+dcol, 0, g.cols-1)
	g.wrapPending = false
}

// CarriageReturn moves the cursor to the beginning of the current line.
func (g *Grid) CarriageReturn() {
	g.col = 0
	g.wrapPending = false
}

// Backspace moves the cursor one column left.
func (g *Grid) Backspace() {
	if g.col > 0 {
		g.col--
	}
	g.wrapPending = false
}

// LineFeed moves the cursor down one line, scrolling at the bottom margin.
// In newline mode it also returns the carriage.
func (g *Grid) LineFeed() {
	g.index()
	if g.newlineMode {
		g.col = 0
	}
}

// Index moves the cursor down one line, scrolling at the bottom margin.
func (g *Grid) Index() {
	g.index()
}

func (g *Grid) index() {
	g.wrapPending = false
	if g.row == g.scrollBottom {
		g.ScrollUp(1)
		return
	}
	if g.row < g.lines-1 {
		g.row++
	}
}

// ReverseIndex moves the cursor up one line, scrolling at the top margin.
func (g *Grid) ReverseIndex() {
	g.wrapPending = false
	if g.row == g.scrollTop {
		g.ScrollDown(1)
		return
	}
	if g.row > 0 {
		g.row--
	}
}

// Tab advances to the next tab stop n times, stopping at the last column.
func (g *Grid) Tab(n int) {
	for ; n > 0 && g.col < g.cols-1; n-- {
		g.col++
		for g.col < g.cols-1 && !g.tabStops[g.col] {
			g.col++
		}
	}
	g.wrapPending = false
}

// BackTab moves to the previous tab stop n times, stopping at column 0.
func (g *Grid) BackTab(n int) {
	for ; n > 0 && g.col > 0; n-- {
		g.col--
		for g.col > 0 && !g.tabStops[g.col] {
			g.col--
		}
	}
	g.wrapPending = false
}

// SetTabStop sets a tab stop at the cursor column.
func (g *Grid) SetTabStop() {
	g.tabStops[g.col] = true
}

// ClearTabStop clears the tab stop at the cursor, or every stop if all is set.
func (g *Grid) ClearTabStop(all bool) {
	if !all {
		g.tabStops[g.col] = false
		return
	}
	for x := range g.tabStops {
		g.tabStops[x] = false
	}
}

// ScrollUp shifts the scroll region up by n lines. The top n lines are
// discarded and blank lines with the pen background enter at the bottom.
// Every cell is marked dirty.
func (g *Grid) ScrollUp(n int) {
	g.scrollRegion(g.scrollTop, g.scrollBottom, n)
}

// ScrollDown shifts the scroll region down by n lines.
func (g *Grid) ScrollDown(n int) {
	g.scrollRegion(g.scrollTop, g.scrollBottom, -n)
}

// scrollRegion shifts rows [top, bottom] up by n (down if n is negative)
// and blanks the rows that were exposed.
func (g *Grid) scrollRegion(top, bottom, n int) {
	if n == 0 || top > bottom {
		return
	}
	size := bottom - top + 1
	up := n > 0
	if !up {
		n = -n
	}
	if n > size {
		n = size
	}

	region := g.rows[top : bottom+1]
	if up {
		exposed := append([][]Cell(nil), region[:n]...)
		copy(region, region[n:])
		copy(region[size-n:], exposed)
		for _, line := range region[size-n:] {
			fillLine(line, blankCell(g.bg))
		}
	} else {
		exposed := append([][]Cell(nil), region[size-n:]...)
		copy(region[n:], region[:size-n])
		copy(region, exposed)
		for _, line := range region[:n] {
			fillLine(line, blankCell(g.bg))
		}
	}

	g.marker.MarkAll()
}

func fillLine(line []Cell, cell Cell) {
	for x := range line {
		line[x] = cell
	}
}

// SetScrollRegion sets the inclusive scroll margins and homes the cursor.
// Regions of fewer than two lines are ignored.
func (g *Grid) SetScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom >= g.lines {
		bottom = g.lines - 1
	}
	if top >= bottom {
		return
	}
	g.scrollTop = top
	g.scrollBottom = bottom
	g.SetCursor(0, 0)
}

// ResetScrollRegion resets the scroll region to the full screen.
func (g *Grid) ResetScrollRegion() {
	g.scrollTop = 0
	g.scrollBottom = g.lines - 1
}

// Erase fills a rectangle with blanks carrying the pen background.
func (g *Grid) Erase(r Rect) {
	top := max(r.Top, 0)
	bottom := min(r.Bottom, g.lines)
	for row := top; row < bottom; row++ {
		g.eraseSpan(row, r.Left, r.Right)
	}
}

func (g *Grid) eraseSpan(row, from, to int) {
	from = max(from, 0)
	to = min(to, g.cols)
	if from >= to {
		return
	}
	g.clearWideAt(row, from)
	g.clearWideAt(row, to-1)

	blank := blankCell(g.bg)
	line := g.rows[row]
	for x := from; x < to; x++ {
		line[x] = blank
	}
	g.marker.MarkSpan(row, from, to)
}

// EraseLine erases part of the cursor line.
func (g *Grid) EraseLine(mode EraseMode) {
	switch mode {
	case EraseToEnd:
		g.eraseSpan(g.row, g.col, g.cols)
	case EraseToStart:
		g.eraseSpan(g.row, 0, g.col+1)
	case EraseAll:
		g.eraseSpan(g.row, 0, g.cols)
	}
}

// EraseDisplay erases part of the screen relative to the cursor.
func (g *Grid) EraseDisplay(mode EraseMode) {
	switch mode {
	case EraseToEnd:
		g.eraseSpan(g.row, g.col, g.cols)
		g.Erase(Rect{Top: g.row + 1, Left: 0, Bottom: g.lines, Right: g.cols})
	case EraseToStart:
		g.Erase(Rect{Top: 0, Left: 0, Bottom: g.row, Right: g.cols})
		g.eraseSpan(g.row, 0, g.col+1)
	case EraseAll:
		g.Erase(Rect{Top: 0, Left: 0, Bottom: g.lines, Right: g.cols})
	}
}

// EraseChars blanks n cells starting at the cursor without moving it.
func (g *Grid) EraseChars(n int) {
	if n <= 0 {
		return
	}
	g.eraseSpan(g.row, g.col, g.col+n)
}

// InsertLines inserts n blank lines at the cursor, pushing the lines below
// down within the scroll region.
func (g *Grid) InsertLines(n int) {
	if n <= 0 || g.row < g.scrollTop || g.row > g.scrollBottom {
		return
	}
	g.shiftLines(g.row, -n)
}

// DeleteLines deletes n lines at the cursor, pulling the lines below up
// within the scroll region.
func (g *Grid) DeleteLines(n int) {
	if n <= 0 || g.row < g.scrollTop || g.row > g.scrollBottom {
		return
	}
	g.shiftLines(g.row, n)
}

// shiftLines moves rows [from, scrollBottom] up by n (down if negative)
// and marks only the affected rows.
func (g *Grid) shiftLines(from, n int) {
	bottom := g.scrollBottom
	size := bottom - from + 1
	up := n > 0
	if !up {
		n = -n
	}
	if n > size {
		n = size
	}

	region := g.rows[from : bottom+1]
	if up {
		exposed := append([][]Cell(nil), region[:n]...)
		copy(region, region[n:])
		copy(region[size-n:], exposed)
		for _, line := range region[size-n:] {
			fillLine(line, blankCell(g.bg))
		}
	} else {
		exposed := append([][]Cell(nil), region[size-n:]...)
		copy(region[n:], region[:size-n])
		copy(region, exposed)
		for _, line := range region[:n] {
			fillLine(line, blankCell(g.bg))
		}
	}

	for row := from; row <= bottom; row++ {
		g.marker.MarkSpan(row, 0, g.cols)
	}
	g.col = 0
	g.wrapPending = false
}

// InsertChars inserts n blank cells at the cursor, shifting the rest of
// the line right. Cells pushed past the margin are lost.
func (g *Grid) InsertChars(n int) {
	if n <= 0 {
		return
	}
	n = min(n, g.cols-g.col)
	g.clearWideAt(g.row, g.col)

	line := g.rows[g.row]
	copy(line[g.col+n:], line[g.col:g.cols-n])
	blank := blankCell(g.bg)
	for x := g.col; x < g.col+n; x++ {
		line[x] = blank
	}
	if last := line[g.cols-1]; last.Bg.Has(FlagWide) {
		line[g.cols-1] = blankCell(last.Bg)
	}
	g.marker.MarkSpan(g.row, g.col, g.cols)
	g.wrapPending = false
}

// DeleteChars deletes n cells at the cursor, shifting the rest of the line
// left and blanking the cells exposed at the margin.
func (g *Grid) DeleteChars(n int) {
	if n <= 0 {
		return
	}
	n = min(n, g.cols-g.col)
	g.clearWideAt(g.row, g.col)
	g.clearWideAt(g.row, g.col+n-1)

	line := g.rows[g.row]
	copy(line[g.col:], line[g.col+n:])
	blank := blankCell(g.bg)
	for x := g.cols - n; x < g.cols; x++ {
		line[x] = blank
	}
	g.marker.MarkSpan(g.row, g.col, g.cols)
	g.wrapPending = false
}

// SaveCursor saves the cursor position, pen, origin mode and charsets.
func (g *Grid) SaveCursor() {
	g.saved = g.snapshotCursor()
}

// RestoreCursor restores the state saved by SaveCursor.
func (g *Grid) RestoreCursor() {
	g.restoreSnapshot(g.saved)
}

func (g *Grid) snapshotCursor() savedCursor {
	return savedCursor{
		row:         g.row,
		col:         g.col,
		wrapPending: g.wrapPending,
		fg:          g.fg,
		bg:          g.bg,
		originMode:  g.originMode,
		charsets:    g.charsets,
		shift:       g.shift,
	}
}

func (g *Grid) restoreSnapshot(s savedCursor) {
	g.row = clamp(s.row, 0, g.lines-1)
	g.col = clamp(s.col, 0, g.cols-1)
	g.wrapPending = s.wrapPending
	g.fg, g.bg = s.fg, s.bg
	g.originMode = s.originMode
	g.charsets = s.charsets
	g.shift = s.shift
}

// Designate assigns a charset to G0 (slot 0) or G1 (slot 1).
func (g *Grid) Designate(slot int, cs Charset) {
	if slot < 0 || slot > 1 {
		return
	}
	g.charsets[slot] = cs
}

// ShiftOut selects G1 (SO).
func (g *Grid) ShiftOut() {
	g.shift = 1
}

// ShiftIn selects G0 (SI).
func (g *Grid) ShiftIn() {
	g.shift = 0
}

// SetMode enables or disables a mode.
func (g *Grid) SetMode(mode Mode, enabled bool) {
	switch mode {
	case ModeInsert:
		g.insertMode = enabled
	case ModeNewline:
		g.newlineMode = enabled
	case ModeOrigin:
		g.originMode = enabled
		g.SetCursor(0, 0)
	case ModeAutoWrap:
		g.autoWrap = enabled
		if !enabled {
			g.wrapPending = false
		}
	case ModeCursorVisible:
		g.cursorVisible = enabled
	case ModeAltScreen:
		if enabled {
			g.enterAltScreen(false)
		} else {
			g.exitAltScreen(false)
		}
	case ModeAltScreenClear:
		if enabled {
			g.enterAltScreen(false)
		} else {
			g.exitAltScreen(true)
		}
	case ModeAltScreenSave:
		if enabled {
			if !g.altScreen {
				g.altSaved = g.snapshotCursor()
			}
			g.enterAltScreen(true)
		} else if g.altScreen {
			g.exitAltScreen(false)
			g.restoreSnapshot(g.altSaved)
		}
	}
}

// ModeEnabled reports whether a mode is on.
func (g *Grid) ModeEnabled(mode Mode) bool {
	switch mode {
	case ModeInsert:
		return g.insertMode
	case ModeNewline:
		return g.newlineMode
	case ModeOrigin:
		return g.originMode
	case ModeAutoWrap:
		return g.autoWrap
	case ModeCursorVisible:
		return g.cursorVisible
	case ModeAltScreen, ModeAltScreenClear, ModeAltScreenSave:
		return g.altScreen
	}
	return false
}

func (g *Grid) enterAltScreen(clearIt bool) {
	if g.altScreen {
		return
	}
	if g.alternate == nil {
		g.alternate = newRows(g.lines, g.cols)
	} else if clearIt {
		for _, line := range g.alternate {
			fillLine(line, blankCell(g.bg))
		}
	}
	g.rows = g.alternate
	g.altScreen = true
	g.marker.MarkAll()
}

func (g *Grid) exitAltScreen(clearIt bool) {
	if !g.altScreen {
		return
	}
	if clearIt {
		for _, line := range g.alternate {
			fillLine(line, blankCell(g.bg))
		}
	}
	g.rows = g.primary
	g.altScreen = false
	g.marker.MarkAll()
}

// Reset returns the grid to its initial state (RIS).
func (g *Grid) Reset() {
	for _, line := range g.primary {
		fillLine(line, EmptyCell())
	}
	g.alternate = nil
	g.rows = g.primary
	g.altScreen = false
	g.resetState()
	g.marker.MarkAll()
}

// AlignmentTest fills the screen with 'E' and homes the cursor (DECALN).
func (g *Grid) AlignmentTest() {
	cell := Cell{Rune: 'E', Fg: DefaultAttr, Bg: DefaultAttr}
	for _, line := range g.rows {
		fillLine(line, cell)
	}
	g.ResetScrollRegion()
	g.originMode = false
	g.SetCursor(0, 0)
	g.marker.MarkAll()
}

// LineText returns the text of one row with trailing blanks trimmed.
func (g *Grid) LineText(row int) string {
	if row < 0 || row >= g.lines {
		return ""
	}
	var sb strings.Builder
	for _, cell := range g.rows[row] {
		if cell.Bg.Has(FlagWideSpacer) {
			continue
		}
		sb.WriteRune(cell.Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Text returns the screen content, one line per row.
func (g *Grid) Text() string {
	lines := make([]string, g.lines)
	for row := range lines {
		lines[row] = g.LineText(row)
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
