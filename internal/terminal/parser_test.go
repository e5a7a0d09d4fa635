package terminal

import (
	"strings"
	"testing"
)

func newTestParser(lines, cols int) (*Grid, *Parser) {
	g := NewGrid(lines, cols, nil)
	return g, NewParser(g)
}

func TestParserPlainText(t *testing.T) {
	g, p := newTestParser(24, 80)

	p.Parse([]byte("Hello"))

	if got := g.LineText(0); got != "Hello" {
		t.Errorf("expected 'Hello', got '%s'", got)
	}
	if row, col := g.Cursor(); row != 0 || col != 5 {
		t.Errorf("cursor = (%d,%d), want (0,5)", row, col)
	}
}

func TestParserLineFeed(t *testing.T) {
	g, p := newTestParser(24, 80)

	// LF only moves the cursor down, not to column 0
	p.Parse([]byte("A\nB"))

	if cell := g.Cell(0, 0); cell.Rune != 'A' {
		t.Errorf("expected 'A' at (0,0), got %q", cell.Rune)
	}
	if cell := g.Cell(1, 1); cell.Rune != 'B' {
		t.Errorf("expected 'B' at (1,1), got %q", cell.Rune)
	}
}

func TestParserNewline(t *testing.T) {
	g, p := newTestParser(24, 80)

	p.Parse([]byte("A\r\nB"))

	if cell := g.Cell(1, 0); cell.Rune != 'B' {
		t.Errorf("expected 'B' on line 1, got %q", cell.Rune)
	}
}

func TestParserLinefeedNewlineMode(t *testing.T) {
	g, p := newTestParser(24, 80)

	p.Parse([]byte("\x1b[20hA\nB"))

	if cell := g.Cell(1, 0); cell.Rune != 'B' {
		t.Errorf("expected 'B' at (1,0) with LNM set, got %q", cell.Rune)
	}

	p.Parse([]byte("\x1b[20l\nC"))
	if cell := g.Cell(2, 1); cell.Rune != 'C' {
		t.Errorf("expected 'C' at (2,1) after LNM reset, got %q", cell.Rune)
	}
}

func TestParserCarriageReturn(t *testing.T) {
	g, p := newTestParser(24, 80)

	p.Parse([]byte("ABC\rX"))

	if got := g.LineText(0); got != "XBC" {
		t.Errorf("expected 'XBC', got '%s'", got)
	}
}

func TestParserTab(t *testing.T) {
	g, p := newTestParser(24, 80)

	p.Parse([]byte("A\tB"))

	if cell := g.Cell(0, 8); cell.Rune != 'B' {
		t.Errorf("expected 'B' at position 8 (after tab), got %q", cell.Rune)
	}
}

func TestParserBackspace(t *testing.T) {
	g, p := newTestParser(24, 80)

	p.Parse([]byte("AB\bC"))

	if got := g.LineText(0); got != "AC" {
		t.Errorf("expected 'AC', got '%s'", got)
	}
}

func TestParserBackspaceDoesNotErase(t *testing.T) {
	g, p := newTestParser(24, 80)

	p.Parse([]byte("AB\b"))

	if got := g.LineText(0); got != "AB" {
		t.Errorf("expected 'AB', got '%s'", got)
	}
}

func TestParserDeleteIgnored(t *testing.T) {
	g, p := newTestParser(24, 80)

	p.Parse([]byte("A\x7fB"))

	if got := g.LineText(0); got != "AB" {
		t.Errorf("expected 'AB', got '%s'", got)
	}
}

func TestParserCursorMovement(t *testing.T) {
	tests := []struct {
		name             string
		startRow, startC int
		seq              string
		wantRow, wantCol int
	}{
		{"CUU", 10, 5, "\x1b[3A", 7, 5},
		{"CUU zero means one", 5, 0, "\x1b[0A", 4, 0},
		{"CUD", 5, 0, "\x1b[2B", 7, 0},
		{"CUF", 0, 5, "\x1b[4C", 0, 9},
		{"CUB", 0, 5, "\x1b[2D", 0, 3},
		{"CUB clamps", 0, 5, "\x1b[99D", 0, 0},
		{"CUD clamps", 20, 0, "\x1b[99B", 23, 0},
		{"CUP", 0, 0, "\x1b[5;10H", 4, 9},
		{"CUP default", 3, 3, "\x1b[H", 0, 0},
		{"CUP clamps", 0, 0, "\x1b[100;200H", 23, 79},
		{"HVP", 0, 0, "\x1b[2;3f", 1, 2},
		{"CHA", 2, 3, "\x1b[20G", 2, 19},
		{"HPA", 2, 3, "\x1b[20`", 2, 19},
		{"HPR", 0, 1, "\x1b[3a", 0, 4},
		{"VPA", 2, 3, "\x1b[7d", 6, 3},
		{"VPR", 1, 1, "\x1b[3e", 4, 1},
		{"CNL", 2, 3, "\x1b[2E", 4, 0},
		{"CPL", 4, 3, "\x1b[2F", 2, 0},
		{"CHT", 0, 1, "\x1b[2I", 0, 16},
		{"CBT", 0, 20, "\x1b[Z", 0, 16},
		{"CBT to start", 0, 5, "\x1b[3Z", 0, 0},
		{"Tab stops at last column", 0, 75, "\t\t", 0, 79},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, p := newTestParser(24, 80)
			g.SetCursor(tt.startRow, tt.startC)

			p.ParseString(tt.seq)

			row, col := g.Cursor()
			if row != tt.wantRow || col != tt.wantCol {
				t.Errorf("cursor = (%d,%d), want (%d,%d)", row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestParserEraseLine(t *testing.T) {
	tests := []struct {
		seq  string
		want string
	}{
		{"\x1b[K", "Hello"},
		{"\x1b[0K", "Hello"},
		{"\x1b[1K", "      World"},
		{"\x1b[2K", ""},
	}

	for _, tt := range tests {
		t.Run(tt.seq[1:], func(t *testing.T) {
			g, p := newTestParser(3, 20)
			p.ParseString("Hello World\x1b[1;6H" + tt.seq)

			if got := g.LineText(0); got != tt.want {
				t.Errorf("line = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserEraseDisplay(t *testing.T) {
	tests := []struct {
		seq  string
		want string
	}{
		{"\x1b[J", "AAA\nB\n"},
		{"\x1b[1J", "\n  B\nCCC"},
		{"\x1b[2J", "\n\n"},
		{"\x1b[3J", "AAA\nBBB\nCCC"},
	}

	for _, tt := range tests {
		t.Run(tt.seq[1:], func(t *testing.T) {
			g, p := newTestParser(3, 3)
			p.ParseString("AAA\r\nBBB\r\nCCC\x1b[2;2H" + tt.seq)

			if got := g.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserEraseKeepsBackground(t *testing.T) {
	g, p := newTestParser(5, 5)

	p.ParseString("\x1b[1;44mX\x1b[2J")

	cell := g.Cell(3, 3)
	if cell.Rune != ' ' {
		t.Errorf("Rune = %q, want blank", cell.Rune)
	}
	if cell.Bg.Color() != ColorBlue {
		t.Errorf("Bg color = %v, want blue", cell.Bg.Color())
	}
	if cell.Fg != DefaultAttr {
		t.Errorf("Fg = %#x, want default", cell.Fg)
	}
}

func TestParserSGR(t *testing.T) {
	tests := []struct {
		name   string
		seq    string
		wantFg Attr
		wantBg Attr
	}{
		{"bold red", "\x1b[1;31m", NewAttr(ColorRed, FlagBold), DefaultAttr},
		{"reset", "\x1b[31m\x1b[0m", DefaultAttr, DefaultAttr},
		{"empty reset", "\x1b[31;1m\x1b[m", DefaultAttr, DefaultAttr},
		{"256 fg", "\x1b[38;5;196m", NewAttr(196, 0), DefaultAttr},
		{"256 bg", "\x1b[48;5;21m", DefaultAttr, NewAttr(21, 0)},
		{"256 clamps", "\x1b[38;5;300m", NewAttr(255, 0), DefaultAttr},
		{"256 colon", "\x1b[38:5:100m", NewAttr(100, 0), DefaultAttr},
		{"rgb semicolon", "\x1b[38;2;255;0;0m", NewAttr(196, 0), DefaultAttr},
		{"rgb colon", "\x1b[38:2:0:255:0m", NewAttr(46, 0), DefaultAttr},
		{"rgb colon colorspace", "\x1b[48:2::0:0:255m", DefaultAttr, NewAttr(21, 0)},
		{"rgb then bold", "\x1b[38;2;0;0;255;1m", NewAttr(21, FlagBold), DefaultAttr},
		{"bright", "\x1b[92;103m", NewAttr(ColorBrightGreen, 0), NewAttr(ColorBrightYellow, 0)},
		{"default bg", "\x1b[41m\x1b[49m", DefaultAttr, DefaultAttr},
		{"default fg", "\x1b[1;32;39m", NewAttr(ColorDefault, FlagBold), DefaultAttr},
		{"reverse hidden", "\x1b[7;8m", NewAttr(ColorDefault, FlagReverse), NewAttr(ColorDefault, FlagHidden)},
		{"normal intensity", "\x1b[1;2;22m", DefaultAttr, DefaultAttr},
		{"all fg flags", "\x1b[1;2;3;4;5;7;9m",
			NewAttr(ColorDefault, FlagBold|FlagDim|FlagItalic|FlagUnderline|FlagBlink|FlagReverse|FlagStrike), DefaultAttr},
		{"clear flags", "\x1b[3;4;5;7;8;9m\x1b[23;24;25;27;28;29m", DefaultAttr, DefaultAttr},
		{"double underline", "\x1b[21m", NewAttr(ColorDefault, FlagUnderline), DefaultAttr},
		{"unknown skipped", "\x1b[4;99;1m", NewAttr(ColorDefault, FlagUnderline|FlagBold), DefaultAttr},
		{"truncated extended", "\x1b[38;5m", DefaultAttr, DefaultAttr},
		{"truncated rgb", "\x1b[1;38;2;10m", NewAttr(ColorDefault, FlagBold), DefaultAttr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, p := newTestParser(2, 10)
			p.ParseString(tt.seq + "X")

			cell := g.Cell(0, 0)
			if cell.Rune != 'X' {
				t.Fatalf("Rune = %q, want 'X'", cell.Rune)
			}
			if cell.Fg != tt.wantFg {
				t.Errorf("Fg = %#04x, want %#04x", cell.Fg, tt.wantFg)
			}
			if cell.Bg != tt.wantBg {
				t.Errorf("Bg = %#04x, want %#04x", cell.Bg, tt.wantBg)
			}
		})
	}
}

func TestParserSGRDoesNotTouchExistingCells(t *testing.T) {
	g, p := newTestParser(2, 10)

	p.ParseString("A\x1b[31mB")

	if cell := g.Cell(0, 0); cell.Fg != DefaultAttr {
		t.Errorf("existing cell Fg = %#x, want default", cell.Fg)
	}
	if cell := g.Cell(0, 1); cell.Fg.Color() != ColorRed {
		t.Errorf("new cell color = %v, want red", cell.Fg.Color())
	}
}

func TestParserWideGlyph(t *testing.T) {
	g, p := newTestParser(1, 5)

	p.ParseString("中A")

	head := g.Cell(0, 0)
	if head.Rune != '中' || !head.Bg.Has(FlagWide) {
		t.Errorf("head = %+v, want wide '中'", head)
	}
	if head.Width() != 2 {
		t.Errorf("head width = %d, want 2", head.Width())
	}
	spacer := g.Cell(0, 1)
	if spacer.Rune != 0 || !spacer.Bg.Has(FlagWideSpacer) {
		t.Errorf("spacer = %+v, want wide spacer", spacer)
	}
	if cell := g.Cell(0, 2); cell.Rune != 'A' {
		t.Errorf("expected 'A' at column 2, got %q", cell.Rune)
	}
	if got := g.LineText(0); got != "中A" {
		t.Errorf("LineText = %q, want %q", got, "中A")
	}
}

func TestParserWideGlyphWrapsAtLastColumn(t *testing.T) {
	g, p := newTestParser(2, 3)

	p.ParseString("ab中")

	if cell := g.Cell(0, 2); cell.Rune != ' ' {
		t.Errorf("last column = %q, want blank", cell.Rune)
	}
	if cell := g.Cell(1, 0); cell.Rune != '中' {
		t.Errorf("(1,0) = %q, want '中'", cell.Rune)
	}
	if row, col := g.Cursor(); row != 1 || col != 2 {
		t.Errorf("cursor = (%d,%d), want (1,2)", row, col)
	}
}

func TestParserOverwriteWideHalf(t *testing.T) {
	g, p := newTestParser(1, 5)

	p.ParseString("中\x1b[1;2HX")

	if cell := g.Cell(0, 0); cell.Rune != ' ' || cell.Bg.Has(FlagWide) {
		t.Errorf("head = %+v, want plain blank", cell)
	}
	if cell := g.Cell(0, 1); cell.Rune != 'X' || cell.Bg.Has(FlagWideSpacer) {
		t.Errorf("(0,1) = %+v, want plain 'X'", cell)
	}
}

func TestParserCombiningMarkDropped(t *testing.T) {
	g, p := newTestParser(1, 5)

	p.ParseString("éx")

	if got := g.LineText(0); got != "ex" {
		t.Errorf("LineText = %q, want %q", got, "ex")
	}
}

func TestParserPendingWrap(t *testing.T) {
	g, p := newTestParser(2, 3)

	p.ParseString("abc")
	if row, col := g.Cursor(); row != 0 || col != 2 {
		t.Errorf("cursor after fill = (%d,%d), want (0,2)", row, col)
	}

	p.ParseString("d")
	if got := g.Text(); got != "abc\nd" {
		t.Errorf("text = %q, want %q", got, "abc\nd")
	}
}

func TestParserPendingWrapClearedByCR(t *testing.T) {
	g, p := newTestParser(2, 3)

	p.ParseString("abc\rX")

	if got := g.Text(); got != "Xbc\n" {
		t.Errorf("text = %q, want %q", got, "Xbc\n")
	}
}

func TestParserAutoWrapDisabled(t *testing.T) {
	g, p := newTestParser(1, 3)

	p.ParseString("\x1b[?7labcd")

	if got := g.LineText(0); got != "abd" {
		t.Errorf("LineText = %q, want %q", got, "abd")
	}
}

func TestParserScrollRegion(t *testing.T) {
	g, p := newTestParser(5, 3)

	p.ParseString("1\r\n2\r\n3\r\n4\r\n5")
	p.ParseString("\x1b[2;4r")
	if row, col := g.Cursor(); row != 0 || col != 0 {
		t.Errorf("DECSTBM should home the cursor, got (%d,%d)", row, col)
	}

	p.ParseString("\x1b[4;1H\n")

	want := "1\n3\n4\n\n5"
	if got := g.Text(); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	if top, bottom := g.ScrollRegion(); top != 1 || bottom != 3 {
		t.Errorf("region = [%d,%d], want [1,3]", top, bottom)
	}
}

func TestParserScrollUpDown(t *testing.T) {
	g, p := newTestParser(3, 3)

	p.ParseString("A\r\nB\r\nC\x1b[S")
	if got := g.Text(); got != "B\nC\n" {
		t.Errorf("after SU text = %q", got)
	}

	p.ParseString("\x1b[2T")
	if got := g.Text(); got != "\n\nB" {
		t.Errorf("after SD text = %q", got)
	}
}

func TestParserReverseIndex(t *testing.T) {
	g, p := newTestParser(3, 3)

	p.ParseString("A\r\nB\x1b[H\x1bM")

	if got := g.Text(); got != "\nA\nB" {
		t.Errorf("text = %q, want %q", got, "\nA\nB")
	}
}

func TestParserIndexAndNextLine(t *testing.T) {
	g, p := newTestParser(3, 5)

	p.ParseString("ab\x1bDc\x1bEd")

	if got := g.Text(); got != "ab\n  c\nd" {
		t.Errorf("text = %q", got)
	}
}

func TestParserInsertDeleteLines(t *testing.T) {
	g, p := newTestParser(3, 3)
	p.ParseString("A\r\nB\r\nC\x1b[2H\x1b[L")
	if got := g.Text(); got != "A\n\nB" {
		t.Errorf("after IL text = %q", got)
	}

	g, p = newTestParser(3, 3)
	p.ParseString("A\r\nB\r\nC\x1b[2H\x1b[M")
	if got := g.Text(); got != "A\nC\n" {
		t.Errorf("after DL text = %q", got)
	}
}

func TestParserCharacterEditing(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want string
	}{
		{"ICH", "abcde\x1b[1;2H\x1b[2@", "a  bcde"},
		{"DCH", "abcde\x1b[1;2H\x1b[2P", "ade"},
		{"ECH", "abcde\x1b[1;2H\x1b[2X", "a  de"},
		{"REP", "a\x1b[3b", "aaaa"},
		{"IRM", "abc\x1b[4h\x1b[1;1HX", "Xabc"},
		{"IRM off", "abc\x1b[4h\x1b[4l\x1b[1;1HX", "Xbc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, p := newTestParser(1, 10)
			p.ParseString(tt.seq)

			if got := g.LineText(0); got != tt.want {
				t.Errorf("LineText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserTabStops(t *testing.T) {
	g, p := newTestParser(1, 20)

	p.ParseString("\x1b[3g\x1b[1;5H\x1bH\x1b[1;1H\tX")

	if cell := g.Cell(0, 4); cell.Rune != 'X' {
		t.Errorf("expected 'X' at custom tab stop 4, got %q", cell.Rune)
	}

	p.ParseString("\x1b[1;5H\x1b[g\x1b[1;1H\tY")
	if cell := g.Cell(0, 19); cell.Rune != 'Y' {
		t.Errorf("expected 'Y' at last column without stops, got %q", cell.Rune)
	}
}

func TestParserSaveRestoreCursor(t *testing.T) {
	g, p := newTestParser(24, 80)

	p.ParseString("\x1b[5;5H\x1b[31m\x1b7\x1b[1;1H\x1b[0m\x1b8X")

	cell := g.Cell(4, 4)
	if cell.Rune != 'X' {
		t.Fatalf("expected 'X' at (4,4), got %q", cell.Rune)
	}
	if cell.Fg.Color() != ColorRed {
		t.Errorf("restored pen color = %v, want red", cell.Fg.Color())
	}

	p.ParseString("\x1b[10;10H\x1b[s\x1b[H\x1b[uY")
	if cell := g.Cell(9, 9); cell.Rune != 'Y' {
		t.Errorf("expected 'Y' at (9,9), got %q", cell.Rune)
	}
}

func TestParserCursorModes(t *testing.T) {
	g, p := newTestParser(5, 5)

	p.ParseString("\x1b[?25l")
	if g.CursorVisible() {
		t.Error("cursor should be hidden after DECTCEM reset")
	}
	p.ParseString("\x1b[?25h")
	if !g.CursorVisible() {
		t.Error("cursor should be visible after DECTCEM set")
	}

	p.ParseString("\x1b[5 q")
	if g.CursorStyle() != CursorBar {
		t.Errorf("style = %v, want bar", g.CursorStyle())
	}
	p.ParseString("\x1b[4 q")
	if g.CursorStyle() != CursorUnderline {
		t.Errorf("style = %v, want underline", g.CursorStyle())
	}
	p.ParseString("\x1b[ q")
	if g.CursorStyle() != CursorBlock {
		t.Errorf("style = %v, want block", g.CursorStyle())
	}
}

func TestParserOriginMode(t *testing.T) {
	g, p := newTestParser(10, 10)

	p.ParseString("\x1b[3;6r\x1b[?6h\x1b[1;1HX\x1b[99;1HY")

	if cell := g.Cell(2, 0); cell.Rune != 'X' {
		t.Errorf("expected 'X' at region top, got %q", cell.Rune)
	}
	if cell := g.Cell(5, 0); cell.Rune != 'Y' {
		t.Errorf("expected 'Y' clamped to region bottom, got %q", cell.Rune)
	}
}

func TestParserAlternateScreen(t *testing.T) {
	g, p := newTestParser(3, 10)

	p.ParseString("main\x1b[?1049h")
	if !g.AltScreen() {
		t.Fatal("expected alternate screen")
	}
	if got := g.Text(); got != "\n\n" {
		t.Errorf("alternate screen should start blank, got %q", got)
	}

	p.ParseString("\x1b[2;2Halt\x1b[?1049l")
	if g.AltScreen() {
		t.Fatal("expected primary screen")
	}
	if got := g.LineText(0); got != "main" {
		t.Errorf("primary line = %q, want %q", got, "main")
	}
	if row, col := g.Cursor(); row != 0 || col != 4 {
		t.Errorf("cursor = (%d,%d), want restored (0,4)", row, col)
	}

	p.ParseString("\x1b[?1049h")
	if got := g.Text(); got != "\n\n" {
		t.Errorf("1049 should clear the alternate screen, got %q", got)
	}
}

func TestParserAlternateScreenVariants(t *testing.T) {
	g, p := newTestParser(2, 5)
	p.ParseString("\x1b[?47hX\x1b[?47l\x1b[?47h")
	if got := g.LineText(0); got != "X" {
		t.Errorf("47 should keep alternate content, got %q", got)
	}

	g, p = newTestParser(2, 5)
	p.ParseString("\x1b[?1047hX\x1b[?1047l\x1b[?1047h")
	if got := g.LineText(0); got != "" {
		t.Errorf("1047 should clear on exit, got %q", got)
	}
}

func TestParserCharsets(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want string
	}{
		{"G0 special", "\x1b(0lqkx\x1b(Bq", "┌─┐│q"},
		{"G1 shift", "\x1b)0a\x0eq\x0fq", "a─q"},
		{"unknown designator", "\x1b(Aq", "q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, p := newTestParser(1, 10)
			p.ParseString(tt.seq)

			if got := g.LineText(0); got != tt.want {
				t.Errorf("LineText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserAlignmentTest(t *testing.T) {
	g, p := newTestParser(2, 3)

	p.ParseString("\x1b[2;2H\x1b#8")

	if got := g.Text(); got != "EEE\nEEE" {
		t.Errorf("text = %q", got)
	}
	if row, col := g.Cursor(); row != 0 || col != 0 {
		t.Errorf("cursor = (%d,%d), want (0,0)", row, col)
	}
}

func TestParserReset(t *testing.T) {
	g, p := newTestParser(3, 5)

	p.ParseString("abc\x1b[31m\x1b[2;3r\x1bc")

	if got := g.Text(); got != "\n\n" {
		t.Errorf("text = %q, want blank", got)
	}
	if fg, bg := g.Pen(); fg != DefaultAttr || bg != DefaultAttr {
		t.Errorf("pen = (%#x,%#x), want default", fg, bg)
	}
	if top, bottom := g.ScrollRegion(); top != 0 || bottom != 2 {
		t.Errorf("region = [%d,%d], want [0,2]", top, bottom)
	}
}

func TestParserOSCTitle(t *testing.T) {
	g, p := newTestParser(2, 10)

	var titles []string
	p.SetTitleCallback(func(title string) {
		titles = append(titles, title)
	})

	p.ParseString("\x1b]0;hello\x07")
	p.ParseString("\x1b]2;world\x1b\\X")
	p.ParseString("\x1b]1;icon\x07")

	if len(titles) != 2 || titles[0] != "hello" || titles[1] != "world" {
		t.Errorf("titles = %q, want [hello world]", titles)
	}
	if got := g.LineText(0); got != "X" {
		t.Errorf("LineText = %q, want %q", got, "X")
	}
}

func TestParserOSCOverflow(t *testing.T) {
	g, p := newTestParser(2, 10)
	p.SetLimits(0, 8)

	called := false
	p.SetTitleCallback(func(string) { called = true })

	p.ParseString("\x1b]2;0123456789\x07X")

	if called {
		t.Error("oversized OSC should be discarded")
	}
	if got := g.LineText(0); got != "X" {
		t.Errorf("LineText = %q, want %q", got, "X")
	}
}

func TestParserBell(t *testing.T) {
	_, p := newTestParser(2, 10)

	bells := 0
	p.SetBellCallback(func() { bells++ })

	p.ParseString("\x07a\x07")

	if bells != 2 {
		t.Errorf("bells = %d, want 2", bells)
	}
}

func TestParserUnknownSequences(t *testing.T) {
	tests := []struct {
		name string
		seq  string
	}{
		{"unknown CSI final", "\x1b[5~"},
		{"parameter overflow", "\x1b[" + strings.Repeat("1;", 1000) + "m"},
		{"sub-parameter overflow", "\x1b[38:2:1:2:3:4:5:6:7m"},
		{"cancelled", "\x1b[12\x18"},
		{"substituted", "\x1b[12\x1a"},
		{"DCS", "\x1bP1$r\x1b\\"},
		{"APC", "\x1b_payload\x1b\\"},
		{"private mode", "\x1b[?1000h"},
		{"device attributes", "\x1b[>0c"},
		{"status report", "\x1b[6n"},
		{"unknown intermediate", "\x1b[1;2$p"},
		{"unknown escape", "\x1bZ"},
		{"misplaced private marker", "\x1b[1?h"},
		{"unknown OSC", "\x1b]52;c;aGk=\x07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, p := newTestParser(2, 10)
			p.ParseString(tt.seq + "Hi")

			if got := g.Text(); got != "Hi\n" {
				t.Errorf("text = %q, want %q", got, "Hi\n")
			}
			if row, col := g.Cursor(); row != 0 || col != 2 {
				t.Errorf("cursor = (%d,%d), want (0,2)", row, col)
			}
		})
	}
}

func TestParserUnknownCallback(t *testing.T) {
	_, p := newTestParser(2, 10)

	var seen []string
	p.SetUnknownCallback(func(seq string) {
		seen = append(seen, seq)
	})

	p.ParseString("\x1b[5~\x1b[?1;2x")

	want := []string{"CSI 5~", "CSI ?1;2x"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %q, want %q", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestParserControlInsideCSI(t *testing.T) {
	g, p := newTestParser(10, 10)

	// LF executes in place, then CUD 3 completes.
	p.ParseString("\x1b[3\nBX")

	if cell := g.Cell(4, 0); cell.Rune != 'X' {
		t.Errorf("expected 'X' at (4,0), got %q", cell.Rune)
	}
}

func TestParserEscapeRestartsSequence(t *testing.T) {
	g, p := newTestParser(10, 10)

	p.ParseString("\x1b[12\x1b[2;3HX")

	if cell := g.Cell(1, 2); cell.Rune != 'X' {
		t.Errorf("expected 'X' at (1,2), got %q", cell.Rune)
	}
}

func TestParserUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two byte", "héllo", "héllo"},
		{"three byte", "a€b", "a€b"},
		{"four byte", "a\U0001F600", "a\U0001F600"},
		{"invalid lead", "\xffA", "\uFFFDA"},
		{"stray continuation", "\x80A", "\uFFFDA"},
		{"interrupted", "\xe4\xb8A", "\uFFFDA"},
		{"interrupted by escape", "\xe4\x1b[1mA", "\uFFFDA"},
		{"overlong", "\xe0\x80\x80A", "\uFFFDA"},
		{"surrogate", "\xed\xa0\x80A", "\uFFFDA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, p := newTestParser(1, 10)
			p.ParseString(tt.in)

			if got := g.LineText(0); got != tt.want {
				t.Errorf("LineText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserSplitSequences(t *testing.T) {
	input := "\x1b[1;31mRed\x1b[0m \xe4\xb8\xad\x1b]2;t\x07\x1b[2;3HX"

	whole, p := newTestParser(4, 10)
	p.ParseString(input)

	for split := 1; split < len(input); split++ {
		g, p := newTestParser(4, 10)
		p.ParseString(input[:split])
		p.ParseString(input[split:])

		for row := 0; row < 4; row++ {
			for col := 0; col < 10; col++ {
				if got, want := g.Cell(row, col), whole.Cell(row, col); got != want {
					t.Fatalf("split %d: cell (%d,%d) = %+v, want %+v", split, row, col, got, want)
				}
			}
		}
	}
}

func BenchmarkParserPlainText(b *testing.B) {
	_, p := newTestParser(24, 80)
	data := []byte(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40))

	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		p.Parse(data)
	}
}

func BenchmarkParserSGR(b *testing.B) {
	_, p := newTestParser(24, 80)
	data := []byte(strings.Repeat("\x1b[1;38;5;196mX\x1b[0m", 100))

	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		p.Parse(data)
	}
}
