package terminal

// Attr is the 16-bit encoding of one side of a cell's rendition.
//
// Bits 0-8 hold a Color and bits 9-15 hold flags. The same layout is used
// for foreground and background, but the flag bits mean different things
// on each side (see the Flag constants).
type Attr uint16

const colorMask Attr = 0x01FF

// DefaultAttr is the attribute of a blank cell: default color, no flags.
const DefaultAttr = Attr(ColorDefault)

// Flag is a rendition flag stored in bits 9-15 of an Attr.
type Flag uint16

// Foreground flags.
const (
	FlagBold Flag = 1 << (9 + iota)
	FlagDim
	FlagItalic
	FlagUnderline
	FlagBlink
	FlagReverse
	FlagStrike
)

// Background flags.
const (
	// FlagHidden marks concealed text (SGR 8).
	FlagHidden Flag = 1 << (9 + iota)
	// FlagWide marks the left half of a double-width glyph.
	FlagWide
	// FlagWideSpacer marks the column covered by a double-width glyph.
	FlagWideSpacer
)

// NewAttr combines a color and a set of flags.
func NewAttr(c Color, flags Flag) Attr {
	return Attr(c)&colorMask | Attr(flags)&^colorMask
}

// Color returns the color stored in the attribute.
func (a Attr) Color() Color {
	return Color(a & colorMask)
}

// Flags returns the flag bits stored in the attribute.
func (a Attr) Flags() Flag {
	return Flag(a &^ colorMask)
}

// Has returns true if the flag is set.
func (a Attr) Has(f Flag) bool {
	return a.Flags()&f != 0
}

// WithColor returns the attribute with its color replaced.
func (a Attr) WithColor(c Color) Attr {
	return a&^colorMask | Attr(c)&colorMask
}

// With returns the attribute with the given flags added.
func (a Attr) With(f Flag) Attr {
	return a | Attr(f)&^colorMask
}

// Without returns the attribute with the given flags removed.
func (a Attr) Without(f Flag) Attr {
	return a &^ (Attr(f) &^ colorMask)
}

// Cell represents a single character cell in the terminal.
type Cell struct {
	Rune rune
	Fg   Attr
	Bg   Attr
}

// EmptyCell returns a blank cell with default attributes.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Fg: DefaultAttr, Bg: DefaultAttr}
}

// blankCell returns a blank cell using bg's color as background.
// Erased cells keep the pen's background color but none of its flags.
func blankCell(bg Attr) Cell {
	return Cell{Rune: ' ', Fg: DefaultAttr, Bg: NewAttr(bg.Color(), 0)}
}

// Width returns the number of columns the cell's glyph occupies.
// Spacer cells report zero.
func (c Cell) Width() int {
	switch {
	case c.Bg.Has(FlagWideSpacer):
		return 0
	case c.Bg.Has(FlagWide):
		return 2
	default:
		return 1
	}
}
