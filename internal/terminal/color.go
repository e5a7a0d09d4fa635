package terminal

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a palette reference stored in the low nine bits of an Attr.
// Values 0-255 index the xterm 256-color palette; ColorDefault selects the
// renderer's default foreground or background.
type Color uint16

// ColorDefault is the terminal's default color.
const ColorDefault Color = 256

// Standard ANSI colors (indices 0-15).
const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightBlack
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

// IsDefault returns true if this is the default color.
func (c Color) IsDefault() bool {
	return c == ColorDefault
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.IsDefault() {
		return "default"
	}
	return fmt.Sprintf("idx(%d)", uint16(c))
}

// RGB returns the palette's RGB value for the color.
// The default color reports white, which is only meaningful as a hint.
func (c Color) RGB() (r, g, b uint8) {
	if c > 255 {
		return 229, 229, 229
	}
	rgb := palette[c]
	return rgb[0], rgb[1], rgb[2]
}

// palette holds the xterm 256-color table.
var palette = buildPalette()

func buildPalette() [256][3]uint8 {
	var p [256][3]uint8

	ansi := [16][3]uint8{
		{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
		{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
		{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	copy(p[:16], ansi[:])

	// 6x6x6 cube: index = 16 + 36*r + 6*g + b
	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	for i := 0; i < 216; i++ {
		p[16+i] = [3]uint8{levels[i/36], levels[(i/6)%6], levels[i%6]}
	}

	// Grayscale ramp: level = 8 + 10*(index-232)
	for i := 0; i < 24; i++ {
		v := uint8(8 + 10*i)
		p[232+i] = [3]uint8{v, v, v}
	}
	return p
}

// ColorFromIndex returns the palette color for a 256-color index.
// Out of range indices are clamped.
func ColorFromIndex(index int) Color {
	if index < 0 {
		return ColorBlack
	}
	if index > 255 {
		return Color(255)
	}
	return Color(index)
}

// Quantizer maps 24-bit colors onto the 256-color palette.
// Results are memoized; the cache is bounded and reset when full.
type Quantizer struct {
	cache map[uint32]Color
	limit int
}

// NewQuantizer creates a quantizer that memoizes up to limit colors.
func NewQuantizer(limit int) *Quantizer {
	if limit < 1 {
		limit = 1024
	}
	return &Quantizer{
		cache: make(map[uint32]Color, 64),
		limit: limit,
	}
}

// Nearest returns the palette entry perceptually closest to r, g, b.
// Only the cube and grayscale ramp are searched for inexact matches so the
// result does not depend on how a renderer themes colors 0-15.
func (q *Quantizer) Nearest(r, g, b uint8) Color {
	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if c, ok := q.cache[key]; ok {
		return c
	}

	best := nearestColor(r, g, b)

	if len(q.cache) >= q.limit {
		clear(q.cache)
	}
	q.cache[key] = best
	return best
}

func nearestColor(r, g, b uint8) Color {
	for i := 16; i < 256; i++ {
		p := palette[i]
		if p[0] == r && p[1] == g && p[2] == b {
			return Color(i)
		}
	}

	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best := Color(16)
	bestDist := -1.0
	for i := 16; i < 256; i++ {
		p := palette[i]
		candidate := colorful.Color{R: float64(p[0]) / 255, G: float64(p[1]) / 255, B: float64(p[2]) / 255}
		d := target.DistanceLab(candidate)
		if bestDist < 0 || d < bestDist {
			best = Color(i)
			bestDist = d
		}
	}
	return best
}
