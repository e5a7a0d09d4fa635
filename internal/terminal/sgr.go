package terminal

// selectGraphicRendition applies an SGR sequence to the grid's pen.
// Unknown codes are skipped; a malformed extended color consumes the rest
// of the sequence.
func (p *Parser) selectGraphicRendition() {
	fg, bg := p.grid.Pen()

	if len(p.params) == 0 {
		p.grid.SetAttribute(DefaultAttr, DefaultAttr)
		return
	}

	for i := 0; i < len(p.params); i++ {
		v := p.params[i].value
		switch {
		case v == 0: // Reset
			fg, bg = DefaultAttr, DefaultAttr
		case v == 1: // Bold
			fg = fg.With(FlagBold)
		case v == 2: // Dim
			fg = fg.With(FlagDim)
		case v == 3: // Italic
			fg = fg.With(FlagItalic)
		case v == 4, v == 21: // Underline, double underline
			fg = fg.With(FlagUnderline)
		case v == 5, v == 6: // Blink
			fg = fg.With(FlagBlink)
		case v == 7: // Reverse
			fg = fg.With(FlagReverse)
		case v == 8: // Hidden
			bg = bg.With(FlagHidden)
		case v == 9: // Strikethrough
			fg = fg.With(FlagStrike)
		case v == 22: // Normal intensity
			fg = fg.Without(FlagBold | FlagDim)
		case v == 23:
			fg = fg.Without(FlagItalic)
		case v == 24:
			fg = fg.Without(FlagUnderline)
		case v == 25:
			fg = fg.Without(FlagBlink)
		case v == 27:
			fg = fg.Without(FlagReverse)
		case v == 28:
			bg = bg.Without(FlagHidden)
		case v == 29:
			fg = fg.Without(FlagStrike)

		case v >= 30 && v <= 37:
			fg = fg.WithColor(Color(v - 30))
		case v == 38:
			var c Color
			var ok bool
			c, i, ok = p.extendedColor(i)
			if ok {
				fg = fg.WithColor(c)
			}
		case v == 39:
			fg = fg.WithColor(ColorDefault)

		case v >= 40 && v <= 47:
			bg = bg.WithColor(Color(v - 40))
		case v == 48:
			var c Color
			var ok bool
			c, i, ok = p.extendedColor(i)
			if ok {
				bg = bg.WithColor(c)
			}
		case v == 49:
			bg = bg.WithColor(ColorDefault)

		case v >= 90 && v <= 97:
			fg = fg.WithColor(Color(v - 90 + 8))
		case v >= 100 && v <= 107:
			bg = bg.WithColor(Color(v - 100 + 8))
		}
	}

	p.grid.SetAttribute(fg, bg)
}

// extendedColor decodes the color introduced by the 38 or 48 at index i.
// It returns the index of the last parameter consumed.
//
// Accepted forms: 5;n and 2;r;g;b as separate parameters, or 5:n,
// 2:r:g:b and 2::r:g:b as sub-parameters.
func (p *Parser) extendedColor(i int) (Color, int, bool) {
	prm := p.params[i]
	if prm.nsub > 0 {
		sub := prm.sub[:prm.nsub]
		switch {
		case sub[0] == 5 && len(sub) >= 2:
			return ColorFromIndex(sub[1]), i, true
		case sub[0] == 2 && len(sub) >= 5:
			// 2:colorspace:r:g:b
			return p.rgb(sub[2], sub[3], sub[4]), i, true
		case sub[0] == 2 && len(sub) == 4:
			return p.rgb(sub[1], sub[2], sub[3]), i, true
		}
		return 0, i, false
	}

	last := len(p.params) - 1
	if i+1 > last {
		return 0, last, false
	}
	switch p.params[i+1].value {
	case 5: // 256-color
		if i+2 <= last {
			return ColorFromIndex(p.params[i+2].value), i + 2, true
		}
	case 2: // RGB
		if i+4 <= last {
			r := p.params[i+2].value
			g := p.params[i+3].value
			b := p.params[i+4].value
			return p.rgb(r, g, b), i + 4, true
		}
	}
	return 0, last, false
}

func (p *Parser) rgb(r, g, b int) Color {
	return p.quant.Nearest(clampColorValue(r), clampColorValue(g), clampColorValue(b))
}

// clampColorValue clamps an integer to valid RGB range (0-255).
func clampColorValue(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
