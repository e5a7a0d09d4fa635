package terminal

// Charset is a character set that can be designated into G0 or G1.
type Charset uint8

const (
	// CharsetASCII is US-ASCII (ESC ( B).
	CharsetASCII Charset = iota
	// CharsetDECSpecial is the DEC special graphics set (ESC ( 0).
	CharsetDECSpecial
)

// decSpecial maps 0x5F-0x7E to their line drawing equivalents.
var decSpecial = [...]rune{
	' ', // _
	'◆', // `
	'▒', // a
	'␉', // b
	'␌', // c
	'␍', // d
	'␊', // e
	'°', // f
	'±', // g
	'␤', // h
	'␋', // i
	'┘', // j
	'┐', // k
	'┌', // l
	'└', // m
	'┼', // n
	'⎺', // o
	'⎻', // p
	'─', // q
	'⎼', // r
	'⎽', // s
	'├', // t
	'┤', // u
	'┴', // v
	'┬', // w
	'│', // x
	'≤', // y
	'≥', // z
	'π', // {
	'≠', // |
	'£', // }
	'·', // ~
}

// charsetByDesignator returns the charset selected by the final byte of an
// SCS sequence. Unknown designators fall back to ASCII.
func charsetByDesignator(b byte) Charset {
	if b == '0' {
		return CharsetDECSpecial
	}
	return CharsetASCII
}

// translate maps r through the charset.
func (cs Charset) translate(r rune) rune {
	if cs == CharsetDECSpecial && r >= 0x5F && r <= 0x7E {
		return decSpecial[r-0x5F]
	}
	return r
}
