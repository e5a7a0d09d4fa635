package terminal

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parser limits.
const (
	// DefaultMaxParams is the number of CSI parameters accepted before a
	// sequence is discarded.
	DefaultMaxParams = 32

	// DefaultMaxStringLength is the longest OSC payload kept, in bytes.
	DefaultMaxStringLength = 4096

	maxParamValue = 65535
	maxSubParams  = 6
	maxInter      = 2
)

// Parser parses ANSI escape sequences and updates a grid.
//
// All state persists between calls to Parse, so a sequence or a UTF-8
// encoding split across two calls resumes where it left off.
type Parser struct {
	grid  *Grid
	quant *Quantizer

	// Parser state
	state   parserState
	params  []param
	private byte   // CSI private marker: '?', '>', '<' or '='
	inter   []byte // intermediate bytes
	osc     []byte // OSC data

	// oscOverflow is set once osc exceeds maxString; the string is dropped.
	oscOverflow bool

	maxParams int
	maxString int

	// UTF-8 decoding state
	utf8Buf  [utf8.UTFMax]byte
	utf8Len  int // expected length of current UTF-8 sequence
	utf8Have int // bytes collected so far

	// Callbacks
	onTitle   func(string)
	onBell    func()
	onUnknown func(seq string)
}

// param is one CSI parameter with its ':' separated sub-parameters.
type param struct {
	value int
	sub   [maxSubParams]int
	nsub  int
}

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeInter
	stateCSIEntry
	stateCSIParam
	stateCSIInter
	stateCSIIgnore
	stateOSC
	stateString // DCS, SOS, PM and APC payloads
)

// NewParser creates a new ANSI parser for the given grid.
func NewParser(grid *Grid) *Parser {
	return &Parser{
		grid:      grid,
		quant:     NewQuantizer(0),
		state:     stateGround,
		params:    make([]param, 0, 16),
		inter:     make([]byte, 0, maxInter),
		osc:       make([]byte, 0, 256),
		maxParams: DefaultMaxParams,
		maxString: DefaultMaxStringLength,
	}
}

// SetLimits sets the parameter and OSC string caps. Values below one keep
// the current limit.
func (p *Parser) SetLimits(maxParams, maxString int) {
	if maxParams > 0 {
		p.maxParams = maxParams
	}
	if maxString > 0 {
		p.maxString = maxString
	}
}

// SetTitleCallback sets the callback for title changes.
func (p *Parser) SetTitleCallback(fn func(string)) {
	p.onTitle = fn
}

// SetBellCallback sets the callback for BEL.
func (p *Parser) SetBellCallback(fn func()) {
	p.onBell = fn
}

// SetUnknownCallback sets the callback for unknown or discarded sequences.
func (p *Parser) SetUnknownCallback(fn func(seq string)) {
	p.onUnknown = fn
}

// Parse parses the given data and updates the grid.
func (p *Parser) Parse(data []byte) {
	for _, b := range data {
		p.processByte(b)
	}
}

// ParseString parses the given string and updates the grid.
func (p *Parser) ParseString(s string) {
	for i := 0; i < len(s); i++ {
		p.processByte(s[i])
	}
}

func (p *Parser) processByte(b byte) {
	// C0 controls are executed in the middle of escape and CSI sequences.
	if b < 0x20 {
		switch p.state {
		case stateEscape, stateEscapeInter, stateCSIEntry, stateCSIParam,
			stateCSIInter, stateCSIIgnore:
			p.execute(b)
			return
		}
	}

	switch p.state {
	case stateGround:
		p.processGround(b)
	case stateEscape:
		p.processEscape(b)
	case stateEscapeInter:
		p.processEscapeInter(b)
	case stateCSIEntry:
		p.processCSIEntry(b)
	case stateCSIParam:
		p.processCSIParam(b)
	case stateCSIInter:
		p.processCSIInter(b)
	case stateCSIIgnore:
		p.processCSIIgnore(b)
	case stateOSC:
		p.processOSC(b)
	case stateString:
		p.processString(b)
	}
}

// execute runs a C0 control code.
func (p *Parser) execute(b byte) {
	switch b {
	case 0x07: // BEL
		if p.onBell != nil {
			p.onBell()
		}
	case 0x08: // BS
		p.grid.Backspace()
	case 0x09: // HT
		p.grid.Tab(1)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		p.grid.LineFeed()
	case 0x0D: // CR
		p.grid.CarriageReturn()
	case 0x0E: // SO
		p.grid.ShiftOut()
	case 0x0F: // SI
		p.grid.ShiftIn()
	case 0x18, 0x1A: // CAN, SUB
		p.state = stateGround
	case 0x1B: // ESC
		p.clearSequence()
		p.state = stateEscape
	}
}

func (p *Parser) clearSequence() {
	p.params = p.params[:0]
	p.inter = p.inter[:0]
	p.private = 0
}

func (p *Parser) processGround(b byte) {
	if p.utf8Len > 0 {
		p.processUTF8Continuation(b)
		return
	}

	switch {
	case b < 0x20:
		p.execute(b)
	case b < 0x7F: // Printable ASCII
		p.grid.Print(rune(b))
	case b == 0x7F: // DEL
	case b >= 0xC2 && b <= 0xDF:
		p.startUTF8(b, 2)
	case b >= 0xE0 && b <= 0xEF:
		p.startUTF8(b, 3)
	case b >= 0xF0 && b <= 0xF4:
		p.startUTF8(b, 4)
	default:
		// Stray continuation byte or a lead byte no valid encoding uses
		p.grid.Print(utf8.RuneError)
	}
}

func (p *Parser) startUTF8(b byte, n int) {
	p.utf8Buf[0] = b
	p.utf8Len = n
	p.utf8Have = 1
}

// processUTF8Continuation handles continuation bytes of a multi-byte UTF-8 sequence.
func (p *Parser) processUTF8Continuation(b byte) {
	if b&0xC0 != 0x80 {
		// Interrupted sequence: emit a replacement and reprocess the byte.
		p.utf8Len = 0
		p.utf8Have = 0
		p.grid.Print(utf8.RuneError)
		p.processByte(b)
		return
	}

	p.utf8Buf[p.utf8Have] = b
	p.utf8Have++
	if p.utf8Have < p.utf8Len {
		return
	}

	// DecodeRune rejects overlong forms and surrogates.
	r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
	p.utf8Len = 0
	p.utf8Have = 0
	p.grid.Print(r)
}

func (p *Parser) processEscape(b byte) {
	switch {
	case b == '[': // CSI
		p.state = stateCSIEntry
	case b == ']': // OSC
		p.osc = p.osc[:0]
		p.oscOverflow = false
		p.state = stateOSC
	case b == 'P', b == 'X', b == '^', b == '_': // DCS, SOS, PM, APC
		p.state = stateString
	case b >= 0x20 && b <= 0x2F: // Intermediate
		p.inter = append(p.inter, b)
		p.state = stateEscapeInter
	case b >= 0x30 && b <= 0x7E: // Final
		p.state = stateGround
		p.dispatchEscape(b)
	case b == 0x7F:
	default:
		p.state = stateGround
	}
}

func (p *Parser) processEscapeInter(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2F: // More intermediate
		if len(p.inter) < maxInter {
			p.inter = append(p.inter, b)
		}
	case b >= 0x30 && b <= 0x7E: // Final
		p.state = stateGround
		p.dispatchEscape(b)
	case b == 0x7F:
	default:
		p.state = stateGround
	}
}

func (p *Parser) processCSIEntry(b byte) {
	switch {
	case b >= 0x3C && b <= 0x3F: // Private marker
		p.private = b
		p.state = stateCSIParam
	default:
		p.state = stateCSIParam
		p.processCSIParam(b)
	}
}

func (p *Parser) processCSIParam(b byte) {
	switch {
	case b >= '0' && b <= '9', b == ';', b == ':':
		p.collectParam(b)
	case b >= 0x3C && b <= 0x3F: // Private marker out of place
		p.state = stateCSIIgnore
	case b >= 0x20 && b <= 0x2F: // Intermediate
		p.inter = append(p.inter, b)
		p.state = stateCSIInter
	case b >= 0x40 && b <= 0x7E: // Final
		p.state = stateGround
		p.dispatchCSI(b)
	}
}

func (p *Parser) processCSIInter(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2F: // More intermediate
		if len(p.inter) >= maxInter {
			p.state = stateCSIIgnore
			return
		}
		p.inter = append(p.inter, b)
	case b >= 0x30 && b <= 0x3F: // Parameter after intermediate
		p.state = stateCSIIgnore
	case b >= 0x40 && b <= 0x7E: // Final
		p.state = stateGround
		p.dispatchCSI(b)
	}
}

// processCSIIgnore consumes a discarded sequence up to its final byte.
func (p *Parser) processCSIIgnore(b byte) {
	if b >= 0x40 && b <= 0x7E {
		p.state = stateGround
		if p.onUnknown != nil {
			p.onUnknown("CSI (discarded) " + string(b))
		}
	}
}

// collectParam accumulates a parameter byte. Sequences with too many
// parameters or sub-parameters are sent to the ignore state.
func (p *Parser) collectParam(b byte) {
	if len(p.params) == 0 {
		p.params = append(p.params, param{})
	}
	cur := &p.params[len(p.params)-1]

	switch b {
	case ';':
		if len(p.params) >= p.maxParams {
			p.state = stateCSIIgnore
			return
		}
		p.params = append(p.params, param{})
	case ':':
		if cur.nsub >= maxSubParams {
			p.state = stateCSIIgnore
			return
		}
		cur.sub[cur.nsub] = 0
		cur.nsub++
	default:
		v := &cur.value
		if cur.nsub > 0 {
			v = &cur.sub[cur.nsub-1]
		}
		*v = min(*v*10+int(b-'0'), maxParamValue)
	}
}

func (p *Parser) processOSC(b byte) {
	switch {
	case b == 0x07: // BEL terminates OSC
		p.state = stateGround
		p.dispatchOSC()
	case b == 0x1B: // ESC starts ST
		p.dispatchOSC()
		p.clearSequence()
		p.state = stateEscape
	case b == 0x18, b == 0x1A:
		p.state = stateGround
	case b < 0x20:
	default:
		if len(p.osc) >= p.maxString {
			p.oscOverflow = true
			return
		}
		p.osc = append(p.osc, b)
	}
}

// processString consumes a control string until ST.
func (p *Parser) processString(b byte) {
	switch b {
	case 0x1B:
		p.clearSequence()
		p.state = stateEscape
	case 0x18, 0x1A:
		p.state = stateGround
	}
}

func (p *Parser) dispatchEscape(final byte) {
	if len(p.inter) == 0 {
		switch final {
		case '7': // DECSC
			p.grid.SaveCursor()
		case '8': // DECRC
			p.grid.RestoreCursor()
		case 'D': // IND
			p.grid.Index()
		case 'E': // NEL
			p.grid.CarriageReturn()
			p.grid.Index()
		case 'M': // RI
			p.grid.ReverseIndex()
		case 'H': // HTS
			p.grid.SetTabStop()
		case 'c': // RIS
			p.grid.Reset()
		case '\\': // ST
		case '=', '>': // Keypad modes only affect input encoding
		default:
			p.unknown("ESC", final)
		}
		return
	}

	switch p.inter[0] {
	case '#':
		if final == '8' { // DECALN
			p.grid.AlignmentTest()
			return
		}
	case '(': // Designate G0
		p.grid.Designate(0, charsetByDesignator(final))
		return
	case ')': // Designate G1
		p.grid.Designate(1, charsetByDesignator(final))
		return
	}
	p.unknown("ESC", final)
}

func (p *Parser) dispatchCSI(final byte) {
	if p.private != 0 {
		if p.private == '?' && len(p.inter) == 0 && (final == 'h' || final == 'l') {
			p.setPrivateModes(final == 'h')
			return
		}
		// DA2/DA3 and friends expect replies, which are never produced.
		if final != 'c' && final != 'n' {
			p.unknown("CSI", final)
		}
		return
	}

	if len(p.inter) > 0 {
		if p.inter[0] == ' ' && final == 'q' { // DECSCUSR
			switch p.param(0, 1) {
			case 1, 2:
				p.grid.SetCursorStyle(CursorBlock)
			case 3, 4:
				p.grid.SetCursorStyle(CursorUnderline)
			case 5, 6:
				p.grid.SetCursorStyle(CursorBar)
			}
			return
		}
		p.unknown("CSI", final)
		return
	}

	g := p.grid
	switch final {
	case '@': // ICH
		g.InsertChars(p.param(0, 1))
	case 'A': // CUU
		g.MoveCursorRelative(-p.param(0, 1), 0)
	case 'B': // CUD
		g.MoveCursorRelative(p.param(0, 1), 0)
	case 'C': // CUF
		g.MoveCursorRelative(0, p.param(0, 1))
	case 'D': // CUB
		g.MoveCursorRelative(0, -p.param(0, 1))
	case 'E': // CNL
		g.MoveCursorRelative(p.param(0, 1), 0)
		g.CarriageReturn()
	case 'F': // CPL
		g.MoveCursorRelative(-p.param(0, 1), 0)
		g.CarriageReturn()
	case 'G', '`': // CHA, HPA
		g.SetColumn(p.param(0, 1) - 1)
	case 'a': // HPR
		g.MoveCursorRelative(0, p.param(0, 1))
	case 'H', 'f': // CUP, HVP
		g.SetCursor(p.param(0, 1)-1, p.param(1, 1)-1)
	case 'I': // CHT
		g.Tab(p.param(0, 1))
	case 'J': // ED
		switch p.param(0, 0) {
		case 0:
			g.EraseDisplay(EraseToEnd)
		case 1:
			g.EraseDisplay(EraseToStart)
		case 2:
			g.EraseDisplay(EraseAll)
		case 3:
			// Scrollback is not kept.
		}
	case 'K': // EL
		switch p.param(0, 0) {
		case 0:
			g.EraseLine(EraseToEnd)
		case 1:
			g.EraseLine(EraseToStart)
		case 2:
			g.EraseLine(EraseAll)
		}
	case 'L': // IL
		g.InsertLines(p.param(0, 1))
	case 'M': // DL
		g.DeleteLines(p.param(0, 1))
	case 'P': // DCH
		g.DeleteChars(p.param(0, 1))
	case 'S': // SU
		g.ScrollUp(p.param(0, 1))
	case 'T': // SD
		g.ScrollDown(p.param(0, 1))
	case 'X': // ECH
		g.EraseChars(p.param(0, 1))
	case 'Z': // CBT
		g.BackTab(p.param(0, 1))
	case 'b': // REP
		g.Repeat(p.param(0, 1))
	case 'd': // VPA
		g.SetRow(p.param(0, 1) - 1)
	case 'e': // VPR
		g.MoveCursorRelative(p.param(0, 1), 0)
	case 'g': // TBC
		switch p.param(0, 0) {
		case 0:
			g.ClearTabStop(false)
		case 3:
			g.ClearTabStop(true)
		}
	case 'h': // SM
		p.setModes(true)
	case 'l': // RM
		p.setModes(false)
	case 'm': // SGR
		p.selectGraphicRendition()
	case 'r': // DECSTBM
		lines, _ := g.Size()
		g.SetScrollRegion(p.param(0, 1)-1, p.param(1, lines)-1)
	case 's': // SCOSC
		g.SaveCursor()
	case 'u': // SCORC
		g.RestoreCursor()
	case 'c', 'n': // DA, DSR: replies are not produced
	default:
		p.unknown("CSI", final)
	}
}

func (p *Parser) setModes(set bool) {
	for _, prm := range p.params {
		switch prm.value {
		case 4: // IRM
			p.grid.SetMode(ModeInsert, set)
		case 20: // LNM
			p.grid.SetMode(ModeNewline, set)
		}
	}
}

func (p *Parser) setPrivateModes(set bool) {
	for _, prm := range p.params {
		switch prm.value {
		case 6: // DECOM
			p.grid.SetMode(ModeOrigin, set)
		case 7: // DECAWM
			p.grid.SetMode(ModeAutoWrap, set)
		case 25: // DECTCEM
			p.grid.SetMode(ModeCursorVisible, set)
		case 47:
			p.grid.SetMode(ModeAltScreen, set)
		case 1047:
			p.grid.SetMode(ModeAltScreenClear, set)
		case 1049:
			p.grid.SetMode(ModeAltScreenSave, set)
		}
	}
}

func (p *Parser) dispatchOSC() {
	if p.oscOverflow {
		p.oscOverflow = false
		if p.onUnknown != nil {
			p.onUnknown("OSC (overflow)")
		}
		return
	}

	cmd, value, _ := strings.Cut(string(p.osc), ";")
	n, err := strconv.Atoi(cmd)
	if err != nil {
		if p.onUnknown != nil {
			p.onUnknown("OSC " + cmd)
		}
		return
	}

	switch n {
	case 0, 2: // Set icon name and window title, set window title
		if p.onTitle != nil {
			p.onTitle(strings.ToValidUTF8(value, "\uFFFD"))
		}
	case 1: // Set icon name
	default:
		if p.onUnknown != nil {
			p.onUnknown("OSC " + cmd)
		}
	}
}

// param returns parameter index, or defaultValue when it is absent or zero.
func (p *Parser) param(index, defaultValue int) int {
	if index < len(p.params) && p.params[index].value > 0 {
		return p.params[index].value
	}
	return defaultValue
}

func (p *Parser) unknown(kind string, final byte) {
	if p.onUnknown == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(kind)
	sb.WriteByte(' ')
	if p.private != 0 {
		sb.WriteByte(p.private)
	}
	sb.WriteString(formatParams(p.params))
	sb.Write(p.inter)
	sb.WriteByte(final)
	p.onUnknown(sb.String())
}

func formatParams(params []param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, prm := range params {
		s := strconv.Itoa(prm.value)
		for _, sub := range prm.sub[:prm.nsub] {
			s += ":" + strconv.Itoa(sub)
		}
		parts[i] = s
	}
	return strings.Join(parts, ";")
}
