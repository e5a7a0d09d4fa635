// Package terminal implements a headless terminal emulation core.
//
// A Session consumes the raw byte stream a program writes to its
// pseudo-terminal and keeps an in-memory model of a fixed-size character
// grid. It interprets C0 controls, ESC, CSI and OSC sequences and reports
// which cells changed since the last poll so a renderer only redraws what
// is necessary.
//
// # Architecture
//
// The package is organized around these types:
//
//   - Cell: one grid position (rune plus encoded foreground/background)
//   - Grid: the cells, cursor, pen, scroll region, tab stops and modes
//   - Parser: the byte-at-a-time escape sequence state machine
//   - Session: one Grid, one Parser and one dirty set with a lifecycle
//
// Dirty coordinates are tracked by the dirty subpackage.
//
// # Usage
//
//	s, err := terminal.New(terminal.Options{Lines: 24, Columns: 80})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Destroy()
//
//	s.Feed([]byte("\x1b[1;31mhello\x1b[0m"))
//	changes, _ := s.PollChanges()
//	for _, ch := range changes {
//	    // redraw ch.Row, ch.Col with ch.Cell
//	}
//
// # Supported sequences
//
//   - Cursor movement: CUU, CUD, CUF, CUB, CNL, CPL, CHA, HPA, HPR, CUP, VPA, VPR
//   - Editing: ICH, DCH, ECH, IL, DL, ED, EL, REP, SU, SD
//   - Tabs: HT, HTS, TBC, CHT, CBT
//   - Modes: IRM, LNM, DECOM, DECAWM, DECTCEM, alternate screen (47, 1047, 1049)
//   - SGR with 16, 256 and true colors (true colors map to the nearest palette entry)
//   - OSC 0 and 2 window title
//   - DEC special graphics character set
//
// Anything else is discarded without touching the grid.
//
// # Thread Safety
//
// A Session is not safe for concurrent use. Callers that feed from one
// goroutine and poll from another must serialize access themselves.
package terminal
