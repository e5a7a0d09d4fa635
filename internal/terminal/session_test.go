package terminal

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func newTestSession(t *testing.T, lines, cols int) *Session {
	t.Helper()
	s, err := New(Options{Lines: lines, Columns: cols})
	if err != nil {
		t.Fatalf("New(%d, %d): %v", lines, cols, err)
	}
	return s
}

func mustPoll(t *testing.T, s *Session) []Change {
	t.Helper()
	changes, err := s.PollChanges()
	if err != nil {
		t.Fatalf("PollChanges: %v", err)
	}
	return changes
}

func TestNewInvalidSize(t *testing.T) {
	tests := []struct {
		name        string
		lines, cols int
		want        error
	}{
		{"zero lines", 0, 80, ErrInvalidSize},
		{"zero columns", 24, 0, ErrInvalidSize},
		{"negative", -1, -1, ErrInvalidSize},
		{"too large", MaxCells, 2, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(Options{Lines: tt.lines, Columns: tt.cols})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if s != nil {
				t.Error("failed New should not return a session")
			}
		})
	}
}

func TestNewSessionIsBlank(t *testing.T) {
	s := newTestSession(t, 3, 4)

	if changes := mustPoll(t, s); len(changes) != 0 {
		t.Errorf("new session reported %d changes", len(changes))
	}
	if s.ID() == "" {
		t.Error("session should have an ID")
	}
	c, err := s.Cell(2, 3)
	if err != nil {
		t.Fatalf("Cell: %v", err)
	}
	if c != EmptyCell() {
		t.Errorf("Cell = %+v, want blank", c)
	}
	if _, err := s.Cell(3, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Cell out of bounds error = %v", err)
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := newTestSession(t, 1, 1)
	b := newTestSession(t, 1, 1)

	if a.ID() == b.ID() {
		t.Errorf("sessions share ID %s", a.ID())
	}
}

func TestSessionHelloWorld(t *testing.T) {
	s := newTestSession(t, 1, 13)

	if err := s.Feed([]byte("Hello, World!")); err != nil {
		t.Fatalf("Feed: %v", err)
	}

	changes := mustPoll(t, s)
	if len(changes) != 13 {
		t.Fatalf("got %d changes, want 13", len(changes))
	}
	for i, ch := range changes {
		if ch.Row != 0 || ch.Col != i {
			t.Errorf("change %d at (%d,%d), want (0,%d)", i, ch.Row, ch.Col, i)
		}
		if want := rune("Hello, World!"[i]); ch.Cell.Rune != want {
			t.Errorf("change %d rune = %q, want %q", i, ch.Cell.Rune, want)
		}
		if ch.Cell.Fg != DefaultAttr || ch.Cell.Bg != DefaultAttr {
			t.Errorf("change %d attrs = (%#x,%#x), want default", i, ch.Cell.Fg, ch.Cell.Bg)
		}
	}

	if again := mustPoll(t, s); len(again) != 0 {
		t.Errorf("second poll returned %d changes, want 0", len(again))
	}
}

func TestSessionIdempotentPoll(t *testing.T) {
	s := newTestSession(t, 2, 2)

	s.Feed([]byte("x"))
	if first := mustPoll(t, s); len(first) == 0 {
		t.Error("first poll should report the write")
	}
	if second := mustPoll(t, s); len(second) != 0 {
		t.Errorf("second poll returned %d changes", len(second))
	}
}

func TestSessionOrdering(t *testing.T) {
	s := newTestSession(t, 3, 10)

	s.Feed([]byte("\x1b[3;1HZ\x1b[1;6HB\x1b[1;3HA"))

	changes := mustPoll(t, s)
	got := make([][2]int, len(changes))
	for i, ch := range changes {
		got[i] = [2]int{ch.Row, ch.Col}
	}
	want := [][2]int{{0, 2}, {0, 5}, {2, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSessionDuplicateMarksCollapse(t *testing.T) {
	s := newTestSession(t, 1, 5)

	s.Feed([]byte("a\rb\rc"))

	changes := mustPoll(t, s)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	if changes[0].Cell.Rune != 'c' {
		t.Errorf("rune = %q, want the latest value 'c'", changes[0].Cell.Rune)
	}
}

func TestSessionScrollSemantics(t *testing.T) {
	s := newTestSession(t, 2, 3)

	s.Feed([]byte("ab\r\ncd"))
	mustPoll(t, s)

	// One more line than fits pushes "ab" off the top.
	s.Feed([]byte("\r\n"))

	changes := mustPoll(t, s)
	if len(changes) != 6 {
		t.Fatalf("got %d changes, want every cell (6)", len(changes))
	}
	if got := s.Text(); got != "cd\n" {
		t.Errorf("text = %q, want %q", got, "cd\n")
	}
	for i, ch := range changes {
		if ch.Row != i/3 || ch.Col != i%3 {
			t.Errorf("change %d at (%d,%d), want (%d,%d)", i, ch.Row, ch.Col, i/3, i%3)
		}
	}
}

func TestSessionFillLastCellDoesNotScroll(t *testing.T) {
	s := newTestSession(t, 2, 3)

	s.Feed([]byte("abc\r\ndef"))

	changes := mustPoll(t, s)
	if len(changes) != 6 {
		t.Errorf("got %d changes, want 6", len(changes))
	}
	if got := s.Text(); got != "abc\ndef" {
		t.Errorf("text = %q, want %q", got, "abc\ndef")
	}
	if row, col := s.Cursor(); row != 1 || col != 2 {
		t.Errorf("cursor = (%d,%d), want (1,2)", row, col)
	}
}

func TestSessionUnknownSequenceTolerance(t *testing.T) {
	tests := []string{
		"\x1b[5~Hi",
		"\x1b[" + strings.Repeat("1;", 1000) + "mHi",
		"\x1b]0;title\x07Hi",
		"\x1b[12\x18Hi",
		"\x1b",
	}

	for _, in := range tests {
		s := newTestSession(t, 1, 4)
		s.Feed([]byte(in))
		if !strings.HasSuffix(in, "Hi") {
			s.Feed([]byte("[mHi"))
		}

		if got := s.Text(); got != "Hi" {
			t.Errorf("%q: text = %q, want %q", in, got, "Hi")
		}
		changes := mustPoll(t, s)
		if len(changes) != 2 {
			t.Errorf("%q: got %d changes, want 2", in, len(changes))
		}
	}
}

func TestSessionDeterminismUnderChunking(t *testing.T) {
	input := []byte("\x1b[2J\x1b[1;1H\x1b[1;38;2;10;200;30mstatus\x1b[0m\r\n" +
		"中文 \xe2\x94\x80\x1b]2;build\x07\x1b[?1049h\x1b[5;5Halt\x1b[?1049l" +
		"\x1b[3;4r\x1b[4;1H\n\n\x1b[r\x1b[44m\x1b[K\x1b[2@\x1bM" +
		strings.Repeat("wrap", 10) + "\x1b[38:5:33mé\x1b(0lqk\x1b(B")

	reference := newTestSession(t, 6, 12)
	reference.Feed(input)
	wantChanges := mustPoll(t, reference)
	wantText := reference.Text()
	wantRow, wantCol := reference.Cursor()

	check := func(name string, s *Session) {
		t.Helper()
		changes := mustPoll(t, s)
		if !reflect.DeepEqual(changes, wantChanges) {
			t.Errorf("%s: changes differ from single feed", name)
		}
		if got := s.Text(); got != wantText {
			t.Errorf("%s: text = %q, want %q", name, got, wantText)
		}
		if row, col := s.Cursor(); row != wantRow || col != wantCol {
			t.Errorf("%s: cursor = (%d,%d), want (%d,%d)", name, row, col, wantRow, wantCol)
		}
		if s.Title() != reference.Title() {
			t.Errorf("%s: title = %q, want %q", name, s.Title(), reference.Title())
		}
	}

	bytewise := newTestSession(t, 6, 12)
	for i := range input {
		bytewise.Feed(input[i : i+1])
	}
	check("bytewise", bytewise)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		s := newTestSession(t, 6, 12)
		rest := input
		for len(rest) > 0 {
			n := 1 + rng.Intn(7)
			if n > len(rest) {
				n = len(rest)
			}
			s.Feed(rest[:n])
			rest = rest[n:]
		}
		check("random chunks", s)
	}
}

func TestSessionBoundsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pieces := []string{
		"x", "中", "\r", "\n", "\b", "\t", "\x1b[99A", "\x1b[99B", "\x1b[99C",
		"\x1b[99D", "\x1b[200;200H", "\x1b[L", "\x1b[M", "\x1b[9@", "\x1b[9P",
		"\x1b[2;3r", "\x1b[r", "\x1bM", "\x1bD", "\x1b[?6h", "\x1b[?6l",
		"\x1b[?7l", "\x1b[?7h", "\x1b[?1049h", "\x1b[?1049l", "\x1b[5b",
		"\x1b[S", "\x1b[T", "\x1b7", "\x1b8", "\x1b[4h", "\x1b[4l", "\x1bc",
	}

	s := newTestSession(t, 4, 5)
	for i := 0; i < 2000; i++ {
		s.Feed([]byte(pieces[rng.Intn(len(pieces))]))
		row, col := s.Cursor()
		if row < 0 || row >= 4 || col < 0 || col >= 5 {
			t.Fatalf("step %d: cursor (%d,%d) out of bounds", i, row, col)
		}
	}

	for _, ch := range mustPoll(t, s) {
		if ch.Row < 0 || ch.Row >= 4 || ch.Col < 0 || ch.Col >= 5 {
			t.Fatalf("change outside grid: %+v", ch)
		}
	}
}

func TestSessionUpdate(t *testing.T) {
	s := newTestSession(t, 2, 4)

	changes, err := s.Update([]byte("ok"))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(changes) != 2 || changes[0].Cell.Rune != 'o' || changes[1].Cell.Rune != 'k' {
		t.Errorf("changes = %+v", changes)
	}
}

func TestSessionWriter(t *testing.T) {
	s := newTestSession(t, 2, 10)

	n, err := s.Write([]byte("written"))
	if err != nil || n != 7 {
		t.Errorf("Write = (%d, %v), want (7, nil)", n, err)
	}
	if got := s.Text(); got != "written\n" {
		t.Errorf("text = %q", got)
	}
}

func TestSessionDestroy(t *testing.T) {
	s := newTestSession(t, 2, 2)

	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if !s.Destroyed() {
		t.Error("Destroyed should report true")
	}

	if err := s.Destroy(); !errors.Is(err, ErrSessionDestroyed) {
		t.Errorf("second Destroy = %v, want ErrSessionDestroyed", err)
	}
	if err := s.Feed([]byte("x")); !errors.Is(err, ErrSessionDestroyed) {
		t.Errorf("Feed after Destroy = %v", err)
	}
	if _, err := s.PollChanges(); !errors.Is(err, ErrSessionDestroyed) {
		t.Errorf("PollChanges after Destroy = %v", err)
	}
	if _, err := s.Write([]byte("x")); !errors.Is(err, ErrSessionDestroyed) {
		t.Errorf("Write after Destroy = %v", err)
	}
	if _, err := s.Cell(0, 0); !errors.Is(err, ErrSessionDestroyed) {
		t.Errorf("Cell after Destroy = %v", err)
	}
	if lines, cols := s.Size(); lines != 0 || cols != 0 {
		t.Errorf("Size after Destroy = %dx%d", lines, cols)
	}
}

func TestSessionOptions(t *testing.T) {
	var title string
	bells := 0
	s, err := New(Options{
		Lines:           3,
		Columns:         10,
		TabWidth:        4,
		DisableAutoWrap: true,
		LinefeedNewline: true,
		OnTitle:         func(v string) { title = v },
		OnBell:          func() { bells++ },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.Feed([]byte("\tA\nB\x07\x1b]2;shell\x07"))

	if c, _ := s.Cell(0, 4); c.Rune != 'A' {
		t.Errorf("tab width 4: (0,4) = %q", c.Rune)
	}
	if c, _ := s.Cell(1, 0); c.Rune != 'B' {
		t.Errorf("linefeed newline: (1,0) = %q", c.Rune)
	}
	if title != "shell" || s.Title() != "shell" {
		t.Errorf("title = %q / %q, want shell", title, s.Title())
	}
	if bells != 1 {
		t.Errorf("bells = %d, want 1", bells)
	}

	s.Feed([]byte("\x1b[3;1H0123456789XY"))
	if got := s.Grid().LineText(2); got != "012345678Y" {
		t.Errorf("no autowrap: line = %q", got)
	}
}

func TestSessionLogsIgnoredSequences(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := New(Options{Lines: 1, Columns: 4, Logger: logger})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Feed([]byte("\x1b[5~"))

	out := buf.String()
	if !strings.Contains(out, "ignored sequence") {
		t.Errorf("log output missing ignored sequence: %s", out)
	}
	if !strings.Contains(out, "session="+s.ID()) {
		t.Errorf("log output missing session id: %s", out)
	}
}

func TestSessionCursorAccessors(t *testing.T) {
	s := newTestSession(t, 2, 2)

	s.Feed([]byte("\x1b[?25l\x1b[6 q"))

	if s.CursorVisible() {
		t.Error("cursor should be hidden")
	}
	if s.CursorStyle() != CursorBar {
		t.Errorf("style = %v, want bar", s.CursorStyle())
	}
}

func BenchmarkSessionUpdate(b *testing.B) {
	s, _ := New(Options{Lines: 24, Columns: 80})
	data := []byte(strings.Repeat("\x1b[32mok\x1b[0m line of output\r\n", 24))

	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		s.Update(data)
	}
}
