// Package replay feeds captured terminal output into a writer, typically a
// terminal.Session or a renderer.Viewer.
//
// A Player splits its input into fixed-size chunks and can pause between
// them, which makes split escape sequences and incremental repaint easy to
// watch. Follow tails a capture file as it grows, waking on fsnotify write
// events.
package replay
