// Package dirty tracks which grid coordinates changed since the last collection.
package dirty

import (
	"slices"
)

// Point is a grid coordinate.
type Point struct {
	Row int
	Col int
}

// Tracker records dirty cells of a fixed-size grid.
//
// Marks are deduplicated with a bitset and remembered in insertion order;
// Drain sorts them into row-major order. A full redraw short-circuits all
// per-cell bookkeeping until the next Drain.
type Tracker struct {
	lines int
	cols  int

	// bits has one bit per cell, indexed row*cols+col.
	bits []uint64

	// marked lists the indices whose bit is set.
	marked []int

	// fullRedraw indicates every cell is dirty.
	fullRedraw bool
}

// NewTracker creates a tracker for a lines x cols grid.
// Negative dimensions are treated as zero.
func NewTracker(lines, cols int) *Tracker {
	if lines < 0 {
		lines = 0
	}
	if cols < 0 {
		cols = 0
	}
	n := lines * cols
	return &Tracker{
		lines:  lines,
		cols:   cols,
		bits:   make([]uint64, (n+63)/64),
		marked: make([]int, 0, 64),
	}
}

// Mark marks a single cell as dirty. Out of range coordinates are ignored.
func (t *Tracker) Mark(row, col int) {
	if t.fullRedraw {
		return
	}
	if row < 0 || row >= t.lines || col < 0 || col >= t.cols {
		return
	}
	t.set(row*t.cols + col)
}

// MarkSpan marks the cells [from, to) of a row.
func (t *Tracker) MarkSpan(row, from, to int) {
	if t.fullRedraw || row < 0 || row >= t.lines {
		return
	}
	if from < 0 {
		from = 0
	}
	if to > t.cols {
		to = t.cols
	}
	base := row * t.cols
	for col := from; col < to; col++ {
		t.set(base + col)
	}
}

// MarkAll marks the entire grid as needing redraw.
func (t *Tracker) MarkAll() {
	if t.fullRedraw {
		return
	}
	t.fullRedraw = true
	t.reset()
}

func (t *Tracker) set(idx int) {
	word, bit := idx/64, uint64(1)<<(idx%64)
	if t.bits[word]&bit != 0 {
		return
	}
	t.bits[word] |= bit
	t.marked = append(t.marked, idx)
}

// IsMarked returns true if the cell is dirty.
func (t *Tracker) IsMarked(row, col int) bool {
	if row < 0 || row >= t.lines || col < 0 || col >= t.cols {
		return false
	}
	if t.fullRedraw {
		return true
	}
	idx := row*t.cols + col
	return t.bits[idx/64]&(uint64(1)<<(idx%64)) != 0
}

// IsDirty returns true if any cell is marked.
func (t *Tracker) IsDirty() bool {
	return t.fullRedraw || len(t.marked) > 0
}

// NeedsFullRedraw returns true if every cell is dirty.
func (t *Tracker) NeedsFullRedraw() bool {
	return t.fullRedraw
}

// Len returns the number of dirty cells.
func (t *Tracker) Len() int {
	if t.fullRedraw {
		return t.lines * t.cols
	}
	return len(t.marked)
}

// Drain returns every dirty coordinate in row-major order and clears the tracker.
func (t *Tracker) Drain() []Point {
	if t.fullRedraw {
		points := make([]Point, 0, t.lines*t.cols)
		for row := 0; row < t.lines; row++ {
			for col := 0; col < t.cols; col++ {
				points = append(points, Point{Row: row, Col: col})
			}
		}
		t.fullRedraw = false
		return points
	}

	if len(t.marked) == 0 {
		return nil
	}

	slices.Sort(t.marked)
	points := make([]Point, len(t.marked))
	for i, idx := range t.marked {
		points[i] = Point{Row: idx / t.cols, Col: idx % t.cols}
	}
	t.reset()
	return points
}

// Clear discards all marks.
func (t *Tracker) Clear() {
	t.fullRedraw = false
	t.reset()
}

func (t *Tracker) reset() {
	for _, idx := range t.marked {
		t.bits[idx/64] = 0
	}
	t.marked = t.marked[:0]
}
