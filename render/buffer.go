package render

import (
	"github.com/gdamore/tcell/v2"
)

// Cell is one composited terminal cell
type Cell struct {
	Rune  rune
	Style tcell.Style
}

var blankCell = Cell{Rune: ' ', Style: StyleBackground}

// Buffer is a compositor over a flat cell array
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a cleared buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Size returns the buffer dimensions
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *Buffer) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to blank using exponential copy
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = blankCell
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes one cell, ignoring out-of-bounds coordinates
func (b *Buffer) Set(x, y int, r rune, style tcell.Style) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Style: style}
}

// Get returns the cell at x, y; out of bounds yields a blank cell
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return blankCell
	}
	return b.cells[y*b.width+x]
}

// SetString writes s left to right from x, clipping at the edge, and returns the end column
func (b *Buffer) SetString(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		b.Set(x, y, r, style)
		x++
	}
	return x
}

// Fill paints a rectangle with r
func (b *Buffer) Fill(x, y, w, h int, r rune, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			b.Set(col, row, r, style)
		}
	}
}

// CopyFrom makes b an exact copy of src
func (b *Buffer) CopyFrom(src *Buffer) {
	if b.width != src.width || b.height != src.height {
		b.Resize(src.width, src.height)
	}
	copy(b.cells, src.cells)
}

// Flush writes every cell to screen
func (b *Buffer) Flush(screen tcell.Screen) int {
	for i, c := range b.cells {
		screen.SetContent(i%b.width, i/b.width, c.Rune, nil, c.Style)
	}
	return len(b.cells)
}

// FlushDiff writes only the cells that differ from prev and returns how many were written
// prev must have the same dimensions
func (b *Buffer) FlushDiff(screen tcell.Screen, prev *Buffer) int {
	if prev == nil || prev.width != b.width || prev.height != b.height {
		return b.Flush(screen)
	}
	written := 0
	for i, c := range b.cells {
		if prev.cells[i] == c {
			continue
		}
		screen.SetContent(i%b.width, i/b.width, c.Rune, nil, c.Style)
		written++
	}
	return written
}
