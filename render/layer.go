package render

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Priority determines draw order. Lower values draw first
type Priority int

const (
	PriorityTrack Priority = iota
	PriorityGate
	PriorityVehicle
	PriorityHUD
	PriorityOverlay
	PriorityPrompt
	PriorityDebug
)

// Context is the per-draw state shared by layers
type Context struct {
	Frame  *Frame
	View   View
	Theme  Theme
	raster *raster
}

// Layer is one stage of the draw pipeline
type Layer interface {
	Draw(ctx *Context, buf *Buffer)
}

// VisibilityToggle is optionally implemented to skip a layer for a frame
type VisibilityToggle interface {
	Visible(ctx *Context) bool
}

// panel draws lines in a padded box with its top-left at x, y and returns the box size
func panel(buf *Buffer, x, y int, lines []string, style tcell.Style) (int, int) {
	width := 0
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}
	w, h := width+2, len(lines)
	buf.Fill(x, y, w, h, ' ', style)
	for i, l := range lines {
		buf.SetString(x+1, y+i, l, style)
	}
	return w, h
}

// centered draws lines as a panel in the middle of the buffer and returns its top-left
func centered(buf *Buffer, lines []string, style tcell.Style) (int, int) {
	width := 0
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}
	bw, bh := buf.Size()
	x := max((bw-width-2)/2, 0)
	y := max((bh-len(lines))/2, 0)
	panel(buf, x, y, lines, style)
	return x, y
}
