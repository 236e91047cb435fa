package render

import (
	"math"
)

// CellAspect is how many times taller a terminal cell is than it is wide
const CellAspect = 2.0

// View projects the XZ ground plane onto the terminal
// +Z points up the screen, +X to the left, matching a camera above the track looking down
type View struct {
	Scale   float64 // World units per terminal row
	CenterX float64
	CenterZ float64
	Width   int
	Height  int
}

func (v View) colScale() float64 {
	return v.Scale / CellAspect
}

// Project returns the cell containing world point x, z
func (v View) Project(x, z float64) (col, row int) {
	col = v.Width/2 + int(math.Floor((v.CenterX-x)/v.colScale()))
	row = v.Height/2 + int(math.Floor((v.CenterZ-z)/v.Scale))
	return col, row
}

// Unproject returns the world point at the center of cell col, row
func (v View) Unproject(col, row int) (x, z float64) {
	x = v.CenterX - (float64(col-v.Width/2)+0.5)*v.colScale()
	z = v.CenterZ - (float64(row-v.Height/2)+0.5)*v.Scale
	return x, z
}
