package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/track"
)

var (
	styleRoad     = tcell.StyleDefault.Background(RgbRoad).Foreground(RgbRoadMark)
	styleGrass    = tcell.StyleDefault.Background(RgbGrass).Foreground(RgbGrassDark)
	styleGate     = tcell.StyleDefault.Background(RgbRoad).Foreground(RgbCheckpoint)
	styleFinish   = tcell.StyleDefault.Background(RgbRoad).Foreground(RgbFinish)
	styleNextGate = tcell.StyleDefault.Background(RgbRoad).Foreground(RgbNextGate).Bold(true)
)

// raster is the static track picture in world-aligned cells
// Built once per track and scale, then only sampled
type raster struct {
	track  *track.Track
	scale  float64
	maxX   float64
	maxZ   float64
	cols   int
	rows   int
	cells  []Cell
	ground []track.Surface
}

func newRaster(t *track.Track, scale float64) *raster {
	layout := t.Layout()
	halfW := layout.RoadWidth/2 + layout.GrassWidth
	halfL := layout.RoadLength / 2
	cs := scale / CellAspect

	r := &raster{
		track: t,
		scale: scale,
		maxX:  halfW,
		maxZ:  halfL,
		cols:  int(math.Ceil(2 * halfW / cs)),
		rows:  int(math.Ceil(2 * halfL / scale)),
	}
	r.cells = make([]Cell, r.cols*r.rows)
	r.ground = make([]track.Surface, r.cols*r.rows)

	centerCol := int(math.Floor(r.maxX / cs))
	for j := 0; j < r.rows; j++ {
		z := r.maxZ - (float64(j)+0.5)*scale
		for i := 0; i < r.cols; i++ {
			x := r.maxX - (float64(i)+0.5)*cs
			idx := j*r.cols + i
			surface := t.Surface(mgl64.Vec3{x, 0, z})
			r.ground[idx] = surface
			switch surface {
			case track.SurfaceRoad:
				ch := ' '
				if i == centerCol && j%2 == 0 {
					ch = '┊'
				}
				r.cells[idx] = Cell{Rune: ch, Style: styleRoad}
			case track.SurfaceGrass:
				r.cells[idx] = Cell{Rune: '░', Style: styleGrass}
			}
		}
	}

	finish := len(t.Checkpoints()) - 1
	for n, cp := range t.Checkpoints() {
		row, ok := r.row(cp.Z())
		if !ok {
			continue
		}
		ch, style := '═', styleGate
		if n == finish {
			ch, style = '▚', styleFinish
		}
		r.paintGate(row, cp, ch, style)
	}
	return r
}

// matches reports whether the raster was built for t at scale
func (r *raster) matches(t *track.Track, scale float64) bool {
	return r != nil && r.track == t && r.scale == scale
}

// row maps world z to a raster row, row j spans [maxZ-(j+1)*scale, maxZ-j*scale)
// so a gate at z lands in the row that samples z and the cell just beyond it
func (r *raster) row(z float64) (int, bool) {
	j := int(math.Ceil((r.maxZ-z)/r.scale)) - 1
	return j, j >= 0 && j < r.rows
}

func (r *raster) col(x float64) (int, bool) {
	i := int(math.Floor((r.maxX - x) / (r.scale / CellAspect)))
	return i, i >= 0 && i < r.cols
}

func (r *raster) paintGate(row int, cp mgl64.Vec3, ch rune, style tcell.Style) {
	half := r.track.Layout().RoadWidth / 2
	from, _ := r.col(cp.X() + half)
	to, _ := r.col(cp.X() - half)
	for i := max(from, 0); i <= min(to, r.cols-1); i++ {
		idx := row*r.cols + i
		if r.ground[idx] == track.SurfaceRoad {
			r.cells[idx] = Cell{Rune: ch, Style: style}
		}
	}
}

// at samples the raster at world x, z
func (r *raster) at(x, z float64) (Cell, bool) {
	i, okX := r.col(x)
	j, okZ := r.row(z)
	if !okX || !okZ {
		return Cell{}, false
	}
	idx := j*r.cols + i
	return r.cells[idx], r.ground[idx] != track.SurfaceOff
}
