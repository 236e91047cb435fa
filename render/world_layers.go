package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-racer/race"
	"github.com/lixenwraith/vi-racer/vmath"
)

// TrackLayer samples the static track raster under the camera
type TrackLayer struct{}

func (TrackLayer) Visible(ctx *Context) bool {
	return ctx.raster != nil
}

func (TrackLayer) Draw(ctx *Context, buf *Buffer) {
	w, h := buf.Size()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			x, z := ctx.View.Unproject(col, row)
			if c, ok := ctx.raster.at(x, z); ok {
				buf.Set(col, row, c.Rune, c.Style)
			}
		}
	}
}

// GateLayer highlights the checkpoint the race expects next
type GateLayer struct{}

func (GateLayer) Visible(ctx *Context) bool {
	s := ctx.Frame.State()
	return ctx.Frame.Track != nil && (s == race.Running || s == race.Paused)
}

func (GateLayer) Draw(ctx *Context, buf *Buffer) {
	t := ctx.Frame.Track
	cp := t.Checkpoint(ctx.Frame.HUD.Race.Checkpoint)
	half := t.Layout().RoadWidth / 2
	left, row := ctx.View.Project(cp.X()+half, cp.Z())
	right, _ := ctx.View.Project(cp.X()-half, cp.Z())
	for col := left; col <= right; col++ {
		buf.Set(col, row, '━', styleNextGate)
	}
}

// headingGlyphs indexed by octant, counter-clockwise from straight up the screen
var headingGlyphs = [8]rune{'↑', '↖', '←', '↙', '↓', '↘', '→', '↗'}

// HeadingGlyph returns the arrow for a yaw measured from +Z toward +X
// Screen left is +X, so positive yaw turns the arrow counter-clockwise
func HeadingGlyph(yaw float64) rune {
	oct := int(math.Round(yaw/(math.Pi/4))) % 8
	if oct < 0 {
		oct += 8
	}
	return headingGlyphs[oct]
}

// VehicleLayer draws the car glyph at its projected position
type VehicleLayer struct{}

func (VehicleLayer) Visible(ctx *Context) bool {
	return ctx.Frame.HasVehicle
}

func (VehicleLayer) Draw(ctx *Context, buf *Buffer) {
	f := ctx.Frame
	col, row := ctx.View.Project(f.Position.X(), f.Position.Z())
	bg := buf.Get(col, row).Style
	_, bgColor, _ := bg.Decompose()

	style := tcell.StyleDefault.Background(bgColor).Foreground(VehicleColor(f.Color)).Bold(true)
	glyph := HeadingGlyph(vmath.Heading(f.Orientation))
	if !f.HUD.Upright {
		glyph = '✖'
		style = style.Foreground(RgbCritical)
	}
	buf.Set(col, row, glyph, style)
}
