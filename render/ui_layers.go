package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-racer/hud"
	"github.com/lixenwraith/vi-racer/race"
	"github.com/lixenwraith/vi-racer/vehicle"
)

// HUDLayer draws the race panel in the top-left corner
type HUDLayer struct{}

func (HUDLayer) Visible(ctx *Context) bool {
	return ctx.Frame.State() != race.NotStarted
}

func (HUDLayer) Draw(ctx *Context, buf *Buffer) {
	s := ctx.Frame.HUD
	lines := s.Lines()
	_, h := panel(buf, 0, 0, lines, ctx.Theme.panel())

	// Recolor the fps row by grade
	_, level := hud.GradeFPS(s.FPS)
	buf.SetString(1, h-1, lines[len(lines)-1], ctx.Theme.panel().Foreground(FPSColor(level)))

	row := h
	if s.OffTrack {
		buf.SetString(1, row, " OFF TRACK ", tcell.StyleDefault.Background(RgbWarning).Foreground(RgbPanel))
		row++
	}
	if !s.Upright && ctx.Frame.HasVehicle {
		buf.SetString(1, row, " FLIPPED: R to respawn ", tcell.StyleDefault.Background(RgbCritical).Foreground(RgbText))
	}
}

// MenuLayer lists vehicle presets before the race
type MenuLayer struct{}

func (MenuLayer) Visible(ctx *Context) bool {
	return ctx.Frame.State() == race.NotStarted
}

func (MenuLayer) Draw(ctx *Context, buf *Buffer) {
	menu := ctx.Frame.Menu
	lines := []string{"VI-RACER", "", "Select vehicle", ""}
	for i, p := range menu.Presets {
		lines = append(lines, MenuEntry(i, p, menu.Presets))
	}
	lines = append(lines, "", "1-9 or ↑/↓ + Enter to start", "Esc to quit")

	x, y := centered(buf, lines, ctx.Theme.panel())
	buf.SetString(x+1, y, lines[0], ctx.Theme.title())
	for i := range menu.Presets {
		if i == menu.Cursor {
			buf.SetString(x+1, y+4+i, lines[4+i], ctx.Theme.selected())
		}
	}
}

// MenuEntry formats one preset row with stat bars relative to the strongest preset
func MenuEntry(i int, p vehicle.Config, all []vehicle.Config) string {
	var maxSpeed, maxAccel, maxHandling float64
	for _, c := range all {
		maxSpeed = max(maxSpeed, c.MaxSpeed)
		maxAccel = max(maxAccel, c.Acceleration)
		maxHandling = max(maxHandling, c.Handling)
	}
	return fmt.Sprintf("%d %-9s spd %s acc %s hnd %s", i+1, p.Name,
		vehicle.StatBar(p.MaxSpeed, maxSpeed),
		vehicle.StatBar(p.Acceleration, maxAccel),
		vehicle.StatBar(p.Handling, maxHandling))
}

// PauseLayer dims the frozen world with a pause panel
type PauseLayer struct{}

func (PauseLayer) Visible(ctx *Context) bool {
	return ctx.Frame.State() == race.Paused
}

func (PauseLayer) Draw(ctx *Context, buf *Buffer) {
	x, y := centered(buf, []string{"PAUSED", "", "P resume", "N restart", "Esc quit"}, ctx.Theme.panel())
	buf.SetString(x+1, y, "PAUSED", ctx.Theme.title())
}

// ResultsLayer shows the finish summary
type ResultsLayer struct{}

func (ResultsLayer) Visible(ctx *Context) bool {
	return ctx.Frame.State() == race.Finished && ctx.Frame.Result != nil
}

func (ResultsLayer) Draw(ctx *Context, buf *Buffer) {
	r := ctx.Frame.Result
	lines := append(r.ResultLines(), "", r.ShareText(), "", "X share  N race again  Esc quit")
	x, y := centered(buf, lines, ctx.Theme.panel())
	buf.SetString(x+1, y, lines[0], ctx.Theme.title())
}

// PromptLayer draws the bottom line: quit confirmation or the latest notice
type PromptLayer struct{}

func (PromptLayer) Visible(ctx *Context) bool {
	return ctx.Frame.QuitPending || ctx.Frame.Notice != ""
}

func (PromptLayer) Draw(ctx *Context, buf *Buffer) {
	w, h := buf.Size()
	text, style := ctx.Frame.Notice, ctx.Theme.dim()
	if ctx.Frame.QuitPending {
		text, style = "Quit race? Esc/Enter to confirm, any other key to continue", ctx.Theme.panel().Foreground(RgbWarning)
	}
	buf.Fill(0, h-1, w, 1, ' ', style)
	buf.SetString(1, h-1, text, style)
}

// DebugLayer lists status metrics along the right edge
type DebugLayer struct{}

func (DebugLayer) Visible(ctx *Context) bool {
	return ctx.Frame.Debug != nil
}

func (DebugLayer) Draw(ctx *Context, buf *Buffer) {
	lines := make([]string, 0, len(ctx.Frame.Debug))
	width := 0
	for _, e := range ctx.Frame.Debug {
		l := fmt.Sprintf("%-18s %s", e.Key, e.Value)
		lines = append(lines, l)
		width = max(width, len([]rune(l)))
	}
	w, _ := buf.Size()
	panel(buf, max(w-width-2, 0), 0, lines, ctx.Theme.dim())
}
