package render

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-racer/hud"
	"github.com/lixenwraith/vi-racer/quality"
	"github.com/lixenwraith/vi-racer/race"
	"github.com/lixenwraith/vi-racer/status"
	"github.com/lixenwraith/vi-racer/track"
	"github.com/lixenwraith/vi-racer/vehicle"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func screenText(s tcell.Screen) string {
	_, h := s.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = rowText(s, y)
	}
	return strings.Join(rows, "\n")
}

func racingFrame(tr *track.Track, pos mgl64.Vec3) Frame {
	return Frame{
		Track:       tr,
		HasVehicle:  true,
		Position:    pos,
		Orientation: mgl64.QuatIdent(),
		Color:       vehicle.Sport.Color,
		HUD: hud.Snapshot{
			Race: race.Snapshot{
				State:           race.Running,
				Lap:             1,
				TotalLaps:       3,
				CheckpointCount: tr.Len(),
				LapTime:         1234 * time.Millisecond,
			},
			FPS:     60,
			Tier:    quality.High,
			Upright: true,
		},
	}
}

func TestHeadingGlyph(t *testing.T) {
	assert.Equal(t, '↑', HeadingGlyph(0))
	assert.Equal(t, '←', HeadingGlyph(math.Pi/2))
	assert.Equal(t, '→', HeadingGlyph(-math.Pi/2))
	assert.Equal(t, '↓', HeadingGlyph(math.Pi))
	assert.Equal(t, '↓', HeadingGlyph(-math.Pi))
	assert.Equal(t, '↖', HeadingGlyph(math.Pi/4))
}

func TestViewProjection(t *testing.T) {
	v := View{Scale: 1, CenterX: 0, CenterZ: 10, Width: 80, Height: 24}

	col, row := v.Project(0, 10)
	assert.Equal(t, 40, col)
	assert.Equal(t, 12, row)

	// +Z is up the screen, +X to the left
	_, up := v.Project(0, 15)
	assert.Less(t, up, row)
	left, _ := v.Project(5, 10)
	assert.Less(t, left, col)

	x, z := v.Unproject(col, row)
	c2, r2 := v.Project(x, z)
	assert.Equal(t, col, c2)
	assert.Equal(t, row, r2)
}

func TestBufferClipsAndClears(t *testing.T) {
	b := NewBuffer(4, 2)
	b.Set(-1, 0, 'x', DefaultTheme().panel())
	b.Set(4, 1, 'x', DefaultTheme().panel())
	end := b.SetString(2, 0, "abc", DefaultTheme().panel())
	assert.Equal(t, 5, end)
	assert.Equal(t, 'a', b.Get(2, 0).Rune)
	assert.Equal(t, 'b', b.Get(3, 0).Rune)

	b.Clear()
	assert.Equal(t, ' ', b.Get(2, 0).Rune)
	assert.Equal(t, ' ', b.Get(99, 99).Rune)
}

func TestRasterSurfaces(t *testing.T) {
	tr := track.Default()
	r := newRaster(tr, 1.0)

	c, ok := r.at(3, 10)
	require.True(t, ok)
	assert.Equal(t, ' ', c.Rune, "road")

	c, ok = r.at(20, 10)
	require.True(t, ok)
	assert.Equal(t, '░', c.Rune, "grass")

	_, ok = r.at(100, 10)
	assert.False(t, ok, "off track")

	c, ok = r.at(3, 0.5)
	require.True(t, ok)
	assert.Equal(t, '═', c.Rune, "middle checkpoint gate")

	c, ok = r.at(3, 0)
	require.True(t, ok)
	assert.Equal(t, '═', c.Rune, "gate row includes the gate z")

	c, ok = r.at(3, -0.5)
	require.True(t, ok)
	assert.NotEqual(t, '═', c.Rune, "row before the gate is plain road")

	c, ok = r.at(3, 40.5)
	require.True(t, ok)
	assert.Equal(t, '▚', c.Rune, "finish line")

	assert.True(t, r.matches(tr, 1.0))
	assert.False(t, r.matches(tr, 1.5))
	assert.False(t, r.matches(track.Default(), 1.0))
}

func TestDrawRaceHUD(t *testing.T) {
	s := newScreen(t, 80, 24)
	term := NewTerminal(s, nil)
	tr := track.Default()

	term.Draw(racingFrame(tr, mgl64.Vec3{0, 0.6, -20}))

	assert.Contains(t, rowText(s, 0), "Lap 1 / 3")
	assert.Contains(t, rowText(s, 2), "00:01.234")

	r, _, _, _ := s.GetContent(40, 12)
	assert.Equal(t, '↑', r, "vehicle drawn at screen center")
}

func TestDrawFlippedVehicle(t *testing.T) {
	s := newScreen(t, 80, 24)
	term := NewTerminal(s, nil)
	f := racingFrame(track.Default(), mgl64.Vec3{0, 0.6, -20})
	f.HUD.Upright = false

	term.Draw(f)

	r, _, _, _ := s.GetContent(40, 12)
	assert.Equal(t, '✖', r)
	assert.Contains(t, screenText(s), "FLIPPED")
}

func TestDrawMenu(t *testing.T) {
	s := newScreen(t, 80, 24)
	term := NewTerminal(s, nil)

	term.Draw(Frame{
		Track: track.Default(),
		Menu:  Menu{Presets: vehicle.Presets(), Cursor: 1},
	})

	text := screenText(s)
	assert.Contains(t, text, "VI-RACER")
	assert.Contains(t, text, "1 Sport")
	assert.Contains(t, text, "2 Balanced")
	assert.Contains(t, text, "3 Heavy")
	assert.NotContains(t, text, "Lap 1", "no HUD before the race")
}

func TestMenuEntryBars(t *testing.T) {
	all := vehicle.Presets()
	line := MenuEntry(0, vehicle.Sport, all)
	assert.Contains(t, line, "spd █████")
	line = MenuEntry(2, vehicle.Heavy, all)
	assert.Contains(t, line, "hnd █████")
}

func TestDrawOverlays(t *testing.T) {
	tr := track.Default()

	t.Run("paused", func(t *testing.T) {
		s := newScreen(t, 80, 24)
		term := NewTerminal(s, nil)
		f := racingFrame(tr, mgl64.Vec3{0, 0.6, 0})
		f.HUD.Race.State = race.Paused
		term.Draw(f)
		assert.Contains(t, screenText(s), "PAUSED")
	})

	t.Run("results", func(t *testing.T) {
		s := newScreen(t, 80, 24)
		term := NewTerminal(s, nil)
		f := racingFrame(tr, mgl64.Vec3{0, 0.6, 40})
		f.HUD.Race.State = race.Finished
		f.Result = &hud.Result{Player: "Alex", Total: 61234 * time.Millisecond, Best: 20 * time.Second}
		f.Notice = "Result shared"
		term.Draw(f)

		text := screenText(s)
		assert.Contains(t, text, "FINISH")
		assert.Contains(t, text, "01:01.234")
		assert.Contains(t, text, "Alex finished the race in 61.23 seconds")
		assert.Contains(t, rowText(s, 23), "Result shared")
	})

	t.Run("quit prompt", func(t *testing.T) {
		s := newScreen(t, 80, 24)
		term := NewTerminal(s, nil)
		f := racingFrame(tr, mgl64.Vec3{0, 0.6, 0})
		f.QuitPending = true
		term.Draw(f)
		assert.Contains(t, rowText(s, 23), "Quit race?")
	})

	t.Run("debug", func(t *testing.T) {
		s := newScreen(t, 80, 24)
		term := NewTerminal(s, nil)
		f := racingFrame(tr, mgl64.Vec3{0, 0.6, 0})
		f.Debug = []status.Entry{{Key: status.KeyFPS, Value: "59.90"}}
		term.Draw(f)
		assert.Contains(t, rowText(s, 0), "render.fps")
		assert.Contains(t, rowText(s, 0), "59.90")
	})
}

func TestIncrementalDraw(t *testing.T) {
	s := newScreen(t, 80, 24)
	term := NewTerminal(s, nil)
	term.ApplySettings(quality.Settings{ResolutionScale: 1.0})
	tr := track.Default()
	f := racingFrame(tr, mgl64.Vec3{0, 0.6, -20})

	term.Draw(f)
	assert.Equal(t, 80*24, term.Written(), "first frame after settings change is full")

	term.Draw(f)
	assert.Zero(t, term.Written(), "identical frame writes nothing")

	f.HUD.Race.LapTime += time.Second
	term.Draw(f)
	assert.Positive(t, term.Written())
	assert.Less(t, term.Written(), 80*24)
}

func TestAutoClearDrawsEverything(t *testing.T) {
	s := newScreen(t, 40, 12)
	term := NewTerminal(s, nil)
	f := racingFrame(track.Default(), mgl64.Vec3{0, 0.6, -20})

	term.Draw(f)
	term.Draw(f)
	assert.Equal(t, 40*12, term.Written())
}

func TestApplySettingsRescales(t *testing.T) {
	s := newScreen(t, 80, 24)
	term := NewTerminal(s, nil)
	tr := track.Default()

	term.Draw(racingFrame(tr, mgl64.Vec3{0, 0.6, 0}))
	require.NotNil(t, term.raster)
	assert.Equal(t, 1.0, term.raster.scale)

	term.ApplySettings(quality.SettingsFor(quality.Low))
	assert.Equal(t, 1.5, term.Settings().ResolutionScale)

	term.Draw(racingFrame(tr, mgl64.Vec3{0, 0.6, 0}))
	assert.Equal(t, 1.5, term.raster.scale, "raster rebuilt once for the new scale")
}

func TestResizeFollowsScreen(t *testing.T) {
	s := newScreen(t, 80, 24)
	term := NewTerminal(s, nil)
	f := racingFrame(track.Default(), mgl64.Vec3{0, 0.6, 0})
	term.Draw(f)

	s.SetSize(100, 30)
	term.Resize()
	term.Draw(f)

	w, h := term.buf.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 30, h)
	r, _, _, _ := s.GetContent(50, 15)
	assert.Equal(t, '↑', r)
}

func TestThemeWith(t *testing.T) {
	def := DefaultTheme()
	th := def.With(ThemeColors{Background: "#17212b", Link: "#6ab2f2", Text: "white", Hint: "#zzzzzz"})

	assert.Equal(t, tcell.NewRGBColor(0x17, 0x21, 0x2b), th.Panel)
	assert.Equal(t, tcell.NewRGBColor(0x6a, 0xb2, 0xf2), th.Accent)
	assert.Equal(t, def.Text, th.Text, "named colors are not hex")
	assert.Equal(t, def.Hint, th.Hint, "malformed hex keeps the default")
	assert.Equal(t, def.Button, th.Button, "empty keeps the default")
}

func TestSetThemeRecolorsPanels(t *testing.T) {
	s := newScreen(t, 80, 24)
	term := NewTerminal(s, nil)
	th := DefaultTheme().With(ThemeColors{Background: "#17212b"})
	term.SetTheme(th)
	assert.Equal(t, th, term.Theme())

	term.Draw(racingFrame(track.Default(), mgl64.Vec3{0, 0.6, -20}))

	_, _, style, _ := s.GetContent(0, 0)
	_, bg, _ := style.Decompose()
	assert.Equal(t, th.Panel, bg, "HUD panel uses the host background")
}
