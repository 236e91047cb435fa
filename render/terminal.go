package render

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-racer/quality"
)

type layerEntry struct {
	layer    Layer
	priority Priority
	index    int // registration order for stable sort
}

// Terminal draws frames onto a tcell screen through a prioritized layer pipeline
type Terminal struct {
	mu       sync.Mutex
	screen   tcell.Screen
	logger   *log.Logger
	buf      *Buffer
	shown    *Buffer // Last flushed frame, diffed against in incremental mode
	layers   []layerEntry
	regCount int
	settings quality.Settings
	theme    Theme
	raster   *raster
	full     bool // Force a full redraw on the next frame
	written  int
}

// NewTerminal creates a renderer with the default layer set and High tier settings
func NewTerminal(screen tcell.Screen, logger *log.Logger) *Terminal {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w, h := screen.Size()
	t := &Terminal{
		screen:   screen,
		logger:   logger.WithPrefix("render"),
		buf:      NewBuffer(w, h),
		shown:    NewBuffer(w, h),
		settings: quality.SettingsFor(quality.High),
		theme:    DefaultTheme(),
		full:     true,
	}
	t.Register(TrackLayer{}, PriorityTrack)
	t.Register(GateLayer{}, PriorityGate)
	t.Register(VehicleLayer{}, PriorityVehicle)
	t.Register(HUDLayer{}, PriorityHUD)
	t.Register(MenuLayer{}, PriorityOverlay)
	t.Register(PauseLayer{}, PriorityOverlay)
	t.Register(ResultsLayer{}, PriorityOverlay)
	t.Register(PromptLayer{}, PriorityPrompt)
	t.Register(DebugLayer{}, PriorityDebug)
	return t
}

// Register adds a layer at the specified priority. Maintains sorted order via insertion sort
func (t *Terminal) Register(l Layer, priority Priority) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := layerEntry{layer: l, priority: priority, index: t.regCount}
	t.regCount++

	pos := len(t.layers)
	for i, e := range t.layers {
		if priority < e.priority {
			pos = i
			break
		}
	}
	t.layers = append(t.layers, layerEntry{})
	copy(t.layers[pos+1:], t.layers[pos:])
	t.layers[pos] = entry
}

// ApplySettings switches the world scale and clear mode
func (t *Terminal) ApplySettings(s quality.Settings) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.ResolutionScale <= 0 {
		s.ResolutionScale = 1
	}
	t.settings = s
	t.full = true
	t.logger.Debug("settings applied", "scale", s.ResolutionScale, "auto_clear", s.AutoClear)
}

// SetTheme recolors the UI panels from the next frame
func (t *Terminal) SetTheme(th Theme) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.theme = th
	t.full = true
	t.logger.Debug("theme applied")
}

// Theme returns the active UI theme
func (t *Terminal) Theme() Theme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.theme
}

// Settings returns the active tier settings
func (t *Terminal) Settings() quality.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// Resize forces a full redraw at the new screen size
func (t *Terminal) Resize() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.full = true
	t.screen.Sync()
}

// Written returns the number of cells sent to the screen by the last Draw
func (t *Terminal) Written() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written
}

// Draw composites f and flushes it
// AutoClear repaints every cell; otherwise only cells that changed since the last frame are sent
func (t *Terminal) Draw(f Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	if bw, bh := t.buf.Size(); bw != w || bh != h {
		t.buf.Resize(w, h)
		t.full = true
	}

	if f.Track != nil && !t.raster.matches(f.Track, t.settings.ResolutionScale) {
		t.raster = newRaster(f.Track, t.settings.ResolutionScale)
		t.logger.Debug("track raster built", "cols", t.raster.cols, "rows", t.raster.rows)
	}

	ctx := &Context{Frame: &f, View: t.view(&f, w, h), Theme: t.theme}
	if f.Track != nil {
		ctx.raster = t.raster
	}

	t.buf.Clear()
	for _, e := range t.layers {
		if vt, ok := e.layer.(VisibilityToggle); ok && !vt.Visible(ctx) {
			continue
		}
		e.layer.Draw(ctx, t.buf)
	}

	if t.full || t.settings.AutoClear {
		t.screen.Clear()
		t.written = t.buf.Flush(t.screen)
		t.full = false
	} else {
		t.written = t.buf.FlushDiff(t.screen, t.shown)
	}
	t.shown.CopyFrom(t.buf)
	t.screen.Show()
}

// view centers the camera on the vehicle, or on the track before one spawns
func (t *Terminal) view(f *Frame, w, h int) View {
	v := View{Scale: t.settings.ResolutionScale, Width: w, Height: h}
	if f.HasVehicle {
		v.CenterX = f.Position.X()
		v.CenterZ = f.Position.Z()
	}
	return v
}
