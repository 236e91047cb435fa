package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/hud"
	"github.com/lixenwraith/vi-racer/race"
	"github.com/lixenwraith/vi-racer/status"
	"github.com/lixenwraith/vi-racer/track"
	"github.com/lixenwraith/vi-racer/vehicle"
)

// Menu is the vehicle selection view
type Menu struct {
	Presets []vehicle.Config
	Cursor  int
}

// Frame is everything drawn for one loop iteration
// Built by the session and consumed read-only by the renderer
type Frame struct {
	Number      int64
	Track       *track.Track
	HasVehicle  bool
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Color       vehicle.Color
	HUD         hud.Snapshot
	Menu        Menu
	Result      *hud.Result // Set once the race finished
	Notice      string      // Transient message line, e.g. share outcome
	QuitPending bool
	Debug       []status.Entry // Nil hides the debug overlay
}

// State returns the race phase shown by this frame
func (f *Frame) State() race.State {
	return f.HUD.Race.State
}
