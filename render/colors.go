package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-racer/hud"
	"github.com/lixenwraith/vi-racer/vehicle"
)

// Palette
var (
	RgbBackground  = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbRoad        = tcell.NewRGBColor(51, 51, 51)    // Asphalt
	RgbRoadMark    = tcell.NewRGBColor(120, 120, 120) // Center line
	RgbGrass       = tcell.NewRGBColor(34, 139, 34)   // Grass verge
	RgbGrassDark   = tcell.NewRGBColor(20, 90, 20)
	RgbCheckpoint  = tcell.NewRGBColor(180, 180, 180)
	RgbNextGate    = tcell.NewRGBColor(255, 215, 0) // Gold for the expected checkpoint
	RgbFinish      = tcell.NewRGBColor(255, 255, 255)
	RgbText        = tcell.NewRGBColor(230, 230, 230)
	RgbTextDim     = tcell.NewRGBColor(140, 140, 140)
	RgbPanel       = tcell.NewRGBColor(15, 15, 22)
	RgbHighlightBg = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbWarning     = tcell.NewRGBColor(255, 165, 0)
	RgbCritical    = tcell.NewRGBColor(255, 60, 60)
	RgbGood        = tcell.NewRGBColor(80, 220, 80)
)

// StyleBackground fills cells no layer painted
var StyleBackground = tcell.StyleDefault.Background(RgbBackground).Foreground(RgbText)

// VehicleColor converts a preset color for the terminal
func VehicleColor(c vehicle.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// FPSColor maps the HUD fps grade to a color
func FPSColor(level hud.FPSLevel) tcell.Color {
	switch level {
	case hud.FPSCritical:
		return RgbCritical
	case hud.FPSWarning:
		return RgbWarning
	default:
		return RgbGood
	}
}
