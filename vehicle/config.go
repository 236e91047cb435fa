package vehicle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownPreset is returned when a preset name matches no configuration
var ErrUnknownPreset = errors.New("unknown vehicle preset")

// Color is an sRGB display color
type Color struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses #rrggbb or rrggbb
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Config is an immutable vehicle preset, selected once at race start
type Config struct {
	Name         string
	Mass         float64 // kg
	MaxSpeed     float64 // units/sec
	Acceleration float64 // units/sec² of thrust per unit mass
	Handling     float64 // yaw rate, rad/sec
	Color        Color
}

// Validate rejects presets the controller cannot drive
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return errors.New("vehicle preset: empty name")
	case c.Mass <= 0:
		return fmt.Errorf("vehicle %q: mass must be positive, got %v", c.Name, c.Mass)
	case c.MaxSpeed <= 0:
		return fmt.Errorf("vehicle %q: max speed must be positive, got %v", c.Name, c.MaxSpeed)
	case c.Acceleration < 0:
		return fmt.Errorf("vehicle %q: acceleration must not be negative, got %v", c.Name, c.Acceleration)
	case c.Handling < 0:
		return fmt.Errorf("vehicle %q: handling must not be negative, got %v", c.Name, c.Handling)
	}
	return nil
}

// BodyID returns the physics body key used for this preset
func (c Config) BodyID() string {
	return "car_" + strings.ToLower(strings.ReplaceAll(c.Name, " ", "_"))
}

// Built-in presets, ordered for menu selection
var (
	Sport = Config{
		Name:         "Sport",
		Mass:         800,
		MaxSpeed:     50,
		Acceleration: 100,
		Handling:     2,
		Color:        Color{255, 0, 0},
	}
	Balanced = Config{
		Name:         "Balanced",
		Mass:         1000,
		MaxSpeed:     40,
		Acceleration: 80,
		Handling:     3,
		Color:        Color{0, 0, 255},
	}
	Heavy = Config{
		Name:         "Heavy",
		Mass:         1200,
		MaxSpeed:     30,
		Acceleration: 60,
		Handling:     4,
		Color:        Color{0, 128, 0},
	}
)

// Presets returns a fresh copy of the built-in presets
func Presets() []Config {
	return []Config{Sport, Balanced, Heavy}
}

// FindPreset returns the preset with a case-insensitive name match
func FindPreset(presets []Config, name string) (Config, error) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// StatBar renders value against max as a 5-segment bar, used by the preset menu
func StatBar(value, max float64) string {
	if max <= 0 {
		return strings.Repeat("░", 5)
	}
	bars := int(value/max*5 + 0.5)
	if bars < 0 {
		bars = 0
	}
	if bars > 5 {
		bars = 5
	}
	return strings.Repeat("█", bars) + strings.Repeat("░", 5-bars)
}
