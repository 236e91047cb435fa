package quality

import "fmt"

// Tier is a discrete render quality level, ordered Low < Medium < High
type Tier uint8

const (
	Low Tier = iota
	Medium
	High
)

func (t Tier) String() string {
	switch t {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
}

// ParseTier accepts the lowercase names returned by String
func ParseTier(s string) (Tier, error) {
	switch s {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	default:
		return Low, fmt.Errorf("unknown quality tier %q", s)
	}
}

// Settings is the renderer configuration applied for a tier
type Settings struct {
	ResolutionScale       float64
	AutoClear             bool
	AutoClearDepthStencil bool
}

var tierSettings = [...]Settings{
	Low:    {ResolutionScale: 1.5, AutoClear: true, AutoClearDepthStencil: true},
	Medium: {ResolutionScale: 1.2, AutoClear: true, AutoClearDepthStencil: true},
	High:   {ResolutionScale: 1.0, AutoClear: true, AutoClearDepthStencil: true},
}

// SettingsFor returns the settings of t; out of range tiers map to Low
func SettingsFor(t Tier) Settings {
	if int(t) >= len(tierSettings) {
		return tierSettings[Low]
	}
	return tierSettings[t]
}

// Renderer receives tier settings on every change
type Renderer interface {
	ApplySettings(Settings)
}
