package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-racer/audio"
	"github.com/lixenwraith/vi-racer/hud"
	"github.com/lixenwraith/vi-racer/input"
	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/platform"
	"github.com/lixenwraith/vi-racer/quality"
	"github.com/lixenwraith/vi-racer/race"
	"github.com/lixenwraith/vi-racer/vehicle"
)

// TierAuto selects the initial quality tier from detected capabilities
const TierAuto = "auto"

// ErrUnknownKey reports config file keys that match no setting
var ErrUnknownKey = errors.New("unknown config key")

// Race holds race rules and loop pacing
type Race struct {
	Laps      int    `toml:"laps"`
	Vehicle   string `toml:"vehicle"`
	TargetFPS int    `toml:"target_fps"`
}

// Physics tunes the rigid-body world
type Physics struct {
	FixedStep   float64 `toml:"fixed_step"`
	MaxSubSteps int     `toml:"max_sub_steps"`
	Gravity     float64 `toml:"gravity"`
	Friction    float64 `toml:"friction"`
	Restitution float64 `toml:"restitution"`
	AllowSleep  bool    `toml:"allow_sleep"`
}

// Quality selects the starting render tier
type Quality struct {
	Tier string `toml:"tier"` // "auto", "low", "medium", "high"
}

// Input controls key handling
type Input struct {
	HoldMS   int               `toml:"hold_ms"`
	Bindings map[string]string `toml:"bindings"` // key -> action name
}

// Bridge configures the optional host link; an empty URL disables it
type Bridge struct {
	URL           string `toml:"url"`
	ForwardEvents bool   `toml:"forward_events"`
	SendBuffer    int    `toml:"send_buffer"`
}

// Audio controls feedback tones
type Audio struct {
	Enabled bool `toml:"enabled"`
	Volume  int  `toml:"volume"` // 0-100
}

// Player identifies the local player in results
type Player struct {
	Name string `toml:"name"`
}

// Vehicle is a preset declared in the config file
type Vehicle struct {
	Name         string  `toml:"name"`
	Mass         float64 `toml:"mass"`
	MaxSpeed     float64 `toml:"max_speed"`
	Acceleration float64 `toml:"acceleration"`
	Handling     float64 `toml:"handling"`
	Color        string  `toml:"color"`
}

// Config is the full runtime configuration
type Config struct {
	Race     Race      `toml:"race"`
	Physics  Physics   `toml:"physics"`
	Quality  Quality   `toml:"quality"`
	Input    Input     `toml:"input"`
	Bridge   Bridge    `toml:"bridge"`
	Audio    Audio     `toml:"audio"`
	Player   Player    `toml:"player"`
	Vehicles []Vehicle `toml:"vehicle"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Race: Race{
			Laps:      race.TotalLaps,
			Vehicle:   vehicle.Balanced.Name,
			TargetFPS: 60,
		},
		Physics: Physics{
			FixedStep:   physics.FixedStep,
			MaxSubSteps: physics.MaxSubSteps,
			Gravity:     physics.Gravity,
			Friction:    physics.Friction,
			Restitution: physics.Restitution,
			AllowSleep:  true,
		},
		Quality: Quality{Tier: TierAuto},
		Input: Input{
			HoldMS:   int(input.DefaultHold / time.Millisecond),
			Bindings: map[string]string{},
		},
		Bridge: Bridge{SendBuffer: platform.DefaultBridgeConfig().SendBuffer},
		Audio:  Audio{Enabled: true, Volume: 70},
		Player: Player{Name: hud.DefaultPlayer},
	}
}

// Load builds the configuration from defaults, an optional file and the environment
// An empty path skips the file
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes a TOML file over the current values
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return c.decode(path, string(data))
}

func (c *Config) decode(name, data string) error {
	md, err := toml.Decode(data, c)
	if err != nil {
		return fmt.Errorf("decode config %s: %w", name, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: %w: %s", name, ErrUnknownKey, strings.Join(keys, ", "))
	}
	return nil
}

// Validate rejects settings the game cannot run with
func (c *Config) Validate() error {
	if c.Race.Laps < 1 {
		return fmt.Errorf("race.laps must be at least 1, got %d", c.Race.Laps)
	}
	if c.Race.TargetFPS < 1 || c.Race.TargetFPS > 240 {
		return fmt.Errorf("race.target_fps out of range 1-240: %d", c.Race.TargetFPS)
	}
	if c.Physics.FixedStep <= 0 {
		return fmt.Errorf("physics.fixed_step must be positive, got %v", c.Physics.FixedStep)
	}
	if c.Physics.MaxSubSteps < 1 {
		return fmt.Errorf("physics.max_sub_steps must be at least 1, got %d", c.Physics.MaxSubSteps)
	}
	if c.Input.HoldMS < 1 {
		return fmt.Errorf("input.hold_ms must be positive, got %d", c.Input.HoldMS)
	}
	if !strings.EqualFold(c.Quality.Tier, TierAuto) {
		if _, err := quality.ParseTier(c.Quality.Tier); err != nil {
			return fmt.Errorf("quality.tier: %w", err)
		}
	}
	if _, err := c.KeyMap(); err != nil {
		return err
	}
	presets, err := c.Presets()
	if err != nil {
		return err
	}
	if _, err := vehicle.FindPreset(presets, c.Race.Vehicle); err != nil {
		return fmt.Errorf("race.vehicle: %w", err)
	}
	return nil
}

// Presets returns the built-in presets with file presets merged in
// A file preset with a built-in name replaces it; new names are appended
func (c *Config) Presets() ([]vehicle.Config, error) {
	presets := vehicle.Presets()
	for _, v := range c.Vehicles {
		vc := vehicle.Config{
			Name:         v.Name,
			Mass:         v.Mass,
			MaxSpeed:     v.MaxSpeed,
			Acceleration: v.Acceleration,
			Handling:     v.Handling,
		}
		if v.Color != "" {
			color, err := vehicle.ParseColor(v.Color)
			if err != nil {
				return nil, fmt.Errorf("vehicle %q: %w", v.Name, err)
			}
			vc.Color = color
		}
		if err := vc.Validate(); err != nil {
			return nil, err
		}
		replaced := false
		for i := range presets {
			if strings.EqualFold(presets[i].Name, vc.Name) {
				presets[i] = vc
				replaced = true
				break
			}
		}
		if !replaced {
			presets = append(presets, vc)
		}
	}
	return presets, nil
}

// PhysicsParams converts the physics section for physics.NewWorld
func (c *Config) PhysicsParams() physics.Params {
	p := physics.DefaultParams()
	p.FixedStep = c.Physics.FixedStep
	p.MaxSubSteps = c.Physics.MaxSubSteps
	p.Gravity = mgl64.Vec3{0, c.Physics.Gravity, 0}
	p.Material.Friction = c.Physics.Friction
	p.Material.Restitution = c.Physics.Restitution
	p.AllowSleep = c.Physics.AllowSleep
	return p
}

// BridgeConfig converts the bridge section, keeping default timeouts
func (c *Config) BridgeConfig() platform.BridgeConfig {
	b := platform.DefaultBridgeConfig()
	b.URL = c.Bridge.URL
	b.ForwardEvents = c.Bridge.ForwardEvents
	if c.Bridge.SendBuffer > 0 {
		b.SendBuffer = c.Bridge.SendBuffer
	}
	return b
}

// AudioConfig converts the audio section
func (c *Config) AudioConfig() audio.Config {
	return audio.Config{
		Enabled: c.Audio.Enabled,
		Volume:  clampUnit(float64(c.Audio.Volume) / 100.0),
	}
}

// Hold returns the input latch timeout
func (c *Config) Hold() time.Duration {
	return time.Duration(c.Input.HoldMS) * time.Millisecond
}

// KeyMap returns the default key map with file bindings applied
func (c *Config) KeyMap() (*input.KeyMap, error) {
	km := input.DefaultKeyMap()
	if err := km.BindAll(c.Input.Bindings); err != nil {
		return nil, fmt.Errorf("input.bindings: %w", err)
	}
	return km, nil
}

// InitialTier resolves the quality section against detected capabilities
func (c *Config) InitialTier(caps quality.Capabilities) quality.Tier {
	if t, err := quality.ParseTier(c.Quality.Tier); err == nil {
		return t
	}
	return quality.InitialTier(caps)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
