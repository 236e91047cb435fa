package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-racer/input"
	"github.com/lixenwraith/vi-racer/physics"
	"github.com/lixenwraith/vi-racer/quality"
	"github.com/lixenwraith/vi-racer/vehicle"
)

const sampleFile = `
[race]
laps = 5
vehicle = "rocket"
target_fps = 30

[physics]
max_sub_steps = 3
gravity = -5.0

[quality]
tier = "medium"

[input]
hold_ms = 250
[input.bindings]
q = "quit"
Up = "none"

[bridge]
url = "ws://127.0.0.1:9000/bridge"
forward_events = true

[audio]
enabled = false
volume = 40

[player]
name = "Alex"

[[vehicle]]
name = "Rocket"
mass = 600
max_speed = 70
acceleration = 140
handling = 1.5
color = "#ff8800"

[[vehicle]]
name = "heavy"
mass = 1500
max_speed = 25
acceleration = 50
handling = 5
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vi-racer.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAudioEnabled, EnvMasterVolume, EnvBridgeURL, EnvForwardEvents,
		EnvPlayer, EnvVehicle, EnvTargetFPS, EnvLaps, EnvQuality,
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultIsValid(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Race.Laps)
	assert.Equal(t, "Balanced", cfg.Race.Vehicle)
	assert.Equal(t, 500*time.Millisecond, cfg.Hold())
	assert.Equal(t, physics.DefaultParams(), cfg.PhysicsParams())
	assert.Empty(t, cfg.BridgeConfig().URL)

	presets, err := cfg.Presets()
	require.NoError(t, err)
	assert.Equal(t, vehicle.Presets(), presets)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, sampleFile))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Race.Laps)
	assert.Equal(t, 30, cfg.Race.TargetFPS)
	assert.Equal(t, 250*time.Millisecond, cfg.Hold())
	assert.Equal(t, "Alex", cfg.Player.Name)

	params := cfg.PhysicsParams()
	assert.Equal(t, 3, params.MaxSubSteps)
	assert.Equal(t, -5.0, params.Gravity.Y())
	assert.Equal(t, physics.FixedStep, params.FixedStep, "unset keys keep defaults")

	bridge := cfg.BridgeConfig()
	assert.Equal(t, "ws://127.0.0.1:9000/bridge", bridge.URL)
	assert.True(t, bridge.ForwardEvents)
	assert.Equal(t, 64, bridge.SendBuffer)

	a := cfg.AudioConfig()
	assert.False(t, a.Enabled)
	assert.InDelta(t, 0.4, a.Volume, 1e-9)

	assert.Equal(t, quality.Medium, cfg.InitialTier(quality.Capabilities{}))
}

func TestFilePresetsMerge(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, sampleFile))
	require.NoError(t, err)

	presets, err := cfg.Presets()
	require.NoError(t, err)
	require.Len(t, presets, 4)

	heavy, err := vehicle.FindPreset(presets, "Heavy")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, heavy.Mass, "file preset replaces built-in of the same name")
	assert.Equal(t, vehicle.Color{}, heavy.Color)

	rocket, err := vehicle.FindPreset(presets, "rocket")
	require.NoError(t, err)
	assert.Equal(t, vehicle.Color{R: 0xff, G: 0x88, B: 0x00}, rocket.Color)
	assert.Equal(t, "Rocket", presets[3].Name, "new presets are appended in file order")
}

func TestFileBindings(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, sampleFile))
	require.NoError(t, err)

	km, err := cfg.KeyMap()
	require.NoError(t, err)
	assert.Equal(t, input.ActionQuit, km.Runes['q'])
	_, bound := km.Runes['w']
	assert.True(t, bound, "defaults survive")
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[race\nlaps = 1"},
		{"zero laps", "[race]\nlaps = 0"},
		{"unknown vehicle", "[race]\nvehicle = \"kart\""},
		{"bad tier", "[quality]\ntier = \"ultra\""},
		{"bad color", "[[vehicle]]\nname = \"x\"\nmass = 1\nmax_speed = 1\ncolor = \"#12\""},
		{"invalid preset", "[[vehicle]]\nname = \"x\"\nmass = 0\nmax_speed = 1"},
		{"bad binding", "[input.bindings]\nw = \"fly\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestUnknownKey(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "[race]\nturbo = true"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKey))
	assert.Contains(t, err.Error(), "race.turbo")
}

func TestMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAudioEnabled, "0")
	t.Setenv(EnvBridgeURL, "ws://host/bridge")
	t.Setenv(EnvForwardEvents, "true")
	t.Setenv(EnvPlayer, "  Sam ")
	t.Setenv(EnvVehicle, "sport")
	t.Setenv(EnvTargetFPS, "45")
	t.Setenv(EnvLaps, "2")
	t.Setenv(EnvQuality, "HIGH")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, "ws://host/bridge", cfg.Bridge.URL)
	assert.True(t, cfg.Bridge.ForwardEvents)
	assert.Equal(t, "Sam", cfg.Player.Name)
	assert.Equal(t, "sport", cfg.Race.Vehicle)
	assert.Equal(t, 45, cfg.Race.TargetFPS)
	assert.Equal(t, 2, cfg.Race.Laps)
	assert.Equal(t, quality.High, cfg.InitialTier(quality.Capabilities{}))
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLaps, "7")
	cfg, err := Load(writeConfig(t, sampleFile))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Race.Laps)
}

func TestEnvMasterVolume(t *testing.T) {
	tests := []struct {
		value    string
		expected int
	}{
		{"0", 0},
		{"50", 50},
		{"100", 100},
		{"-50", 0},
		{"150", 100},
		{"loud", 70},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvMasterVolume, tt.value)
			cfg := Default()
			cfg.ApplyEnv()
			assert.Equal(t, tt.expected, cfg.Audio.Volume)
		})
	}
}

func TestEnvIgnoresMalformed(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAudioEnabled, "maybe")
	t.Setenv(EnvTargetFPS, "-1")
	t.Setenv(EnvLaps, "three")

	cfg := Default()
	cfg.ApplyEnv()
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 60, cfg.Race.TargetFPS)
	assert.Equal(t, 3, cfg.Race.Laps)
}

func TestAutoTierUsesCapabilities(t *testing.T) {
	cfg := Default()
	caps := quality.Capabilities{EstimatedMemory: 16 << 30, CoreCount: 8}
	assert.Equal(t, quality.InitialTier(caps), cfg.InitialTier(caps))
}
