package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables; malformed values are ignored
const (
	EnvAudioEnabled  = "VI_RACER_AUDIO_ENABLED"
	EnvMasterVolume  = "VI_RACER_MASTER_VOLUME"
	EnvBridgeURL     = "VI_RACER_BRIDGE_URL"
	EnvForwardEvents = "VI_RACER_FORWARD_EVENTS"
	EnvPlayer        = "VI_RACER_PLAYER"
	EnvVehicle       = "VI_RACER_VEHICLE"
	EnvTargetFPS     = "VI_RACER_TARGET_FPS"
	EnvLaps          = "VI_RACER_LAPS"
	EnvQuality       = "VI_RACER_QUALITY"
)

// ApplyEnv overrides values from VI_RACER_* variables
func (c *Config) ApplyEnv() {
	if enabled := os.Getenv(EnvAudioEnabled); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			c.Audio.Enabled = val
		}
	}

	// 0-100, clamped
	if volume := os.Getenv(EnvMasterVolume); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			c.Audio.Volume = min(max(val, 0), 100)
		}
	}

	if url := os.Getenv(EnvBridgeURL); url != "" {
		c.Bridge.URL = url
	}

	if forward := os.Getenv(EnvForwardEvents); forward != "" {
		if val, err := strconv.ParseBool(forward); err == nil {
			c.Bridge.ForwardEvents = val
		}
	}

	if player := strings.TrimSpace(os.Getenv(EnvPlayer)); player != "" {
		c.Player.Name = player
	}

	if name := strings.TrimSpace(os.Getenv(EnvVehicle)); name != "" {
		c.Race.Vehicle = name
	}

	if fps := os.Getenv(EnvTargetFPS); fps != "" {
		if val, err := strconv.Atoi(fps); err == nil && val > 0 {
			c.Race.TargetFPS = val
		}
	}

	if laps := os.Getenv(EnvLaps); laps != "" {
		if val, err := strconv.Atoi(laps); err == nil && val > 0 {
			c.Race.Laps = val
		}
	}

	if tier := strings.ToLower(strings.TrimSpace(os.Getenv(EnvQuality))); tier != "" {
		c.Quality.Tier = tier
	}
}
