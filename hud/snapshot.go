package hud

import (
	"fmt"
	"time"

	"github.com/lixenwraith/vi-racer/quality"
	"github.com/lixenwraith/vi-racer/race"
)

// Snapshot is the pull-model display view built once per frame
type Snapshot struct {
	Race     race.Snapshot
	Speed    float64 // Pre-clamp magnitude, simulation units per second
	FPS      float64
	Tier     quality.Tier
	Upright  bool
	OffTrack bool
}

// Lines returns the HUD rows in display order
func (s Snapshot) Lines() []string {
	fps, _ := GradeFPS(s.FPS)
	return []string{
		LapCounter(s.Race.Lap, s.Race.TotalLaps),
		fmt.Sprintf("Speed %3d km/h", SpeedKmh(s.Speed)),
		"Lap   " + FormatTime(s.Race.LapTime),
		"Total " + FormatTime(s.Race.TotalTime),
		"Best  " + FormatBest(s.Race.BestLap, s.Race.HasBest),
		fmt.Sprintf("CP %d/%d  FPS %d  %s", s.Race.Checkpoint+1, s.Race.CheckpointCount, fps, s.Tier),
	}
}

// Result is the finished race summary
type Result struct {
	SessionID string
	Player    string
	Vehicle   string
	Total     time.Duration
	Best      time.Duration
}

// TotalMillis returns the raw total in milliseconds
func (r Result) TotalMillis() int64 {
	return r.Total.Milliseconds()
}

// ShareText formats the shareable message: "<player> finished the race in X.XX seconds"
func (r Result) ShareText() string {
	player := r.Player
	if player == "" {
		player = DefaultPlayer
	}
	return fmt.Sprintf("%s finished the race in %.2f seconds", player, float64(r.TotalMillis())/1000)
}

// DefaultPlayer is used when no player name is configured
const DefaultPlayer = "Player"

// ResultLines returns the results screen rows
func (r Result) ResultLines() []string {
	return []string{
		"FINISH",
		"Total " + FormatTime(r.Total),
		"Best  " + FormatTime(r.Best),
	}
}
