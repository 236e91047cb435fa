package race

import (
	"errors"
	"time"
)

// State is the race lifecycle phase
type State uint8

const (
	NotStarted State = iota
	Running
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// TotalLaps is the default race length
const TotalLaps = 3

// ErrInvalidTransition is returned, wrapped with the state names, when an operation is not legal in the current state
var ErrInvalidTransition = errors.New("invalid race transition")

// LapRecord tracks lap progress and timing
type LapRecord struct {
	Current   int // 1-based, exceeds Total once finished
	Total     int
	RaceStart time.Time
	LapStart  time.Time
	LastLap   time.Duration
	bestLap   time.Duration
	hasBest   bool
}

// Best returns the fastest completed lap; ok is false until one lap completes
func (l LapRecord) Best() (time.Duration, bool) {
	return l.bestLap, l.hasBest
}

func (l *LapRecord) record(d time.Duration) {
	l.LastLap = d
	if !l.hasBest || d < l.bestLap {
		l.bestLap = d
		l.hasBest = true
	}
}

// Snapshot is the read-only view pulled by the HUD each frame
type Snapshot struct {
	State           State
	SessionID       string
	Vehicle         string
	Checkpoint      int // Next expected checkpoint index
	CheckpointCount int
	Lap             int // Display lap, clamped to TotalLaps
	TotalLaps       int
	LapTime         time.Duration
	TotalTime       time.Duration
	LastLap         time.Duration
	BestLap         time.Duration
	HasBest         bool
}
