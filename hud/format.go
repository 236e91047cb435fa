package hud

import (
	"fmt"
	"math"
	"time"
)

// FormatTime renders d as MM:SS.mmm, truncating below the millisecond
// Negative durations render as zero
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	totalSeconds := ms / 1000
	return fmt.Sprintf("%02d:%02d.%03d", totalSeconds/60, totalSeconds%60, ms%1000)
}

// FormatBest renders a best-lap value, or a placeholder while unset
func FormatBest(d time.Duration, ok bool) string {
	if !ok {
		return "--:--.---"
	}
	return FormatTime(d)
}

// SpeedKmh converts simulation units per second to displayed km/h
func SpeedKmh(speed float64) int {
	return int(math.Round(speed * 3.6))
}

// FPSLevel grades a frame rate for display coloring
type FPSLevel uint8

const (
	FPSGood FPSLevel = iota
	FPSWarning
	FPSCritical
)

// GradeFPS rounds fps and grades it: below 20 critical, below 40 warning
func GradeFPS(fps float64) (int, FPSLevel) {
	r := int(math.Round(fps))
	switch {
	case r < 20:
		return r, FPSCritical
	case r < 40:
		return r, FPSWarning
	default:
		return r, FPSGood
	}
}

// LapCounter renders "Lap n / total"
func LapCounter(lap, total int) string {
	return fmt.Sprintf("Lap %d / %d", lap, total)
}
