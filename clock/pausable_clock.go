package clock

import (
	"sync"
	"time"
)

// PausableClock is race time: real time minus every paused interval
// Reads from an injected TimeProvider so tests can drive it
type PausableClock struct {
	mu sync.RWMutex

	source TimeProvider
	epoch  time.Time // Real time at creation

	paused      bool
	pausedAt    time.Time     // Real time when the current pause began
	pausedTotal time.Duration // Completed pauses only
}

// NewPausableClock creates a running clock over source; nil uses the monotonic provider
func NewPausableClock(source TimeProvider) *PausableClock {
	if source == nil {
		source = NewMonotonicTimeProvider()
	}
	return &PausableClock{
		source: source,
		epoch:  source.Now(),
	}
}

// Now returns race time, frozen while paused
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	ref := pc.source.Now()
	if pc.paused {
		ref = pc.pausedAt
	}
	return pc.epoch.Add(ref.Sub(pc.epoch) - pc.pausedTotal)
}

// RealTime returns the source reading, unaffected by pause
func (pc *PausableClock) RealTime() time.Time {
	return pc.source.Now()
}

// Pause stops race time advancement; no-op if already paused
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.paused {
		return
	}
	pc.paused = true
	pc.pausedAt = pc.source.Now()
}

// Resume continues race time advancement; no-op if running
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if !pc.paused {
		return
	}
	pc.pausedTotal += pc.source.Now().Sub(pc.pausedAt)
	pc.paused = false
	pc.pausedAt = time.Time{}
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// TotalPauseDuration returns cumulative pause time including the current pause
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.pausedTotal
	if pc.paused {
		total += pc.source.Now().Sub(pc.pausedAt)
	}
	return total
}
