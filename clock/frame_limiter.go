package clock

import (
	"time"
)

// FrameLimiter gates rendering to a target rate
type FrameLimiter struct {
	source   TimeProvider
	interval time.Duration
	last     time.Time
}

// NewFrameLimiter creates a limiter for targetFPS; zero or negative disables limiting
func NewFrameLimiter(source TimeProvider, targetFPS int) *FrameLimiter {
	if source == nil {
		source = NewMonotonicTimeProvider()
	}
	fl := &FrameLimiter{source: source}
	if targetFPS > 0 {
		fl.interval = time.Second / time.Duration(targetFPS)
	}
	return fl
}

// Interval returns the minimum time between frames
func (fl *FrameLimiter) Interval() time.Duration {
	return fl.interval
}

// ShouldRender reports whether a frame is due and, if so, marks it rendered
// Carries the remainder so the realized rate does not drift below target
func (fl *FrameLimiter) ShouldRender() bool {
	now := fl.source.Now()
	if fl.interval == 0 || fl.last.IsZero() {
		fl.last = now
		return true
	}
	elapsed := now.Sub(fl.last)
	if elapsed < fl.interval {
		return false
	}
	// Snap forward when far behind instead of bursting
	if elapsed >= 2*fl.interval {
		fl.last = now
	} else {
		fl.last = fl.last.Add(fl.interval)
	}
	return true
}

// Wait returns the time until the next frame is due
func (fl *FrameLimiter) Wait() time.Duration {
	if fl.interval == 0 || fl.last.IsZero() {
		return 0
	}
	d := fl.interval - fl.source.Now().Sub(fl.last)
	if d < 0 {
		return 0
	}
	return d
}

// FPSMeter computes realized frame rate from consecutive frame timestamps
type FPSMeter struct {
	source TimeProvider
	last   time.Time
}

// NewFPSMeter creates a meter reading from source
func NewFPSMeter(source TimeProvider) *FPSMeter {
	if source == nil {
		source = NewMonotonicTimeProvider()
	}
	return &FPSMeter{source: source}
}

// Tick records a frame and returns the elapsed wall seconds and instantaneous fps
// First call returns zero for both
func (m *FPSMeter) Tick() (delta float64, fps float64) {
	now := m.source.Now()
	if m.last.IsZero() {
		m.last = now
		return 0, 0
	}
	delta = now.Sub(m.last).Seconds()
	m.last = now
	if delta > 0 {
		fps = 1 / delta
	}
	return delta, fps
}
