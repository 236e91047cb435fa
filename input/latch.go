package input

import (
	"sync"
	"time"

	"github.com/lixenwraith/vi-racer/clock"
	"github.com/lixenwraith/vi-racer/vehicle"
)

// DefaultHold covers the initial key-repeat delay of common terminals
const DefaultHold = 500 * time.Millisecond

const motionCount = 4

// Latch emulates held keys for hosts without key-up events
// A press raises the intent flag until hold elapses without a repeat
type Latch struct {
	mu      sync.Mutex
	intent  *vehicle.Intent
	source  clock.TimeProvider
	hold    time.Duration
	expires [motionCount]time.Time
}

// NewLatch drives intent; hold <= 0 uses DefaultHold
func NewLatch(intent *vehicle.Intent, source clock.TimeProvider, hold time.Duration) *Latch {
	if source == nil {
		source = clock.NewMonotonicTimeProvider()
	}
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Latch{intent: intent, source: source, hold: hold}
}

// Hold returns the release timeout
func (l *Latch) Hold() time.Duration {
	return l.hold
}

// Press raises m and extends its hold; steering presses release the opposite direction
func (l *Latch) Press(m vehicle.Motion) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch m {
	case vehicle.MotionLeft:
		l.release(vehicle.MotionRight)
	case vehicle.MotionRight:
		l.release(vehicle.MotionLeft)
	}
	l.expires[m] = l.source.Now().Add(l.hold)
	l.intent.Set(m, true)
}

// Release lowers m immediately
func (l *Latch) Release(m vehicle.Motion) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.release(m)
}

func (l *Latch) release(m vehicle.Motion) {
	l.expires[m] = time.Time{}
	l.intent.Set(m, false)
}

// Update releases every motion whose hold has elapsed; call once per frame
func (l *Latch) Update() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.source.Now()
	for m := vehicle.Motion(0); m < motionCount; m++ {
		if exp := l.expires[m]; !exp.IsZero() && !now.Before(exp) {
			l.release(m)
		}
	}
}

// ReleaseAll lowers every flag
func (l *Latch) ReleaseAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for m := vehicle.Motion(0); m < motionCount; m++ {
		l.release(m)
	}
}
