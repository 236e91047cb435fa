package clock

import (
	"sync"
	"time"
)

// TimeProvider is a source of time readings
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the wall clock with its monotonic component
// Frame pacing and the bridge use it directly since they must not pause
type MonotonicTimeProvider struct{}

func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

func (*MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider is a manually driven clock for tests
type MockTimeProvider struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: start}
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	t := m.now
	m.mu.RUnlock()
	return t
}

// SetTime jumps to t, which may be earlier than the current reading
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
