package status

import (
	"fmt"
	"sync/atomic"
)

// Metric keys written by the session and read by the debug overlay
const (
	KeyFPS         = "render.fps"
	KeyAvgFPS      = "render.fps_avg"
	KeyTier        = "render.tier"
	KeyFrame       = "loop.frame"
	KeyFaults      = "loop.faults"
	KeySubSteps    = "physics.substeps"
	KeyDropped     = "physics.dropped_s"
	KeyBodies      = "physics.bodies"
	KeySpeed       = "vehicle.speed"
	KeyState       = "race.state"
	KeyEvents      = "event.dropped"
	KeyBridge      = "bridge.connected"
	KeyBridgeSent  = "bridge.sent"
	KeyAudio       = "audio.enabled"
	KeyQuitPending = "input.quit_pending"
)

// Registry groups metrics by value type
// Writers cache the pointer from Get once and store atomically per frame
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Entry is one formatted metric line
type Entry struct {
	Key   string
	Value string
}

// Dump formats every metric, grouped by type then sorted by key
func (r *Registry) Dump() []Entry {
	out := make([]Entry, 0, r.TotalCount())
	r.Bools.Range(func(k string, v *atomic.Bool) {
		out = append(out, Entry{k, fmt.Sprintf("%t", v.Load())})
	})
	r.Ints.Range(func(k string, v *atomic.Int64) {
		out = append(out, Entry{k, fmt.Sprintf("%d", v.Load())})
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		out = append(out, Entry{k, fmt.Sprintf("%.2f", v.Get())})
	})
	r.Strings.Range(func(k string, v *AtomicString) {
		out = append(out, Entry{k, v.Load()})
	})
	return out
}
