package status

import (
	"math"
	"sync/atomic"
	"unicode/utf8"
)

// MaxStringLen caps stored strings in runes so the debug panel keeps its width
const MaxStringLen = 24

// AtomicFloat is a float64 metric; zero value reads 0
type AtomicFloat struct {
	v atomic.Uint64
}

func (f *AtomicFloat) Set(x float64) { f.v.Store(math.Float64bits(x)) }

func (f *AtomicFloat) Get() float64 { return math.Float64frombits(f.v.Load()) }

// AtomicString is a short label metric; zero value reads ""
type AtomicString struct {
	v atomic.Value // string
}

// Store sets the label, truncated to MaxStringLen runes
func (s *AtomicString) Store(x string) {
	if utf8.RuneCountInString(x) > MaxStringLen {
		x = string([]rune(x)[:MaxStringLen])
	}
	s.v.Store(x)
}

func (s *AtomicString) Load() string {
	x, _ := s.v.Load().(string)
	return x
}
