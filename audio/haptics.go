package audio

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/vi-racer/hud"
	"github.com/lixenwraith/vi-racer/platform"
)

// Sink receives finished streamers for playback
type Sink interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Close()
}

// speakerSink plays through the beep speaker
type speakerSink struct{}

func (speakerSink) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (speakerSink) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (speakerSink) Close() {
	speaker.Close()
}

// Config controls feedback audio
type Config struct {
	Enabled bool
	Volume  float64 // 0..1
}

// Haptics renders platform haptic requests as short tones
// It never shares results
type Haptics struct {
	mu      sync.Mutex
	sink    Sink
	logger  *log.Logger
	volume  float64
	running atomic.Bool
	muted   atomic.Bool
	played  atomic.Uint64
}

// NewHaptics creates a stopped player on the system speaker
func NewHaptics(cfg Config, logger *log.Logger) *Haptics {
	return NewHapticsWithSink(cfg, speakerSink{}, logger)
}

// NewHapticsWithSink creates a stopped player on sink
func NewHapticsWithSink(cfg Config, sink Sink, logger *log.Logger) *Haptics {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	vol := cfg.Volume
	if vol < 0 {
		vol = 0
	}
	if vol > 1 {
		vol = 1
	}
	h := &Haptics{sink: sink, logger: logger.WithPrefix("audio"), volume: vol}
	h.muted.Store(!cfg.Enabled)
	return h
}

// Start opens the output device; a missing device leaves the player silent, not failed
func (h *Haptics) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running.Load() {
		return nil
	}
	if err := h.sink.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		h.logger.Warn("audio output unavailable, running silent", "err", err)
		return nil
	}
	h.running.Store(true)
	return nil
}

// Stop closes the output device
func (h *Haptics) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running.CompareAndSwap(true, false) {
		h.sink.Close()
	}
}

// ToggleMute flips mute and returns the new state
func (h *Haptics) ToggleMute() bool {
	muted := !h.muted.Load()
	h.muted.Store(muted)
	return muted
}

// Muted reports the mute state
func (h *Haptics) Muted() bool {
	return h.muted.Load()
}

// Played returns the number of patterns started
func (h *Haptics) Played() uint64 {
	return h.played.Load()
}

// Available reports whether tones can be heard
func (h *Haptics) Available() bool {
	return h.running.Load() && !h.muted.Load()
}

// Haptic plays the tone pattern for kind
func (h *Haptics) Haptic(kind platform.HapticKind) {
	if !h.Available() {
		return
	}
	s := Pattern(kind, h.volume)
	if s == nil {
		return
	}
	h.sink.Play(s)
	h.played.Add(1)
}

// Share is not supported by local audio
func (h *Haptics) Share(hud.Result) error {
	return platform.ErrUnavailable
}
