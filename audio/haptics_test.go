package audio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-racer/hud"
	"github.com/lixenwraith/vi-racer/platform"
)

type fakeSink struct {
	mu      sync.Mutex
	initErr error
	played  []beep.Streamer
	closed  bool
}

func (f *fakeSink) Init(beep.SampleRate, int) error { return f.initErr }

func (f *fakeSink) Play(s beep.Streamer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, s)
}

func (f *fakeSink) Close() { f.closed = true }

// drain streams s to completion and returns the sample count and peak amplitude
func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			if v := buf[i][0]; v > peak {
				peak = v
			} else if -v > peak {
				peak = -v
			}
		}
		total += n
		if !ok || n == 0 {
			return total, peak
		}
	}
}

func TestPatternLengths(t *testing.T) {
	for kind := platform.HapticLight; kind <= platform.HapticError; kind++ {
		s := Pattern(kind, 1)
		require.NotNil(t, s, kind.String())

		n, peak := drain(s)
		assert.Equal(t, SampleRate.N(PatternDuration(kind)), n, kind.String())
		assert.Greater(t, peak, 0.0, kind.String())
		assert.LessOrEqual(t, peak, 1.0, kind.String())
	}
	assert.Nil(t, Pattern(platform.HapticKind(99), 1))
}

func TestSuccessIsLongerThanLight(t *testing.T) {
	assert.Greater(t, PatternDuration(platform.HapticSuccess), PatternDuration(platform.HapticLight))
	assert.Equal(t, 30*time.Millisecond, PatternDuration(platform.HapticLight))
}

func TestZeroVolumeIsSilent(t *testing.T) {
	_, peak := drain(Pattern(platform.HapticHeavy, 0))
	assert.Zero(t, peak)
}

func TestHapticsLifecycle(t *testing.T) {
	sink := &fakeSink{}
	h := NewHapticsWithSink(Config{Enabled: true, Volume: 0.5}, sink, nil)

	assert.False(t, h.Available(), "not started")
	h.Haptic(platform.HapticMedium)
	assert.Empty(t, sink.played)

	require.NoError(t, h.Start())
	assert.True(t, h.Available())
	h.Haptic(platform.HapticMedium)
	h.Haptic(platform.HapticSuccess)
	assert.Len(t, sink.played, 2)
	assert.Equal(t, uint64(2), h.Played())

	assert.True(t, h.ToggleMute())
	h.Haptic(platform.HapticLight)
	assert.Len(t, sink.played, 2, "muted")
	assert.False(t, h.ToggleMute())

	assert.ErrorIs(t, h.Share(hud.Result{}), platform.ErrUnavailable)

	h.Stop()
	assert.True(t, sink.closed)
	assert.False(t, h.Available())
}

func TestHapticsSilentWithoutDevice(t *testing.T) {
	sink := &fakeSink{initErr: errors.New("no device")}
	h := NewHapticsWithSink(Config{Enabled: true, Volume: 1}, sink, nil)

	require.NoError(t, h.Start(), "missing device is not an error")
	assert.False(t, h.Available())
	h.Haptic(platform.HapticError)
	assert.Empty(t, sink.played)
}

func TestHapticsDisabledStartsMuted(t *testing.T) {
	h := NewHapticsWithSink(Config{Enabled: false, Volume: 3}, &fakeSink{}, nil)
	require.NoError(t, h.Start())
	assert.True(t, h.Muted())
	assert.False(t, h.Available())
}
