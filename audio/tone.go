package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/vi-racer/platform"
)

// SampleRate is the speaker rate used for all feedback tones
const SampleRate = beep.SampleRate(44100)

// tone is one enveloped note; freq 0 is a rest
type tone struct {
	freq float64
	dur  time.Duration
	gain float64
}

// Feedback patterns standing in for device haptics: impacts are single low thumps, notifications are short motifs
var patterns = map[platform.HapticKind][]tone{
	platform.HapticLight:   {{freq: 880, dur: 30 * time.Millisecond, gain: 0.4}},
	platform.HapticMedium:  {{freq: 440, dur: 60 * time.Millisecond, gain: 0.6}},
	platform.HapticHeavy:   {{freq: 160, dur: 110 * time.Millisecond, gain: 0.9}},
	platform.HapticSuccess: {{freq: 1047, dur: 70 * time.Millisecond, gain: 0.5}, {freq: 1319, dur: 70 * time.Millisecond, gain: 0.5}, {freq: 1568, dur: 140 * time.Millisecond, gain: 0.6}},
	platform.HapticWarning: {{freq: 660, dur: 60 * time.Millisecond, gain: 0.5}, {dur: 40 * time.Millisecond}, {freq: 660, dur: 60 * time.Millisecond, gain: 0.5}},
	platform.HapticError:   {{freq: 330, dur: 80 * time.Millisecond, gain: 0.6}, {freq: 220, dur: 160 * time.Millisecond, gain: 0.6}},
}

// Attack and release applied to every note to avoid clicks
const (
	noteAttack  = 5 * time.Millisecond
	noteRelease = 15 * time.Millisecond
)

// PatternDuration returns the total length of the pattern for kind
func PatternDuration(kind platform.HapticKind) time.Duration {
	var d time.Duration
	for _, t := range patterns[kind] {
		d += t.dur
	}
	return d
}

// Pattern builds the streamer for kind scaled by volume in [0, 1]
// Unknown kinds return nil
func Pattern(kind platform.HapticKind, volume float64) beep.Streamer {
	notes, ok := patterns[kind]
	if !ok {
		return nil
	}
	seq := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		seq = append(seq, note(n, volume))
	}
	return beep.Seq(seq...)
}

func note(t tone, volume float64) beep.Streamer {
	n := SampleRate.N(t.dur)
	if t.freq <= 0 {
		return beep.Silence(n)
	}
	sine, err := generators.SineTone(SampleRate, t.freq)
	if err != nil {
		return beep.Silence(n)
	}
	shaped := newEnvelope(beep.Take(n, sine), n, SampleRate.N(noteAttack), SampleRate.N(noteRelease))
	return newVolume(shaped, t.gain*volume)
}

// envelope applies linear attack and release over a fixed length stream
type envelope struct {
	streamer beep.Streamer
	pos      int
	total    int
	attack   int
	release  int
}

func newEnvelope(s beep.Streamer, total, attack, release int) *envelope {
	if attack+release > total {
		attack, release = total/2, total/2
	}
	return &envelope{streamer: s, total: total, attack: attack, release: release}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.pos < e.attack {
			vol = float64(e.pos) / float64(e.attack)
		}
		if remaining := e.total - e.pos; e.release > 0 && remaining < e.release {
			vol = math.Max(float64(remaining)/float64(e.release), 0)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; math.Log2(0) is -Inf so zero volume is marked silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
