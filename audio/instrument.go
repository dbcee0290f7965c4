package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"

	"lehra/note"
)

// Instrument turns a pitch into a finite voice: attack, hold for d, release
type Instrument interface {
	Name() string
	Voice(p note.Pitch, d time.Duration, sr beep.SampleRate) beep.Streamer
}

// Oscillator maps a phase in [0, 2π) to a sample in [-1, 1]
type Oscillator func(phase float64) float64

func Sine(p float64) float64 {
	return math.Sin(p)
}

func Square(p float64) float64 {
	if p < math.Pi {
		return 1
	}
	return -1
}

func Saw(p float64) float64 {
	return p/math.Pi - 1
}

func Triangle(p float64) float64 {
	return 2*math.Abs(2*(p/(2*math.Pi))-1) - 1
}

// Reed is a few odd-leaning harmonics, close enough to a harmonium
func Reed(p float64) float64 {
	return (math.Sin(p) + 0.5*math.Sin(2*p) + 0.35*math.Sin(3*p) + 0.15*math.Sin(5*p)) / 2
}

// Synth is the oscillator instrument, also the fallback while samples load
type Synth struct {
	name    string
	Osc     Oscillator
	Gain    float64
	Attack  time.Duration
	Release time.Duration
}

func NewSynth(name string, osc Oscillator) *Synth {
	return &Synth{
		name:    name,
		Osc:     osc,
		Gain:    0.3,
		Attack:  5 * time.Millisecond,
		Release: 120 * time.Millisecond,
	}
}

func (s *Synth) Name() string { return s.name }

func (s *Synth) Voice(p note.Pitch, d time.Duration, sr beep.SampleRate) beep.Streamer {
	if p.IsRest() {
		return beep.Silence(0)
	}
	osc := &oscillator{
		osc:  s.Osc,
		step: p.Frequency() * 2 * math.Pi / float64(sr),
	}
	return newEnvelope(osc, s.Gain, sr.N(s.Attack), sr.N(d), sr.N(s.Release))
}

type oscillator struct {
	osc   Oscillator
	phase float64
	step  float64
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := o.osc(o.phase)
		samples[i][0] = v
		samples[i][1] = v
		o.phase += o.step
		if o.phase >= 2*math.Pi {
			o.phase -= 2 * math.Pi
		}
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope gates src: linear attack, hold until the note length, linear
// release, then the voice ends.
type envelope struct {
	src     beep.Streamer
	gain    float64
	attack  int
	hold    int
	release int
	pos     int
}

func newEnvelope(src beep.Streamer, gain float64, attack, hold, release int) *envelope {
	if attack > hold {
		attack = hold
	}
	return &envelope{src: src, gain: gain, attack: attack, hold: hold, release: release}
}

func (e *envelope) length() int {
	return e.hold + e.release
}

func (e *envelope) level(pos int) float64 {
	switch {
	case pos < e.attack:
		return float64(pos) / float64(e.attack)
	case pos < e.hold:
		return 1
	case e.release > 0:
		return 1 - float64(pos-e.hold)/float64(e.release)
	}
	return 0
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	remaining := e.length() - e.pos
	if remaining <= 0 {
		return 0, false
	}
	if len(samples) > remaining {
		samples = samples[:remaining]
	}

	n, ok = e.src.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.gain * e.level(e.pos+i)
		samples[i][0] *= g
		samples[i][1] *= g
	}
	e.pos += n
	if !ok && n == 0 {
		return 0, false
	}
	return n, true
}

func (e *envelope) Err() error {
	return e.src.Err()
}
