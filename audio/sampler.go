package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"

	"lehra/note"
)

// SampleFile is the single recorded pitch each instrument folder provides
const SampleFile = "C4.wav"

// resampleQuality is passed to beep's resampler (1 fast .. 6 best)
const resampleQuality = 4

// Sampler plays one recorded note pitch-shifted to any other pitch
type Sampler struct {
	name    string
	base    note.Pitch
	Gain    float64
	Attack  time.Duration
	Release time.Duration

	mu     sync.RWMutex
	buffer *beep.Buffer
	err    error
}

func NewSampler(name string) *Sampler {
	return &Sampler{
		name:    name,
		base:    note.MiddleC,
		Gain:    0.8,
		Attack:  2 * time.Millisecond,
		Release: 150 * time.Millisecond,
	}
}

func (s *Sampler) Name() string { return s.name }

// SamplePath is <dir>/<instrument>/C4.wav
func SamplePath(dir, instrument string) string {
	return filepath.Join(dir, instrument, SampleFile)
}

// Load decodes a wav file into memory; the sampler is usable once it returns nil
func (s *Sampler) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		s.setErr(err)
		return err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		err = fmt.Errorf("decode %s: %w", path, err)
		s.setErr(err)
		return err
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		err = fmt.Errorf("read %s: %w", path, err)
		s.setErr(err)
		return err
	}
	if buf.Len() == 0 {
		err = fmt.Errorf("%s: no audio", path)
		s.setErr(err)
		return err
	}

	s.SetBuffer(buf)
	return nil
}

// SetBuffer installs already decoded audio
func (s *Sampler) SetBuffer(buf *beep.Buffer) {
	s.mu.Lock()
	s.buffer = buf
	s.err = nil
	s.mu.Unlock()
}

func (s *Sampler) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Loaded reports whether a sample is ready
func (s *Sampler) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffer != nil
}

// Err is the last load failure, if any
func (s *Sampler) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Ratio is the playback speed that turns the base sample into p at rate sr
func (s *Sampler) Ratio(p note.Pitch, sr beep.SampleRate) float64 {
	s.mu.RLock()
	buf := s.buffer
	s.mu.RUnlock()

	ratio := math.Pow(2, float64(p-s.base)/12)
	if buf != nil {
		ratio *= float64(buf.Format().SampleRate) / float64(sr)
	}
	return ratio
}

func (s *Sampler) Voice(p note.Pitch, d time.Duration, sr beep.SampleRate) beep.Streamer {
	s.mu.RLock()
	buf := s.buffer
	s.mu.RUnlock()

	if buf == nil || p.IsRest() {
		return beep.Silence(0)
	}

	src := beep.ResampleRatio(resampleQuality, s.Ratio(p, sr), buf.Streamer(0, buf.Len()))
	return newEnvelope(src, s.Gain, sr.N(s.Attack), sr.N(d), sr.N(s.Release))
}

// Fallback uses the sampler once it has loaded and the synth until then
type Fallback struct {
	Sampler *Sampler
	Synth   Instrument
}

func (f *Fallback) Name() string { return f.Sampler.Name() }

// Active returns whichever instrument would sound right now
func (f *Fallback) Active() Instrument {
	if f.Sampler.Loaded() {
		return f.Sampler
	}
	return f.Synth
}

func (f *Fallback) Voice(p note.Pitch, d time.Duration, sr beep.SampleRate) beep.Streamer {
	return f.Active().Voice(p, d, sr)
}
