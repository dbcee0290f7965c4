// Package audio renders notes with gopxl/beep: oscillator and sample-based
// instruments, a speaker-backed engine for live playback, and an offline
// renderer used for export.
package audio

import (
	"sort"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"lehra/debug"
	"lehra/note"
)

// Instrument names
const (
	Harmonium = "harmonium"
	Sarangi   = "sarangi"
	SynthName = "synth"
)

// DefaultSampleRate for the speaker and for rendered files
const DefaultSampleRate beep.SampleRate = 44100

// Bank hands out instruments by name. Sampled instruments start loading
// their wav in the background the first time they are asked for.
type Bank struct {
	dir string

	mu          sync.Mutex
	instruments map[string]Instrument
	loading     sync.WaitGroup
}

func NewBank(samplesDir string) *Bank {
	return &Bank{
		dir:         samplesDir,
		instruments: make(map[string]Instrument),
	}
}

// Names lists the selectable instruments
func Names() []string {
	return []string{Harmonium, Sarangi, SynthName}
}

// synthFor picks a fallback timbre that roughly resembles the instrument
func synthFor(name string) *Synth {
	switch name {
	case Harmonium:
		return NewSynth(name, Reed)
	case Sarangi:
		s := NewSynth(name, Saw)
		s.Gain = 0.2
		s.Attack = 30 * time.Millisecond
		return s
	}
	return NewSynth(name, Triangle)
}

// Get returns the named instrument, creating it on first use
func (b *Bank) Get(name string) Instrument {
	b.mu.Lock()
	defer b.mu.Unlock()

	if inst, ok := b.instruments[name]; ok {
		return inst
	}

	var inst Instrument
	if name == SynthName {
		inst = NewSynth(SynthName, Triangle)
	} else {
		sampler := NewSampler(name)
		inst = &Fallback{Sampler: sampler, Synth: synthFor(name)}

		path := SamplePath(b.dir, name)
		b.loading.Add(1)
		go func() {
			defer b.loading.Done()
			if err := sampler.Load(path); err != nil {
				debug.Log("audio", "%s: sample not loaded, using synth: %v", name, err)
				return
			}
			debug.Log("audio", "%s loaded from %s", name, path)
		}()
	}
	b.instruments[name] = inst
	return inst
}

// Wait blocks until background sample loads have finished
func (b *Bank) Wait() {
	b.loading.Wait()
}

// Loaded lists instrument names whose samples are ready
func (b *Bank) Loaded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for name, inst := range b.instruments {
		if fb, ok := inst.(*Fallback); ok && fb.Sampler.Loaded() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Engine plays voices of the current instrument on the speaker
type Engine struct {
	bank *Bank
	sr   beep.SampleRate

	mu         sync.RWMutex
	name       string
	instrument Instrument

	play    func(beep.Streamer)
	started bool
}

func NewEngine(bank *Bank, sr beep.SampleRate, instrument string) *Engine {
	e := &Engine{
		bank: bank,
		sr:   sr,
		play: func(beep.Streamer) {},
	}
	e.Select(instrument)
	return e
}

// Start opens the audio device. Until it is called voices are discarded.
func (e *Engine) Start(latency time.Duration) error {
	if err := speaker.Init(e.sr, e.sr.N(latency)); err != nil {
		return err
	}
	e.mu.Lock()
	e.play = func(s beep.Streamer) { speaker.Play(s) }
	e.started = true
	e.mu.Unlock()
	return nil
}

// Close releases the audio device
func (e *Engine) Close() {
	e.mu.Lock()
	started := e.started
	e.started = false
	e.play = func(beep.Streamer) {}
	e.mu.Unlock()
	if started {
		speaker.Clear()
		speaker.Close()
	}
}

// SetPlayer replaces where voices go (tests, offline use)
func (e *Engine) SetPlayer(play func(beep.Streamer)) {
	e.mu.Lock()
	e.play = play
	e.mu.Unlock()
}

// Select switches the current instrument by name
func (e *Engine) Select(name string) {
	inst := e.bank.Get(name)
	e.mu.Lock()
	e.name = name
	e.instrument = inst
	e.mu.Unlock()
	debug.Log("audio", "instrument -> %s", name)
}

// Current returns the selected instrument and its name
func (e *Engine) Current() (string, Instrument) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.name, e.instrument
}

func (e *Engine) SampleRate() beep.SampleRate {
	return e.sr
}

// Trigger plays p for d on the current instrument. Rests are ignored.
func (e *Engine) Trigger(p note.Pitch, d time.Duration) {
	if p.IsRest() {
		return
	}
	e.mu.RLock()
	inst, play := e.instrument, e.play
	e.mu.RUnlock()

	play(inst.Voice(p, d, e.sr))
}
