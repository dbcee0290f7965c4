package sequencer

import (
	"sync"
	"time"

	"lehra/audio"
	"lehra/config"
	"lehra/debug"
	"lehra/note"
)

const DefaultTempo = 100

// Transport is the beat clock. Every quarter note it reads the current slot
// of its pattern, triggers the pitch for an eighth note if the slot is not a
// rest, and advances the index modulo the pattern length.
type Transport struct {
	mu       sync.Mutex
	out      Output
	pattern  Pattern
	tempo    int
	playing  bool
	index    int // next slot to play
	position int // last slot played, -1 when stopped

	stopChan  chan struct{}
	doneChan  chan struct{}
	tempoChan chan struct{}

	// Notify UI of ticks
	UpdateChan chan struct{}
}

func NewTransport(out Output) *Transport {
	return &Transport{
		out:        out,
		tempo:      DefaultTempo,
		position:   -1,
		tempoChan:  make(chan struct{}, 1),
		UpdateChan: make(chan struct{}, 1),
	}
}

// SetPattern swaps what is being played and restarts from its first beat
func (t *Transport) SetPattern(p Pattern) {
	t.mu.Lock()
	t.pattern = p
	t.index = 0
	t.position = -1
	t.mu.Unlock()
}

// Pattern returns the pattern currently loaded
func (t *Transport) Pattern() Pattern {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pattern
}

// SetTempo sets the BPM, clamped. While playing, the pending beat is
// rescheduled one new beat length after the last one.
func (t *Transport) SetTempo(bpm int) int {
	if bpm < config.MinTempo {
		bpm = config.MinTempo
	}
	if bpm > config.MaxTempo {
		bpm = config.MaxTempo
	}
	t.mu.Lock()
	t.tempo = bpm
	t.mu.Unlock()

	select {
	case t.tempoChan <- struct{}{}:
	default:
	}
	return bpm
}

func (t *Transport) Tempo() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tempo
}

func (t *Transport) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

// Position is the beat under the visual cursor, -1 when nothing has played
func (t *Transport) Position() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// Advance runs one tick. It returns the beat that was read and the pitch
// that was triggered (Rest if none).
func (t *Transport) Advance() (beat int, p note.Pitch) {
	t.mu.Lock()
	pat := t.pattern
	if pat == nil || pat.Len() == 0 {
		t.mu.Unlock()
		return -1, note.Rest
	}
	n := pat.Len()
	if t.index >= n {
		t.index %= n
	}
	beat = t.index
	p = pat.At(beat)
	t.position = beat
	t.index = (beat + 1) % n
	d := audio.NoteDuration(t.tempo)
	t.mu.Unlock()

	if !p.IsRest() && t.out != nil {
		t.out.Trigger(p, d)
	}
	debug.LogEvery(16, "clock", "beat=%d pitch=%s", beat, p)
	t.notify()
	return beat, p
}

// Play starts the clock from the first beat. The first tick is immediate.
func (t *Transport) Play() {
	t.mu.Lock()
	if t.playing {
		t.mu.Unlock()
		return
	}
	t.playing = true
	t.index = 0
	t.position = -1
	t.stopChan = make(chan struct{})
	t.doneChan = make(chan struct{})
	stop, done := t.stopChan, t.doneChan
	t.mu.Unlock()

	debug.Log("clock", "play tempo=%d", t.Tempo())
	go t.run(stop, done)
}

// Stop halts the clock and rewinds; it returns once the clock goroutine exits
func (t *Transport) Stop() {
	t.mu.Lock()
	if !t.playing {
		t.mu.Unlock()
		return
	}
	t.playing = false
	stop, done := t.stopChan, t.doneChan
	t.mu.Unlock()

	close(stop)
	<-done

	t.mu.Lock()
	t.index = 0
	t.position = -1
	t.mu.Unlock()
	debug.Log("clock", "stop")
	t.notify()
}

// Toggle flips between playing and stopped, returning the new state
func (t *Transport) Toggle() bool {
	if t.Playing() {
		t.Stop()
		return false
	}
	t.Play()
	return true
}

// run schedules beats against absolute deadlines so timer jitter does not
// accumulate. A tempo change moves the pending deadline to one new beat
// after the last beat played.
func (t *Transport) run(stop, done chan struct{}) {
	defer close(done)

	var last time.Time
	next := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.tempoChan:
			if last.IsZero() {
				continue
			}
			next = last.Add(audio.BeatDuration(t.Tempo()))
			timer.Reset(max(time.Until(next), 0))
			continue
		case <-timer.C:
		}

		last = next
		t.Advance()

		next = next.Add(audio.BeatDuration(t.Tempo()))
		wait := time.Until(next)
		if wait < 0 {
			// fell behind (suspended process, huge tempo jump): resync
			next = time.Now()
			wait = 0
		}
		timer.Reset(wait)
	}
}

func (t *Transport) notify() {
	select {
	case t.UpdateChan <- struct{}{}:
	default:
	}
}
