package sequencer

import (
	"sync"

	"lehra/config"
	"lehra/note"
)

const DefaultBeats = 16

// Composition is the composer's monophonic melody: one optional pitch per
// beat. The backing store always holds MaxBeats slots so shrinking the beat
// count hides notes instead of discarding them.
type Composition struct {
	mu    sync.RWMutex
	slots [config.MaxBeats]note.Pitch
	beats int
}

func NewComposition(beats int) *Composition {
	c := &Composition{}
	for i := range c.slots {
		c.slots[i] = note.Rest
	}
	c.beats = clampBeats(beats)
	return c
}

func clampBeats(n int) int {
	if n < config.MinBeats {
		return config.MinBeats
	}
	if n > config.MaxBeats {
		return config.MaxBeats
	}
	return n
}

// Len is the number of visible beats
func (c *Composition) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.beats
}

// At returns the pitch on beat i, Rest when empty or out of range
func (c *Composition) At(i int) note.Pitch {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= c.beats {
		return note.Rest
	}
	return c.slots[i]
}

// Toggle selects p on beat. A beat holds one pitch: picking the pitch that is
// already there clears the beat, any other pitch replaces it. Returns whether
// p is now set.
func (c *Composition) Toggle(p note.Pitch, beat int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if beat < 0 || beat >= c.beats || p.IsRest() {
		return false
	}
	if c.slots[beat] == p {
		c.slots[beat] = note.Rest
		return false
	}
	c.slots[beat] = p
	return true
}

// Set assigns p (or Rest) to beat directly
func (c *Composition) Set(beat int, p note.Pitch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if beat < 0 || beat >= c.beats {
		return
	}
	if p.IsRest() {
		p = note.Rest
	}
	c.slots[beat] = p
}

// Clear empties every slot, hidden ones included
func (c *Composition) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.slots {
		c.slots[i] = note.Rest
	}
}

// Resize changes the visible beat count; returns the clamped value
func (c *Composition) Resize(beats int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beats = clampBeats(beats)
	return c.beats
}

// Snapshot copies the visible beats
func (c *Composition) Snapshot() note.Sequence {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return note.Sequence(c.slots[:c.beats]).Clone()
}

// Load replaces the composition with seq; its length becomes the beat count
func (c *Composition) Load(seq note.Sequence) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.slots {
		c.slots[i] = note.Rest
		if i < len(seq) && !seq[i].IsRest() {
			c.slots[i] = seq[i]
		}
	}
	c.beats = clampBeats(len(seq))
}

// Empty reports whether no visible beat holds a pitch
func (c *Composition) Empty() bool {
	return c.Snapshot().Empty()
}
