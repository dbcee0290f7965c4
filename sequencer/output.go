package sequencer

import (
	"time"

	"lehra/audio"
	"lehra/note"
)

// Output is anything that can sound a note: the audio engine, a MIDI port
type Output interface {
	Trigger(p note.Pitch, d time.Duration)
}

// Outputs fans one trigger out to several outputs
type Outputs []Output

func (o Outputs) Trigger(p note.Pitch, d time.Duration) {
	for _, out := range o {
		if out != nil {
			out.Trigger(p, d)
		}
	}
}

// Pattern is what the transport steps through
type Pattern = audio.Pattern
