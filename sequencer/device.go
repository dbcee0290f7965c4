package sequencer

import "lehra/note"

// Device is one page of the app: it renders itself, takes keys, and names the
// pattern the transport should loop when play is pressed while it has focus.
type Device interface {
	Name() string
	View() string
	HandleKey(key string)

	// Pattern to loop, nil if there is nothing to play
	Pattern() Pattern
}

// NoteReceiver is a device that accepts pitches from a MIDI keyboard
type NoteReceiver interface {
	HandleNote(p note.Pitch)
}
