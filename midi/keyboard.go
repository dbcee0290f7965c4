package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"

	"lehra/debug"
	"lehra/note"
)

// Keyboard handles a standard MIDI keyboard (input only)
type Keyboard struct {
	name     string
	stopFunc func()

	mu       sync.Mutex
	noteChan chan note.Pitch
	closed   bool
}

// OpenKeyboard listens to the input port matching name
func OpenKeyboard(name string) (*Keyboard, error) {
	port, err := findIn(name)
	if err != nil {
		return nil, err
	}

	kb := newKeyboard(port.String())
	stop, err := gomidi.ListenTo(port, kb.handle)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	kb.stopFunc = stop
	debug.Log("midi", "keyboard %s", kb.name)
	return kb, nil
}

func newKeyboard(name string) *Keyboard {
	return &Keyboard{
		name:     name,
		noteChan: make(chan note.Pitch, 32),
	}
}

func (kb *Keyboard) Name() string { return kb.name }

// handle forwards key presses; releases and everything else are dropped
func (kb *Keyboard) handle(msg gomidi.Message, timestampms int32) {
	var channel, key, vel uint8
	if msg.GetNoteOn(&channel, &key, &vel) && vel > 0 {
		kb.mu.Lock()
		defer kb.mu.Unlock()
		if kb.closed {
			return
		}
		select {
		case kb.noteChan <- note.Pitch(key):
		default:
		}
	}
}

// Notes delivers a pitch per key press
func (kb *Keyboard) Notes() <-chan note.Pitch {
	return kb.noteChan
}

// Close stops listening. A driver callback still in flight is dropped.
func (kb *Keyboard) Close() error {
	kb.mu.Lock()
	if kb.closed {
		kb.mu.Unlock()
		return nil
	}
	kb.closed = true
	close(kb.noteChan)
	kb.mu.Unlock()

	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	return nil
}
