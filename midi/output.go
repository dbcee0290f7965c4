package midi

import (
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"lehra/debug"
	"lehra/note"
)

const (
	velocity      = 100
	ccAllNotesOff = 123
)

// Output plays notes on one channel of a MIDI port. Each Trigger sends a
// note on and schedules the matching note off.
type Output struct {
	name    string
	channel uint8 // 0-based

	mu     sync.Mutex
	send   func(gomidi.Message) error
	closer func() error
	timers map[*time.Timer]struct{}
	closed bool
}

// OpenOutput opens the port matching name. Channel is 1-16.
func OpenOutput(name string, channel int) (*Output, error) {
	port, err := findOut(name)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", port, err)
	}
	o := newOutput(port.String(), channel, send)
	o.closer = port.Close
	debug.Log("midi", "output %s ch=%d", o.name, o.channel+1)
	return o, nil
}

func newOutput(name string, channel int, send func(gomidi.Message) error) *Output {
	if channel < 1 {
		channel = 1
	}
	if channel > 16 {
		channel = 16
	}
	return &Output{
		name:    name,
		channel: uint8(channel - 1),
		send:    send,
		timers:  make(map[*time.Timer]struct{}),
	}
}

func (o *Output) Name() string { return o.name }

// Trigger sends p now and releases it after d. Rests are ignored.
func (o *Output) Trigger(p note.Pitch, d time.Duration) {
	if p.IsRest() || p > note.MaxPitch {
		return
	}
	key := uint8(p)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	if err := o.send(gomidi.NoteOn(o.channel, key, velocity)); err != nil {
		debug.Log("midi", "note on %s: %v", p, err)
		return
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.timers, t)
		if o.closed {
			return
		}
		o.send(gomidi.NoteOff(o.channel, key))
	})
	o.timers[t] = struct{}{}
}

// Close silences the channel and releases the port
func (o *Output) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	for t := range o.timers {
		t.Stop()
	}
	o.timers = nil
	o.send(gomidi.ControlChange(o.channel, ccAllNotesOff, 0))
	closer := o.closer
	o.mu.Unlock()

	if closer != nil {
		return closer()
	}
	return nil
}
