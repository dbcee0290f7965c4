// Package midi connects lehra to external MIDI gear: an output port that
// doubles the audio engine and a keyboard used for step entry.
package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

var (
	ErrPortNotFound    = errors.New("midi port not found")
	ErrPortScanTimeout = errors.New("midi port scan timed out")
)

// DefaultScanTimeout bounds a port scan (CoreMIDI can hang)
const DefaultScanTimeout = 3 * time.Second

// Ports is a snapshot of the port names on the system
type Ports struct {
	In  []string
	Out []string
}

type portsResult struct {
	inPorts  []drivers.In
	outPorts []drivers.Out
}

// scan lists ports, giving up after timeout
func scan(timeout time.Duration) (portsResult, error) {
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{
			inPorts:  gomidi.GetInPorts(),
			outPorts: gomidi.GetOutPorts(),
		}
	}()

	select {
	case result := <-ch:
		return result, nil
	case <-time.After(timeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return portsResult{}, ErrPortScanTimeout
	}
}

// ListPorts returns the names of all input and output ports
func ListPorts(timeout time.Duration) (Ports, error) {
	res, err := scan(timeout)
	if err != nil {
		return Ports{}, err
	}
	var p Ports
	for _, in := range res.inPorts {
		p.In = append(p.In, in.String())
	}
	for _, out := range res.outPorts {
		p.Out = append(p.Out, out.String())
	}
	return p, nil
}

// matchPort reports whether portName is what the user asked for: an exact
// name wins, otherwise a case-insensitive substring
func matchPort(want, portName string) bool {
	if want == "" {
		return false
	}
	return strings.Contains(strings.ToLower(portName), strings.ToLower(want))
}

func pickPort(want string, names []string) int {
	for i, name := range names {
		if name == want {
			return i
		}
	}
	for i, name := range names {
		if matchPort(want, name) {
			return i
		}
	}
	return -1
}

func findOut(want string) (drivers.Out, error) {
	res, err := scan(DefaultScanTimeout)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(res.outPorts))
	for i, p := range res.outPorts {
		names[i] = p.String()
	}
	i := pickPort(want, names)
	if i < 0 {
		return nil, fmt.Errorf("output %q: %w", want, ErrPortNotFound)
	}
	return res.outPorts[i], nil
}

func findIn(want string) (drivers.In, error) {
	res, err := scan(DefaultScanTimeout)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(res.inPorts))
	for i, p := range res.inPorts {
		names[i] = p.String()
	}
	i := pickPort(want, names)
	if i < 0 {
		return nil, fmt.Errorf("input %q: %w", want, ErrPortNotFound)
	}
	return res.inPorts[i], nil
}
