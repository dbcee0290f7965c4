package note

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Pitch is a MIDI note number. Rest marks an empty beat.
type Pitch int

const Rest Pitch = -1

const (
	MinPitch Pitch = 0
	MaxPitch Pitch = 127
	MiddleC  Pitch = 60 // C4
)

// Spelling used for display, matching the composer grid
var names = [12]string{"C", "Db", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

var letters = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// Parse reads scientific pitch notation: C4, F#4, Db4, Bb3, C-1
func Parse(s string) (Pitch, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Rest, fmt.Errorf("invalid pitch %q", s)
	}

	class, ok := letters[strings.ToUpper(s[:1])[0]]
	if !ok {
		return Rest, fmt.Errorf("invalid pitch %q: unknown note letter", s)
	}

	i := 1
	for ; i < len(s); i++ {
		switch s[i] {
		case '#':
			class++
			continue
		case 'b':
			class--
			continue
		}
		break
	}

	// Atoi would take "+4" as 4
	if strings.HasPrefix(s[i:], "+") {
		return Rest, fmt.Errorf("invalid pitch %q: bad octave", s)
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return Rest, fmt.Errorf("invalid pitch %q: bad octave", s)
	}

	p := Pitch((octave+1)*12 + class)
	if p < MinPitch || p > MaxPitch {
		return Rest, fmt.Errorf("pitch %q out of MIDI range", s)
	}
	return p, nil
}

// MustParse is Parse for literals
func MustParse(s string) Pitch {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pitch) IsRest() bool {
	return p < MinPitch || p > MaxPitch
}

// Class returns 0 (C) through 11 (B)
func (p Pitch) Class() int {
	return int(p) % 12
}

func (p Pitch) Octave() int {
	return int(p)/12 - 1
}

func (p Pitch) String() string {
	if p.IsRest() {
		return "-"
	}
	return names[p.Class()] + strconv.Itoa(p.Octave())
}

// Frequency in Hz, A4 = 440
func (p Pitch) Frequency() float64 {
	return 440 * math.Pow(2, float64(p-69)/12)
}

func (p Pitch) MarshalJSON() ([]byte, error) {
	if p.IsRest() {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

func (p *Pitch) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Rest
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
