package note

import (
	"fmt"
	"strings"
)

// Sequence is one slot per beat. Rest slots are silent.
type Sequence []Pitch

// NewSequence returns n rests
func NewSequence(n int) Sequence {
	s := make(Sequence, n)
	for i := range s {
		s[i] = Rest
	}
	return s
}

// ParseSequence reads whitespace separated pitches; "-", "." and "~" are rests
func ParseSequence(text string) (Sequence, error) {
	fields := strings.Fields(text)
	seq := make(Sequence, 0, len(fields))
	for i, f := range fields {
		switch f {
		case "-", ".", "~":
			seq = append(seq, Rest)
			continue
		}
		p, err := Parse(f)
		if err != nil {
			return nil, fmt.Errorf("beat %d: %w", i+1, err)
		}
		seq = append(seq, p)
	}
	return seq, nil
}

func (s Sequence) Len() int {
	return len(s)
}

// At returns the pitch at beat i, or Rest if i is out of range
func (s Sequence) At(i int) Pitch {
	if i < 0 || i >= len(s) {
		return Rest
	}
	return s[i]
}

// Empty reports whether every slot is a rest
func (s Sequence) Empty() bool {
	for _, p := range s {
		if !p.IsRest() {
			return false
		}
	}
	return true
}

// Notes counts the non-rest slots
func (s Sequence) Notes() int {
	n := 0
	for _, p := range s {
		if !p.IsRest() {
			n++
		}
	}
	return n
}

func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, p := range s {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}
