// Package catalog holds the static set of pre-written lehra loops and the
// taal/raga/instrument filter the loop player applies to it.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"lehra/note"
)

// All matches every value in a filter field
const All = "all"

// ErrNotFound is returned by Find when no loop has the requested id
var ErrNotFound = errors.New("loop not found")

//go:embed lehras.yaml
var builtin []byte

// Loop is one catalog entry
type Loop struct {
	ID         int
	Name       string
	Raga       string
	Taal       string
	Beats      int
	Instrument string
	Notes      note.Sequence
}

// Len and At let a Loop drive the transport directly
func (l Loop) Len() int { return l.Notes.Len() }
func (l Loop) At(i int) note.Pitch { return l.Notes.At(i) }
func (l Loop) Title() string { return fmt.Sprintf("%s (%s)", l.Name, l.Instrument) }

// loopFile is the YAML shape; notes are a single space separated string
type loopFile struct {
	ID         int    `yaml:"id"`
	Name       string `yaml:"name"`
	Raga       string `yaml:"raga"`
	Taal       string `yaml:"taal"`
	Beats      int    `yaml:"beats"`
	Instrument string `yaml:"instrument"`
	Notes      string `yaml:"notes"`
}

type catalogFile struct {
	Loops []loopFile `yaml:"loops"`
}

// Filter selects loops; each field is All or an exact value
type Filter struct {
	Taal       string
	Raga       string
	Instrument string
}

// NewFilter returns a filter that matches everything
func NewFilter() Filter {
	return Filter{Taal: All, Raga: All, Instrument: All}
}

// Match reports whether l passes all three criteria
func (f Filter) Match(l Loop) bool {
	return matches(f.Taal, l.Taal) &&
		matches(f.Raga, l.Raga) &&
		matches(f.Instrument, l.Instrument)
}

func matches(want, got string) bool {
	return want == "" || want == All || want == got
}

// Catalog is an immutable, id-ordered list of loops
type Catalog struct {
	loops []Loop
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

// Load reads a YAML catalog
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadFile reads a YAML catalog from disk
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	c := &Catalog{}
	for _, lf := range file.Loops {
		if seen[lf.ID] {
			return nil, fmt.Errorf("duplicate loop id %d", lf.ID)
		}
		seen[lf.ID] = true

		notes, err := note.ParseSequence(lf.Notes)
		if err != nil {
			return nil, fmt.Errorf("loop %d (%s): %w", lf.ID, lf.Name, err)
		}
		if lf.Beats <= 0 {
			lf.Beats = len(notes)
		}
		if len(notes) != lf.Beats {
			return nil, fmt.Errorf("loop %d (%s): %d notes for %d beats", lf.ID, lf.Name, len(notes), lf.Beats)
		}

		c.loops = append(c.loops, Loop{
			ID:         lf.ID,
			Name:       lf.Name,
			Raga:       lf.Raga,
			Taal:       lf.Taal,
			Beats:      lf.Beats,
			Instrument: lf.Instrument,
			Notes:      notes,
		})
	}

	sort.SliceStable(c.loops, func(i, j int) bool { return c.loops[i].ID < c.loops[j].ID })
	return c, nil
}

// Loops returns all loops
func (c *Catalog) Loops() []Loop {
	out := make([]Loop, len(c.loops))
	copy(out, c.loops)
	return out
}

// Filter returns the loops matching f, in catalog order
func (c *Catalog) Filter(f Filter) []Loop {
	var out []Loop
	for _, l := range c.loops {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// Find returns the loop with the given id
func (c *Catalog) Find(id int) (Loop, error) {
	for _, l := range c.loops {
		if l.ID == id {
			return l, nil
		}
	}
	return Loop{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
}

// Taals, Ragas and Instruments list the distinct values, sorted

func (c *Catalog) Taals() []string {
	return c.distinct(func(l Loop) string { return l.Taal })
}

func (c *Catalog) Ragas() []string {
	return c.distinct(func(l Loop) string { return l.Raga })
}

func (c *Catalog) Instruments() []string {
	return c.distinct(func(l Loop) string { return l.Instrument })
}

func (c *Catalog) distinct(field func(Loop) string) []string {
	set := make(map[string]bool)
	var out []string
	for _, l := range c.loops {
		v := field(l)
		if v == "" || set[v] {
			continue
		}
		set[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
