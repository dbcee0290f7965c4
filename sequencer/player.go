package sequencer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lehra/catalog"
	"lehra/note"
	"lehra/widgets"
)

// Filter fields the player cycles through
const (
	FilterTaal = iota
	FilterRaga
	FilterInstrument
	numFilters
)

var filterNames = [numFilters]string{"Taal", "Raga", "Instrument"}

// DefaultInstrumentFilter is the instrument the player opens on
const DefaultInstrumentFilter = "harmonium"

// PlayerDevice browses the catalog and loops the chosen lehra
type PlayerDevice struct {
	manager *Manager
	catalog *catalog.Catalog

	options  [numFilters][]string // "all" first
	selected [numFilters]int

	results []catalog.Loop
	cursor  int
	loaded  *catalog.Loop
}

func NewPlayerDevice(manager *Manager, cat *catalog.Catalog) *PlayerDevice {
	p := &PlayerDevice{
		manager: manager,
		catalog: cat,
	}
	p.options[FilterTaal] = append([]string{catalog.All}, cat.Taals()...)
	p.options[FilterRaga] = append([]string{catalog.All}, cat.Ragas()...)
	p.options[FilterInstrument] = append([]string{catalog.All}, cat.Instruments()...)
	for i, name := range p.options[FilterInstrument] {
		if name == DefaultInstrumentFilter {
			p.selected[FilterInstrument] = i
		}
	}
	p.refresh()
	return p
}

func (p *PlayerDevice) Name() string { return "player" }

// Filter is the current filter selection
func (p *PlayerDevice) Filter() catalog.Filter {
	return catalog.Filter{
		Taal:       p.options[FilterTaal][p.selected[FilterTaal]],
		Raga:       p.options[FilterRaga][p.selected[FilterRaga]],
		Instrument: p.options[FilterInstrument][p.selected[FilterInstrument]],
	}
}

// Cycle moves filter field by delta through its options, wrapping
func (p *PlayerDevice) Cycle(field, delta int) {
	if field < 0 || field >= numFilters {
		return
	}
	n := len(p.options[field])
	p.selected[field] = ((p.selected[field]+delta)%n + n) % n
	p.changed(field)
}

// SetFilter selects value for field; unknown values leave it unchanged
func (p *PlayerDevice) SetFilter(field int, value string) bool {
	if field < 0 || field >= numFilters {
		return false
	}
	for i, opt := range p.options[field] {
		if opt == value {
			p.selected[field] = i
			p.changed(field)
			return true
		}
	}
	return false
}

// ResetFilters sets every field back to "all"
func (p *PlayerDevice) ResetFilters() {
	p.selected = [numFilters]int{}
	p.refresh()
}

// changed refreshes the results; picking a concrete instrument also
// switches the sound to it
func (p *PlayerDevice) changed(field int) {
	if field == FilterInstrument {
		if name := p.Filter().Instrument; name != catalog.All {
			p.manager.SelectInstrument(name)
		}
	}
	p.refresh()
}

func (p *PlayerDevice) refresh() {
	p.results = p.catalog.Filter(p.Filter())
	if p.cursor >= len(p.results) {
		p.cursor = max(0, len(p.results)-1)
	}
}

// Results are the loops matching the filter, in catalog order
func (p *PlayerDevice) Results() []catalog.Loop {
	return p.results
}

// Loaded is the loop last loaded, nil if none
func (p *PlayerDevice) Loaded() *catalog.Loop {
	return p.loaded
}

// LoadLoop replaces the playing sequence with loop id, switches to the loop's
// instrument and plays it from the first beat.
func (p *PlayerDevice) LoadLoop(id int) error {
	l, err := p.catalog.Find(id)
	if err != nil {
		p.manager.SetStatus("Loop %d not found", id)
		return err
	}
	p.loaded = &l
	p.manager.SelectInstrument(l.Instrument)
	p.manager.Play(p.loaded)
	p.manager.SetStatus("Now playing: %s", l.Title())
	return nil
}

// LoadSelected loads the loop under the cursor
func (p *PlayerDevice) LoadSelected() error {
	if len(p.results) == 0 {
		return catalog.ErrNotFound
	}
	return p.LoadLoop(p.results[p.cursor].ID)
}

func (p *PlayerDevice) Pattern() Pattern {
	if p.loaded == nil {
		return nil
	}
	return p.loaded
}

func (p *PlayerDevice) HandleKey(key string) {
	switch key {
	case "j", "down":
		if p.cursor < len(p.results)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "g", "home":
		p.cursor = 0
	case "G", "end":
		p.cursor = max(0, len(p.results)-1)
	case "t":
		p.Cycle(FilterTaal, 1)
	case "T":
		p.Cycle(FilterTaal, -1)
	case "r":
		p.Cycle(FilterRaga, 1)
	case "R":
		p.Cycle(FilterRaga, -1)
	case "i":
		p.Cycle(FilterInstrument, 1)
	case "I":
		p.Cycle(FilterInstrument, -1)
	case "a":
		p.ResetFilters()
	case "enter", " ":
		p.LoadSelected()
	}
}

func (p *PlayerDevice) View() string {
	th := p.manager.Theme()
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(th.Muted())
	valueStyle := lipgloss.NewStyle().Foreground(th.FG())
	cursorStyle := lipgloss.NewStyle().Foreground(th.Cursor())
	playingStyle := lipgloss.NewStyle().Foreground(th.Active())

	var out strings.Builder
	out.WriteString(headerStyle.Render("PLAYER"))
	for f := 0; f < numFilters; f++ {
		out.WriteString("  ")
		out.WriteString(labelStyle.Render(filterNames[f] + ":"))
		out.WriteString(" ")
		out.WriteString(valueStyle.Render(p.options[f][p.selected[f]]))
	}
	out.WriteString(labelStyle.Render(fmt.Sprintf("  (%d)", len(p.results))))
	out.WriteString("\n\n")

	if len(p.results) == 0 {
		out.WriteString("  No loops found matching all criteria.\n")
	}
	for i, l := range p.results {
		marker := ' '
		if i == p.cursor {
			marker = th.Symbols.Selected
		}
		playing := ' '
		if p.loaded != nil && p.loaded.ID == l.ID {
			playing = th.Symbols.Playing
		}
		line := fmt.Sprintf("%c %c %3d  %-22s %-9s %-9s %2d beats  %s",
			marker, playing, l.ID, l.Name, l.Raga, l.Taal, l.Beats, l.Instrument)
		switch {
		case i == p.cursor:
			line = cursorStyle.Render(line)
		case playing != ' ':
			line = playingStyle.Render(line)
		}
		out.WriteString(line + "\n")
	}

	out.WriteString("\n")
	if p.loaded == nil {
		out.WriteString(labelStyle.Render("Nothing loaded"))
	} else {
		out.WriteString(labelStyle.Render("Now playing: "))
		out.WriteString(valueStyle.Render(p.loaded.Title()))
		out.WriteString("\n")
		out.WriteString(p.renderBeats())
	}

	out.WriteString("\n\n")
	out.WriteString(widgets.RenderKeyColumns([]widgets.KeySection{
		{Title: "Browse", Keys: []widgets.KeyBinding{
			{Key: "j / k", Desc: "move"},
			{Key: "enter", Desc: "load & play"},
		}},
		{Title: "Filter", Keys: []widgets.KeyBinding{
			{Key: "t / T", Desc: "taal"},
			{Key: "r / R", Desc: "raga"},
			{Key: "i / I", Desc: "instrument"},
			{Key: "a", Desc: "show all"},
		}},
	}))
	return out.String()
}

// renderBeats shows the loaded loop as sargam with the playhead highlighted
func (p *PlayerDevice) renderBeats() string {
	th := p.manager.Theme()
	dim := lipgloss.NewStyle().Foreground(th.Muted())
	on := lipgloss.NewStyle().Foreground(th.FG())
	head := lipgloss.NewStyle().Foreground(th.BG()).Background(th.Accent())

	pos := -1
	if p.manager.IsPlaying(p.loaded) {
		pos = p.manager.Transport().Position()
	}

	cells := make([]string, p.loaded.Len())
	for i := range cells {
		pitch := p.loaded.At(i)
		label := "-"
		if !pitch.IsRest() {
			label = note.Label(pitch)
		}
		style := on
		if pitch.IsRest() {
			style = dim
		}
		if i == pos {
			style = head
		}
		cells[i] = style.Render(fmt.Sprintf("%-4s", label))
	}
	return strings.Join(cells, " ")
}
