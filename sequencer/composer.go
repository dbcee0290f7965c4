package sequencer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lehra/audio"
	"lehra/export"
	"lehra/note"
	"lehra/widgets"
)

// Rows of the pitch grid shown at once
const ComposerRows = 24

// ComposerDevice is the step grid: one column per beat, one row per
// semitone, at most one lit cell per column.
type ComposerDevice struct {
	manager *Manager
	comp    *Composition
	rows    []note.Row

	row  int // cursor row into rows
	beat int // cursor column
	top  int // first visible row
}

func NewComposerDevice(manager *Manager, comp *Composition) *ComposerDevice {
	c := &ComposerDevice{
		manager: manager,
		comp:    comp,
		rows:    note.DefaultGrid(),
	}
	if r := note.RowOf(c.rows, note.MiddleC); r >= 0 {
		c.row = r
	}
	c.top = c.row - ComposerRows/2
	c.scroll()
	return c
}

func (c *ComposerDevice) Name() string { return "composer" }

// Composition is the melody being edited
func (c *ComposerDevice) Composition() *Composition { return c.comp }

func (c *ComposerDevice) Pattern() Pattern { return c.comp }

// Cursor returns the beat and pitch under the cursor
func (c *ComposerDevice) Cursor() (beat int, p note.Pitch) {
	return c.beat, c.rows[c.row].Pitch
}

// MoveTo puts the cursor on beat and the row of p; false if p is off the grid
func (c *ComposerDevice) MoveTo(beat int, p note.Pitch) bool {
	r := note.RowOf(c.rows, p)
	if r < 0 {
		return false
	}
	c.row = r
	c.beat = max(0, min(beat, c.comp.Len()-1))
	c.scroll()
	return true
}

// Toggle flips the cell under the cursor, sounding the note when it turns on
func (c *ComposerDevice) Toggle() bool {
	p := c.rows[c.row].Pitch
	on := c.comp.Toggle(p, c.beat)
	if on {
		c.manager.Preview(p)
	}
	return on
}

// HandleNote enters p on the cursor beat and steps to the next beat
func (c *ComposerDevice) HandleNote(p note.Pitch) {
	c.comp.Set(c.beat, p)
	c.manager.Preview(p)
	// off-grid pitches are stored but leave the row alone
	c.MoveTo(c.beat, p)
	c.beat = (c.beat + 1) % c.comp.Len()
}

// Resize changes the beat count by delta
func (c *ComposerDevice) Resize(delta int) int {
	n := c.comp.Resize(c.comp.Len() + delta)
	if c.beat >= n {
		c.beat = n - 1
	}
	return n
}

// NextInstrument cycles harmonium, sarangi, synth
func (c *ComposerDevice) NextInstrument() string {
	names := audio.Names()
	current := c.manager.Instrument()
	next := names[0]
	for i, name := range names {
		if name == current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	c.manager.SelectInstrument(next)
	return next
}

// Save writes the composition with the current tempo and instrument
func (c *ComposerDevice) Save() (string, error) {
	dir := c.manager.compositionsDir
	if dir == "" {
		err := errors.New("no compositions directory configured")
		c.manager.SetStatus("Save failed: %v", err)
		return "", err
	}
	path, err := SaveComposition(dir, CompositionFile{
		Tempo:      c.manager.transport.Tempo(),
		Instrument: c.manager.Instrument(),
		Notes:      c.comp.Snapshot(),
	})
	if err != nil {
		c.manager.SetStatus("Save failed: %v", err)
		return "", err
	}
	c.manager.SetStatus("Saved %s", filepath.Base(path))
	return path, nil
}

// Open loads a saved composition, restoring its tempo and instrument
func (c *ComposerDevice) Open(path string) error {
	f, err := LoadComposition(path)
	if err != nil {
		c.manager.SetStatus("Load failed: %v", err)
		return err
	}
	c.comp.Load(f.Notes)
	if f.Tempo > 0 {
		c.manager.SetTempo(f.Tempo)
	}
	if f.Instrument != "" {
		c.manager.SelectInstrument(f.Instrument)
	}
	if c.beat >= c.comp.Len() {
		c.beat = c.comp.Len() - 1
	}
	c.manager.SetStatus("Loaded %s", filepath.Base(path))
	return nil
}

// OpenLatest loads the newest saved composition
func (c *ComposerDevice) OpenLatest() error {
	path, err := LatestComposition(c.manager.compositionsDir)
	if err != nil {
		c.manager.SetStatus("Load failed: %v", err)
		return err
	}
	return c.Open(path)
}

func (c *ComposerDevice) HandleKey(key string) {
	switch key {
	case "h", "left":
		if c.beat > 0 {
			c.beat--
		}
	case "l", "right":
		if c.beat < c.comp.Len()-1 {
			c.beat++
		}
	case "k", "up":
		if c.row > 0 {
			c.row--
			c.scroll()
		}
	case "j", "down":
		if c.row < len(c.rows)-1 {
			c.row++
			c.scroll()
		}
	case "K", "pgup":
		c.row = max(0, c.row-12)
		c.scroll()
	case "J", "pgdown":
		c.row = min(len(c.rows)-1, c.row+12)
		c.scroll()
	case "0", "home":
		c.beat = 0
	case "$", "end":
		c.beat = c.comp.Len() - 1
	case " ", "enter":
		c.Toggle()
	case "d", "backspace", "delete":
		c.comp.Set(c.beat, note.Rest)
	case "c":
		c.comp.Clear()
		c.manager.SetStatus("Cleared")
	case "[":
		c.manager.SetStatus("%d beats", c.Resize(-1))
	case "]":
		c.manager.SetStatus("%d beats", c.Resize(1))
	case "i":
		c.NextInstrument()
	case "x":
		c.manager.Export(c.comp.Snapshot(), export.FormatWAV)
	case "m":
		c.manager.Export(c.comp.Snapshot(), export.FormatMIDI)
	case "w":
		c.Save()
	case "o":
		c.OpenLatest()
	}
}

// scroll keeps the cursor row inside the viewport
func (c *ComposerDevice) scroll() {
	if c.row < c.top {
		c.top = c.row
	}
	if c.row >= c.top+ComposerRows {
		c.top = c.row - ComposerRows + 1
	}
	c.top = max(0, min(c.top, len(c.rows)-ComposerRows))
}

func (c *ComposerDevice) View() string {
	th := c.manager.Theme()
	sym := th.Symbols
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(th.FG())
	saStyle := lipgloss.NewStyle().Foreground(th.Accent())
	activeStyle := lipgloss.NewStyle().Foreground(th.Active())
	cursorStyle := lipgloss.NewStyle().Foreground(th.Cursor())
	soundingStyle := lipgloss.NewStyle().Foreground(th.Success()).Bold(true)
	playheadStyle := lipgloss.NewStyle().Foreground(th.Accent())

	beats := c.comp.Len()
	pos := -1
	if c.manager.IsPlaying(c.comp) {
		pos = c.manager.Transport().Position()
	}

	var out strings.Builder
	out.WriteString(headerStyle.Render("COMPOSER"))
	out.WriteString(fgStyle.Render(fmt.Sprintf("  %d beats  %s", beats, c.manager.Instrument())))
	if c.comp.Empty() {
		out.WriteString(dimStyle.Render("  (empty)"))
	}
	out.WriteString("\n\n")

	// Beat numbers every 4 beats, aligned over the cells
	const labelWidth = 10
	ruler := []byte(strings.Repeat(" ", labelWidth+beats*2))
	for b := 0; b < beats; b += 4 {
		copy(ruler[labelWidth+b*2:], fmt.Sprintf("%d", b+1))
	}
	out.WriteString(dimStyle.Render(strings.TrimRight(string(ruler), " ")))
	out.WriteString("\n")

	if c.top > 0 {
		out.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d more", c.top)))
	}
	out.WriteString("\n")

	end := min(len(c.rows), c.top+ComposerRows)
	for r := c.top; r < end; r++ {
		row := c.rows[r]
		label := fmt.Sprintf("%-5s%-4s ", row.Label, row.Pitch)
		if row.Pitch.Class() == 0 {
			out.WriteString(saStyle.Render(label))
		} else {
			out.WriteString(dimStyle.Render(label))
		}

		for b := 0; b < beats; b++ {
			active := c.comp.At(b) == row.Pitch
			cursor := r == c.row && b == c.beat
			playhead := b == pos

			var ch rune
			var style lipgloss.Style
			switch {
			case cursor && active:
				ch, style = sym.CursorActive, cursorStyle
			case cursor:
				ch, style = sym.CursorEmpty, cursorStyle
			case active && playhead:
				ch, style = sym.StepSounding, soundingStyle
			case active:
				ch, style = sym.StepActive, activeStyle
			case playhead:
				ch, style = sym.StepPlayhead, playheadStyle
			case b%4 == 0:
				ch, style = sym.StepEmpty, fgStyle
			default:
				ch, style = sym.StepEmpty, dimStyle
			}
			out.WriteString(style.Render(string(ch)))
			out.WriteString(" ")
		}
		out.WriteString("\n")
	}

	if below := len(c.rows) - end; below > 0 {
		out.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d more", below)))
	}
	out.WriteString("\n")

	beat, p := c.Cursor()
	out.WriteString(fgStyle.Render(fmt.Sprintf("Beat %d  %s (%s)", beat+1, note.Label(p), p)))
	if cur := c.comp.At(beat); !cur.IsRest() {
		out.WriteString(dimStyle.Render(fmt.Sprintf("  holds %s", note.Label(cur))))
	}

	out.WriteString("\n\n")
	out.WriteString(widgets.RenderLegendItem(sym.StepActive, th.Active(), "Note", "pitch held on a beat") + "\n")
	out.WriteString(widgets.RenderLegendItem(sym.StepSounding, th.Success(), "Sounding", "note under the playhead") + "\n")
	out.WriteString(widgets.RenderLegendItem(sym.StepPlayhead, th.Accent(), "Playhead", "beat being played") + "\n\n")
	out.WriteString(widgets.RenderKeyColumns([]widgets.KeySection{
		{Title: "Grid", Keys: []widgets.KeyBinding{
			{Key: "hjkl", Desc: "move"},
			{Key: "J / K", Desc: "octave"},
			{Key: "space", Desc: "toggle note"},
			{Key: "d", Desc: "clear beat"},
			{Key: "c", Desc: "clear all"},
		}},
		{Title: "Loop", Keys: []widgets.KeyBinding{
			{Key: "[ / ]", Desc: "beats"},
			{Key: "i", Desc: "instrument"},
		}},
		{Title: "File", Keys: []widgets.KeyBinding{
			{Key: "x", Desc: "export wav"},
			{Key: "m", Desc: "export midi"},
			{Key: "w / o", Desc: "save / open"},
		}},
	}))
	return out.String()
}
