package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"lehra/audio"
	"lehra/note"
	"lehra/sequencer"
	"lehra/theme"
)

func newTestModel(t *testing.T, notes <-chan note.Pitch) Model {
	t.Helper()
	engine := audio.NewEngine(audio.NewBank(t.TempDir()), 8000, audio.SynthName)
	m := sequencer.NewManager(sequencer.Options{Engine: engine})
	t.Cleanup(m.Close)
	return NewModel(m, theme.Default(), notes)
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestFocusKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, "2")
	if m.Manager.GetFocused().Name() != "composer" {
		t.Fatalf("focused = %s", m.Manager.GetFocused().Name())
	}
	if !strings.Contains(m.View(), "COMPOSER") {
		t.Error("composer view not shown")
	}
	m = press(m, "1")
	if !strings.Contains(m.View(), "PLAYER") {
		t.Error("player view not shown")
	}
}

func TestTempoKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, "+", "+", "-")
	if _, _, tempo := m.Manager.GetState(); tempo != sequencer.DefaultTempo+5 {
		t.Errorf("tempo = %d", tempo)
	}
	if !strings.Contains(m.View(), "105bpm") {
		t.Error("header does not show tempo")
	}
}

func TestPlayKey(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, "p")
	if _, playing, _ := m.Manager.GetState(); playing {
		t.Fatal("player with nothing loaded started")
	}
	m = press(m, "2", "p")
	if _, playing, _ := m.Manager.GetState(); !playing {
		t.Fatal("p did not start the composer")
	}
	m = press(m, "p")
	if _, playing, _ := m.Manager.GetState(); playing {
		t.Error("p did not stop")
	}
}

func TestKeysReachDevice(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, "2", " ")
	if m.Manager.Composer().Composition().Empty() {
		t.Error("space did not toggle a cell")
	}
}

func TestNoteMsg(t *testing.T) {
	notes := make(chan note.Pitch, 1)
	m := newTestModel(t, notes)
	m = press(m, "2")

	next, cmd := m.Update(NoteMsg(note.MustParse("D4")))
	m = next.(Model)
	if got := m.Manager.Composer().Composition().At(0); got != note.MustParse("D4") {
		t.Errorf("At(0) = %v", got)
	}
	if cmd == nil {
		t.Fatal("keyboard listener not re-armed")
	}

	notes <- note.MustParse("E4")
	if msg := cmd(); msg != NoteMsg(note.MustParse("E4")) {
		t.Errorf("listener returned %v", msg)
	}
	close(notes)
	if msg := ListenForNotes(notes)(); msg != nil {
		t.Errorf("closed keyboard returned %v", msg)
	}
	if ListenForNotes(nil) != nil {
		t.Error("no keyboard should mean no listener")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if next.(Model).View() != "" {
		t.Error("view after quit should be empty")
	}
}
