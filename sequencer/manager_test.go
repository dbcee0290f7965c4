package sequencer

import (
	"testing"

	"lehra/note"
)

func TestManagerFocus(t *testing.T) {
	m, _ := newTestManager(t)
	if m.GetFocused() != Device(m.Player()) {
		t.Fatal("player should have focus first")
	}
	m.FocusComposer()
	if m.GetFocused().Name() != "composer" {
		t.Errorf("focused = %s", m.GetFocused().Name())
	}

	// keys go to the focused device only
	m.HandleKey(" ")
	if m.Composer().Composition().Empty() {
		t.Error("key did not reach the composer")
	}
	if m.Player().Loaded() != nil {
		t.Error("key reached the player")
	}
}

func TestManagerTogglePlay(t *testing.T) {
	m, _ := newTestManager(t)

	if m.TogglePlay() {
		t.Fatal("player with nothing loaded should not play")
	}
	if m.Status() != "Nothing to play" {
		t.Errorf("status = %q", m.Status())
	}

	m.FocusComposer()
	if !m.TogglePlay() {
		t.Fatal("composer should play")
	}
	if !m.IsPlaying(m.Composer().Pattern()) {
		t.Error("composition is not the playing pattern")
	}
	if m.TogglePlay() {
		t.Error("second toggle should stop")
	}
	if _, playing, _ := m.GetState(); playing {
		t.Error("still playing")
	}
}

func TestManagerHandleNotePreviews(t *testing.T) {
	m, rec := newTestManager(t)

	// the player does not take notes, they are only sounded
	m.HandleNote(note.MustParse("A4"))
	m.HandleNote(note.Rest)
	if notes := rec.Notes(); len(notes) != 1 || notes[0] != note.MustParse("A4") {
		t.Errorf("previewed = %v", notes)
	}
}

func TestManagerTempo(t *testing.T) {
	m, _ := newTestManager(t)
	if got := m.SetTempo(400); got != 300 {
		t.Errorf("SetTempo(400) = %d", got)
	}
	if _, _, tempo := m.GetState(); tempo != 300 {
		t.Errorf("tempo = %d", tempo)
	}
}
