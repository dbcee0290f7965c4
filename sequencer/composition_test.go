package sequencer

import (
	"testing"

	"lehra/config"
	"lehra/note"
)

func TestCompositionToggle(t *testing.T) {
	c := NewComposition(8)
	c4, e4 := note.MustParse("C4"), note.MustParse("E4")

	if !c.Toggle(c4, 2) {
		t.Fatal("Toggle on empty beat should turn it on")
	}
	if got := c.At(2); got != c4 {
		t.Fatalf("At(2) = %v", got)
	}

	// A different pitch on the same beat replaces the first
	if !c.Toggle(e4, 2) {
		t.Fatal("Toggle with new pitch should be on")
	}
	if got := c.At(2); got != e4 {
		t.Fatalf("At(2) = %v, want E4", got)
	}

	// Same pitch again clears the beat
	if c.Toggle(e4, 2) {
		t.Fatal("Toggle of the held pitch should turn it off")
	}
	if !c.At(2).IsRest() {
		t.Fatalf("At(2) = %v, want rest", c.At(2))
	}

	if c.Toggle(c4, 8) || c.Toggle(c4, -1) {
		t.Error("out of range toggles must be ignored")
	}
}

func TestCompositionResizeKeepsHiddenNotes(t *testing.T) {
	c := NewComposition(16)
	c.Set(12, note.MiddleC)

	if n := c.Resize(8); n != 8 {
		t.Fatalf("Resize = %d", n)
	}
	if !c.Empty() {
		t.Error("hidden notes should not count")
	}
	if !c.At(12).IsRest() {
		t.Error("hidden beat should read as rest")
	}

	c.Resize(16)
	if got := c.At(12); got != note.MiddleC {
		t.Errorf("note not restored after growing: %v", got)
	}
}

func TestCompositionClamp(t *testing.T) {
	c := NewComposition(0)
	if c.Len() != config.MinBeats {
		t.Errorf("Len = %d", c.Len())
	}
	if n := c.Resize(1000); n != config.MaxBeats {
		t.Errorf("Resize(1000) = %d", n)
	}
}

func TestCompositionLoadAndClear(t *testing.T) {
	c := NewComposition(16)
	c.Set(15, note.MiddleC)

	seq := note.Sequence{note.MustParse("D4"), note.Rest, note.MustParse("G4")}
	c.Load(seq)
	if c.Len() != 3 {
		t.Fatalf("Len = %d", c.Len())
	}
	if got := c.Snapshot().String(); got != seq.String() {
		t.Errorf("Snapshot = %q, want %q", got, seq.String())
	}
	c.Resize(16)
	if !c.At(15).IsRest() {
		t.Error("Load should drop notes outside the loaded sequence")
	}

	c.Clear()
	if !c.Empty() {
		t.Error("Clear left notes behind")
	}
}
