package sequencer

import (
	"testing"
	"time"

	"lehra/audio"
	"lehra/config"
	"lehra/note"
)

func TestTransportAdvance(t *testing.T) {
	rec := &recorder{}
	tr := NewTransport(rec)
	tr.SetTempo(120)

	seq := note.Sequence{note.MustParse("C4"), note.Rest, note.MustParse("G4")}
	tr.SetPattern(seq)

	var beats []int
	for i := 0; i < 5; i++ {
		b, _ := tr.Advance()
		beats = append(beats, b)
	}
	want := []int{0, 1, 2, 0, 1}
	for i := range want {
		if beats[i] != want[i] {
			t.Fatalf("beats = %v, want %v", beats, want)
		}
	}

	notes := rec.Notes()
	if len(notes) != 3 || notes[0] != seq[0] || notes[1] != seq[2] || notes[2] != seq[0] {
		t.Fatalf("triggered = %v", notes)
	}
	if rec.lens[0] != audio.NoteDuration(120) {
		t.Errorf("note length = %v, want an eighth", rec.lens[0])
	}
	if tr.Position() != 1 {
		t.Errorf("Position = %d", tr.Position())
	}
}

func TestTransportShrinkingPattern(t *testing.T) {
	tr := NewTransport(nil)
	c := NewComposition(8)
	tr.SetPattern(c)
	for i := 0; i < 6; i++ {
		tr.Advance()
	}
	c.Resize(4)
	if b, _ := tr.Advance(); b != 2 {
		t.Errorf("beat after shrink = %d, want 6 mod 4 = 2", b)
	}
}

func TestTransportNoPattern(t *testing.T) {
	tr := NewTransport(nil)
	if b, p := tr.Advance(); b != -1 || !p.IsRest() {
		t.Errorf("Advance with no pattern = %d %v", b, p)
	}
}

func TestTransportTempoClamp(t *testing.T) {
	tr := NewTransport(nil)
	if tr.Tempo() != DefaultTempo {
		t.Errorf("default tempo = %d", tr.Tempo())
	}
	if got := tr.SetTempo(5); got != config.MinTempo {
		t.Errorf("SetTempo(5) = %d", got)
	}
	if got := tr.SetTempo(1000); got != config.MaxTempo {
		t.Errorf("SetTempo(1000) = %d", got)
	}
}

func TestTransportPlayStop(t *testing.T) {
	rec := &recorder{}
	tr := NewTransport(rec)
	tr.SetTempo(config.MaxTempo)
	tr.SetPattern(note.Sequence{note.MiddleC, note.Rest})

	tr.Play()
	if !tr.Playing() {
		t.Fatal("not playing after Play")
	}

	// first beat is immediate
	select {
	case <-tr.UpdateChan:
	case <-time.After(time.Second):
		t.Fatal("no tick after Play")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.Notes()) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	tr.Stop()

	notes := rec.Notes()
	if len(notes) < 2 {
		t.Fatalf("triggered %d notes, want at least 2", len(notes))
	}
	for _, p := range notes {
		if p != note.MiddleC {
			t.Errorf("rest was triggered: %v", notes)
		}
	}
	if tr.Playing() || tr.Position() != -1 {
		t.Errorf("after Stop playing=%v position=%d", tr.Playing(), tr.Position())
	}

	// Stop is idempotent
	tr.Stop()
	if tr.Toggle() != true {
		t.Error("Toggle from stopped should play")
	}
	if tr.Toggle() != false {
		t.Error("Toggle from playing should stop")
	}
}

// waitNotes polls until rec has at least n notes or the timeout passes
func waitNotes(rec *recorder, n int, timeout time.Duration) []note.Pitch {
	deadline := time.Now().Add(timeout)
	for len(rec.Notes()) < n && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	return rec.Notes()
}

func TestTransportTempoChangeWhilePlaying(t *testing.T) {
	rec := &recorder{}
	tr := NewTransport(rec)
	tr.SetTempo(config.MaxTempo)
	tr.SetPattern(note.Sequence{note.MiddleC, note.MiddleC})

	tr.Play()
	defer tr.Stop()
	if got := waitNotes(rec, 1, time.Second); len(got) != 1 {
		t.Fatalf("first beat: triggered %d notes", len(got))
	}

	// 300 BPM would tick again after 200ms; 20 BPM waits 3s
	tr.SetTempo(config.MinTempo)
	time.Sleep(250 * time.Millisecond)
	if got := len(rec.Notes()); got != 1 {
		t.Fatalf("after slowing down: triggered %d notes, want 1", got)
	}

	// speeding up again brings the overdue beat in right away
	tr.SetTempo(config.MaxTempo)
	if got := waitNotes(rec, 2, time.Second); len(got) < 2 {
		t.Fatalf("after speeding up: triggered %d notes, want 2", len(got))
	}
	if tr.Tempo() != config.MaxTempo {
		t.Errorf("Tempo = %d", tr.Tempo())
	}
}

func TestTransportEditWhilePlaying(t *testing.T) {
	rec := &recorder{}
	tr := NewTransport(rec)
	tr.SetTempo(config.MaxTempo)
	comp := NewComposition(2)
	tr.SetPattern(comp)

	tr.Play()
	defer tr.Stop()
	select {
	case <-tr.UpdateChan:
	case <-time.After(time.Second):
		t.Fatal("no tick after Play")
	}
	if len(rec.Notes()) != 0 {
		t.Fatalf("empty composition triggered %v", rec.Notes())
	}

	if !comp.Toggle(note.MiddleC, 1) {
		t.Fatal("Toggle should turn the step on")
	}
	got := waitNotes(rec, 1, 2*time.Second)
	if len(got) == 0 || got[0] != note.MiddleC {
		t.Fatalf("edit not heard while looping: %v", got)
	}
}
