package sequencer

import (
	"sync"
	"testing"
	"time"

	"lehra/audio"
	"lehra/note"
)

// recorder is an Output that remembers what it was asked to play
type recorder struct {
	mu    sync.Mutex
	notes []note.Pitch
	lens  []time.Duration
}

func (r *recorder) Trigger(p note.Pitch, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, p)
	r.lens = append(r.lens, d)
}

func (r *recorder) Notes() []note.Pitch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note.Pitch(nil), r.notes...)
}

func newTestManager(t *testing.T) (*Manager, *recorder) {
	t.Helper()
	rec := &recorder{}
	engine := audio.NewEngine(audio.NewBank(t.TempDir()), 8000, audio.SynthName)
	m := NewManager(Options{
		Engine:          engine,
		Outputs:         []Output{rec},
		ExportDir:       t.TempDir(),
		CompositionsDir: t.TempDir(),
	})
	t.Cleanup(m.Close)
	return m, rec
}
