// Package export writes one cycle of a lehra to disk as a WAV recording or
// a Standard MIDI File.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep/v2"

	"lehra/audio"
	"lehra/debug"
	"lehra/note"
)

// ErrEmptyComposition is returned when there is nothing to export
var ErrEmptyComposition = errors.New("compose something first")

// Tail is rendered after the last beat so the final note can ring out
const Tail = time.Second

// Format selects the output container
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMIDI Format = "mid"
)

// FileName is Lehra-<beats>beats-<instrument>.<ext>
func FileName(beats int, instrument string, f Format) string {
	return fmt.Sprintf("Lehra-%dbeats-%s.%s", beats, instrument, f)
}

// Job describes one export
type Job struct {
	Sequence       note.Sequence
	Instrument     audio.Instrument
	InstrumentName string
	Tempo          int
	SampleRate     beep.SampleRate
	Dir            string
	Format         Format
}

// Run renders the job and writes it into Dir, returning the file path
func Run(job Job) (string, error) {
	if job.Sequence.Empty() {
		return "", ErrEmptyComposition
	}
	if job.Tempo <= 0 {
		return "", fmt.Errorf("invalid tempo %d", job.Tempo)
	}
	if job.Format == "" {
		job.Format = FormatWAV
	}
	if job.SampleRate == 0 {
		job.SampleRate = audio.DefaultSampleRate
	}
	name := job.InstrumentName
	if name == "" && job.Instrument != nil {
		name = job.Instrument.Name()
	}

	dir := job.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create output directory %v: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(job.Sequence.Len(), name, job.Format))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	switch job.Format {
	case FormatWAV:
		if job.Instrument == nil {
			return "", errors.New("no instrument to render with")
		}
		samples := audio.Render(job.Sequence, job.Instrument, job.Tempo, job.SampleRate, Tail)
		err = WriteWAV(f, samples, int(job.SampleRate))
	case FormatMIDI:
		err = WriteMIDI(f, job.Sequence, job.Tempo)
	default:
		err = fmt.Errorf("unknown export format %q", job.Format)
	}
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("export %s: %w", path, err)
	}

	debug.Log("export", "wrote %s (%d beats @ %d bpm)", path, job.Sequence.Len(), job.Tempo)
	return path, nil
}
