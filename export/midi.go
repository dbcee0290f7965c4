package export

import (
	"io"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"lehra/note"
)

const (
	midiResolution = smf.MetricTicks(960)
	midiChannel    = 0
	midiVelocity   = 100
)

// WriteMIDI writes a single-track SMF: one quarter note per beat, each note
// an eighth long, with the tempo as a meta event.
func WriteMIDI(w io.Writer, seq note.Sequence, bpm int) error {
	quarter := midiResolution.Ticks4th()
	eighth := midiResolution.Ticks8th()

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(float64(bpm)))

	var delta uint32
	for _, p := range seq {
		if p.IsRest() {
			delta += quarter
			continue
		}
		key := uint8(p)
		tr.Add(delta, gomidi.NoteOn(midiChannel, key, midiVelocity))
		tr.Add(eighth, gomidi.NoteOff(midiChannel, key))
		delta = quarter - eighth
	}
	tr.Close(delta)

	s := smf.New()
	s.TimeFormat = midiResolution
	if err := s.Add(tr); err != nil {
		return err
	}
	_, err := s.WriteTo(w)
	return err
}
