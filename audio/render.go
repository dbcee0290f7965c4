package audio

import (
	"time"

	"github.com/gopxl/beep/v2"

	"lehra/note"
)

// Pattern is a beat-indexed note source
type Pattern interface {
	Len() int
	At(i int) note.Pitch
}

// BeatDuration is one quarter note at bpm
func BeatDuration(bpm int) time.Duration {
	if bpm <= 0 {
		return 0
	}
	return time.Minute / time.Duration(bpm)
}

// NoteDuration is the length of every triggered note, an eighth note
func NoteDuration(bpm int) time.Duration {
	return BeatDuration(bpm) / 2
}

// Render mixes one full cycle of pat offline: beat i starts at i beats, every
// note lasts an eighth, and tail extra silence lets the last release ring out.
func Render(pat Pattern, inst Instrument, bpm int, sr beep.SampleRate, tail time.Duration) [][2]float64 {
	beat := BeatDuration(bpm)
	total := sr.N(beat*time.Duration(pat.Len()) + tail)
	mix := make([][2]float64, total)

	chunk := make([][2]float64, 512)
	for i := 0; i < pat.Len(); i++ {
		p := pat.At(i)
		if p.IsRest() {
			continue
		}
		offset := sr.N(beat * time.Duration(i))
		voice := inst.Voice(p, NoteDuration(bpm), sr)
		for offset < total {
			n, ok := voice.Stream(chunk)
			for j := 0; j < n && offset+j < total; j++ {
				mix[offset+j][0] += chunk[j][0]
				mix[offset+j][1] += chunk[j][1]
			}
			offset += n
			if !ok || n == 0 {
				break
			}
		}
	}
	return mix
}

// Peak is the largest absolute sample value
func Peak(samples [][2]float64) float64 {
	peak := 0.0
	for _, s := range samples {
		for _, v := range s {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
	}
	return peak
}
