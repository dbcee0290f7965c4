package export

import (
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth  = 16
	channels  = 2
	pcmFormat = 1
)

// WriteWAV encodes stereo float samples as 16-bit PCM. Samples are scaled
// down if the mix would clip.
func WriteWAV(w io.WriteSeeker, samples [][2]float64, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, bitDepth, channels, pcmFormat)

	scale := float64(math.MaxInt16)
	peak := 0.0
	for _, s := range samples {
		peak = math.Max(peak, math.Max(math.Abs(s[0]), math.Abs(s[1])))
	}
	if peak > 1 {
		scale /= peak
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)*channels),
		SourceBitDepth: bitDepth,
	}
	for i, s := range samples {
		buf.Data[2*i] = int(s[0] * scale)
		buf.Data[2*i+1] = int(s[1] * scale)
	}

	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
