package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gopxl/beep/v2"
	flag "github.com/spf13/pflag"

	"lehra/audio"
	"lehra/catalog"
	"lehra/config"
	"lehra/export"
	"lehra/midi"
	"lehra/note"
	"lehra/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = list(os.Stdout, os.Args[2:])
	case "ports":
		err = ports(os.Stdout)
	case "render":
		err = render(os.Stdout, os.Args[2:])
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "lehra-cli %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "lehra-cli")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list    - List catalog loops (--taal, --raga, --instrument)")
	fmt.Fprintln(w, "  ports   - List MIDI ports")
	fmt.Fprintln(w, "  render  - Render a loop or saved composition to WAV (and MIDI)")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

func list(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	catPath := fs.String("catalog", "", "YAML loop catalog (built-in if empty)")
	f := catalog.NewFilter()
	fs.StringVar(&f.Taal, "taal", catalog.All, "taal to show")
	fs.StringVar(&f.Raga, "raga", catalog.All, "raga to show")
	fs.StringVar(&f.Instrument, "instrument", catalog.All, "instrument to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := loadCatalog(*catPath)
	if err != nil {
		return err
	}
	loops := cat.Filter(f)
	if len(loops) == 0 {
		fmt.Fprintln(w, "No loops found matching all criteria.")
		return nil
	}
	for _, l := range loops {
		fmt.Fprintf(w, "%3d  %-22s %-9s %-9s %2d beats  %s\n", l.ID, l.Name, l.Raga, l.Taal, l.Beats, l.Instrument)
		fmt.Fprintf(w, "     %s\n", l.Notes)
	}
	return nil
}

func ports(w io.Writer) error {
	fmt.Fprintf(w, "(waiting up to %s...)\n", midi.DefaultScanTimeout)
	p, err := midi.ListPorts(midi.DefaultScanTimeout)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "=== MIDI Input Ports ===")
	for i, name := range p.In {
		fmt.Fprintf(w, "  [%d] %s\n", i, name)
	}
	fmt.Fprintln(w, "=== MIDI Output Ports ===")
	for i, name := range p.Out {
		fmt.Fprintf(w, "  [%d] %s\n", i, name)
	}
	return nil
}

// source is what render plays: a sequence plus the settings it came with
type source struct {
	seq        note.Sequence
	tempo      int
	instrument string
}

func render(w io.Writer, args []string) error {
	defaults := config.DefaultConfig()

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	catPath := fs.String("catalog", "", "YAML loop catalog (built-in if empty)")
	id := fs.Int("id", -1, "catalog loop id")
	file := fs.String("file", "", "saved composition (.json)")
	notes := fs.String("notes", "", `inline sequence, e.g. "C4 - E4 G4"`)
	tempo := fs.IntP("tempo", "t", 0, "tempo in BPM (default: from the source)")
	instrument := fs.StringP("instrument", "i", "", "harmonium, sarangi or synth (default: from the source)")
	samples := fs.String("samples", defaults.SamplesDir, "directory holding <instrument>/C4.wav")
	rate := fs.Int("rate", defaults.SampleRate, "sample rate")
	withMIDI := fs.Bool("midi", false, "also write a .mid file")
	out := fs.StringP("out", "o", defaults.ExportDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := pickSource(*catPath, *id, *file, *notes)
	if err != nil {
		return err
	}
	if *tempo > 0 {
		src.tempo = *tempo
	}
	if *instrument != "" {
		src.instrument = *instrument
	}
	if src.tempo < config.MinTempo || src.tempo > config.MaxTempo {
		return fmt.Errorf("tempo %d outside %d..%d", src.tempo, config.MinTempo, config.MaxTempo)
	}

	bank := audio.NewBank(*samples)
	inst := bank.Get(src.instrument)
	bank.Wait()
	if len(bank.Loaded()) == 0 && src.instrument != audio.SynthName {
		fmt.Fprintf(w, "no %s sample under %s, using the synth voice\n", src.instrument, *samples)
	}

	job := export.Job{
		Sequence:       src.seq,
		Instrument:     inst,
		InstrumentName: src.instrument,
		Tempo:          src.tempo,
		SampleRate:     beep.SampleRate(*rate),
		Dir:            *out,
		Format:         export.FormatWAV,
	}
	fmt.Fprintf(w, "Recording one %d-beat cycle at %d BPM...\n", src.seq.Len(), src.tempo)
	path, err := export.Run(job)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, path)

	if *withMIDI {
		job.Format = export.FormatMIDI
		path, err := export.Run(job)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, path)
	}
	return nil
}

func pickSource(catPath string, id int, file, notes string) (source, error) {
	given := 0
	for _, set := range []bool{id >= 0, file != "", notes != ""} {
		if set {
			given++
		}
	}
	if given != 1 {
		return source{}, errors.New("give exactly one of --id, --file or --notes")
	}

	switch {
	case id >= 0:
		cat, err := loadCatalog(catPath)
		if err != nil {
			return source{}, err
		}
		l, err := cat.Find(id)
		if err != nil {
			return source{}, err
		}
		return source{seq: l.Notes, tempo: sequencer.DefaultTempo, instrument: l.Instrument}, nil

	case file != "":
		f, err := sequencer.LoadComposition(file)
		if err != nil {
			return source{}, err
		}
		inst := f.Instrument
		if inst == "" {
			inst = audio.Harmonium
		}
		tempo := f.Tempo
		if tempo == 0 {
			tempo = sequencer.DefaultTempo
		}
		return source{seq: f.Notes, tempo: tempo, instrument: inst}, nil

	default:
		seq, err := note.ParseSequence(strings.TrimSpace(notes))
		if err != nil {
			return source{}, err
		}
		return source{seq: seq, tempo: sequencer.DefaultTempo, instrument: audio.Harmonium}, nil
	}
}
