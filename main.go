package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep/v2"
	flag "github.com/spf13/pflag"

	"lehra/audio"
	"lehra/catalog"
	"lehra/config"
	"lehra/debug"
	"lehra/midi"
	"lehra/note"
	"lehra/sequencer"
	"lehra/theme"
	"lehra/tui"
)

// speakerLatency is the audio buffer handed to the speaker
const speakerLatency = 50 * time.Millisecond

const (
	viewPlayer = iota
	viewComposer
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lehra: %v\n", err)
		os.Exit(1)
	}
}

type audioStarter interface {
	Start(latency time.Duration) error
}

// startAudio opens the audio device. When that fails the engine keeps
// discarding voices and the returned message says why; browsing, composing
// and export still work.
func startAudio(s audioStarter, latency time.Duration) string {
	if err := s.Start(latency); err != nil {
		debug.Log("main", "audio device: %v", err)
		return fmt.Sprintf("No audio device (%v), playing silently", err)
	}
	return ""
}

func run() error {
	saved, err := config.Load()
	if err != nil {
		return err
	}
	cfg := *saved

	flag.IntVarP(&cfg.Tempo, "tempo", "t", cfg.Tempo, "tempo in BPM (20-300)")
	flag.IntVarP(&cfg.Beats, "beats", "b", cfg.Beats, "composer beats (1-64)")
	flag.StringVarP(&cfg.Instrument, "instrument", "i", cfg.Instrument, "harmonium, sarangi or synth")
	flag.StringVar(&cfg.SamplesDir, "samples", cfg.SamplesDir, "directory holding <instrument>/C4.wav")
	flag.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "YAML loop catalog (built-in if empty)")
	flag.StringVarP(&cfg.ExportDir, "export-dir", "o", cfg.ExportDir, "where exports are written")
	flag.StringVar(&cfg.MIDI.OutputPort, "midi-out", cfg.MIDI.OutputPort, "MIDI output port to double the audio on")
	flag.IntVar(&cfg.MIDI.Channel, "midi-channel", cfg.MIDI.Channel, "MIDI output channel (1-16)")
	flag.StringVar(&cfg.MIDI.KeyboardPort, "keyboard", cfg.MIDI.KeyboardPort, "MIDI input port for step entry")
	flag.StringVar(&cfg.UI.Palette, "palette", cfg.UI.Palette, "GIMP .gpl palette file")
	debugLog := flag.Bool("debug", false, "write a debug log to ~/.config/lehra/debug.log")
	flag.Parse()
	cfg.Normalize()

	if *debugLog {
		if err := debug.Enable(); err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
	}

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if cat, err = catalog.LoadFile(cfg.CatalogPath); err != nil {
			return err
		}
	}

	palette, err := theme.LoadOrDefault(cfg.UI.Palette)
	if err != nil {
		return err
	}
	th := theme.New(palette)

	bank := audio.NewBank(cfg.SamplesDir)
	engine := audio.NewEngine(bank, beep.SampleRate(cfg.SampleRate), cfg.Instrument)
	audioStatus := startAudio(engine, speakerLatency)
	defer engine.Close()

	var outputs []sequencer.Output
	if cfg.MIDI.OutputPort != "" {
		out, err := midi.OpenOutput(cfg.MIDI.OutputPort, cfg.MIDI.Channel)
		if err != nil {
			return err
		}
		defer out.Close()
		outputs = append(outputs, out)
	}

	var notes <-chan note.Pitch
	if cfg.MIDI.KeyboardPort != "" {
		kb, err := midi.OpenKeyboard(cfg.MIDI.KeyboardPort)
		if err != nil {
			return err
		}
		defer kb.Close()
		notes = kb.Notes()
	}

	compositions, err := config.CompositionsDir()
	if err != nil {
		return err
	}

	manager := sequencer.NewManager(sequencer.Options{
		Catalog:         cat,
		Engine:          engine,
		Outputs:         outputs,
		Theme:           th,
		Tempo:           cfg.Tempo,
		Beats:           cfg.Beats,
		ExportDir:       cfg.ExportDir,
		CompositionsDir: compositions,
	})
	if saved.UI.LastView == viewComposer {
		manager.FocusComposer()
	}
	if audioStatus != "" {
		manager.SetStatus("%s", audioStatus)
	}
	debug.Log("main", "start tempo=%d instrument=%s samples=%s", cfg.Tempo, cfg.Instrument, cfg.SamplesDir)

	m := tui.NewModel(manager, th, notes)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	manager.Close()
	if err != nil {
		return err
	}

	// Remember the page that was open; flag overrides stay out of the file
	saved.UI.LastView = viewPlayer
	if manager.GetFocused() == sequencer.Device(manager.Composer()) {
		saved.UI.LastView = viewComposer
	}
	return saved.Save()
}
