package sequencer

import (
	"fmt"
	"sync"

	"lehra/audio"
	"lehra/catalog"
	"lehra/debug"
	"lehra/export"
	"lehra/note"
	"lehra/theme"
)

// Options configure a Manager. Zero values fall back to defaults.
type Options struct {
	Catalog *catalog.Catalog
	Engine  *audio.Engine
	Outputs []Output // extra outputs next to the engine, e.g. MIDI ports
	Theme   *theme.Theme

	Tempo           int
	Beats           int
	ExportDir       string
	CompositionsDir string
}

// Manager orchestrates playback and the two devices
type Manager struct {
	catalog   *catalog.Catalog
	engine    *audio.Engine
	out       Outputs
	transport *Transport
	theme     *theme.Theme

	exportDir       string
	compositionsDir string

	player   *PlayerDevice
	composer *ComposerDevice

	mu      sync.RWMutex
	focused Device // which device gets UI/input
	status  string

	exports sync.WaitGroup

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewManager creates a manager with a stopped transport and the player focused
func NewManager(opts Options) *Manager {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Theme == nil {
		opts.Theme = theme.Default()
	}
	if opts.Engine == nil {
		opts.Engine = audio.NewEngine(audio.NewBank(""), audio.DefaultSampleRate, audio.SynthName)
	}
	if opts.Beats == 0 {
		opts.Beats = DefaultBeats
	}
	if opts.Tempo == 0 {
		opts.Tempo = DefaultTempo
	}

	m := &Manager{
		catalog:         opts.Catalog,
		engine:          opts.Engine,
		theme:           opts.Theme,
		exportDir:       opts.ExportDir,
		compositionsDir: opts.CompositionsDir,
		UpdateChan:      make(chan struct{}, 1),
	}
	m.out = append(Outputs{m.engine}, opts.Outputs...)
	m.transport = NewTransport(m.out)
	m.transport.UpdateChan = m.UpdateChan
	m.transport.SetTempo(opts.Tempo)

	m.player = NewPlayerDevice(m, m.catalog)
	m.composer = NewComposerDevice(m, NewComposition(opts.Beats))
	m.focused = m.player
	return m
}

func (m *Manager) Player() *PlayerDevice     { return m.player }
func (m *Manager) Composer() *ComposerDevice { return m.composer }
func (m *Manager) Transport() *Transport     { return m.transport }
func (m *Manager) Engine() *audio.Engine     { return m.engine }
func (m *Manager) Theme() *theme.Theme       { return m.theme }

// Focus management

// GetFocused returns the currently focused device
func (m *Manager) GetFocused() Device {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.focused
}

// SetFocused sets the focused device
func (m *Manager) SetFocused(d Device) {
	m.mu.Lock()
	m.focused = d
	m.mu.Unlock()
	debug.Log("focus", "-> %s", d.Name())
	m.notifyUpdate()
}

func (m *Manager) FocusPlayer()   { m.SetFocused(m.player) }
func (m *Manager) FocusComposer() { m.SetFocused(m.composer) }

// Input routing (to focused device)

// HandleKey routes a key press to the focused device
func (m *Manager) HandleKey(key string) {
	if d := m.GetFocused(); d != nil {
		d.HandleKey(key)
		m.notifyUpdate()
	}
}

// HandleNote routes a keyboard pitch: devices that take notes record it,
// otherwise it is just sounded
func (m *Manager) HandleNote(p note.Pitch) {
	if p.IsRest() {
		return
	}
	if r, ok := m.GetFocused().(NoteReceiver); ok {
		r.HandleNote(p)
	} else {
		m.Preview(p)
	}
	m.notifyUpdate()
}

// View returns the view of the focused device
func (m *Manager) View() string {
	if d := m.GetFocused(); d != nil {
		return d.View()
	}
	return ""
}

// Transport

// Play loops pat from its first beat, replacing whatever was playing
func (m *Manager) Play(pat Pattern) {
	if pat == nil || pat.Len() == 0 {
		return
	}
	m.transport.SetPattern(pat)
	m.transport.Play()
	m.notifyUpdate()
}

// Stop halts the transport
func (m *Manager) Stop() {
	m.transport.Stop()
}

// TogglePlay stops if playing, otherwise loops the focused device's pattern.
// Returns whether the transport is now running.
func (m *Manager) TogglePlay() bool {
	if m.transport.Playing() {
		m.transport.Stop()
		return false
	}
	d := m.GetFocused()
	if d == nil {
		return false
	}
	pat := d.Pattern()
	if pat == nil || pat.Len() == 0 {
		m.SetStatus("Nothing to play")
		return false
	}
	m.Play(pat)
	return true
}

// IsPlaying reports whether pat is the pattern currently looping
func (m *Manager) IsPlaying(pat Pattern) bool {
	return m.transport.Playing() && m.transport.Pattern() == pat
}

// SetTempo sets the BPM (clamped) and returns the value in effect
func (m *Manager) SetTempo(bpm int) int {
	bpm = m.transport.SetTempo(bpm)
	m.notifyUpdate()
	return bpm
}

// GetState returns the current transport state
func (m *Manager) GetState() (beat int, playing bool, tempo int) {
	return m.transport.Position(), m.transport.Playing(), m.transport.Tempo()
}

// Instruments

// Instrument is the name of the instrument notes are played on
func (m *Manager) Instrument() string {
	name, _ := m.engine.Current()
	return name
}

func (m *Manager) SelectInstrument(name string) {
	m.engine.Select(name)
	m.notifyUpdate()
}

// Preview sounds p once on every output, for an eighth at the current tempo
func (m *Manager) Preview(p note.Pitch) {
	m.out.Trigger(p, audio.NoteDuration(m.transport.Tempo()))
}

// Status line

func (m *Manager) Status() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) SetStatus(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	m.mu.Lock()
	m.status = msg
	m.mu.Unlock()
	debug.Log("status", "%s", msg)
	m.notifyUpdate()
}

// Export

// Export renders one cycle of seq in the background. An empty sequence is
// refused right away with export.ErrEmptyComposition.
func (m *Manager) Export(seq note.Sequence, format export.Format) error {
	if seq.Empty() {
		m.SetStatus("Compose something first!")
		return export.ErrEmptyComposition
	}

	name, inst := m.engine.Current()
	job := export.Job{
		Sequence:       seq.Clone(),
		Instrument:     inst,
		InstrumentName: name,
		Tempo:          m.transport.Tempo(),
		SampleRate:     m.engine.SampleRate(),
		Dir:            m.exportDir,
		Format:         format,
	}
	m.SetStatus("Recording one %d-beat cycle at %d BPM...", seq.Len(), job.Tempo)

	m.exports.Add(1)
	go func() {
		defer m.exports.Done()
		path, err := export.Run(job)
		if err != nil {
			m.SetStatus("Export failed: %v", err)
			return
		}
		m.SetStatus("Saved %s", path)
	}()
	return nil
}

// WaitExports blocks until background exports have finished
func (m *Manager) WaitExports() {
	m.exports.Wait()
}

// Close stops playback and waits for exports to land on disk
func (m *Manager) Close() {
	m.transport.Stop()
	m.exports.Wait()
}

// notifyUpdate notifies TUI
func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}
