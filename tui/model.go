package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lehra/note"
	"lehra/sequencer"
	"lehra/theme"
)

// tempoStep is how far + and - move the BPM
const tempoStep = 5

type keyMap struct {
	Player    key.Binding
	Composer  key.Binding
	Play      key.Binding
	TempoUp   key.Binding
	TempoDown key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Player:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "player")),
		Composer:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "composer")),
		Play:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/stop")),
		TempoUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "tempo up")),
		TempoDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "tempo down")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Player, k.Composer, k.Play, k.TempoUp, k.TempoDown, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Player, k.Composer},
		{k.Play, k.TempoUp, k.TempoDown},
		{k.Help, k.Quit},
	}
}

type Model struct {
	Manager *sequencer.Manager
	Theme   *theme.Theme

	notes    <-chan note.Pitch // MIDI keyboard, may be nil
	keys     keyMap
	help     help.Model
	quitting bool
}

type UpdateMsg struct{}

// NoteMsg carries a key press from the MIDI keyboard
type NoteMsg note.Pitch

func NewModel(manager *sequencer.Manager, th *theme.Theme, notes <-chan note.Pitch) Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(th.Accent())
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(th.Muted())
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(th.Surface())
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortSeparator

	return Model{
		Manager: manager,
		Theme:   th,
		notes:   notes,
		keys:    defaultKeyMap(),
		help:    h,
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

// ListenForNotes waits for the next keyboard pitch; nil when there is no keyboard
func ListenForNotes(notes <-chan note.Pitch) tea.Cmd {
	if notes == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-notes
		if !ok {
			return nil
		}
		return NoteMsg(p)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		ListenForNotes(m.notes),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Manager.Close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Player):
			m.Manager.FocusPlayer()

		case key.Matches(msg, m.keys.Composer):
			m.Manager.FocusComposer()

		case key.Matches(msg, m.keys.Play):
			m.Manager.TogglePlay()

		case key.Matches(msg, m.keys.TempoUp):
			_, _, tempo := m.Manager.GetState()
			m.Manager.SetTempo(tempo + tempoStep)

		case key.Matches(msg, m.keys.TempoDown):
			_, _, tempo := m.Manager.GetState()
			m.Manager.SetTempo(tempo - tempoStep)

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		default:
			m.Manager.HandleKey(msg.String())
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case NoteMsg:
		m.Manager.HandleNote(note.Pitch(msg))
		return m, ListenForNotes(m.notes)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	beat, playing, tempo := m.Manager.GetState()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	playState := "STOP"
	if playing {
		playState = "PLAY"
	}
	beatInfo := "--"
	if beat >= 0 {
		beatInfo = fmt.Sprintf("%02d", beat+1)
	}
	focus := ""
	if d := m.Manager.GetFocused(); d != nil {
		focus = d.Name()
	}

	header := headerStyle.Render(fmt.Sprintf("lehra  %s  %3dbpm  beat:%s  %s  [%s]",
		playState, tempo, beatInfo, m.Manager.Instrument(), focus))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.Manager.View())
	out.WriteString("\n\n")
	if status := m.Manager.Status(); status != "" {
		out.WriteString(statusStyle.Render(status))
	} else {
		out.WriteString(dimStyle.Render(" "))
	}
	out.WriteString("\n")
	out.WriteString(m.help.View(m.keys))

	return out.String()
}
