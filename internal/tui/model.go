package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsheridan/finale/internal/orchestrator"
)

// frameInterval is how often the view re-reads the render surface. The
// countdown loop ticks on its own schedule; this only refreshes the screen.
const frameInterval = 200 * time.Millisecond

// chromeHeight is the number of rows the header and footer occupy around the
// themed surface.
const chromeHeight = 4

// keyMap defines the TUI key bindings.
type keyMap struct {
	NextTheme key.Binding
	Timezone  key.Binding
	Pause     key.Binding
	Reset     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTheme, k.Timezone, k.Pause, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTheme, k.Timezone},
		{k.Pause, k.Reset},
		{k.Help, k.Quit},
	}
}

var defaultKeyMap = keyMap{
	NextTheme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "next theme"),
	),
	Timezone: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "cycle timezone"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// model is the bubbletea model hosting a countdown session.
type model struct {
	orch  *orchestrator.Orchestrator
	keys  keyMap
	help  help.Model
	zones []string

	width  int
	height int
	notice string

	onQuit func()
}

// frameMsg signals a screen refresh.
type frameMsg time.Time

// newModel creates a model over a started orchestrator session.
func newModel(orch *orchestrator.Orchestrator, zones []string, onQuit func()) model {
	return model{
		orch:   orch,
		keys:   defaultKeyMap,
		help:   help.New(),
		zones:  zones,
		onQuit: onQuit,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(doFrame(), tea.EnterAltScreen)
}

// doFrame schedules the next screen refresh.
func doFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// nextZone returns the zone after the currently selected one, wrapping around.
// Zones not in the cycle list restart it from the beginning.
func (m model) nextZone() string {
	if len(m.zones) == 0 {
		return ""
	}
	current := m.orch.Store().GetState().SelectedTimezone
	for i, z := range m.zones {
		if z == current {
			return m.zones[(i+1)%len(m.zones)]
		}
	}
	return m.zones[0]
}
