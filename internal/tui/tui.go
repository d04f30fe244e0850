// Package tui hosts a countdown session in a bubbletea program: the active
// theme draws into the orchestrator's surface, and this layer adds the
// header, key bindings, and status footer around it.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsheridan/finale/internal/orchestrator"
)

// defaultZones is the timezone cycle offered on the 'z' key.
var defaultZones = []string{
	"UTC",
	"America/Los_Angeles",
	"America/New_York",
	"Europe/London",
	"Europe/Berlin",
	"Asia/Tokyo",
	"Australia/Sydney",
}

// TUI runs a countdown session in the terminal.
type TUI struct {
	orch   *orchestrator.Orchestrator
	zones  []string
	onQuit func()
}

// Option configures the TUI.
type Option func(*TUI)

// WithZones sets the timezone cycle list.
func WithZones(zones []string) Option {
	return func(t *TUI) {
		if len(zones) > 0 {
			t.zones = zones
		}
	}
}

// WithOnQuit sets the callback invoked when the user quits.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// New creates a TUI over a constructed (not yet started) orchestrator.
func New(orch *orchestrator.Orchestrator, opts ...Option) *TUI {
	t := &TUI{
		orch:  orch,
		zones: defaultZones,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run starts the session and blocks until the program exits. The
// orchestrator is destroyed on the way out.
func (t *TUI) Run() error {
	if err := t.orch.Start(); err != nil {
		return err
	}
	defer t.orch.Destroy()

	m := newModel(t.orch, t.zones, t.onQuit)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
