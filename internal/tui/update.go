package tui

import (
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rsheridan/finale/internal/switcher"
)

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.orch.SetSize(msg.Width, max(1, msg.Height-chromeHeight))
		return m, nil

	case frameMsg:
		return m, doFrame()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextTheme):
		m.notice = ""
		if err := m.orch.NextTheme(); err != nil {
			// Throttled requests are dropped by design; anything else is
			// worth surfacing.
			if !errors.Is(err, switcher.ErrThrottled) && !errors.Is(err, switcher.ErrSwitchInFlight) {
				slog.Error("theme switch failed", "error", err)
				m.notice = "theme switch failed"
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Timezone):
		m.notice = ""
		zone := m.nextZone()
		if zone == "" {
			return m, nil
		}
		if err := m.orch.SetTimezone(zone); err != nil {
			slog.Warn("timezone switch failed", "timezone", zone, "error", err)
			m.notice = "unknown timezone " + zone
		}
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		if m.orch.IsPaused() {
			m.orch.Resume()
		} else {
			m.orch.Pause()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.notice = ""
		m.orch.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}
