package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 {
		return "starting..."
	}

	header := m.renderHeader()
	body := m.renderBody()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderHeader shows the app name, mode, timezone, theme, and pause state.
func (m model) renderHeader() string {
	st := m.orch.Store().GetState()

	parts := []string{
		styles.Title.Render("finale"),
		styles.Meta.Render(string(st.CountdownMode)),
		styles.Meta.Render(st.SelectedTimezone),
		styles.Theme.Render(st.SelectedTheme),
	}
	if m.orch.IsPaused() {
		parts = append(parts, styles.Paused.Render("PAUSED"))
	}

	line := strings.Join(parts, styles.Divider.Render(" | "))
	return lipgloss.NewStyle().Width(m.width).Render(line)
}

// renderBody centers the themed surface in the available area.
func (m model) renderBody() string {
	frame := m.orch.Surface().Frame()
	height := max(1, m.height-chromeHeight)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, frame)
}

// renderFooter shows the accessible status line, any notice, and key help.
func (m model) renderFooter() string {
	status := m.orch.Surface().Label()
	if m.notice != "" {
		status = styles.Notice.Render(m.notice)
	} else {
		status = styles.Status.Render(status)
	}
	return status + "\n" + m.help.View(m.keys)
}
