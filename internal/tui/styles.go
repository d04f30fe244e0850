package tui

import "github.com/charmbracelet/lipgloss"

// styles contains all lipgloss styles used by the TUI chrome. Theme renderers
// carry their own styles.
var styles = struct {
	Title   lipgloss.Style
	Meta    lipgloss.Style
	Theme   lipgloss.Style
	Paused  lipgloss.Style
	Divider lipgloss.Style
	Status  lipgloss.Style
	Notice  lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Meta: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Theme: lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")),

	Paused: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214")),

	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	Notice: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),
}
