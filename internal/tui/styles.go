package tui

import "github.com/charmbracelet/lipgloss"

const columnWidth = 28

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	onlineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offlineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle   = lipgloss.NewStyle().Reverse(true)
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	columnStyle     = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			Width(columnWidth)
	activeColumnStyle = columnStyle.BorderForeground(lipgloss.Color("12"))
)
