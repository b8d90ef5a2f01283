package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles around the board.
type Theme struct {
	Title     lipgloss.Style
	HUDLabel  lipgloss.Style
	HUDValue  lipgloss.Style
	Moving    lipgloss.Style
	Status    lipgloss.Style
	Win       lipgloss.Style
	Board     lipgloss.Style
	SideEmpty lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
		HUDLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		HUDValue:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		Moving:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Status:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("250")),
		Win:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		Board:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		SideEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
