package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/lyfmt/internal/config"
)

// StyleManager encapsulates all TUI styles and provides methods for style operations
type StyleManager struct {
	// List view styles
	Title    lipgloss.Style
	Kind     lipgloss.Style
	Position lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style
	Accepted lipgloss.Style
	Rejected lipgloss.Style

	// Diff styles
	Added   lipgloss.Style
	Removed lipgloss.Style

	// Chrome styles
	Border  lipgloss.Style
	Divider lipgloss.Style
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Title:    lipgloss.NewStyle().Bold(true),
		Kind:     lipgloss.NewStyle().Bold(true),
		Position: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selected: lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Accepted: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Rejected: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Added:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Removed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Border:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Divider:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	addColor := parseANSIColor(config.GetColorAdd())
	delColor := parseANSIColor(config.GetColorDel())
	dimColor := parseANSIColor(config.GetColorDim())
	borderColor := lipgloss.Color(config.GetColorBorder())
	cursorColor := lipgloss.Color(config.GetColorCursor())

	s.Position = lipgloss.NewStyle().Foreground(dimColor)
	s.Cursor = lipgloss.NewStyle().Foreground(cursorColor)
	s.Dim = lipgloss.NewStyle().Foreground(dimColor)
	s.Accepted = lipgloss.NewStyle().Foreground(addColor)
	s.Rejected = lipgloss.NewStyle().Foreground(delColor)

	s.Added = lipgloss.NewStyle().Foreground(addColor)
	s.Removed = lipgloss.NewStyle().Foreground(delColor)

	s.Border = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderColor)
	s.Divider = lipgloss.NewStyle().Foreground(borderColor)
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
