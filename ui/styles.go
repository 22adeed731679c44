package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	normalDim = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	gray      = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	midGray   = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"}
	darkGray  = lipgloss.AdaptiveColor{Light: "#DDDADA", Dark: "#3C3C3C"}
	indigo    = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	fuchsia   = lipgloss.Color("#EE6FF8")
	green     = lipgloss.Color("#04B575")
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	cream     = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}

	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
)

var (
	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(indigo).
			Bold(true).
			Render

	subtleStyle      = lipgloss.NewStyle().Foreground(gray).Render
	dimStyle         = lipgloss.NewStyle().Foreground(normalDim).Render
	placeholderStyle = lipgloss.NewStyle().Foreground(midGray).Italic(true).Render
	accentStyle      = lipgloss.NewStyle().Foreground(indigo).Bold(true).Render
	errorStyle       = lipgloss.NewStyle().Foreground(red).Render
	selectedStyle    = lipgloss.NewStyle().Foreground(fuchsia).Bold(true).Render
	okStyle          = lipgloss.NewStyle().Foreground(green).Render

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(darkGray).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(indigo)

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarHelpStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen).
				Render

	statusBarErrorStyle = lipgloss.NewStyle().
				Foreground(cream).
				Background(red).
				Render
)

// applyHighContrast swaps the dim palette for plain foreground colors.
func applyHighContrast() {
	subtleStyle = lipgloss.NewStyle().Render
	dimStyle = lipgloss.NewStyle().Render
	placeholderStyle = lipgloss.NewStyle().Italic(true).Render
	panelStyle = panelStyle.BorderForeground(lipgloss.NoColor{})
}
