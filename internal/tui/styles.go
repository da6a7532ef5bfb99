package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title       lipgloss.Style
	header      lipgloss.Style
	quit        lipgloss.Style
	caller      lipgloss.Style
	player      lipgloss.Style
	placeholder lipgloss.Style
	input       lipgloss.Style
	sliderFill  lipgloss.Style
	sliderEmpty lipgloss.Style
	leaderboard lipgloss.Style
	hint        lipgloss.Style
	err         lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#32325A")).Padding(0, 1),
		quit:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#B43232")).Padding(0, 1),
		caller:      lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")),
		player:      lipgloss.NewStyle().Foreground(lipgloss.Color("#C8C8FF")),
		placeholder: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#A0A0A0")),
		input:       lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#FFFFFF")),
		sliderFill:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00C800")),
		sliderEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color("#646464")),
		leaderboard: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		hint:        lipgloss.NewStyle().Faint(true),
		err:         lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
	}
}

// fadeColor scales notification yellow by alpha so that it dims to black.
func fadeColor(alpha int) lipgloss.Color {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 255 {
		alpha = 255
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x00", alpha, alpha))
}
