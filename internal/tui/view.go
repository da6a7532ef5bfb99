package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zhouzirui/people-person/internal/analysis/health"
	"github.com/zhouzirui/people-person/pkg/textlayout"
)

func (m Model) View() string {
	switch {
	case m.engine == nil:
		return m.nameView()
	case m.view.IsGameOver:
		return m.leaderboardView()
	default:
		return m.gameView()
	}
}

func (m Model) nameView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render("The People Person"),
		"",
		"Enter your gameplay name:",
		m.nameInput.View(),
	)
}

func (m Model) leaderboardView() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Leaderboard"))
	b.WriteString("\n\n")
	for _, entry := range m.view.Leaderboard {
		b.WriteString(m.styles.leaderboard.Render(fmt.Sprintf("%s: %d", entry.Name, entry.Score)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.hint.Render("Press any key to exit."))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) gameView() string {
	textWidth := max(m.width-6, 10)

	header := m.styles.header.Render(fmt.Sprintf("Score: %d   Best: %d   Mental Health: %d/10",
		m.view.SessionScore, m.view.BestScore, m.view.CurrentHealthScore))
	quit := m.styles.quit.Render("Esc Quit")
	gap := max(m.width-lipgloss.Width(header)-lipgloss.Width(quit), 1)
	top := header + strings.Repeat(" ", gap) + quit

	sections := []string{top}
	sections = append(sections, m.notificationLines()...)
	sections = append(sections, m.healthBar(m.width), "")

	callerText := m.view.LastCallerText
	if m.view.Placeholder != "" {
		sections = append(sections, m.styles.placeholder.Render(m.spinner.View()+" "+m.view.Placeholder))
	} else if callerText != "" {
		for _, line := range textlayout.WrapLines("Caller: "+callerText, lipgloss.Width, textWidth) {
			sections = append(sections, m.styles.caller.Render(line))
		}
	}
	sections = append(sections, "")

	if m.view.LastPlayerText != "" {
		for _, line := range textlayout.WrapLines(m.view.Player+": "+m.view.LastPlayerText, lipgloss.Width, textWidth) {
			sections = append(sections, m.styles.player.Render(line))
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	input := m.styles.input.Render(m.input.View())

	bodyHeight := m.height - lipgloss.Height(input)
	if bodyHeight > lipgloss.Height(body) {
		body = lipgloss.PlaceVertical(bodyHeight, lipgloss.Top, body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, input)
}

// notificationLines renders score changes centred above the slider, each
// dimmed according to its remaining alpha.
func (m Model) notificationLines() []string {
	lines := make([]string, 0, len(m.view.ActiveNotifications))
	for _, n := range m.view.ActiveNotifications {
		style := lipgloss.NewStyle().Bold(true).Foreground(fadeColor(n.Alpha))
		lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, style.Render(n.Text)))
	}
	return lines
}

func (m Model) healthBar(width int) string {
	filled := sliderFill(m.view.CurrentHealthScore, width)
	return m.styles.sliderFill.Render(strings.Repeat("█", filled)) +
		m.styles.sliderEmpty.Render(strings.Repeat("░", width-filled))
}

// sliderFill maps a 1..10 score onto width cells, empty at 1 and full at 10.
func sliderFill(score, width int) int {
	if width <= 0 {
		return 0
	}
	score = health.Clamp(score)
	return (score - health.Min) * width / (health.Max - health.Min)
}
