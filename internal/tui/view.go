package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/habita/habita/internal/format"
	"github.com/habita/habita/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Bold(true)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder())

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.onboarding {
		return docStyle.Render(hintStyle.Render(strings.Join([]string{
			"Welcome to habita!",
			"",
			"Track one thing at a time:",
			"space toggles a tracker, ←/→ change the day,",
			"f cycles the filter, / searches.",
			"",
			"Press any key to start.",
		}, "\n")))
	}

	var b strings.Builder

	title := m.date.Format("Monday, 2 Jan 2006")
	if m.date.Equal(m.today()) {
		title += " (today)"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString(badgeStyle.Render(fmt.Sprintf("  filter: %s", m.mode)))
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	if len(m.rows) == 0 {
		b.WriteString("\nNothing to show for this day.\n")
	} else {
		m.renderList(&b)
	}

	if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.statusLine))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return docStyle.Render(b.String())
}

func (m Model) renderList(b *strings.Builder) {
	evalDate := m.date
	if m.mode == models.FilterToday {
		evalDate = m.today()
	}

	idx := 0
	for _, cat := range m.visible {
		b.WriteString("\n")
		b.WriteString(categoryStyle.Render(cat.Title))
		b.WriteString("\n")
		for _, t := range cat.Trackers {
			b.WriteString(m.renderRow(t, evalDate, idx == m.cursor))
			b.WriteString("\n")
			idx++
		}
	}
}

func (m Model) renderRow(t models.Tracker, evalDate time.Time, selected bool) string {
	mark := "○"
	if m.led.IsCompleted(t.ID, evalDate) {
		mark = "✓"
	}

	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(models.ColorHex(t.Color)))
	if mark == "✓" {
		nameStyle = completedStyle
	}

	line := fmt.Sprintf("  %s %s %s %s",
		mark,
		t.Emoji,
		nameStyle.Render(t.Name),
		badgeStyle.Render(format.Days(m.led.CompletionCount(t.ID))),
	)
	if selected {
		return selectedStyle.Render(line)
	}
	return line
}
