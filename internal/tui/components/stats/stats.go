// Package stats renders the analytics tab.
package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/models"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(18)

	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	brokenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const nameWidth = 24

type row struct {
	name   string
	period models.Periodicity
	streak int
	broken bool
}

type Model struct {
	summary analytics.Summary
	rows    []row
	width   int
	height  int
}

func New(habits []*models.Habit, width, height int) Model {
	m := Model{width: width, height: height}
	m.SetHabits(habits)
	return m
}

// SetHabits recomputes the summary. Streaks are read through each habit's clock.
func (m *Model) SetHabits(habits []*models.Habit) {
	m.summary = analytics.Summarize(habits)
	m.rows = make([]row, len(habits))
	for i, h := range habits {
		m.rows[i] = row{
			name:   h.Name(),
			period: h.Periodicity(),
			streak: h.Streak(),
			broken: h.IsBroken(),
		}
	}
}

func (m Model) Summary() analytics.Summary {
	return m.summary
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) View() string {
	if m.summary.Total == 0 {
		return "\n  Nothing to analyze yet."
	}

	s := m.summary
	var b strings.Builder
	b.WriteString(headingStyle.Render("Summary"))
	b.WriteString("\n")
	line := func(label, value string) {
		b.WriteString("  " + labelStyle.Render(label) + value + "\n")
	}
	line("Total habits", fmt.Sprintf("%d", s.Total))
	line("Daily / Weekly", fmt.Sprintf("%d / %d", s.Daily, s.Weekly))
	line("Broken", fmt.Sprintf("%d", s.Broken))
	line("Longest streak", fmt.Sprintf("%d", s.LongestStreak))
	line("Completion rate", fmt.Sprintf("%.1f%%", s.CompletionRate))
	line("Average streak", fmt.Sprintf("%.1f", s.AverageStreak))

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Streaks"))
	b.WriteString("\n")
	for _, r := range m.rows {
		status := activeStyle.Render("Active")
		if r.broken {
			status = brokenStyle.Render("Broken")
		}
		fmt.Fprintf(&b, "  %-*s %-7s %3d  %s\n", nameWidth, truncate(r.name), r.period, r.streak, status)
	}
	return b.String()
}

func truncate(name string) string {
	runes := []rune(name)
	if len(runes) <= nameWidth {
		return name
	}
	return string(runes[:nameWidth-1]) + "…"
}
