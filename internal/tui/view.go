package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/trackit/internal/stats"
	"github.com/julianstephens/trackit/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	switch m.state {
	case stateForm:
		b.WriteString(titleStyle.Render(m.formTitle()))
		b.WriteString("\n\n")
		b.WriteString(m.form.View())
	case stateStats:
		b.WriteString(m.statsView())
	default:
		b.WriteString(m.dayHeader())
		b.WriteString("\n")
		if m.state == stateSearch || m.search.Value() != "" {
			b.WriteString(m.search.View())
			b.WriteString("\n")
		}
		b.WriteString(m.dayList.View())
	}

	b.WriteString("\n\n")
	switch {
	case m.state == stateConfirmDelete:
		if t, ok := m.repos.Trackers.Get(m.pendingDeleteID); ok {
			b.WriteString(dangerStyle.Render(fmt.Sprintf("Delete %s %s and all of its records? (y/n)", t.Emoji, t.Name)))
		}
	case m.formError != "":
		b.WriteString(dangerStyle.Render("Error: " + m.formError))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}

	if m.state != stateForm {
		b.WriteString("\n")
		b.WriteString(m.help.View(m))
	}

	return docStyle.Render(b.String())
}

func (m Model) tabs() string {
	day, stat := activeTabStyle, inactiveTabStyle
	if m.state == stateStats {
		day, stat = inactiveTabStyle, activeTabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, day.Render("Trackers"), stat.Render("Statistics"))
}

func (m Model) formTitle() string {
	if m.formData != nil && m.formData.ID != "" {
		return "Edit tracker"
	}
	return "New tracker"
}

func (m Model) dayHeader() string {
	day := m.viewDay()
	label := day.Format("Monday, January 2 2006")
	switch {
	case utils.SameDay(day, m.today()):
		label += " (today)"
	case day.After(m.today()):
		label += " (upcoming)"
	}
	return titleStyle.Render(label) + mutedStyle.Render(fmt.Sprintf("  filter: %s", m.filter))
}

func (m Model) statsView() string {
	summary := stats.Compute(m.repos.Trackers.List(), m.repos.Records.List())
	if summary.TotalCompletions == 0 {
		return mutedStyle.Render("Nothing to analyze yet. Mark a tracker to see statistics.")
	}

	lastActive := "never"
	if !summary.LastActiveDay.IsZero() {
		lastActive = relativeDay(m.today(), summary.LastActiveDay)
	}

	rows := [][2]string{
		{"Best streak", humanize.Comma(int64(summary.BestStreakDays)) + " days"},
		{"Perfect days", humanize.Comma(int64(summary.PerfectDays))},
		{"Trackers completed", humanize.Comma(int64(summary.TotalCompletions))},
		{"Average per active day", humanize.FtoaWithDigits(summary.AveragePerActiveDay, 2)},
		{"Last active", lastActive},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, statLabelStyle.Render(r[0])+statValueStyle.Render(r[1]))
	}
	return strings.Join(lines, "\n")
}

func relativeDay(today, day time.Time) string {
	switch {
	case utils.SameDay(today, day):
		return "today"
	case utils.SameDay(utils.AddDays(today, -1), day):
		return "yesterday"
	}
	return humanize.RelTime(day, today, "ago", "from now")
}
