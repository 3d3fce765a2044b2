// Package daylist renders the grouped trackers of one day with a cursor.
package daylist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/validation"
	"github.com/julianstephens/trackit/internal/view"
)

var (
	groupStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).MarginTop(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true).Padding(1, 0)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))
)

// Row is one tracker line; Group is the title of the section it sits in.
type Row struct {
	Tracker models.Tracker
	Group   string
	Done    bool
	Count   int
}

type Model struct {
	rows   []Row
	cursor int
	empty  string
}

func New() Model {
	return Model{empty: "What are we tracking?"}
}

// SetEmptyMessage changes the text shown when there are no rows.
func (m *Model) SetEmptyMessage(s string) {
	m.empty = s
}

// SetGroups replaces the rows. The cursor follows the selected tracker
// while it is still visible.
func (m *Model) SetGroups(groups []view.Group, index view.RecordIndex, day time.Time) {
	selectedID := ""
	if t, ok := m.Selected(); ok {
		selectedID = t.ID
	}

	rows := make([]Row, 0, view.TrackerCount(groups))
	for _, g := range groups {
		for _, t := range g.Trackers {
			rows = append(rows, Row{
				Tracker: t,
				Group:   g.Title,
				Done:    index.Done(t.ID, day),
				Count:   index.Count(t.ID),
			})
		}
	}
	m.rows = rows

	for i, r := range m.rows {
		if r.Tracker.ID == selectedID {
			m.cursor = i
			return
		}
	}
	// the selected tracker is gone; keep the cursor near where it was
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *Model) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
}

func (m Model) Len() int {
	return len(m.rows)
}

func (m Model) Rows() []Row {
	return m.rows
}

func (m Model) Cursor() int {
	return m.cursor
}

// Selected returns the tracker under the cursor.
func (m Model) Selected() (models.Tracker, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return models.Tracker{}, false
	}
	return m.rows[m.cursor].Tracker, true
}

func (m Model) View() string {
	if len(m.rows) == 0 {
		return emptyStyle.Render(m.empty)
	}

	var b strings.Builder
	group := ""
	for i, r := range m.rows {
		if i == 0 || r.Group != group {
			group = r.Group
			b.WriteString(groupStyle.Render(group))
			b.WriteString("\n")
		}
		b.WriteString(renderRow(r, i == m.cursor))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRow(r Row, selected bool) string {
	pointer := "  "
	if selected {
		pointer = cursorStyle.Render("> ")
	}

	color := lipgloss.Color("#" + r.Tracker.Color)
	check := lipgloss.NewStyle().Foreground(color).Render("○")
	if r.Done {
		check = lipgloss.NewStyle().Foreground(color).Bold(true).Render("●")
	}

	name := r.Tracker.Emoji + " " + r.Tracker.Name
	if selected {
		name = selectedStyle.Render(name)
	}

	schedule := "event"
	if !r.Tracker.IsIrregular() {
		schedule = validation.FormatSchedule(r.Tracker.Schedule)
	}
	detail := mutedStyle.Render(fmt.Sprintf("  %s · %s", DaysLabel(r.Count), schedule))

	return pointer + check + " " + name + detail
}

// DaysLabel pluralises a completion count.
func DaysLabel(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
