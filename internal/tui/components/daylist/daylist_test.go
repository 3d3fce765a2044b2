package daylist

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/view"
)

var day = time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)

func tracker(id, name string) models.Tracker {
	return models.Tracker{ID: id, Name: name, Emoji: "🙂", Color: "FD4C49", Kind: models.KindHabit, Schedule: models.EveryDay}
}

func TestSetGroupsKeepsSelection(t *testing.T) {
	a, b, c := tracker("a", "Alpha"), tracker("b", "Beta"), tracker("c", "Gamma")
	index := view.NewRecordIndex([]models.CompletionRecord{{TrackerID: "b", Day: day}})

	m := New()
	m.SetGroups([]view.Group{{Title: "Health", Trackers: []models.Tracker{a, b, c}}}, index, day)
	m.MoveDown()
	if sel, _ := m.Selected(); sel.ID != "b" {
		t.Fatalf("selected %s, want b", sel.ID)
	}
	if !m.Rows()[1].Done || m.Rows()[1].Count != 1 {
		t.Errorf("row b = %+v", m.Rows()[1])
	}

	// b moves to a pinned group at the top
	m.SetGroups([]view.Group{
		{Title: "Pinned", Pinned: true, Trackers: []models.Tracker{b}},
		{Title: "Health", Trackers: []models.Tracker{a, c}},
	}, index, day)
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor())
	}

	// b disappears; the cursor stays in range
	m.SetGroups([]view.Group{{Title: "Health", Trackers: []models.Tracker{a}}}, index, day)
	if sel, ok := m.Selected(); !ok || sel.ID != "a" {
		t.Errorf("selected %+v, want a", sel)
	}
}

func TestMoveBounds(t *testing.T) {
	m := New()
	m.MoveUp()
	m.MoveDown()
	if _, ok := m.Selected(); ok {
		t.Error("empty list should have no selection")
	}

	m.SetGroups([]view.Group{{Title: "Health", Trackers: []models.Tracker{tracker("a", "Alpha"), tracker("b", "Beta")}}}, view.NewRecordIndex(nil), day)
	m.MoveDown()
	m.MoveDown()
	if m.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor())
	}
	m.MoveUp()
	m.MoveUp()
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor())
	}
}

func TestView(t *testing.T) {
	m := New()
	m.SetEmptyMessage("Nothing found.")
	if !strings.Contains(m.View(), "Nothing found.") {
		t.Errorf("empty view = %q", m.View())
	}

	event := models.Tracker{ID: "e", Name: "Dentist", Emoji: "🙂", Color: "FD4C49", Kind: models.KindEvent}
	m.SetGroups([]view.Group{
		{Title: "Health", Trackers: []models.Tracker{tracker("a", "Alpha")}},
		{Title: "Errands", Trackers: []models.Tracker{event}},
	}, view.NewRecordIndex(nil), day)

	out := m.View()
	for _, want := range []string{"Health", "Errands", "Alpha", "0 days · Every day", "Dentist", "event"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestDaysLabel(t *testing.T) {
	tests := map[int]string{0: "0 days", 1: "1 day", 12: "12 days"}
	for n, want := range tests {
		if got := DaysLabel(n); got != want {
			t.Errorf("DaysLabel(%d) = %q, want %q", n, got, want)
		}
	}
}
