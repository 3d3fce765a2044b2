package view

import (
	"testing"
	"time"

	"github.com/julianstephens/trackit/internal/constants"
	"github.com/julianstephens/trackit/internal/models"
)

var (
	monday  = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
)

func titles(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Title
	}
	return out
}

func names(g Group) []string {
	out := make([]string, len(g.Trackers))
	for i, t := range g.Trackers {
		out[i] = t.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScheduleFilter(t *testing.T) {
	snap := Snapshot{
		Categories: []models.Category{{ID: "w", Title: "Work"}},
		Trackers: []models.Tracker{
			{ID: "m", Name: "Standup", CategoryID: "w", Schedule: models.NewSchedule(models.Monday)},
			{ID: "p", Name: "Pinned standup", CategoryID: "w", Schedule: models.NewSchedule(models.Monday), Pinned: true},
		},
	}

	if got := Compute(snap, Query{Date: tuesday}); len(got) != 0 {
		t.Errorf("Tuesday view = %v, want empty", titles(got))
	}
	got := Compute(snap, Query{Date: monday.Add(15 * time.Hour)})
	if TrackerCount(got) != 2 {
		t.Errorf("Monday view has %d trackers, want 2", TrackerCount(got))
	}
}

func TestIrregularEvent(t *testing.T) {
	event := models.Tracker{ID: "e", Name: "Dentist", CategoryID: "h", Kind: models.KindEvent}
	cats := []models.Category{{ID: "h", Title: "Health"}}

	never := Snapshot{Categories: cats, Trackers: []models.Tracker{event}}
	for _, d := range []time.Time{monday, tuesday, monday.AddDate(0, 1, 0)} {
		if TrackerCount(Compute(never, Query{Date: d})) != 1 {
			t.Errorf("uncompleted event hidden on %v", d)
		}
	}

	done := Snapshot{
		Categories: cats,
		Trackers:   []models.Tracker{event},
		Records:    []models.CompletionRecord{{TrackerID: "e", Day: monday}},
	}
	if TrackerCount(Compute(done, Query{Date: monday})) != 1 {
		t.Error("completed event missing on its completion day")
	}
	if TrackerCount(Compute(done, Query{Date: tuesday})) != 0 {
		t.Error("completed event still shown on another day")
	}
}

func TestPinnedOrdering(t *testing.T) {
	snap := Snapshot{
		Categories: []models.Category{{ID: "h", Title: "Home"}, {ID: "w", Title: "Work"}},
		Trackers: []models.Tracker{
			{ID: "a", Name: "A", CategoryID: "h", Schedule: models.EveryDay, Pinned: true},
			{ID: "b", Name: "B", CategoryID: "w", Schedule: models.EveryDay},
		},
	}

	got := Compute(snap, Query{Date: monday})
	if !equal(titles(got), []string{constants.PinnedGroupTitle, "Work"}) {
		t.Fatalf("groups = %v, want [Pinned Work]", titles(got))
	}
	if !got[0].Pinned || !equal(names(got[0]), []string{"A"}) {
		t.Errorf("pinned group = %+v", got[0])
	}
	if got[1].CategoryID != "w" || !equal(names(got[1]), []string{"B"}) {
		t.Errorf("work group = %+v", got[1])
	}

	got = Compute(snap, Query{Date: monday, PinnedTitle: "Favourites"})
	if got[0].Title != "Favourites" {
		t.Errorf("pinned title = %q, want override", got[0].Title)
	}
}

func TestCategoryOrderAndOrphans(t *testing.T) {
	snap := Snapshot{
		Categories: []models.Category{{ID: "a", Title: "Alpha"}, {ID: "b", Title: "Beta"}, {ID: "c", Title: "Empty"}},
		Trackers: []models.Tracker{
			{ID: "1", Name: "One", CategoryID: "b", Schedule: models.EveryDay},
			{ID: "2", Name: "Two", CategoryID: "a", Schedule: models.EveryDay},
			{ID: "3", Name: "Three", CategoryID: "b", Schedule: models.EveryDay},
			{ID: "4", Name: "Lost", CategoryID: "gone", Schedule: models.EveryDay},
		},
	}

	got := Compute(snap, Query{Date: monday})
	if !equal(titles(got), []string{"Alpha", "Beta", constants.UncategorizedTitle}) {
		t.Fatalf("groups = %v", titles(got))
	}
	if !equal(names(got[1]), []string{"One", "Three"}) {
		t.Errorf("Beta trackers = %v, want input order", names(got[1]))
	}
}

func TestSearch(t *testing.T) {
	snap := Snapshot{
		Categories: []models.Category{{ID: "h", Title: "Health"}},
		Trackers: []models.Tracker{
			{ID: "1", Name: "Morning Run", CategoryID: "h", Schedule: models.EveryDay},
			{ID: "2", Name: "STRASSE walk", CategoryID: "h", Schedule: models.EveryDay},
			{ID: "3", Name: "Read", CategoryID: "h", Schedule: models.EveryDay},
		},
	}

	tests := []struct {
		search string
		want   int
	}{
		{"", 3},
		{"   ", 3},
		{"run", 1},
		{"RUN", 1},
		{"straße", 1}, // full case folding
		{"swim", 0},
	}
	for _, tt := range tests {
		if got := TrackerCount(Compute(snap, Query{Date: monday, Search: tt.search})); got != tt.want {
			t.Errorf("search %q matched %d, want %d", tt.search, got, tt.want)
		}
	}
}

func TestCompletionFilter(t *testing.T) {
	snap := Snapshot{
		Categories: []models.Category{{ID: "h", Title: "Health"}},
		Trackers: []models.Tracker{
			{ID: "1", Name: "Run", CategoryID: "h", Schedule: models.EveryDay},
			{ID: "2", Name: "Read", CategoryID: "h", Schedule: models.EveryDay},
		},
		Records: []models.CompletionRecord{{TrackerID: "1", Day: monday}},
	}

	tests := []struct {
		filter models.TrackerFilter
		want   []string
	}{
		{models.FilterAll, []string{"Run", "Read"}},
		{models.FilterToday, []string{"Run", "Read"}},
		{models.FilterCompleted, []string{"Run"}},
		{models.FilterIncomplete, []string{"Read"}},
	}
	for _, tt := range tests {
		got := Compute(snap, Query{Date: monday, Filter: tt.filter})
		if len(got) != 1 || !equal(names(got[0]), tt.want) {
			t.Errorf("filter %s = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func TestRecordIndex(t *testing.T) {
	idx := NewRecordIndex([]models.CompletionRecord{
		{TrackerID: "a", Day: monday},
		{TrackerID: "a", Day: tuesday},
	})
	if !idx.Done("a", monday.Add(20*time.Hour)) {
		t.Error("Done() should ignore time of day")
	}
	if idx.Done("b", monday) {
		t.Error("Done() for unknown tracker")
	}
	if idx.Count("a") != 2 || idx.Count("b") != 0 {
		t.Errorf("Count() = %d, %d", idx.Count("a"), idx.Count("b"))
	}
}
