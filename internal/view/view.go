// Package view derives the grouped, day-scoped tracker list shown by the
// CLI and the TUI. Compute is pure; it keeps no state between calls.
package view

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/julianstephens/trackit/internal/constants"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/utils"
)

type Snapshot struct {
	Categories []models.Category
	Trackers   []models.Tracker
	Records    []models.CompletionRecord
}

type Query struct {
	Date   time.Time
	Search string
	Filter models.TrackerFilter
	// PinnedTitle overrides constants.PinnedGroupTitle when set.
	PinnedTitle string
}

// Group is one section of the day view. CategoryID is empty for the
// pinned group and for trackers whose category no longer exists.
type Group struct {
	Title      string
	CategoryID string
	Pinned     bool
	Trackers   []models.Tracker
}

// Compute filters the snapshot for q.Date and groups the result: a pinned
// group first when it is non-empty, then one group per category in
// category order, then trackers without a known category. Empty groups are
// dropped and tracker order is preserved within each group.
func Compute(snap Snapshot, q Query) []Group {
	day := utils.StartOfDay(q.Date, nil)
	weekday := models.WeekDayOf(day)
	index := NewRecordIndex(snap.Records)
	needle := fold(strings.TrimSpace(q.Search))

	known := make(map[string]bool, len(snap.Categories))
	for _, c := range snap.Categories {
		known[c.ID] = true
	}

	var pinned, orphans []models.Tracker
	byCategory := make(map[string][]models.Tracker)
	for _, t := range snap.Trackers {
		if !eligibleOn(t, day, weekday, index) {
			continue
		}
		if needle != "" && !strings.Contains(fold(t.Name), needle) {
			continue
		}
		if !matchesFilter(t, day, q.Filter, index) {
			continue
		}
		switch {
		case t.Pinned:
			pinned = append(pinned, t)
		case !known[t.CategoryID]:
			orphans = append(orphans, t)
		default:
			byCategory[t.CategoryID] = append(byCategory[t.CategoryID], t)
		}
	}

	var groups []Group
	if len(pinned) > 0 {
		title := q.PinnedTitle
		if title == "" {
			title = constants.PinnedGroupTitle
		}
		groups = append(groups, Group{Title: title, Pinned: true, Trackers: pinned})
	}

	for _, c := range snap.Categories {
		trackers := byCategory[c.ID]
		if len(trackers) == 0 {
			continue
		}
		groups = append(groups, Group{Title: c.Title, CategoryID: c.ID, Trackers: trackers})
	}

	if len(orphans) > 0 {
		groups = append(groups, Group{Title: constants.UncategorizedTitle, Trackers: orphans})
	}

	return groups
}

// eligibleOn applies the schedule rule. A habit shows on its scheduled
// weekdays. An irregular event shows every day until it is completed,
// after which it shows only on the days it was completed.
func eligibleOn(t models.Tracker, day time.Time, weekday models.WeekDay, index RecordIndex) bool {
	if !t.IsIrregular() {
		return t.ScheduledOn(weekday)
	}
	if index.Count(t.ID) == 0 {
		return true
	}
	return index.Done(t.ID, day)
}

func matchesFilter(t models.Tracker, day time.Time, filter models.TrackerFilter, index RecordIndex) bool {
	switch filter {
	case models.FilterCompleted:
		return index.Done(t.ID, day)
	case models.FilterIncomplete:
		return !index.Done(t.ID, day)
	default:
		return true
	}
}

// fold applies Unicode case folding. A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// TrackerCount totals the trackers across groups.
func TrackerCount(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Trackers)
	}
	return n
}
