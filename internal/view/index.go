package view

import (
	"time"

	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/utils"
)

// RecordIndex answers "is this tracker done on this day" without
// scanning the record list.
type RecordIndex struct {
	days map[string]map[string]struct{}
}

func NewRecordIndex(records []models.CompletionRecord) RecordIndex {
	idx := RecordIndex{days: make(map[string]map[string]struct{})}
	for _, r := range records {
		set := idx.days[r.TrackerID]
		if set == nil {
			set = make(map[string]struct{})
			idx.days[r.TrackerID] = set
		}
		set[r.DayKey()] = struct{}{}
	}
	return idx
}

// Done reports whether trackerID has a record on day's calendar date.
func (idx RecordIndex) Done(trackerID string, day time.Time) bool {
	_, ok := idx.days[trackerID][utils.DayKey(day)]
	return ok
}

// Count is the number of days trackerID was completed.
func (idx RecordIndex) Count(trackerID string) int {
	return len(idx.days[trackerID])
}
