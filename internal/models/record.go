package models

import "time"

// CompletionRecord marks a tracker done on one calendar day. Day is always
// midnight in the user's location; (TrackerID, Day) is unique.
type CompletionRecord struct {
	TrackerID string    `json:"tracker_id"`
	Day       time.Time `json:"day"`
}

// DayKey returns the record day as YYYY-MM-DD.
func (r CompletionRecord) DayKey() string {
	return r.Day.Format("2006-01-02")
}
