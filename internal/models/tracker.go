package models

import (
	"fmt"
	"time"
)

type TrackerKind string

const (
	KindHabit TrackerKind = "habit"
	KindEvent TrackerKind = "event"
)

// ParseTrackerKind defaults to habit when s is empty.
func ParseTrackerKind(s string) (TrackerKind, error) {
	switch TrackerKind(s) {
	case "", KindHabit:
		return KindHabit, nil
	case KindEvent:
		return KindEvent, nil
	default:
		return "", fmt.Errorf("invalid tracker kind: %s", s)
	}
}

// Tracker is a habit (non-empty weekly schedule) or an irregular event
// (empty schedule). It references its category by id only.
type Tracker struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Color      string      `json:"color"` // RRGGBB
	Emoji      string      `json:"emoji"`
	Schedule   Schedule    `json:"schedule"`
	CategoryID string      `json:"category_id"`
	Kind       TrackerKind `json:"kind"`
	Pinned     bool        `json:"pinned"`
	CreatedAt  time.Time   `json:"created_at"`
}

// IsIrregular reports whether the tracker has no weekly schedule.
func (t Tracker) IsIrregular() bool {
	return t.Schedule.IsEmpty()
}

// ScheduledOn reports whether a habit is due on the given weekday.
// Irregular trackers are never "scheduled"; they are handled separately by callers.
func (t Tracker) ScheduledOn(d WeekDay) bool {
	return t.Schedule.Contains(d)
}
