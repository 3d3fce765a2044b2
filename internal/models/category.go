package models

import "time"

// Category groups trackers. It holds no back-references; membership is
// derived from Tracker.CategoryID.
type Category struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
