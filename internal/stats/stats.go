// Package stats computes longitudinal statistics over trackers and their
// completion records.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/trackit/internal/models"
)

type Summary struct {
	BestStreakDays      int
	PerfectDays         int
	TotalCompletions    int
	AveragePerActiveDay float64
	// LastActiveDay is the most recent day with any completion; zero when there is none.
	LastActiveDay time.Time
}

type dayBucket struct {
	day  time.Time
	done map[string]struct{}
}

// Compute derives the summary from full snapshots. Record days are
// compared by calendar date in their own location.
func Compute(trackers []models.Tracker, records []models.CompletionRecord) Summary {
	buckets := make(map[string]*dayBucket)
	for _, r := range records {
		key := r.DayKey()
		b := buckets[key]
		if b == nil {
			y, m, d := r.Day.Date()
			b = &dayBucket{day: time.Date(y, m, d, 0, 0, 0, 0, r.Day.Location()), done: make(map[string]struct{})}
			buckets[key] = b
		}
		b.done[r.TrackerID] = struct{}{}
	}
	if len(buckets) == 0 {
		return Summary{}
	}

	days := make([]*dayBucket, 0, len(buckets))
	for _, b := range buckets {
		days = append(days, b)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].day.Before(days[j].day) })

	s := Summary{
		TotalCompletions: len(records),
		LastActiveDay:    days[len(days)-1].day,
	}
	s.AveragePerActiveDay = float64(s.TotalCompletions) / float64(len(days))

	for _, b := range days {
		if isPerfect(trackers, b) {
			s.PerfectDays++
		}
	}

	s.BestStreakDays = bestStreak(days)
	return s
}

// isPerfect reports whether the trackers completed on the day are exactly
// the habits scheduled for its weekday. Irregular events are never scheduled.
func isPerfect(trackers []models.Tracker, b *dayBucket) bool {
	weekday := models.WeekDayOf(b.day)
	scheduled := 0
	for _, t := range trackers {
		if t.IsIrregular() || !t.ScheduledOn(weekday) {
			continue
		}
		scheduled++
		if _, ok := b.done[t.ID]; !ok {
			return false
		}
	}
	return scheduled > 0 && scheduled == len(b.done)
}

func bestStreak(days []*dayBucket) int {
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if isNextDay(days[i-1].day, days[i].day) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// isNextDay compares calendar dates so DST-length days still count as consecutive.
func isNextDay(prev, next time.Time) bool {
	y, m, d := prev.Date()
	ny, nm, nd := time.Date(y, m, d+1, 0, 0, 0, 0, prev.Location()).Date()
	y2, m2, d2 := next.Date()
	return ny == y2 && nm == m2 && nd == d2
}
