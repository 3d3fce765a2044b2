package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/trackit/internal/models"
)

// ConflictType represents the type of data integrity problem
type ConflictType string

const (
	ConflictDuplicateTrackerName ConflictType = "duplicate_tracker_name"
	ConflictMissingCategory      ConflictType = "missing_category"
	ConflictOrphanedRecord       ConflictType = "orphaned_record"
	ConflictInvalidSchedule      ConflictType = "invalid_schedule"
	ConflictNameTooLong          ConflictType = "name_too_long"
)

// Conflict represents a detected problem in stored trackers or records
type Conflict struct {
	Type        ConflictType
	Description string
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks stored data for integrity problems that the database
// constraints do not catch on their own.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Validate scans trackers against categories and records against trackers.
func (v *Validator) Validate(categories []models.Category, trackers []models.Tracker, records []models.CompletionRecord) ValidationResult {
	var result ValidationResult

	categoryIDs := make(map[string]bool, len(categories))
	for _, c := range categories {
		categoryIDs[c.ID] = true
	}

	trackerIDs := make(map[string]bool, len(trackers))
	byName := make(map[string][]string)
	for _, t := range trackers {
		trackerIDs[t.ID] = true
		key := strings.ToLower(strings.TrimSpace(t.Name))
		byName[key] = append(byName[key], t.ID)

		if !categoryIDs[t.CategoryID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingCategory,
				Description: fmt.Sprintf("Tracker %q references missing category %s", t.Name, t.CategoryID),
				IDs:         []string{t.ID},
			})
		}
		if _, err := Name("name", t.Name); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNameTooLong,
				Description: fmt.Sprintf("Tracker %q has an invalid name: %v", t.Name, err),
				IDs:         []string{t.ID},
			})
		}
		if (t.Kind == models.KindEvent) != t.Schedule.IsEmpty() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidSchedule,
				Description: fmt.Sprintf("Tracker %q is a %s with schedule %q", t.Name, t.Kind, FormatSchedule(t.Schedule)),
				IDs:         []string{t.ID},
			})
		}
	}

	for _, t := range trackers {
		ids := byName[strings.ToLower(strings.TrimSpace(t.Name))]
		if len(ids) > 1 && ids[0] == t.ID {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateTrackerName,
				Description: fmt.Sprintf("Tracker name %q is used %d times", t.Name, len(ids)),
				IDs:         ids,
			})
		}
	}

	orphans := make(map[string]int)
	var orphanOrder []string
	for _, r := range records {
		if trackerIDs[r.TrackerID] {
			continue
		}
		if orphans[r.TrackerID] == 0 {
			orphanOrder = append(orphanOrder, r.TrackerID)
		}
		orphans[r.TrackerID]++
	}
	for _, id := range orphanOrder {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictOrphanedRecord,
			Description: fmt.Sprintf("%d completion record(s) reference missing tracker %s", orphans[id], id),
			IDs:         []string{id},
		})
	}

	return result
}
