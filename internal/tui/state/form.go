package state

import (
	"github.com/julianstephens/trackit/internal/constants"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/validation"
)

// TrackerFormModel backs the create and edit tracker forms. Category holds
// a title; the category is resolved (or created) when the form is saved.
type TrackerFormModel struct {
	Name     string
	Kind     models.TrackerKind
	Category string
	Emoji    string
	Color    string
	Days     []models.WeekDay

	// Edit state carried through unchanged.
	ID     string
	Pinned bool
}

// NewTrackerFormModel returns an empty form with the first palette entries
// preselected.
func NewTrackerFormModel(kind models.TrackerKind) *TrackerFormModel {
	return &TrackerFormModel{
		Kind:  kind,
		Emoji: constants.Emojis[0],
		Color: constants.Colors[0],
	}
}

// TrackerFormModelFrom pre-fills the form from an existing tracker.
func TrackerFormModelFrom(t models.Tracker, categoryTitle string) *TrackerFormModel {
	return &TrackerFormModel{
		Name:     t.Name,
		Kind:     t.Kind,
		Category: categoryTitle,
		Emoji:    t.Emoji,
		Color:    t.Color,
		Days:     t.Schedule.Days(),
		ID:       t.ID,
		Pinned:   t.Pinned,
	}
}

// Tracker builds and validates the tracker described by the form. The
// returned category title is normalised the same way as tracker names.
func (fm *TrackerFormModel) Tracker() (models.Tracker, string, error) {
	title, err := validation.Name("category", fm.Category)
	if err != nil {
		return models.Tracker{}, "", err
	}

	t := models.Tracker{
		ID:     fm.ID,
		Name:   fm.Name,
		Kind:   fm.Kind,
		Emoji:  fm.Emoji,
		Color:  fm.Color,
		Pinned: fm.Pinned,
		// Validation only needs a non-empty category; the caller supplies the id.
		CategoryID: title,
	}
	if fm.Kind == models.KindHabit {
		t.Schedule = models.NewSchedule(fm.Days...)
	}
	if err := validation.Tracker(&t); err != nil {
		return models.Tracker{}, "", err
	}
	t.CategoryID = ""
	return t, title, nil
}
