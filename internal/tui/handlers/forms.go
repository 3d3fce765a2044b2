package handlers

import (
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/trackit/internal/constants"
	"github.com/julianstephens/trackit/internal/models"
	"github.com/julianstephens/trackit/internal/tui/state"
	"github.com/julianstephens/trackit/internal/validation"
)

// NewTrackerForm builds the create/edit form. The schedule group is hidden
// for irregular events. categories feed the title suggestions.
func NewTrackerForm(fm *state.TrackerFormModel, categories []string) *huh.Form {
	emojiOptions := make([]huh.Option[string], 0, len(constants.Emojis))
	for _, e := range constants.Emojis {
		emojiOptions = append(emojiOptions, huh.NewOption(e, e))
	}

	colorOptions := make([]huh.Option[string], 0, len(constants.Colors))
	for _, c := range constants.Colors {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color("#" + c)).Render("■■")
		colorOptions = append(colorOptions, huh.NewOption(swatch+" #"+c, c))
	}

	dayOptions := make([]huh.Option[models.WeekDay], 0, len(models.AllWeekDays))
	for _, d := range models.AllWeekDays {
		dayOptions = append(dayOptions, huh.NewOption(d.String(), d).Selected(containsDay(fm.Days, d)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				CharLimit(constants.MaxNameLength).
				Value(&fm.Name).
				Validate(func(s string) error {
					_, err := validation.Name("name", s)
					return err
				}),
			huh.NewSelect[models.TrackerKind]().
				Title("Type").
				Options(
					huh.NewOption("Habit", models.KindHabit),
					huh.NewOption("Irregular event", models.KindEvent),
				).
				Value(&fm.Kind),
			huh.NewInput().
				Title("Category").
				Suggestions(categories).
				Value(&fm.Category).
				Validate(func(s string) error {
					_, err := validation.Name("category", s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewMultiSelect[models.WeekDay]().
				Title("Schedule").
				Options(dayOptions...).
				Value(&fm.Days).
				Validate(func(days []models.WeekDay) error {
					if len(days) == 0 {
						return errors.New("pick at least one day")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.Kind == models.KindEvent }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Emoji").
				Options(emojiOptions...).
				Value(&fm.Emoji),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions...).
				Value(&fm.Color),
		),
	).WithTheme(huh.ThemeDracula())
}

func containsDay(days []models.WeekDay, d models.WeekDay) bool {
	for _, candidate := range days {
		if candidate == d {
			return true
		}
	}
	return false
}
