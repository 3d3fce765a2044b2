package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/trackit/internal/constants"
	"github.com/julianstephens/trackit/internal/models"
)

// FieldError describes invalid user input for a single field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErr(field, format string, args ...interface{}) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Name trims a tracker name or category title and checks it is non-empty
// and at most MaxNameLength runes.
func Name(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fieldErr(field, "must not be empty")
	}
	if n := utf8.RuneCountInString(value); n > constants.MaxNameLength {
		return "", fieldErr(field, "must be at most %d characters (got %d)", constants.MaxNameLength, n)
	}
	return value, nil
}

// Emoji checks that e is one of the palette glyphs.
func Emoji(e string) error {
	for _, candidate := range constants.Emojis {
		if e == candidate {
			return nil
		}
	}
	return fieldErr("emoji", "%q is not in the palette", e)
}

// Color normalises a hex color ("#fd4c49" -> "FD4C49") and checks it is in the palette.
func Color(c string) (string, error) {
	norm := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
	for _, candidate := range constants.Colors {
		if norm == candidate {
			return norm, nil
		}
	}
	return "", fieldErr("color", "%q is not in the palette", c)
}

// Tracker validates and normalises a tracker before it reaches a repository.
// Habits need at least one scheduled day; events must have none.
func Tracker(t *models.Tracker) error {
	name, err := Name("name", t.Name)
	if err != nil {
		return err
	}
	t.Name = name

	if err := Emoji(t.Emoji); err != nil {
		return err
	}
	color, err := Color(t.Color)
	if err != nil {
		return err
	}
	t.Color = color

	switch t.Kind {
	case models.KindHabit:
		if t.Schedule.IsEmpty() {
			return fieldErr("schedule", "a habit needs at least one day")
		}
	case models.KindEvent:
		if !t.Schedule.IsEmpty() {
			return fieldErr("schedule", "an irregular event cannot have a schedule")
		}
	default:
		return fieldErr("kind", "invalid tracker kind %q", t.Kind)
	}

	if t.CategoryID == "" {
		return fieldErr("category", "must be selected")
	}
	return nil
}

// FormatSchedule renders a schedule for display: "Every day" for a full
// week, otherwise short day names in Monday-first order.
func FormatSchedule(s models.Schedule) string {
	if s == models.EveryDay {
		return constants.EveryDayTitle
	}
	days := s.Days()
	if len(days) == 0 {
		return ""
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.Short()
	}
	return strings.Join(names, ", ")
}
