package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/trackit/internal/constants"
)

// TrackerFilter narrows the day view by completion state.
type TrackerFilter string

const (
	FilterAll        TrackerFilter = "all"
	FilterToday      TrackerFilter = "today"
	FilterCompleted  TrackerFilter = "completed"
	FilterIncomplete TrackerFilter = "incomplete"
)

// AllFilters lists the filters in the order the UI cycles through them.
var AllFilters = []TrackerFilter{FilterAll, FilterToday, FilterCompleted, FilterIncomplete}

func ParseTrackerFilter(s string) (TrackerFilter, error) {
	switch f := TrackerFilter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterToday, FilterCompleted, FilterIncomplete:
		return f, nil
	default:
		return "", fmt.Errorf("invalid filter %q (expected all|today|completed|incomplete)", s)
	}
}

// Next returns the filter after f in AllFilters, wrapping around.
func (f TrackerFilter) Next() TrackerFilter {
	for i, candidate := range AllFilters {
		if candidate == f {
			return AllFilters[(i+1)%len(AllFilters)]
		}
	}
	return FilterAll
}

// Settings represents user preferences persisted alongside the data
type Settings struct {
	Timezone             string        `json:"timezone"`              // IANA timezone name, or "Local" for the system timezone
	Filter               TrackerFilter `json:"tracker_filter"`        // last selected day view filter
	NotificationsEnabled bool          `json:"notifications_enabled"` // whether `trackit remind` may notify
}

func DefaultSettings() Settings {
	return Settings{
		Timezone:             "Local",
		Filter:               FilterAll,
		NotificationsEnabled: true,
	}
}

// Map flattens settings into the key/value rows of the settings table.
func (s Settings) Map() map[string]string {
	return map[string]string{
		constants.SettingTimezone:             s.Timezone,
		constants.SettingFilter:               string(s.Filter),
		constants.SettingNotificationsEnabled: strconv.FormatBool(s.NotificationsEnabled),
	}
}

// SettingsFromMap is the inverse of Map. Missing keys keep their defaults.
func SettingsFromMap(values map[string]string) (Settings, error) {
	s := DefaultSettings()
	if v, ok := values[constants.SettingTimezone]; ok && v != "" {
		s.Timezone = v
	}
	if v, ok := values[constants.SettingFilter]; ok {
		f, err := ParseTrackerFilter(v)
		if err != nil {
			return Settings{}, err
		}
		s.Filter = f
	}
	if v, ok := values[constants.SettingNotificationsEnabled]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("parsing %s: %w", constants.SettingNotificationsEnabled, err)
		}
		s.NotificationsEnabled = b
	}
	return s, nil
}
