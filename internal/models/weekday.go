package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekDay is a Monday-first day of the week, Monday=1 through Sunday=7.
type WeekDay int

const (
	Monday WeekDay = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekDays lists the week in its fixed iteration order.
var AllWeekDays = []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekDayNames = map[WeekDay]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// WeekDayOf maps a time's native weekday (Sunday=0) onto the Monday-first enumeration.
func WeekDayOf(t time.Time) WeekDay {
	return WeekDay((int(t.Weekday())+6)%7 + 1)
}

func (d WeekDay) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d WeekDay) String() string {
	if name, ok := weekDayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("WeekDay(%d)", int(d))
}

// Short returns the three letter abbreviation, e.g. "Mon".
func (d WeekDay) Short() string {
	if !d.Valid() {
		return "?"
	}
	return d.String()[:3]
}

// ParseWeekDay accepts full or abbreviated English names and the numbers 1-7.
func ParseWeekDay(s string) (WeekDay, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, d := range AllWeekDays {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		if d := WeekDay(n); d.Valid() {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// Schedule is a set of weekdays stored as a bitmask, bit (d-1) for day d.
// The zero value is the empty schedule of an irregular event.
type Schedule uint8

// NewSchedule builds a schedule from the given days, ignoring invalid values.
func NewSchedule(days ...WeekDay) Schedule {
	var s Schedule
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// EveryDay is the schedule containing all seven days.
var EveryDay = NewSchedule(AllWeekDays...)

func (s Schedule) With(d WeekDay) Schedule {
	if !d.Valid() {
		return s
	}
	return s | 1<<(uint(d)-1)
}

func (s Schedule) Without(d WeekDay) Schedule {
	if !d.Valid() {
		return s
	}
	return s &^ (1 << (uint(d) - 1))
}

func (s Schedule) Contains(d WeekDay) bool {
	return d.Valid() && s&(1<<(uint(d)-1)) != 0
}

func (s Schedule) IsEmpty() bool {
	return s&Schedule(EveryDayMask) == 0
}

// EveryDayMask is the bitmask value of a full week.
const EveryDayMask = 1<<7 - 1

// Days returns the members in Monday-first order.
func (s Schedule) Days() []WeekDay {
	var days []WeekDay
	for _, d := range AllWeekDays {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s Schedule) Len() int {
	return len(s.Days())
}

// ParseSchedule parses a comma-separated weekday list such as "mon,wed,fri".
// The keywords "daily" and "weekdays" are accepted as shorthands; an empty
// string yields the empty schedule.
func ParseSchedule(str string) (Schedule, error) {
	str = strings.TrimSpace(strings.ToLower(str))
	switch str {
	case "":
		return 0, nil
	case "daily", "everyday", "every day":
		return EveryDay, nil
	case "weekdays":
		return NewSchedule(Monday, Tuesday, Wednesday, Thursday, Friday), nil
	case "weekends":
		return NewSchedule(Saturday, Sunday), nil
	}
	var s Schedule
	for _, part := range strings.Split(str, ",") {
		d, err := ParseWeekDay(part)
		if err != nil {
			return 0, err
		}
		s = s.With(d)
	}
	return s, nil
}
