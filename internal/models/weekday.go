package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// WeekDay is a day of the week using 1-based numbering with Sunday = 1,
// matching the convention the schedules are persisted with. The mapping to
// and from time.Weekday is done exclusively through FromTimeWeekday and
// WeekdayOf so that no other code depends on the platform's numbering.
type WeekDay int

const (
	Sunday WeekDay = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = map[WeekDay]string{
	Sunday:    "Sunday",
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
}

var weekdayAbbrevs = map[WeekDay]string{
	Sunday:    "Sun",
	Monday:    "Mon",
	Tuesday:   "Tue",
	Wednesday: "Wed",
	Thursday:  "Thu",
	Friday:    "Fri",
	Saturday:  "Sat",
}

func (d WeekDay) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d WeekDay) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("WeekDay(%d)", int(d))
}

// Abbrev returns the three-letter display abbreviation.
func (d WeekDay) Abbrev() string {
	if abbr, ok := weekdayAbbrevs[d]; ok {
		return abbr
	}
	return "???"
}

// FromTimeWeekday converts the standard library's weekday (Sunday = 0)
// to the 1-based numbering.
func FromTimeWeekday(wd time.Weekday) WeekDay {
	return WeekDay(int(wd) + 1)
}

// WeekdayOf returns the WeekDay of the given date. The result depends only
// on the date's location-local calendar day, never on locale or on any
// first-day-of-week setting.
func WeekdayOf(t time.Time) WeekDay {
	return FromTimeWeekday(t.Weekday())
}

// ParseWeekday parses a weekday name, three-letter abbreviation, or
// numeric index (1=Sunday .. 7=Saturday).
func ParseWeekday(s string) (WeekDay, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for d, name := range weekdayNames {
		if s == strings.ToLower(name) || s == strings.ToLower(weekdayAbbrevs[d]) {
			return d, nil
		}
	}
	if len(s) == 1 && s[0] >= '1' && s[0] <= '7' {
		return WeekDay(s[0] - '0'), nil
	}
	return 0, fmt.Errorf("invalid weekday: %q", s)
}

// Schedule is the set of weekdays a tracker recurs on. An empty schedule
// marks a one-off (irregular) event.
type Schedule []WeekDay

// Contains reports whether the schedule includes the given weekday.
func (s Schedule) Contains(d WeekDay) bool {
	for _, wd := range s {
		if wd == d {
			return true
		}
	}
	return false
}

// Normalized returns a sorted copy with duplicates and invalid entries
// removed, preserving the set semantics regardless of input order.
func (s Schedule) Normalized() Schedule {
	seen := make(map[WeekDay]bool, len(s))
	out := make(Schedule, 0, len(s))
	for _, wd := range s {
		if wd.Valid() && !seen[wd] {
			seen[wd] = true
			out = append(out, wd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Schedule) String() string {
	if len(s) == 0 {
		return "one-off"
	}
	var parts []string
	for _, wd := range s.Normalized() {
		parts = append(parts, wd.Abbrev())
	}
	return strings.Join(parts, ",")
}
