package agenda

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout renders a short date such as "Jan 05, 2025"
	DateLayout = "Jan 02, 2006"
	// DateTimeLayout renders a short date with the time of day
	DateTimeLayout = "Jan 02, 2006 15:04"
)

// FormatDue renders a due date relative to now. The instant itself is
// only read, never adjusted.
func FormatDue(due, now time.Time) string {
	switch DaysUntil(due, now) {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	}
	return due.In(now.Location()).Format(DateLayout)
}

// FormatDateTime renders t with its time of day in t's own location
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

var dateLayouts = []string{
	"2006-01-02",
	DateLayout,
	"Jan 2, 2006",
	"01/02/2006",
	"Jan 2",
}

// ParseDue turns user or display text into a due date. Relative words and
// calendar dates resolve to the start of the day in now's location; RFC3339
// input keeps its exact instant.
func ParseDue(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	today := StartOfDay(now)

	switch strings.ToLower(raw) {
	case "":
		return time.Time{}, fmt.Errorf("empty due date")
	case "today":
		return today, nil
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), nil
	case "nextweek", "next week":
		return today.AddDate(0, 0, 7), nil
	}

	if day, ok := parseWeekday(raw); ok {
		return nextWeekday(today, day), nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, raw, now.Location())
		if err != nil {
			continue
		}
		// Layouts without a year parse as year 0
		if t.Year() == 0 {
			return nextOccurrence(t.Month(), t.Day(), today, s)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized due date %q", s)
}

// nextOccurrence resolves a month and day without a year to the first such
// date on or after today. A day the resolved year lacks, such as Feb 29 in a
// common year, is an error.
func nextOccurrence(month time.Month, day int, today time.Time, raw string) (time.Time, error) {
	year := today.Year()
	if time.Date(year, month, day, 0, 0, 0, 0, today.Location()).Before(today) {
		year++
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	if t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid due date %q: %d has no %s %d", raw, year, month, day)
	}
	return t, nil
}

func parseWeekday(s string) (time.Weekday, bool) {
	switch strings.ToLower(s) {
	case "monday", "mon":
		return time.Monday, true
	case "tuesday", "tue":
		return time.Tuesday, true
	case "wednesday", "wed":
		return time.Wednesday, true
	case "thursday", "thu":
		return time.Thursday, true
	case "friday", "fri":
		return time.Friday, true
	case "saturday", "sat":
		return time.Saturday, true
	case "sunday", "sun":
		return time.Sunday, true
	}
	return 0, false
}

// nextWeekday returns the next occurrence of day strictly after today
func nextWeekday(today time.Time, day time.Weekday) time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
