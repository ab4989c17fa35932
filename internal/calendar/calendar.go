// Package calendar works with whole calendar days. Days are represented as [time.Time] values at midnight UTC
// so that offsets are plain 24 hour multiples.
package calendar

import (
	"fmt"
	"math"
	"time"
)

// Layout is the date format used in files, the fitness API and the database.
const Layout = "2006-01-02"

const (
	hoursPerDay = 24
	daysPerWeek = 7
)

// Day returns the calendar day of t, in t's own location, as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date. A longer timestamp such as 2025-07-05T07:30:00 is cut to its date.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(Layout) {
		s = s[:len(Layout)]
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats the calendar day of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return Day(t).Format(Layout)
}

// AddDays moves t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// Offset is the number of days from start to day, negative when day is before start.
func Offset(start, day time.Time) int {
	return int(math.Round(Day(day).Sub(Day(start)).Hours() / hoursPerDay))
}

// Monday returns the Monday of the ISO week containing t.
func Monday(t time.Time) time.Time {
	back := (int(t.Weekday()) - int(time.Monday) + daysPerWeek) % daysPerWeek
	return AddDays(t, -back)
}

// PastDays lists the dates from start up to and including today. It is empty when start is after today.
func PastDays(today, start time.Time) []string {
	var days []string
	for d := Day(start); !d.After(Day(today)); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDate(d))
	}
	return days
}

// Weekday returns the English name of t's day of the week.
func Weekday(t time.Time) string {
	return t.Weekday().String()
}
