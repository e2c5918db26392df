// Package calendar holds the pure date computations behind the month
// grid: month lengths, weekday of the 1st, canonical date keys and
// whole-month arithmetic.
package calendar

import (
	"fmt"
	"strconv"
	"time"

	errorvalues "github.com/stickcal/stickcal/internal/error_values"
)

var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear applies the Gregorian rule: divisible by 4, except
// centuries unless divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the day count of the given month (1-12),
// or 0 for an out-of-range month.
func DaysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthDays[month]
}

// FirstWeekdayOfMonth returns the weekday of the 1st, 0 = Sunday.
func FirstWeekdayOfMonth(year, month int) int {
	return int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// DateKey builds the canonical zero-padded YYYY-MM-DD key. It is the
// sole grouping key for events.
func DateKey(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ParseDateKey parses a key produced by DateKey back into its parts.
// Malformed strings and impossible dates (2023-02-29) are rejected.
func ParseDateKey(key string) (year, month, day int, err error) {
	if len(key) != 10 || key[4] != '-' || key[7] != '-' {
		return 0, 0, 0, errorvalues.ErrInvalidDateKey
	}
	for i, r := range key {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return 0, 0, 0, errorvalues.ErrInvalidDateKey
		}
	}
	year, _ = strconv.Atoi(key[0:4])
	month, _ = strconv.Atoi(key[5:7])
	day, _ = strconv.Atoi(key[8:10])
	if day < 1 || day > DaysInMonth(year, month) {
		return 0, 0, 0, errorvalues.ErrInvalidDateKey
	}
	return year, month, day, nil
}

// KeyOf is DateKey for a time.Time value.
func KeyOf(t time.Time) string {
	return DateKey(t.Year(), int(t.Month()), t.Day())
}

// IsTodayAt reports whether (year, month, day) is the calendar day of
// the given instant. The clock read stays outside so tests can pin it.
func IsTodayAt(now time.Time, year, month, day int) bool {
	y, m, d := now.Date()
	return year == y && month == int(m) && day == d
}

func IsToday(year, month, day int) bool {
	return IsTodayAt(time.Now(), year, month, day)
}

// AddMonths advances (or retreats) t by delta whole months. When the
// source day does not exist in the target month the day is clamped to
// the target month's last day, it never rolls into the next month.
func AddMonths(t time.Time, delta int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(delta), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if dim := DaysInMonth(first.Year(), int(first.Month())); day > dim {
		day = dim
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// MonthRange returns the first and last date keys of a month, inclusive
// bounds for range queries over events.
func MonthRange(year, month int) (from, to string) {
	return DateKey(year, month, 1), DateKey(year, month, DaysInMonth(year, month))
}
