// Package dates holds the calendar helpers the streak and reminder engines
// are built on. All arithmetic is done on local calendar days, not elapsed
// hours, so month, year and DST boundaries behave the way a wall calendar
// does.
package dates

import (
	"fmt"
	"time"
)

const ISOLayout = "2006-01-02"

// Midnight truncates t to 00:00:00 in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b. Both are
// truncated to midnight first, so 23:59 and 00:01 on consecutive days are one
// day apart regardless of the elapsed time.
func DaysBetween(a, b time.Time) int {
	ma := Midnight(a)
	mb := Midnight(b)
	// Round rather than floor/divide: a DST transition makes a calendar day
	// 23 or 25 hours long.
	return int(mb.Sub(ma).Round(24*time.Hour) / (24 * time.Hour))
}

// FormatISO formats t as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// ParseISO parses a YYYY-MM-DD date in the local location.
func ParseISO(s string) (time.Time, error) {
	return time.ParseInLocation(ISOLayout, s, time.Local)
}

// ParseClock parses an HH:MM time of day into minutes from midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes from midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ISOWeekday returns the ISO weekday of t (1=Monday .. 7=Sunday).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// NextWeekday returns the next occurrence of the given ISO weekday
// (1=Monday .. 7=Sunday) at hour:minute, on or after now. If the weekday is
// today but the clock time has already passed, the occurrence rolls to next
// week. The result is never in the past relative to now.
func NextWeekday(now time.Time, isoWeekday, hour, minute int) time.Time {
	daysUntil := isoWeekday - ISOWeekday(now)
	if daysUntil < 0 {
		daysUntil += 7
	}

	if daysUntil == 0 {
		target := hour*60 + minute
		current := now.Hour()*60 + now.Minute()
		if current >= target {
			daysUntil = 7
		}
	}

	day := Midnight(now).AddDate(0, 0, daysUntil)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
}
