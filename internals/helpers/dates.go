package helper

import (
	"fmt"
	"regexp"
	"time"
)

const DateLayout = "2006-01-02"

// Now is swapped in tests.
var Now = time.Now

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Today() time.Time { return DateOnly(Now()) }

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

func FormatDate(t time.Time) string { return t.Format(DateLayout) }

func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

// DaysBetween counts whole calendar days from a to b (negative if b is before a).
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// MonthRange returns [first day of month, first day of next month).
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

var (
	reHHMM   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	reHHMMSS = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)
)

// NormalizeClock accepts HH:MM or HH:MM:SS and always returns HH:MM:SS.
func NormalizeClock(s string) (string, error) {
	switch {
	case reHHMMSS.MatchString(s):
		return s, nil
	case reHHMM.MatchString(s):
		return s + ":00", nil
	default:
		return "", fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
}

func IsClock(s string) bool { return reHHMM.MatchString(s) || reHHMMSS.MatchString(s) }
