package tracker

import (
	"fmt"
	"time"
)

// ParseDate parses an ISO 8601 date (YYYY-MM-DD) as midnight UTC.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// AddDays returns the date n calendar days after date.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(time.DateOnly), nil
}

// GenerateDays builds n fresh days dated sequentially from start.
func GenerateDays(start string, n int) ([]Day, error) {
	t, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	days := make([]Day, n)
	for i := range days {
		days[i] = Day{Date: t.AddDate(0, 0, i).Format(time.DateOnly)}
	}
	return days, nil
}

// DayOffset returns the number of calendar days from start to the civil
// date of t in loc. It is negative when t falls before start.
func DayOffset(start string, t time.Time, loc *time.Location) (int, error) {
	s, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	civil := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(civil.Sub(s).Hours() / 24), nil
}

// FormatDisplay renders an ISO date as "Sun, 17 Aug 2025". Unparseable
// input is returned unchanged.
func FormatDisplay(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Mon, 02 Jan 2006")
}
