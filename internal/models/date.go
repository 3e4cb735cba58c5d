package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for due dates and day keys
const DateLayout = "2006-01-02"

// Date is a calendar day without a time zone ("YYYY-MM-DD").
// The zero value means "no date".
type Date string

// ParseDate validates s and returns it as a Date. Empty input yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// DateOf returns the calendar day of t using t's own location
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// IsZero reports whether no date is set
func (d Date) IsZero() bool {
	return d == ""
}

// In returns local midnight of the day in loc
func (d Date) In(loc *time.Location) (time.Time, error) {
	if d.IsZero() {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.ParseInLocation(DateLayout, string(d), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", string(d), err)
	}
	return t, nil
}

// String implements fmt.Stringer
func (d Date) String() string {
	return string(d)
}
