package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// ErrInvalidDate is returned for timestamps that cannot be parsed
var ErrInvalidDate = errors.New("invalid date")

// DateKey returns the YYYY-MM-DD key of t built from t's local calendar
// components. Convert t into the user's location before calling.
func DateKey(t time.Time) string {
	return t.Format(models.DateLayout)
}

// LocalDateKey returns the day key of t as seen from loc
func LocalDateKey(t time.Time, loc *time.Location) string {
	return DateKey(t.In(loc))
}

// ParseTimestamp parses an RFC 3339 timestamp or a bare YYYY-MM-DD day
// (interpreted as local midnight in loc).
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation(models.DateLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// StartOfDay returns local midnight of t's calendar day
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays steps n calendar days from t's day and returns local midnight.
// Stepping by calendar components keeps DST days from drifting.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// calendarDays counts whole calendar days from a to b (b - a)
func calendarDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
