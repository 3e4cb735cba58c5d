// Package dashboard derives the figures shown on the dashboard from raw records.
//
// Every function is pure: it takes already-fetched collections plus the
// current instant and returns new values. "Today" and all calendar-day
// boundaries are taken from the location of the now argument, so callers
// pass now in the user's time zone.
package dashboard

// Heuristic defaults. They have no derivation beyond "feels right" and are
// overridable through Settings.
const (
	DefaultDailyCapacity    = 100.0
	DefaultMinutesPerPage   = 2
	DefaultUpNextLimit      = 3
	DefaultUrgentWithinDays = 3
)

// Settings holds the tunable heuristics
type Settings struct {
	DailyCapacity    float64 `json:"daily_capacity"`
	MinutesPerPage   int     `json:"minutes_per_page"`
	UpNextLimit      int     `json:"up_next_limit"`
	UrgentWithinDays int     `json:"urgent_within_days"`
}

// DefaultSettings returns the stock heuristics
func DefaultSettings() Settings {
	return Settings{
		DailyCapacity:    DefaultDailyCapacity,
		MinutesPerPage:   DefaultMinutesPerPage,
		UpNextLimit:      DefaultUpNextLimit,
		UrgentWithinDays: DefaultUrgentWithinDays,
	}
}

// WithDefaults fills unset (non-positive) fields with the stock values
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.DailyCapacity <= 0 {
		s.DailyCapacity = d.DailyCapacity
	}
	if s.MinutesPerPage <= 0 {
		s.MinutesPerPage = d.MinutesPerPage
	}
	if s.UpNextLimit <= 0 {
		s.UpNextLimit = d.UpNextLimit
	}
	if s.UrgentWithinDays <= 0 {
		s.UrgentWithinDays = d.UrgentWithinDays
	}
	return s
}
