package dashboard

import (
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// DayFocus is the focus time logged on one calendar day
type DayFocus struct {
	Minutes  int `json:"minutes"`
	Sessions int `json:"sessions"`
}

// FocusDay is one entry of the weekly focus series
type FocusDay struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Minutes int    `json:"minutes"`
	IsToday bool   `json:"is_today"`
}

// FocusStats summarises focus sessions
type FocusStats struct {
	Today     DayFocus   `json:"today"`
	Week      []FocusDay `json:"week"`
	WeekTotal int        `json:"week_total"`
	Streak    int        `json:"streak"`
}

// FocusByDay folds completed sessions into per-day buckets keyed by the
// local day the session started on. Each session is visited once.
func FocusByDay(sessions []models.FocusSession, loc *time.Location) map[string]DayFocus {
	buckets := make(map[string]DayFocus)
	for i := range sessions {
		s := &sessions[i]
		if !s.Completed || s.StartedAt.IsZero() {
			continue
		}
		key := LocalDateKey(s.StartedAt, loc)
		b := buckets[key]
		b.Minutes += s.DurationMinutes
		b.Sessions++
		buckets[key] = b
	}
	return buckets
}

// Streak counts consecutive days with focus, walking back from today.
// When today has nothing yet the walk starts at yesterday, so a streak is
// not reported as broken before the day's first session.
func Streak(buckets map[string]DayFocus, now time.Time) int {
	day := StartOfDay(now)
	if _, ok := buckets[DateKey(day)]; !ok {
		day = AddDays(day, -1)
	}

	streak := 0
	for {
		if _, ok := buckets[DateKey(day)]; !ok {
			return streak
		}
		streak++
		day = AddDays(day, -1)
	}
}

// Focus computes today's totals, the last seven days (oldest first) and the streak
func Focus(sessions []models.FocusSession, now time.Time) FocusStats {
	buckets := FocusByDay(sessions, now.Location())
	todayKey := DateKey(now)

	stats := FocusStats{
		Today: buckets[todayKey],
		Week:  make([]FocusDay, 0, 7),
	}

	for i := 6; i >= 0; i-- {
		d := AddDays(now, -i)
		key := DateKey(d)
		minutes := buckets[key].Minutes
		stats.WeekTotal += minutes
		stats.Week = append(stats.Week, FocusDay{
			Key:     key,
			Label:   d.Weekday().String()[:3],
			Minutes: minutes,
			IsToday: key == todayKey,
		})
	}

	stats.Streak = Streak(buckets, now)
	return stats
}
