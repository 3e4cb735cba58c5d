package dashboard

import (
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// Urgency levels
const (
	UrgencyDueNow   = 3.0 // today or overdue
	UrgencyTomorrow = 2.0
	UrgencyThisWeek = 1.0
	UrgencyLater    = 0.5
)

// DaysUntilDue returns the number of calendar days from now's day to due
func DaysUntilDue(due models.Date, now time.Time) (int, error) {
	dueDay, err := due.In(now.Location())
	if err != nil {
		return 0, ErrInvalidDate
	}
	return calendarDays(now, dueDay), nil
}

// Urgency scores how pressing a due date is.
// A missing or unparseable due date counts as "later".
func Urgency(due models.Date, now time.Time) float64 {
	if due.IsZero() {
		return UrgencyLater
	}
	days, err := DaysUntilDue(due, now)
	if err != nil {
		return UrgencyLater
	}

	switch {
	case days <= 0:
		return UrgencyDueNow
	case days == 1:
		return UrgencyTomorrow
	case days <= 7:
		return UrgencyThisWeek
	default:
		return UrgencyLater
	}
}

// Load combines effort and urgency multiplicatively so that both heavy and
// pressing work float to the top.
func Load(energyCost int, due models.Date, now time.Time) float64 {
	return float64(energyCost) * Urgency(due, now)
}

// TaskLoad is Load applied to a task
func TaskLoad(t *models.Task, now time.Time) float64 {
	return Load(t.EnergyCost, t.DueDate, now)
}
