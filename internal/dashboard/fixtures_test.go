package dashboard

import (
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// tehran sits east of UTC with a half-hour offset, which makes day
// boundaries disagree with UTC for a few hours every night.
var tehran = time.FixedZone("IRST", 3*3600+1800)

// now is Wednesday 2024-05-15 10:00 local
var now = time.Date(2024, time.May, 15, 10, 0, 0, 0, tehran)

func day(offset int) models.Date {
	return models.DateOf(AddDays(now, offset))
}

func at(offset int, hour int) *time.Time {
	d := AddDays(now, offset)
	t := time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, tehran)
	return &t
}

func money(v float64) *float64 {
	return &v
}

func task(id string, effort int, due models.Date) models.Task {
	return models.Task{
		ID:         id,
		Title:      "task " + id,
		Context:    models.ContextLife,
		Status:     models.StatusTodo,
		EnergyCost: effort,
		DueDate:    due,
		Type:       models.TypeStandard,
	}
}

func doneTask(id string, effort int, due models.Date, completedAt *time.Time) models.Task {
	t := task(id, effort, due)
	t.Status = models.StatusDone
	t.CompletedAt = completedAt
	return t
}

func freelance(id string, status models.TaskStatus, revenue *float64, completedAt *time.Time, tags ...string) models.Task {
	t := task(id, 1, "")
	t.Context = models.ContextFreelance
	t.Status = status
	t.Revenue = revenue
	t.CompletedAt = completedAt
	t.Tags = tags
	return t
}

func session(offset, hour, minutes int, completed bool) models.FocusSession {
	return models.FocusSession{
		ID:              "s",
		StartedAt:       *at(offset, hour),
		DurationMinutes: minutes,
		Completed:       completed,
	}
}
