package dashboard

import (
	"cmp"
	"slices"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// RankedTask is a pending task with its computed load
type RankedTask struct {
	models.Task
	Load float64 `json:"load"`
}

// UpNext returns at most limit pending tasks ordered by load, highest first.
// Ties keep the input order.
func UpNext(tasks []models.Task, now time.Time, limit int) []RankedTask {
	if limit <= 0 {
		limit = DefaultUpNextLimit
	}

	ranked := make([]RankedTask, 0, len(tasks))
	for i := range tasks {
		if tasks[i].IsDone() {
			continue
		}
		ranked = append(ranked, RankedTask{
			Task: tasks[i],
			Load: TaskLoad(&tasks[i], now),
		})
	}

	slices.SortStableFunc(ranked, func(a, b RankedTask) int {
		return cmp.Compare(b.Load, a.Load)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// PrimaryFocus picks the first task in progress, falling back to the first
// task still to do. Returns nil when nothing is open.
func PrimaryFocus(tasks []models.Task) *models.Task {
	for _, status := range []models.TaskStatus{models.StatusDoing, models.StatusTodo} {
		for i := range tasks {
			if tasks[i].Status == status {
				t := tasks[i]
				return &t
			}
		}
	}
	return nil
}
