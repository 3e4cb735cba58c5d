package dashboard

import (
	"math"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// Capacity is the share of the daily load budget consumed today
type Capacity struct {
	Percentage    int     `json:"percentage"`
	ConsumedLoad  float64 `json:"consumed_load"`
	TotalCapacity float64 `json:"total_capacity"`
}

// CapacityUsage sums the load of tasks completed on now's calendar day and
// expresses it as a whole percentage of dailyCapacity, clamped to [0, 100].
func CapacityUsage(tasks []models.Task, now time.Time, dailyCapacity float64) Capacity {
	if dailyCapacity <= 0 {
		dailyCapacity = DefaultDailyCapacity
	}

	todayKey := DateKey(now)
	var consumed float64
	for i := range tasks {
		t := &tasks[i]
		if !t.IsDone() || t.CompletedAt == nil {
			continue
		}
		if LocalDateKey(*t.CompletedAt, now.Location()) != todayKey {
			continue
		}
		consumed += TaskLoad(t, now)
	}

	pct := math.Round(consumed / dailyCapacity * 100)
	pct = math.Max(0, math.Min(100, pct))

	return Capacity{
		Percentage:    int(pct),
		ConsumedLoad:  consumed,
		TotalCapacity: dailyCapacity,
	}
}
