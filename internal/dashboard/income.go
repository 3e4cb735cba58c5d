package dashboard

import (
	"cmp"
	"slices"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// Uncategorized is the bucket for earnings without a tag
const Uncategorized = "Uncategorized"

// SeriesPoint is one bar of a chart
type SeriesPoint struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	IsToday bool    `json:"is_today,omitempty"`
}

// TagTotal is the revenue attributed to one tag
type TagTotal struct {
	Tag   string  `json:"tag"`
	Total float64 `json:"total"`
}

// IncomeSummary aggregates freelance revenue
type IncomeSummary struct {
	TotalEarned     float64       `json:"total_earned"`
	PotentialIncome float64       `json:"potential_income"`
	Last7Days       []SeriesPoint `json:"last_7_days"`
	ByTag           []TagTotal    `json:"by_tag"`
}

// Income folds freelance tasks into realised and pipeline revenue.
// Last7Days always holds seven entries, six days ago through today.
func Income(tasks []models.Task, now time.Time) IncomeSummary {
	days := lastDays(now, 7)
	index := make(map[string]int, len(days))
	for i, d := range days {
		index[d.Key] = i
	}

	summary := IncomeSummary{Last7Days: days}
	tags := newTagAccumulator()

	for i := range tasks {
		t := &tasks[i]
		if t.Context != models.ContextFreelance {
			continue
		}
		value := t.RevenueOrZero()

		if !t.IsDone() {
			summary.PotentialIncome += value
			continue
		}

		summary.TotalEarned += value
		tags.add(t.FirstTag(), value)

		if t.CompletedAt != nil {
			key := LocalDateKey(*t.CompletedAt, now.Location())
			if pos, ok := index[key]; ok {
				summary.Last7Days[pos].Value += value
			}
		}
	}

	summary.ByTag = tags.sorted()
	return summary
}

// lastDays builds a zero-filled daily series of n days ending today
func lastDays(now time.Time, n int) []SeriesPoint {
	todayKey := DateKey(now)
	points := make([]SeriesPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := AddDays(now, -i)
		key := DateKey(d)
		points = append(points, SeriesPoint{
			Key:     key,
			Label:   d.Weekday().String()[:3],
			IsToday: key == todayKey,
		})
	}
	return points
}

// tagAccumulator sums per tag, remembering first appearance for stable ties
type tagAccumulator struct {
	order  []string
	totals map[string]float64
}

func newTagAccumulator() *tagAccumulator {
	return &tagAccumulator{totals: make(map[string]float64)}
}

func (a *tagAccumulator) add(tag string, value float64) {
	if tag == "" {
		tag = Uncategorized
	}
	if _, seen := a.totals[tag]; !seen {
		a.order = append(a.order, tag)
	}
	a.totals[tag] += value
}

func (a *tagAccumulator) sorted() []TagTotal {
	out := make([]TagTotal, 0, len(a.order))
	for _, tag := range a.order {
		out = append(out, TagTotal{Tag: tag, Total: a.totals[tag]})
	}
	slices.SortStableFunc(out, func(x, y TagTotal) int {
		return cmp.Compare(y.Total, x.Total)
	})
	return out
}
