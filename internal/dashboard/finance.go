package dashboard

import (
	"slices"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// Earning is revenue realised by a completed freelance task
type Earning struct {
	TaskID string    `json:"task_id"`
	Title  string    `json:"title"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Tags   []string  `json:"tags"`
}

// FinanceSummary is the finance view
type FinanceSummary struct {
	TotalRevenue    float64       `json:"total_revenue"`
	ThisMonthIncome float64       `json:"this_month_income"`
	Monthly         []SeriesPoint `json:"monthly"`
	ByProject       []TagTotal    `json:"by_project"`
	Recent          []Earning     `json:"recent"`
}

// Earnings lists completed freelance tasks, newest first. The date is the
// completion time, falling back to the due date; tasks with neither are
// dropped since they cannot be placed on a timeline.
func Earnings(tasks []models.Task, loc *time.Location) []Earning {
	out := make([]Earning, 0)
	for i := range tasks {
		t := &tasks[i]
		if t.Context != models.ContextFreelance || !t.IsDone() {
			continue
		}

		var date time.Time
		switch {
		case t.CompletedAt != nil:
			date = t.CompletedAt.In(loc)
		case !t.DueDate.IsZero():
			d, err := t.DueDate.In(loc)
			if err != nil {
				continue
			}
			date = d
		default:
			continue
		}

		out = append(out, Earning{
			TaskID: t.ID,
			Title:  t.Title,
			Amount: t.RevenueOrZero(),
			Date:   date,
			Tags:   t.Tags,
		})
	}

	slices.SortStableFunc(out, func(a, b Earning) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// MonthlyIncome returns a zero-filled series of the last months calendar
// months ending with now's month, oldest first.
func MonthlyIncome(earnings []Earning, now time.Time, months int) []SeriesPoint {
	if months <= 0 {
		months = 6
	}

	points := make([]SeriesPoint, 0, months)
	index := make(map[string]int, months)
	y, m, _ := now.Date()
	for i := months - 1; i >= 0; i-- {
		first := time.Date(y, m-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		key := first.Format("2006-01")
		index[key] = len(points)
		points = append(points, SeriesPoint{
			Key:     key,
			Label:   first.Format("Jan 2006"),
			IsToday: i == 0,
		})
	}

	for _, e := range earnings {
		key := e.Date.In(now.Location()).Format("2006-01")
		if pos, ok := index[key]; ok {
			points[pos].Value += e.Amount
		}
	}
	return points
}

// ThisMonthIncome sums earnings dated in now's calendar month
func ThisMonthIncome(earnings []Earning, now time.Time) float64 {
	y, m, _ := now.Date()
	var total float64
	for _, e := range earnings {
		ey, em, _ := e.Date.In(now.Location()).Date()
		if ey == y && em == m {
			total += e.Amount
		}
	}
	return total
}

// IncomeByProject groups earnings by first tag, largest first
func IncomeByProject(earnings []Earning) []TagTotal {
	acc := newTagAccumulator()
	for _, e := range earnings {
		tag := ""
		if len(e.Tags) > 0 {
			tag = e.Tags[0]
		}
		acc.add(tag, e.Amount)
	}
	return acc.sorted()
}

// RecentEarnings returns the n most recent earnings. Input must be sorted
// newest first, as returned by Earnings.
func RecentEarnings(earnings []Earning, n int) []Earning {
	if n <= 0 || n >= len(earnings) {
		return slices.Clone(earnings)
	}
	return slices.Clone(earnings[:n])
}

// Finance assembles the finance view
func Finance(tasks []models.Task, now time.Time) FinanceSummary {
	earnings := Earnings(tasks, now.Location())

	var total float64
	for _, e := range earnings {
		total += e.Amount
	}

	return FinanceSummary{
		TotalRevenue:    total,
		ThisMonthIncome: ThisMonthIncome(earnings, now),
		Monthly:         MonthlyIncome(earnings, now, 6),
		ByProject:       IncomeByProject(earnings),
		Recent:          RecentEarnings(earnings, 5),
	}
}
