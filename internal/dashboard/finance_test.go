package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

func financeTasks() []models.Task {
	dueOnly := freelance("due-only", models.StatusDone, money(80), nil)
	dueOnly.DueDate = day(-40)

	undated := freelance("undated", models.StatusDone, money(5), nil)

	return []models.Task{
		freelance("may-1", models.StatusDone, money(100), at(-1, 9), "Acme"),
		freelance("may-2", models.StatusDone, money(250), at(-10, 9), "Globex"),
		freelance("apr", models.StatusDone, money(300), at(-20, 9), "Acme"),
		freelance("pending", models.StatusTodo, money(900), nil, "Acme"),
		dueOnly,
		undated,
	}
}

func TestEarnings(t *testing.T) {
	earnings := Earnings(financeTasks(), tehran)

	require.Len(t, earnings, 4)
	assert.Equal(t, "may-1", earnings[0].TaskID)
	assert.Equal(t, "may-2", earnings[1].TaskID)
	assert.Equal(t, "apr", earnings[2].TaskID)
	assert.Equal(t, "due-only", earnings[3].TaskID)
	assert.Equal(t, string(day(-40)), DateKey(earnings[3].Date))
}

func TestMonthlyIncome(t *testing.T) {
	monthly := MonthlyIncome(Earnings(financeTasks(), tehran), now, 6)

	require.Len(t, monthly, 6)
	assert.Equal(t, "2023-12", monthly[0].Key)
	assert.Equal(t, "2024-05", monthly[5].Key)
	assert.Equal(t, "May 2024", monthly[5].Label)
	assert.True(t, monthly[5].IsToday)

	// 2024-05-14 and 2024-05-05
	assert.Equal(t, 350.0, monthly[5].Value)
	// 2024-04-25 plus the due-date fallback on 2024-04-05
	assert.Equal(t, 380.0, monthly[4].Value)
	assert.Zero(t, monthly[3].Value)
}

func TestThisMonthIncome(t *testing.T) {
	assert.Equal(t, 350.0, ThisMonthIncome(Earnings(financeTasks(), tehran), now))
}

func TestIncomeByProject(t *testing.T) {
	byProject := IncomeByProject(Earnings(financeTasks(), tehran))

	assert.Equal(t, []TagTotal{
		{Tag: "Acme", Total: 400},
		{Tag: "Globex", Total: 250},
		{Tag: Uncategorized, Total: 80},
	}, byProject)
}

func TestRecentEarnings(t *testing.T) {
	var tasks []models.Task
	for i := 0; i < 8; i++ {
		tasks = append(tasks, freelance("t", models.StatusDone, money(float64(i)), at(-i, 9)))
	}
	earnings := Earnings(tasks, tehran)

	recent := RecentEarnings(earnings, 5)
	require.Len(t, recent, 5)
	assert.Equal(t, 0.0, recent[0].Amount)
	assert.Equal(t, 4.0, recent[4].Amount)

	assert.Len(t, RecentEarnings(earnings[:2], 5), 2)
}

func TestFinance(t *testing.T) {
	f := Finance(financeTasks(), now)

	assert.Equal(t, 730.0, f.TotalRevenue)
	assert.Equal(t, 350.0, f.ThisMonthIncome)
	assert.Len(t, f.Monthly, 6)
	assert.Len(t, f.Recent, 4)
}
