package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

func TestCapacityUsage(t *testing.T) {
	tasks := []models.Task{
		doneTask("today-heavy", 3, day(0), at(0, 8)),  // 9
		doneTask("today-medium", 2, day(1), at(0, 9)), // 4
		doneTask("yesterday", 3, day(0), at(-1, 22)),  // excluded
		task("pending", 3, day(0)),                    // excluded
		doneTask("no-stamp", 3, day(0), nil),          // excluded
	}

	c := CapacityUsage(tasks, now, 100)

	assert.Equal(t, 13.0, c.ConsumedLoad)
	assert.Equal(t, 13, c.Percentage)
	assert.Equal(t, 100.0, c.TotalCapacity)
}

func TestCapacityUsage_ComparesLocalDays(t *testing.T) {
	// 01:00 local today is yesterday in UTC
	early := at(0, 1)
	utc := early.UTC()
	tasks := []models.Task{doneTask("early", 3, day(0), &utc)}

	assert.Equal(t, 9, CapacityUsage(tasks, now, 100).Percentage)
}

func TestCapacityUsage_Clamps(t *testing.T) {
	var tasks []models.Task
	for i := 0; i < 20; i++ {
		tasks = append(tasks, doneTask("t", 3, day(0), at(0, 9)))
	}

	c := CapacityUsage(tasks, now, 100)
	assert.Equal(t, 180.0, c.ConsumedLoad)
	assert.Equal(t, 100, c.Percentage)

	assert.Equal(t, 0, CapacityUsage(nil, now, 100).Percentage)
}

func TestCapacityUsage_CustomCapacity(t *testing.T) {
	tasks := []models.Task{doneTask("a", 3, day(0), at(0, 9))}

	assert.Equal(t, 45, CapacityUsage(tasks, now, 20).Percentage)
	assert.Equal(t, 9, CapacityUsage(tasks, now, 0).Percentage)
}
