package dashboard

import (
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// Collections are the raw records of one user
type Collections struct {
	Tasks         []models.Task
	Courses       []models.Course
	Assignments   []models.Assignment
	FocusSessions []models.FocusSession
}

// Overview is the home screen
type Overview struct {
	UpNext            []RankedTask   `json:"up_next"`
	PrimaryFocus      *models.Task   `json:"primary_focus,omitempty"`
	Capacity          Capacity       `json:"capacity"`
	Income            IncomeSummary  `json:"income"`
	NearestAssignment *AssignmentDue `json:"nearest_assignment,omitempty"`
	Focus             FocusStats     `json:"focus"`
}

// BuildOverview recomputes the whole home screen from scratch
func BuildOverview(c Collections, now time.Time, s Settings) Overview {
	s = s.WithDefaults()
	return Overview{
		UpNext:            UpNext(c.Tasks, now, s.UpNextLimit),
		PrimaryFocus:      PrimaryFocus(c.Tasks),
		Capacity:          CapacityUsage(c.Tasks, now, s.DailyCapacity),
		Income:            Income(c.Tasks, now),
		NearestAssignment: NearestAssignment(c.Assignments, c.Courses, now, s.UrgentWithinDays),
		Focus:             Focus(c.FocusSessions, now),
	}
}
