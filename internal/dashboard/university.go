package dashboard

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// AssignmentDue is an open assignment with its countdown
type AssignmentDue struct {
	models.Assignment
	CourseName string `json:"course_name"`
	DaysLeft   int    `json:"days_left"`
	Urgent     bool   `json:"urgent"`
	Overdue    bool   `json:"overdue"`
}

// UniversitySummary is the university view
type UniversitySummary struct {
	TodaysClasses []models.Course `json:"todays_classes"`
	Upcoming      []AssignmentDue `json:"upcoming"`
}

// TodaysClasses returns courses held on now's weekday, earliest first
func TodaysClasses(courses []models.Course, now time.Time) []models.Course {
	weekday := int(now.Weekday())
	out := make([]models.Course, 0)
	for _, c := range courses {
		if c.DayOfWeek == weekday {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Course) int {
		return strings.Compare(a.StartTime, b.StartTime)
	})
	return out
}

// UpcomingAssignments returns open assignments, soonest first
func UpcomingAssignments(assignments []models.Assignment) []models.Assignment {
	out := make([]models.Assignment, 0)
	for _, a := range assignments {
		if !a.IsCompleted {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Assignment) int {
		return a.DueDate.Compare(b.DueDate)
	})
	return out
}

// DaysUntil rounds the time to due up to whole days. Past due is negative.
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// describe attaches countdown flags and the course name
func describe(a models.Assignment, courseNames map[string]string, now time.Time, urgentWithin int) AssignmentDue {
	days := DaysUntil(a.DueDate, now)
	return AssignmentDue{
		Assignment: a,
		CourseName: courseNames[a.CourseID],
		DaysLeft:   days,
		Urgent:     days >= 0 && days <= urgentWithin,
		Overdue:    days < 0,
	}
}

func courseNameIndex(courses []models.Course) map[string]string {
	names := make(map[string]string, len(courses))
	for _, c := range courses {
		names[c.ID] = c.Name
	}
	return names
}

// NearestAssignment returns the open assignment due soonest, or nil.
// An unknown course yields an empty course name.
func NearestAssignment(assignments []models.Assignment, courses []models.Course, now time.Time, urgentWithin int) *AssignmentDue {
	upcoming := UpcomingAssignments(assignments)
	if len(upcoming) == 0 {
		return nil
	}
	d := describe(upcoming[0], courseNameIndex(courses), now, urgentWithin)
	return &d
}

// University assembles the university view
func University(courses []models.Course, assignments []models.Assignment, now time.Time, urgentWithin int) UniversitySummary {
	if urgentWithin <= 0 {
		urgentWithin = DefaultUrgentWithinDays
	}
	names := courseNameIndex(courses)
	upcoming := UpcomingAssignments(assignments)

	summary := UniversitySummary{
		TodaysClasses: TodaysClasses(courses, now),
		Upcoming:      make([]AssignmentDue, 0, len(upcoming)),
	}
	for _, a := range upcoming {
		summary.Upcoming = append(summary.Upcoming, describe(a, names, now, urgentWithin))
	}
	return summary
}
