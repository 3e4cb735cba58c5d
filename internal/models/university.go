package models

import "time"

// CourseColor is the color tag shown on the schedule
type CourseColor string

const (
	ColorBlue   CourseColor = "blue"
	ColorPurple CourseColor = "purple"
	ColorPink   CourseColor = "pink"
	ColorOrange CourseColor = "orange"
	ColorGreen  CourseColor = "green"
)

// IsValid reports whether c is a known color
func (c CourseColor) IsValid() bool {
	switch c {
	case ColorBlue, ColorPurple, ColorPink, ColorOrange, ColorGreen:
		return true
	}
	return false
}

// Course is a weekly class slot
type Course struct {
	ID         string      `json:"id"`
	UserID     string      `json:"-"`
	Name       string      `json:"name"`
	Code       string      `json:"code"`
	Instructor string      `json:"instructor"`
	DayOfWeek  int         `json:"day_of_week"` // 0=Sunday
	StartTime  string      `json:"start_time"`  // "HH:MM"
	EndTime    string      `json:"end_time"`
	Color      CourseColor `json:"color"`
	Location   string      `json:"location,omitempty"`
}

// AssignmentType classifies coursework
type AssignmentType string

const (
	AssignmentHomework AssignmentType = "homework"
	AssignmentExam     AssignmentType = "exam"
	AssignmentProject  AssignmentType = "project"
)

// IsValid reports whether t is a known assignment type
func (t AssignmentType) IsValid() bool {
	switch t {
	case AssignmentHomework, AssignmentExam, AssignmentProject:
		return true
	}
	return false
}

// Assignment is coursework attached to a course
type Assignment struct {
	ID          string         `json:"id"`
	UserID      string         `json:"-"`
	CourseID    string         `json:"course_id"`
	Title       string         `json:"title"`
	DueDate     time.Time      `json:"due_date"`
	Type        AssignmentType `json:"type"`
	IsCompleted bool           `json:"is_completed"`
}
