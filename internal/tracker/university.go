package tracker

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Behrad-Mahdavi/NexusOs/internal/events"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ListCourses returns the user's weekly schedule
func (s *Service) ListCourses(ctx context.Context, userID string) ([]models.Course, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListCourses(ctx, userID)
}

// SaveCourse inserts or updates a course
func (s *Service) SaveCourse(ctx context.Context, userID string, c models.Course) (*models.Course, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(c.Name)
	if c.Color == "" {
		c.Color = models.ColorBlue
	}
	if err := validateCourse(&c); err != nil {
		return nil, err
	}
	c.UserID = userID

	exists := false
	if isPersistedID(c.ID) {
		existing, err := s.repo.GetCourse(ctx, userID, c.ID)
		if err != nil {
			return nil, err
		}
		exists = existing != nil
	} else {
		c.ID = uuid.NewString()
	}

	var err error
	if exists {
		err = s.repo.UpdateCourse(ctx, &c)
	} else {
		err = s.repo.CreateCourse(ctx, &c)
	}
	if err != nil {
		return nil, storeError(err)
	}

	s.publish(userID, events.CourseSaved, "course", c.ID, c)
	return &c, nil
}

// DeleteCourse removes a course and, through the store, its assignments
func (s *Service) DeleteCourse(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.repo.DeleteCourse(ctx, userID, id); err != nil {
		return storeError(err)
	}

	s.publish(userID, events.CourseDeleted, "course", id, nil)
	return nil
}

// ListAssignments returns the user's assignments, soonest due first
func (s *Service) ListAssignments(ctx context.Context, userID string) ([]models.Assignment, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListAssignments(ctx, userID)
}

// SaveAssignment inserts or updates an assignment. The course reference is
// checked by the store.
func (s *Service) SaveAssignment(ctx context.Context, userID string, a models.Assignment) (*models.Assignment, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	a.Title = strings.TrimSpace(a.Title)
	if err := validateAssignment(&a); err != nil {
		return nil, err
	}
	a.UserID = userID

	exists := false
	if isPersistedID(a.ID) {
		existing, err := s.repo.GetAssignment(ctx, userID, a.ID)
		if err != nil {
			return nil, err
		}
		exists = existing != nil
	} else {
		a.ID = uuid.NewString()
	}

	var err error
	if exists {
		err = s.repo.UpdateAssignment(ctx, &a)
	} else {
		err = s.repo.CreateAssignment(ctx, &a)
	}
	if err != nil {
		return nil, courseRefError(err)
	}

	s.publish(userID, events.AssignmentSaved, "assignment", a.ID, a)
	return &a, nil
}

// ToggleAssignment flips the completion flag
func (s *Service) ToggleAssignment(ctx context.Context, userID, id string) (*models.Assignment, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	a, err := s.repo.GetAssignment(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}

	a.IsCompleted = !a.IsCompleted
	if err := s.repo.UpdateAssignment(ctx, a); err != nil {
		return nil, storeError(err)
	}

	s.publish(userID, events.AssignmentSaved, "assignment", a.ID, a)
	return a, nil
}

// DeleteAssignment removes an assignment
func (s *Service) DeleteAssignment(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.repo.DeleteAssignment(ctx, userID, id); err != nil {
		return storeError(err)
	}

	s.publish(userID, events.AssignmentDeleted, "assignment", id, nil)
	return nil
}

// courseRefError turns a rejected course reference into a field error
func courseRefError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "course not found") || strings.Contains(msg, "foreign key") {
		return fieldError("course_id", "unknown course")
	}
	return storeError(err)
}

func validateCourse(c *models.Course) error {
	v := &ValidationError{}

	if c.Name == "" {
		v.Add("name", "is required")
	}
	if c.DayOfWeek < 0 || c.DayOfWeek > 6 {
		v.Add("day_of_week", fmt.Sprintf("must be between 0 (Sunday) and 6; got %d", c.DayOfWeek))
	}
	if !clockPattern.MatchString(c.StartTime) {
		v.Add("start_time", "must be HH:MM")
	}
	if !clockPattern.MatchString(c.EndTime) {
		v.Add("end_time", "must be HH:MM")
	}
	if clockPattern.MatchString(c.StartTime) && clockPattern.MatchString(c.EndTime) && c.EndTime <= c.StartTime {
		v.Add("end_time", "must be after start_time")
	}
	if !c.Color.IsValid() {
		v.Add("color", fmt.Sprintf("must be one of blue, purple, pink, orange, green; got %q", c.Color))
	}

	return v.errOrNil()
}

func validateAssignment(a *models.Assignment) error {
	v := &ValidationError{}

	if a.Title == "" {
		v.Add("title", "is required")
	}
	if a.CourseID == "" {
		v.Add("course_id", "is required")
	}
	if a.DueDate.IsZero() {
		v.Add("due_date", "is required")
	}
	if !a.Type.IsValid() {
		v.Add("type", fmt.Sprintf("must be one of homework, exam, project; got %q", a.Type))
	}

	return v.errOrNil()
}
