package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Behrad-Mahdavi/NexusOs/internal/dashboard"
	"github.com/Behrad-Mahdavi/NexusOs/internal/events"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// ListTasks returns the user's tasks, newest first
func (s *Service) ListTasks(ctx context.Context, userID string, filters models.TaskFilters) ([]models.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListTasks(ctx, userID, filters)
}

// GetTask returns one task
func (s *Service) GetTask(ctx context.Context, userID, id string) (*models.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	t, err := s.repo.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

// SaveTask inserts or updates a task. A persisted id that exists is updated
// in place; any other id is replaced by a server-generated one, which the
// returned task carries.
func (s *Service) SaveTask(ctx context.Context, userID string, in models.Task) (*models.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	t := normalizeTask(in)
	if err := validateTask(&t); err != nil {
		return nil, err
	}
	t.UserID = userID

	var existing *models.Task
	if isPersistedID(t.ID) {
		var err error
		if existing, err = s.repo.GetTask(ctx, userID, t.ID); err != nil {
			return nil, err
		}
	} else {
		t.ID = uuid.NewString()
	}

	if existing != nil && existing.Type == models.TypeReading && t.Type == models.TypeReading {
		// the page only moves through SaveReadingProgress
		current, _ := existing.Pages()
		page := current
		t.CurrentPage = &page
		if _, total := t.Pages(); current > total {
			return nil, fieldError("total_pages", fmt.Sprintf("must be at least the current page %d", current))
		}
	}

	now := s.now().UTC()
	if existing != nil {
		t.CreatedAt = existing.CreatedAt
		if t.CompletedAt == nil {
			t.CompletedAt = existing.CompletedAt
		}
	} else {
		t.CreatedAt = now
	}
	t = t.WithStatus(t.Status, now)

	if existing != nil {
		if err := s.repo.UpdateTask(ctx, &t); err != nil {
			return nil, storeError(err)
		}
	} else if err := s.repo.CreateTask(ctx, &t); err != nil {
		return nil, storeError(err)
	}

	slog.Debug("task saved", "user_id", userID, "task_id", t.ID, "created", existing == nil)
	s.publish(userID, events.TaskSaved, "task", t.ID, t)
	return &t, nil
}

// SetTaskStatus moves a task to another column, stamping or clearing its
// completion time
func (s *Service) SetTaskStatus(ctx context.Context, userID, id string, status models.TaskStatus) (*models.Task, error) {
	if !status.IsValid() {
		return nil, fieldError("status", fmt.Sprintf("must be one of todo, doing, done; got %q", status))
	}

	t, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated := t.WithStatus(status, s.now().UTC())
	if err := s.repo.UpdateTask(ctx, &updated); err != nil {
		return nil, storeError(err)
	}

	slog.Debug("task status changed", "user_id", userID, "task_id", id, "from", t.Status, "to", status)
	s.publish(userID, events.TaskSaved, "task", updated.ID, updated)
	return &updated, nil
}

// DeleteTask removes a task
func (s *Service) DeleteTask(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.repo.DeleteTask(ctx, userID, id); err != nil {
		return storeError(err)
	}

	s.publish(userID, events.TaskDeleted, "task", id, nil)
	return nil
}

// SaveReadingProgress advances a book to newPage and logs the pages read
// as a reading session. Going backwards or past the last page is rejected;
// an unchanged page is a no-op.
func (s *Service) SaveReadingProgress(ctx context.Context, userID, id string, newPage int) (*models.ProgressResponse, error) {
	t, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if t.Type != models.TypeReading {
		return nil, fieldError("type", "progress can only be saved on reading tasks")
	}

	current, total := t.Pages()
	delta, err := dashboard.PagesDelta(current, newPage, total)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrPageBackwards):
			return nil, fieldError("current_page", fmt.Sprintf("must be at least %d", current))
		case errors.Is(err, dashboard.ErrPageBeyondEnd):
			return nil, fieldError("current_page", fmt.Sprintf("must be at most %d", total))
		}
		return nil, err
	}

	if delta == 0 {
		return &models.ProgressResponse{Task: t, PagesDelta: 0}, nil
	}

	page := newPage
	t.CurrentPage = &page
	session := &models.ReadingSession{
		ID:          uuid.NewString(),
		UserID:      userID,
		TaskID:      t.ID,
		PagesRead:   delta,
		SessionDate: s.now().UTC(),
	}

	if err := s.repo.SaveReadingProgress(ctx, t, session); err != nil {
		return nil, storeError(err)
	}

	slog.Debug("reading progress saved", "user_id", userID, "task_id", id, "pages", delta)
	s.publish(userID, events.ReadingProgressed, "task", t.ID, t)
	return &models.ProgressResponse{Task: t, PagesDelta: delta}, nil
}

// ReadingToday sums the pages read per book since local midnight
func (s *Service) ReadingToday(ctx context.Context, userID string) ([]models.ReadingTotal, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListReadingTotals(ctx, userID, dashboard.StartOfDay(s.localNow()))
}

// normalizeTask fills defaults and trims free text
func normalizeTask(t models.Task) models.Task {
	t.Title = strings.TrimSpace(t.Title)
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	if t.Type == "" {
		t.Type = models.TypeStandard
	}

	tags := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	t.Tags = tags

	if t.Type == models.TypeReading && t.CurrentPage == nil {
		zero := 0
		t.CurrentPage = &zero
	}
	if t.Type != models.TypeReading {
		t.TotalPages = nil
		t.CurrentPage = nil
	}
	return t
}

func validateTask(t *models.Task) error {
	v := &ValidationError{}

	if t.Title == "" {
		v.Add("title", "is required")
	}
	if !t.Context.IsValid() {
		v.Add("context", fmt.Sprintf("must be one of university, freelance, growth, life; got %q", t.Context))
	}
	if !t.Status.IsValid() {
		v.Add("status", fmt.Sprintf("must be one of todo, doing, done; got %q", t.Status))
	}
	if !t.Type.IsValid() {
		v.Add("type", fmt.Sprintf("must be standard or reading; got %q", t.Type))
	}
	if t.EnergyCost < 1 || t.EnergyCost > 3 {
		v.Add("energy_cost", fmt.Sprintf("must be between 1 and 3; got %d", t.EnergyCost))
	}
	if t.Revenue != nil && *t.Revenue < 0 {
		v.Add("revenue", "must not be negative")
	}
	if _, err := models.ParseDate(string(t.DueDate)); err != nil {
		v.Add("due_date", "must be a YYYY-MM-DD date")
	}

	if t.Type == models.TypeReading {
		current, total := t.Pages()
		switch {
		case t.TotalPages == nil || total <= 0:
			v.Add("total_pages", "must be a positive number for reading tasks")
		case current < 0 || current > total:
			v.Add("current_page", fmt.Sprintf("must be between 0 and %d", total))
		}
	}

	return v.errOrNil()
}
