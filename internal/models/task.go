package models

import "time"

// TaskContext is the life area a task belongs to
type TaskContext string

const (
	ContextUniversity TaskContext = "university"
	ContextFreelance  TaskContext = "freelance"
	ContextGrowth     TaskContext = "growth"
	ContextLife       TaskContext = "life"
)

// IsValid reports whether c is a known context
func (c TaskContext) IsValid() bool {
	switch c {
	case ContextUniversity, ContextFreelance, ContextGrowth, ContextLife:
		return true
	}
	return false
}

// TaskStatus represents the board column of a task
type TaskStatus string

const (
	StatusTodo  TaskStatus = "todo"
	StatusDoing TaskStatus = "doing"
	StatusDone  TaskStatus = "done"
)

// IsValid reports whether s is a known status
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// TaskType distinguishes plain tasks from books tracked by page
type TaskType string

const (
	TypeStandard TaskType = "standard"
	TypeReading  TaskType = "reading"
)

// IsValid reports whether t is a known task type
func (t TaskType) IsValid() bool {
	return t == TypeStandard || t == TypeReading
}

// Task is a unit of work owned by a single user
type Task struct {
	ID          string      `json:"id"`
	UserID      string      `json:"-"`
	Title       string      `json:"title"`
	Context     TaskContext `json:"context"`
	Status      TaskStatus  `json:"status"`
	EnergyCost  int         `json:"energy_cost"` // 1..3
	DueDate     Date        `json:"due_date,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Tags        []string    `json:"tags"`
	Revenue     *float64    `json:"revenue,omitempty"`
	Type        TaskType    `json:"type"`
	TotalPages  *int        `json:"total_pages,omitempty"`
	CurrentPage *int        `json:"current_page,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// IsDone reports whether the task sits in the done column
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// RevenueOrZero returns the revenue, 0 when unset
func (t *Task) RevenueOrZero() float64 {
	if t.Revenue == nil {
		return 0
	}
	return *t.Revenue
}

// FirstTag returns the first tag or "" when untagged
func (t *Task) FirstTag() string {
	if len(t.Tags) == 0 {
		return ""
	}
	return t.Tags[0]
}

// WithStatus returns a copy of t moved to status.
// Entering done stamps CompletedAt (an existing stamp is kept); leaving done clears it.
func (t Task) WithStatus(status TaskStatus, now time.Time) Task {
	switch {
	case status == StatusDone && t.CompletedAt == nil:
		ts := now
		t.CompletedAt = &ts
	case status != StatusDone:
		t.CompletedAt = nil
	}
	t.Status = status
	return t
}

// Pages returns current and total pages, 0 when unset
func (t *Task) Pages() (current, total int) {
	if t.CurrentPage != nil {
		current = *t.CurrentPage
	}
	if t.TotalPages != nil {
		total = *t.TotalPages
	}
	return current, total
}

// TaskFilters narrows a task listing
type TaskFilters struct {
	Context TaskContext
	Status  TaskStatus
	Type    TaskType
}

// StatusRequest moves a task to another column
type StatusRequest struct {
	Status TaskStatus `json:"status"`
}

// ProgressRequest records new reading progress
type ProgressRequest struct {
	CurrentPage *int `json:"current_page"`
}

// ProgressResponse is returned after a reading progress save
type ProgressResponse struct {
	Task       *Task `json:"task"`
	PagesDelta int   `json:"pages_delta"`
}
