package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// MemoryRepository is a Repository kept entirely in process memory.
// It backs tests and the server when STORAGE_BACKEND=memory.
type MemoryRepository struct {
	mu              sync.RWMutex
	users           map[string]*models.User
	tasks           map[string]*models.Task
	courses         map[string]*models.Course
	assignments     map[string]*models.Assignment
	nodes           map[string]*models.Node
	links           map[string][]models.Link // userID -> links
	focusSessions   map[string][]models.FocusSession
	readingSessions map[string][]models.ReadingSession
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:           make(map[string]*models.User),
		tasks:           make(map[string]*models.Task),
		courses:         make(map[string]*models.Course),
		assignments:     make(map[string]*models.Assignment),
		nodes:           make(map[string]*models.Node),
		links:           make(map[string][]models.Link),
		focusSessions:   make(map[string][]models.FocusSession),
		readingSessions: make(map[string][]models.ReadingSession),
	}
}

// Ping always succeeds
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (r *MemoryRepository) Close() error {
	return nil
}

// --- Users ---

func (r *MemoryRepository) CreateUser(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.ID]; exists {
		return fmt.Errorf("failed to create user: duplicate id %s", u.ID)
	}
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("failed to create user: duplicate email")
		}
	}

	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	if !exists {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) UpdateUserLastSignIn(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, exists := r.users[id]
	if !exists {
		return fmt.Errorf("user not found: %s", id)
	}
	u.LastSignInAt = &at
	return nil
}

// --- Tasks ---

func (r *MemoryRepository) CreateTask(ctx context.Context, t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[t.ID]; exists {
		return fmt.Errorf("failed to create task: duplicate id %s", t.ID)
	}
	r.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *MemoryRepository) GetTask(ctx context.Context, userID, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tasks[id]
	if !exists || t.UserID != userID {
		return nil, nil
	}
	return cloneTask(t), nil
}

func (r *MemoryRepository) UpdateTask(ctx context.Context, t *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.updateTaskLocked(t)
}

func (r *MemoryRepository) updateTaskLocked(t *models.Task) error {
	existing, exists := r.tasks[t.ID]
	if !exists || existing.UserID != t.UserID {
		return fmt.Errorf("task not found: %s", t.ID)
	}

	updated := cloneTask(t)
	updated.CreatedAt = existing.CreatedAt
	r.tasks[t.ID] = updated
	return nil
}

func (r *MemoryRepository) DeleteTask(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, exists := r.tasks[id]
	if !exists || t.UserID != userID {
		return fmt.Errorf("task not found: %s", id)
	}
	delete(r.tasks, id)

	// reading sessions cascade with their task
	r.readingSessions[userID] = slices.DeleteFunc(r.readingSessions[userID], func(s models.ReadingSession) bool {
		return s.TaskID == id
	})
	return nil
}

func (r *MemoryRepository) ListTasks(ctx context.Context, userID string, filters models.TaskFilters) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]models.Task, 0)
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if filters.Context != "" && t.Context != filters.Context {
			continue
		}
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		if filters.Type != "" && t.Type != filters.Type {
			continue
		}
		tasks = append(tasks, *cloneTask(t))
	}

	slices.SortFunc(tasks, func(a, b models.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return tasks, nil
}

// --- Reading ---

func (r *MemoryRepository) SaveReadingProgress(ctx context.Context, t *models.Task, s *models.ReadingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.updateTaskLocked(t); err != nil {
		return err
	}
	r.readingSessions[s.UserID] = append(r.readingSessions[s.UserID], *s)
	return nil
}

func (r *MemoryRepository) ListReadingTotals(ctx context.Context, userID string, since time.Time) ([]models.ReadingTotal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sums := make(map[string]int)
	for _, s := range r.readingSessions[userID] {
		if s.SessionDate.Before(since) {
			continue
		}
		sums[s.TaskID] += s.PagesRead
	}

	totals := make([]models.ReadingTotal, 0, len(sums))
	for taskID, pages := range sums {
		totals = append(totals, models.ReadingTotal{TaskID: taskID, PagesRead: pages})
	}
	slices.SortFunc(totals, func(a, b models.ReadingTotal) int {
		return strings.Compare(a.TaskID, b.TaskID)
	})
	return totals, nil
}

// --- Courses ---

func (r *MemoryRepository) CreateCourse(ctx context.Context, c *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.courses[c.ID]; exists {
		return fmt.Errorf("failed to create course: duplicate id %s", c.ID)
	}
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetCourse(ctx context.Context, userID, id string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.courses[id]
	if !exists || c.UserID != userID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) UpdateCourse(ctx context.Context, c *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.courses[c.ID]
	if !exists || existing.UserID != c.UserID {
		return fmt.Errorf("course not found: %s", c.ID)
	}
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *MemoryRepository) DeleteCourse(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.courses[id]
	if !exists || c.UserID != userID {
		return fmt.Errorf("course not found: %s", id)
	}
	delete(r.courses, id)

	// assignments cascade with their course
	for aid, a := range r.assignments {
		if a.CourseID == id {
			delete(r.assignments, aid)
		}
	}
	return nil
}

func (r *MemoryRepository) ListCourses(ctx context.Context, userID string) ([]models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]models.Course, 0)
	for _, c := range r.courses {
		if c.UserID == userID {
			courses = append(courses, *c)
		}
	}
	slices.SortFunc(courses, func(a, b models.Course) int {
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek - b.DayOfWeek
		}
		return strings.Compare(a.StartTime, b.StartTime)
	})
	return courses, nil
}

// --- Assignments ---

func (r *MemoryRepository) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assignments[a.ID]; exists {
		return fmt.Errorf("failed to create assignment: duplicate id %s", a.ID)
	}
	if c, ok := r.courses[a.CourseID]; !ok || c.UserID != a.UserID {
		return fmt.Errorf("failed to create assignment: course not found: %s", a.CourseID)
	}
	cp := *a
	r.assignments[a.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetAssignment(ctx context.Context, userID, id string) (*models.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.assignments[id]
	if !exists || a.UserID != userID {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) UpdateAssignment(ctx context.Context, a *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.assignments[a.ID]
	if !exists || existing.UserID != a.UserID {
		return fmt.Errorf("assignment not found: %s", a.ID)
	}
	if c, ok := r.courses[a.CourseID]; !ok || c.UserID != a.UserID {
		return fmt.Errorf("failed to update assignment: course not found: %s", a.CourseID)
	}
	cp := *a
	r.assignments[a.ID] = &cp
	return nil
}

func (r *MemoryRepository) DeleteAssignment(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, exists := r.assignments[id]
	if !exists || a.UserID != userID {
		return fmt.Errorf("assignment not found: %s", id)
	}
	delete(r.assignments, id)
	return nil
}

func (r *MemoryRepository) ListAssignments(ctx context.Context, userID string) ([]models.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignments := make([]models.Assignment, 0)
	for _, a := range r.assignments {
		if a.UserID == userID {
			assignments = append(assignments, *a)
		}
	}
	slices.SortFunc(assignments, func(a, b models.Assignment) int {
		return a.DueDate.Compare(b.DueDate)
	})
	return assignments, nil
}

// --- Graph ---

func (r *MemoryRepository) CreateNode(ctx context.Context, n *models.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[n.ID]; exists {
		return fmt.Errorf("failed to create node: duplicate id %s", n.ID)
	}
	cp := *n
	r.nodes[n.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetNode(ctx context.Context, userID, id string) (*models.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, exists := r.nodes[id]
	if !exists || n.UserID != userID {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r *MemoryRepository) UpdateNode(ctx context.Context, n *models.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.nodes[n.ID]
	if !exists || existing.UserID != n.UserID {
		return fmt.Errorf("node not found: %s", n.ID)
	}
	cp := *n
	r.nodes[n.ID] = &cp
	return nil
}

func (r *MemoryRepository) DeleteNode(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, exists := r.nodes[id]
	if !exists || n.UserID != userID {
		return fmt.Errorf("node not found: %s", id)
	}
	delete(r.nodes, id)

	r.links[userID] = slices.DeleteFunc(r.links[userID], func(l models.Link) bool {
		return l.Touches(id)
	})
	return nil
}

func (r *MemoryRepository) ListNodes(ctx context.Context, userID string) ([]models.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make([]models.Node, 0)
	for _, n := range r.nodes {
		if n.UserID == userID {
			nodes = append(nodes, *n)
		}
	}
	slices.SortFunc(nodes, func(a, b models.Node) int {
		if c := strings.Compare(a.Label, b.Label); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return nodes, nil
}

func (r *MemoryRepository) CreateLinks(ctx context.Context, userID string, links []models.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range links {
		for _, end := range []string{l.Source, l.Target} {
			if n, ok := r.nodes[end]; !ok || n.UserID != userID {
				return fmt.Errorf("failed to create link: node not found: %s", end)
			}
		}
		if slices.Contains(r.links[userID], l) {
			continue
		}
		r.links[userID] = append(r.links[userID], l)
	}
	return nil
}

func (r *MemoryRepository) ListLinks(ctx context.Context, userID string) ([]models.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]models.Link, len(r.links[userID]))
	copy(links, r.links[userID])
	return links, nil
}

// --- Focus sessions ---

func (r *MemoryRepository) CreateFocusSession(ctx context.Context, s *models.FocusSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.focusSessions[s.UserID] = append(r.focusSessions[s.UserID], *s)
	return nil
}

func (r *MemoryRepository) ListFocusSessions(ctx context.Context, userID string, since time.Time) ([]models.FocusSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]models.FocusSession, 0)
	for _, s := range r.focusSessions[userID] {
		if !s.StartedAt.Before(since) {
			sessions = append(sessions, s)
		}
	}
	slices.SortStableFunc(sessions, func(a, b models.FocusSession) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	return sessions, nil
}

func cloneTask(t *models.Task) *models.Task {
	cp := *t
	cp.Tags = slices.Clone(t.Tags)
	if cp.Tags == nil {
		cp.Tags = []string{}
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		cp.CompletedAt = &ts
	}
	if t.Revenue != nil {
		v := *t.Revenue
		cp.Revenue = &v
	}
	if t.TotalPages != nil {
		v := *t.TotalPages
		cp.TotalPages = &v
	}
	if t.CurrentPage != nil {
		v := *t.CurrentPage
		cp.CurrentPage = &v
	}
	return &cp
}
