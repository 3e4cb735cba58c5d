package storage

import (
	"context"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// Repository defines the interface for record persistence.
// Every read and write is scoped to the owning user. Single-record reads
// return nil, nil when nothing matches.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserLastSignIn(ctx context.Context, id string, at time.Time) error

	// Tasks
	CreateTask(ctx context.Context, t *models.Task) error
	GetTask(ctx context.Context, userID, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, t *models.Task) error
	DeleteTask(ctx context.Context, userID, id string) error
	ListTasks(ctx context.Context, userID string, filters models.TaskFilters) ([]models.Task, error)

	// Reading
	SaveReadingProgress(ctx context.Context, t *models.Task, s *models.ReadingSession) error
	ListReadingTotals(ctx context.Context, userID string, since time.Time) ([]models.ReadingTotal, error)

	// Courses
	CreateCourse(ctx context.Context, c *models.Course) error
	GetCourse(ctx context.Context, userID, id string) (*models.Course, error)
	UpdateCourse(ctx context.Context, c *models.Course) error
	DeleteCourse(ctx context.Context, userID, id string) error
	ListCourses(ctx context.Context, userID string) ([]models.Course, error)

	// Assignments
	CreateAssignment(ctx context.Context, a *models.Assignment) error
	GetAssignment(ctx context.Context, userID, id string) (*models.Assignment, error)
	UpdateAssignment(ctx context.Context, a *models.Assignment) error
	DeleteAssignment(ctx context.Context, userID, id string) error
	ListAssignments(ctx context.Context, userID string) ([]models.Assignment, error)

	// Graph
	CreateNode(ctx context.Context, n *models.Node) error
	GetNode(ctx context.Context, userID, id string) (*models.Node, error)
	UpdateNode(ctx context.Context, n *models.Node) error
	DeleteNode(ctx context.Context, userID, id string) error // cascades to links
	ListNodes(ctx context.Context, userID string) ([]models.Node, error)
	CreateLinks(ctx context.Context, userID string, links []models.Link) error
	ListLinks(ctx context.Context, userID string) ([]models.Link, error)

	// Focus sessions
	CreateFocusSession(ctx context.Context, s *models.FocusSession) error
	ListFocusSessions(ctx context.Context, userID string, since time.Time) ([]models.FocusSession, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
