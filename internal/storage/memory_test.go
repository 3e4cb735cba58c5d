package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

func intPtr(v int) *int { return &v }

func TestMemoryRepository_TasksAreScopedByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateTask(ctx, &models.Task{ID: "t1", UserID: "alice", Title: "Essay", Context: models.ContextUniversity, Status: models.StatusTodo, CreatedAt: created}))
	require.NoError(t, repo.CreateTask(ctx, &models.Task{ID: "t2", UserID: "alice", Title: "Invoice", Context: models.ContextFreelance, Status: models.StatusDone, CreatedAt: created.Add(time.Hour)}))
	require.NoError(t, repo.CreateTask(ctx, &models.Task{ID: "t3", UserID: "bob", Title: "Gym", Context: models.ContextLife, CreatedAt: created}))

	tasks, err := repo.ListTasks(ctx, "alice", models.TaskFilters{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t2", tasks[0].ID, "newest first")

	filtered, err := repo.ListTasks(ctx, "alice", models.TaskFilters{Context: models.ContextFreelance})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "t2", filtered[0].ID)

	other, err := repo.GetTask(ctx, "bob", "t1")
	require.NoError(t, err)
	assert.Nil(t, other)

	err = repo.DeleteTask(ctx, "bob", "t1")
	assert.Error(t, err)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	task := &models.Task{ID: "t1", UserID: "alice", Tags: []string{"client-a"}}
	require.NoError(t, repo.CreateTask(ctx, task))
	task.Tags[0] = "mutated"

	got, err := repo.GetTask(ctx, "alice", "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"client-a"}, got.Tags)
}

func TestMemoryRepository_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateTask(ctx, &models.Task{ID: "t1", UserID: "alice", Title: "Old", CreatedAt: created}))
	require.NoError(t, repo.UpdateTask(ctx, &models.Task{ID: "t1", UserID: "alice", Title: "New"}))

	got, err := repo.GetTask(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, created, got.CreatedAt)

	assert.Error(t, repo.UpdateTask(ctx, &models.Task{ID: "missing", UserID: "alice"}))
}

func TestMemoryRepository_ReadingProgress(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	day := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

	book := &models.Task{ID: "book", UserID: "alice", Type: models.TypeReading, TotalPages: intPtr(300), CurrentPage: intPtr(0)}
	require.NoError(t, repo.CreateTask(ctx, book))

	book.CurrentPage = intPtr(40)
	require.NoError(t, repo.SaveReadingProgress(ctx, book, &models.ReadingSession{ID: "r1", UserID: "alice", TaskID: "book", PagesRead: 40, SessionDate: day.Add(-24 * time.Hour)}))
	book.CurrentPage = intPtr(55)
	require.NoError(t, repo.SaveReadingProgress(ctx, book, &models.ReadingSession{ID: "r2", UserID: "alice", TaskID: "book", PagesRead: 15, SessionDate: day.Add(8 * time.Hour)}))

	totals, err := repo.ListReadingTotals(ctx, "alice", day)
	require.NoError(t, err)
	assert.Equal(t, []models.ReadingTotal{{TaskID: "book", PagesRead: 15}}, totals)

	got, err := repo.GetTask(ctx, "alice", "book")
	require.NoError(t, err)
	assert.Equal(t, 55, *got.CurrentPage)

	// deleting the book drops its sessions
	require.NoError(t, repo.DeleteTask(ctx, "alice", "book"))
	totals, err = repo.ListReadingTotals(ctx, "alice", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestMemoryRepository_DeleteNodeCascadesLinks(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateNode(ctx, &models.Node{ID: id, UserID: "alice", Label: id, Group: 1}))
	}
	require.NoError(t, repo.CreateLinks(ctx, "alice", []models.Link{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "a", Target: "b"},
	}))

	links, err := repo.ListLinks(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, links, 2)

	require.NoError(t, repo.DeleteNode(ctx, "alice", "a"))

	links, err = repo.ListLinks(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []models.Link{{Source: "b", Target: "c"}}, links)

	assert.Error(t, repo.CreateLinks(ctx, "alice", []models.Link{{Source: "a", Target: "c"}}))
}

func TestMemoryRepository_Users(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "u1", Email: "sara@example.com"}))
	assert.Error(t, repo.CreateUser(ctx, &models.User{ID: "u2", Email: "SARA@example.com"}))

	u, err := repo.GetUserByEmail(ctx, "Sara@Example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	at := time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateUserLastSignIn(ctx, "u1", at))
	u, err = repo.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u.LastSignInAt)
	assert.Equal(t, at, *u.LastSignInAt)

	missing, err := repo.GetUserByID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryRepository_FocusSessionsSince(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateFocusSession(ctx, &models.FocusSession{ID: "old", UserID: "alice", StartedAt: base.Add(-72 * time.Hour), DurationMinutes: 25}))
	require.NoError(t, repo.CreateFocusSession(ctx, &models.FocusSession{ID: "new", UserID: "alice", StartedAt: base, DurationMinutes: 50}))
	require.NoError(t, repo.CreateFocusSession(ctx, &models.FocusSession{ID: "mid", UserID: "alice", StartedAt: base.Add(-time.Hour), DurationMinutes: 10}))

	sessions, err := repo.ListFocusSessions(ctx, "alice", base.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "new", sessions[0].ID)
	assert.Equal(t, "mid", sessions[1].ID)
}

func TestMemoryRepository_AssignmentsFollowCourses(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	due := time.Date(2024, 5, 20, 23, 59, 0, 0, time.UTC)

	require.NoError(t, repo.CreateCourse(ctx, &models.Course{ID: "algo", UserID: "alice", Name: "Algorithms"}))
	require.NoError(t, repo.CreateCourse(ctx, &models.Course{ID: "bobs", UserID: "bob", Name: "Bob's course"}))

	require.NoError(t, repo.CreateAssignment(ctx, &models.Assignment{ID: "hw1", UserID: "alice", CourseID: "algo", DueDate: due}))
	assert.Error(t, repo.CreateAssignment(ctx, &models.Assignment{ID: "hw2", UserID: "alice", CourseID: "bobs", DueDate: due}))

	require.NoError(t, repo.DeleteCourse(ctx, "alice", "algo"))

	assignments, err := repo.ListAssignments(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, assignments)
}
