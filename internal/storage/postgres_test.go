package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
	"github.com/Behrad-Mahdavi/NexusOs/migrations"
)

// newTestPostgres connects to DATABASE_DSN and applies the embedded schema.
func newTestPostgres(t *testing.T) *PostgresRepository {
	t.Helper()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		t.Skip("DATABASE_DSN not set, skipping postgres tests")
	}

	ctx := context.Background()
	require.NoError(t, MigrateFromDSN(ctx, dsn, migrations.FS, ""))

	repo, err := NewPostgresRepository(ctx, PostgresConfig{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestPostgresRepository_TaskRoundTrip(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()

	user := &models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateUser(ctx, user))

	revenue := 120.5
	task := &models.Task{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Title:      "Landing page",
		Context:    models.ContextFreelance,
		Status:     models.StatusTodo,
		EnergyCost: 2,
		DueDate:    "2024-05-16",
		Tags:       []string{"client-a", "web"},
		Revenue:    &revenue,
		Type:       models.TypeStandard,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.CreateTask(ctx, task))

	got, err := repo.GetTask(ctx, user.ID, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.Date("2024-05-16"), got.DueDate)
	assert.Equal(t, []string{"client-a", "web"}, got.Tags)
	require.NotNil(t, got.Revenue)
	assert.InDelta(t, 120.5, *got.Revenue, 0.001)

	other, err := repo.GetTask(ctx, uuid.NewString(), task.ID)
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, repo.DeleteTask(ctx, user.ID, task.ID))
	assert.Error(t, repo.DeleteTask(ctx, user.ID, task.ID))
}

func TestPostgresRepository_DeleteNodeCascades(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()

	user := &models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateUser(ctx, user))

	a := &models.Node{ID: uuid.NewString(), UserID: user.ID, Label: "a", Group: 1, Val: 10}
	b := &models.Node{ID: uuid.NewString(), UserID: user.ID, Label: "b", Group: 2, Val: 10}
	require.NoError(t, repo.CreateNode(ctx, a))
	require.NoError(t, repo.CreateNode(ctx, b))
	require.NoError(t, repo.CreateLinks(ctx, user.ID, []models.Link{{Source: a.ID, Target: b.ID}}))

	require.NoError(t, repo.DeleteNode(ctx, user.ID, a.ID))

	links, err := repo.ListLinks(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}
