package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

var errOffline = errors.New("offline")

func TestApply_RequiresSession(t *testing.T) {
	store := NewStore()

	res := store.Apply(context.Background(), Mutation{
		Local: func(s State) State { return s.WithTask(models.Task{ID: "a"}) },
	})

	assert.ErrorIs(t, res.Err, ErrNoSession)
	assert.Empty(t, store.State().Tasks)
}

func TestApply_ConfirmedWithReconcile(t *testing.T) {
	store := NewStore()
	store.Load(Empty())

	res := store.Apply(context.Background(), Mutation{
		Name:  "save task",
		Local: func(s State) State { return s.WithTask(models.Task{ID: "temp-1", Title: "Essay"}) },
		Remote: func(ctx context.Context) (func(State) State, error) {
			return func(s State) State { return s.ReplaceTaskID("temp-1", "uuid-1") }, nil
		},
	})

	require.NoError(t, res.Err)
	assert.True(t, res.Confirmed())
	assert.Equal(t, "temp-1", res.Local.Tasks[0].ID, "result keeps the phase 1 snapshot")

	_, ok := store.State().Task("uuid-1")
	assert.True(t, ok)
}

func TestApply_FailureLeavesBestEffortChange(t *testing.T) {
	store := NewStore()
	store.Load(Empty())

	res := store.Apply(context.Background(), Mutation{
		Local:  func(s State) State { return s.WithTask(models.Task{ID: "a"}) },
		Remote: func(ctx context.Context) (func(State) State, error) { return nil, errOffline },
	})

	assert.ErrorIs(t, res.Err, errOffline)
	assert.Equal(t, RemoteFailed, res.Remote)
	assert.Len(t, store.State().Tasks, 1)
}

func TestApply_FailureCompensates(t *testing.T) {
	store := NewStore()
	store.Load(Empty().WithTask(models.Task{ID: "a", Status: models.StatusTodo}))

	res := store.Apply(context.Background(), Mutation{
		Local: func(s State) State {
			t, _ := s.Task("a")
			t.Status = models.StatusDone
			return s.WithTask(t)
		},
		Remote: func(ctx context.Context) (func(State) State, error) { return nil, errOffline },
		Compensate: func(s State) State {
			t, _ := s.Task("a")
			t.Status = models.StatusTodo
			return s.WithTask(t)
		},
	})

	assert.Equal(t, RemoteCompensated, res.Remote)
	task, _ := store.State().Task("a")
	assert.Equal(t, models.StatusTodo, task.Status)
}

func TestApply_UndoReinserts(t *testing.T) {
	store := NewStore()
	deleted := models.Task{ID: "a", Title: "Keep me"}
	store.Load(Empty().WithTask(deleted))

	saves := 0
	res := store.Apply(context.Background(), Mutation{
		Local:  func(s State) State { return s.WithoutTask("a") },
		Remote: func(ctx context.Context) (func(State) State, error) { return nil, nil },
		Undo: &Mutation{
			Local: func(s State) State { return s.WithTask(deleted) },
			Remote: func(ctx context.Context) (func(State) State, error) {
				saves++
				return nil, nil
			},
		},
	})
	require.True(t, res.Confirmed())
	assert.Empty(t, store.State().Tasks)
	require.NotNil(t, res.Undo)

	undone := res.Undo(context.Background())
	assert.True(t, undone.Confirmed())
	assert.Equal(t, 1, saves)
	_, ok := store.State().Task("a")
	assert.True(t, ok)
}

func TestReset(t *testing.T) {
	store := NewStore()
	var seen []State
	store.OnChange(func(s State) { seen = append(seen, s) })

	store.Load(Empty().WithTask(models.Task{ID: "a"}))
	assert.True(t, store.Active())

	store.Reset()
	assert.False(t, store.Active())
	assert.Empty(t, store.State().Tasks)
	assert.Len(t, seen, 2)
}
