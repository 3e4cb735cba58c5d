package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
	"github.com/Behrad-Mahdavi/NexusOs/internal/storage"
)

func newTestService(now *time.Time) (*Service, *storage.MemoryRepository) {
	repo := storage.NewMemoryRepository()
	svc := NewService(NewMemoryStore(), repo, 25*time.Minute).WithClock(func() time.Time { return *now })
	return svc, repo
}

func TestService_SurvivesReload(t *testing.T) {
	ctx := context.Background()
	now := t0
	store := NewMemoryStore()
	repo := storage.NewMemoryRepository()
	clock := func() time.Time { return now }

	first := NewService(store, repo, 25*time.Minute).WithClock(clock)
	_, err := first.Start(ctx, "u1", 0, "")
	require.NoError(t, err)

	// a new process reading the same store sees the same countdown
	now = now.Add(20 * time.Minute)
	second := NewService(store, repo, 25*time.Minute).WithClock(clock)
	st, err := second.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, st.Status)
	assert.Equal(t, 5*time.Minute, st.RemainingAt(now))
}

func TestService_CompleteRecordsSession(t *testing.T) {
	ctx := context.Background()
	now := t0
	svc, repo := newTestService(&now)

	var completed []models.FocusSession
	svc.OnComplete(func(userID string, s models.FocusSession) { completed = append(completed, s) })

	_, err := svc.Start(ctx, "u1", 0, "task-1")
	require.NoError(t, err)

	now = now.Add(25 * time.Minute)
	st, session, err := svc.Complete(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, StatusIdle, st.Status)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, 25, session.DurationMinutes)

	sessions, err := repo.ListFocusSessions(ctx, "u1", time.Time{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "task-1", sessions[0].TaskID)
	assert.Len(t, completed, 1)
}

func TestService_FinalizeExpired(t *testing.T) {
	ctx := context.Background()
	now := t0
	svc, repo := newTestService(&now)

	_, err := svc.Start(ctx, "expired", 10*time.Minute, "")
	require.NoError(t, err)
	_, err = svc.Start(ctx, "still-going", time.Hour, "")
	require.NoError(t, err)
	_, err = svc.Start(ctx, "paused", 10*time.Minute, "")
	require.NoError(t, err)
	_, err = svc.Pause(ctx, "paused")
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	finalizer := NewFinalizer(svc, time.Second)
	finalizer.finalize(ctx)

	expired, err := svc.Get(ctx, "expired")
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, expired.Status)

	going, err := svc.Get(ctx, "still-going")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, going.Status)

	paused, err := svc.Get(ctx, "paused")
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, paused.Status)

	sessions, err := repo.ListFocusSessions(ctx, "expired", time.Time{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, t0.Add(10*time.Minute), *sessions[0].EndedAt)

	// a second cycle finds nothing new
	count, err := svc.FinalizeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestService_ResetDoesNotRecord(t *testing.T) {
	ctx := context.Background()
	now := t0
	svc, repo := newTestService(&now)

	var changes []Status
	svc.OnChange(func(userID string, st State) { changes = append(changes, st.Status) })

	_, err := svc.Start(ctx, "u1", 0, "")
	require.NoError(t, err)
	st, err := svc.Reset(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, st.Status)

	sessions, err := repo.ListFocusSessions(ctx, "u1", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Equal(t, []Status{StatusRunning, StatusIdle}, changes)

	_, err = svc.Pause(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotRunning)
}
