package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Behrad-Mahdavi/NexusOs/internal/api"
	"github.com/Behrad-Mahdavi/NexusOs/internal/auth"
	"github.com/Behrad-Mahdavi/NexusOs/internal/config"
	"github.com/Behrad-Mahdavi/NexusOs/internal/events"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
	"github.com/Behrad-Mahdavi/NexusOs/internal/services"
	"github.com/Behrad-Mahdavi/NexusOs/internal/storage"
	"github.com/Behrad-Mahdavi/NexusOs/internal/timer"
	"github.com/Behrad-Mahdavi/NexusOs/internal/tracker"
	"github.com/Behrad-Mahdavi/NexusOs/pkg/state"
)

const testPassword = "correct-horse-battery"

type testServer struct {
	url string
	hub *events.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := storage.NewMemoryRepository()
	hub := events.NewHub()

	tokens := auth.NewTokenManager(auth.TokenConfig{SecretKey: "test-secret", TTL: time.Hour, Issuer: "nexus-test"})
	authService := auth.NewService(repo, auth.NewPasswordHasherWithCost(bcrypt.MinCost), tokens, auth.NewMemoryRevocationStore(time.Now))
	authService.OnSignOut(func(userID string) {
		hub.Publish(userID, events.Event{Type: events.SessionEnded})
	})

	registry := services.NewRegistry()
	registry.Register("storage", services.NewPingProvider("memory", repo.Ping))

	srv := api.NewServer(
		config.ServerConfig{Host: "127.0.0.1"},
		authService,
		tracker.NewService(repo, hub, tracker.Options{}),
		timer.NewService(timer.NewMemoryStore(), repo, 25*time.Minute),
		hub,
		registry,
	)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &testServer{url: ts.URL, hub: hub}
}

func signedIn(t *testing.T, ts *testServer, email string) (*Client, *models.SessionResponse) {
	t.Helper()
	ctx := context.Background()

	c := NewClient(ts.url, WithTimeout(5*time.Second))
	_, err := c.SignUp(ctx, email, testPassword)
	require.NoError(t, err)

	session, err := c.SignIn(ctx, email, testPassword)
	require.NoError(t, err)
	require.Equal(t, session.AccessToken, c.Token())
	return c, session
}

func essay() models.Task {
	return models.Task{
		Title:      "Write essay",
		Context:    models.ContextUniversity,
		Status:     models.StatusTodo,
		EnergyCost: 2,
		Type:       models.TypeStandard,
		Tags:       []string{"writing"},
	}
}

func TestClientAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c := NewClient(ts.url)

	require.NoError(t, c.Health(ctx))

	_, err := c.SignUp(ctx, "not-an-email", testPassword)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = c.ListTasks(ctx, models.TaskFilters{})
	assert.True(t, IsUnauthorized(err))

	c, session := signedIn(t, ts, "ada@example.com")
	user, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)

	_, err = c.SignUp(ctx, "ada@example.com", testPassword)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)

	require.NoError(t, c.SignOut(ctx))
	assert.Empty(t, c.Token())

	c.SetToken(session.AccessToken)
	_, err = c.Session(ctx)
	assert.True(t, IsUnauthorized(err), "revoked token must be refused")
}

func TestClientRecords(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c, _ := signedIn(t, ts, "grace@example.com")

	saved, err := c.SaveTask(ctx, essay())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	moved, err := c.SetTaskStatus(ctx, saved.ID, models.StatusDoing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDoing, moved.Status)

	tasks, err := c.ListTasks(ctx, models.TaskFilters{Status: models.StatusDoing})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	err = c.DeleteTask(ctx, "00000000-0000-0000-0000-000000000000")
	assert.True(t, IsNotFound(err))

	course, err := c.SaveCourse(ctx, models.Course{Name: "Algebra", DayOfWeek: 3, StartTime: "08:30", EndTime: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, models.ColorBlue, course.Color)

	a, err := c.SaveAssignment(ctx, models.Assignment{Title: "Homework 1", CourseID: course.ID, DueDate: time.Date(2030, 1, 10, 23, 59, 0, 0, time.UTC), Type: models.AssignmentHomework})
	require.NoError(t, err)
	toggled, err := c.ToggleAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)

	first, err := c.SaveNode(ctx, models.SaveNodeRequest{Node: models.Node{Label: "Graphs", Group: 1}})
	require.NoError(t, err)
	_, err = c.SaveNode(ctx, models.SaveNodeRequest{Node: models.Node{Label: "Trees", Group: 2}, ConnectedIDs: []string{first.ID}})
	require.NoError(t, err)

	g, err := c.Graph(ctx)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	assert.Len(t, g.Links, 1)

	view, err := c.StartTimer(ctx, 30, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, timer.StatusRunning, view.Status)
	_, session, err := c.CompleteTimer(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, 30, session.DurationMinutes)

	sessions, err := c.ListFocusSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	overview, err := c.Overview(ctx)
	require.NoError(t, err)
	assert.NotNil(t, overview)
}

func TestWorkspaceRequiresLoad(t *testing.T) {
	ts := newTestServer(t)
	c, _ := signedIn(t, ts, "lin@example.com")
	ws := NewWorkspace(c)

	res := ws.SaveTask(context.Background(), essay())
	assert.ErrorIs(t, res.Err, state.ErrNoSession)
	assert.Empty(t, ws.Store().State().Tasks)
}

func TestWorkspaceSaveTaskReconcilesID(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c, _ := signedIn(t, ts, "mae@example.com")
	ws := NewWorkspace(c)
	require.NoError(t, ws.Load(ctx))

	var seen []string
	ws.Store().OnChange(func(s state.State) {
		for _, task := range s.Tasks {
			seen = append(seen, task.ID)
		}
	})

	res := ws.SaveTask(ctx, essay())
	require.NoError(t, res.Err)
	assert.True(t, res.Confirmed())

	require.Len(t, seen, 2)
	assert.True(t, isTemp(seen[0]), "local phase shows a temporary id")
	assert.False(t, isTemp(seen[1]))

	tasks := ws.Store().State().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, seen[1], tasks[0].ID)

	remote, err := c.ListTasks(ctx, models.TaskFilters{})
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, tasks[0].ID, remote[0].ID)
}

func TestWorkspaceStatusCompensates(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c, _ := signedIn(t, ts, "kai@example.com")
	ws := NewWorkspace(c)
	require.NoError(t, ws.Load(ctx))

	require.NoError(t, ws.SaveTask(ctx, essay()).Err)
	id := ws.Store().State().Tasks[0].ID

	res := ws.SetTaskStatus(ctx, id, models.StatusDone)
	require.NoError(t, res.Err)
	task, _ := ws.Store().State().Task(id)
	assert.Equal(t, models.StatusDone, task.Status)
	assert.NotNil(t, task.CompletedAt)

	res = ws.SetTaskStatus(ctx, id, models.TaskStatus("archived"))
	require.Error(t, res.Err)
	assert.Equal(t, state.RemoteCompensated, res.Remote)
	assert.Equal(t, models.TaskStatus("archived"), res.Local.Tasks[0].Status)

	task, _ = ws.Store().State().Task(id)
	assert.Equal(t, models.StatusDone, task.Status)
}

func TestWorkspaceDeleteUndo(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c, _ := signedIn(t, ts, "sol@example.com")
	ws := NewWorkspace(c)
	require.NoError(t, ws.Load(ctx))

	require.NoError(t, ws.SaveTask(ctx, essay()).Err)
	id := ws.Store().State().Tasks[0].ID

	res := ws.DeleteTask(ctx, id)
	require.NoError(t, res.Err)
	assert.Empty(t, ws.Store().State().Tasks)
	require.NotNil(t, res.Undo)

	undone := res.Undo(ctx)
	require.NoError(t, undone.Err)
	assert.True(t, undone.Confirmed())

	remote, err := c.ListTasks(ctx, models.TaskFilters{})
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, id, remote[0].ID)
	assert.Len(t, ws.Store().State().Tasks, 1)
}

func TestWorkspaceGraphAndFocus(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c, _ := signedIn(t, ts, "rue@example.com")
	ws := NewWorkspace(c)
	require.NoError(t, ws.Load(ctx))

	require.NoError(t, ws.SaveNode(ctx, models.Node{Label: "Graphs", Group: 1}, nil).Err)
	first := ws.Store().State().Nodes[0].ID
	require.False(t, isTemp(first))

	require.NoError(t, ws.SaveNode(ctx, models.Node{Label: "Trees", Group: 2}, []string{first}).Err)
	g := ws.Store().State().Graph()
	require.Len(t, g.Links, 1)
	for _, n := range g.Nodes {
		assert.False(t, isTemp(n.ID))
		assert.Equal(t, 12, n.Val)
	}

	res := ws.DeleteNode(ctx, first)
	require.NoError(t, res.Err)
	assert.Empty(t, ws.Store().State().Links)

	require.NoError(t, res.Undo(ctx).Err)
	remote, err := c.Graph(ctx)
	require.NoError(t, err)
	assert.Len(t, remote.Nodes, 2)
	assert.Len(t, remote.Links, 1)

	started := time.Now().Add(-25 * time.Minute).UTC()
	ended := started.Add(25 * time.Minute)
	res = ws.RecordFocusSession(ctx, models.FocusSession{StartedAt: started, EndedAt: &ended, DurationMinutes: 25, Completed: true})
	require.NoError(t, res.Err)
	sessions := ws.Store().State().FocusSessions
	require.Len(t, sessions, 1)
	assert.False(t, isTemp(sessions[0].ID))

	res = ws.RecordFocusSession(ctx, models.FocusSession{StartedAt: started, DurationMinutes: 0})
	require.Error(t, res.Err)
	assert.Equal(t, state.RemoteCompensated, res.Remote)
	assert.Len(t, ws.Store().State().FocusSessions, 1)
}

func TestWorkspaceSessionEnded(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, session := signedIn(t, ts, "ivy@example.com")
	ws := NewWorkspace(c)
	require.NoError(t, ws.Load(ctx))
	require.NoError(t, ws.SaveTask(ctx, essay()).Err)

	ended := make(chan struct{})
	ws.OnSessionEnded(func() { close(ended) })

	watchErr := make(chan error, 1)
	go func() { watchErr <- ws.Watch(ctx, nil) }()

	require.Eventually(t, func() bool {
		return ts.hub.Subscribers(session.User.ID) == 1
	}, 5*time.Second, 10*time.Millisecond)

	other := NewClient(ts.url, WithToken(session.AccessToken))
	require.NoError(t, other.SignOut(ctx))

	select {
	case <-ended:
	case <-ctx.Done():
		t.Fatal("session end was not observed")
	}
	require.NoError(t, <-watchErr)

	assert.False(t, ws.Store().Active())
	assert.Empty(t, ws.Store().State().Tasks)

	res := ws.SaveTask(ctx, essay())
	assert.ErrorIs(t, res.Err, state.ErrNoSession)
}

func TestWorkspaceUnauthorizedResets(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	c, _ := signedIn(t, ts, "ola@example.com")
	ws := NewWorkspace(c)
	require.NoError(t, ws.Load(ctx))

	calls := 0
	ws.OnSessionEnded(func() { calls++ })

	c.SetToken("garbage")
	res := ws.SaveTask(ctx, essay())
	assert.True(t, IsUnauthorized(res.Err))
	assert.Equal(t, 1, calls)
	assert.False(t, ws.Store().Active())
}
