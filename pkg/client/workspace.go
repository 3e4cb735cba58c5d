package client

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Behrad-Mahdavi/NexusOs/internal/events"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
	"github.com/Behrad-Mahdavi/NexusOs/pkg/state"
)

const tempPrefix = "temp-"

var tempSeq atomic.Int64

// tempID returns a client-side id the server will replace on first save
func tempID() string {
	return tempPrefix + strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + strconv.FormatInt(tempSeq.Add(1), 36)
}

// Workspace keeps a local copy of the user's records in step with the
// server. Changes apply locally first and are then persisted.
type Workspace struct {
	client         *Client
	store          *state.Store
	now            func() time.Time
	onSessionEnded func()
}

// NewWorkspace creates a workspace without a loaded session
func NewWorkspace(c *Client) *Workspace {
	return &Workspace{
		client:         c,
		store:          state.NewStore(),
		now:            time.Now,
		onSessionEnded: func() {},
	}
}

// Store exposes the local state
func (w *Workspace) Store() *state.Store {
	return w.store
}

// OnSessionEnded registers a callback run after the session is lost
func (w *Workspace) OnSessionEnded(fn func()) {
	w.onSessionEnded = fn
}

// Load fetches every collection and activates the local store
func (w *Workspace) Load(ctx context.Context) error {
	var (
		st       = state.Empty()
		tasks    []models.Task
		courses  []models.Course
		assigns  []models.Assignment
		graph    *models.Graph
		sessions []models.FocusSession
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = w.client.ListTasks(gctx, models.TaskFilters{})
		return err
	})
	g.Go(func() (err error) {
		courses, err = w.client.ListCourses(gctx)
		return err
	})
	g.Go(func() (err error) {
		assigns, err = w.client.ListAssignments(gctx)
		return err
	})
	g.Go(func() (err error) {
		graph, err = w.client.Graph(gctx)
		return err
	})
	g.Go(func() (err error) {
		sessions, err = w.client.ListFocusSessions(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		w.checkSession(err)
		return fmt.Errorf("failed to load workspace: %w", err)
	}

	st.Tasks = orEmpty(tasks)
	st.Courses = orEmpty(courses)
	st.Assignments = orEmpty(assigns)
	st.Nodes = orEmpty(graph.Nodes)
	st.Links = orEmpty(graph.Links)
	st.FocusSessions = orEmpty(sessions)
	w.store.Load(st)
	return nil
}

// SessionEnded clears the local state and notifies the callback
func (w *Workspace) SessionEnded() {
	w.store.Reset()
	w.onSessionEnded()
}

// Watch follows the server's event stream and ends the session when the
// server reports a sign-out. Other events are passed to fn when set.
func (w *Workspace) Watch(ctx context.Context, fn func(events.Event)) error {
	err := w.client.Events(ctx, func(e events.Event) bool {
		if e.Type == events.SessionEnded {
			w.SessionEnded()
			return false
		}
		if fn != nil {
			fn(e)
		}
		return true
	})
	w.checkSession(err)
	return err
}

// SaveTask creates or updates a task. A new task shows up at once under a
// temporary id that is swapped for the server id when the save lands.
func (w *Workspace) SaveTask(ctx context.Context, t models.Task) state.Result {
	if t.ID == "" {
		t.ID = tempID()
		t.CreatedAt = w.now().UTC()
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	localID := t.ID

	return w.apply(ctx, state.Mutation{
		Name:  "save task",
		Local: func(s state.State) state.State { return s.WithTask(t) },
		Remote: func(ctx context.Context) (func(state.State) state.State, error) {
			payload := t
			if isTemp(payload.ID) {
				payload.ID = ""
			}
			saved, err := w.client.SaveTask(ctx, payload)
			if err != nil {
				return nil, err
			}
			return func(s state.State) state.State {
				return s.ReplaceTaskID(localID, saved.ID).WithTask(*saved)
			}, nil
		},
	})
}

// DeleteTask removes a task. The result's Undo puts it back and saves it again.
func (w *Workspace) DeleteTask(ctx context.Context, id string) state.Result {
	prev, ok := w.store.State().Task(id)

	m := state.Mutation{
		Name:  "delete task",
		Local: func(s state.State) state.State { return s.WithoutTask(id) },
		Remote: func(ctx context.Context) (func(state.State) state.State, error) {
			if isTemp(id) {
				return nil, nil
			}
			return nil, w.client.DeleteTask(ctx, id)
		},
	}
	if ok {
		m.Undo = &state.Mutation{
			Name:  "restore task",
			Local: func(s state.State) state.State { return s.WithTask(prev) },
			Remote: func(ctx context.Context) (func(state.State) state.State, error) {
				saved, err := w.client.SaveTask(ctx, prev)
				if err != nil {
					return nil, err
				}
				return func(s state.State) state.State {
					return s.ReplaceTaskID(prev.ID, saved.ID).WithTask(*saved)
				}, nil
			},
		}
	}
	return w.apply(ctx, m)
}

// SetTaskStatus moves a task between columns and moves it back when the
// server refuses.
func (w *Workspace) SetTaskStatus(ctx context.Context, id string, status models.TaskStatus) state.Result {
	prev, ok := w.store.State().Task(id)
	if !ok {
		return state.Result{Remote: state.RemoteFailed, Err: fmt.Errorf("task not found: %s", id)}
	}
	next := prev.WithStatus(status, w.now())

	return w.apply(ctx, state.Mutation{
		Name:  "set task status",
		Local: func(s state.State) state.State { return s.WithTask(next) },
		Remote: func(ctx context.Context) (func(state.State) state.State, error) {
			saved, err := w.client.SetTaskStatus(ctx, id, status)
			if err != nil {
				return nil, err
			}
			return func(s state.State) state.State { return s.WithTask(*saved) }, nil
		},
		Compensate: func(s state.State) state.State { return s.WithTask(prev) },
	})
}

// SaveNode creates or updates a graph node and links it to connectedIDs
func (w *Workspace) SaveNode(ctx context.Context, n models.Node, connectedIDs []string) state.Result {
	if n.ID == "" {
		n.ID = tempID()
	}
	localID := n.ID

	return w.apply(ctx, state.Mutation{
		Name:  "save node",
		Local: func(s state.State) state.State { return s.WithNode(n, connectedIDs) },
		Remote: func(ctx context.Context) (func(state.State) state.State, error) {
			saved, err := w.client.SaveNode(ctx, models.SaveNodeRequest{Node: n, ConnectedIDs: connectedIDs})
			if err != nil {
				return nil, err
			}
			return func(s state.State) state.State {
				return s.ReplaceNodeID(localID, saved.ID).WithNode(*saved, nil)
			}, nil
		},
		Compensate: func(s state.State) state.State {
			if isTemp(localID) {
				return s.WithoutNode(localID)
			}
			return s
		},
	})
}

// DeleteNode removes a node with its links. The result's Undo restores
// both.
func (w *Workspace) DeleteNode(ctx context.Context, id string) state.Result {
	current := w.store.State()
	prev, ok := current.Node(id)
	linked := current.LinksOf(id)

	m := state.Mutation{
		Name:  "delete node",
		Local: func(s state.State) state.State { return s.WithoutNode(id) },
		Remote: func(ctx context.Context) (func(state.State) state.State, error) {
			if isTemp(id) {
				return nil, nil
			}
			return nil, w.client.DeleteNode(ctx, id)
		},
	}
	if ok {
		m.Undo = &state.Mutation{
			Name:  "restore node",
			Local: func(s state.State) state.State { return s.WithNode(prev, linked) },
			Remote: func(ctx context.Context) (func(state.State) state.State, error) {
				saved, err := w.client.SaveNode(ctx, models.SaveNodeRequest{Node: prev, ConnectedIDs: linked})
				if err != nil {
					return nil, err
				}
				return func(s state.State) state.State {
					return s.ReplaceNodeID(prev.ID, saved.ID).WithNode(*saved, nil)
				}, nil
			},
		}
	}
	return w.apply(ctx, m)
}

// RecordFocusSession appends a finished focus session
func (w *Workspace) RecordFocusSession(ctx context.Context, fs models.FocusSession) state.Result {
	fs.ID = tempID()
	localID := fs.ID

	return w.apply(ctx, state.Mutation{
		Name:  "record focus session",
		Local: func(s state.State) state.State { return s.WithFocusSession(fs) },
		Remote: func(ctx context.Context) (func(state.State) state.State, error) {
			payload := fs
			payload.ID = ""
			saved, err := w.client.RecordFocusSession(ctx, payload)
			if err != nil {
				return nil, err
			}
			return func(s state.State) state.State {
				return s.WithoutFocusSession(localID).WithFocusSession(*saved)
			}, nil
		},
		Compensate: func(s state.State) state.State { return s.WithoutFocusSession(localID) },
	})
}

func (w *Workspace) apply(ctx context.Context, m state.Mutation) state.Result {
	res := w.store.Apply(ctx, m)
	w.checkSession(res.Err)
	return res
}

// checkSession ends the session when the server no longer accepts the token
func (w *Workspace) checkSession(err error) {
	if err != nil && IsUnauthorized(err) {
		w.SessionEnded()
	}
}

func isTemp(id string) bool {
	return len(id) >= len(tempPrefix) && id[:len(tempPrefix)] == tempPrefix
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
