// Package state is the client-side application state container.
//
// A State is a snapshot of one user's collections. Update functions return
// a new State and never write through the receiver's slices, so a snapshot
// handed to a view stays valid while later updates are applied.
package state

import (
	"slices"

	"github.com/Behrad-Mahdavi/NexusOs/internal/dashboard"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// State holds the collections of the signed-in user
type State struct {
	Tasks         []models.Task         `json:"tasks"`
	Courses       []models.Course       `json:"courses"`
	Assignments   []models.Assignment   `json:"assignments"`
	Nodes         []models.Node         `json:"nodes"`
	Links         []models.Link         `json:"links"`
	FocusSessions []models.FocusSession `json:"focus_sessions"`
}

// Empty returns a state with every collection empty but non-nil
func Empty() State {
	return State{
		Tasks:         []models.Task{},
		Courses:       []models.Course{},
		Assignments:   []models.Assignment{},
		Nodes:         []models.Node{},
		Links:         []models.Link{},
		FocusSessions: []models.FocusSession{},
	}
}

// Collections exposes the snapshot to the dashboard functions
func (s State) Collections() dashboard.Collections {
	return dashboard.Collections{
		Tasks:         s.Tasks,
		Courses:       s.Courses,
		Assignments:   s.Assignments,
		FocusSessions: s.FocusSessions,
	}
}

// Graph returns nodes with weights recomputed from links
func (s State) Graph() models.Graph {
	return models.Graph{
		Nodes: dashboard.WithWeights(s.Nodes, s.Links),
		Links: slices.Clone(s.Links),
	}
}

// Task looks up a task by id
func (s State) Task(id string) (models.Task, bool) {
	i := slices.IndexFunc(s.Tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return models.Task{}, false
	}
	return s.Tasks[i], true
}

// Node looks up a node by id
func (s State) Node(id string) (models.Node, bool) {
	i := slices.IndexFunc(s.Nodes, func(n models.Node) bool { return n.ID == id })
	if i < 0 {
		return models.Node{}, false
	}
	return s.Nodes[i], true
}

// upsert replaces the element matching id or prepends v
func upsert[T any](items []T, v T, same func(T) bool) []T {
	out := slices.Clone(items)
	if i := slices.IndexFunc(out, same); i >= 0 {
		out[i] = v
		return out
	}
	return append([]T{v}, out...)
}

func without[T any](items []T, drop func(T) bool) []T {
	return slices.DeleteFunc(slices.Clone(items), drop)
}

// WithTask inserts t, or replaces the task with the same id
func (s State) WithTask(t models.Task) State {
	s.Tasks = upsert(s.Tasks, t, func(x models.Task) bool { return x.ID == t.ID })
	return s
}

// WithoutTask removes a task
func (s State) WithoutTask(id string) State {
	s.Tasks = without(s.Tasks, func(x models.Task) bool { return x.ID == id })
	return s
}

// ReplaceTaskID reconciles a temporary id with the one the server assigned.
// Focus sessions that referenced the old id follow it.
func (s State) ReplaceTaskID(oldID, newID string) State {
	s.Tasks = slices.Clone(s.Tasks)
	for i := range s.Tasks {
		if s.Tasks[i].ID == oldID {
			s.Tasks[i].ID = newID
		}
	}
	s.FocusSessions = slices.Clone(s.FocusSessions)
	for i := range s.FocusSessions {
		if s.FocusSessions[i].TaskID == oldID {
			s.FocusSessions[i].TaskID = newID
		}
	}
	return s
}

// WithCourse inserts c, or replaces the course with the same id
func (s State) WithCourse(c models.Course) State {
	s.Courses = upsert(s.Courses, c, func(x models.Course) bool { return x.ID == c.ID })
	return s
}

// WithoutCourse removes a course and its assignments
func (s State) WithoutCourse(id string) State {
	s.Courses = without(s.Courses, func(x models.Course) bool { return x.ID == id })
	s.Assignments = without(s.Assignments, func(a models.Assignment) bool { return a.CourseID == id })
	return s
}

// WithAssignment inserts a, or replaces the assignment with the same id
func (s State) WithAssignment(a models.Assignment) State {
	s.Assignments = upsert(s.Assignments, a, func(x models.Assignment) bool { return x.ID == a.ID })
	return s
}

// WithoutAssignment removes an assignment
func (s State) WithoutAssignment(id string) State {
	s.Assignments = without(s.Assignments, func(x models.Assignment) bool { return x.ID == id })
	return s
}

// WithNode inserts or replaces n and links it to each connected id that
// exists. Self links and links already present in either direction are skipped.
func (s State) WithNode(n models.Node, connectedIDs []string) State {
	s.Nodes = upsert(s.Nodes, n, func(x models.Node) bool { return x.ID == n.ID })

	links := slices.Clone(s.Links)
	for _, target := range connectedIDs {
		if target == n.ID {
			continue
		}
		if _, ok := s.Node(target); !ok {
			continue
		}
		l := models.Link{Source: n.ID, Target: target}
		if slices.Contains(links, l) || slices.Contains(links, models.Link{Source: target, Target: n.ID}) {
			continue
		}
		links = append(links, l)
	}
	s.Links = links
	return s
}

// WithoutNode removes a node and every link touching it
func (s State) WithoutNode(id string) State {
	g := dashboard.WithoutNode(models.Graph{Nodes: s.Nodes, Links: s.Links}, id)
	s.Nodes, s.Links = g.Nodes, g.Links
	return s
}

// ReplaceNodeID reconciles a temporary node id, links included
func (s State) ReplaceNodeID(oldID, newID string) State {
	s.Nodes = slices.Clone(s.Nodes)
	for i := range s.Nodes {
		if s.Nodes[i].ID == oldID {
			s.Nodes[i].ID = newID
		}
	}
	s.Links = slices.Clone(s.Links)
	for i := range s.Links {
		if s.Links[i].Source == oldID {
			s.Links[i].Source = newID
		}
		if s.Links[i].Target == oldID {
			s.Links[i].Target = newID
		}
	}
	return s
}

// LinksOf returns the ids connected to a node
func (s State) LinksOf(id string) []string {
	var ids []string
	for _, l := range s.Links {
		switch id {
		case l.Source:
			ids = append(ids, l.Target)
		case l.Target:
			ids = append(ids, l.Source)
		}
	}
	return ids
}

// WithFocusSession prepends a session, newest first
func (s State) WithFocusSession(fs models.FocusSession) State {
	s.FocusSessions = upsert(s.FocusSessions, fs, func(x models.FocusSession) bool { return x.ID == fs.ID })
	return s
}

// WithoutFocusSession removes a session
func (s State) WithoutFocusSession(id string) State {
	s.FocusSessions = without(s.FocusSessions, func(x models.FocusSession) bool { return x.ID == id })
	return s
}
