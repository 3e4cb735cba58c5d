// Package events fans record changes out to every connected client of a user.
package events

import (
	"log/slog"
	"sync"
	"time"
)

// Event types
const (
	TaskSaved          = "task.saved"
	TaskDeleted        = "task.deleted"
	CourseSaved        = "course.saved"
	CourseDeleted      = "course.deleted"
	AssignmentSaved    = "assignment.saved"
	AssignmentDeleted  = "assignment.deleted"
	NodeSaved          = "node.saved"
	NodeDeleted        = "node.deleted"
	FocusSessionSaved  = "focus_session.saved"
	ReadingProgressed  = "reading.progressed"
	TimerChanged       = "timer.changed"
	SessionEnded       = "session_ended"
	defaultSubBuffer   = 32
)

// Event is a change notification
type Event struct {
	Type   string    `json:"type"`
	Entity string    `json:"entity,omitempty"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"at"`
	Data   any       `json:"data,omitempty"`
}

// Publisher delivers events to a user's subscribers
type Publisher interface {
	Publish(userID string, e Event)
}

// Subscription receives the events of one user until closed
type Subscription struct {
	C      <-chan Event
	ch     chan Event
	userID string
	hub    *Hub
	once   sync.Once
}

// Close unsubscribes and closes C
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub is an in-process per-user fan-out
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	now    func() time.Time
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: defaultSubBuffer,
		now:    time.Now,
	}
}

// Subscribe registers a new subscriber for userID
func (h *Hub) Subscribe(userID string) *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{C: ch, ch: ch, userID: userID, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}

	slog.Debug("event subscriber added", "user_id", userID, "subscribers", len(h.subs[userID]))
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[sub.userID]; ok {
		if _, ok := set[sub]; ok {
			delete(set, sub)
			close(sub.ch)
		}
		if len(set) == 0 {
			delete(h.subs, sub.userID)
		}
	}
}

// Publish delivers e to every subscriber of userID. Slow subscribers whose
// buffer is full miss the event rather than blocking the publisher.
func (h *Hub) Publish(userID string, e Event) {
	if e.At.IsZero() {
		e.At = h.now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[userID] {
		select {
		case sub.ch <- e:
		default:
			slog.Warn("dropping event for slow subscriber", "user_id", userID, "type", e.Type)
		}
	}
}

// Subscribers returns the number of live subscriptions for userID
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// Close closes every subscription
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, set := range h.subs {
		for sub := range set {
			close(sub.ch)
		}
		delete(h.subs, userID)
	}
}
