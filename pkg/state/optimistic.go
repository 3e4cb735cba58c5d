package state

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSession is returned when a mutation is applied without a signed-in user
var ErrNoSession = errors.New("no active session")

// RemoteStatus tracks phase 2 of a mutation
type RemoteStatus string

const (
	RemotePending     RemoteStatus = "pending"
	RemoteConfirmed   RemoteStatus = "confirmed"
	RemoteFailed      RemoteStatus = "failed"      // local change left in place
	RemoteCompensated RemoteStatus = "compensated" // local change reverted
)

// Mutation is a two-phase change. Local runs first and cannot fail. Remote
// then persists it and may return a reconcile step, e.g. to swap a temporary
// id for the server's. When Remote fails, Compensate reverts the local
// change; a nil Compensate leaves it in place.
type Mutation struct {
	Name       string
	Local      func(State) State
	Remote     func(ctx context.Context) (func(State) State, error)
	Compensate func(State) State
	// Undo, when set, is offered to the caller as the inverse mutation
	Undo *Mutation
}

// Result reports both phases of an applied mutation
type Result struct {
	Local  State
	Remote RemoteStatus
	Err    error
	// Undo re-applies the inverse mutation, nil when none is available
	Undo func(ctx context.Context) Result
}

// Confirmed reports whether the change reached the server
func (r Result) Confirmed() bool {
	return r.Remote == RemoteConfirmed
}

// Store holds the current state behind a mutex
type Store struct {
	mu       sync.RWMutex
	state    State
	active   bool
	onChange func(State)
}

// NewStore creates a store without a session
func NewStore() *Store {
	return &Store{state: Empty(), onChange: func(State) {}}
}

// OnChange registers a callback run after every state change
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Active reports whether a session is loaded
func (s *Store) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Load replaces the whole state, typically after fetching every
// collection, and marks the session active
func (s *Store) Load(st State) {
	s.set(func(State) State { return st }, true)
}

// Reset clears every collection and deactivates the store. Call it when
// the session is lost.
func (s *Store) Reset() {
	s.set(func(State) State { return Empty() }, false)
}

func (s *Store) set(fn func(State) State, active bool) State {
	s.mu.Lock()
	s.state = fn(s.state)
	s.active = active
	st, cb := s.state, s.onChange
	s.mu.Unlock()

	cb(st)
	return st
}

func (s *Store) update(fn func(State) State) (State, bool) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return State{}, false
	}
	s.state = fn(s.state)
	st, cb := s.state, s.onChange
	s.mu.Unlock()

	cb(st)
	return st, true
}

// Apply runs m: the local change immediately, then the remote call. The
// returned Result says which phase the change reached.
func (s *Store) Apply(ctx context.Context, m Mutation) Result {
	local, ok := s.update(m.Local)
	if !ok {
		return Result{Remote: RemoteFailed, Err: ErrNoSession}
	}

	res := Result{Local: local, Remote: RemotePending}
	if m.Undo != nil {
		undo := *m.Undo
		res.Undo = func(ctx context.Context) Result {
			return s.Apply(ctx, undo)
		}
	}

	if m.Remote == nil {
		res.Remote = RemoteConfirmed
		return res
	}

	reconcile, err := m.Remote(ctx)
	if err != nil {
		res.Err = err
		res.Remote = RemoteFailed
		if m.Compensate != nil {
			if _, ok := s.update(m.Compensate); ok {
				res.Remote = RemoteCompensated
			}
		}
		return res
	}

	if reconcile != nil {
		s.update(reconcile)
	}
	res.Remote = RemoteConfirmed
	return res
}
