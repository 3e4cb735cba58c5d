package timer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// SessionRecorder appends completed focus sessions
type SessionRecorder interface {
	CreateFocusSession(ctx context.Context, s *models.FocusSession) error
}

// Service applies countdown transitions and records finished sessions
type Service struct {
	mu              sync.Mutex
	store           Store
	sessions        SessionRecorder
	defaultDuration time.Duration
	now             func() time.Time
	onChange        func(userID string, st State)
	onComplete      func(userID string, session models.FocusSession)
}

// NewService creates a timer service
func NewService(store Store, sessions SessionRecorder, defaultDuration time.Duration) *Service {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	return &Service{
		store:           store,
		sessions:        sessions,
		defaultDuration: defaultDuration,
		now:             time.Now,
		onChange:        func(string, State) {},
		onComplete:      func(string, models.FocusSession) {},
	}
}

// WithClock replaces the service clock
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// OnChange registers a hook called after every saved transition
func (s *Service) OnChange(fn func(userID string, st State)) {
	s.onChange = fn
}

// OnComplete registers a hook called after a session is recorded
func (s *Service) OnComplete(fn func(userID string, session models.FocusSession)) {
	s.onComplete = fn
}

// Now returns the service clock reading
func (s *Service) Now() time.Time {
	return s.now()
}

// Get returns the user's countdown, idle when none exists
func (s *Service) Get(ctx context.Context, userID string) (State, error) {
	st, err := s.store.Get(ctx, userID)
	if err != nil {
		return State{}, err
	}
	if st == nil {
		return Idle(userID, s.defaultDuration), nil
	}
	return *st, nil
}

// Start begins a countdown; a zero duration uses the configured default
func (s *Service) Start(ctx context.Context, userID string, duration time.Duration, taskID string) (State, error) {
	return s.transition(ctx, userID, func(st State, now time.Time) (State, error) {
		if duration <= 0 {
			duration = s.defaultDuration
		}
		return st.Start(duration, taskID, now)
	})
}

// Pause freezes the countdown
func (s *Service) Pause(ctx context.Context, userID string) (State, error) {
	return s.transition(ctx, userID, func(st State, now time.Time) (State, error) {
		return st.Pause(now)
	})
}

// Resume continues a paused countdown
func (s *Service) Resume(ctx context.Context, userID string) (State, error) {
	return s.transition(ctx, userID, func(st State, now time.Time) (State, error) {
		return st.Resume(now)
	})
}

// Reset abandons the countdown
func (s *Service) Reset(ctx context.Context, userID string) (State, error) {
	return s.transition(ctx, userID, func(st State, now time.Time) (State, error) {
		return st.Reset(), nil
	})
}

// Complete finishes the countdown and records its focus session
func (s *Service) Complete(ctx context.Context, userID string) (State, *models.FocusSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Get(ctx, userID)
	if err != nil {
		return State{}, nil, err
	}

	return s.completeLocked(ctx, st)
}

func (s *Service) completeLocked(ctx context.Context, st State) (State, *models.FocusSession, error) {
	next, session, err := st.Complete(s.now())
	if err != nil {
		return st, nil, err
	}

	session.ID = uuid.NewString()
	if err := s.sessions.CreateFocusSession(ctx, &session); err != nil {
		return st, nil, fmt.Errorf("failed to record focus session: %w", err)
	}

	if err := s.store.Save(ctx, next); err != nil {
		return st, nil, err
	}

	slog.Info("focus session completed",
		"user_id", st.UserID,
		"session_id", session.ID,
		"duration_minutes", session.DurationMinutes,
	)

	s.onComplete(st.UserID, session)
	s.onChange(st.UserID, next)
	return next, &session, nil
}

// FinalizeExpired completes every running countdown whose end has passed
// and returns how many were finalized
func (s *Service) FinalizeExpired(ctx context.Context) (int, error) {
	running, err := s.store.ListRunning(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list running timers: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	finalized := 0
	for _, candidate := range running {
		// re-read under the lock; the user may have paused meanwhile
		st, err := s.store.Get(ctx, candidate.UserID)
		if err != nil || st == nil || !st.Expired(s.now()) {
			continue
		}

		if _, _, err := s.completeLocked(ctx, *st); err != nil {
			slog.Error("failed to finalize timer", "user_id", st.UserID, "error", err)
			continue
		}
		finalized++
	}

	return finalized, nil
}

func (s *Service) transition(ctx context.Context, userID string, fn func(State, time.Time) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Get(ctx, userID)
	if err != nil {
		return State{}, err
	}

	next, err := fn(st, s.now())
	if err != nil {
		return st, err
	}

	if err := s.store.Save(ctx, next); err != nil {
		return st, err
	}

	slog.Debug("timer transition", "user_id", userID, "from", st.Status, "to", next.Status)
	s.onChange(userID, next)
	return next, nil
}
