// Package timer keeps a focus countdown that survives restarts and reloads.
//
// Only the absolute end instant of a running countdown is stored, never a
// ticking counter, so the remaining time can always be recomputed from the
// wall clock.
package timer

import (
	"errors"
	"math"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

var (
	// ErrNotRunning is returned when an operation needs a running countdown.
	ErrNotRunning = errors.New("timer is not running")
	// ErrNotPaused is returned when resuming a countdown that is not paused.
	ErrNotPaused = errors.New("timer is not paused")
	// ErrAlreadyActive is returned when starting while a countdown is running or paused.
	ErrAlreadyActive = errors.New("timer is already active")
	// ErrIdle is returned when completing a countdown that was never started.
	ErrIdle = errors.New("timer is idle")
)

// DefaultDuration is the classic pomodoro length
const DefaultDuration = 25 * time.Minute

// Status is the countdown phase
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// State is the persisted countdown of one user
type State struct {
	UserID    string        `json:"user_id"`
	Status    Status        `json:"status"`
	Duration  time.Duration `json:"duration"`
	EndsAt    *time.Time    `json:"ends_at,omitempty"`
	Remaining time.Duration `json:"remaining,omitempty"` // paused only
	StartedAt *time.Time    `json:"started_at,omitempty"`
	TaskID    string        `json:"task_id,omitempty"`
}

// Idle returns a fresh idle state
func Idle(userID string, duration time.Duration) State {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return State{UserID: userID, Status: StatusIdle, Duration: duration}
}

// Start begins a countdown of duration (the state's duration when zero)
func (s State) Start(duration time.Duration, taskID string, now time.Time) (State, error) {
	if s.Status == StatusRunning || s.Status == StatusPaused {
		return s, ErrAlreadyActive
	}
	if duration <= 0 {
		duration = s.Duration
	}
	if duration <= 0 {
		duration = DefaultDuration
	}

	endsAt := now.Add(duration)
	startedAt := now
	return State{
		UserID:    s.UserID,
		Status:    StatusRunning,
		Duration:  duration,
		EndsAt:    &endsAt,
		StartedAt: &startedAt,
		TaskID:    taskID,
	}, nil
}

// Pause freezes the remaining time
func (s State) Pause(now time.Time) (State, error) {
	if s.Status != StatusRunning {
		return s, ErrNotRunning
	}
	s.Remaining = s.RemainingAt(now)
	s.EndsAt = nil
	s.Status = StatusPaused
	return s, nil
}

// Resume restarts a paused countdown with a new absolute end
func (s State) Resume(now time.Time) (State, error) {
	if s.Status != StatusPaused {
		return s, ErrNotPaused
	}
	endsAt := now.Add(s.Remaining)
	s.EndsAt = &endsAt
	s.Remaining = 0
	s.Status = StatusRunning
	return s, nil
}

// Reset abandons the countdown without recording a session
func (s State) Reset() State {
	return Idle(s.UserID, s.Duration)
}

// Complete finishes the countdown and returns the session to record.
// The session carries the planned minutes.
func (s State) Complete(now time.Time) (State, models.FocusSession, error) {
	if s.Status == StatusIdle || s.StartedAt == nil {
		return s, models.FocusSession{}, ErrIdle
	}

	endedAt := now
	if s.Status == StatusRunning && s.EndsAt != nil && s.EndsAt.Before(now) {
		// finalized late: the countdown really ended at its deadline
		endedAt = *s.EndsAt
	}

	session := models.FocusSession{
		UserID:          s.UserID,
		StartedAt:       *s.StartedAt,
		EndedAt:         &endedAt,
		DurationMinutes: int(math.Round(s.Duration.Minutes())),
		Completed:       true,
		TaskID:          s.TaskID,
	}
	return s.Reset(), session, nil
}

// RemainingAt returns the time left at now, never negative
func (s State) RemainingAt(now time.Time) time.Duration {
	switch s.Status {
	case StatusRunning:
		if s.EndsAt == nil {
			return 0
		}
		return max(0, s.EndsAt.Sub(now))
	case StatusPaused:
		return s.Remaining
	default:
		return s.Duration
	}
}

// Expired reports whether a running countdown has reached zero
func (s State) Expired(now time.Time) bool {
	return s.Status == StatusRunning && s.EndsAt != nil && !s.EndsAt.After(now)
}

// View is the client-facing rendering of a state at a given instant
type View struct {
	Status           Status     `json:"status"`
	DurationSeconds  int        `json:"duration_seconds"`
	RemainingSeconds int        `json:"remaining_seconds"`
	EndsAt           *time.Time `json:"ends_at,omitempty"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	TaskID           string     `json:"task_id,omitempty"`
}

// ViewAt renders the state at now; remaining seconds round up so a running
// countdown never shows 0 before it expires
func (s State) ViewAt(now time.Time) View {
	remaining := s.RemainingAt(now)
	return View{
		Status:           s.Status,
		DurationSeconds:  int(s.Duration / time.Second),
		RemainingSeconds: int(math.Ceil(remaining.Seconds())),
		EndsAt:           s.EndsAt,
		StartedAt:        s.StartedAt,
		TaskID:           s.TaskID,
	}
}
