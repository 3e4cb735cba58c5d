package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Behrad-Mahdavi/NexusOs/internal/dashboard"
	"github.com/Behrad-Mahdavi/NexusOs/internal/events"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// focusSince is the start of the focus fetch window
func (s *Service) focusSince() time.Time {
	return dashboard.AddDays(dashboard.StartOfDay(s.localNow()), -s.focusDays)
}

// ListFocusSessions returns the sessions inside the fetch window, newest first
func (s *Service) ListFocusSessions(ctx context.Context, userID string) ([]models.FocusSession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.ListFocusSessions(ctx, userID, s.focusSince())
}

// RecordFocusSession appends a session. Sessions are never edited, so any
// client id is replaced.
func (s *Service) RecordFocusSession(ctx context.Context, userID string, in models.FocusSession) (*models.FocusSession, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	v := &ValidationError{}
	if in.StartedAt.IsZero() {
		v.Add("started_at", "is required")
	}
	if in.DurationMinutes <= 0 {
		v.Add("duration_minutes", fmt.Sprintf("must be positive; got %d", in.DurationMinutes))
	}
	if in.EndedAt != nil && in.EndedAt.Before(in.StartedAt) {
		v.Add("ended_at", "must not be before started_at")
	}
	if err := v.errOrNil(); err != nil {
		return nil, err
	}

	session := in
	session.ID = uuid.NewString()
	session.UserID = userID
	session.StartedAt = session.StartedAt.UTC()
	if session.EndedAt != nil {
		ended := session.EndedAt.UTC()
		session.EndedAt = &ended
	}

	if err := s.repo.CreateFocusSession(ctx, &session); err != nil {
		return nil, storeError(err)
	}

	s.publish(userID, events.FocusSessionSaved, "focus_session", session.ID, session)
	return &session, nil
}

// FocusStats summarises today, the last week and the streak
func (s *Service) FocusStats(ctx context.Context, userID string) (dashboard.FocusStats, error) {
	sessions, err := s.ListFocusSessions(ctx, userID)
	if err != nil {
		return dashboard.FocusStats{}, err
	}
	return dashboard.Focus(sessions, s.localNow()), nil
}
