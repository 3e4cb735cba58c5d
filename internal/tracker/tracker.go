// Package tracker is the application service behind the HTTP API. It
// validates input, owns identifier assignment and cascades, assembles
// dashboard snapshots and announces every change.
package tracker

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/Behrad-Mahdavi/NexusOs/internal/dashboard"
	"github.com/Behrad-Mahdavi/NexusOs/internal/events"
	"github.com/Behrad-Mahdavi/NexusOs/internal/storage"
)

// DefaultFocusWindowDays bounds how far back focus sessions are fetched
const DefaultFocusWindowDays = 30

// Options tunes the service
type Options struct {
	Settings        dashboard.Settings
	Location        *time.Location
	FocusWindowDays int
}

// Service implements the record operations for a signed-in user
type Service struct {
	repo      storage.Repository
	publisher events.Publisher
	settings  dashboard.Settings
	loc       *time.Location
	focusDays int
	now       func() time.Time
	snapshots singleflight.Group
}

// NewService creates a tracker service
func NewService(repo storage.Repository, publisher events.Publisher, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.FocusWindowDays <= 0 {
		opts.FocusWindowDays = DefaultFocusWindowDays
	}

	return &Service{
		repo:      repo,
		publisher: publisher,
		settings:  opts.Settings.WithDefaults(),
		loc:       opts.Location,
		focusDays: opts.FocusWindowDays,
		now:       time.Now,
	}
}

// WithClock replaces the service clock
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Settings returns the effective heuristics
func (s *Service) Settings() dashboard.Settings {
	return s.settings
}

// localNow is the current instant in the configured zone; every "today"
// is derived from it
func (s *Service) localNow() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) publish(userID, eventType, entity, id string, data any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(userID, events.Event{Type: eventType, Entity: entity, ID: id, Data: data})
}

func requireUser(userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// isPersistedID reports whether id was assigned by the server. Client-side
// temporary ids ("temp-…", timestamps) are not UUIDs.
func isPersistedID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
