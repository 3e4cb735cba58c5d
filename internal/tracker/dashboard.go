package tracker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Behrad-Mahdavi/NexusOs/internal/dashboard"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

// snapshotTimeout bounds a shared fetch, which outlives any single caller
const snapshotTimeout = 30 * time.Second

// collections fetches every record set of a user concurrently. Concurrent
// callers for the same user share one fetch; a caller that goes away stops
// waiting without failing the others.
func (s *Service) collections(ctx context.Context, userID string) (dashboard.Collections, error) {
	if err := requireUser(userID); err != nil {
		return dashboard.Collections{}, err
	}

	ch := s.snapshots.DoChan(userID, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
		defer cancel()
		return s.fetchCollections(fetchCtx, userID)
	})

	select {
	case <-ctx.Done():
		return dashboard.Collections{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return dashboard.Collections{}, res.Err
		}
		return res.Val.(dashboard.Collections), nil
	}
}

func (s *Service) fetchCollections(ctx context.Context, userID string) (dashboard.Collections, error) {
	var c dashboard.Collections
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tasks, err := s.repo.ListTasks(gctx, userID, models.TaskFilters{})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		c.Tasks = tasks
		return nil
	})
	g.Go(func() error {
		courses, err := s.repo.ListCourses(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list courses: %w", err)
		}
		c.Courses = courses
		return nil
	})
	g.Go(func() error {
		assignments, err := s.repo.ListAssignments(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}
		c.Assignments = assignments
		return nil
	})
	g.Go(func() error {
		sessions, err := s.repo.ListFocusSessions(gctx, userID, s.focusSince())
		if err != nil {
			return fmt.Errorf("failed to list focus sessions: %w", err)
		}
		c.FocusSessions = sessions
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.Collections{}, err
	}
	return c, nil
}

// Overview builds the home screen
func (s *Service) Overview(ctx context.Context, userID string) (dashboard.Overview, error) {
	c, err := s.collections(ctx, userID)
	if err != nil {
		return dashboard.Overview{}, err
	}
	return dashboard.BuildOverview(c, s.localNow(), s.settings), nil
}

// Finance builds the finance view
func (s *Service) Finance(ctx context.Context, userID string) (dashboard.FinanceSummary, error) {
	if err := requireUser(userID); err != nil {
		return dashboard.FinanceSummary{}, err
	}

	tasks, err := s.repo.ListTasks(ctx, userID, models.TaskFilters{Context: models.ContextFreelance, Status: models.StatusDone})
	if err != nil {
		return dashboard.FinanceSummary{}, err
	}
	return dashboard.Finance(tasks, s.localNow()), nil
}

// University builds the university view
func (s *Service) University(ctx context.Context, userID string) (dashboard.UniversitySummary, error) {
	if err := requireUser(userID); err != nil {
		return dashboard.UniversitySummary{}, err
	}

	var (
		courses     []models.Course
		assignments []models.Assignment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = s.repo.ListCourses(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = s.repo.ListAssignments(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.UniversitySummary{}, err
	}

	return dashboard.University(courses, assignments, s.localNow(), s.settings.UrgentWithinDays), nil
}

// ReadingProgress derives the progress of a reading task
func (s *Service) ReadingProgress(ctx context.Context, userID, id string) (dashboard.ReadingProgress, error) {
	t, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return dashboard.ReadingProgress{}, err
	}
	current, total := t.Pages()
	return dashboard.Reading(current, total, s.settings.MinutesPerPage), nil
}
