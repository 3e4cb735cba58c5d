package models

import "time"

// FocusSession is a completed (or abandoned) countdown. Sessions are append-only.
type FocusSession struct {
	ID              string     `json:"id"`
	UserID          string     `json:"-"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Completed       bool       `json:"completed"`
	TaskID          string     `json:"task_id,omitempty"`
}

// ReadingSession records pages read in a single progress update
type ReadingSession struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	TaskID      string    `json:"task_id"`
	PagesRead   int       `json:"pages_read"`
	SessionDate time.Time `json:"session_date"`
}

// ReadingTotal aggregates pages read per task
type ReadingTotal struct {
	TaskID    string `json:"task_id"`
	PagesRead int    `json:"pages_read"`
}
