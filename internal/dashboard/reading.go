package dashboard

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrPageBackwards is returned when new progress is behind the saved page
	ErrPageBackwards = errors.New("new page is before the current page")
	// ErrPageBeyondEnd is returned when new progress exceeds the book length
	ErrPageBeyondEnd = errors.New("new page is past the last page")
)

// ReadingProgress is the derived state of a book
type ReadingProgress struct {
	CurrentPage      int `json:"current_page"`
	TotalPages       int `json:"total_pages"`
	Percent          int `json:"percent"`
	RemainingPages   int `json:"remaining_pages"`
	MinutesRemaining int `json:"minutes_remaining"`
}

// ProgressPercent returns the rounded completion percentage, capped at 100.
// A book without a page count is 0% read.
func ProgressPercent(current, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(math.Min(100, float64(current)/float64(total)*100)))
}

// RemainingPages returns the pages left, never negative
func RemainingPages(current, total int) int {
	return max(0, total-current)
}

// Reading derives percent, pages left and time left
func Reading(current, total, minutesPerPage int) ReadingProgress {
	if minutesPerPage <= 0 {
		minutesPerPage = DefaultMinutesPerPage
	}
	remaining := RemainingPages(current, total)
	return ReadingProgress{
		CurrentPage:      current,
		TotalPages:       total,
		Percent:          ProgressPercent(current, total),
		RemainingPages:   remaining,
		MinutesRemaining: remaining * minutesPerPage,
	}
}

// PagesDelta validates a progress update and returns the pages read.
// A zero delta is valid and means nothing changed.
func PagesDelta(oldPage, newPage, total int) (int, error) {
	if newPage < oldPage {
		return 0, fmt.Errorf("%w: %d < %d", ErrPageBackwards, newPage, oldPage)
	}
	if newPage > total {
		return 0, fmt.Errorf("%w: %d > %d", ErrPageBeyondEnd, newPage, total)
	}
	return newPage - oldPage, nil
}
