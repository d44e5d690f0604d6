// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrSemesterNotFound indicates a callback token did not resolve to a
	// configured semester.
	ErrSemesterNotFound = errors.New("semester not found")

	// ErrCourseNotFound indicates a course identifier did not resolve against
	// the session's current course list.
	ErrCourseNotFound = errors.New("course not found")

	// ErrEmptyCatalog indicates a semester listing page parsed to zero courses.
	ErrEmptyCatalog = errors.New("no courses found")

	// ErrRateLimitExceeded indicates rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// ScrapeError represents web scraping failures with context.
type ScrapeError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ScrapeError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("scrape error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("scrape error (url=%s): %v", e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new scrape error.
func NewScrapeError(url string, statusCode int, err error) *ScrapeError {
	return &ScrapeError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCourseNotFound) || errors.Is(err, ErrSemesterNotFound)
}
