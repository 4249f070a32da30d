package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	ErrNoLinks       = errors.New("no recipe links found")
	ErrEmptyResponse = errors.New("empty response body")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrEmptyDocument = errors.New("recipe document has no usable content")
	ErrNoCompletion  = errors.New("empty completion from generation service")
	ErrMissingAPIKey = errors.New("generation service API key is not set")
	ErrSinkClosed    = errors.New("dataset sink is closed")
)

// FetchError wraps errors that occur while fetching a page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration // populated from Retry-After header on HTTP 429
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ParseError wraps errors that occur while locating recipe landmarks in HTML.
type ParseError struct {
	URL      string
	Landmark string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Landmark != "" {
		return fmt.Sprintf("parse error for %s (landmark=%q): %v", e.URL, e.Landmark, e.Err)
	}
	return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// GenerationError wraps failures of the text-generation service: transport
// errors, non-success status codes, and completions with no usable content.
type GenerationError struct {
	Provider   string
	Model      string
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("generation error (%s/%s, status %d): %v", e.Provider, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("generation error (%s/%s): %v", e.Provider, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur while appending to a dataset sink.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
