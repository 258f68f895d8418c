package core

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when tool parameters are out of range
var ErrInvalidArgument = errors.New("invalid argument")

// UpstreamError reports that a provider could not be reached or answered
// with a non-success status.
type UpstreamError struct {
	Source     Source
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s upstream error: %s returned status %d", e.Source, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s upstream error: %s: %v", e.Source, e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError reports a provider response that does not match its schema
type ParseError struct {
	Source Source
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse error: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsUpstream reports whether err wraps an UpstreamError
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsParse reports whether err wraps a ParseError
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// CheckLimit applies the default limit of 10 to zero and rejects anything
// outside 1..100.
func CheckLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultLimit, nil
	}
	if limit < 1 || limit > MaxLimit {
		return 0, fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidArgument, MaxLimit, limit)
	}
	return limit, nil
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)
