package feeds

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrTimeout        = errors.New("feed request timed out")
	ErrRequestFailed  = errors.New("feed request failed")
	ErrCancelled      = errors.New("feed request cancelled")
	ErrCacheDirectory = errors.New("cache directory unavailable")
	ErrParse          = errors.New("feed could not be parsed")
	ErrInvalidInput   = errors.New("invalid input")
)

// TimeoutStage tells which phase of the request timed out
type TimeoutStage string

const (
	StageConnect      TimeoutStage = "connect"
	StageSend         TimeoutStage = "send"
	StageReceive      TimeoutStage = "receive"
	StageUnclassified TimeoutStage = "unclassified"
)

// TimeoutError is returned when the request exceeded its timeout, and for
// transport failures that fit no other category.
type TimeoutError struct {
	URL     string
	Stage   TimeoutStage
	Message string
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timeout fetching %s: %s", e.Stage, e.URL, e.Message)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// RequestFailedError means a response arrived but was not usable
type RequestFailedError struct {
	URL        string
	StatusCode int // 0 when the failure happened after the status line
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request for %s failed with status %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request for %s failed: %s", e.URL, e.Message)
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

// CancelledError is returned when the caller aborted an in-flight request
type CancelledError struct {
	URL     string
	Message string
	Err     error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("request for %s cancelled: %s", e.URL, e.Message)
}

func (e *CancelledError) Unwrap() error { return e.Err }

func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}

// CacheDirectoryError is returned when the cache directory is missing and
// could not be created
type CacheDirectoryError struct {
	Dir string
	Err error
}

func (e *CacheDirectoryError) Error() string {
	return fmt.Sprintf("cannot create cache directory %s: %v", e.Dir, e.Err)
}

func (e *CacheDirectoryError) Unwrap() error { return e.Err }

func (e *CacheDirectoryError) Is(target error) bool {
	return target == ErrCacheDirectory
}

// ParseError wraps a failure of the RSS parser
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing feed %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsTransportError reports whether err is one of the typed transport failures
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrRequestFailed) || errors.Is(err, ErrCancelled)
}
