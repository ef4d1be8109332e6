package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a source has no catalog for the product; the chain
// moves on to the next source.
var ErrNotFound = errors.New("extraction catalog not found")

// ErrorCategory normalizes source failure modes.
type ErrorCategory string

const (
	ErrorNotFound ErrorCategory = "not_found"
	ErrorOutage   ErrorCategory = "source_outage"
	ErrorBadData  ErrorCategory = "bad_data"
	ErrorInternal ErrorCategory = "internal"
)

// SourceError wraps catalog source failures with normalized categorization
// so the chain can decide whether to keep going.
type SourceError struct {
	Category   ErrorCategory
	SourceID   string
	Message    string
	Underlying error
}

func (e *SourceError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("catalog source %s [%s]: %s: %v", e.SourceID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("catalog source %s [%s]: %s", e.SourceID, e.Category, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Underlying
}

// NewSourceError creates a normalized source error.
func NewSourceError(category ErrorCategory, sourceID, message string, underlying error) *SourceError {
	return &SourceError{Category: category, SourceID: sourceID, Message: message, Underlying: underlying}
}

// IsNotFound reports whether err means "this source has no data", as opposed
// to a real failure.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var se *SourceError
	return errors.As(err, &se) && se.Category == ErrorNotFound
}
