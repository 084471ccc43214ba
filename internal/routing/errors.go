package routing

import (
	"errors"
	"fmt"

	"klaew-klad/internal/geo"
)

var (
	// ErrInvalidPriority is returned for priorities other than fastest and safest
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrEmptyDestinationSet is returned when no destinations are supplied
	ErrEmptyDestinationSet = errors.New("destination set is empty")
	// ErrInvalidDestinationID is returned for missing or repeated destination ids
	ErrInvalidDestinationID = errors.New("invalid destination id")
	// ErrInvalidDistance is returned for negative or non-finite distances
	ErrInvalidDistance = errors.New("invalid distance")
)

// Validation error kinds reported to callers
const (
	KindInvalidCoordinate    = "INVALID_COORDINATE"
	KindInvalidPriority      = "INVALID_PRIORITY"
	KindEmptyDestinationSet  = "EMPTY_DESTINATION_SET"
	KindInvalidDestinationID = "INVALID_DESTINATION_ID"
)

// ValidationError reports a rejected request field. It wraps the sentinel
// for its kind so errors.Is matches geo.ErrInvalidCoordinate, ErrInvalidPriority, etc.
type ValidationError struct {
	Field  string
	Kind   string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{
		Field:  field,
		Kind:   kindOf(err),
		Reason: err.Error(),
		Err:    err,
	}
}

func kindOf(err error) string {
	switch {
	case errors.Is(err, geo.ErrInvalidCoordinate):
		return KindInvalidCoordinate
	case errors.Is(err, ErrInvalidPriority):
		return KindInvalidPriority
	case errors.Is(err, ErrEmptyDestinationSet):
		return KindEmptyDestinationSet
	case errors.Is(err, ErrInvalidDestinationID):
		return KindInvalidDestinationID
	default:
		return "INVALID_REQUEST"
	}
}
