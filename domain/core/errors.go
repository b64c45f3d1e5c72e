package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound            = errors.New("resource not found")
	ErrDailyResultNotFound = fmt.Errorf("%w: daily result", ErrNotFound)
	ErrSubjectNotFound     = fmt.Errorf("%w: subject", ErrNotFound)

	// Validation errors
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrUnknownCategory = errors.New("unknown category")

	// Aggregation errors
	ErrNoMatches = errors.New("no match records for target date")
)

// IsNotFoundError reports whether err is any not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError reports whether err stems from bad caller input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrUnknownCategory)
}
