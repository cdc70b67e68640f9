package model

import (
	"errors"
	"fmt"
	"math"
)

// Error taxonomy for the core pipeline. All of these describe malformed input
// data; none of them are retried.
var (
	// ErrDivisionByZero is returned when a vessel has zero cargo capacity.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrDuplicateKey is matched (via errors.Is) by every *DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate join key")

	// ErrInsufficientHistory is returned when a forecast is requested over
	// fewer than two distinct years.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrInvalidRecord wraps every row-level validation failure.
	ErrInvalidRecord = errors.New("invalid record")
)

// DuplicateKeyError reports a non-unique key in a reference table used as the
// right-hand side of a join.
type DuplicateKeyError struct {
	Table string
	Key   string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate join key %q in %s", e.Key, e.Table)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRecord, fmt.Sprintf(format, args...))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
