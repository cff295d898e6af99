package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.

var (
	// ErrInvalidInput is the umbrella for every contract violation. All
	// validation failures below are reported wrapped in it.
	ErrInvalidInput = errors.New("invalid input")

	// Shape errors
	ErrDimensionMismatch = errors.New("resource vector dimensionality mismatch")
	ErrNegativeValue     = errors.New("negative or non-finite value")
	ErrNoDimensions      = errors.New("available vector has no dimensions")

	// Identity errors
	ErrEmptyID     = errors.New("process id is empty")
	ErrDuplicateID = errors.New("process id is not unique")
	ErrNoProcesses = errors.New("process count must be positive")

	// Scheduler errors
	ErrPowerLimitRange = errors.New("power limit outside [1, 100]")
	ErrUnknownPolicy   = errors.New("unknown scheduling policy")

	// Planner errors
	ErrUnsafeState = errors.New("snapshot is not in a safe state, scheduling withheld")
)

// InvalidInput builds an error that matches both ErrInvalidInput and cause
// under errors.Is.
func InvalidInput(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %w: %s", ErrInvalidInput, cause, msg)
}

// Reason returns a short machine label for a validation error, for metrics
// and API error types. Unrecognized errors map to "other".
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrDimensionMismatch):
		return "dimension_mismatch"
	case errors.Is(err, ErrNegativeValue):
		return "negative_value"
	case errors.Is(err, ErrNoDimensions):
		return "no_dimensions"
	case errors.Is(err, ErrEmptyID):
		return "empty_id"
	case errors.Is(err, ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, ErrNoProcesses):
		return "no_processes"
	case errors.Is(err, ErrPowerLimitRange):
		return "power_limit_range"
	case errors.Is(err, ErrUnknownPolicy):
		return "unknown_policy"
	case errors.Is(err, ErrUnsafeState):
		return "unsafe_state"
	default:
		return "other"
	}
}
