package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes returned to the operating system.
const (
	ExitSuccess       = 0   // Collection or report finished normally.
	ExitErrorGeneric  = 1   // Any failure without a more specific code.
	ExitErrorStore    = 2   // The store could not be opened or its schema created.
	ExitErrorConfig   = 4   // Invalid flags, environment or config file.
	ExitErrorCanceled = 130 // Interrupted by SIGINT or SIGTERM.
)

// ConfigError represents a user configuration error, such as an invalid flag
// value or an unreadable config file.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// StoreError reports a failure of the persistent store. Op names the step
// that failed ("open", "schema", "insert system_stats", ...).
type StoreError struct {
	Op    string
	Cause error
}

// Error returns the operation followed by the cause.
func (e StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e StoreError) Unwrap() error { return e.Cause }

// NewStoreError wraps cause as a StoreError, or returns nil if cause is nil.
func NewStoreError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return StoreError{Op: op, Cause: cause}
}

// SampleError reports that a metric could not be measured. The collector
// records the sentinel value in its place and keeps going.
type SampleError struct {
	// Metric names the measurement, e.g. "cpu" or "disk".
	Metric string
	// Cause is the error returned by the snapshot source.
	Cause error
}

// Error returns a formatted message naming the metric.
func (e SampleError) Error() string {
	return fmt.Sprintf("sample %s: %v", e.Metric, e.Cause)
}

// Unwrap returns the underlying cause.
func (e SampleError) Unwrap() error { return e.Cause }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error returned by a command to the process exit code.
// A nil error is success.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		cfgErr   ConfigError
		valErr   ValidationError
		storeErr StoreError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	case errors.As(err, &storeErr):
		return ExitErrorStore
	default:
		return ExitErrorGeneric
	}
}
