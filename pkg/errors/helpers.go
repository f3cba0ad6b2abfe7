package errors

import (
	"context"
	stderrors "errors"
)

// CheckContext returns an error if the context is canceled or timed out.
// This provides a standardized way to check and wrap context errors.
func CheckContext(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return Wrap(err, Canceled, operation+" canceled")
	}
	return nil
}

// CodeOf extracts the ErrorCode from an error chain, or Unknown if the
// chain contains no structured error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code()
	}
	return Unknown
}

// IsValidation reports whether err is a metric/input validation failure.
func IsValidation(err error) bool {
	c := CodeOf(err)
	return c == ValidationFailed || c == InvalidInput
}

// IsInsufficientSurvivors reports whether err marks a generation with fewer
// than two gate-passing candidates, the terminal dead-end condition for a run.
func IsInsufficientSurvivors(err error) bool {
	return CodeOf(err) == InsufficientSurvivors
}

// IsUnknownReference reports whether err marks a broken ancestry or agent
// reference. These are fatal: the run must abort rather than continue with a
// corrupted lineage graph.
func IsUnknownReference(err error) bool {
	return CodeOf(err) == UnknownReference
}
