package grader

import (
	"context"
	"errors"
	"fmt"
)

// ScoringClient sends a prompt to a generative model and returns its text.
// Implementations report failures as *ScoringError so the evaluator can tell
// an unreachable service from a bad response.
type ScoringClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FailureClass says why a scoring call produced no usable text.
type FailureClass string

const (
	FailureConnection   FailureClass = "connection"
	FailureMalformed    FailureClass = "malformed"
	FailureMissingField FailureClass = "missing_field"
)

// Message is the feedback shown to the student when grading gave up.
func (c FailureClass) Message() string {
	switch c {
	case FailureMalformed:
		return "Error in processing evaluation"
	case FailureMissingField:
		return "Error in evaluation - Invalid response format"
	default:
		return "Could not connect to evaluation service"
	}
}

// ScoringError is returned by a ScoringClient when a call fails.
type ScoringError struct {
	Class   FailureClass
	Wrapped error
}

func (e *ScoringError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("scoring failed (%s): %v", e.Class, e.Wrapped)
	}
	return fmt.Sprintf("scoring failed (%s)", e.Class)
}

func (e *ScoringError) Unwrap() error {
	return e.Wrapped
}

// ClassOf returns the failure class of err. Errors that are not a
// *ScoringError, including context cancellation, count as connection failures.
func ClassOf(err error) FailureClass {
	var se *ScoringError
	if errors.As(err, &se) {
		return se.Class
	}
	return FailureConnection
}
