// Package services implements the orchestration core: trip request
// validation, the daily generation quota, the generation cache with its
// response extractor, the place-photo resolver, saved trips, and city
// suggestions. This file centralizes the service-level error taxonomy so
// methods return consistent values and the HTTP layer can translate them
// into stable response codes.
package services

import (
	"errors"
	"fmt"
)

// Stable reason codes carried by ValidationError. They double as the
// machine-readable codes in HTTP error envelopes.
const (
	ReasonDateTooEarly   = "date_too_early"
	ReasonDateTooFar     = "date_too_far"
	ReasonEndBeforeStart = "end_before_start"
	ReasonTripTooLong    = "trip_too_long"
	ReasonBadDestination = "bad_destination"
	ReasonBadBudget      = "bad_budget"
	ReasonBadStyles      = "bad_styles"
)

// ValidationError reports a trip request that violates a policy constraint.
// Reason is one of the Reason* constants; Message is safe to show to users.
type ValidationError struct {
	Reason  string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Message }

// newValidationError builds a ValidationError with the given reason code.
func newValidationError(reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

// ErrGenerationTransport indicates the generation endpoint could not be
// reached or answered with a non-success status. The result, if any, was
// never seen; callers may simply re-invoke.
var ErrGenerationTransport = errors.New("trip generation request failed")

// GenerationParseError indicates the generator answered but no valid trip
// structure could be extracted from its text. Raw carries the offending
// response for diagnostics; it is logged, never returned as data.
type GenerationParseError struct {
	Raw string
	Err error
}

// Error implements the error interface.
func (e *GenerationParseError) Error() string {
	return fmt.Sprintf("unparseable generation response: %v", e.Err)
}

// Unwrap exposes the underlying cause.
func (e *GenerationParseError) Unwrap() error { return e.Err }

// PersistenceError indicates a saved-trip read or write did not become
// durable. In-memory state is not rolled back; the caller should surface the
// failure and let the user retry.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrSavedTripNotFound is returned when a saved trip id does not exist.
var ErrSavedTripNotFound = errors.New("saved trip not found")
