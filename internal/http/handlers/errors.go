// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes give
// clients a stable, machine-readable error taxonomy alongside human-readable
// messages.
//
// Conventions:
//   - Codes are lowercase, snake_case.
//   - Generic codes (bad_request, not_found, conflict) mirror common HTTP
//     status semantics.
//   - Domain-specific codes (generation_failed, generation_limit_reached,
//     save_failed) carry business outcomes a status alone cannot.
//   - Validation failures use the reason codes carried by the service-level
//     ValidationError (date_too_early, trip_too_long, …) directly, so the
//     client sees the same taxonomy the services emit.

package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeGenerationFailed = "generation_failed"
	ErrCodeGenerationLimit  = "generation_limit_reached"
	ErrCodeSaveFailed       = "save_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
