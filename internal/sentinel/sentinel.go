// Package sentinel holds the error kinds shared by every layer.
// Stores, adapters and services wrap these with fmt.Errorf("...: %w", ...)
// and callers classify with errors.Is.
package sentinel

import "errors"

var (
	// ErrValidation marks malformed input: empty required field, unparseable status.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reclamation, notification or user that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition marks a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUpstreamUnavailable marks a collaborator (identity service, mail transport)
	// that could not be reached or answered with an error.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUnknownAction marks a lifecycle action code the dispatcher does not recognise.
	ErrUnknownAction = errors.New("unknown action")
)

// Code returns a stable machine-readable code for err, used by transports.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "UPSTREAM_UNAVAILABLE"
	case errors.Is(err, ErrUnknownAction):
		return "UNKNOWN_ACTION"
	default:
		return "INTERNAL"
	}
}
