package secondary

import "context"

// IdentityGate defines the secondary port to the external user directory.
// Calls block and are not retried; the adapter's own timeout applies.
type IdentityGate interface {
	// Exists reports whether the user is known.
	// Transport failures return an error wrapping sentinel.ErrUpstreamUnavailable.
	Exists(ctx context.Context, userID string) (bool, error)

	// GetUser returns the user's profile.
	// An unknown user returns an error wrapping sentinel.ErrNotFound.
	GetUser(ctx context.Context, userID string) (*UserProfile, error)
}

// UserProfile is the subset of a user record needed to address notifications.
type UserProfile struct {
	ID    string
	Name  string
	Email string
}
