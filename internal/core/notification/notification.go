// Package notification contains the pure rules for lifecycle notifications:
// which notice an action produces, what it says, and how its delivery status moves.
// This is part of the Functional Core - no I/O, only pure functions.
package notification

import (
	"fmt"
	"strings"

	"github.com/example/reclam/internal/core/reclamation"
	"github.com/example/reclam/internal/sentinel"
)

// Type identifies which lifecycle notice a notification carries.
type Type string

const (
	TypeReceived      Type = "RECLAMATION_RECEIVED"
	TypeTakenInCharge Type = "RECLAMATION_TAKEN_IN_CHARGE"
	TypeProcessed     Type = "RECLAMATION_PROCESSED"
)

// Status is the delivery status of a notification record.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// ParseStatus parses a delivery status name, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusPending, StatusSent, StatusFailed:
		return s, nil
	}
	return "", fmt.Errorf("unknown delivery status %q: %w", raw, sentinel.ErrValidation)
}

// TypeForAction derives the notice type from a lifecycle action code.
// Codes are matched case-insensitively; anything else is ErrUnknownAction.
func TypeForAction(action string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case reclamation.ActionReceived:
		return TypeReceived, nil
	case reclamation.ActionTakenInCharge:
		return TypeTakenInCharge, nil
	case reclamation.ActionProcessed:
		return TypeProcessed, nil
	}
	return "", fmt.Errorf("action %q: %w", action, sentinel.ErrUnknownAction)
}

// FinalizeContext provides context for the PENDING -> SENT/FAILED guard.
type FinalizeContext struct {
	NotificationID string
	Status         Status
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s: %w", r.Reason, sentinel.ErrInvalidTransition)
}

// CanFinalize evaluates whether a delivery outcome may be recorded.
// Rule: only a PENDING notification is finalized, and only once.
func CanFinalize(ctx FinalizeContext) GuardResult {
	if ctx.Status != StatusPending {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("notification %s already finalized as %s", ctx.NotificationID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}
