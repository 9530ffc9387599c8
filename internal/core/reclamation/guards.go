package reclamation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/reclam/internal/sentinel"
)

// Field limits mirror the column sizes of the reclamation table.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
	Kind    error  // sentinel error kind (populated when not allowed)
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Kind == nil {
		return fmt.Errorf("%s", r.Reason)
	}
	return fmt.Errorf("%s: %w", r.Reason, r.Kind)
}

// InputContext provides the user-supplied fields for create/update guards.
type InputContext struct {
	Title       string
	Description string
	UserID      string
}

// StatusTransitionContext provides context for take-in-charge/process guards.
type StatusTransitionContext struct {
	ReclamationID string
	Status        Status
}

// UpdateContext provides context for deciding whether an update needs an identity check.
type UpdateContext struct {
	CurrentUserID string
	NewUserID     string
}

func deny(kind error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...), Kind: kind}
}

// CanAcceptInput evaluates whether the fields of a create/update request are well formed.
// Rules:
// - Title must be non-blank and at most MaxTitleLength characters
// - Description must be non-blank and at most MaxDescriptionLength characters
// - User ID must be present
func CanAcceptInput(ctx InputContext) GuardResult {
	if strings.TrimSpace(ctx.Title) == "" {
		return deny(sentinel.ErrValidation, "title is required")
	}
	if n := utf8.RuneCountInString(ctx.Title); n > MaxTitleLength {
		return deny(sentinel.ErrValidation, "title is %d characters long (max %d)", n, MaxTitleLength)
	}
	if strings.TrimSpace(ctx.Description) == "" {
		return deny(sentinel.ErrValidation, "description is required")
	}
	if n := utf8.RuneCountInString(ctx.Description); n > MaxDescriptionLength {
		return deny(sentinel.ErrValidation, "description is %d characters long (max %d)", n, MaxDescriptionLength)
	}
	if strings.TrimSpace(ctx.UserID) == "" {
		return deny(sentinel.ErrValidation, "user id is required")
	}
	return GuardResult{Allowed: true}
}

// CanTakeInCharge evaluates whether a reclamation can move to IN_PROGRESS.
// Rule: status must be exactly RECEIVED.
func CanTakeInCharge(ctx StatusTransitionContext) GuardResult {
	if ctx.Status != StatusReceived {
		return deny(sentinel.ErrInvalidTransition,
			"reclamation %s must be %s to be taken in charge (current status: %s)",
			ctx.ReclamationID, StatusReceived, ctx.Status)
	}
	return GuardResult{Allowed: true}
}

// CanProcess evaluates whether a reclamation can move to PROCESSED.
// Rule: any non-terminal status may be processed, so RECEIVED can skip IN_PROGRESS.
func CanProcess(ctx StatusTransitionContext) GuardResult {
	if ctx.Status.Terminal() {
		return deny(sentinel.ErrInvalidTransition,
			"reclamation %s is already %s", ctx.ReclamationID, ctx.Status)
	}
	return GuardResult{Allowed: true}
}

// SourceStatuses returns the statuses a guarded transition into target may start from:
// every non-terminal status earlier in the lifecycle.
// The store uses it as the compare-and-set condition of the status write.
func SourceStatuses(target Status) []Status {
	if !target.Valid() {
		return nil
	}
	var sources []Status
	for _, s := range Statuses() {
		if s.Rank() < target.Rank() && !s.Terminal() {
			sources = append(sources, s)
		}
	}
	return sources
}

// NeedsIdentityCheck reports whether an update changes the owning user and
// therefore has to re-validate the new owner against the identity service.
func NeedsIdentityCheck(ctx UpdateContext) bool {
	return ctx.CurrentUserID != ctx.NewUserID
}
