// Package reclamation contains the pure business logic for the reclamation lifecycle.
// This is part of the Functional Core - no I/O, only pure functions.
package reclamation

import (
	"fmt"
	"strings"

	"github.com/example/reclam/internal/sentinel"
)

// Status represents the possible states of a reclamation.
type Status string

const (
	StatusReceived   Status = "RECEIVED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusProcessed  Status = "PROCESSED"
)

// Action codes carried by lifecycle events.
const (
	ActionReceived      = "RECUE"
	ActionTakenInCharge = "PRISE_EN_CHARGE"
	ActionProcessed     = "TRAITEE"
)

// InitialStatus returns the status every new reclamation starts in.
func InitialStatus() Status {
	return StatusReceived
}

// Statuses lists the lifecycle in order.
func Statuses() []Status {
	return []Status{StatusReceived, StatusInProgress, StatusProcessed}
}

// Rank orders statuses along the lifecycle; unknown statuses rank -1.
func (s Status) Rank() int {
	for i, st := range Statuses() {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the three lifecycle statuses.
func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Terminal reports whether no guarded transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusProcessed
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a status name. Matching is case-insensitive and accepts
// the French names (RECUE, EN_COURS, TRAITEE) used by older clients.
func ParseStatus(raw string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if s, ok := frenchStatuses[name]; ok {
		return s, nil
	}
	if s := Status(name); s.Valid() {
		return s, nil
	}
	return "", fmt.Errorf("unknown status %q: %w", raw, sentinel.ErrValidation)
}

var frenchStatuses = map[string]Status{
	"RECUE":    StatusReceived,
	"EN_COURS": StatusInProgress,
	"TRAITEE":  StatusProcessed,
}

// ActionFor returns the lifecycle action code emitted when a reclamation enters status.
func ActionFor(status Status) string {
	switch status {
	case StatusReceived:
		return ActionReceived
	case StatusInProgress:
		return ActionTakenInCharge
	case StatusProcessed:
		return ActionProcessed
	}
	return ""
}
