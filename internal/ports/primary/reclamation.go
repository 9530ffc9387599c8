// Package primary defines the primary ports (driving adapters) for the application.
// CLI commands and HTTP handlers depend on these interfaces, never on app internals.
package primary

import (
	"context"
	"time"
)

// ReclamationService defines the primary port for reclamation lifecycle operations.
type ReclamationService interface {
	// CreateReclamation validates the owner, persists a RECEIVED reclamation and emits a RECUE event.
	CreateReclamation(ctx context.Context, req CreateReclamationRequest) (*Reclamation, error)

	// GetReclamation retrieves a reclamation by ID.
	GetReclamation(ctx context.Context, id string) (*Reclamation, error)

	// ListReclamations lists reclamations with optional filters.
	ListReclamations(ctx context.Context, filters ReclamationFilters) ([]*Reclamation, error)

	// UpdateReclamation replaces title, description and owner. Status is untouched.
	UpdateReclamation(ctx context.Context, req UpdateReclamationRequest) (*Reclamation, error)

	// TakeInCharge moves a RECEIVED reclamation to IN_PROGRESS.
	TakeInCharge(ctx context.Context, id string) (*Reclamation, error)

	// Process moves a non-terminal reclamation to PROCESSED.
	Process(ctx context.Context, id string) (*Reclamation, error)

	// SetStatus overwrites the status without guards and without notification.
	SetStatus(ctx context.Context, id, status string) (*Reclamation, error)

	// DeleteReclamation removes a reclamation permanently.
	DeleteReclamation(ctx context.Context, id string) error
}

// CreateReclamationRequest contains parameters for creating a reclamation.
type CreateReclamationRequest struct {
	Title       string
	Description string
	UserID      string
}

// UpdateReclamationRequest contains parameters for updating a reclamation.
type UpdateReclamationRequest struct {
	ID          string
	Title       string
	Description string
	UserID      string
}

// ReclamationFilters contains filter options for listing reclamations.
// Status is parsed leniently (French names accepted).
type ReclamationFilters struct {
	UserID string
	Status string
}

// Reclamation represents a reclamation entity at the port boundary.
type Reclamation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      string    `json:"userId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
