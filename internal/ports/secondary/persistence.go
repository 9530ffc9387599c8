// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// ReclamationRepository defines the secondary port for reclamation persistence.
type ReclamationRepository interface {
	// Create persists a new reclamation.
	Create(ctx context.Context, reclamation *ReclamationRecord) error

	// GetByID retrieves a reclamation by its ID.
	// Returns an error wrapping sentinel.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*ReclamationRecord, error)

	// List retrieves reclamations matching the given filters, oldest first.
	List(ctx context.Context, filters ReclamationFilters) ([]*ReclamationRecord, error)

	// Update replaces title, description and user id, and sets updated_at.
	Update(ctx context.Context, reclamation *ReclamationRecord) error

	// UpdateStatus sets status and updated_at.
	// When from is non-empty the write only applies if the current status is one of
	// from; otherwise it returns an error wrapping sentinel.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id, status string, from []string, updatedAt time.Time) error

	// Delete removes a reclamation from persistence.
	Delete(ctx context.Context, id string) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// ReclamationRecord represents a reclamation as stored in persistence.
type ReclamationRecord struct {
	ID          string
	Title       string
	Description string
	UserID      string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReclamationFilters contains filter options for querying reclamations.
type ReclamationFilters struct {
	UserID string
	Status string
}

// NotificationRepository defines the secondary port for notification persistence.
// Notifications are never deleted; after creation only the delivery outcome changes.
type NotificationRepository interface {
	// Create persists a new notification.
	Create(ctx context.Context, notification *NotificationRecord) error

	// GetByID retrieves a notification by its ID.
	GetByID(ctx context.Context, id string) (*NotificationRecord, error)

	// List retrieves notifications matching the given filters, newest first.
	List(ctx context.Context, filters NotificationFilters) ([]*NotificationRecord, error)

	// MarkSent moves a PENDING notification to SENT.
	MarkSent(ctx context.Context, id string, sentAt time.Time) error

	// MarkFailed moves a PENDING notification to FAILED with the failure detail.
	MarkFailed(ctx context.Context, id, errorMessage string) error
}

// NotificationRecord represents a notification as stored in persistence.
type NotificationRecord struct {
	ID             string
	ReclamationID  string
	UserID         string
	RecipientEmail string // Empty string means null
	RecipientName  string // Empty string means null
	Type           string
	ActionCode     string
	Subject        string
	Body           string
	Status         string
	CreatedAt      time.Time
	SentAt         *time.Time
	ErrorMessage   string // Empty string means null
}

// NotificationFilters contains filter options for querying notifications.
type NotificationFilters struct {
	ReclamationID string
	UserID        string
	Status        string
}

// ActivityLogRepository defines the secondary port for activity log (audit trail) persistence.
// Logs are immutable - no Update operations, but old entries can be pruned.
type ActivityLogRepository interface {
	// Create persists a new activity log entry.
	Create(ctx context.Context, log *ActivityLogRecord) error

	// GetByID retrieves a log entry by its ID.
	GetByID(ctx context.Context, id string) (*ActivityLogRecord, error)

	// List retrieves log entries matching the given filters.
	List(ctx context.Context, filters ActivityLogFilters) ([]*ActivityLogRecord, error)

	// PruneOlderThan deletes log entries older than the given number of days.
	// Returns the number of deleted entries.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// ActivityLogRecord represents an activity log entry as stored in persistence.
type ActivityLogRecord struct {
	ID         string
	Timestamp  time.Time
	ActorID    string // Empty string means null
	EntityType string
	EntityID   string
	Action     string // 'create', 'update', 'delete'
	FieldName  string // Empty string means null - for updates only
	OldValue   string // Empty string means null
	NewValue   string // Empty string means null
}

// ActivityLogFilters contains filter options for querying logs.
type ActivityLogFilters struct {
	EntityType string
	EntityID   string
	ActorID    string
	Action     string
	Limit      int
}
