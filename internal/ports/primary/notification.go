package primary

import (
	"context"
	"time"
)

// NotificationDispatcher turns lifecycle events into notification records and
// schedules their delivery.
type NotificationDispatcher interface {
	// Dispatch persists a PENDING notification for the event and starts delivery
	// in the background. It returns once the PENDING record is durable.
	Dispatch(ctx context.Context, event LifecycleEvent) (*Notification, error)

	// Shutdown waits for in-flight deliveries until ctx is done.
	Shutdown(ctx context.Context) error
}

// NotificationService defines the primary port for notification queries.
type NotificationService interface {
	// GetNotification retrieves a notification by ID.
	GetNotification(ctx context.Context, id string) (*Notification, error)

	// ListNotifications lists notifications with optional filters.
	ListNotifications(ctx context.Context, filters NotificationFilters) ([]*Notification, error)
}

// LifecycleEvent is the payload the orchestrator hands to the dispatcher.
type LifecycleEvent struct {
	ReclamationID    string
	ReclamationTitle string
	UserID           string
	UserEmail        string
	UserName         string
	ActionCode       string
	PreviousStatus   string // empty on creation
	NewStatus        string
}

// NotificationFilters contains filter options for listing notifications.
type NotificationFilters struct {
	ReclamationID string
	UserID        string
	Status        string
}

// Notification represents a notification record at the port boundary.
type Notification struct {
	ID             string     `json:"id"`
	ReclamationID  string     `json:"reclamationId"`
	UserID         string     `json:"userId"`
	RecipientEmail string     `json:"recipientEmail"`
	RecipientName  string     `json:"recipientName"`
	Type           string     `json:"type"`
	ActionCode     string     `json:"actionCode"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
}
