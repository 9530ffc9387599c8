package app

import (
	"context"
	"fmt"

	corenotification "github.com/example/reclam/internal/core/notification"
	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/ports/secondary"
)

// NotificationServiceImpl implements the NotificationService interface (read side).
type NotificationServiceImpl struct {
	repo secondary.NotificationRepository
}

// NewNotificationService creates a new NotificationService with injected dependencies.
func NewNotificationService(repo secondary.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{repo: repo}
}

// GetNotification retrieves a notification by ID.
func (s *NotificationServiceImpl) GetNotification(ctx context.Context, id string) (*primary.Notification, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToNotification(record), nil
}

// ListNotifications lists notifications with optional filters.
func (s *NotificationServiceImpl) ListNotifications(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	repoFilters := secondary.NotificationFilters{
		ReclamationID: filters.ReclamationID,
		UserID:        filters.UserID,
	}
	if filters.Status != "" {
		status, err := corenotification.ParseStatus(filters.Status)
		if err != nil {
			return nil, err
		}
		repoFilters.Status = string(status)
	}

	records, err := s.repo.List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]*primary.Notification, len(records))
	for i, r := range records {
		notifications[i] = recordToNotification(r)
	}
	return notifications, nil
}

// Ensure NotificationServiceImpl implements the interface
var _ primary.NotificationService = (*NotificationServiceImpl)(nil)
