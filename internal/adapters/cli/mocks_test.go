package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/sentinel"
)

var testTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// mockReclamationService implements primary.ReclamationService for testing
type mockReclamationService struct {
	createFn  func(ctx context.Context, req primary.CreateReclamationRequest) (*primary.Reclamation, error)
	listFn    func(ctx context.Context, filters primary.ReclamationFilters) ([]*primary.Reclamation, error)
	updateFn  func(ctx context.Context, req primary.UpdateReclamationRequest) (*primary.Reclamation, error)
	processFn func(ctx context.Context, id string) (*primary.Reclamation, error)
	deleteFn  func(ctx context.Context, id string) error

	// Track calls for verification
	lastFilters primary.ReclamationFilters
	deleted     []string
}

func (m *mockReclamationService) CreateReclamation(ctx context.Context, req primary.CreateReclamationRequest) (*primary.Reclamation, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &primary.Reclamation{ID: "REC-001", Title: req.Title, Description: req.Description, UserID: req.UserID, Status: "RECEIVED", CreatedAt: testTime, UpdatedAt: testTime}, nil
}

func (m *mockReclamationService) GetReclamation(ctx context.Context, id string) (*primary.Reclamation, error) {
	if id == "REC-404" {
		return nil, fmt.Errorf("reclamation %s: %w", id, sentinel.ErrNotFound)
	}
	return &primary.Reclamation{ID: id, Title: "Late delivery", Description: "Parcel arrived a week late", UserID: "42", Status: "RECEIVED", CreatedAt: testTime, UpdatedAt: testTime}, nil
}

func (m *mockReclamationService) ListReclamations(ctx context.Context, filters primary.ReclamationFilters) ([]*primary.Reclamation, error) {
	m.lastFilters = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return []*primary.Reclamation{}, nil
}

func (m *mockReclamationService) UpdateReclamation(ctx context.Context, req primary.UpdateReclamationRequest) (*primary.Reclamation, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, req)
	}
	return &primary.Reclamation{ID: req.ID, Title: req.Title, Description: req.Description, UserID: req.UserID, Status: "RECEIVED"}, nil
}

func (m *mockReclamationService) TakeInCharge(ctx context.Context, id string) (*primary.Reclamation, error) {
	return &primary.Reclamation{ID: id, Status: "IN_PROGRESS"}, nil
}

func (m *mockReclamationService) Process(ctx context.Context, id string) (*primary.Reclamation, error) {
	if m.processFn != nil {
		return m.processFn(ctx, id)
	}
	return &primary.Reclamation{ID: id, Status: "PROCESSED"}, nil
}

func (m *mockReclamationService) SetStatus(ctx context.Context, id, status string) (*primary.Reclamation, error) {
	return &primary.Reclamation{ID: id, Status: status}, nil
}

func (m *mockReclamationService) DeleteReclamation(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockNotificationService implements primary.NotificationService for testing
type mockNotificationService struct {
	notifications []*primary.Notification
	lastFilters   primary.NotificationFilters
}

func (m *mockNotificationService) GetNotification(ctx context.Context, id string) (*primary.Notification, error) {
	for _, n := range m.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, fmt.Errorf("notification %s: %w", id, sentinel.ErrNotFound)
}

func (m *mockNotificationService) ListNotifications(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	m.lastFilters = filters
	return m.notifications, nil
}

// mockLogService implements primary.LogService for testing
type mockLogService struct {
	listFn      func(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error)
	pruneResult int
	pruneErr    error
	lastDays    int
}

func (m *mockLogService) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockLogService) GetLog(ctx context.Context, id string) (*primary.LogEntry, error) {
	return nil, sentinel.ErrNotFound
}

func (m *mockLogService) PruneLogs(ctx context.Context, days int) (int, error) {
	m.lastDays = days
	return m.pruneResult, m.pruneErr
}
