package httpapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	corenotification "github.com/example/reclam/internal/core/notification"
	"github.com/example/reclam/internal/ctxutil"
	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/sentinel"
)

var testTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// mockReclamationService implements primary.ReclamationService for testing
type mockReclamationService struct {
	createFn    func(ctx context.Context, req primary.CreateReclamationRequest) (*primary.Reclamation, error)
	setStatusFn func(ctx context.Context, id, status string) (*primary.Reclamation, error)

	// Track calls for verification
	lastCreate  primary.CreateReclamationRequest
	lastUpdate  primary.UpdateReclamationRequest
	lastFilters primary.ReclamationFilters
	lastStatus  string
	lastActor   string
	deleted     []string
}

func (m *mockReclamationService) CreateReclamation(ctx context.Context, req primary.CreateReclamationRequest) (*primary.Reclamation, error) {
	m.lastCreate = req
	m.lastActor = ctxutil.ActorFromContext(ctx)
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &primary.Reclamation{ID: "REC-001", Title: req.Title, Description: req.Description, UserID: req.UserID, Status: "RECEIVED", CreatedAt: testTime, UpdatedAt: testTime}, nil
}

func (m *mockReclamationService) GetReclamation(ctx context.Context, id string) (*primary.Reclamation, error) {
	if id == "REC-404" {
		return nil, fmt.Errorf("reclamation %s: %w", id, sentinel.ErrNotFound)
	}
	return &primary.Reclamation{ID: id, Title: "Late delivery", UserID: "42", Status: "RECEIVED", CreatedAt: testTime, UpdatedAt: testTime}, nil
}

func (m *mockReclamationService) ListReclamations(ctx context.Context, filters primary.ReclamationFilters) ([]*primary.Reclamation, error) {
	m.lastFilters = filters
	if filters.Status == "LOST" {
		return nil, fmt.Errorf("unknown status LOST: %w", sentinel.ErrValidation)
	}
	return nil, nil
}

func (m *mockReclamationService) UpdateReclamation(ctx context.Context, req primary.UpdateReclamationRequest) (*primary.Reclamation, error) {
	m.lastUpdate = req
	return &primary.Reclamation{ID: req.ID, Title: req.Title, Description: req.Description, UserID: req.UserID, Status: "RECEIVED"}, nil
}

func (m *mockReclamationService) TakeInCharge(ctx context.Context, id string) (*primary.Reclamation, error) {
	return &primary.Reclamation{ID: id, Status: "IN_PROGRESS"}, nil
}

func (m *mockReclamationService) Process(ctx context.Context, id string) (*primary.Reclamation, error) {
	return nil, fmt.Errorf("reclamation %s is already PROCESSED: %w", id, sentinel.ErrInvalidTransition)
}

func (m *mockReclamationService) SetStatus(ctx context.Context, id, status string) (*primary.Reclamation, error) {
	m.lastStatus = status
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, id, status)
	}
	return &primary.Reclamation{ID: id, Status: status}, nil
}

func (m *mockReclamationService) DeleteReclamation(ctx context.Context, id string) error {
	if id == "REC-404" {
		return fmt.Errorf("reclamation %s: %w", id, sentinel.ErrNotFound)
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockNotificationService implements primary.NotificationService for testing
type mockNotificationService struct {
	lastFilters primary.NotificationFilters
}

func (m *mockNotificationService) GetNotification(ctx context.Context, id string) (*primary.Notification, error) {
	if id == "NOTIF-404" {
		return nil, fmt.Errorf("notification %s: %w", id, sentinel.ErrNotFound)
	}
	return &primary.Notification{ID: id, ReclamationID: "REC-001", Status: "SENT", CreatedAt: testTime}, nil
}

func (m *mockNotificationService) ListNotifications(ctx context.Context, filters primary.NotificationFilters) ([]*primary.Notification, error) {
	m.lastFilters = filters
	return []*primary.Notification{{ID: "NOTIF-1", ReclamationID: filters.ReclamationID, UserID: filters.UserID, Status: "PENDING"}}, nil
}

// mockDispatcher implements primary.NotificationDispatcher for testing
type mockDispatcher struct {
	lastEvent primary.LifecycleEvent
	calls     int
}

func (m *mockDispatcher) Dispatch(ctx context.Context, event primary.LifecycleEvent) (*primary.Notification, error) {
	m.calls++
	m.lastEvent = event
	typ, err := corenotification.TypeForAction(event.ActionCode)
	if err != nil {
		return nil, err
	}
	return &primary.Notification{
		ID:             "NOTIF-9",
		ReclamationID:  event.ReclamationID,
		UserID:         event.UserID,
		RecipientEmail: event.UserEmail,
		Type:           string(typ),
		ActionCode:     event.ActionCode,
		Status:         "PENDING",
		CreatedAt:      testTime,
	}, nil
}

func (m *mockDispatcher) Shutdown(ctx context.Context) error { return nil }

// mockLogService implements primary.LogService for testing
type mockLogService struct {
	lastFilters primary.LogFilters
}

func (m *mockLogService) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	m.lastFilters = filters
	return []*primary.LogEntry{{ID: "AL-1", EntityType: "reclamation", EntityID: "REC-001", Action: "create", Timestamp: testTime}}, nil
}

func (m *mockLogService) GetLog(ctx context.Context, id string) (*primary.LogEntry, error) {
	return nil, sentinel.ErrNotFound
}

func (m *mockLogService) PruneLogs(ctx context.Context, olderThanDays int) (int, error) {
	return 0, nil
}

type mockPinger struct{ err error }

func (p mockPinger) Ping(ctx context.Context) error { return p.err }

var errDown = errors.New("database is locked")
