package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

func seedNotifications(repo *mockNotificationRepository) {
	repo.notifications["NOTIF-1"] = &secondary.NotificationRecord{ID: "NOTIF-1", ReclamationID: "REC-1", UserID: "42", Status: "SENT", CreatedAt: testEpoch}
	repo.notifications["NOTIF-2"] = &secondary.NotificationRecord{ID: "NOTIF-2", ReclamationID: "REC-1", UserID: "42", Status: "FAILED", ErrorMessage: "timeout"}
	repo.notifications["NOTIF-3"] = &secondary.NotificationRecord{ID: "NOTIF-3", ReclamationID: "REC-2", UserID: "43", Status: "PENDING"}
}

func TestGetNotification(t *testing.T) {
	repo := newMockNotificationRepository()
	seedNotifications(repo)
	service := NewNotificationService(repo)

	n, err := service.GetNotification(context.Background(), "NOTIF-2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n.Status != "FAILED" || n.ErrorMessage != "timeout" {
		t.Errorf("unexpected notification: %+v", n)
	}

	if _, err := service.GetNotification(context.Background(), "NOTIF-404"); !errors.Is(err, sentinel.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListNotifications(t *testing.T) {
	repo := newMockNotificationRepository()
	seedNotifications(repo)
	service := NewNotificationService(repo)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters primary.NotificationFilters
		wantIDs []string
	}{
		{"all", primary.NotificationFilters{}, []string{"NOTIF-1", "NOTIF-2", "NOTIF-3"}},
		{"by reclamation", primary.NotificationFilters{ReclamationID: "REC-1"}, []string{"NOTIF-1", "NOTIF-2"}},
		{"by user", primary.NotificationFilters{UserID: "43"}, []string{"NOTIF-3"}},
		{"by status", primary.NotificationFilters{Status: "failed"}, []string{"NOTIF-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ListNotifications(ctx, tt.filters)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d notifications, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}

	if _, err := service.ListNotifications(ctx, primary.NotificationFilters{Status: "LOST"}); !errors.Is(err, sentinel.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
