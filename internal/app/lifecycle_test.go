package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

// newTestPipeline wires the orchestrator to a real dispatcher over mock stores.
func newTestPipeline(mailer *mockMailer) (*ReclamationServiceImpl, *NotificationDispatcherImpl, *mockReclamationRepository, *mockNotificationRepository) {
	reclamations := newMockReclamationRepository()
	notifications := newMockNotificationRepository()

	dispatcher := NewNotificationDispatcher(notifications, mailer, 2, nil, nil)
	dispatcher.newID = sequentialIDs("NOTIF")

	service := NewReclamationService(reclamations, newMockIdentityGate(), dispatcher, nil, nil, nil)
	service.now = fixedClock(testEpoch)
	service.newID = sequentialIDs("REC")
	return service, dispatcher, reclamations, notifications
}

func TestPipeline_CreateThenSent(t *testing.T) {
	service, dispatcher, _, notifications := newTestPipeline(&mockMailer{})
	ctx := context.Background()

	rec, err := service.CreateReclamation(ctx, primary.CreateReclamationRequest{
		Title: "Late delivery", Description: "Parcel arrived a week late", UserID: "42",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// PENDING record exists as soon as the call returns.
	pending, _ := notifications.List(ctx, secondary.NotificationFilters{ReclamationID: rec.ID})
	if len(pending) != 1 {
		t.Fatalf("expected 1 notification right after create, got %d", len(pending))
	}
	if pending[0].ActionCode != "RECUE" {
		t.Errorf("action = %q, want RECUE", pending[0].ActionCode)
	}

	if err := dispatcher.Shutdown(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	final, _ := notifications.GetByID(ctx, pending[0].ID)
	if final.Status != "SENT" || final.SentAt == nil || final.ErrorMessage != "" {
		t.Errorf("expected SENT with sentAt and no error, got %+v", final)
	}
}

func TestPipeline_MailerAlwaysFails(t *testing.T) {
	mailer := &mockMailer{sendFn: func(to, subject, body string) error {
		return errors.New("connection reset by peer")
	}}
	service, dispatcher, _, notifications := newTestPipeline(mailer)
	ctx := context.Background()

	rec, err := service.CreateReclamation(ctx, primary.CreateReclamationRequest{Title: "t", Description: "d", UserID: "42"})
	if err != nil {
		t.Fatalf("create must succeed despite failing mailer: %v", err)
	}
	if _, err := service.Process(ctx, rec.ID); err != nil {
		t.Fatalf("process must succeed despite failing mailer: %v", err)
	}
	if err := dispatcher.Shutdown(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}

	all, _ := notifications.List(ctx, secondary.NotificationFilters{ReclamationID: rec.ID})
	if len(all) != 2 {
		t.Fatalf("expected one notification per status change, got %d", len(all))
	}
	for _, n := range all {
		if n.Status != "FAILED" || n.ErrorMessage == "" || n.SentAt != nil {
			t.Errorf("expected FAILED with message, got %+v", n)
		}
	}
}

func TestPipeline_UnknownUserLeavesNoTrace(t *testing.T) {
	service, dispatcher, reclamations, notifications := newTestPipeline(&mockMailer{})
	ctx := context.Background()

	_, err := service.CreateReclamation(ctx, primary.CreateReclamationRequest{Title: "t", Description: "d", UserID: "999"})
	if !errors.Is(err, sentinel.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_ = dispatcher.Shutdown(ctx)

	if len(reclamations.reclamations) != 0 {
		t.Error("expected no reclamation")
	}
	all, _ := notifications.List(ctx, secondary.NotificationFilters{})
	if len(all) != 0 {
		t.Error("expected no notification")
	}
}

func TestPipeline_DeleteKeepsNotifications(t *testing.T) {
	service, dispatcher, _, notifications := newTestPipeline(&mockMailer{})
	ctx := context.Background()

	rec, _ := service.CreateReclamation(ctx, primary.CreateReclamationRequest{Title: "t", Description: "d", UserID: "42"})
	if err := service.DeleteReclamation(ctx, rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	drainCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = dispatcher.Shutdown(drainCtx)

	all, _ := notifications.List(ctx, secondary.NotificationFilters{ReclamationID: rec.ID})
	if len(all) != 1 {
		t.Errorf("expected historical notification to remain, got %d", len(all))
	}
}
