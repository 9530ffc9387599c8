package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	corenotification "github.com/example/reclam/internal/core/notification"
	"github.com/example/reclam/internal/logging"
	"github.com/example/reclam/internal/metrics"
	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/ports/secondary"
)

// DefaultDeliveryWorkers bounds concurrent delivery attempts when none is configured.
const DefaultDeliveryWorkers = 4

var (
	errRecipientUnknown = errors.New("recipient unknown: no email address for user")
	errDispatcherClosed = errors.New("notification dispatcher is shut down")
)

// NotificationDispatcherImpl implements the NotificationDispatcher interface.
// It is the only writer of the notification store.
type NotificationDispatcherImpl struct {
	repo    secondary.NotificationRepository
	mailer  secondary.Mailer
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer

	now   func() time.Time
	newID func() string

	sem      chan struct{}
	wg       sync.WaitGroup
	inFlight atomic.Int64
	mu       sync.Mutex
	closed   bool
}

// NewNotificationDispatcher creates a dispatcher running at most workers
// delivery attempts at once. m and logger may be nil.
func NewNotificationDispatcher(
	repo secondary.NotificationRepository,
	mailer secondary.Mailer,
	workers int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *NotificationDispatcherImpl {
	if workers <= 0 {
		workers = DefaultDeliveryWorkers
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &NotificationDispatcherImpl{
		repo:    repo,
		mailer:  mailer,
		metrics: m,
		logger:  logger.With("component", "notification_dispatcher"),
		tracer:  otel.Tracer("reclam/app"),
		now:     time.Now,
		newID:   func() string { return "NOTIF-" + uuid.NewString() },
		sem:     make(chan struct{}, workers),
	}
}

// Dispatch runs the synchronous phase: derive the notice type, render it and persist
// it as PENDING. Delivery is then started in the background and never awaited here.
func (d *NotificationDispatcherImpl) Dispatch(ctx context.Context, event primary.LifecycleEvent) (*primary.Notification, error) {
	ctx, span := d.tracer.Start(ctx, "notification.Dispatch", trace.WithAttributes(
		attribute.String("reclamation.id", event.ReclamationID),
		attribute.String("notification.action", event.ActionCode),
	))
	defer span.End()

	notification, err := d.persistPending(ctx, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.metrics.IncNotification("dispatch_error")
		return nil, err
	}
	return notification, nil
}

func (d *NotificationDispatcherImpl) persistPending(ctx context.Context, event primary.LifecycleEvent) (*primary.Notification, error) {
	typ, err := corenotification.TypeForAction(event.ActionCode)
	if err != nil {
		return nil, err
	}
	msg, err := corenotification.Render(typ, event.UserName, event.ReclamationID)
	if err != nil {
		return nil, err
	}

	// Registering with the wait group under the lock keeps Shutdown from
	// missing a delivery that is about to start.
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, errDispatcherClosed
	}
	d.wg.Add(1)
	d.inFlight.Add(1)
	d.mu.Unlock()

	started := false
	defer func() {
		if !started {
			d.done()
		}
	}()

	record := secondary.NotificationRecord{
		ID:             d.newID(),
		ReclamationID:  event.ReclamationID,
		UserID:         event.UserID,
		RecipientEmail: event.UserEmail,
		RecipientName:  event.UserName,
		Type:           string(typ),
		ActionCode:     event.ActionCode,
		Subject:        msg.Subject,
		Body:           msg.Body,
		Status:         string(corenotification.StatusPending),
		CreatedAt:      d.now(),
	}
	if err := d.repo.Create(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	d.metrics.IncNotification("pending")
	d.logger.InfoContext(ctx, "notification pending",
		"notification_id", record.ID,
		"reclamation_id", record.ReclamationID,
		"type", record.Type)

	notification := recordToNotification(&record)

	started = true
	go d.deliver(context.WithoutCancel(ctx), record)

	return notification, nil
}

// deliver runs the asynchronous phase: one attempt, outcome recorded once.
func (d *NotificationDispatcherImpl) deliver(ctx context.Context, n secondary.NotificationRecord) {
	defer d.done()

	d.sem <- struct{}{}
	defer func() { <-d.sem }()

	ctx, span := d.tracer.Start(ctx, "notification.Deliver", trace.WithAttributes(
		attribute.String("notification.id", n.ID),
		attribute.String("reclamation.id", n.ReclamationID),
	))
	defer span.End()

	d.metrics.DeliveryStarted()
	start := time.Now()
	err := d.attempt(ctx, n)
	elapsed := time.Since(start)
	d.metrics.DeliveryFinished(elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		detail := err.Error()
		if detail == "" {
			detail = "delivery failed"
		}
		if markErr := d.repo.MarkFailed(ctx, n.ID, detail); markErr != nil {
			d.logger.ErrorContext(ctx, "failed to record delivery failure",
				"notification_id", n.ID,
				"error", markErr)
			return
		}
		d.metrics.IncNotification("failed")
		d.logger.WarnContext(ctx, "notification delivery failed",
			"notification_id", n.ID,
			"reclamation_id", n.ReclamationID,
			"duration", elapsed,
			"error", err)
		return
	}

	if markErr := d.repo.MarkSent(ctx, n.ID, d.now()); markErr != nil {
		d.logger.ErrorContext(ctx, "failed to record delivery success",
			"notification_id", n.ID,
			"error", markErr)
		return
	}
	d.metrics.IncNotification("sent")
	d.logger.InfoContext(ctx, "notification sent",
		"notification_id", n.ID,
		"reclamation_id", n.ReclamationID,
		"duration", elapsed)
}

// attempt calls the mailer once. A panicking mailer counts as a failed attempt.
func (d *NotificationDispatcherImpl) attempt(ctx context.Context, n secondary.NotificationRecord) (err error) {
	if n.RecipientEmail == "" {
		return errRecipientUnknown
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mailer panic: %v", r)
		}
	}()
	return d.mailer.Send(ctx, n.RecipientEmail, n.Subject, n.Body)
}

func (d *NotificationDispatcherImpl) done() {
	d.inFlight.Add(-1)
	d.wg.Done()
}

// InFlight returns the number of deliveries started but not yet recorded.
func (d *NotificationDispatcherImpl) InFlight() int {
	return int(d.inFlight.Load())
}

// Shutdown stops accepting events and waits for in-flight deliveries until ctx is done.
// When ctx ends first, the error reports how many deliveries were abandoned; their
// notifications stay PENDING unless the store outlives them.
func (d *NotificationDispatcherImpl) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		abandoned := d.InFlight()
		d.logger.WarnContext(ctx, "notification drain interrupted", "abandoned", abandoned)
		return fmt.Errorf("notification drain interrupted with %d deliveries in flight: %w", abandoned, ctx.Err())
	}
}

func recordToNotification(r *secondary.NotificationRecord) *primary.Notification {
	return &primary.Notification{
		ID:             r.ID,
		ReclamationID:  r.ReclamationID,
		UserID:         r.UserID,
		RecipientEmail: r.RecipientEmail,
		RecipientName:  r.RecipientName,
		Type:           r.Type,
		ActionCode:     r.ActionCode,
		Subject:        r.Subject,
		Body:           r.Body,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		SentAt:         r.SentAt,
		ErrorMessage:   r.ErrorMessage,
	}
}

// Ensure NotificationDispatcherImpl implements the interface
var _ primary.NotificationDispatcher = (*NotificationDispatcherImpl)(nil)
