package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	corereclamation "github.com/example/reclam/internal/core/reclamation"
	"github.com/example/reclam/internal/ctxutil"
	"github.com/example/reclam/internal/logging"
	"github.com/example/reclam/internal/metrics"
	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

const entityReclamation = "reclamation"

// ReclamationServiceImpl implements the ReclamationService interface.
// It is the only writer of the reclamation store.
type ReclamationServiceImpl struct {
	repo       secondary.ReclamationRepository
	identity   secondary.IdentityGate
	dispatcher primary.NotificationDispatcher
	logWriter  secondary.LogWriter
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer

	now   func() time.Time
	newID func() string
}

// NewReclamationService creates a new ReclamationService with injected dependencies.
// logWriter, m and logger may be nil.
func NewReclamationService(
	repo secondary.ReclamationRepository,
	identity secondary.IdentityGate,
	dispatcher primary.NotificationDispatcher,
	logWriter secondary.LogWriter,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ReclamationServiceImpl {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ReclamationServiceImpl{
		repo:       repo,
		identity:   identity,
		dispatcher: dispatcher,
		logWriter:  logWriter,
		metrics:    m,
		logger:     logger.With("component", "reclamation_service"),
		tracer:     otel.Tracer("reclam/app"),
		now:        time.Now,
		newID:      func() string { return "REC-" + uuid.NewString() },
	}
}

// CreateReclamation validates input and owner, persists a RECEIVED reclamation
// and emits the RECUE lifecycle event.
func (s *ReclamationServiceImpl) CreateReclamation(ctx context.Context, req primary.CreateReclamationRequest) (*primary.Reclamation, error) {
	ctx, span := s.tracer.Start(ctx, "reclamation.Create")
	defer span.End()

	// Guard: well formed input
	if result := corereclamation.CanAcceptInput(corereclamation.InputContext{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
	}); !result.Allowed {
		return nil, s.fail(ctx, span, "create", result.Error())
	}

	// Owner must exist; nothing is written otherwise
	if err := s.checkUser(ctx, req.UserID); err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	now := s.now()
	record := &secondary.ReclamationRecord{
		ID:          s.newID(),
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		Status:      string(corereclamation.InitialStatus()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, s.fail(ctx, span, "create", fmt.Errorf("failed to create reclamation: %w", err))
	}
	span.SetAttributes(attribute.String("reclamation.id", record.ID))

	s.audit(ctx, s.logCreate(ctx, record.ID))
	s.logger.InfoContext(ctx, "reclamation created",
		"reclamation_id", record.ID,
		"user_id", record.UserID,
		"actor", ctxutil.ActorFromContext(ctx))
	s.metrics.IncOperation("create")

	s.emit(ctx, record, "", corereclamation.ActionReceived)
	return recordToReclamation(record), nil
}

// GetReclamation retrieves a reclamation by ID.
func (s *ReclamationServiceImpl) GetReclamation(ctx context.Context, id string) (*primary.Reclamation, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToReclamation(record), nil
}

// ListReclamations lists reclamations with optional filters.
func (s *ReclamationServiceImpl) ListReclamations(ctx context.Context, filters primary.ReclamationFilters) ([]*primary.Reclamation, error) {
	repoFilters := secondary.ReclamationFilters{UserID: filters.UserID}
	if filters.Status != "" {
		status, err := corereclamation.ParseStatus(filters.Status)
		if err != nil {
			return nil, err
		}
		repoFilters.Status = string(status)
	}

	records, err := s.repo.List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list reclamations: %w", err)
	}

	reclamations := make([]*primary.Reclamation, len(records))
	for i, r := range records {
		reclamations[i] = recordToReclamation(r)
	}
	return reclamations, nil
}

// UpdateReclamation replaces the editable fields. The owner is re-validated only
// when it changes. Status is untouched and no notification is emitted.
func (s *ReclamationServiceImpl) UpdateReclamation(ctx context.Context, req primary.UpdateReclamationRequest) (*primary.Reclamation, error) {
	ctx, span := s.tracer.Start(ctx, "reclamation.Update", trace.WithAttributes(attribute.String("reclamation.id", req.ID)))
	defer span.End()

	if result := corereclamation.CanAcceptInput(corereclamation.InputContext{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
	}); !result.Allowed {
		return nil, s.fail(ctx, span, "update", result.Error())
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	if corereclamation.NeedsIdentityCheck(corereclamation.UpdateContext{
		CurrentUserID: record.UserID,
		NewUserID:     req.UserID,
	}) {
		if err := s.checkUser(ctx, req.UserID); err != nil {
			return nil, s.fail(ctx, span, "update", err)
		}
	}

	before := *record
	record.Title = req.Title
	record.Description = req.Description
	record.UserID = req.UserID
	record.UpdatedAt = s.touch(record)

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, s.fail(ctx, span, "update", fmt.Errorf("failed to update reclamation: %w", err))
	}

	for _, change := range []struct{ field, from, to string }{
		{"title", before.Title, record.Title},
		{"description", before.Description, record.Description},
		{"user_id", before.UserID, record.UserID},
	} {
		if change.from != change.to {
			s.audit(ctx, s.logUpdate(ctx, record.ID, change.field, change.from, change.to))
		}
	}
	s.logger.InfoContext(ctx, "reclamation updated",
		"reclamation_id", record.ID,
		"actor", ctxutil.ActorFromContext(ctx))
	s.metrics.IncOperation("update")

	return recordToReclamation(record), nil
}

// TakeInCharge moves a RECEIVED reclamation to IN_PROGRESS.
func (s *ReclamationServiceImpl) TakeInCharge(ctx context.Context, id string) (*primary.Reclamation, error) {
	ctx, span := s.tracer.Start(ctx, "reclamation.TakeInCharge", trace.WithAttributes(attribute.String("reclamation.id", id)))
	defer span.End()

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "take_in_charge", err)
	}

	// Guard: only RECEIVED can be taken in charge
	guardCtx := corereclamation.StatusTransitionContext{ReclamationID: id, Status: corereclamation.Status(record.Status)}
	if result := corereclamation.CanTakeInCharge(guardCtx); !result.Allowed {
		return nil, s.fail(ctx, span, "take_in_charge", result.Error())
	}

	if err := s.transition(ctx, record, corereclamation.StatusInProgress); err != nil {
		return nil, s.fail(ctx, span, "take_in_charge", err)
	}
	s.metrics.IncOperation("take_in_charge")
	return recordToReclamation(record), nil
}

// Process moves a RECEIVED or IN_PROGRESS reclamation to PROCESSED.
func (s *ReclamationServiceImpl) Process(ctx context.Context, id string) (*primary.Reclamation, error) {
	ctx, span := s.tracer.Start(ctx, "reclamation.Process", trace.WithAttributes(attribute.String("reclamation.id", id)))
	defer span.End()

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "process", err)
	}

	// Guard: anything but PROCESSED
	guardCtx := corereclamation.StatusTransitionContext{ReclamationID: id, Status: corereclamation.Status(record.Status)}
	if result := corereclamation.CanProcess(guardCtx); !result.Allowed {
		return nil, s.fail(ctx, span, "process", result.Error())
	}

	if err := s.transition(ctx, record, corereclamation.StatusProcessed); err != nil {
		return nil, s.fail(ctx, span, "process", err)
	}
	s.metrics.IncOperation("process")
	return recordToReclamation(record), nil
}

// SetStatus overwrites the status without guards. Administrative correction only:
// no lifecycle event is emitted.
func (s *ReclamationServiceImpl) SetStatus(ctx context.Context, id, status string) (*primary.Reclamation, error) {
	ctx, span := s.tracer.Start(ctx, "reclamation.SetStatus", trace.WithAttributes(attribute.String("reclamation.id", id)))
	defer span.End()

	target, err := corereclamation.ParseStatus(status)
	if err != nil {
		return nil, s.fail(ctx, span, "set_status", err)
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "set_status", err)
	}

	previous := record.Status
	updatedAt := s.touch(record)
	if err := s.repo.UpdateStatus(ctx, id, string(target), nil, updatedAt); err != nil {
		return nil, s.fail(ctx, span, "set_status", err)
	}
	record.Status = string(target)
	record.UpdatedAt = updatedAt

	s.audit(ctx, s.logUpdate(ctx, id, "status", previous, record.Status))
	s.logger.InfoContext(ctx, "reclamation status overwritten",
		"reclamation_id", id,
		"from", previous,
		"to", record.Status,
		"actor", ctxutil.ActorFromContext(ctx))
	s.metrics.IncOperation("set_status")
	return recordToReclamation(record), nil
}

// DeleteReclamation removes a reclamation. Its notifications are kept.
func (s *ReclamationServiceImpl) DeleteReclamation(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "reclamation.Delete", trace.WithAttributes(attribute.String("reclamation.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, span, "delete", err)
	}

	s.audit(ctx, s.logDelete(ctx, id))
	s.logger.InfoContext(ctx, "reclamation deleted",
		"reclamation_id", id,
		"actor", ctxutil.ActorFromContext(ctx))
	s.metrics.IncOperation("delete")
	return nil
}

// Helper methods

// transition performs a guarded status write as a compare-and-set against the
// statuses the target may be entered from, then emits the lifecycle event.
// A concurrent caller that moved the reclamation first makes the write fail
// with ErrInvalidTransition.
func (s *ReclamationServiceImpl) transition(ctx context.Context, record *secondary.ReclamationRecord, to corereclamation.Status) error {
	from := record.Status
	updatedAt := s.touch(record)

	sources := corereclamation.SourceStatuses(to)
	expected := make([]string, len(sources))
	for i, st := range sources {
		expected[i] = string(st)
	}

	if err := s.repo.UpdateStatus(ctx, record.ID, string(to), expected, updatedAt); err != nil {
		return err
	}
	record.Status = string(to)
	record.UpdatedAt = updatedAt

	s.audit(ctx, s.logUpdate(ctx, record.ID, "status", from, record.Status))
	s.logger.InfoContext(ctx, "reclamation status changed",
		"reclamation_id", record.ID,
		"from", from,
		"to", record.Status,
		"actor", ctxutil.ActorFromContext(ctx))

	s.emit(ctx, record, from, corereclamation.ActionFor(to))
	return nil
}

// emit hands a lifecycle event to the dispatcher. The reclamation write has already
// committed; nothing here can fail the caller.
func (s *ReclamationServiceImpl) emit(ctx context.Context, record *secondary.ReclamationRecord, previous, action string) {
	event := primary.LifecycleEvent{
		ReclamationID:    record.ID,
		ReclamationTitle: record.Title,
		UserID:           record.UserID,
		ActionCode:       action,
		PreviousStatus:   previous,
		NewStatus:        record.Status,
	}

	start := time.Now()
	profile, err := s.identity.GetUser(ctx, record.UserID)
	s.metrics.ObserveIdentity("profile", err, time.Since(start))
	if err != nil {
		// Delivery will record the missing recipient as a failure.
		s.logger.WarnContext(ctx, "recipient profile unavailable",
			"reclamation_id", record.ID,
			"user_id", record.UserID,
			"error", err)
	} else {
		event.UserEmail = profile.Email
		event.UserName = profile.Name
	}

	if _, err := s.dispatcher.Dispatch(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "notification dispatch failed",
			"reclamation_id", record.ID,
			"action", action,
			"error", err)
	}
}

// checkUser asks the identity gate whether userID exists.
func (s *ReclamationServiceImpl) checkUser(ctx context.Context, userID string) error {
	start := time.Now()
	exists, err := s.identity.Exists(ctx, userID)
	s.metrics.ObserveIdentity("exists", err, time.Since(start))
	if err != nil {
		if !errors.Is(err, sentinel.ErrUpstreamUnavailable) {
			err = fmt.Errorf("%w: %w", sentinel.ErrUpstreamUnavailable, err)
		}
		return fmt.Errorf("failed to verify user %s: %w", userID, err)
	}
	if !exists {
		return fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
	}
	return nil
}

// touch returns the next updated_at, never earlier than created_at.
func (s *ReclamationServiceImpl) touch(record *secondary.ReclamationRecord) time.Time {
	now := s.now()
	if now.Before(record.CreatedAt) {
		return record.CreatedAt
	}
	return now
}

func (s *ReclamationServiceImpl) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	code := sentinel.Code(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.IncOperationError(operation, code)
	s.logger.WarnContext(ctx, "reclamation operation rejected",
		"operation", operation,
		"code", code,
		"actor", ctxutil.ActorFromContext(ctx),
		"error", err)
	return err
}

func (s *ReclamationServiceImpl) logCreate(ctx context.Context, id string) error {
	if s.logWriter == nil {
		return nil
	}
	return s.logWriter.LogCreate(ctx, entityReclamation, id)
}

func (s *ReclamationServiceImpl) logUpdate(ctx context.Context, id, field, oldValue, newValue string) error {
	if s.logWriter == nil {
		return nil
	}
	return s.logWriter.LogUpdate(ctx, entityReclamation, id, field, oldValue, newValue)
}

func (s *ReclamationServiceImpl) logDelete(ctx context.Context, id string) error {
	if s.logWriter == nil {
		return nil
	}
	return s.logWriter.LogDelete(ctx, entityReclamation, id)
}

// audit reports an activity log write failure without failing the operation.
func (s *ReclamationServiceImpl) audit(ctx context.Context, err error) {
	if err != nil {
		s.logger.WarnContext(ctx, "activity log write failed", "error", err)
	}
}

func recordToReclamation(r *secondary.ReclamationRecord) *primary.Reclamation {
	return &primary.Reclamation{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		UserID:      r.UserID,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Ensure ReclamationServiceImpl implements the interface
var _ primary.ReclamationService = (*ReclamationServiceImpl)(nil)
