package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

// MaxLogLimit caps one page of audit entries.
const MaxLogLimit = 1000

// auditActions are the actions the audit trail records.
var auditActions = map[string]bool{"create": true, "update": true, "delete": true}

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	logRepo secondary.ActivityLogRepository
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(logRepo secondary.ActivityLogRepository) *LogServiceImpl {
	return &LogServiceImpl{
		logRepo: logRepo,
	}
}

// ListLogs retrieves audit entries matching the given filters.
// Entity type and action are matched case-insensitively; a zero limit means no
// limit and anything above MaxLogLimit is capped.
func (s *LogServiceImpl) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	query, err := auditQuery(filters)
	if err != nil {
		return nil, err
	}

	records, err := s.logRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	entries := make([]*primary.LogEntry, len(records))
	for i, r := range records {
		entries[i] = s.recordToLogEntry(r)
	}
	return entries, nil
}

// GetLog retrieves a single log entry by ID.
func (s *LogServiceImpl) GetLog(ctx context.Context, id string) (*primary.LogEntry, error) {
	record, err := s.logRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.recordToLogEntry(record), nil
}

// PruneLogs deletes log entries older than the specified number of days.
func (s *LogServiceImpl) PruneLogs(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, fmt.Errorf("retention must be at least 1 day, got %d: %w", olderThanDays, sentinel.ErrValidation)
	}
	return s.logRepo.PruneOlderThan(ctx, olderThanDays)
}

// Helper methods

func auditQuery(filters primary.LogFilters) (secondary.ActivityLogFilters, error) {
	entityType := strings.ToLower(strings.TrimSpace(filters.EntityType))
	if entityType != "" && entityType != entityReclamation {
		return secondary.ActivityLogFilters{}, fmt.Errorf("unknown entity type %q (only %s is audited): %w",
			filters.EntityType, entityReclamation, sentinel.ErrValidation)
	}
	action := strings.ToLower(strings.TrimSpace(filters.Action))
	if action != "" && !auditActions[action] {
		return secondary.ActivityLogFilters{}, fmt.Errorf("unknown audit action %q (create, update or delete): %w",
			filters.Action, sentinel.ErrValidation)
	}
	if filters.Limit < 0 {
		return secondary.ActivityLogFilters{}, fmt.Errorf("limit must not be negative, got %d: %w", filters.Limit, sentinel.ErrValidation)
	}
	limit := filters.Limit
	if limit > MaxLogLimit {
		limit = MaxLogLimit
	}

	return secondary.ActivityLogFilters{
		EntityType: entityType,
		EntityID:   strings.TrimSpace(filters.EntityID),
		ActorID:    strings.TrimSpace(filters.ActorID),
		Action:     action,
		Limit:      limit,
	}, nil
}

func (s *LogServiceImpl) recordToLogEntry(r *secondary.ActivityLogRecord) *primary.LogEntry {
	return &primary.LogEntry{
		ID:         r.ID,
		Timestamp:  r.Timestamp,
		ActorID:    r.ActorID,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Action:     r.Action,
		FieldName:  r.FieldName,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
	}
}

// Ensure LogServiceImpl implements the interface
var _ primary.LogService = (*LogServiceImpl)(nil)
