package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

// ActivityLogRepository implements secondary.ActivityLogRepository with SQLite.
type ActivityLogRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewActivityLogRepository creates a new SQLite activity log repository.
func NewActivityLogRepository(db *sql.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db, now: time.Now}
}

const activityLogColumns = "id, timestamp, actor_id, entity_type, entity_id, action, field_name, old_value, new_value"

// Create persists a new activity log entry.
func (r *ActivityLogRepository) Create(ctx context.Context, log *secondary.ActivityLogRecord) error {
	timestamp := log.Timestamp
	if timestamp.IsZero() {
		timestamp = r.now()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO activity_logs ("+activityLogColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		log.ID,
		formatTime(timestamp),
		nullString(log.ActorID),
		log.EntityType,
		log.EntityID,
		log.Action,
		nullString(log.FieldName),
		nullString(log.OldValue),
		nullString(log.NewValue),
	)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}

	return nil
}

// GetByID retrieves a log entry by its ID.
func (r *ActivityLogRepository) GetByID(ctx context.Context, id string) (*secondary.ActivityLogRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+activityLogColumns+" FROM activity_logs WHERE id = ?", id)
	record, err := scanActivityLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity log %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity log: %w", err)
	}
	return record, nil
}

// List retrieves log entries matching the given filters, newest first.
func (r *ActivityLogRepository) List(ctx context.Context, filters secondary.ActivityLogFilters) ([]*secondary.ActivityLogRecord, error) {
	query := "SELECT " + activityLogColumns + " FROM activity_logs WHERE 1=1"
	args := []any{}

	if filters.EntityType != "" {
		query += " AND entity_type = ?"
		args = append(args, filters.EntityType)
	}

	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}

	if filters.ActorID != "" {
		query += " AND actor_id = ?"
		args = append(args, filters.ActorID)
	}

	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.ActivityLogRecord
	for rows.Next() {
		record, err := scanActivityLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}

	return logs, nil
}

// PruneOlderThan deletes log entries older than the given number of days.
func (r *ActivityLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	cutoff := r.now().AddDate(0, 0, -days)
	result, err := r.db.ExecContext(ctx, "DELETE FROM activity_logs WHERE timestamp < ?", formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity logs: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

func scanActivityLog(row rowScanner) (*secondary.ActivityLogRecord, error) {
	var (
		timestamp string
		actorID   sql.NullString
		fieldName sql.NullString
		oldValue  sql.NullString
		newValue  sql.NullString
	)

	record := &secondary.ActivityLogRecord{}
	err := row.Scan(&record.ID,
		&timestamp,
		&actorID,
		&record.EntityType,
		&record.EntityID,
		&record.Action,
		&fieldName,
		&oldValue,
		&newValue)
	if err != nil {
		return nil, err
	}

	if record.Timestamp, err = parseTime(timestamp); err != nil {
		return nil, err
	}
	record.ActorID = actorID.String
	record.FieldName = fieldName.String
	record.OldValue = oldValue.String
	record.NewValue = newValue.String
	return record, nil
}

// Ensure ActivityLogRepository implements the interface
var _ secondary.ActivityLogRepository = (*ActivityLogRepository)(nil)
