package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	corenotification "github.com/example/reclam/internal/core/notification"
	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

// NotificationRepository implements secondary.NotificationRepository with SQLite.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = "id, reclamation_id, user_id, recipient_email, recipient_name, type, action_code, subject, body, status, created_at, sent_at, error_message"

// Create persists a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *secondary.NotificationRecord) error {
	var sentAt sql.NullString
	if n.SentAt != nil {
		sentAt = sql.NullString{String: formatTime(*n.SentAt), Valid: true}
	}

	status := "PENDING"
	if n.Status != "" {
		status = n.Status
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications ("+notificationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		n.ID, n.ReclamationID, n.UserID,
		nullString(n.RecipientEmail), nullString(n.RecipientName),
		n.Type, n.ActionCode, n.Subject, n.Body, status,
		formatTime(n.CreatedAt), sentAt, nullString(n.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by its ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*secondary.NotificationRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+notificationColumns+" FROM notifications WHERE id = ?", id)
	record, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return record, nil
}

// List retrieves notifications matching the given filters.
func (r *NotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*secondary.NotificationRecord, error) {
	query := "SELECT " + notificationColumns + " FROM notifications WHERE 1=1"
	args := []any{}

	if filters.ReclamationID != "" {
		query += " AND reclamation_id = ?"
		args = append(args, filters.ReclamationID)
	}

	if filters.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filters.UserID)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*secondary.NotificationRecord
	for rows.Next() {
		record, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

// MarkSent moves a PENDING notification to SENT.
func (r *NotificationRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET status = 'SENT', sent_at = ?, error_message = NULL WHERE id = ? AND status = 'PENDING'",
		formatTime(sentAt), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return r.checkFinalized(ctx, result, id)
}

// MarkFailed moves a PENDING notification to FAILED.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id, errorMessage string) error {
	if errorMessage == "" {
		errorMessage = "unknown error"
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET status = 'FAILED', error_message = ?, sent_at = NULL WHERE id = ? AND status = 'PENDING'",
		errorMessage, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}
	return r.checkFinalized(ctx, result, id)
}

// checkFinalized turns a no-op status write into NotFound or InvalidTransition.
func (r *NotificationRepository) checkFinalized(ctx context.Context, result sql.Result, id string) error {
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := corenotification.CanFinalize(corenotification.FinalizeContext{
		NotificationID: id,
		Status:         corenotification.Status(current.Status),
	}).Error(); err != nil {
		return err
	}
	// Still PENDING yet nothing changed: the row moved under us and back.
	return fmt.Errorf("notification %s was not finalized: %w", id, sentinel.ErrInvalidTransition)
}

func scanNotification(row rowScanner) (*secondary.NotificationRecord, error) {
	var (
		recipientEmail sql.NullString
		recipientName  sql.NullString
		createdAt      string
		sentAt         sql.NullString
		errorMessage   sql.NullString
	)

	record := &secondary.NotificationRecord{}
	err := row.Scan(&record.ID, &record.ReclamationID, &record.UserID, &recipientEmail, &recipientName,
		&record.Type, &record.ActionCode, &record.Subject, &record.Body, &record.Status,
		&createdAt, &sentAt, &errorMessage)
	if err != nil {
		return nil, err
	}

	record.RecipientEmail = recipientEmail.String
	record.RecipientName = recipientName.String
	record.ErrorMessage = errorMessage.String
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sentAt.Valid {
		t, err := parseTime(sentAt.String)
		if err != nil {
			return nil, err
		}
		record.SentAt = &t
	}
	return record, nil
}

// Ensure NotificationRepository implements the interface
var _ secondary.NotificationRepository = (*NotificationRepository)(nil)
