package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

// ReclamationRepository implements secondary.ReclamationRepository with SQLite.
type ReclamationRepository struct {
	db *sql.DB
}

// NewReclamationRepository creates a new SQLite reclamation repository.
func NewReclamationRepository(db *sql.DB) *ReclamationRepository {
	return &ReclamationRepository{db: db}
}

const reclamationColumns = "id, title, description, user_id, status, created_at, updated_at"

// Create persists a new reclamation.
func (r *ReclamationRepository) Create(ctx context.Context, rec *secondary.ReclamationRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO reclamations ("+reclamationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Title, rec.Description, rec.UserID, rec.Status,
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create reclamation: %w", err)
	}
	return nil
}

// GetByID retrieves a reclamation by its ID.
func (r *ReclamationRepository) GetByID(ctx context.Context, id string) (*secondary.ReclamationRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+reclamationColumns+" FROM reclamations WHERE id = ?", id)
	record, err := scanReclamation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reclamation %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reclamation: %w", err)
	}
	return record, nil
}

// List retrieves reclamations matching the given filters.
func (r *ReclamationRepository) List(ctx context.Context, filters secondary.ReclamationFilters) ([]*secondary.ReclamationRecord, error) {
	query := "SELECT " + reclamationColumns + " FROM reclamations WHERE 1=1"
	args := []any{}

	if filters.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filters.UserID)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reclamations: %w", err)
	}
	defer rows.Close()

	var reclamations []*secondary.ReclamationRecord
	for rows.Next() {
		record, err := scanReclamation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reclamation: %w", err)
		}
		reclamations = append(reclamations, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reclamations: %w", err)
	}

	return reclamations, nil
}

// Update replaces the editable fields of a reclamation.
func (r *ReclamationRepository) Update(ctx context.Context, rec *secondary.ReclamationRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE reclamations SET title = ?, description = ?, user_id = ?, updated_at = ? WHERE id = ?",
		rec.Title, rec.Description, rec.UserID, formatTime(rec.UpdatedAt), rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reclamation: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("reclamation %s: %w", rec.ID, sentinel.ErrNotFound)
	}
	return nil
}

// UpdateStatus sets the status, optionally guarded by the allowed source statuses.
// The guard is evaluated inside the UPDATE so concurrent transitions cannot both win.
func (r *ReclamationRepository) UpdateStatus(ctx context.Context, id, status string, from []string, updatedAt time.Time) error {
	query := "UPDATE reclamations SET status = ?, updated_at = ? WHERE id = ?"
	args := []any{status, formatTime(updatedAt), id}

	if len(from) > 0 {
		query += " AND status IN (" + strings.TrimSuffix(strings.Repeat("?, ", len(from)), ", ") + ")"
		for _, s := range from {
			args = append(args, s)
		}
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update reclamation status: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}

	// Nothing changed: either the row is gone or its status moved on.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("reclamation %s is %s, cannot move to %s: %w", id, current.Status, status, sentinel.ErrInvalidTransition)
}

// Delete removes a reclamation from persistence.
func (r *ReclamationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reclamations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete reclamation: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("reclamation %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

// Ping checks that the database answers.
func (r *ReclamationRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReclamation(row rowScanner) (*secondary.ReclamationRecord, error) {
	var createdAt, updatedAt string
	record := &secondary.ReclamationRecord{}
	err := row.Scan(&record.ID, &record.Title, &record.Description, &record.UserID, &record.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return record, nil
}

// Ensure ReclamationRepository implements the interface
var _ secondary.ReclamationRepository = (*ReclamationRepository)(nil)
