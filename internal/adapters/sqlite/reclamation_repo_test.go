package sqlite_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/reclam/internal/adapters/sqlite"
	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

func TestReclamationRepository_CreateAndGet(t *testing.T) {
	repo := sqlite.NewReclamationRepository(setupTestDB(t))
	ctx := context.Background()

	rec := newReclamation("REC-001", "42", 1500*time.Millisecond)
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "REC-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != rec.Title || got.Description != rec.Description || got.UserID != "42" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.Status != "RECEIVED" {
		t.Errorf("Status = %q, want RECEIVED", got.Status)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) || !got.UpdatedAt.Equal(rec.UpdatedAt) {
		t.Errorf("timestamps did not round-trip: got %v/%v, want %v", got.CreatedAt, got.UpdatedAt, rec.CreatedAt)
	}
}

func TestReclamationRepository_GetByID_NotFound(t *testing.T) {
	repo := sqlite.NewReclamationRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), "REC-404")
	if !errors.Is(err, sentinel.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReclamationRepository_Create_Constraints(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*secondary.ReclamationRecord)
	}{
		{"title too long", func(r *secondary.ReclamationRecord) { r.Title = strings.Repeat("x", 256) }},
		{"description too long", func(r *secondary.ReclamationRecord) { r.Description = strings.Repeat("x", 1001) }},
		{"unknown status", func(r *secondary.ReclamationRecord) { r.Status = "ARCHIVED" }},
		{"updated before created", func(r *secondary.ReclamationRecord) { r.UpdatedAt = r.CreatedAt.Add(-time.Second) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := sqlite.NewReclamationRepository(setupTestDB(t))
			rec := newReclamation("REC-001", "42", 0)
			tt.mutate(rec)
			if err := repo.Create(ctx, rec); err == nil {
				t.Error("expected constraint violation")
			}
		})
	}
}

func TestReclamationRepository_List(t *testing.T) {
	repo := sqlite.NewReclamationRepository(setupTestDB(t))
	ctx := context.Background()

	// Inserted out of order to check the created_at ordering.
	_ = repo.Create(ctx, newReclamation("REC-B", "42", 2*time.Second))
	_ = repo.Create(ctx, newReclamation("REC-A", "42", time.Second))
	_ = repo.Create(ctx, newReclamation("REC-C", "43", 3*time.Second))
	_ = repo.UpdateStatus(ctx, "REC-C", "IN_PROGRESS", nil, testEpoch.Add(4*time.Second))

	tests := []struct {
		name    string
		filters secondary.ReclamationFilters
		wantIDs []string
	}{
		{"all oldest first", secondary.ReclamationFilters{}, []string{"REC-A", "REC-B", "REC-C"}},
		{"by user", secondary.ReclamationFilters{UserID: "42"}, []string{"REC-A", "REC-B"}},
		{"by status", secondary.ReclamationFilters{Status: "IN_PROGRESS"}, []string{"REC-C"}},
		{"no match", secondary.ReclamationFilters{UserID: "99"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d reclamations, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestReclamationRepository_Update(t *testing.T) {
	repo := sqlite.NewReclamationRepository(setupTestDB(t))
	ctx := context.Background()
	_ = repo.Create(ctx, newReclamation("REC-001", "42", 0))

	err := repo.Update(ctx, &secondary.ReclamationRecord{
		ID: "REC-001", Title: "New title", Description: "New description", UserID: "43",
		UpdatedAt: testEpoch.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "REC-001")
	if got.Title != "New title" || got.Description != "New description" || got.UserID != "43" {
		t.Errorf("fields not updated: %+v", got)
	}
	if got.Status != "RECEIVED" {
		t.Errorf("Update must not touch status, got %s", got.Status)
	}
	if !got.UpdatedAt.Equal(testEpoch.Add(time.Minute)) || !got.CreatedAt.Equal(testEpoch) {
		t.Errorf("unexpected timestamps: %v / %v", got.CreatedAt, got.UpdatedAt)
	}

	err = repo.Update(ctx, &secondary.ReclamationRecord{ID: "REC-404", Title: "t", Description: "d", UserID: "42", UpdatedAt: testEpoch})
	if !errors.Is(err, sentinel.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReclamationRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	later := testEpoch.Add(time.Hour)

	tests := []struct {
		name       string
		id         string
		to         string
		from       []string
		wantErr    error
		wantStatus string
	}{
		{"guard satisfied", "REC-001", "IN_PROGRESS", []string{"RECEIVED"}, nil, "IN_PROGRESS"},
		{"guard with several sources", "REC-001", "PROCESSED", []string{"RECEIVED", "IN_PROGRESS"}, nil, "PROCESSED"},
		{"guard rejected", "REC-001", "PROCESSED", []string{"IN_PROGRESS"}, sentinel.ErrInvalidTransition, "RECEIVED"},
		{"unguarded", "REC-001", "PROCESSED", nil, nil, "PROCESSED"},
		{"missing row", "REC-404", "IN_PROGRESS", []string{"RECEIVED"}, sentinel.ErrNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := sqlite.NewReclamationRepository(setupTestDB(t))
			_ = repo.Create(ctx, newReclamation("REC-001", "42", 0))

			err := repo.UpdateStatus(ctx, tt.id, tt.to, tt.from, later)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantStatus == "" {
				return
			}

			got, _ := repo.GetByID(ctx, "REC-001")
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", got.Status, tt.wantStatus)
			}
			if tt.wantErr == nil && !got.UpdatedAt.Equal(later) {
				t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, later)
			}
			if tt.wantErr != nil && !got.UpdatedAt.Equal(testEpoch) {
				t.Errorf("rejected transition must leave UpdatedAt alone, got %v", got.UpdatedAt)
			}
		})
	}
}

func TestReclamationRepository_UpdateStatus_OnlyOneWinner(t *testing.T) {
	repo := sqlite.NewReclamationRepository(setupTestDB(t))
	ctx := context.Background()
	_ = repo.Create(ctx, newReclamation("REC-001", "42", 0))

	first := repo.UpdateStatus(ctx, "REC-001", "IN_PROGRESS", []string{"RECEIVED"}, testEpoch.Add(time.Second))
	second := repo.UpdateStatus(ctx, "REC-001", "IN_PROGRESS", []string{"RECEIVED"}, testEpoch.Add(2*time.Second))

	if first != nil {
		t.Fatalf("first transition should win: %v", first)
	}
	if !errors.Is(second, sentinel.ErrInvalidTransition) {
		t.Errorf("second transition should lose with ErrInvalidTransition, got %v", second)
	}
}

func TestReclamationRepository_Delete(t *testing.T) {
	repo := sqlite.NewReclamationRepository(setupTestDB(t))
	ctx := context.Background()
	_ = repo.Create(ctx, newReclamation("REC-001", "42", 0))

	if err := repo.Delete(ctx, "REC-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, "REC-001"); !errors.Is(err, sentinel.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "REC-001"); !errors.Is(err, sentinel.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestReclamationRepository_Ping(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewReclamationRepository(testDB)

	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping on open db: %v", err)
	}
	testDB.Close()
	if err := repo.Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail on closed db")
	}
}
