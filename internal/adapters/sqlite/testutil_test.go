// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema rather than a hand-written copy.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/reclam/internal/db"
	"github.com/example/reclam/internal/ports/secondary"
)

var testEpoch = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// newReclamation returns a RECEIVED reclamation record created at testEpoch+offset.
func newReclamation(id, userID string, offset time.Duration) *secondary.ReclamationRecord {
	at := testEpoch.Add(offset)
	return &secondary.ReclamationRecord{
		ID:          id,
		Title:       "Title " + id,
		Description: "Description " + id,
		UserID:      userID,
		Status:      "RECEIVED",
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

// newPendingNotification returns a PENDING notification for reclamationID.
func newPendingNotification(id, reclamationID, userID string, offset time.Duration) *secondary.NotificationRecord {
	return &secondary.NotificationRecord{
		ID:             id,
		ReclamationID:  reclamationID,
		UserID:         userID,
		RecipientEmail: "alice@example.com",
		RecipientName:  "Alice Martin",
		Type:           "RECLAMATION_RECEIVED",
		ActionCode:     "RECUE",
		Subject:        "Reclamation #" + reclamationID + " - Received",
		Body:           "Hello Alice Martin,",
		Status:         "PENDING",
		CreatedAt:      testEpoch.Add(offset),
	}
}
