package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// SchemaSQL is the complete modern schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests
// load it via GetSchemaSQL() instead of declaring their own tables, so a column
// referenced by repository code but missing here fails with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `go test ./internal/...` to verify alignment
//
// Timestamps are fixed-width UTC text (see sqlite.TimeLayout) so that they
// compare correctly as strings.
const SchemaSQL = `
-- Reclamations (complaints tracked through RECEIVED -> IN_PROGRESS -> PROCESSED)
CREATE TABLE IF NOT EXISTS reclamations (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL CHECK(length(title) <= 255),
	description TEXT NOT NULL CHECK(length(description) <= 1000),
	user_id TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('RECEIVED', 'IN_PROGRESS', 'PROCESSED')) DEFAULT 'RECEIVED',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	CHECK(created_at <= updated_at)
);

CREATE INDEX IF NOT EXISTS idx_reclamations_user ON reclamations(user_id);
CREATE INDEX IF NOT EXISTS idx_reclamations_status ON reclamations(status);

-- Notifications (one per lifecycle event; reclamation_id is a plain reference, no FK)
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	reclamation_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	recipient_email TEXT,
	recipient_name TEXT,
	type TEXT NOT NULL CHECK(type IN ('RECLAMATION_RECEIVED', 'RECLAMATION_TAKEN_IN_CHARGE', 'RECLAMATION_PROCESSED')),
	action_code TEXT NOT NULL,
	subject TEXT NOT NULL,
	body TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('PENDING', 'SENT', 'FAILED')) DEFAULT 'PENDING',
	created_at TEXT NOT NULL,
	sent_at TEXT,
	error_message TEXT,
	CHECK((status = 'SENT') = (sent_at IS NOT NULL)),
	CHECK((status = 'FAILED') = (error_message IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_notifications_reclamation ON notifications(reclamation_id);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);
CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status);

-- Activity logs (audit trail of reclamation mutations)
CREATE TABLE IF NOT EXISTS activity_logs (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	actor_id TEXT,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT
);

CREATE INDEX IF NOT EXISTS idx_activity_logs_entity ON activity_logs(entity_type, entity_id);
CREATE INDEX IF NOT EXISTS idx_activity_logs_timestamp ON activity_logs(timestamp);
`

// InitSchema brings the database to the current schema.
// Fresh databases get SchemaSQL directly with every migration marked applied;
// databases that already have tables go through RunMigrations.
func InitSchema(database *sql.DB, logger *slog.Logger) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if tableCount > 0 {
		return RunMigrations(database, logger)
	}

	// No schema_version: either a completely fresh file or one created before versioning.
	var existing int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('reclamations', 'notifications')").Scan(&existing)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if existing > 0 {
		return RunMigrations(database, logger)
	}

	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := ensureVersionTable(database); err != nil {
		return err
	}
	// Mark all migrations as applied for fresh installs
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
