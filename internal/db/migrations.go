package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/example/reclam/internal/logging"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_reclamations_and_notifications",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_activity_logs",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_notification_status_index",
		Up:      migrationV3,
	},
}

// LatestVersion returns the highest known migration version.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

func ensureVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration version (0 when none).
func CurrentVersion(database *sql.DB) (int, error) {
	if err := ensureVersionTable(database); err != nil {
		return 0, err
	}
	var v int
	if err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}

	currentVersion, err := CurrentVersion(database)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logger.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		logger.Info("migration completed", "version", migration.Version)
	}

	return nil
}

// migrationV1 creates the two record tables.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
	`)
	return err
}

// migrationV2 adds the activity log (audit trail).
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
	`)
	return err
}

// migrationV3 indexes notification status for the FAILED/PENDING queries.
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status)`)
	return err
}
