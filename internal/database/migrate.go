package database

import (
	"fmt"

	"github.com/mindgrid-games/mindgrid-web/internal/logger"
)

// SchemaVersion is the version this build expects.
const SchemaVersion = 2

// Migrate brings the database to SchemaVersion. It runs once at startup.
//
// The v1 -> v2 step is data-destroying by design: the legacy per-day tables
// are dropped and rebuilt, and local history is repopulated from the remote
// store by the next sync pass. Do not run it without a configured sync path
// if the local history matters.
func (db *DB) Migrate() error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var version int
	if err := db.Get(&version, `SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	switch version {
	case 0:
		// Fresh database.
		if err := db.createTables(); err != nil {
			return err
		}
	case 1:
		logger.New().Warn("Rebuilding activity tables for schema v2; local history will be re-synced")
		for _, table := range []string{"activities", "hint_usage"} {
			if _, err := db.Exec(`DROP TABLE IF EXISTS ` + table); err != nil {
				return fmt.Errorf("failed to drop %s: %w", table, err)
			}
		}
		if err := db.createTables(); err != nil {
			return err
		}
	case SchemaVersion:
		return nil
	default:
		return fmt.Errorf("database schema version %d is newer than this build (%d)", version, SchemaVersion)
	}

	if _, err := db.Exec(`DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}
