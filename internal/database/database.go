package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mindgrid-games/mindgrid-web/internal/logger"
)

type DB struct {
	*sqlx.DB
}

// NewDB creates a new database connection
func NewDB(databaseURL string) (*DB, error) {
	if databaseURL == "" {
		databaseURL = "mindgrid.db" // Default SQLite file
	}

	db, err := sqlx.Connect("sqlite3", databaseURL+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbWrapper := &DB{DB: db}

	if err := dbWrapper.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.New().Info("Database connection established and schema migrated")
	return dbWrapper, nil
}

// createTables creates the necessary database tables
func (db *DB) createTables() error {
	// One row per (uid, date); date is the canonical key, empty uid is the
	// anonymous local player. synced is an INTEGER flag so range queries on
	// it stay well-typed.
	activitiesTable := `
	CREATE TABLE IF NOT EXISTS activities (
		uid TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		time_taken INTEGER NOT NULL DEFAULT 0,
		difficulty TEXT NOT NULL DEFAULT 'easy',
		solved BOOLEAN NOT NULL DEFAULT FALSE,
		attempts INTEGER NOT NULL DEFAULT 1,
		puzzle_seed TEXT NOT NULL DEFAULT '',
		synced INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (uid, date)
	);`

	hintUsageTable := `
	CREATE TABLE IF NOT EXISTS hint_usage (
		uid TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		difficulty TEXT NOT NULL DEFAULT 'easy',
		hints_used INTEGER NOT NULL DEFAULT 0,
		budget INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (uid, date)
	);`

	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		display_name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_login_at DATETIME
	);`

	// Create indexes for better performance
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_activities_uid_synced ON activities(uid, synced);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date);`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);`,
	}

	// Execute table creation
	for _, query := range []string{activitiesTable, hintUsageTable, usersTable} {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Create indexes
	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
