// Package store implements the persistence collaborators over sqlite. The
// engines never touch it directly; they consume the snapshots it returns.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mindgrid-games/mindgrid-web/internal/database"
	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

type ActivityStore struct {
	db *database.DB
}

func NewActivityStore(db *database.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// GetByDate returns the activity record for a date, or nil if the player has
// none for that date.
func (s *ActivityStore) GetByDate(uid, date string) (*models.Activity, error) {
	var activity models.Activity
	query := `SELECT uid, date, score, time_taken, difficulty, solved, attempts, puzzle_seed, synced, created_at, updated_at
			  FROM activities WHERE uid = ? AND date = ?`

	err := s.db.Get(&activity, query, uid, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return &activity, nil
}

// GetAll returns the player's full activity log, newest first.
func (s *ActivityStore) GetAll(uid string) ([]models.Activity, error) {
	var activities []models.Activity
	query := `SELECT uid, date, score, time_taken, difficulty, solved, attempts, puzzle_seed, synced, created_at, updated_at
			  FROM activities WHERE uid = ? ORDER BY date DESC`

	if err := s.db.Select(&activities, query, uid); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// Upsert merges the patch onto the date's record, creating it if absent.
// created_at is written once and preserved on every later upsert; synced is
// coerced to {0,1}; attempts never drops below 1.
func (s *ActivityStore) Upsert(patch models.ActivityPatch) (*models.Activity, error) {
	if _, err := models.ParseDate(patch.Date); err != nil {
		return nil, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin upsert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	activity := models.Activity{
		UID:        patch.UID,
		Date:       patch.Date,
		Difficulty: models.DifficultyEasy,
		Attempts:   1,
		CreatedAt:  now,
	}

	var existing models.Activity
	query := `SELECT uid, date, score, time_taken, difficulty, solved, attempts, puzzle_seed, synced, created_at, updated_at
			  FROM activities WHERE uid = ? AND date = ?`
	err = tx.Get(&existing, query, patch.UID, patch.Date)
	if err == nil {
		activity = existing
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read existing activity: %w", err)
	}

	applyPatch(&activity, patch)
	activity.UpdatedAt = now

	_, err = tx.NamedExec(`
		INSERT INTO activities (uid, date, score, time_taken, difficulty, solved, attempts, puzzle_seed, synced, created_at, updated_at)
		VALUES (:uid, :date, :score, :time_taken, :difficulty, :solved, :attempts, :puzzle_seed, :synced, :created_at, :updated_at)
		ON CONFLICT(uid, date) DO UPDATE SET
			score = :score,
			time_taken = :time_taken,
			difficulty = :difficulty,
			solved = :solved,
			attempts = :attempts,
			puzzle_seed = :puzzle_seed,
			synced = :synced,
			updated_at = :updated_at
	`, &activity)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return &activity, nil
}

func applyPatch(activity *models.Activity, patch models.ActivityPatch) {
	if patch.Score != nil {
		activity.Score = *patch.Score
	}
	if patch.TimeTaken != nil {
		activity.TimeTaken = *patch.TimeTaken
	}
	if patch.Difficulty != nil {
		activity.Difficulty = *patch.Difficulty
	}
	if patch.Solved != nil {
		activity.Solved = *patch.Solved
	}
	if patch.Attempts != nil {
		activity.Attempts = *patch.Attempts
	}
	if patch.PuzzleSeed != nil {
		activity.PuzzleSeed = *patch.PuzzleSeed
	}
	if patch.Synced != nil {
		activity.Synced = *patch.Synced
	}
	if activity.Synced != 0 {
		activity.Synced = 1
	}
	if activity.Attempts < 1 {
		activity.Attempts = 1
	}
}

// GetUnsynced returns the player's records not yet pushed to the remote store.
func (s *ActivityStore) GetUnsynced(uid string) ([]models.Activity, error) {
	var activities []models.Activity
	query := `SELECT uid, date, score, time_taken, difficulty, solved, attempts, puzzle_seed, synced, created_at, updated_at
			  FROM activities WHERE uid = ? AND synced = 0 ORDER BY date ASC`

	if err := s.db.Select(&activities, query, uid); err != nil {
		return nil, fmt.Errorf("failed to list unsynced activities: %w", err)
	}
	return activities, nil
}

// GetAllUnsynced returns every player's unpushed records, for the sync loop.
func (s *ActivityStore) GetAllUnsynced() ([]models.Activity, error) {
	var activities []models.Activity
	query := `SELECT uid, date, score, time_taken, difficulty, solved, attempts, puzzle_seed, synced, created_at, updated_at
			  FROM activities WHERE synced = 0 ORDER BY uid, date ASC`

	if err := s.db.Select(&activities, query); err != nil {
		return nil, fmt.Errorf("failed to list unsynced activities: %w", err)
	}
	return activities, nil
}

// MarkSynced flags the given dates as pushed.
func (s *ActivityStore) MarkSynced(uid string, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`UPDATE activities SET synced = 1 WHERE uid = ? AND date IN (?)`, uid, dates)
	if err != nil {
		return fmt.Errorf("failed to build mark-synced query: %w", err)
	}
	if _, err := s.db.Exec(s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to mark synced: %w", err)
	}
	return nil
}

// IncrementAttempts bumps the date's attempt counter, creating the record as
// an unsolved first attempt if it does not exist yet.
func (s *ActivityStore) IncrementAttempts(uid, date string) error {
	if _, err := models.ParseDate(date); err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO activities (uid, date, attempts, puzzle_seed, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?, ?)
		ON CONFLICT(uid, date) DO UPDATE SET
			attempts = attempts + 1,
			updated_at = ?
	`, uid, date, date, now, now, now)
	if err != nil {
		return fmt.Errorf("failed to increment attempts: %w", err)
	}
	return nil
}
