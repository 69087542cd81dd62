package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mindgrid-games/mindgrid-web/internal/database"
	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

type HintStore struct {
	db *database.DB
}

func NewHintStore(db *database.DB) *HintStore {
	return &HintStore{db: db}
}

// Get returns the date's hint usage, or nil if no hint was requested yet.
// Callers treat a nil row the same as zero usage.
func (s *HintStore) Get(uid, date string) (*models.HintUsage, error) {
	var usage models.HintUsage
	query := `SELECT uid, date, difficulty, hints_used, budget FROM hint_usage WHERE uid = ? AND date = ?`

	err := s.db.Get(&usage, query, uid, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get hint usage: %w", err)
	}

	return &usage, nil
}

// Put writes the date's hint usage. hints_used only ever grows; the guard in
// the update clause keeps a stale writer from winding the counter back.
func (s *HintStore) Put(usage models.HintUsage) error {
	if _, err := models.ParseDate(usage.Date); err != nil {
		return err
	}
	_, err := s.db.NamedExec(`
		INSERT INTO hint_usage (uid, date, difficulty, hints_used, budget)
		VALUES (:uid, :date, :difficulty, :hints_used, :budget)
		ON CONFLICT(uid, date) DO UPDATE SET
			difficulty = :difficulty,
			hints_used = MAX(hints_used, :hints_used),
			budget = :budget
	`, &usage)
	if err != nil {
		return fmt.Errorf("failed to put hint usage: %w", err)
	}
	return nil
}
