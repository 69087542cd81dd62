package models

import (
	"fmt"
	"time"
)

// Difficulty tiers, ordered easy < medium < hard.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Tiers lists the difficulties in ascending order. Iteration order matters:
// it is the tie-break for dominant-difficulty selection.
var Tiers = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Level maps a tier to its ordinal (easy=1, medium=2, hard=3).
func (d Difficulty) Level() int {
	switch d {
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 1
	}
}

// ParseDifficulty validates a difficulty string from an API request or a
// stored row. Invalid values are a caller contract violation, never defaulted.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid difficulty %q", s)
	}
	return d, nil
}

// DateLayout is the canonical calendar-date key format.
const DateLayout = "2006-01-02"

// ParseDate validates a canonical YYYY-MM-DD date key.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// Activity is one calendar date's play outcome for one player. The (uid, date)
// pair is the unique key; rows are upserted, never duplicated.
type Activity struct {
	Date       string     `json:"date" db:"date"`
	UID        string     `json:"uid" db:"uid"` // empty = anonymous/local-only
	Score      int        `json:"score" db:"score"`
	TimeTaken  int        `json:"time_taken" db:"time_taken"` // seconds
	Difficulty Difficulty `json:"difficulty" db:"difficulty"`
	Solved     bool       `json:"solved" db:"solved"`
	Attempts   int        `json:"attempts" db:"attempts"`
	PuzzleSeed string     `json:"puzzle_seed" db:"puzzle_seed"`
	// Synced is an integer flag {0,1}, not a boolean, so store range
	// queries on it stay well-typed.
	Synced    int       `json:"synced" db:"synced"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HintUsage tracks hints consumed for one date. HintsUsed only ever grows and
// is capped by Budget.
type HintUsage struct {
	Date       string     `json:"date" db:"date"`
	UID        string     `json:"uid" db:"uid"`
	Difficulty Difficulty `json:"difficulty" db:"difficulty"`
	HintsUsed  int        `json:"hints_used" db:"hints_used"`
	Budget     int        `json:"budget" db:"budget"`
}

// ActivityPatch is a partial activity for upserts. Nil fields keep whatever
// the stored record already has; CreatedAt is never patchable.
type ActivityPatch struct {
	Date       string
	UID        string
	Score      *int
	TimeTaken  *int
	Difficulty *Difficulty
	Solved     *bool
	Attempts   *int
	PuzzleSeed *string
	Synced     *int
}

// ScoreFor computes the score for a solve: 100 minus elapsed seconds,
// floored at 10.
func ScoreFor(timeTaken int) int {
	score := 100 - timeTaken
	if score < 10 {
		score = 10
	}
	return score
}
