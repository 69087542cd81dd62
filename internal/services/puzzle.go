package services

import (
	"fmt"
	"time"

	"github.com/mindgrid-games/mindgrid-web/internal/engine"
	"github.com/mindgrid-games/mindgrid-web/internal/logger"
	"github.com/mindgrid-games/mindgrid-web/internal/models"
	"github.com/mindgrid-games/mindgrid-web/internal/puzzle"
	"github.com/mindgrid-games/mindgrid-web/internal/store"
)

// PuzzleService composes the difficulty engine with the generators and owns
// the write path onto the activity store.
type PuzzleService struct {
	activities *store.ActivityStore
	hints      *store.HintStore
	cache      *AnalyticsCache
	log        *logger.Log
	now        func() time.Time
}

func NewPuzzleService(activities *store.ActivityStore, hints *store.HintStore, cache *AnalyticsCache) *PuzzleService {
	return &PuzzleService{
		activities: activities,
		hints:      hints,
		cache:      cache,
		log:        logger.New(),
		now:        time.Now,
	}
}

// SubmitResult is the outcome of one answer submission.
type SubmitResult struct {
	Correct  bool `json:"correct"`
	Score    int  `json:"score,omitempty"`
	Attempts int  `json:"attempts"`
}

// HintResult is one hint grant, or the unchanged usage when the budget is
// already spent.
type HintResult struct {
	Text      string `json:"text,omitempty"`
	Level     int    `json:"level,omitempty"`
	HintsUsed int    `json:"hints_used"`
	Budget    int    `json:"budget"`
	Granted   bool   `json:"granted"`
}

// GenerateDailyPuzzle asks the difficulty engine for the day's tier and type,
// then generates the concrete puzzle. An empty date means today.
func (s *PuzzleService) GenerateDailyPuzzle(uid, date string) (*models.Puzzle, engine.Decision, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, engine.Decision{}, err
	}

	decision := s.decideForDay(uid, date)
	p, err := puzzle.Generate(decision.PuzzleType, date, decision.Difficulty)
	if err != nil {
		return nil, engine.Decision{}, err
	}
	return p, decision, nil
}

// Submit checks an answer against the regenerated puzzle and records the
// attempt. Every write is followed by a cache invalidation.
func (s *PuzzleService) Submit(uid, date string, answer *int, cells map[int]int, timeTaken int) (*SubmitResult, error) {
	if timeTaken < 0 {
		return nil, fmt.Errorf("time taken must be non-negative")
	}
	p, decision, err := s.GenerateDailyPuzzle(uid, date)
	if err != nil {
		return nil, err
	}

	existing, err := s.activities.GetByDate(uid, p.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Solved {
		return &SubmitResult{Correct: true, Score: existing.Score, Attempts: existing.Attempts}, nil
	}

	correct := s.isCorrect(p, answer, cells)

	if err := s.activities.IncrementAttempts(uid, p.Date); err != nil {
		return nil, err
	}
	s.cache.Invalidate(uid)

	updated, err := s.activities.GetByDate(uid, p.Date)
	if err != nil {
		return nil, err
	}
	attempts := 1
	if updated != nil {
		attempts = updated.Attempts
	}

	result := &SubmitResult{Correct: correct, Attempts: attempts}
	difficulty := decision.Difficulty
	seedDate := p.Date
	patch := models.ActivityPatch{
		UID:        uid,
		Date:       p.Date,
		Difficulty: &difficulty,
		TimeTaken:  &timeTaken,
		PuzzleSeed: &seedDate,
	}
	if correct {
		solved := true
		score := models.ScoreFor(timeTaken)
		unsynced := 0
		patch.Solved = &solved
		patch.Score = &score
		patch.Synced = &unsynced
		result.Score = score
	}
	if _, err := s.activities.Upsert(patch); err != nil {
		return nil, err
	}
	s.cache.Invalidate(uid)

	return result, nil
}

// RequestHint grants the next escalation level within today's budget.
// Requests past the budget are a no-op, not an error.
func (s *PuzzleService) RequestHint(uid, date string, guess *int, cells map[int]int) (*HintResult, error) {
	p, decision, err := s.GenerateDailyPuzzle(uid, date)
	if err != nil {
		return nil, err
	}

	history, err := s.activities.GetAll(uid)
	if err != nil {
		s.log.WithError(err).Warn("hint budget falling back to empty history")
		history = nil
	}
	budget := engine.HintBudget(decision.Difficulty, history)

	usage, err := s.hints.Get(uid, p.Date)
	if err != nil {
		// Hint storage being unavailable means zero usage, not a failure.
		s.log.WithError(err).Warn("hint usage unavailable, assuming none used")
		usage = nil
	}
	if usage == nil {
		usage = &models.HintUsage{UID: uid, Date: p.Date, Difficulty: decision.Difficulty, Budget: budget}
	}
	usage.Budget = budget

	if usage.HintsUsed >= budget {
		return &HintResult{HintsUsed: usage.HintsUsed, Budget: budget}, nil
	}

	level := usage.HintsUsed + 1
	text, err := engine.HintText(p, level, guess, s.correctCells(p, cells))
	if err != nil {
		return nil, err
	}

	usage.HintsUsed = level
	if err := s.hints.Put(*usage); err != nil {
		return nil, err
	}

	return &HintResult{
		Text:      text,
		Level:     level,
		HintsUsed: usage.HintsUsed,
		Budget:    budget,
		Granted:   true,
	}, nil
}

// HintUsage reports today's usage without granting anything.
func (s *PuzzleService) HintUsage(uid, date string) (*models.HintUsage, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	usage, err := s.hints.Get(uid, date)
	if err != nil {
		return nil, err
	}
	if usage == nil {
		decision := s.decideForDay(uid, date)
		usage = &models.HintUsage{
			UID:        uid,
			Date:       date,
			Difficulty: decision.Difficulty,
			Budget:     engine.HintBudget(decision.Difficulty, s.history(uid)),
		}
	}
	return usage, nil
}

func (s *PuzzleService) resolveDate(date string) (string, error) {
	if date == "" {
		return s.now().UTC().Format(models.DateLayout), nil
	}
	if _, err := models.ParseDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// decideForDay runs the difficulty engine over the history excluding the
// day's own in-progress record, so the puzzle stays stable across attempts
// within the day. A store read failure degrades to the cold-start decision.
func (s *PuzzleService) decideForDay(uid, date string) engine.Decision {
	history, err := s.activities.GetAll(uid)
	if err != nil {
		s.log.WithError(err).Warn("activity store unavailable, using cold-start decision")
		return engine.Decide(nil)
	}
	window := history[:0:0]
	for _, a := range history {
		if a.Date != date {
			window = append(window, a)
		}
	}
	return engine.Decide(window)
}

func (s *PuzzleService) history(uid string) []models.Activity {
	history, err := s.activities.GetAll(uid)
	if err != nil {
		return nil
	}
	return history
}

func (s *PuzzleService) isCorrect(p *models.Puzzle, answer *int, cells map[int]int) bool {
	if p.Type == models.PuzzleSequence {
		return answer != nil && *answer == p.Answer
	}
	blanks := p.BlankIndexes()
	for _, idx := range blanks {
		val, ok := cells[idx]
		if !ok || val != p.Solution[idx] {
			return false
		}
	}
	return len(blanks) > 0
}

// correctCells counts the player's filled cells that match the solution, for
// matrix hint phrasing.
func (s *PuzzleService) correctCells(p *models.Puzzle, cells map[int]int) int {
	correct := 0
	for _, idx := range p.BlankIndexes() {
		if val, ok := cells[idx]; ok && val == p.Solution[idx] {
			correct++
		}
	}
	return correct
}
