// Package engine holds the pure decision and analytics functions. Every
// function here is a side-effect-free view over an activity-log snapshot;
// nothing blocks, retries or mutates shared state.
package engine

import (
	"fmt"
	"math"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

// Trend is the direction of recent solve quality.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

const (
	// WindowSize is how many recent records (by count, not calendar
	// coverage) the difficulty decision looks at.
	WindowSize = 7

	// AdvanceThreshold and RegressThreshold bound the maintain band of the
	// performance score.
	AdvanceThreshold = 75
	RegressThreshold = 35
)

// expectedTime is the par solve time in seconds per tier.
var expectedTime = map[models.Difficulty]int{
	models.DifficultyEasy:   60,
	models.DifficultyMedium: 45,
	models.DifficultyHard:   30,
}

var tierUp = map[models.Difficulty]models.Difficulty{
	models.DifficultyEasy:   models.DifficultyMedium,
	models.DifficultyMedium: models.DifficultyHard,
	models.DifficultyHard:   models.DifficultyHard,
}

var tierDown = map[models.Difficulty]models.Difficulty{
	models.DifficultyHard:   models.DifficultyMedium,
	models.DifficultyMedium: models.DifficultyEasy,
	models.DifficultyEasy:   models.DifficultyEasy,
}

// Decision is the difficulty engine's output for the next puzzle.
type Decision struct {
	PuzzleType       models.PuzzleType `json:"puzzle_type"`
	Difficulty       models.Difficulty `json:"difficulty"`
	PerformanceScore int               `json:"performance_score"`
	Trend            Trend             `json:"trend"`
	Reason           string            `json:"reason"`
}

// Decide picks the next puzzle type and difficulty from the player's recent
// history. history is newest-first; only the first WindowSize records are
// considered. An empty history is the cold-start case, never an error.
func Decide(history []models.Activity) Decision {
	window := history
	if len(window) > WindowSize {
		window = window[:WindowSize]
	}

	if len(window) == 0 {
		return Decision{
			PuzzleType:       models.PuzzleSequence,
			Difficulty:       models.DifficultyEasy,
			PerformanceScore: 0,
			Trend:            TrendStable,
			Reason:           "no history yet, starting with an easy sequence",
		}
	}

	var solved []models.Activity
	for _, a := range window {
		if a.Solved {
			solved = append(solved, a)
		}
	}

	dominant := dominantDifficulty(solved)
	score := performanceScore(window, solved, dominant)
	trend := detectTrend(solved)

	next := dominant
	var reason string
	switch {
	case score >= AdvanceThreshold:
		next = tierUp[dominant]
		reason = fmt.Sprintf("strong performance (score %d)", score)
	case score < RegressThreshold:
		next = tierDown[dominant]
		reason = fmt.Sprintf("recent struggles (score %d)", score)
	default:
		reason = fmt.Sprintf("steady performance (score %d)", score)
		// A clear directional signal may act before a threshold is
		// crossed.
		if trend == TrendImproving && score >= 60 {
			next = tierUp[dominant]
			reason = fmt.Sprintf("improving trend (score %d)", score)
		} else if trend == TrendDeclining && score <= 45 {
			next = tierDown[dominant]
			reason = fmt.Sprintf("declining trend (score %d)", score)
		}
	}

	puzzleType := models.PuzzleSequence
	if matrixUnlocked(window, len(solved), score, next) {
		puzzleType = models.PuzzleMatrix
	}

	return Decision{
		PuzzleType:       puzzleType,
		Difficulty:       next,
		PerformanceScore: score,
		Trend:            trend,
		Reason:           reason,
	}
}

// dominantDifficulty is the most frequent tier among the solved records.
// Ties break on ascending tier order; no solves defaults to easy.
func dominantDifficulty(solved []models.Activity) models.Difficulty {
	counts := map[models.Difficulty]int{}
	for _, a := range solved {
		counts[a.Difficulty]++
	}
	dominant := models.DifficultyEasy
	best := 0
	for _, tier := range models.Tiers {
		if counts[tier] > best {
			best = counts[tier]
			dominant = tier
		}
	}
	return dominant
}

// performanceScore composes solve rate (0-40), speed against par (0-40) and
// first-attempt cleanliness (0-20) into a 0-100 integer.
func performanceScore(window, solved []models.Activity, dominant models.Difficulty) int {
	solveRateScore := int(math.Round(float64(len(solved)) / float64(len(window)) * 40))

	speedScore := 20 // neutral when nothing solved yet
	if len(solved) > 0 {
		total := 0
		for _, a := range solved {
			total += a.TimeTaken
		}
		avgTime := float64(total) / float64(len(solved))
		expected := float64(expectedTime[dominant])
		switch {
		case avgTime <= expected:
			speedScore = 40
		case avgTime >= 2*expected:
			speedScore = 0
		default:
			speedScore = int(math.Round((2*expected - avgTime) / expected * 40))
		}
	}

	cleanSolveScore := 0
	if len(solved) > 0 {
		clean := 0
		for _, a := range solved {
			if a.Attempts <= 1 {
				clean++
			}
		}
		cleanSolveScore = int(math.Round(float64(clean) / float64(len(solved)) * 20))
	}

	return solveRateScore + speedScore + cleanSolveScore
}

// detectTrend compares solve quality between the newer and older halves of
// the solved records (newest-first). Fewer than 4 solves is always stable.
func detectTrend(solved []models.Activity) Trend {
	if len(solved) < 4 {
		return TrendStable
	}
	mid := len(solved) / 2
	newerQ := meanQuality(solved[:mid])
	olderQ := meanQuality(solved[mid:])
	switch {
	case newerQ-olderQ > 0.1:
		return TrendImproving
	case newerQ-olderQ < -0.1:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// meanQuality scores a group of solves: score discounted by attempts and by
// the square root of time taken.
func meanQuality(group []models.Activity) float64 {
	if len(group) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range group {
		attempts := a.Attempts
		if attempts < 1 {
			attempts = 1
		}
		timeTaken := a.TimeTaken
		if timeTaken < 1 {
			timeTaken = 1
		}
		total += float64(a.Score) / (float64(attempts) * math.Sqrt(float64(timeTaken)))
	}
	return total / float64(len(group))
}

// matrixUnlocked gates matrix puzzles behind demonstrated competence: enough
// active days, enough solves, a passing score, and a tier above easy.
func matrixUnlocked(window []models.Activity, solvedCount, score int, tier models.Difficulty) bool {
	return len(window) >= 3 &&
		solvedCount >= 2 &&
		score >= 50 &&
		tier != models.DifficultyEasy
}
