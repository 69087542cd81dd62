package engine

import (
	"fmt"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

// MaxHints caps the daily hint budget.
const MaxHints = 4

var baseHints = map[models.Difficulty]int{
	models.DifficultyEasy:   3,
	models.DifficultyMedium: 2,
	models.DifficultyHard:   1,
}

// HintBudget computes how many hints the player gets today: a per-tier base,
// plus one if recent accuracy is poor, plus one if the player shows up
// regularly. history is newest-first. Always in [1, MaxHints].
func HintBudget(difficulty models.Difficulty, history []models.Activity) int {
	budget := baseHints[difficulty]

	recent := history
	if len(recent) > 7 {
		recent = recent[:7]
	}
	if len(recent) > 0 {
		solved := 0
		for _, a := range recent {
			if a.Solved {
				solved++
			}
		}
		if float64(solved)/float64(len(recent)) < 0.5 {
			budget++
		}
	}

	// One record per date, so record count is distinct active dates.
	active := len(history)
	if active > 30 {
		active = 30
	}
	if active >= 7 {
		budget++
	}

	if budget > MaxHints {
		budget = MaxHints
	}
	if budget < 1 {
		budget = 1
	}
	return budget
}

// HintText phrases the hint for a given escalation level (1-4). guess may be
// nil when the player has not entered anything yet; correctCells only applies
// to matrix puzzles.
func HintText(p *models.Puzzle, level int, guess *int, correctCells int) (string, error) {
	if level < 1 || level > MaxHints {
		return "", fmt.Errorf("invalid hint level %d", level)
	}
	if p.Type == models.PuzzleMatrix {
		return matrixHintText(p, level, correctCells), nil
	}
	return sequenceHintText(p, level, guess), nil
}

func sequenceHintText(p *models.Puzzle, level int, guess *int) string {
	switch level {
	case 1:
		return p.Hint
	case 2:
		if p.PatternKey == "alternating" {
			return "The next term has the opposite sign of the one before it."
		}
		if guess == nil {
			last := p.Sequence[len(p.Sequence)-1]
			if p.Answer > last {
				return "The answer is larger than the last term shown."
			}
			return "The answer is smaller than the last term shown."
		}
		switch {
		case p.Answer > *guess:
			return "The answer is larger than your current answer."
		case p.Answer < *guess:
			return "The answer is smaller than your current answer."
		default:
			return "Your current answer is exactly right."
		}
	case 3:
		if guess == nil {
			return "Enter a guess first to see how close you are."
		}
		diff := p.Answer - *guess
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff == 0:
			return "Your current answer is exactly right."
		case diff <= 5:
			return "Very warm: you are within 5 of the answer."
		case diff <= 20:
			return "Warm: you are within 20 of the answer."
		default:
			return "Cold: you are more than 20 away from the answer."
		}
	default:
		return fmt.Sprintf("The answer is between %d and %d.", p.Answer-15, p.Answer+15)
	}
}

func matrixHintText(p *models.Puzzle, level int, correctCells int) string {
	total := len(p.BlankIndexes())
	progress := fmt.Sprintf("%d of %d blanks are correctly filled so far.", correctCells, total)
	switch level {
	case 1:
		return p.Hint
	case 2:
		return "Compare how values change along one row, then along one column. " + progress
	case 3:
		return "Pick a blank and use two visible cells in its row to find the row rule. " + progress
	default:
		return "Each blank is fixed by its row rule and checked by its column rule. " + progress
	}
}
