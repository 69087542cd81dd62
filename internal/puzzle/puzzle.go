// Package puzzle generates the daily puzzles. Generation is pure: a puzzle
// is fully determined by (type, date, difficulty), with every parameter
// derived from the date through the seed package's frozen hash contract.
package puzzle

import (
	"fmt"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

// Generate dispatches to the generator for the requested puzzle type.
func Generate(typ models.PuzzleType, date string, difficulty models.Difficulty) (*models.Puzzle, error) {
	switch typ {
	case models.PuzzleSequence:
		return GenerateSequencePuzzle(date, difficulty)
	case models.PuzzleMatrix:
		return GenerateMatrixPuzzle(date, difficulty)
	default:
		return nil, fmt.Errorf("invalid puzzle type %q", typ)
	}
}
