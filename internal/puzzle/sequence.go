package puzzle

import (
	"fmt"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
	"github.com/mindgrid-games/mindgrid-web/internal/seed"
)

// sequenceTerms is the number of visible terms; the player supplies the next.
const sequenceTerms = 5

// Each tier draws from two candidate pattern families. The pairs, the salt
// strings and the parameter ranges below are all part of the frozen
// generation contract: changing any of them changes every future puzzle.
var sequenceFamilies = map[models.Difficulty][2]string{
	models.DifficultyEasy:   {"arithmetic", "geometric"},
	models.DifficultyMedium: {"squares", "fibonacci"},
	models.DifficultyHard:   {"alternating", "polynomial"},
}

var sequenceHints = map[string]string{
	"arithmetic":  "Each term increases by the same fixed amount.",
	"geometric":   "Each term is multiplied by the same fixed factor.",
	"squares":     "The terms are consecutive perfect squares.",
	"fibonacci":   "Each term is the sum of the two before it.",
	"alternating": "The terms alternate sign while growing by a fixed factor.",
	"polynomial":  "The terms follow a quadratic rule in their position.",
}

// GenerateSequencePuzzle builds the sequence puzzle for a date and tier.
// It is total over valid inputs and fully deterministic: the same arguments
// always produce byte-identical output.
func GenerateSequencePuzzle(date string, difficulty models.Difficulty) (*models.Puzzle, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, err
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("invalid difficulty %q", difficulty)
	}

	candidates := sequenceFamilies[difficulty]
	patternKey := candidates[seed.HashInt(date+"seqpattern")%2]

	terms := generateTerms(patternKey, date, difficulty)

	return &models.Puzzle{
		Type:       models.PuzzleSequence,
		Date:       date,
		Difficulty: difficulty,
		PatternKey: patternKey,
		Sequence:   terms[:sequenceTerms],
		Answer:     terms[sequenceTerms],
		Hint:       sequenceHints[patternKey],
	}, nil
}

// generateTerms produces the five visible terms plus the answer term.
func generateTerms(patternKey, date string, difficulty models.Difficulty) []int {
	terms := make([]int, sequenceTerms+1)

	switch patternKey {
	case "arithmetic":
		base := seed.RangeInt(date+"arith_base", arithBase[difficulty][0], arithBase[difficulty][1])
		step := seed.RangeInt(date+"arith_step", arithStep[difficulty][0], arithStep[difficulty][1])
		for i := range terms {
			terms[i] = base + i*step
		}
	case "geometric":
		base := seed.RangeInt(date+"geo_base", geoBase[difficulty][0], geoBase[difficulty][1])
		ratio := seed.RangeInt(date+"geo_ratio", geoRatio[difficulty][0], geoRatio[difficulty][1])
		term := base
		for i := range terms {
			terms[i] = term
			term *= ratio
		}
	case "squares":
		start := seed.RangeInt(date+"square_start", 1, 8)
		for i := range terms {
			terms[i] = (start + i) * (start + i)
		}
	case "fibonacci":
		terms[0] = seed.RangeInt(date+"fib_a", 1, 5)
		terms[1] = seed.RangeInt(date+"fib_b", 2, 8)
		for i := 2; i < len(terms); i++ {
			terms[i] = terms[i-1] + terms[i-2]
		}
	case "alternating":
		base := seed.RangeInt(date+"alt_base", 2, 5)
		ratio := seed.RangeInt(date+"alt_ratio", 2, 3)
		magnitude := base
		for i := range terms {
			if i%2 == 1 {
				terms[i] = -magnitude
			} else {
				terms[i] = magnitude
			}
			magnitude *= ratio
		}
	case "polynomial":
		a := seed.RangeInt(date+"poly_a", 1, 5)
		b := seed.RangeInt(date+"poly_b", 1, 4)
		c := seed.RangeInt(date+"poly_c", 1, 3)
		// 1-indexed position keeps the first term from collapsing to a+b+c
		// with a trivial zero quadratic contribution.
		for i := range terms {
			n := i + 1
			terms[i] = a + b*n + c*n*n
		}
	}

	return terms
}

// Per-tier parameter bounds, [min, max].
var (
	arithBase = map[models.Difficulty][2]int{
		models.DifficultyEasy:   {1, 10},
		models.DifficultyMedium: {5, 30},
		models.DifficultyHard:   {10, 50},
	}
	arithStep = map[models.Difficulty][2]int{
		models.DifficultyEasy:   {2, 6},
		models.DifficultyMedium: {4, 12},
		models.DifficultyHard:   {7, 20},
	}
	geoBase = map[models.Difficulty][2]int{
		models.DifficultyEasy:   {1, 4},
		models.DifficultyMedium: {1, 5},
		models.DifficultyHard:   {2, 6},
	}
	geoRatio = map[models.Difficulty][2]int{
		models.DifficultyEasy:   {2, 3},
		models.DifficultyMedium: {2, 4},
		models.DifficultyHard:   {3, 5},
	}
)
