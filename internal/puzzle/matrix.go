package puzzle

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
	"github.com/mindgrid-games/mindgrid-web/internal/seed"
)

const gridSize = 4

var matrixFamilies = map[models.Difficulty][]string{
	models.DifficultyEasy:   {"arithmetic"},
	models.DifficultyMedium: {"arithmetic", "multiplication"},
	models.DifficultyHard:   {"multiplication", "polynomial"},
}

var matrixBlanks = map[models.Difficulty]int{
	models.DifficultyEasy:   3,
	models.DifficultyMedium: 5,
	models.DifficultyHard:   7,
}

var matrixHints = map[string]string{
	"arithmetic":     "Every row and column changes by its own fixed step.",
	"multiplication": "Each cell is the product of a row number and a column number.",
	"polynomial":     "Rows and columns each add a fixed step, plus a term that grows with both.",
}

// GenerateMatrixPuzzle builds the 4x4 grid puzzle for a date and tier, with
// cells blanked so the rule stays uniquely recoverable from what remains.
// Deterministic: same arguments, byte-identical output.
func GenerateMatrixPuzzle(date string, difficulty models.Difficulty) (*models.Puzzle, error) {
	if _, err := models.ParseDate(date); err != nil {
		return nil, err
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("invalid difficulty %q", difficulty)
	}

	options := matrixFamilies[difficulty]
	patternKey := options[int(seed.HashInt(date+"matpattern"))%len(options)]

	solution := generateGrid(patternKey, date)
	grid := blankCells(solution, matrixBlanks[difficulty], date)

	return &models.Puzzle{
		Type:       models.PuzzleMatrix,
		Date:       date,
		Difficulty: difficulty,
		PatternKey: patternKey,
		Grid:       grid,
		Solution:   solution,
		Hint:       matrixHints[patternKey],
	}, nil
}

func generateGrid(patternKey, date string) []int {
	grid := make([]int, gridSize*gridSize)

	switch patternKey {
	case "arithmetic":
		base := seed.RangeInt(date+"mat_base", 1, 10)
		rowStep := seed.RangeInt(date+"mat_rowstep", 2, 6)
		colStep := seed.RangeInt(date+"mat_colstep", 1, 5)
		for r := 0; r < gridSize; r++ {
			for c := 0; c < gridSize; c++ {
				grid[r*gridSize+c] = base + r*rowStep + c*colStep
			}
		}
	case "multiplication":
		rBase := seed.RangeInt(date+"mat_rbase", 1, 5)
		cBase := seed.RangeInt(date+"mat_cbase", 1, 5)
		for r := 0; r < gridSize; r++ {
			for c := 0; c < gridSize; c++ {
				grid[r*gridSize+c] = (r + rBase) * (c + cBase)
			}
		}
	case "polynomial":
		base := seed.RangeInt(date+"mat_base", 1, 10)
		rowStep := seed.RangeInt(date+"mat_rowstep", 2, 6)
		colStep := seed.RangeInt(date+"mat_colstep", 1, 5)
		mixStep := seed.RangeInt(date+"mat_mixstep", 1, 3)
		for r := 0; r < gridSize; r++ {
			for c := 0; c < gridSize; c++ {
				grid[r*gridSize+c] = base + r*rowStep + c*colStep + r*c*mixStep
			}
		}
	}

	return grid
}

// blankCells removes up to count cells from the flat grid, nil marking a
// blank. A cell is only blanked while its row and its column each keep at
// least 2 other visible cells: two points pin down a line, so that local
// check is sufficient for the linear and bilinear rules above to remain
// uniquely solvable. Candidate order is the deterministic sort of all 16
// indices by their per-index hash. Exhausting candidates before reaching
// count is tolerated, not an error.
func blankCells(solution []int, count int, date string) []*int {
	type candidate struct {
		index int
		order uint32
	}
	candidates := make([]candidate, len(solution))
	for i := range solution {
		candidates[i] = candidate{i, seed.HashInt(date + "blank" + strconv.Itoa(i))}
	}
	// Stable sort keeps ties (same hash) in index order, which matters for
	// reproducibility.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].order < candidates[j].order
	})

	blanked := make([]bool, len(solution))
	remaining := count
	for _, cand := range candidates {
		if remaining == 0 {
			break
		}
		r, c := cand.index/gridSize, cand.index%gridSize
		rowVisible, colVisible := 0, 0
		for k := 0; k < gridSize; k++ {
			if k != c && !blanked[r*gridSize+k] {
				rowVisible++
			}
			if k != r && !blanked[k*gridSize+c] {
				colVisible++
			}
		}
		if rowVisible >= 2 && colVisible >= 2 {
			blanked[cand.index] = true
			remaining--
		}
	}

	grid := make([]*int, len(solution))
	for i, val := range solution {
		if !blanked[i] {
			v := val
			grid[i] = &v
		}
	}
	return grid
}
