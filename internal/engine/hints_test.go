package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

func TestHintBudget_Base(t *testing.T) {
	assert.Equal(t, 3, HintBudget(models.DifficultyEasy, nil))
	assert.Equal(t, 2, HintBudget(models.DifficultyMedium, nil))
	assert.Equal(t, 1, HintBudget(models.DifficultyHard, nil))
}

func TestHintBudget_Bonuses(t *testing.T) {
	struggling := window(7, models.Activity{Difficulty: models.DifficultyHard, Solved: false, Attempts: 2})

	// Seven active dates with a sub-50% solve rate earns both bonuses.
	assert.Equal(t, 3, HintBudget(models.DifficultyHard, struggling))

	// Only three active dates: just the accuracy bonus.
	assert.Equal(t, 2, HintBudget(models.DifficultyHard, struggling[:3]))

	// Regular and accurate: only the regularity bonus.
	accurate := window(10, models.Activity{Difficulty: models.DifficultyMedium, Solved: true, Attempts: 1, TimeTaken: 30, Score: 70})
	assert.Equal(t, 3, HintBudget(models.DifficultyMedium, accurate))
}

func TestHintBudget_Bounds(t *testing.T) {
	histories := [][]models.Activity{
		nil,
		window(1, models.Activity{Solved: false, Attempts: 1, Difficulty: models.DifficultyEasy}),
		window(7, models.Activity{Solved: false, Attempts: 3, Difficulty: models.DifficultyEasy}),
		window(30, models.Activity{Solved: true, Attempts: 1, TimeTaken: 5, Score: 95, Difficulty: models.DifficultyHard}),
		window(40, models.Activity{Solved: false, Attempts: 2, Difficulty: models.DifficultyMedium}),
	}
	for _, tier := range models.Tiers {
		for i, history := range histories {
			budget := HintBudget(tier, history)
			require.GreaterOrEqual(t, budget, 1, "tier %s history %d", tier, i)
			require.LessOrEqual(t, budget, MaxHints, "tier %s history %d", tier, i)
		}
	}
}

func TestHintText_SequenceLevels(t *testing.T) {
	p := &models.Puzzle{
		Type:       models.PuzzleSequence,
		PatternKey: "arithmetic",
		Sequence:   []int{3, 7, 11, 15, 19},
		Answer:     23,
		Hint:       "Each term increases by the same fixed amount.",
	}

	text, err := HintText(p, 1, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, p.Hint, text)

	guess := 30
	text, _ = HintText(p, 2, &guess, 0)
	assert.Contains(t, text, "smaller")

	t.Run("proximity bands", func(t *testing.T) {
		cases := []struct {
			guess int
			want  string
		}{
			{23, "exactly right"},
			{20, "Very warm"},
			{5, "Warm"},
			{100, "Cold"},
		}
		for _, tc := range cases {
			g := tc.guess
			text, err := HintText(p, 3, &g, 0)
			require.NoError(t, err)
			assert.Contains(t, text, tc.want, "guess %d", tc.guess)
		}
	})

	text, _ = HintText(p, 4, nil, 0)
	assert.Equal(t, "The answer is between 8 and 38.", text)
}

func TestHintText_AlternatingDirection(t *testing.T) {
	p := &models.Puzzle{
		Type:       models.PuzzleSequence,
		PatternKey: "alternating",
		Sequence:   []int{3, -9, 27, -81, 243},
		Answer:     -729,
	}
	guess := 700
	text, err := HintText(p, 2, &guess, 0)
	require.NoError(t, err)
	assert.Contains(t, text, "opposite sign")
}

func TestHintText_MatrixProgress(t *testing.T) {
	one, two := 1, 2
	p := &models.Puzzle{
		Type: models.PuzzleMatrix,
		Grid: []*int{&one, nil, &two, nil},
		Hint: "Every row and column changes by its own fixed step.",
	}

	text, err := HintText(p, 3, nil, 1)
	require.NoError(t, err)
	assert.Contains(t, text, "1 of 2 blanks")
}

func TestHintText_InvalidLevel(t *testing.T) {
	p := &models.Puzzle{Type: models.PuzzleSequence, Sequence: []int{1, 2, 3, 4, 5}}
	_, err := HintText(p, 0, nil, 0)
	assert.Error(t, err)
	_, err = HintText(p, 5, nil, 0)
	assert.Error(t, err)
}
