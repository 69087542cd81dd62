package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

// window builds a newest-first history of n records from a template.
func window(n int, template models.Activity) []models.Activity {
	records := make([]models.Activity, n)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := range records {
		records[i] = template
		records[i].Date = day.AddDate(0, 0, -i).Format(models.DateLayout)
	}
	return records
}

func TestDecide_ColdStart(t *testing.T) {
	decision := Decide(nil)

	assert.Equal(t, models.PuzzleSequence, decision.PuzzleType)
	assert.Equal(t, models.DifficultyEasy, decision.Difficulty)
	assert.Equal(t, 0, decision.PerformanceScore)
	assert.Equal(t, TrendStable, decision.Trend)
}

func TestDecide_StrongHardPlayerStaysHard(t *testing.T) {
	history := window(7, models.Activity{
		Difficulty: models.DifficultyHard,
		Solved:     true,
		Attempts:   1,
		TimeTaken:  10,
		Score:      90,
	})

	decision := Decide(history)

	assert.Equal(t, 100, decision.PerformanceScore)
	assert.Equal(t, models.DifficultyHard, decision.Difficulty)
	assert.Contains(t, decision.Reason, "strong performance")
	// Hard tier with a passing score and enough history unlocks the matrix.
	assert.Equal(t, models.PuzzleMatrix, decision.PuzzleType)
}

func TestDecide_PerformanceScoreComponents(t *testing.T) {
	history := window(7, models.Activity{
		Difficulty: models.DifficultyHard,
		Solved:     true,
		Attempts:   1,
		TimeTaken:  10,
		Score:      90,
	})

	var solved []models.Activity
	for _, a := range history {
		if a.Solved {
			solved = append(solved, a)
		}
	}
	score := performanceScore(history, solved, models.DifficultyHard)
	// solve rate 40 + speed 40 (10s vs 30s par) + clean 20
	assert.Equal(t, 100, score)
}

func TestDecide_SpeedScoreInterpolation(t *testing.T) {
	cases := []struct {
		name      string
		timeTaken int
		want      int // speed component only
	}{
		{"at par", 60, 40},
		{"double par", 120, 0},
		{"triple par", 180, 0},
		{"halfway past par", 90, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			history := window(7, models.Activity{
				Difficulty: models.DifficultyEasy,
				Solved:     true,
				Attempts:   1,
				TimeTaken:  tc.timeTaken,
				Score:      50,
			})
			var solved []models.Activity
			for _, a := range history {
				solved = append(solved, a)
			}
			score := performanceScore(history, solved, models.DifficultyEasy)
			assert.Equal(t, 40+tc.want+20, score)
		})
	}
}

func TestDecide_ScoreBounds(t *testing.T) {
	templates := []models.Activity{
		{Difficulty: models.DifficultyEasy, Solved: false, Attempts: 3, TimeTaken: 500},
		{Difficulty: models.DifficultyMedium, Solved: true, Attempts: 1, TimeTaken: 1},
		{Difficulty: models.DifficultyHard, Solved: true, Attempts: 9, TimeTaken: 400, Score: 10},
		{Difficulty: models.DifficultyEasy, Solved: true, Attempts: 2, TimeTaken: 0, Score: 100},
	}
	for n := 1; n <= 9; n++ {
		for i, template := range templates {
			decision := Decide(window(n, template))
			require.GreaterOrEqual(t, decision.PerformanceScore, 0, "case %d n=%d", i, n)
			require.LessOrEqual(t, decision.PerformanceScore, 100, "case %d n=%d", i, n)
		}
	}
}

func TestDecide_UnsolvedWindowRegresses(t *testing.T) {
	history := window(7, models.Activity{
		Difficulty: models.DifficultyMedium,
		Solved:     false,
		Attempts:   2,
		TimeTaken:  100,
	})

	decision := Decide(history)

	// No solves: rate 0, neutral speed 20, clean 0 = 20, below the regress
	// threshold, and the dominant difficulty defaults to easy.
	assert.Equal(t, 20, decision.PerformanceScore)
	assert.Equal(t, models.DifficultyEasy, decision.Difficulty)
	assert.Equal(t, models.PuzzleSequence, decision.PuzzleType)
}

func TestDecide_DominantDifficultyTieBreak(t *testing.T) {
	solved := []models.Activity{
		{Difficulty: models.DifficultyHard, Solved: true},
		{Difficulty: models.DifficultyEasy, Solved: true},
	}
	assert.Equal(t, models.DifficultyEasy, dominantDifficulty(solved))
}

func TestDetectTrend(t *testing.T) {
	mk := func(scores []int, times []int) []models.Activity {
		records := make([]models.Activity, len(scores))
		for i := range scores {
			records[i] = models.Activity{
				Date:      fmt.Sprintf("2024-04-%02d", len(scores)-i),
				Solved:    true,
				Attempts:  1,
				Score:     scores[i],
				TimeTaken: times[i],
			}
		}
		return records
	}

	t.Run("too few solves is stable", func(t *testing.T) {
		assert.Equal(t, TrendStable, detectTrend(mk([]int{90, 10, 90}, []int{10, 10, 10})))
	})

	t.Run("newer half better is improving", func(t *testing.T) {
		// Newest-first: high recent scores at low times vs weak older ones.
		trend := detectTrend(mk([]int{95, 95, 20, 20}, []int{10, 10, 90, 90}))
		assert.Equal(t, TrendImproving, trend)
	})

	t.Run("newer half worse is declining", func(t *testing.T) {
		trend := detectTrend(mk([]int{20, 20, 95, 95}, []int{90, 90, 10, 10}))
		assert.Equal(t, TrendDeclining, trend)
	})

	t.Run("flat quality is stable", func(t *testing.T) {
		trend := detectTrend(mk([]int{50, 50, 50, 50}, []int{40, 40, 40, 40}))
		assert.Equal(t, TrendStable, trend)
	})
}

func TestDecide_TrendOverrideAdvances(t *testing.T) {
	// Score sits in the maintain band (63) but the newer solves are far
	// better than the older ones, so the improving trend advances anyway.
	history := []models.Activity{
		{Date: "2024-05-06", Difficulty: models.DifficultyMedium, Solved: true, Attempts: 2, TimeTaken: 20, Score: 90},
		{Date: "2024-05-05", Difficulty: models.DifficultyMedium, Solved: true, Attempts: 2, TimeTaken: 20, Score: 90},
		{Date: "2024-05-04", Difficulty: models.DifficultyMedium, Solved: false, Attempts: 2, TimeTaken: 60},
		{Date: "2024-05-03", Difficulty: models.DifficultyMedium, Solved: false, Attempts: 2, TimeTaken: 60},
		{Date: "2024-05-02", Difficulty: models.DifficultyMedium, Solved: true, Attempts: 2, TimeTaken: 80, Score: 30},
		{Date: "2024-05-01", Difficulty: models.DifficultyMedium, Solved: true, Attempts: 2, TimeTaken: 80, Score: 30},
	}

	decision := Decide(history)

	require.Equal(t, TrendImproving, decision.Trend)
	assert.GreaterOrEqual(t, decision.PerformanceScore, 60)
	assert.Less(t, decision.PerformanceScore, AdvanceThreshold)
	assert.Equal(t, models.DifficultyHard, decision.Difficulty)
	assert.Contains(t, decision.Reason, "improving trend")
}

func TestDecide_MatrixGate(t *testing.T) {
	t.Run("locked below three active days", func(t *testing.T) {
		history := window(2, models.Activity{
			Difficulty: models.DifficultyMedium,
			Solved:     true,
			Attempts:   1,
			TimeTaken:  10,
			Score:      90,
		})
		assert.Equal(t, models.PuzzleSequence, Decide(history).PuzzleType)
	})

	t.Run("locked on easy tier", func(t *testing.T) {
		// Middling easy-tier play: 3 of 4 solved, second-attempt, slow.
		// Score lands in the maintain band so the tier stays easy.
		history := window(4, models.Activity{
			Difficulty: models.DifficultyEasy,
			Solved:     true,
			Attempts:   2,
			TimeTaken:  78,
			Score:      30,
		})
		history[3].Solved = false

		decision := Decide(history)
		assert.Equal(t, models.DifficultyEasy, decision.Difficulty)
		assert.GreaterOrEqual(t, decision.PerformanceScore, 50)
		assert.Equal(t, models.PuzzleSequence, decision.PuzzleType)
	})

	t.Run("unlocked with competence", func(t *testing.T) {
		history := window(5, models.Activity{
			Difficulty: models.DifficultyMedium,
			Solved:     true,
			Attempts:   1,
			TimeTaken:  20,
			Score:      80,
		})
		decision := Decide(history)
		assert.Equal(t, models.PuzzleMatrix, decision.PuzzleType)
	})
}
