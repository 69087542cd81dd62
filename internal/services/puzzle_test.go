package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindgrid-games/mindgrid-web/internal/database"
	"github.com/mindgrid-games/mindgrid-web/internal/engine"
	"github.com/mindgrid-games/mindgrid-web/internal/models"
	"github.com/mindgrid-games/mindgrid-web/internal/store"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) (*PuzzleService, *AnalyticsService) {
	t.Helper()
	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cache := NewAnalyticsCache()
	activities := store.NewActivityStore(db)
	hints := store.NewHintStore(db)

	puzzles := NewPuzzleService(activities, hints, cache)
	puzzles.now = func() time.Time { return fixedNow }
	analytics := NewAnalyticsService(activities, cache)
	analytics.now = func() time.Time { return fixedNow }
	return puzzles, analytics
}

func TestGenerateDailyPuzzle_ColdStart(t *testing.T) {
	puzzles, _ := newTestServices(t)

	p, decision, err := puzzles.GenerateDailyPuzzle("alice", "")
	require.NoError(t, err)

	assert.Equal(t, "2024-05-10", p.Date)
	assert.Equal(t, models.PuzzleSequence, decision.PuzzleType)
	assert.Equal(t, models.DifficultyEasy, decision.Difficulty)
	assert.Len(t, p.Sequence, 5)
}

func TestGenerateDailyPuzzle_RejectsBadDate(t *testing.T) {
	puzzles, _ := newTestServices(t)
	_, _, err := puzzles.GenerateDailyPuzzle("alice", "10-05-2024")
	assert.Error(t, err)
}

func TestSubmit_WrongThenRight(t *testing.T) {
	puzzles, _ := newTestServices(t)

	p, _, err := puzzles.GenerateDailyPuzzle("alice", "")
	require.NoError(t, err)

	wrong := p.Answer + 1
	result, err := puzzles.Submit("alice", "", &wrong, nil, 30)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 1, result.Attempts)

	right := p.Answer
	result, err = puzzles.Submit("alice", "", &right, nil, 45)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, models.ScoreFor(45), result.Score)

	// Re-submitting a solved day returns the recorded result untouched.
	result, err = puzzles.Submit("alice", "", &right, nil, 500)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, models.ScoreFor(45), result.Score)
}

func TestRequestHint_BudgetIsANoOpWhenSpent(t *testing.T) {
	puzzles, _ := newTestServices(t)

	// Cold start is the easy tier: base budget of three hints.
	for level := 1; level <= 3; level++ {
		result, err := puzzles.RequestHint("alice", "", nil, nil)
		require.NoError(t, err)
		assert.True(t, result.Granted)
		assert.Equal(t, level, result.Level)
		assert.NotEmpty(t, result.Text)
	}

	result, err := puzzles.RequestHint("alice", "", nil, nil)
	require.NoError(t, err, "over-budget requests are a no-op, not an error")
	assert.False(t, result.Granted)
	assert.Equal(t, 3, result.HintsUsed)
	assert.Equal(t, 3, result.Budget)
}

func TestHintUsage_DefaultsWhenAbsent(t *testing.T) {
	puzzles, _ := newTestServices(t)

	usage, err := puzzles.HintUsage("alice", "")
	require.NoError(t, err)
	assert.Equal(t, 0, usage.HintsUsed)
	assert.Equal(t, 3, usage.Budget)
}

func TestSolveInvalidatesAnalyticsCache(t *testing.T) {
	puzzles, analytics := newTestServices(t)

	before := analytics.Retention("alice")
	assert.Equal(t, 0, before.Summary.CurrentStreak)

	p, _, err := puzzles.GenerateDailyPuzzle("alice", "")
	require.NoError(t, err)
	answer := p.Answer
	_, err = puzzles.Submit("alice", "", &answer, nil, 20)
	require.NoError(t, err)

	after := analytics.Retention("alice")
	assert.Equal(t, 1, after.Summary.CurrentStreak, "cached report must be recomputed after the write")
	assert.Equal(t, 1, after.Summary.TotalSolved)
}

func TestAnalyticsCache_Invalidate(t *testing.T) {
	cache := NewAnalyticsCache()
	cache.SetRetention("alice", &engine.RetentionReport{})
	cache.SetInsights("alice", &engine.InsightsReport{})
	cache.SetRetention("bob", &engine.RetentionReport{})

	cache.Invalidate("alice")

	_, ok := cache.Retention("alice")
	assert.False(t, ok)
	_, ok = cache.Insights("alice")
	assert.False(t, ok)
	_, ok = cache.Retention("bob")
	assert.True(t, ok, "invalidation is per player")
}
