package engine

import (
	"sort"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

// TrendPoint is one solved session's score with its trailing 7-session
// average. RollingAvg is nil until seven sessions exist, not zero.
type TrendPoint struct {
	Date       string   `json:"date"`
	Score      int      `json:"score"`
	RollingAvg *float64 `json:"rolling_avg,omitempty"`
}

// LevelPoint is one solved session mapped to its ordinal difficulty.
type LevelPoint struct {
	Date  string `json:"date"`
	Level int    `json:"level"`
}

// SpeedPoint is one solved session's time/score pair for scatter charts.
type SpeedPoint struct {
	Date       string            `json:"date"`
	TimeTaken  int               `json:"time_taken"`
	Score      int               `json:"score"`
	Difficulty models.Difficulty `json:"difficulty"`
}

// AttemptsSplit breaks one difficulty's solves down by how many submissions
// they took.
type AttemptsSplit struct {
	First        int     `json:"first"`
	Second       int     `json:"second"`
	ThirdPlus    int     `json:"third_plus"`
	FirstPct     float64 `json:"first_pct"`
	SecondPct    float64 `json:"second_pct"`
	ThirdPlusPct float64 `json:"third_plus_pct"`
}

// PersonalBests are one difficulty's record marks.
type PersonalBests struct {
	BestScore       int     `json:"best_score"`
	FastestTime     int     `json:"fastest_time"`
	LongestCleanRun int     `json:"longest_clean_run"`
	AverageScore    float64 `json:"average_score"`
}

// PerformanceSummary composes the difficulty decision with the distance to
// the transition thresholds. PointsToAdvance is nil at the top tier,
// MarginAboveRegress nil at the bottom one.
type PerformanceSummary struct {
	CurrentDifficulty  models.Difficulty `json:"current_difficulty"`
	Trend              Trend             `json:"trend"`
	PerformanceScore   int               `json:"performance_score"`
	PointsToAdvance    *int              `json:"points_to_advance"`
	MarginAboveRegress *int              `json:"margin_above_regress"`
}

// InsightsReport is the full read-side performance view over the activity log.
type InsightsReport struct {
	PerformanceTrend   []TrendPoint                        `json:"performance_trend"`
	DifficultyTimeline []LevelPoint                        `json:"difficulty_timeline"`
	SpeedScatter       []SpeedPoint                        `json:"speed_scatter"`
	AttemptsBreakdown  map[models.Difficulty]AttemptsSplit `json:"attempts_breakdown"`
	PersonalBests      map[models.Difficulty]PersonalBests `json:"personal_bests"`
	PerformanceSummary PerformanceSummary                  `json:"performance_summary"`
}

// BuildInsights computes the insights report. all is newest-first, as the
// activity store returns it; an empty log yields an explicit empty report.
func BuildInsights(all []models.Activity) *InsightsReport {
	report := &InsightsReport{
		PerformanceTrend:   []TrendPoint{},
		DifficultyTimeline: []LevelPoint{},
		SpeedScatter:       []SpeedPoint{},
		AttemptsBreakdown:  map[models.Difficulty]AttemptsSplit{},
		PersonalBests:      map[models.Difficulty]PersonalBests{},
	}

	var solved []models.Activity
	for _, a := range all {
		if a.Solved {
			solved = append(solved, a)
		}
	}
	sort.Slice(solved, func(i, j int) bool { return solved[i].Date < solved[j].Date })

	recent := solved
	if len(recent) > 60 {
		recent = recent[len(recent)-60:]
	}
	for i, a := range recent {
		point := TrendPoint{Date: a.Date, Score: a.Score}
		if i >= 6 {
			sum := 0
			for j := i - 6; j <= i; j++ {
				sum += recent[j].Score
			}
			avg := float64(sum) / 7
			point.RollingAvg = &avg
		}
		report.PerformanceTrend = append(report.PerformanceTrend, point)
	}

	for _, a := range solved {
		report.DifficultyTimeline = append(report.DifficultyTimeline, LevelPoint{
			Date:  a.Date,
			Level: a.Difficulty.Level(),
		})
		report.SpeedScatter = append(report.SpeedScatter, SpeedPoint{
			Date:       a.Date,
			TimeTaken:  a.TimeTaken,
			Score:      a.Score,
			Difficulty: a.Difficulty,
		})
	}

	for _, tier := range models.Tiers {
		var group []models.Activity
		for _, a := range solved {
			if a.Difficulty == tier {
				group = append(group, a)
			}
		}
		if len(group) == 0 {
			continue
		}
		report.AttemptsBreakdown[tier] = attemptsSplit(group)
		report.PersonalBests[tier] = personalBests(group)
	}

	report.PerformanceSummary = performanceSummary(all)
	return report
}

func attemptsSplit(group []models.Activity) AttemptsSplit {
	var split AttemptsSplit
	for _, a := range group {
		switch {
		case a.Attempts <= 1:
			split.First++
		case a.Attempts == 2:
			split.Second++
		default:
			split.ThirdPlus++
		}
	}
	total := float64(len(group))
	split.FirstPct = float64(split.First) / total * 100
	split.SecondPct = float64(split.Second) / total * 100
	split.ThirdPlusPct = float64(split.ThirdPlus) / total * 100
	return split
}

// personalBests expects the difficulty's solved records in chronological
// order; the clean run is the longest stretch of first-attempt solves.
func personalBests(group []models.Activity) PersonalBests {
	bests := PersonalBests{FastestTime: group[0].TimeTaken}
	totalScore, run, longestRun := 0, 0, 0
	for _, a := range group {
		if a.Score > bests.BestScore {
			bests.BestScore = a.Score
		}
		if a.TimeTaken < bests.FastestTime {
			bests.FastestTime = a.TimeTaken
		}
		if a.Attempts <= 1 {
			run++
			if run > longestRun {
				longestRun = run
			}
		} else {
			run = 0
		}
		totalScore += a.Score
	}
	bests.LongestCleanRun = longestRun
	bests.AverageScore = float64(totalScore) / float64(len(group))
	return bests
}

func performanceSummary(all []models.Activity) PerformanceSummary {
	decision := Decide(all)
	summary := PerformanceSummary{
		CurrentDifficulty: decision.Difficulty,
		Trend:             decision.Trend,
		PerformanceScore:  decision.PerformanceScore,
	}
	if decision.Difficulty != models.DifficultyHard {
		points := AdvanceThreshold - decision.PerformanceScore
		if points < 0 {
			points = 0
		}
		summary.PointsToAdvance = &points
	}
	if decision.Difficulty != models.DifficultyEasy {
		margin := decision.PerformanceScore - RegressThreshold
		summary.MarginAboveRegress = &margin
	}
	return summary
}
