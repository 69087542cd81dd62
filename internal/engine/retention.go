package engine

import (
	"sort"
	"time"

	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

// RetentionSummary aggregates the headline streak numbers.
type RetentionSummary struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	TotalSolved   int `json:"total_solved"`
	TotalDays     int `json:"total_days"`
}

// WeekRetention is one trailing 7-day window's solve rate.
type WeekRetention struct {
	WeekStart  string  `json:"week_start"`
	SolvedDays int     `json:"solved_days"`
	Rate       float64 `json:"rate"`
}

// DowBucket is solve activity for one weekday, normalized against the
// busiest weekday.
type DowBucket struct {
	Weekday    string  `json:"weekday"`
	Count      int     `json:"count"`
	Normalized float64 `json:"normalized"`
}

// ScorePoint is one solved day's score for trend charts.
type ScorePoint struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// RetentionReport is the full read-side retention view over the activity log.
type RetentionReport struct {
	Summary         RetentionSummary          `json:"summary"`
	WeeklyRetention []WeekRetention           `json:"weekly_retention"`
	DowPattern      []DowBucket               `json:"dow_pattern"`
	ScoreTrend      []ScorePoint              `json:"score_trend"`
	DifficultyDist  map[models.Difficulty]int `json:"difficulty_dist"`
	ActivityMap     map[string]int            `json:"activity_map"`
}

// BuildRetention computes the retention report from the full activity log.
// Record order does not matter; an empty log yields an explicit empty report.
func BuildRetention(all []models.Activity, today time.Time) *RetentionReport {
	report := &RetentionReport{
		WeeklyRetention: make([]WeekRetention, 0, 8),
		DowPattern:      make([]DowBucket, 7),
		ScoreTrend:      []ScorePoint{},
		DifficultyDist:  map[models.Difficulty]int{},
		ActivityMap:     map[string]int{},
	}

	today = today.Truncate(24 * time.Hour)
	solvedSet := map[string]bool{}
	var solved []models.Activity
	for _, a := range all {
		report.ActivityMap[a.Date] = Intensity(a)
		if a.Solved {
			solvedSet[a.Date] = true
			solved = append(solved, a)
		}
	}
	sort.Slice(solved, func(i, j int) bool { return solved[i].Date < solved[j].Date })

	report.Summary = RetentionSummary{
		CurrentStreak: currentStreak(solvedSet, today),
		LongestStreak: longestStreak(solved),
		TotalSolved:   len(solved),
		TotalDays:     len(all),
	}

	// Eight trailing 7-day windows, oldest first.
	for w := 7; w >= 0; w-- {
		end := today.AddDate(0, 0, -7*w)
		start := end.AddDate(0, 0, -6)
		count := 0
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if solvedSet[d.Format(models.DateLayout)] {
				count++
			}
		}
		report.WeeklyRetention = append(report.WeeklyRetention, WeekRetention{
			WeekStart:  start.Format(models.DateLayout),
			SolvedDays: count,
			Rate:       float64(count) / 7,
		})
	}

	counts := make([]int, 7)
	peak := 1 // floor avoids divide-by-zero on an empty log
	for _, a := range solved {
		if t, err := models.ParseDate(a.Date); err == nil {
			counts[int(t.Weekday())]++
			if counts[int(t.Weekday())] > peak {
				peak = counts[int(t.Weekday())]
			}
		}
	}
	for dow := 0; dow < 7; dow++ {
		report.DowPattern[dow] = DowBucket{
			Weekday:    time.Weekday(dow).String(),
			Count:      counts[dow],
			Normalized: float64(counts[dow]) / float64(peak),
		}
	}

	recent := solved
	if len(recent) > 30 {
		recent = recent[len(recent)-30:]
	}
	for _, a := range recent {
		report.ScoreTrend = append(report.ScoreTrend, ScorePoint{Date: a.Date, Score: a.Score})
		report.DifficultyDist[a.Difficulty]++
	}

	return report
}

// Intensity maps one day's activity to a 0-4 heatmap value: the difficulty
// weight plus one for an above-par score, zero for unsolved days.
func Intensity(a models.Activity) int {
	if !a.Solved {
		return 0
	}
	intensity := a.Difficulty.Level()
	if a.Score >= 50 {
		intensity++
	}
	if intensity > 4 {
		intensity = 4
	}
	return intensity
}

// longestStreak finds the longest run of consecutive solved days. solved must
// be sorted ascending by date.
func longestStreak(solved []models.Activity) int {
	longest, run := 0, 0
	var prev time.Time
	for i, a := range solved {
		day, err := models.ParseDate(a.Date)
		if err != nil {
			continue
		}
		if i > 0 && day.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = day
	}
	return longest
}

// currentStreak counts consecutive solved days anchored at today or
// yesterday; with neither anchor solved the streak is dead.
func currentStreak(solvedSet map[string]bool, today time.Time) int {
	anchor := today
	if !solvedSet[anchor.Format(models.DateLayout)] {
		anchor = today.AddDate(0, 0, -1)
		if !solvedSet[anchor.Format(models.DateLayout)] {
			return 0
		}
	}
	streak := 0
	for d := anchor; solvedSet[d.Format(models.DateLayout)]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
