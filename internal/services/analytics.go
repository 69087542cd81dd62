package services

import (
	"time"

	"github.com/mindgrid-games/mindgrid-web/internal/engine"
	"github.com/mindgrid-games/mindgrid-web/internal/logger"
	"github.com/mindgrid-games/mindgrid-web/internal/store"
)

// AnalyticsService serves the read-side retention and insights views,
// memoized through the explicit cache.
type AnalyticsService struct {
	activities *store.ActivityStore
	cache      *AnalyticsCache
	log        *logger.Log
	now        func() time.Time
}

func NewAnalyticsService(activities *store.ActivityStore, cache *AnalyticsCache) *AnalyticsService {
	return &AnalyticsService{
		activities: activities,
		cache:      cache,
		log:        logger.New(),
		now:        time.Now,
	}
}

// Retention returns the player's retention report, computing it on a cache
// miss. Store failures degrade to an empty history rather than an error.
func (s *AnalyticsService) Retention(uid string) *engine.RetentionReport {
	if report, ok := s.cache.Retention(uid); ok {
		return report
	}
	all, err := s.activities.GetAll(uid)
	if err != nil {
		s.log.WithError(err).Warn("retention falling back to empty history")
		all = nil
	}
	report := engine.BuildRetention(all, s.now().UTC())
	s.cache.SetRetention(uid, report)
	return report
}

// Insights returns the player's insights report, computing it on a cache miss.
func (s *AnalyticsService) Insights(uid string) *engine.InsightsReport {
	if report, ok := s.cache.Insights(uid); ok {
		return report
	}
	all, err := s.activities.GetAll(uid)
	if err != nil {
		s.log.WithError(err).Warn("insights falling back to empty history")
		all = nil
	}
	report := engine.BuildInsights(all)
	s.cache.SetInsights(uid, report)
	return report
}

// Summary is the difficulty engine's decision view on its own, for clients
// that only want the headline numbers.
func (s *AnalyticsService) Summary(uid string) engine.Decision {
	all, err := s.activities.GetAll(uid)
	if err != nil {
		s.log.WithError(err).Warn("summary falling back to empty history")
		all = nil
	}
	return engine.Decide(all)
}
