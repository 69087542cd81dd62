package services

import (
	"sync"

	"github.com/mindgrid-games/mindgrid-web/internal/engine"
)

// AnalyticsCache memoizes the per-player analytics reports. It has no expiry
// and no subscription to store changes: every store write must be followed by
// an explicit Invalidate for that player, or the reports go stale.
type AnalyticsCache struct {
	mu        sync.Mutex
	retention map[string]*engine.RetentionReport
	insights  map[string]*engine.InsightsReport
}

func NewAnalyticsCache() *AnalyticsCache {
	return &AnalyticsCache{
		retention: make(map[string]*engine.RetentionReport),
		insights:  make(map[string]*engine.InsightsReport),
	}
}

func (c *AnalyticsCache) Retention(uid string) (*engine.RetentionReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	report, ok := c.retention[uid]
	return report, ok
}

func (c *AnalyticsCache) SetRetention(uid string, report *engine.RetentionReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retention[uid] = report
}

func (c *AnalyticsCache) Insights(uid string) (*engine.InsightsReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	report, ok := c.insights[uid]
	return report, ok
}

func (c *AnalyticsCache) SetInsights(uid string, report *engine.InsightsReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insights[uid] = report
}

// Invalidate drops the player's cached reports.
func (c *AnalyticsCache) Invalidate(uid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.retention, uid)
	delete(c.insights, uid)
}
