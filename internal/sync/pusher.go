// Package sync pushes unsynced activity records to the remote leaderboard
// store. It is deliberately thin: one JSON POST per pass, mark-synced on
// success, try again next pass on anything else.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mindgrid-games/mindgrid-web/internal/logger"
	"github.com/mindgrid-games/mindgrid-web/internal/models"
	"github.com/mindgrid-games/mindgrid-web/internal/store"
)

type Pusher struct {
	activities *store.ActivityStore
	client     *http.Client
	url        string
	interval   time.Duration
	log        *logger.Log
}

func NewPusher(activities *store.ActivityStore, url string, interval time.Duration) *Pusher {
	return &Pusher{
		activities: activities,
		client:     &http.Client{Timeout: 15 * time.Second},
		url:        url,
		interval:   interval,
		log:        logger.New(),
	}
}

// Run pushes on the configured interval until the context is cancelled.
// A missing URL disables syncing entirely.
func (p *Pusher) Run(ctx context.Context) {
	if p.url == "" {
		p.log.Info("Remote sync disabled: no leaderboard URL configured")
		return
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Push(ctx); err != nil {
				p.log.WithError(err).Warn("Sync pass failed, will retry next interval")
			}
		}
	}
}

// Push sends every unsynced record upstream and marks the pushed dates.
func (p *Pusher) Push(ctx context.Context) error {
	unsynced, err := p.activities.GetAllUnsynced()
	if err != nil {
		return err
	}
	if len(unsynced) == 0 {
		return nil
	}

	body, err := json.Marshal(map[string][]models.Activity{"activities": unsynced})
	if err != nil {
		return fmt.Errorf("failed to encode sync payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("sync request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remote store rejected sync: %s", resp.Status)
	}

	datesByUID := map[string][]string{}
	for _, a := range unsynced {
		datesByUID[a.UID] = append(datesByUID[a.UID], a.Date)
	}
	for uid, dates := range datesByUID {
		if err := p.activities.MarkSynced(uid, dates); err != nil {
			return err
		}
	}

	p.log.Infof("Synced %d activity records", len(unsynced))
	return nil
}
