// Package jobs tracks long-running backend tasks via GET /jobs/{id}.
// Terminal statuses are immutable server-side, so they are memoized in the
// cache and repeated reads skip the network.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ViFerX/research-assistant/internal/domain/research"
	"github.com/ViFerX/research-assistant/internal/port/cache"
)

// StatusFetcher is the slice of the API surface the poller needs.
// *api.Client satisfies it.
type StatusFetcher interface {
	JobStatus(ctx context.Context, jobID string) (*research.Job, error)
}

// Poller reads job statuses with a terminal-status cache.
type Poller struct {
	fetcher StatusFetcher
	cache   cache.Cache
	ttl     time.Duration
}

// NewPoller creates a Poller. cache may be nil to disable memoization.
func NewPoller(fetcher StatusFetcher, c cache.Cache, ttl time.Duration) *Poller {
	return &Poller{fetcher: fetcher, cache: c, ttl: ttl}
}

// Status returns the job's current status, serving terminal statuses from
// cache when available.
func (p *Poller) Status(ctx context.Context, jobID string) (*research.Job, error) {
	key := "job:" + jobID

	if p.cache != nil {
		if data, ok, err := p.cache.Get(ctx, key); err == nil && ok {
			var job research.Job
			if err := json.Unmarshal(data, &job); err == nil {
				return &job, nil
			}
			// Corrupt entry: drop it and fall through to the backend.
			_ = p.cache.Delete(ctx, key)
		}
	}

	job, err := p.fetcher.JobStatus(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if p.cache != nil && job.Terminal() {
		if data, err := json.Marshal(job); err == nil {
			_ = p.cache.Set(ctx, key, data, p.ttl)
		}
	}
	return job, nil
}

// Wait polls until the job reaches a terminal status or ctx is done.
func (p *Poller) Wait(ctx context.Context, jobID string, interval time.Duration) (*research.Job, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := p.Status(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Terminal() {
			return job, nil
		}
		slog.Debug("job still running", "job_id", jobID, "status", job.Status)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}
