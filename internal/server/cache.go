package server

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/Smithk0/job-fr/internal/types"
	"golang.org/x/sync/singleflight"
)

// JobCache holds the public job list for a fixed interval. Concurrent misses
// share one backend call. When a refresh fails and an older list exists, the
// older list keeps being served.
type JobCache struct {
	fetch func(ctx context.Context) ([]types.Job, error)
	ttl   time.Duration
	now   func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	jobs      []types.Job
	fetchedAt time.Time
	valid     bool
	gen       uint64
}

// NewJobCache creates a cache over fetch. A ttl of zero disables caching.
func NewJobCache(fetch func(ctx context.Context) ([]types.Job, error), ttl time.Duration) *JobCache {
	return &JobCache{fetch: fetch, ttl: ttl, now: time.Now}
}

// Jobs returns the cached list, refreshing it when older than the interval.
func (c *JobCache) Jobs(ctx context.Context) ([]types.Job, error) {
	c.mu.RLock()
	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		jobs := slices.Clone(c.jobs)
		c.mu.RUnlock()
		return jobs, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	v, err, _ := c.group.Do("jobs", func() (any, error) {
		// Detached so one client disconnecting does not fail the others.
		return c.fetch(context.WithoutCancel(ctx))
	})
	if err != nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.valid {
			log.Printf("[cache] refresh failed, serving previous job list: %v", err)
			return slices.Clone(c.jobs), nil
		}
		return nil, err
	}

	jobs := v.([]types.Job)
	c.mu.Lock()
	if c.gen == gen {
		c.jobs = jobs
		c.fetchedAt = c.now()
		c.valid = true
	}
	c.mu.Unlock()
	return slices.Clone(jobs), nil
}

// Invalidate drops the cached list so the next read goes to the backend.
func (c *JobCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.jobs = nil
	c.gen++
	c.mu.Unlock()
	c.group.Forget("jobs")
}
