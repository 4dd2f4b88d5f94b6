package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Smithk0/job-fr/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetch struct {
	calls atomic.Int32
	jobs  []types.Job
	err   error
	delay time.Duration
}

func (f *countingFetch) fetch(ctx context.Context) ([]types.Job, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs, nil
}

func TestJobCache_ServesWithinInterval(t *testing.T) {
	f := &countingFetch{jobs: []types.Job{{ID: "1", Title: "Architect"}}}
	c := NewJobCache(f.fetch, 10*time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }

	for range 3 {
		jobs, err := c.Jobs(context.Background())
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	}
	assert.EqualValues(t, 1, f.calls.Load())

	now = now.Add(11 * time.Second)
	_, err := c.Jobs(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestJobCache_ZeroIntervalAlwaysFetches(t *testing.T) {
	f := &countingFetch{}
	c := NewJobCache(f.fetch, 0)
	_, _ = c.Jobs(context.Background())
	_, _ = c.Jobs(context.Background())
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestJobCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	f := &countingFetch{jobs: []types.Job{{ID: "1"}}, delay: 50 * time.Millisecond}
	c := NewJobCache(f.fetch, time.Minute)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			jobs, err := c.Jobs(context.Background())
			assert.NoError(t, err)
			assert.Len(t, jobs, 1)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestJobCache_StaleOnFailure(t *testing.T) {
	f := &countingFetch{jobs: []types.Job{{ID: "1"}}}
	c := NewJobCache(f.fetch, time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.Jobs(context.Background())
	require.NoError(t, err)

	f.err = errors.New("backend down")
	now = now.Add(time.Minute)
	jobs, err := c.Jobs(context.Background())
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestJobCache_FailureWithoutDataIsReturned(t *testing.T) {
	f := &countingFetch{err: errors.New("backend down")}
	c := NewJobCache(f.fetch, time.Minute)
	_, err := c.Jobs(context.Background())
	assert.EqualError(t, err, "backend down")
}

func TestJobCache_Invalidate(t *testing.T) {
	f := &countingFetch{jobs: []types.Job{{ID: "1"}}}
	c := NewJobCache(f.fetch, time.Hour)

	_, _ = c.Jobs(context.Background())
	c.Invalidate()
	f.jobs = nil
	jobs, err := c.Jobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestJobCache_ReturnsCopies(t *testing.T) {
	f := &countingFetch{jobs: []types.Job{{ID: "1", Title: "Architect"}}}
	c := NewJobCache(f.fetch, time.Hour)

	jobs, _ := c.Jobs(context.Background())
	jobs[0].Title = "changed"
	again, _ := c.Jobs(context.Background())
	assert.Equal(t, "Architect", again[0].Title)
}
