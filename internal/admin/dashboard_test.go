package admin

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Smithk0/job-fr/internal/backend"
	"github.com/Smithk0/job-fr/internal/backend/backendtest"
	"github.com/Smithk0/job-fr/internal/session"
	"github.com/Smithk0/job-fr/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCreds string

func (c staticCreds) Credential() (string, error) {
	if c == "" {
		return "", session.ErrNoSession
	}
	return string(c), nil
}

type fakeService struct {
	listFn   func(ctx context.Context) ([]types.Job, error)
	updateFn func(ctx context.Context, id string, upd types.JobUpdate, cred string) (*types.Job, error)
	deleteFn func(ctx context.Context, id string, cred string) error

	deleteCalls int32
	updateCalls int32
}

func (f *fakeService) ListJobs(ctx context.Context) ([]types.Job, error) {
	return f.listFn(ctx)
}

func (f *fakeService) UpdateJob(ctx context.Context, id string, upd types.JobUpdate, cred string) (*types.Job, error) {
	atomic.AddInt32(&f.updateCalls, 1)
	return f.updateFn(ctx, id, upd, cred)
}

func (f *fakeService) DeleteJob(ctx context.Context, id string, cred string) error {
	atomic.AddInt32(&f.deleteCalls, 1)
	return f.deleteFn(ctx, id, cred)
}

func listOf(jobs ...types.Job) func(context.Context) ([]types.Job, error) {
	return func(context.Context) ([]types.Job, error) { return jobs, nil }
}

type countingInvalidator struct{ n int32 }

func (c *countingInvalidator) Invalidate() { atomic.AddInt32(&c.n, 1) }

func threeJobs() []types.Job {
	return []types.Job{
		backendtest.SampleJob("a", "Architect"),
		backendtest.SampleJob("b", "Builder"),
		backendtest.SampleJob("c", "Carpenter"),
	}
}

func ids(jobs []types.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func TestLoad_Success(t *testing.T) {
	d := New(&fakeService{listFn: listOf(threeJobs()...)}, staticCreds("code"))
	assert.Equal(t, StateIdle, d.Snapshot().State)

	require.NoError(t, d.Load(context.Background()))
	snap := d.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.Equal(t, []string{"a", "b", "c"}, ids(snap.Jobs))
	assert.False(t, snap.Empty())
}

func TestLoad_EmptyState(t *testing.T) {
	d := New(&fakeService{listFn: listOf()}, staticCreds("code"))
	require.NoError(t, d.Load(context.Background()))
	assert.True(t, d.Snapshot().Empty())
}

func TestLoad_FailureKeepsPreviousList(t *testing.T) {
	svc := &fakeService{listFn: listOf(threeJobs()...)}
	d := New(svc, staticCreds("code"))
	require.NoError(t, d.Load(context.Background()))

	svc.listFn = func(context.Context) ([]types.Job, error) {
		return nil, &backend.Error{Op: "ListJobs", Status: 500, Message: "Failed to fetch jobs"}
	}
	require.Error(t, d.Load(context.Background()))

	snap := d.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "Failed to fetch jobs", snap.LoadError)
	assert.Equal(t, []string{"a", "b", "c"}, ids(snap.Jobs))
}

func TestLoad_FastLoadNeverShowsSpinner(t *testing.T) {
	d := New(&fakeService{listFn: listOf(threeJobs()...)}, staticCreds("code"), WithSpinnerDelay(30*time.Millisecond))

	var sawSpinner atomic.Bool
	d.OnChange(func(s Snapshot) {
		if s.SpinnerVisible {
			sawSpinner.Store(true)
		}
	})

	require.NoError(t, d.Load(context.Background()))
	time.Sleep(90 * time.Millisecond)

	assert.False(t, sawSpinner.Load())
	assert.False(t, d.Snapshot().SpinnerVisible)
}

func TestLoad_SlowLoadShowsSpinnerUntilDone(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeService{listFn: func(context.Context) ([]types.Job, error) {
		<-release
		return threeJobs(), nil
	}}
	d := New(svc, staticCreds("code"), WithSpinnerDelay(20*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- d.Load(context.Background()) }()

	require.Eventually(t, func() bool { return d.Snapshot().SpinnerVisible }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateLoading, d.Snapshot().State)

	close(release)
	require.NoError(t, <-done)

	snap := d.Snapshot()
	assert.False(t, snap.SpinnerVisible)
	assert.Equal(t, StateSuccess, snap.State)
}

func TestLoad_SupersededTimerDoesNotShowSpinner(t *testing.T) {
	var calls int32
	first := make(chan struct{})
	svc := &fakeService{listFn: func(context.Context) ([]types.Job, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-first
		}
		return threeJobs(), nil
	}}
	d := New(svc, staticCreds("code"), WithSpinnerDelay(40*time.Millisecond))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = d.Load(context.Background())
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)

	// A second, fast load supersedes the first.
	require.NoError(t, d.Load(context.Background()))
	time.Sleep(80 * time.Millisecond)
	assert.False(t, d.Snapshot().SpinnerVisible)

	close(first)
	wg.Wait()
	assert.Equal(t, StateSuccess, d.Snapshot().State)
	assert.False(t, d.Snapshot().SpinnerVisible)
}

func TestConfirmDelete_RemovesExactlyThatJob(t *testing.T) {
	inv := &countingInvalidator{}
	svc := &fakeService{
		listFn: listOf(threeJobs()...),
		deleteFn: func(_ context.Context, id, cred string) error {
			assert.Equal(t, "b", id)
			assert.Equal(t, "code", cred)
			return nil
		},
	}
	d := New(svc, staticCreds("code"), WithInvalidator(inv))
	require.NoError(t, d.Load(context.Background()))

	require.NoError(t, d.RequestDelete("b"))
	job, ok := d.Snapshot().DeleteJob()
	require.True(t, ok)
	assert.Equal(t, "Builder", job.Title)

	require.NoError(t, d.ConfirmDelete(context.Background()))
	snap := d.Snapshot()
	assert.Equal(t, []string{"a", "c"}, ids(snap.Jobs))
	assert.Empty(t, snap.DeleteID)
	assert.False(t, snap.Deleting)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inv.n))
}

func TestConfirmDelete_FailureKeepsConfirmationOpen(t *testing.T) {
	inv := &countingInvalidator{}
	svc := &fakeService{
		listFn: listOf(threeJobs()...),
		deleteFn: func(context.Context, string, string) error {
			return &backend.Error{Op: "DeleteJob", Status: 500, Message: "Database unavailable"}
		},
	}
	d := New(svc, staticCreds("code"), WithInvalidator(inv))
	require.NoError(t, d.Load(context.Background()))
	require.NoError(t, d.RequestDelete("b"))

	require.Error(t, d.ConfirmDelete(context.Background()))
	snap := d.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, ids(snap.Jobs))
	assert.Equal(t, "b", snap.DeleteID)
	assert.Equal(t, "Database unavailable", snap.DeleteError)
	assert.Zero(t, atomic.LoadInt32(&inv.n))

	d.CancelDelete()
	snap = d.Snapshot()
	assert.Empty(t, snap.DeleteID)
	assert.Empty(t, snap.DeleteError)
}

func TestConfirmDelete_MissingCredential(t *testing.T) {
	svc := &fakeService{listFn: listOf(threeJobs()...)}
	d := New(svc, staticCreds(""))
	require.NoError(t, d.Load(context.Background()))
	require.NoError(t, d.RequestDelete("a"))

	require.Error(t, d.ConfirmDelete(context.Background()))
	assert.Equal(t, "Access code required. Please log in.", d.Snapshot().DeleteError)
	assert.Zero(t, atomic.LoadInt32(&svc.deleteCalls))
}

func TestDeleteRequests_Errors(t *testing.T) {
	d := New(&fakeService{listFn: listOf(threeJobs()...)}, staticCreds("code"))
	require.NoError(t, d.Load(context.Background()))

	assert.ErrorIs(t, d.RequestDelete("zzz"), ErrUnknownJob)
	assert.ErrorIs(t, d.ConfirmDelete(context.Background()), ErrNoPendingDelete)
}

func TestSubmitEdit_PatchesListInPlace(t *testing.T) {
	inv := &countingInvalidator{}
	svc := &fakeService{
		listFn: listOf(threeJobs()...),
		updateFn: func(_ context.Context, id string, upd types.JobUpdate, _ string) (*types.Job, error) {
			assert.Equal(t, "a", id)
			assert.Equal(t, []string{"title", "requirements"}, upd.Changed())
			return nil, nil
		},
	}
	d := New(svc, staticCreds("code"), WithInvalidator(inv))
	require.NoError(t, d.Load(context.Background()))

	form, err := d.BeginEdit("a")
	require.NoError(t, err)
	assert.Equal(t, "Architect", form.Title)
	assert.Equal(t, "a", d.Snapshot().EditID)

	form.Title = "Lead Architect"
	form.Requirements = "Go, Kubernetes"
	require.NoError(t, d.SubmitEdit(context.Background(), form))

	snap := d.Snapshot()
	assert.Empty(t, snap.EditID)
	assert.Equal(t, "Lead Architect", snap.Jobs[0].Title)
	assert.Equal(t, []string{"Go", "Kubernetes"}, snap.Jobs[0].Requirements)
	assert.Equal(t, "Builder", snap.Jobs[1].Title)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inv.n))
}

func TestSubmitEdit_LeavesCommaEntriesIntact(t *testing.T) {
	job := backendtest.SampleJob("a", "Architect")
	job.Requirements = []string{"Experience with Go, Rust or C++"}

	var sent types.JobUpdate
	svc := &fakeService{
		listFn: listOf(job),
		updateFn: func(_ context.Context, _ string, upd types.JobUpdate, _ string) (*types.Job, error) {
			sent = upd
			return nil, nil
		},
	}
	d := New(svc, staticCreds("code"))
	require.NoError(t, d.Load(context.Background()))

	form, err := d.BeginEdit("a")
	require.NoError(t, err)
	form.Title = "Lead Architect"
	require.NoError(t, d.SubmitEdit(context.Background(), form))

	assert.Equal(t, []string{"title"}, sent.Changed())
	assert.Equal(t, []string{"Experience with Go, Rust or C++"}, d.Snapshot().Jobs[0].Requirements)
}

func TestSubmitEdit_UsesServerJobWhenReturned(t *testing.T) {
	svc := &fakeService{
		listFn: listOf(threeJobs()...),
		updateFn: func(_ context.Context, id string, upd types.JobUpdate, _ string) (*types.Job, error) {
			j := backendtest.SampleJob(id, "Server Title")
			return &j, nil
		},
	}
	d := New(svc, staticCreds("code"))
	require.NoError(t, d.Load(context.Background()))

	form, err := d.BeginEdit("c")
	require.NoError(t, err)
	form.Title = "Client Title"
	require.NoError(t, d.SubmitEdit(context.Background(), form))
	assert.Equal(t, "Server Title", d.Snapshot().Jobs[2].Title)
}

func TestSubmitEdit_NoChangesSkipsCall(t *testing.T) {
	svc := &fakeService{listFn: listOf(threeJobs()...)}
	d := New(svc, staticCreds("code"))
	require.NoError(t, d.Load(context.Background()))

	form, err := d.BeginEdit("a")
	require.NoError(t, err)
	require.NoError(t, d.SubmitEdit(context.Background(), form))
	assert.Zero(t, atomic.LoadInt32(&svc.updateCalls))
	assert.Empty(t, d.Snapshot().EditID)
}

func TestSubmitEdit_FailureKeepsEditOpen(t *testing.T) {
	svc := &fakeService{
		listFn: listOf(threeJobs()...),
		updateFn: func(context.Context, string, types.JobUpdate, string) (*types.Job, error) {
			return nil, &backend.Error{Op: "UpdateJob", Status: 400, Message: "Title too long"}
		},
	}
	d := New(svc, staticCreds("code"))
	require.NoError(t, d.Load(context.Background()))

	form, err := d.BeginEdit("a")
	require.NoError(t, err)
	form.Title = "Changed"
	require.Error(t, d.SubmitEdit(context.Background(), form))

	snap := d.Snapshot()
	assert.Equal(t, "a", snap.EditID)
	assert.Equal(t, "Title too long", snap.EditError)
	assert.Equal(t, "Changed", snap.EditForm.Title)
	assert.Equal(t, "Architect", snap.Jobs[0].Title)

	d.CancelEdit()
	assert.Empty(t, d.Snapshot().EditID)
}

func TestSubmitEdit_ValidationErrors(t *testing.T) {
	svc := &fakeService{listFn: listOf(threeJobs()...)}
	d := New(svc, staticCreds("code"))
	require.NoError(t, d.Load(context.Background()))

	form, err := d.BeginEdit("a")
	require.NoError(t, err)
	form.Title = "  "
	form.MapURL = "not a url"

	err = d.SubmitEdit(context.Background(), form)
	var fe types.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Job title is required", fe["title"])
	assert.Equal(t, "Must be a valid URL", fe["mapUrl"])
	assert.Equal(t, fe, d.Snapshot().EditFieldErrors)
	assert.Zero(t, atomic.LoadInt32(&svc.updateCalls))
}

func TestDashboard_AgainstBackend(t *testing.T) {
	b := backendtest.New("code", backendtest.SampleJob("1", "Architect"))
	srv := b.Start(t)
	client, err := backend.New(srv.URL+"/api", nil)
	require.NoError(t, err)

	d := New(client, staticCreds("code"))
	require.NoError(t, d.Load(context.Background()))
	snap := d.Snapshot()
	require.Len(t, snap.Jobs, 1)
	assert.Equal(t, "Architect", snap.Jobs[0].Title)

	require.NoError(t, d.RequestDelete("1"))
	require.NoError(t, d.ConfirmDelete(context.Background()))

	snap = d.Snapshot()
	assert.Empty(t, snap.Jobs)
	assert.True(t, snap.Empty())
	assert.Empty(t, b.Jobs())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", State(42).String())
}
