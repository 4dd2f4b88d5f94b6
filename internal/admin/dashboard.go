// Package admin implements the admin job-management workflow: loading the job
// list, deleting and updating postings, and creating new ones. It holds no
// rendering code; the web handlers and the terminal UI both drive it.
package admin

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/Smithk0/job-fr/internal/types"
)

// DefaultSpinnerDelay is how long a load must be pending before the loading
// indicator is shown.
const DefaultSpinnerDelay = 500 * time.Millisecond

// EmptyMessage is shown when a load succeeds with no jobs.
const EmptyMessage = "No jobs found. Start by posting a new job."

const unexpectedError = "An unexpected error occurred."

var (
	// ErrUnknownJob is returned when an id is not in the loaded list.
	ErrUnknownJob = errors.New("job is not in the list")
	// ErrNoPendingDelete is returned by ConfirmDelete with no confirmation open.
	ErrNoPendingDelete = errors.New("no delete pending")
	// ErrNoPendingEdit is returned by SubmitEdit with no edit open.
	ErrNoPendingEdit = errors.New("no edit pending")
	// ErrBusy is returned when the same operation is already in flight.
	ErrBusy = errors.New("operation already in progress")
)

// State is the list load state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// JobService is the part of the backend client the dashboard uses.
type JobService interface {
	ListJobs(ctx context.Context) ([]types.Job, error)
	UpdateJob(ctx context.Context, id string, upd types.JobUpdate, credential string) (*types.Job, error)
	DeleteJob(ctx context.Context, id string, credential string) error
}

// CredentialSource supplies the access code for authenticated calls.
type CredentialSource interface {
	Credential() (string, error)
}

// Invalidator is told when a mutation succeeded so cached job lists can be
// dropped.
type Invalidator interface {
	Invalidate()
}

// Option configures a Dashboard or Create.
type Option func(*options)

type options struct {
	spinnerDelay time.Duration
	invalidator  Invalidator
}

// WithSpinnerDelay overrides DefaultSpinnerDelay.
func WithSpinnerDelay(d time.Duration) Option {
	return func(o *options) { o.spinnerDelay = d }
}

// WithInvalidator registers inv to be called after successful mutations.
func WithInvalidator(inv Invalidator) Option {
	return func(o *options) { o.invalidator = inv }
}

func buildOptions(opts []Option) options {
	o := options{spinnerDelay: DefaultSpinnerDelay}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) invalidate() {
	if o.invalidator != nil {
		o.invalidator.Invalidate()
	}
}

// Snapshot is a copy of the dashboard state for rendering.
type Snapshot struct {
	State          State
	Jobs           []types.Job
	SpinnerVisible bool
	LoadError      string

	DeleteID    string
	Deleting    bool
	DeleteError string

	EditID          string
	EditForm        JobForm
	Saving          bool
	EditError       string
	EditFieldErrors types.FieldErrors
}

// Loading reports whether a load is pending.
func (s Snapshot) Loading() bool { return s.State == StateLoading }

// Empty reports whether the last load succeeded with no jobs.
func (s Snapshot) Empty() bool { return s.State == StateSuccess && len(s.Jobs) == 0 }

// DeleteJob returns the job awaiting delete confirmation.
func (s Snapshot) DeleteJob() (types.Job, bool) { return s.find(s.DeleteID) }

// EditJob returns the job being edited.
func (s Snapshot) EditJob() (types.Job, bool) { return s.find(s.EditID) }

func (s Snapshot) find(id string) (types.Job, bool) {
	if id == "" {
		return types.Job{}, false
	}
	for _, j := range s.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return types.Job{}, false
}

// Dashboard is the admin job list with its delete and edit sub-flows. It is
// safe for concurrent use.
type Dashboard struct {
	service JobService
	creds   CredentialSource
	opts    options

	mu        sync.Mutex
	state     State
	jobs      []types.Job
	loadErr   string
	loadSeq   uint64
	spinner   bool
	timer     *time.Timer
	listeners []func(Snapshot)

	deleteID  string
	deleting  bool
	deleteErr string

	editID     string
	editOrig   types.Job
	editForm   JobForm
	saving     bool
	editErr    string
	editFields types.FieldErrors
}

// New creates a dashboard over service, authenticating mutations with creds.
func New(service JobService, creds CredentialSource, opts ...Option) *Dashboard {
	return &Dashboard{
		service: service,
		creds:   creds,
		opts:    buildOptions(opts),
	}
}

// OnChange registers fn to receive a snapshot after every state change. fn is
// called without the dashboard lock held.
func (d *Dashboard) OnChange(fn func(Snapshot)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// Snapshot returns the current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dashboard) snapshotLocked() Snapshot {
	s := Snapshot{
		State:          d.state,
		Jobs:           slices.Clone(d.jobs),
		SpinnerVisible: d.spinner,
		LoadError:      d.loadErr,
		DeleteID:       d.deleteID,
		Deleting:       d.deleting,
		DeleteError:    d.deleteErr,
		EditID:         d.editID,
		EditForm:       d.editForm,
		Saving:         d.saving,
		EditError:      d.editErr,
	}
	if len(d.editFields) > 0 {
		s.EditFieldErrors = make(types.FieldErrors, len(d.editFields))
		for k, v := range d.editFields {
			s.EditFieldErrors[k] = v
		}
	}
	return s
}

func (d *Dashboard) notify() {
	d.mu.Lock()
	listeners := slices.Clone(d.listeners)
	snap := d.snapshotLocked()
	d.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

// Load fetches the job list. The loading indicator becomes visible only if the
// load is still pending after the spinner delay. On failure the previous list
// is kept and LoadError is set.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	d.loadSeq++
	seq := d.loadSeq
	d.state = StateLoading
	d.loadErr = ""
	d.spinner = false
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.opts.spinnerDelay, func() { d.showSpinner(seq) })
	d.mu.Unlock()
	d.notify()

	jobs, err := d.service.ListJobs(ctx)

	d.mu.Lock()
	if seq != d.loadSeq {
		// A newer load owns the state.
		d.mu.Unlock()
		return err
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.spinner = false
	if err != nil {
		d.state = StateError
		d.loadErr = Message(err, unexpectedError)
	} else {
		d.state = StateSuccess
		d.jobs = jobs
	}
	d.mu.Unlock()

	if err != nil {
		log.Printf("[admin] failed to load jobs: %v", err)
	}
	d.notify()
	return err
}

func (d *Dashboard) showSpinner(seq uint64) {
	d.mu.Lock()
	if seq != d.loadSeq || d.state != StateLoading {
		d.mu.Unlock()
		return
	}
	d.spinner = true
	d.mu.Unlock()
	d.notify()
}

func (d *Dashboard) indexLocked(id string) int {
	return slices.IndexFunc(d.jobs, func(j types.Job) bool { return j.ID == id })
}

// RequestDelete opens the delete confirmation for id.
func (d *Dashboard) RequestDelete(id string) error {
	d.mu.Lock()
	if d.indexLocked(id) < 0 {
		d.mu.Unlock()
		return ErrUnknownJob
	}
	d.deleteID = id
	d.deleteErr = ""
	d.mu.Unlock()
	d.notify()
	return nil
}

// CancelDelete closes the delete confirmation.
func (d *Dashboard) CancelDelete() {
	d.mu.Lock()
	d.deleteID = ""
	d.deleteErr = ""
	d.mu.Unlock()
	d.notify()
}

// ConfirmDelete deletes the job awaiting confirmation. On success exactly that
// job is removed from the list; on failure the list is unchanged, the
// confirmation stays open and DeleteError is set.
func (d *Dashboard) ConfirmDelete(ctx context.Context) error {
	d.mu.Lock()
	if d.deleteID == "" {
		d.mu.Unlock()
		return ErrNoPendingDelete
	}
	if d.deleting {
		d.mu.Unlock()
		return ErrBusy
	}
	id := d.deleteID
	d.deleting = true
	d.deleteErr = ""
	d.mu.Unlock()
	d.notify()

	cred, err := d.creds.Credential()
	if err == nil {
		err = d.service.DeleteJob(ctx, id, cred)
	}

	d.mu.Lock()
	d.deleting = false
	if err != nil {
		d.deleteErr = Message(err, "Failed to delete job.")
	} else {
		d.jobs = slices.DeleteFunc(slices.Clone(d.jobs), func(j types.Job) bool { return j.ID == id })
		d.deleteID = ""
	}
	d.mu.Unlock()

	if err != nil {
		log.Printf("[admin] failed to delete job %s: %v", id, err)
	} else {
		log.Printf("[admin] deleted job %s", id)
		d.opts.invalidate()
	}
	d.notify()
	return err
}

// BeginEdit opens the edit surface for id and returns the pre-filled form.
func (d *Dashboard) BeginEdit(id string) (JobForm, error) {
	d.mu.Lock()
	i := d.indexLocked(id)
	if i < 0 {
		d.mu.Unlock()
		return JobForm{}, ErrUnknownJob
	}
	d.editID = id
	d.editOrig = d.jobs[i]
	d.editForm = FormFromJob(d.jobs[i])
	d.editErr = ""
	d.editFields = nil
	form := d.editForm
	d.mu.Unlock()
	d.notify()
	return form, nil
}

// CancelEdit closes the edit surface.
func (d *Dashboard) CancelEdit() {
	d.mu.Lock()
	d.closeEditLocked()
	d.mu.Unlock()
	d.notify()
}

func (d *Dashboard) closeEditLocked() {
	d.editID = ""
	d.editOrig = types.Job{}
	d.editForm = JobForm{}
	d.editErr = ""
	d.editFields = nil
}

// SubmitEdit sends the fields of form that differ from the listed job. On
// success the edit closes and the list entry is replaced in place; on failure
// the edit stays open with EditError set.
func (d *Dashboard) SubmitEdit(ctx context.Context, form JobForm) error {
	d.mu.Lock()
	if d.editID == "" {
		d.mu.Unlock()
		return ErrNoPendingEdit
	}
	if d.saving {
		d.mu.Unlock()
		return ErrBusy
	}
	id, orig := d.editID, d.editOrig
	d.editForm = form

	if fe := form.Validate(); fe != nil {
		d.editFields = fe
		d.editErr = ""
		d.mu.Unlock()
		d.notify()
		return fe
	}

	upd := form.Diff(orig)
	if upd.IsEmpty() {
		d.closeEditLocked()
		d.mu.Unlock()
		d.notify()
		return nil
	}

	d.saving = true
	d.editErr = ""
	d.editFields = nil
	d.mu.Unlock()
	d.notify()

	var updated *types.Job
	cred, err := d.creds.Credential()
	if err == nil {
		updated, err = d.service.UpdateJob(ctx, id, upd, cred)
	}

	d.mu.Lock()
	d.saving = false
	if err != nil {
		d.editErr = Message(err, "Failed to update job.")
	} else {
		next := upd.Apply(orig)
		if updated != nil {
			next = *updated
		}
		if i := d.indexLocked(id); i >= 0 {
			d.jobs = slices.Clone(d.jobs)
			d.jobs[i] = next
		}
		d.closeEditLocked()
	}
	d.mu.Unlock()

	if err != nil {
		log.Printf("[admin] failed to update job %s: %v", id, err)
	} else {
		log.Printf("[admin] updated job %s (%v)", id, upd.Changed())
		d.opts.invalidate()
	}
	d.notify()
	return err
}
