// Package backendtest provides an in-memory implementation of the jobs REST API
// for tests and local development.
package backendtest

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/Smithk0/job-fr/internal/types"
	"github.com/google/uuid"
)

// Request records one call received by the fake.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

type failure struct {
	status  int
	message string
}

// Backend is an in-memory jobs API. Routes are served under /api.
type Backend struct {
	mu           sync.Mutex
	accessCode   string
	jobs         []types.Job
	applications []types.ApplicationRecord
	failures     map[string]failure
	requests     []Request
	logger       *log.Logger
	mux          *http.ServeMux
}

// New creates a backend that accepts accessCode as the admin credential.
func New(accessCode string, jobs ...types.Job) *Backend {
	b := &Backend{
		accessCode: accessCode,
		jobs:       append([]types.Job(nil), jobs...),
		failures:   make(map[string]failure),
	}
	b.routes()
	return b
}

// SetLogger enables one log line per request.
func (b *Backend) SetLogger(l *log.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = l
}

// Start serves the backend on a test server closed when t finishes.
func (b *Backend) Start(t interface{ Cleanup(func()) }) *httptest.Server {
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return srv
}

// Fail makes the next request matching "METHOD /path" (path without the /api
// prefix, e.g. "DELETE /jobs/1") fail with status and message.
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, message: message}
}

// Requests returns the calls received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Jobs returns a copy of the stored jobs.
func (b *Backend) Jobs() []types.Job {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]types.Job(nil), b.jobs...)
}

// Applications returns a copy of the stored applications.
func (b *Backend) Applications() []types.ApplicationRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]types.ApplicationRecord(nil), b.applications...)
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:        r.Method,
		Path:          path,
		Authorization: r.Header.Get("Authorization"),
	})
	logger := b.logger
	f, failing := b.failures[r.Method+" "+path]
	if failing {
		delete(b.failures, r.Method+" "+path)
	}
	b.mu.Unlock()

	if logger != nil {
		logger.Printf("[dev-backend] %s %s", r.Method, path)
	}
	if failing {
		writeMessage(w, f.status, f.message)
		return
	}
	b.mux.ServeHTTP(w, r)
}

func (b *Backend) routes() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jobs", b.handleListJobs)
	mux.HandleFunc("POST /api/jobs", b.requireAuth(b.handleCreateJob))
	mux.HandleFunc("GET /api/jobs/{id}", b.handleGetJob)
	mux.HandleFunc("PUT /api/jobs/{id}", b.requireAuth(b.handleUpdateJob))
	mux.HandleFunc("DELETE /api/jobs/{id}", b.requireAuth(b.handleDeleteJob))
	mux.HandleFunc("POST /api/jobs/{id}/apply", b.handleApply)
	mux.HandleFunc("GET /api/jobs/{id}/applications", b.requireAuth(b.handleListApplications))
	mux.HandleFunc("DELETE /api/applications/{id}", b.requireAuth(b.handleDeleteApplication))
	mux.HandleFunc("POST /api/verify-access-code", b.handleVerify)
	b.mux = mux
}

func (b *Backend) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" || token != b.accessCode {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

func (b *Backend) handleListJobs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.Jobs())
}

func (b *Backend) handleGetJob(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(r.PathValue("id"))
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "Job not found")
		return
	}
	writeJSON(w, http.StatusOK, b.jobs[i])
}

func (b *Backend) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var in types.JobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid job payload")
		return
	}
	if err := in.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	job := types.Job{
		ID:               uuid.NewString(),
		Title:            in.Title,
		Company:          in.Company,
		CompanyLogo:      in.CompanyLogo,
		Description:      in.Description,
		Department:       in.Department,
		Location:         in.Location,
		Type:             in.Type,
		Requirements:     in.Requirements,
		Responsibilities: in.Responsibilities,
		Salary:           in.Salary,
		Benefits:         in.Benefits,
		MapURL:           in.MapURL,
	}

	b.mu.Lock()
	b.jobs = append(b.jobs, job)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, job)
}

func (b *Backend) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var upd types.JobUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid job payload")
		return
	}
	if err := upd.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(r.PathValue("id"))
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "Job not found")
		return
	}
	b.jobs[i] = upd.Apply(b.jobs[i])
	writeJSON(w, http.StatusOK, b.jobs[i])
}

func (b *Backend) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(r.PathValue("id"))
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "Job not found")
		return
	}
	b.jobs = append(b.jobs[:i], b.jobs[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) handleApply(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	r.Body = http.MaxBytesReader(w, r.Body, types.MaxResumeSize+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid application payload")
		return
	}

	file, hdr, err := r.FormFile("resume")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, types.ResumeMessage(types.ErrResumeRequired))
		return
	}
	defer func() { _ = file.Close() }()
	if _, err := io.Copy(io.Discard, file); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid resume")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexOf(id) < 0 {
		writeMessage(w, http.StatusNotFound, "Job not found")
		return
	}
	b.applications = append(b.applications, types.ApplicationRecord{
		ID:             uuid.NewString(),
		JobID:          id,
		ApplicantName:  r.FormValue("applicantName"),
		ApplicantEmail: r.FormValue("applicantEmail"),
		CoverLetter:    r.FormValue("coverLetter"),
		Resume:         hdr.Filename,
	})
	writeMessage(w, http.StatusCreated, "Application submitted successfully")
}

func (b *Backend) handleListApplications(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b.mu.Lock()
	out := []types.ApplicationRecord{}
	for _, a := range b.applications {
		if a.JobID == id {
			out = append(out, a)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, a := range b.applications {
		if a.ID == id {
			b.applications = append(b.applications[:i], b.applications[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Application not found")
}

func (b *Backend) handleVerify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccessCode string `json:"accessCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if body.AccessCode == "" || body.AccessCode != b.accessCode {
		writeMessage(w, http.StatusUnauthorized, "Invalid access code")
		return
	}
	writeMessage(w, http.StatusOK, "Access granted")
}

// indexOf must be called with b.mu held.
func (b *Backend) indexOf(id string) int {
	for i, j := range b.jobs {
		if j.ID == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[dev-backend] failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// SampleJob returns a complete job with the given id and title.
func SampleJob(id, title string) types.Job {
	return types.Job{
		ID:               id,
		Title:            title,
		Company:          "Elite Residences",
		CompanyLogo:      "https://storage.eliteresidences.cloud/bintu.png",
		Description:      fmt.Sprintf("We are hiring a **%s**.", title),
		Department:       "Engineering",
		Location:         "Remote",
		Type:             types.FullTime,
		Requirements:     []string{"5 years experience"},
		Responsibilities: []string{"Design systems"},
	}
}
