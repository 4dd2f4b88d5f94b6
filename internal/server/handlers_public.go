package server

import (
	"log"
	"net/http"

	"github.com/Smithk0/job-fr/internal/types"
)

const (
	listingsError  = "Failed to load job listings. Please try again later."
	appliedMessage = "Application submitted successfully!"
)

type homeView struct {
	page
	Jobs      []types.Job
	LoadError string
}

type jobView struct {
	page
	Job types.Job
}

// handleHome renders the landing page with the cached job list.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	view := homeView{page: s.page(r, "Careers | Elite Residences")}
	if r.URL.Query().Get("applied") == "1" {
		view.Flash = appliedMessage
	}

	jobs, err := s.cache.Jobs(r.Context())
	if err != nil {
		log.Printf("[server] failed to load job listings: %v", err)
		view.LoadError = listingsError
	} else {
		view.Jobs = jobs
	}
	s.pages.render(w, http.StatusOK, "home", view)
}

// handleJob renders one job. Any failure to fetch it is a 404.
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.fetchJob(r)
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	s.pages.render(w, http.StatusOK, "job", jobView{
		page: s.page(r, job.Title+" | Elite Residences"),
		Job:  *job,
	})
}

// fetchJob loads the job named by the {id} path value.
func (s *Server) fetchJob(r *http.Request) (*types.Job, error) {
	id := r.PathValue("id")
	job, err := s.api.GetJob(r.Context(), id)
	if err != nil {
		log.Printf("[server] failed to fetch job %q: %v", id, err)
		return nil, &ErrJobNotFound{JobID: id, Cause: err}
	}
	return job, nil
}
