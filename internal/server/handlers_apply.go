package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/Smithk0/job-fr/internal/admin"
	"github.com/Smithk0/job-fr/internal/types"
)

// formOverhead is the room left for the text fields and multipart framing on
// top of the resume itself.
const formOverhead int64 = 1 << 20

type applyForm struct {
	Name        string
	Email       string
	CoverLetter string
}

type applyView struct {
	page
	Job         types.Job
	Form        applyForm
	Errors      types.FieldErrors
	SubmitError string
}

func (s *Server) handleApplyForm(w http.ResponseWriter, r *http.Request) {
	job, err := s.fetchJob(r)
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	s.pages.render(w, http.StatusOK, "apply", s.applyView(r, job))
}

// handleApply validates the application form and forwards it to the backend.
// Nothing reaches the backend unless every field, including the resume type
// and size, passes.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	job, err := s.fetchJob(r)
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	view := s.applyView(r, job)

	r.Body = http.MaxBytesReader(w, r.Body, types.MaxResumeSize+formOverhead)
	if err := r.ParseMultipartForm(types.MaxResumeSize + formOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			view.Errors = types.FieldErrors{"resume": types.ResumeMessage(types.ErrResumeTooLarge)}
			s.pages.render(w, http.StatusRequestEntityTooLarge, "apply", view)
			return
		}
		view.Errors = types.FieldErrors{"resume": types.ResumeMessage(types.ErrResumeRequired)}
		s.pages.render(w, http.StatusBadRequest, "apply", view)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	view.Form = applyForm{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		CoverLetter: r.FormValue("coverLetter"),
	}
	app := types.Application{
		JobID:          job.ID,
		ApplicantName:  view.Form.Name,
		ApplicantEmail: view.Form.Email,
		CoverLetter:    view.Form.CoverLetter,
	}

	var resumeErr error
	file, header, err := r.FormFile("resume")
	if err != nil {
		resumeErr = types.ErrResumeRequired
	} else {
		app.Resume, resumeErr = types.ReadResume(header.Filename, file)
		_ = file.Close()
	}

	errs := types.FieldErrors{}
	if err := app.ValidateForm(); err != nil {
		var fe types.FieldErrors
		if !errors.As(err, &fe) {
			s.renderErr(w, r, err)
			return
		}
		errs = fe
	}
	if resumeErr != nil {
		errs["resume"] = types.ResumeMessage(resumeErr)
	}
	if len(errs) > 0 {
		view.Errors = errs
		s.pages.render(w, HTTPStatus(errs), "apply", view)
		return
	}

	if _, err := s.api.SubmitApplication(r.Context(), job.ID, app); err != nil {
		log.Printf("[server] failed to submit application for job %s: %v", job.ID, err)
		view.SubmitError = "Failed to submit application: " + admin.Message(err, "Unknown error")
		s.pages.render(w, HTTPStatus(err), "apply", view)
		return
	}

	log.Printf("[server] application submitted for job %s", job.ID)
	http.Redirect(w, r, "/?applied=1", http.StatusSeeOther)
}

func (s *Server) applyView(r *http.Request, job *types.Job) applyView {
	return applyView{
		page: s.page(r, "Apply for "+job.Title+" | Elite Residences"),
		Job:  *job,
	}
}
