package server

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/Smithk0/job-fr/internal/admin"
	"github.com/Smithk0/job-fr/internal/server/middleware"
	"github.com/Smithk0/job-fr/internal/session"
	"github.com/Smithk0/job-fr/internal/types"
)

const (
	adminTitle    = "Admin Dashboard | Elite Residences"
	postedMessage = "Job posted successfully."
	flashCookie   = "jobfr_flash"
)

type adminView struct {
	page
	Authenticated bool
	AccessError   string
	Dash          admin.Snapshot
	DeleteTarget  *types.Job
	EmptyMessage  string
}

type postView struct {
	page
	Form        admin.JobForm
	Errors      types.FieldErrors
	ServerError string
}

// handleAdmin renders the dashboard. Without a session the listing is still
// shown, read-only, behind the access prompt. ?delete={id} and ?edit={id}
// open the confirmation and edit forms.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	gate := middleware.GateFrom(r)
	view := s.adminView(w, r)
	if r.URL.Query().Get("posted") == "1" {
		view.Flash = postedMessage
	}
	if !gate.Present() {
		s.renderLocked(w, r, http.StatusOK, view)
		return
	}

	dash := s.dashboard(gate)
	status := http.StatusOK
	if err := dash.Load(r.Context()); err != nil {
		status = HTTPStatus(err)
	} else {
		q := r.URL.Query()
		var err error
		switch {
		case q.Get("delete") != "":
			err = dash.RequestDelete(q.Get("delete"))
		case q.Get("edit") != "":
			_, err = dash.BeginEdit(q.Get("edit"))
		}
		if err != nil {
			status = HTTPStatus(err)
		}
	}
	s.renderDashboard(w, status, view, dash)
}

// handleAccess verifies the submitted access code and starts a session.
func (s *Server) handleAccess(w http.ResponseWriter, r *http.Request) {
	gate := middleware.GateFrom(r)
	msg, err := session.Login(r.Context(), s.api, gate, r.FormValue("accessCode"))
	if err != nil {
		log.Printf("[session] access verification failed: %v", err)
		view := s.adminView(w, r)
		view.AccessError = admin.Message(err, "Failed to verify access code.")
		s.renderLocked(w, r, HTTPStatus(err), view)
		return
	}
	setFlash(w, msg)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := middleware.GateFrom(r).Clear(); err != nil {
		log.Printf("[session] failed to clear session: %v", err)
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleDeleteJob deletes a listed job. On failure the dashboard is shown
// again with the confirmation still open.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	gate := middleware.GateFrom(r)
	if !gate.Present() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	view := s.adminView(w, r)
	dash := s.dashboard(gate)
	if err := dash.Load(r.Context()); err != nil {
		s.renderDashboard(w, HTTPStatus(err), view, dash)
		return
	}
	if err := dash.RequestDelete(r.PathValue("id")); err != nil {
		s.renderDashboard(w, HTTPStatus(err), view, dash)
		return
	}
	if err := dash.ConfirmDelete(r.Context()); err != nil {
		s.renderDashboard(w, HTTPStatus(err), view, dash)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleUpdateJob submits the edit form. On failure the dashboard is shown
// again with the edit form open.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	gate := middleware.GateFrom(r)
	if !gate.Present() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "The form could not be read.")
		return
	}

	view := s.adminView(w, r)
	dash := s.dashboard(gate)
	if err := dash.Load(r.Context()); err != nil {
		s.renderDashboard(w, HTTPStatus(err), view, dash)
		return
	}
	if _, err := dash.BeginEdit(r.PathValue("id")); err != nil {
		s.renderDashboard(w, HTTPStatus(err), view, dash)
		return
	}
	if err := dash.SubmitEdit(r.Context(), jobFormFrom(r.PostForm)); err != nil {
		s.renderDashboard(w, HTTPStatus(err), view, dash)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handlePostForm(w http.ResponseWriter, r *http.Request) {
	if !middleware.GateFrom(r).Present() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	s.pages.render(w, http.StatusOK, "post", postView{page: s.page(r, "Post a Job | Elite Residences")})
}

// handlePostJob creates a job from the post form.
func (s *Server) handlePostJob(w http.ResponseWriter, r *http.Request) {
	gate := middleware.GateFrom(r)
	if !gate.Present() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Bad request", "The form could not be read.")
		return
	}

	view := postView{page: s.page(r, "Post a Job | Elite Residences"), Form: jobFormFrom(r.PostForm)}
	_, err := admin.Create(r.Context(), s.api, gate, view.Form, s.logoURL, admin.WithInvalidator(s.cache))
	if err != nil {
		var fe types.FieldErrors
		if errors.As(err, &fe) {
			view.Errors = fe
		} else {
			view.ServerError = admin.Message(err, "Failed to post job.")
		}
		s.pages.render(w, HTTPStatus(err), "post", view)
		return
	}
	http.Redirect(w, r, "/admin?posted=1", http.StatusSeeOther)
}

func (s *Server) dashboard(gate *session.Gate) *admin.Dashboard {
	return admin.New(s.api, gate, admin.WithInvalidator(s.cache))
}

func (s *Server) adminView(w http.ResponseWriter, r *http.Request) adminView {
	view := adminView{
		page:          s.page(r, adminTitle),
		Authenticated: middleware.GateFrom(r).Present(),
		EmptyMessage:  admin.EmptyMessage,
	}
	view.Flash = takeFlash(w, r)
	return view
}

func (s *Server) renderDashboard(w http.ResponseWriter, status int, view adminView, dash *admin.Dashboard) {
	view.Dash = dash.Snapshot()
	if job, ok := view.Dash.DeleteJob(); ok {
		view.DeleteTarget = &job
	}
	s.pages.render(w, status, "admin", view)
}

// renderLocked shows the listing with every action disabled. Listing jobs
// needs no credential, so a load failure only surfaces as LoadError.
func (s *Server) renderLocked(w http.ResponseWriter, r *http.Request, status int, view adminView) {
	dash := s.dashboard(middleware.GateFrom(r))
	if err := dash.Load(r.Context()); err != nil {
		log.Printf("[admin] locked dashboard load failed: %v", err)
	}
	view.Authenticated = false
	view.Dash = dash.Snapshot()
	s.pages.render(w, status, "admin", view)
}

// jobFormFrom reads the shared job form fields.
func jobFormFrom(v url.Values) admin.JobForm {
	return admin.JobForm{
		Title:            v.Get("title"),
		Company:          v.Get("company"),
		CompanyLogo:      v.Get("companyLogo"),
		Description:      v.Get("description"),
		Department:       v.Get("department"),
		Location:         v.Get("location"),
		Type:             v.Get("type"),
		Requirements:     v.Get("requirements"),
		Responsibilities: v.Get("responsibilities"),
		Salary:           v.Get("salary"),
		Benefits:         v.Get("benefits"),
		MapURL:           v.Get("mapUrl"),
	}
}

// setFlash stores a one-time message shown on the next page.
func setFlash(w http.ResponseWriter, msg string) {
	if msg == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/admin",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns and clears the pending flash message.
func takeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/admin", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
