package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Smithk0/job-fr/internal/admin"
	"github.com/Smithk0/job-fr/internal/backend"
	"github.com/Smithk0/job-fr/internal/session"
	"github.com/Smithk0/job-fr/internal/types"
)

// ErrJobNotFound indicates a job page was requested for a job the backend
// could not return.
type ErrJobNotFound struct {
	JobID string
	Cause error
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.JobID)
}

func (e *ErrJobNotFound) Unwrap() error {
	return e.Cause
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *ErrJobNotFound
	var validation *ErrValidation
	var fields types.FieldErrors
	var be *backend.Error

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &fields),
		errors.Is(err, types.ErrResumeRequired), errors.Is(err, types.ErrResumeTooLarge), errors.Is(err, types.ErrResumeType):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrSessionExpired), errors.Is(err, backend.ErrNoCredential):
		return http.StatusUnauthorized
	case errors.Is(err, admin.ErrUnknownJob), errors.Is(err, backend.ErrMissingID):
		return http.StatusNotFound
	case errors.As(err, &be):
		switch {
		case be.Status == 0 && be.Cause == nil:
			// Rejected by the client before any request was made.
			return http.StatusBadRequest
		case be.Status == http.StatusNotFound:
			return http.StatusNotFound
		case be.Status == http.StatusUnauthorized, be.Status == http.StatusForbidden:
			return http.StatusUnauthorized
		case be.Status >= 400 && be.Status < 500:
			return http.StatusBadRequest
		default:
			return http.StatusBadGateway
		}
	default:
		return http.StatusInternalServerError
	}
}
