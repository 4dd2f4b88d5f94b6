package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Smithk0/job-fr/internal/types"
)

var (
	// ErrMissingID is returned before any network call when an identifier is empty.
	ErrMissingID = errors.New("identifier is required")
	// ErrNoCredential is returned before any network call when a bearer call has
	// no credential. An empty Authorization header is never sent.
	ErrNoCredential = errors.New("no credential for authenticated call")
)

const noCredentialMessage = "Unauthorized access. Please log in again."

// Error is the single failure kind surfaced by the client: a transport failure
// or a non-2xx response. Message is what callers display.
type Error struct {
	Op      string // operation name, e.g. "ListJobs"
	Status  int    // HTTP status, 0 for transport failures
	Message string // backend-provided message or the operation default
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Detail returns a log-friendly description including status and cause.
func (e *Error) Detail() string {
	switch {
	case e.Status != 0 && e.Cause != nil:
		return fmt.Sprintf("%s: HTTP %d: %s: %v", e.Op, e.Status, e.Message, e.Cause)
	case e.Status != 0:
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Status == http.StatusNotFound
}

// IsUnauthorized reports whether the backend rejected the credential.
func IsUnauthorized(err error) bool {
	var be *Error
	return errors.As(err, &be) && (be.Status == http.StatusUnauthorized || be.Status == http.StatusForbidden)
}

// Message returns the human-readable message for err, or fallback when err
// carries none. Sentinels raised before a request is sent map to fixed text.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	switch {
	case errors.Is(err, ErrNoCredential):
		return noCredentialMessage
	case errors.Is(err, types.ErrResumeRequired), errors.Is(err, types.ErrResumeTooLarge), errors.Is(err, types.ErrResumeType):
		return types.ResumeMessage(err)
	}
	if err.Error() != "" {
		return err.Error()
	}
	return fallback
}
