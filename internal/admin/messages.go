package admin

import (
	"errors"

	"github.com/Smithk0/job-fr/internal/backend"
	"github.com/Smithk0/job-fr/internal/session"
)

var sessionMessages = map[error]string{
	session.ErrNoSession:      "Access code required. Please log in.",
	session.ErrSessionExpired: "Session expired. Please log in again.",
}

// Message returns the text shown to admins for err. Session errors get a
// prompt to log in; everything else goes through backend.Message.
func Message(err error, fallback string) string {
	for sentinel, msg := range sessionMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return backend.Message(err, fallback)
}
