package backend

import (
	"context"
	"net/http"
	"strings"
)

// VerifyAccessCode asks the backend whether code unlocks the admin area. A nil
// error means the code was accepted; the Ack carries the backend's message.
func (c *Client) VerifyAccessCode(ctx context.Context, code string) (*Ack, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &Error{Op: "VerifyAccessCode", Message: "Access code is required."}
	}

	body, err := jsonBody(map[string]string{"accessCode": code})
	if err != nil {
		return nil, &Error{Op: "VerifyAccessCode", Message: "Failed to verify access code.", Cause: err}
	}

	var ack Ack
	err = c.do(ctx, call{
		op:          "VerifyAccessCode",
		method:      http.MethodPost,
		path:        "/verify-access-code",
		body:        body,
		contentType: "application/json",
		fallback:    "Failed to verify access code.",
	}, &ack)
	if err != nil {
		return nil, err
	}
	return &ack, nil
}
