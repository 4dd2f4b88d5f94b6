package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/Smithk0/job-fr/internal/types"
)

// SubmitApplication posts an application as a single multipart request. The
// application is validated first so nothing is sent for an invalid form.
func (c *Client) SubmitApplication(ctx context.Context, jobID string, app types.Application) (*Ack, error) {
	if err := requireID(jobID); err != nil {
		return nil, err
	}
	app.JobID = jobID
	if err := app.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := encodeApplication(app)
	if err != nil {
		return nil, &Error{Op: "SubmitApplication", Message: "Failed to submit application", Cause: err}
	}

	var ack Ack
	err = c.do(ctx, call{
		op:          "SubmitApplication",
		method:      http.MethodPost,
		path:        "/jobs/" + url.PathEscape(jobID) + "/apply",
		body:        body,
		contentType: contentType,
		fallback:    "Failed to submit application",
	}, &ack)
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// encodeApplication builds the multipart body: jobId, applicantName,
// applicantEmail, coverLetter (only when set) and the resume file.
func encodeApplication(app types.Application) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"jobId", app.JobID},
		{"applicantName", app.ApplicantName},
		{"applicantEmail", app.ApplicantEmail},
	}
	if app.CoverLetter != "" {
		fields = append(fields, [2]string{"coverLetter", app.CoverLetter})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, escapeQuotes(app.Resume.Filename)))
	header.Set("Content-Type", app.Resume.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create resume part: %w", err)
	}
	if _, err := part.Write(app.Resume.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write resume: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// ListApplications lists the applications for a job.
func (c *Client) ListApplications(ctx context.Context, jobID string, credential string) ([]types.ApplicationRecord, error) {
	if err := requireID(jobID); err != nil {
		return nil, err
	}

	var apps []types.ApplicationRecord
	err := c.do(ctx, call{
		op:         "ListApplications",
		method:     http.MethodGet,
		path:       "/jobs/" + url.PathEscape(jobID) + "/applications",
		bearer:     true,
		credential: credential,
		fallback:   "Failed to fetch applications",
	}, &apps)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []types.ApplicationRecord{}
	}
	return apps, nil
}

// DeleteApplication deletes one application.
func (c *Client) DeleteApplication(ctx context.Context, id string, credential string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, call{
		op:         "DeleteApplication",
		method:     http.MethodDelete,
		path:       "/applications/" + url.PathEscape(id),
		bearer:     true,
		credential: credential,
		fallback:   "Failed to delete application",
	}, nil)
}
