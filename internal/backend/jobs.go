package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Smithk0/job-fr/internal/types"
)

// ListJobs fetches every job posting.
func (c *Client) ListJobs(ctx context.Context) ([]types.Job, error) {
	var jobs []types.Job
	err := c.do(ctx, call{
		op:       "ListJobs",
		method:   http.MethodGet,
		path:     "/jobs",
		fallback: "Failed to fetch jobs",
	}, &jobs)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []types.Job{}
	}
	return jobs, nil
}

// GetJob fetches one job posting by id.
func (c *Client) GetJob(ctx context.Context, id string) (*types.Job, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}

	var job types.Job
	err := c.do(ctx, call{
		op:       "GetJob",
		method:   http.MethodGet,
		path:     "/jobs/" + url.PathEscape(id),
		fallback: "Failed to fetch job",
	}, &job)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob creates a job posting and returns it as stored by the backend.
func (c *Client) CreateJob(ctx context.Context, in types.JobInput, credential string) (*types.Job, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, &Error{Op: "CreateJob", Message: "Failed to create job", Cause: err}
	}

	var job types.Job
	err = c.do(ctx, call{
		op:          "CreateJob",
		method:      http.MethodPost,
		path:        "/jobs",
		body:        body,
		contentType: "application/json",
		bearer:      true,
		credential:  credential,
		fallback:    "Failed to create job",
	}, &job)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob sends a partial update. The returned job is nil when the backend
// does not echo the updated posting.
func (c *Client) UpdateJob(ctx context.Context, id string, upd types.JobUpdate, credential string) (*types.Job, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	body, err := jsonBody(upd)
	if err != nil {
		return nil, &Error{Op: "UpdateJob", Message: "Failed to update job", Cause: err}
	}

	var raw json.RawMessage
	err = c.do(ctx, call{
		op:          "UpdateJob",
		method:      http.MethodPut,
		path:        "/jobs/" + url.PathEscape(id),
		body:        body,
		contentType: "application/json",
		bearer:      true,
		credential:  credential,
		fallback:    "Failed to update job",
	}, &raw)
	if err != nil {
		return nil, err
	}

	var job types.Job
	if len(raw) == 0 || json.Unmarshal(raw, &job) != nil || job.ID == "" {
		return nil, nil
	}
	return &job, nil
}

// DeleteJob deletes a job posting.
func (c *Client) DeleteJob(ctx context.Context, id string, credential string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return c.do(ctx, call{
		op:         "DeleteJob",
		method:     http.MethodDelete,
		path:       "/jobs/" + url.PathEscape(id),
		bearer:     true,
		credential: credential,
		fallback:   "Failed to delete job",
	}, nil)
}
