package admin

import (
	"context"
	"log"

	"github.com/Smithk0/job-fr/internal/types"
)

// Creator is the part of the backend client used to post jobs.
type Creator interface {
	CreateJob(ctx context.Context, in types.JobInput, credential string) (*types.Job, error)
}

// Create validates form and posts it as a new job. Validation failures are
// returned as types.FieldErrors before any network call. An empty logoURL
// means DefaultCompanyLogoURL.
func Create(ctx context.Context, service Creator, creds CredentialSource, form JobForm, logoURL string, opts ...Option) (*types.Job, error) {
	o := buildOptions(opts)
	if logoURL == "" {
		logoURL = DefaultCompanyLogoURL
	}

	in := form.ToInput(logoURL)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	cred, err := creds.Credential()
	if err != nil {
		return nil, err
	}

	job, err := service.CreateJob(ctx, in, cred)
	if err != nil {
		log.Printf("[admin] failed to create job %q: %v", in.Title, err)
		return nil, err
	}
	log.Printf("[admin] created job %s (%s)", job.ID, job.Title)
	o.invalidate()
	return job, nil
}
