package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Smithk0/job-fr/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api/", nil)
	require.NoError(t, err)
	return c, &calls
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("not-a-url", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API base URL")
}

func TestNew_DefaultsAndTrim(t *testing.T) {
	c, err := New("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c, err = New("http://example.com/api/", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api", c.BaseURL())
}

func TestListJobs_Success(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/jobs", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"1","title":"Architect","company":"Acme","type":"Full-Time"}]`))
	})

	jobs, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Architect", jobs[0].Title)
	assert.Equal(t, types.FullTime, jobs[0].Type)
}

func TestListJobs_EmptyBodyIsEmptySlice(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	jobs, err := c.ListJobs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestErrors_MessageFallback(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"backend message", http.StatusBadRequest, `{"message":"Job not open"}`, "Job not open"},
		{"empty body", http.StatusInternalServerError, "", "Failed to fetch jobs"},
		{"not json", http.StatusBadGateway, "<html>bad gateway</html>", "Failed to fetch jobs"},
		{"blank message", http.StatusInternalServerError, `{"message":"  "}`, "Failed to fetch jobs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.ListJobs(context.Background())
			require.Error(t, err)

			var be *Error
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tt.status, be.Status)
			assert.Equal(t, "ListJobs", be.Op)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantMsg, Message(err, "x"))
		})
	}
}

func TestErrors_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL, nil)
	require.NoError(t, err)
	srv.Close()

	_, err = c.GetJob(context.Background(), "1")
	require.Error(t, err)
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 0, be.Status)
	assert.Equal(t, "Failed to fetch job", be.Message)
	assert.NotNil(t, be.Unwrap())
}

func TestGetJob_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetJob(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
}

func TestMissingID_NoNetworkCall(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.GetJob(context.Background(), " ")
	assert.ErrorIs(t, err, ErrMissingID)
	err = c.DeleteJob(context.Background(), "", "code")
	assert.ErrorIs(t, err, ErrMissingID)
	_, err = c.UpdateJob(context.Background(), "", types.JobUpdate{}, "code")
	assert.ErrorIs(t, err, ErrMissingID)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestMutations_EmptyCredentialRejectedBeforeNetwork(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s (Authorization=%q)", r.Method, r.URL.Path, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()
	title := "New"

	err := c.DeleteJob(ctx, "1", "")
	assert.ErrorIs(t, err, ErrNoCredential)

	_, err = c.UpdateJob(ctx, "1", types.JobUpdate{Title: &title}, "")
	assert.ErrorIs(t, err, ErrNoCredential)

	_, err = c.CreateJob(ctx, types.JobInput{Title: "x"}, "")
	assert.ErrorIs(t, err, ErrNoCredential)

	_, err = c.ListApplications(ctx, "1", "")
	assert.ErrorIs(t, err, ErrNoCredential)

	err = c.DeleteApplication(ctx, "a1", "")
	assert.ErrorIs(t, err, ErrNoCredential)

	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
	assert.Equal(t, "no credential for authenticated call", err.Error())
	assert.Equal(t, "Unauthorized access. Please log in again.", Message(err, ""))
}

func TestDeleteJob_BearerAndNoContent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/jobs/42", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteJob(context.Background(), "42", "secret"))
}

func TestDeleteJob_Unauthorized(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid access code"}`))
	})

	err := c.DeleteJob(context.Background(), "42", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid access code", err.Error())
}

func TestCreateJob_SendsPayload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in types.JobInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Architect", in.Title)
		assert.Equal(t, []string{"Go"}, in.Requirements)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new-1","title":"Architect"}`))
	})

	job, err := c.CreateJob(context.Background(), types.JobInput{
		Title:        "Architect",
		Requirements: []string{"Go"},
	}, "secret")
	require.NoError(t, err)
	assert.Equal(t, "new-1", job.ID)
}

func TestUpdateJob_OnlySetFieldsSent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"title":"Principal Architect"}`, string(body))
		_, _ = w.Write([]byte(`{"id":"1","title":"Principal Architect"}`))
	})

	title := "Principal Architect"
	job, err := c.UpdateJob(context.Background(), "1", types.JobUpdate{Title: &title}, "secret")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "Principal Architect", job.Title)
}

func TestUpdateJob_AckBodyReturnsNilJob(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Job updated"}`))
	})

	title := "x"
	job, err := c.UpdateJob(context.Background(), "1", types.JobUpdate{Title: &title}, "secret")
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestSubmitApplication_Multipart(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/7/apply", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "7", r.FormValue("jobId"))
		assert.Equal(t, "Ada", r.FormValue("applicantName"))
		assert.Equal(t, "ada@example.com", r.FormValue("applicantEmail"))
		_, hasCover := r.MultipartForm.Value["coverLetter"]
		assert.False(t, hasCover)

		f, hdr, err := r.FormFile("resume")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, "cv.pdf", hdr.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, pdf, data)

		_, _ = w.Write([]byte(`{"message":"Application submitted"}`))
	})

	ack, err := c.SubmitApplication(context.Background(), "7", types.Application{
		ApplicantName:  "Ada",
		ApplicantEmail: "ada@example.com",
		Resume:         &types.ResumeFile{Filename: "cv.pdf", ContentType: types.MIMEPDF, Data: pdf},
	})
	require.NoError(t, err)
	assert.Equal(t, "Application submitted", ack.Message)
}

func TestSubmitApplication_OversizedResumeRejectedBeforeNetwork(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	big := make([]byte, 6*1000*1000)
	_, err := c.SubmitApplication(context.Background(), "7", types.Application{
		ApplicantName:  "Ada",
		ApplicantEmail: "ada@example.com",
		Resume:         &types.ResumeFile{Filename: "cv.pdf", ContentType: types.MIMEPDF, Data: big},
	})
	require.Error(t, err)

	var fe types.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, types.ResumeMessage(types.ErrResumeTooLarge), fe["resume"])
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestSubmitApplication_WrongResumeTypeRejectedBeforeNetwork(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.SubmitApplication(context.Background(), "7", types.Application{
		ApplicantName:  "Ada",
		ApplicantEmail: "ada@example.com",
		Resume:         &types.ResumeFile{Filename: "cv.pdf", ContentType: types.MIMEPDF, Data: []byte("plain text, not a pdf")},
	})

	var fe types.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, types.ResumeMessage(types.ErrResumeType), fe["resume"])
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestListApplications(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/7/applications", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"a1","jobId":"7","applicantName":"Ada","applicantEmail":"ada@example.com"}]`))
	})

	apps, err := c.ListApplications(context.Background(), "7", "secret")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Ada", apps[0].ApplicantName)
}

func TestVerifyAccessCode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["accessCode"] != "open-sesame" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid access code"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"Access granted"}`))
	})

	ack, err := c.VerifyAccessCode(context.Background(), "  open-sesame ")
	require.NoError(t, err)
	assert.Equal(t, "Access granted", ack.Message)

	_, err = c.VerifyAccessCode(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid access code", err.Error())

	_, err = c.VerifyAccessCode(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "required"))
}

func TestError_Detail(t *testing.T) {
	e := &Error{Op: "GetJob", Status: 500, Message: "boom", Cause: errors.New("eof")}
	assert.Equal(t, "GetJob: HTTP 500: boom: eof", e.Detail())
	e = &Error{Op: "GetJob", Message: "boom"}
	assert.Equal(t, "GetJob: boom", e.Detail())
}
