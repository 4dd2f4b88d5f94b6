// Package backend is the HTTP client for the jobs REST API. Every operation
// either returns the decoded response body or a *Error carrying a message fit
// for display.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5009/api"

// DefaultUserAgent is the user agent string for API requests.
const DefaultUserAgent = "job-fr/1.0"

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 1 << 20

// Options configures the client.
type Options struct {
	// HTTPClient performs requests. No timeout is set beyond its own defaults.
	HTTPClient *http.Client
	UserAgent  string
	// Logger receives one line per failed call; nil disables logging.
	Logger *log.Logger
}

// DefaultOptions returns the client defaults.
func DefaultOptions() *Options {
	return &Options{
		HTTPClient: http.DefaultClient,
		UserAgent:  DefaultUserAgent,
	}
}

// Client calls the jobs API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *log.Logger
}

// New creates a client for baseURL.
func New(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     opts.Logger,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ack is the acknowledgement body returned by several endpoints.
type Ack struct {
	Message string `json:"message"`
}

// call describes one API request.
type call struct {
	op          string
	method      string
	path        string
	body        io.Reader
	contentType string
	bearer      bool
	credential  string
	fallback    string
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// do executes c and decodes a successful body into out (if non-nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if cl.bearer && cl.credential == "" {
		return ErrNoCredential
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, cl.body)
	if err != nil {
		return c.fail(&Error{Op: cl.op, Message: cl.fallback, Cause: err})
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if cl.bearer {
		req.Header.Set("Authorization", "Bearer "+cl.credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(&Error{Op: cl.op, Message: cl.fallback, Cause: err})
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(&Error{
			Op:      cl.op,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Body, cl.fallback),
		})
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(&Error{Op: cl.op, Status: resp.StatusCode, Message: cl.fallback, Cause: err})
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(&Error{
			Op:      cl.op,
			Status:  resp.StatusCode,
			Message: cl.fallback,
			Cause:   fmt.Errorf("failed to decode response: %w", err),
		})
	}
	return nil
}

func (c *Client) fail(e *Error) error {
	if c.logger != nil {
		c.logger.Printf("[backend] %s", e.Detail())
	}
	return e
}

// errorMessage extracts the backend's "message" field, falling back when the
// body is empty or not JSON.
func errorMessage(body io.Reader, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return fallback
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallback
	}
	if strings.TrimSpace(payload.Message) == "" {
		return fallback
	}
	return payload.Message
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	return nil
}
