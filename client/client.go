// Package client calls the remindme HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/remindme/feedback"
	"github.com/amonks/remindme/version"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	// Token is sent as a bearer token on every request when set.
	Token string

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Client calls the version and feedback API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remindme api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("remindme api: %s", e.Message)
}

// New creates a client for the given address or URL.
func New(addr string, opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: baseURL, token: opts.Token, client: httpClient}
}

// LatestVersion returns the newest published version, restricted to a major
// line when major is non-negative. It returns nil, nil when no version exists.
func (c *Client) LatestVersion(ctx context.Context, major int) (*version.Record, error) {
	path := "/api/version/latest"
	if major >= 0 {
		path += "?major=" + url.QueryEscape(strconv.Itoa(major))
	}
	var record version.Record
	status, err := c.do(ctx, http.MethodGet, path, nil, &record)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// PublishVersion creates or updates a version record. created reports
// whether a new record was inserted.
func (c *Client) PublishVersion(ctx context.Context, req version.PublishRequest) (record version.Record, created bool, err error) {
	status, err := c.do(ctx, http.MethodPost, "/api/version", req, &record)
	if err != nil {
		return version.Record{}, false, err
	}
	return record, status == http.StatusCreated, nil
}

// UnpublishVersion deletes a version record.
func (c *Client) UnpublishVersion(ctx context.Context, v string) error {
	var response struct {
		Message string `json:"message"`
	}
	_, err := c.do(ctx, http.MethodDelete, "/api/version/"+url.PathEscape(v), nil, &response)
	return err
}

// SubmitFeedback sends a feedback submission.
func (c *Client) SubmitFeedback(ctx context.Context, submission feedback.Submission) (feedback.Record, error) {
	var response struct {
		Message  string          `json:"message"`
		Feedback feedback.Record `json:"feedback"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/feedback", submission, &response); err != nil {
		return feedback.Record{}, err
	}
	return response.Feedback, nil
}

// ListFeedback returns every submission, newest first.
func (c *Client) ListFeedback(ctx context.Context) ([]feedback.Record, error) {
	var records []feedback.Record
	if _, err := c.do(ctx, http.MethodGet, "/api/feedback", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Health returns the status reported by the health endpoint.
func (c *Client) Health(ctx context.Context) (string, error) {
	var response struct {
		Status string `json:"status"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/health", nil, &response); err != nil {
		return "", err
	}
	return response.Status, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, dest any) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, readErrorResponse(resp)
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func readErrorResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = payload.Message
		apiErr.Code = payload.Error
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
