// Package api is the HTTP client for the Sanity prediction backend. Every
// failure mode, whether a connection error, a non-2xx status or a malformed body, is
// normalized into an *APIError carrying one human-readable message, so callers
// never see raw transport detail.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is the single error shape returned by every Client call.
type APIError struct {
	Message string
	Status  int // HTTP status, 0 for transport-level failures
	err     error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.err }

// AsAPIError extracts an *APIError from err, if it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorResponse is the backend's JSON error body.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Client talks to the Sanity backend.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client for the backend at baseURL. A zero timeout falls back
// to 60 seconds; the LLM verification pass can be slow.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// Predict submits an article for classification.
func (c *Client) Predict(ctx context.Context, req PredictRequest) (*PredictionResult, error) {
	var result PredictionResult
	if err := c.post(ctx, "/predict", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ask submits a question, context-bound when req.ContextID is set.
func (c *Client) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	var resp AskResponse
	if err := c.post(ctx, "/ask", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify requests an explicit LLM verification of article text.
func (c *Client) Verify(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	var resp VerifyResponse
	if err := c.post(ctx, "/verify", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health probes the backend and its model.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, &APIError{Message: "invalid backend address", err: err}
	}
	var resp HealthResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &APIError{Message: "could not encode request", err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &APIError{Message: "invalid backend address", err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	httpResp, err := c.client.Do(req)
	if err != nil {
		return &APIError{
			Message: "could not reach the analysis service",
			err:     fmt.Errorf("request to %s failed: %w", req.URL.Path, err),
		}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &APIError{
			Status:  httpResp.StatusCode,
			Message: "could not read the service response",
			err:     err,
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return &APIError{
			Status:  httpResp.StatusCode,
			Message: errorMessage(httpResp.StatusCode, respBody),
			err:     fmt.Errorf("%s returned status %d", req.URL.Path, httpResp.StatusCode),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{
			Status:  httpResp.StatusCode,
			Message: "the service returned an unexpected response",
			err:     fmt.Errorf("unmarshalling %s response: %w", req.URL.Path, err),
		}
	}
	return nil
}

// errorMessage extracts the backend's error string from a non-success body,
// falling back to a generic status description.
func errorMessage(status int, body []byte) string {
	var apiResp errorResponse
	if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Error != "" {
		return apiResp.Error
	}
	return fmt.Sprintf("the analysis service returned an error (status %d)", status)
}
