package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Non-2xx response from the routing backend. Detail carries whatever the
// backend put in its error body ({detail|message|error} JSON or plain text).
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}

// Response body that could not be decoded or is missing required fields.
// Treated as a backend failure, not a validation error.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed backend response: " + e.Reason
}

// Request that could not be sent or received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "backend unreachable: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &HTTPError{
			Status: resp.StatusCode,
			Detail: errorDetail(b),
		}
	}
	return resp, nil
}

// errorDetail extracts a human-readable message from an error body.
// The backend variants disagree on the key (FastAPI uses "detail",
// others "message" or "error"); plain-text bodies pass through as-is.
func errorDetail(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "(empty body)"
	}

	var decoded struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil {
		switch {
		case decoded.Detail != "":
			return decoded.Detail
		case decoded.Message != "":
			return decoded.Message
		case decoded.Error != "":
			return decoded.Error
		}
	}

	return trimmed
}

// doWithRetry retries transport-level failures (network errors, 429)
// using exponential backoff while respecting context cancellation.
// Backend failures (4xx/5xx) surface immediately: a failed leg is never
// silently re-requested, the caller decides whether to resubmit.
func (c *Client) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *HTTPError
		if errors.As(err, &he) && he.Status == 429 {
			retry = true
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
