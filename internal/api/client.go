// Package api is the HTTP client for the collider platform gateway.
//
// The client is a stateless façade: one request per call, typed responses,
// no retries and no caching. Failures are either a TransportError (the
// request never completed) or a ServerError (the gateway answered with a
// non-2xx status).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/abelbrown/collidoscope/internal/logging"
)

// prefix matches the gateway's API_PREFIX setting.
const prefix = "/api/v1"

// TransportError wraps a network-level failure: the request never reached
// the gateway or the response never arrived.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response from the gateway.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
}

// Client issues typed requests against the gateway.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:8000".
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// GetEvent fetches a single event with its kinematics.
func (c *Client) GetEvent(ctx context.Context, id string) (*EventDetail, error) {
	var out EventDetail
	if err := c.get(ctx, prefix+"/events/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListEvents fetches one page of events, newest first.
func (c *Client) ListEvents(ctx context.Context, page, pageSize int) (*EventList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out EventList
	if err := c.get(ctx, prefix+"/events", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateEvents asks the collision service to generate events of the
// given type ("dilepton", "qcd" or "random").
func (c *Client) GenerateEvents(ctx context.Context, eventType string, numEvents int) (*GenerateAck, error) {
	body := map[string]any{
		"event_type": eventType,
		"num_events": numEvents,
	}

	var out GenerateAck
	if err := c.post(ctx, prefix+"/collisions/generate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Histogram asks the analysis service to histogram a physics variable.
func (c *Client) Histogram(ctx context.Context, req HistogramRequest) (*HistogramResult, error) {
	var out HistogramResult
	if err := c.post(ctx, prefix+"/analysis/histogram", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Statistics fetches the aggregate summary.
func (c *Client) Statistics(ctx context.Context) (*Statistics, error) {
	var out Statistics
	if err := c.get(ctx, prefix+"/statistics/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DetectorConfigs fetches all stored detector configurations.
func (c *Client) DetectorConfigs(ctx context.Context) ([]DetectorConfig, error) {
	var out []DetectorConfig
	if err := c.get(ctx, prefix+"/config/detector", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		logging.Error("request failed", "url", req.URL.Path, "error", err)
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Error("gateway error", "url", req.URL.Path, "status", resp.StatusCode)
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody, resp.Status),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	logging.Debug("request ok", "url", req.URL.Path, "bytes", len(respBody))
	return nil
}

// errorMessage extracts the FastAPI-style {"detail": "..."} message from an
// error body, falling back to the HTTP status line.
func errorMessage(body []byte, status string) string {
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}
	return status
}

// IsServerError reports whether err is a ServerError and returns it.
func IsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
