// Package apiclient calls the plan API with a per-call timeout and a
// minimum perceived latency.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/domain"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

const (
	DefaultTimeout  = 8 * time.Second
	DefaultMinDelay = 1200 * time.Millisecond
)

// User-facing messages.
const (
	MsgTimeout        = "A requisição demorou muito. Tente novamente."
	MsgGeneric        = "Ops, algo deu errado. Tente novamente."
	MsgRequestFailed  = "Erro na requisição"
	MsgUnknownFailure = "Erro desconhecido"
)

// APIError is the only error kind returned for a completed or timed-out
// call. Message is safe to show to the user.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Message extracts the user-facing text from err, falling back to the
// generic message.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return MsgGeneric
}

// Client talks JSON to the plan API.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	minDelay time.Duration
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the default per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMinDelay sets the default latency floor. Zero disables it.
func WithMinDelay(d time.Duration) Option {
	return func(c *Client) { c.minDelay = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		timeout:  DefaultTimeout,
		minDelay: DefaultMinDelay,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends body as JSON and decodes the response into out. Zero fields of
// opts use the client defaults; a negative MinDelay disables the floor.
// The floor applies to failures too.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ports.CallOptions) error {
	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	minDelay := c.minDelay
	if opts.MinDelay != 0 {
		minDelay = opts.MinDelay
	}

	start := time.Now()
	err := c.do(ctx, method, path, body, out, timeout)
	if waitErr := waitRemaining(ctx, start, minDelay); waitErr != nil {
		return waitErr
	}
	if err != nil {
		c.logger.Debug("plan api call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, timeout time.Duration) error {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &APIError{Status: http.StatusInternalServerError, Message: MsgGeneric}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Status: http.StatusInternalServerError, Message: MsgGeneric}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(ctx, callCtx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(ctx, callCtx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		msg := MsgRequestFailed
		if err := json.Unmarshal(raw, &payload); err != nil {
			msg = MsgUnknownFailure
		} else if payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &APIError{Status: http.StatusInternalServerError, Message: MsgGeneric}
		}
	}
	return nil
}

func (c *Client) transportError(parent, callCtx context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &APIError{Status: http.StatusRequestTimeout, Message: MsgTimeout}
	}
	return &APIError{Status: http.StatusInternalServerError, Message: MsgGeneric}
}

func waitRemaining(ctx context.Context, start time.Time, minDelay time.Duration) error {
	remaining := minDelay - time.Since(start)
	if remaining <= 0 {
		return nil
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GeneratePlan calls POST /api/plans/generate.
func (c *Client) GeneratePlan(ctx context.Context, req domain.PlanRequest, opts ports.CallOptions) (*domain.Plan, error) {
	var plan domain.Plan
	if err := c.Do(ctx, http.MethodPost, "/api/plans/generate", req, &plan, opts); err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetPlan calls GET /api/plans/{planId}.
func (c *Client) GetPlan(ctx context.Context, planID string, opts ports.CallOptions) (*domain.Plan, error) {
	var plan domain.Plan
	if err := c.Do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(planID), nil, &plan, opts); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CompleteTask calls POST /api/plans/{planId}/tasks/{taskId}/complete.
func (c *Client) CompleteTask(ctx context.Context, planID, taskID string, opts ports.CallOptions) (*domain.TaskCompletion, error) {
	var tc domain.TaskCompletion
	path := "/api/plans/" + url.PathEscape(planID) + "/tasks/" + url.PathEscape(taskID) + "/complete"
	if err := c.Do(ctx, http.MethodPost, path, nil, &tc, opts); err != nil {
		return nil, err
	}
	return &tc, nil
}
