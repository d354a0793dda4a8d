// Package gateway is the typed, session-aware transport to the leave backend.
//
// Every authenticated call carries the current session token in the X-Token
// header. The gateway performs no retries and no caching; failures come back
// as structured errors (network vs. backend-rejected).
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leavedesk/internal/domain"
	apperrors "leavedesk/internal/errors"
	"leavedesk/internal/metrics"
)

const tokenHeader = "X-Token"

// Client talks to the leave backend over HTTP.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions domain.SessionSource
}

// New creates a gateway client. sessions supplies the token attached to
// authenticated calls; it is read, never written.
func New(baseURL string, timeout time.Duration, sessions domain.SessionSource) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
	}
}

// Login authenticates with the backend and returns the new session.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var sess domain.Session
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", body, &sess, false); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Register creates a new account. The backend's confirmation payload carries
// no state the client needs, so it is discarded.
func (c *Client) Register(ctx context.Context, form domain.RegisterForm) error {
	return c.do(ctx, "register", http.MethodPost, "/auth/register", form, nil, false)
}

// StatsOverview fetches the aggregate counters.
func (c *Client) StatsOverview(ctx context.Context) (domain.StatsSnapshot, error) {
	var stats domain.StatsSnapshot
	err := c.do(ctx, "stats", http.MethodGet, "/stats/overview", nil, &stats, true)
	return stats, err
}

// MyLeaves fetches the caller's own leave requests.
func (c *Client) MyLeaves(ctx context.Context) ([]domain.LeaveRequest, error) {
	var leaves []domain.LeaveRequest
	err := c.do(ctx, "my_leaves", http.MethodGet, "/leaves/my", nil, &leaves, true)
	return leaves, err
}

// PendingLeaves fetches the approval queue. The backend rejects this for
// requester roles; the projector additionally drops it client-side.
func (c *Client) PendingLeaves(ctx context.Context) ([]domain.LeaveRequest, error) {
	var leaves []domain.LeaveRequest
	err := c.do(ctx, "pending_leaves", http.MethodGet, "/leaves/pending", nil, &leaves, true)
	return leaves, err
}

// ApplyLeave submits a new leave application and returns the created request.
func (c *Client) ApplyLeave(ctx context.Context, form domain.LeaveForm) (*domain.LeaveRequest, error) {
	var created domain.LeaveRequest
	if err := c.do(ctx, "apply", http.MethodPost, "/leaves/apply", form, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

// Decide requests a pending → approved/rejected transition.
func (c *Client) Decide(ctx context.Context, requestID string, status domain.LeaveStatus, comment string) (*domain.LeaveRequest, error) {
	body := struct {
		Status  domain.LeaveStatus `json:"status"`
		Comment string             `json:"comment,omitempty"`
	}{Status: status, Comment: comment}

	path := fmt.Sprintf("/leaves/%s/decide", url.PathEscape(requestID))
	var updated domain.LeaveRequest
	if err := c.do(ctx, "decide", http.MethodPost, path, body, &updated, true); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Probe checks that the backend is reachable.
func (c *Client) Probe(ctx context.Context) error {
	return c.do(ctx, "probe", http.MethodGet, "/test", nil, nil, false)
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx responses surface the body's detail field verbatim.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any, authed bool) error {
	start := time.Now()
	err := c.doOnce(ctx, method, path, body, out, authed)
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailed
	}
	metrics.GatewayRequestsTotal.WithLabelValues(op, outcome).Inc()
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.InternalError("failed to encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.InternalError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		sess := c.sessions.Current()
		if sess == nil {
			return apperrors.AuthorizationError("not signed in").WithField("path", path)
		}
		req.Header.Set(tokenHeader, sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NetworkError("backend unreachable", err).WithField("path", path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NetworkError("failed to read response", err).WithField("path", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.BackendError(resp.StatusCode, extractDetail(data)).WithField("path", path)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return apperrors.InternalError("failed to decode response", err).WithField("path", path)
		}
	}
	return nil
}

// extractDetail pulls the backend's detail field out of an error body,
// falling back to a generic message.
func extractDetail(data []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return "request failed"
}
