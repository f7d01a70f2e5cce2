// Package jira implements tracker.Tracker against the Jira REST API v2.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/internal/httpclient"
	"github.com/teranos/changeset/logger"
	"github.com/teranos/changeset/tracker"
)

const apiPrefix = "/rest/api/2"

// Config holds Jira connection settings
type Config struct {
	URL               string
	User              string
	Password          string
	Timeout           time.Duration      // per-request timeout, 0 = none
	RequestsPerSecond float64            // client-side pacing, 0 = unlimited
	MaxRetries        int                // retries on 429 and 503
	BlockPrivateHosts bool               // refuse loopback and private addresses
	TraceBodies       bool               // log request and response bodies at debug level
	Logger            *zap.SugaredLogger // nil = nop
	HTTPClient        *httpclient.SaferClient
}

// Client is a Jira REST v2 client using basic auth
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *httpclient.SaferClient
	limiter    *rate.Limiter
	maxRetries int
	backoff    func(attempt int) time.Duration
	trace      bool
	logger     *zap.SugaredLogger
}

var (
	_ tracker.Tracker = (*Client)(nil)
	_ tracker.URLer   = (*Client)(nil)
)

// NewClient validates the base URL and builds a client
func NewClient(cfg Config) (*Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.Options{
			Timeout:        cfg.Timeout,
			BlockPrivateIP: cfg.BlockPrivateHosts,
		})
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("jira url is required"),
			"pass --jira-url or set CHANGESET_JIRA_URL")
	}
	if _, err := httpClient.ValidateURL(base); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "invalid jira url %q", base), errors.ErrInvalidRequest)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL:    base,
		user:       cfg.User,
		password:   cfg.Password,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: cfg.MaxRetries,
		backoff:    defaultBackoff,
		trace:      cfg.TraceBodies,
		logger:     logger.Component(cfg.Logger, "jira"),
	}, nil
}

func defaultBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}

// IssueURL returns the browse link for key
func (c *Client) IssueURL(key string) string {
	return c.baseURL + "/browse/" + key
}

type issueResponse struct {
	Key    string `json:"key"`
	Fields struct {
		Status struct {
			Name string `json:"name"`
		} `json:"status"`
		Labels []string `json:"labels"`
	} `json:"fields"`
}

// GetIssue fetches the status and labels of key
func (c *Client) GetIssue(ctx context.Context, key string) (*tracker.Issue, error) {
	var resp issueResponse
	if err := c.do(ctx, http.MethodGet, issuePath(key)+"?fields=status,labels", nil, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch issue %s", key)
	}
	issueKey := resp.Key
	if issueKey == "" {
		issueKey = key
	}
	return &tracker.Issue{
		Key:    issueKey,
		Status: resp.Fields.Status.Name,
		Labels: resp.Fields.Labels,
	}, nil
}

type transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   struct {
		Name string `json:"name"`
	} `json:"to"`
}

type transitionsResponse struct {
	Transitions []transition `json:"transitions"`
}

// Transition resolves name to a transition id and performs it
func (c *Client) Transition(ctx context.Context, key, name string) error {
	var resp transitionsResponse
	if err := c.do(ctx, http.MethodGet, issuePath(key)+"/transitions", nil, &resp); err != nil {
		return errors.Wrapf(err, "failed to list transitions for %s", key)
	}

	t, ok := findTransition(resp.Transitions, name)
	if !ok {
		available := make([]string, 0, len(resp.Transitions))
		for _, tr := range resp.Transitions {
			available = append(available, tr.Name)
		}
		return errors.WithDetailf(
			errors.NewNotFoundError("no transition %q available for %s", name, key),
			"available transitions: %s", strings.Join(available, ", "))
	}

	body := map[string]any{"transition": map[string]string{"id": t.ID}}
	if err := c.do(ctx, http.MethodPost, issuePath(key)+"/transitions", body, nil); err != nil {
		return errors.Wrapf(err, "failed to transition %s via %q", key, t.Name)
	}
	c.logger.Debugw("transition applied", logger.FieldTicket, key, "transition_id", t.ID, "to", t.To.Name)
	return nil
}

// findTransition prefers an exact match on the transition or target status
// name and falls back to a case-insensitive one
func findTransition(ts []transition, name string) (transition, bool) {
	for _, t := range ts {
		if t.Name == name || t.To.Name == name {
			return t, true
		}
	}
	for _, t := range ts {
		if strings.EqualFold(t.Name, name) || strings.EqualFold(t.To.Name, name) {
			return t, true
		}
	}
	return transition{}, false
}

// UpdateLabels replaces the label set of key
func (c *Client) UpdateLabels(ctx context.Context, key string, labels []string) error {
	if labels == nil {
		labels = []string{}
	}
	body := map[string]any{"fields": map[string]any{"labels": labels}}
	if err := c.do(ctx, http.MethodPut, issuePath(key), body, nil); err != nil {
		return errors.Wrapf(err, "failed to update labels on %s", key)
	}
	return nil
}

// AddComment appends a plain-text comment to key
func (c *Client) AddComment(ctx context.Context, key, text string) error {
	body := map[string]string{"body": text}
	if err := c.do(ctx, http.MethodPost, issuePath(key)+"/comment", body, nil); err != nil {
		return errors.Wrapf(err, "failed to comment on %s", key)
	}
	return nil
}

func issuePath(key string) string {
	return apiPrefix + "/issue/" + url.PathEscape(key)
}

// do sends one API call, pacing with the limiter and retrying 429/503
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request")
		}
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "rate limiter")
		}

		status, header, body, err := c.send(ctx, method, path, payload)
		if err != nil {
			return err
		}

		c.logger.Debugw("jira request",
			"method", method,
			"path", path,
			"status_code", status,
			logger.FieldAttempt, attempt+1)
		if c.trace {
			c.logger.Debugw("jira exchange", "path", path, "request", string(payload), "response", string(body))
		}

		if (status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable) && attempt < c.maxRetries {
			delay := retryAfter(header, c.backoff(attempt+1))
			c.logger.Debugw("jira throttled, retrying", "delay", delay.String(), logger.FieldAttempt, attempt+1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if status < 200 || status >= 300 {
			return newAPIError(method, path, status, body)
		}
		if out != nil && len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, out); err != nil {
				return errors.Wrapf(err, "failed to decode %s %s response", method, path)
			}
		}
		return nil
	}
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (int, http.Header, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" || c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, errors.Wrap(err, "failed to read response")
	}
	return resp.StatusCode, resp.Header, body, nil
}

// retryAfter honors a Retry-After header in seconds, else returns fallback
func retryAfter(h http.Header, fallback time.Duration) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
