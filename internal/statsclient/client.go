package statsclient

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

	"github.com/jonboulle/clockwork"

	"repolines/internal/domain"
	"repolines/logging"
)

// Endpoint labels used in metrics
const (
	EndpointHealth = "health"
	EndpointStats  = "stats"
	EndpointStatus = "status"
)

const maxErrorBody = 4096

// Client talks to the statistics server
type Client struct {
	clock    clockwork.Clock
	http     *http.Client
	metrics  *Metrics
	schedule Schedule
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock replaces the clock used for poll delays
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithSchedule replaces the polling schedule
func WithSchedule(s Schedule) Option {
	return func(c *Client) {
		if err := s.Validate(); err != nil {
			logging.Logger.Warn("Ignoring invalid poll schedule", "error", err)
			return
		}
		c.schedule = s
	}
}

// WithMetrics records protocol activity on m
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a Client with the default schedule and a real clock
func New(opts ...Option) *Client {
	c := &Client{
		clock:    clockwork.NewRealClock(),
		http:     &http.Client{Timeout: 30 * time.Second},
		schedule: DefaultSchedule(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schedule returns the polling schedule in use
func (c *Client) Schedule() Schedule {
	return c.schedule
}

// Response is the server answer to a stats request or status query
type Response struct {
	Cached     bool   `json:"cached"`
	Error      string `json:"error,omitempty"`
	Processing bool   `json:"processing"`
	Ready      bool   `json:"ready"`
	TotalFiles int64  `json:"totalFiles"`
	TotalLines int64  `json:"totalLines"`
}

// Stats converts the payload to the domain statistic
func (r Response) Stats() domain.Stats {
	return domain.Stats{
		Cached:     r.Cached,
		TotalFiles: r.TotalFiles,
		TotalLines: r.TotalLines,
	}
}

type statsRequest struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	RepoURL string `json:"repoUrl"`
}

// RequestStats issues the initial stats request
func (c *Client) RequestStats(ctx context.Context, baseURL string, repo domain.RepositoryRef) (*Response, error) {
	body, err := json.Marshal(statsRequest{
		Owner:   repo.Owner,
		Repo:    repo.Name,
		RepoURL: repo.CanonicalURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(baseURL, "/api/stats"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	c.metrics.observeRequest(EndpointStats, err)
	return resp, err
}

// QueryStatus asks whether a pending computation has finished
func (c *Client) QueryStatus(ctx context.Context, baseURL string, repo domain.RepositoryRef) (*Response, error) {
	path := fmt.Sprintf("/api/stats/status/%s/%s", url.PathEscape(repo.Owner), url.PathEscape(repo.Name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(baseURL, path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.do(req)
	c.metrics.observeRequest(EndpointStatus, err)
	return resp, err
}

// Health probes the server health endpoint
func (c *Client) Health(ctx context.Context, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(baseURL, "/health"), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err == nil {
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err = fmt.Errorf("HTTP %d", resp.StatusCode)
		}
	}
	c.metrics.observeRequest(EndpointHealth, err)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// DetailsURL returns the server page with the full breakdown for repo
func DetailsURL(baseURL string, repo domain.RepositoryRef) string {
	q := url.Values{}
	q.Set("owner", repo.Owner)
	q.Set("repo", repo.Name)
	return joinURL(baseURL, "/stats") + "?" + q.Encode()
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpError(resp.StatusCode, data)
	}

	var payload Response
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &payload, nil
}

func httpError(status int, body []byte) error {
	var payload Response
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("HTTP %d: %s", status, payload.Error)
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Errorf("HTTP %d: %s", status, msg)
	}
	return fmt.Errorf("HTTP %d", status)
}

func joinURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}

// Fetch runs the whole protocol for repo: the stats request, then status
// polling while the server reports processing. progress receives a Processing
// outcome when polling starts and after every not-ready answer.
// The returned outcome is always Ready or Failure.
func (c *Client) Fetch(ctx context.Context, baseURL string, repo domain.RepositoryRef, progress func(domain.Outcome)) domain.Outcome {
	if progress == nil {
		progress = func(domain.Outcome) {}
	}

	if baseURL == "" {
		return c.fail(&domain.StatsError{Kind: domain.ErrConfigurationMissing})
	}
	if err := ctx.Err(); err != nil {
		return domain.Failure(err)
	}

	logging.Logger.Debug("Requesting statistics", "repo", repo.FullName, "server", baseURL)
	resp, err := c.RequestStats(ctx, baseURL, repo)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Failure(ctx.Err())
		}
		logging.Logger.Warn("Statistics request failed", "repo", repo.FullName, "error", err)
		return c.fail(&domain.StatsError{Kind: domain.ErrTransportFailure, Cause: err})
	}

	if !resp.Processing {
		return c.ready(resp.Stats())
	}

	progress(domain.Processing())
	return c.poll(ctx, baseURL, repo, progress)
}

func (c *Client) poll(ctx context.Context, baseURL string, repo domain.RepositoryRef, progress func(domain.Outcome)) domain.Outcome {
	delay := c.schedule.Initial
	var lastErr error

	for attempt := 1; attempt <= c.schedule.MaxAttempts; attempt++ {
		if err := c.wait(ctx, delay); err != nil {
			logging.Logger.Debug("Polling cancelled", "repo", repo.FullName, "attempt", attempt)
			return domain.Failure(err)
		}

		c.metrics.observePollAttempt()
		status, err := c.QueryStatus(ctx, baseURL, repo)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return domain.Failure(ctx.Err())
			}
			logging.Logger.Warn("Status query failed", "repo", repo.FullName, "attempt", attempt, "error", err)
			lastErr = &domain.StatsError{Attempts: attempt, Cause: err, Kind: domain.ErrPollTransientFailure}
			delay = c.schedule.TransientDelay
		case status.Ready:
			logging.Logger.Debug("Statistics ready", "repo", repo.FullName, "attempt", attempt)
			return c.ready(status.Stats())
		default:
			lastErr = nil
			delay = c.schedule.Delay(attempt)
			progress(domain.Processing())
		}
	}

	logging.Logger.Warn("Gave up polling", "repo", repo.FullName, "attempts", c.schedule.MaxAttempts)
	return c.fail(&domain.StatsError{
		Attempts: c.schedule.MaxAttempts,
		Cause:    lastErr,
		Kind:     domain.ErrPollTimeout,
	})
}

// wait blocks for d or until ctx is done. The timer is stopped either way.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	timer := c.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
	}
	return ctx.Err()
}

func (c *Client) ready(stats domain.Stats) domain.Outcome {
	c.metrics.observeOutcome(string(domain.OutcomeReady))
	return domain.Ready(stats)
}

func (c *Client) fail(err *domain.StatsError) domain.Outcome {
	c.metrics.observeOutcome(outcomeLabel(err.Kind))
	return domain.Failure(err)
}

func outcomeLabel(kind error) string {
	switch kind {
	case domain.ErrConfigurationMissing:
		return "configuration_missing"
	case domain.ErrPollTimeout:
		return "poll_timeout"
	case domain.ErrTransportFailure:
		return "transport_failure"
	default:
		return "failure"
	}
}
