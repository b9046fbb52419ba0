// Package restclient is the JSON-over-HTTP transport shared by the platform
// clients. It applies auth headers, a bounded timeout and the 429 retry policy.
package restclient

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

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
	maxRetryDelay     = time.Minute
	maxErrorBody      = 2048
)

// Config configures a Client
type Config struct {
	Platform   domain.Platform
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
	// Authorize sets credentials on every outbound request
	Authorize func(req *http.Request)
}

// Client issues authenticated JSON requests against one platform
type Client struct {
	platform   domain.Platform
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	authorize  func(req *http.Request)
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	sleep      func(ctx context.Context, delay time.Duration) error
}

// New creates a Client, filling zero config values with defaults.
// A negative MaxRetries disables retries.
func New(cfg Config, m *metrics.Metrics, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = DefaultMaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	authorize := cfg.Authorize
	if authorize == nil {
		authorize = func(*http.Request) {}
	}
	return &Client{
		platform:   cfg.Platform,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		authorize:  authorize,
		metrics:    m,
		logger:     logger.With().Str("platform", string(cfg.Platform)).Logger(),
		sleep:      sleepWithContext,
	}
}

// BaseURL returns the prefix relative paths are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request and decodes a JSON response into out.
// path may be relative to the base URL or absolute, as for pagination links.
// On HTTP 429 the request is retried after Retry-After up to the retry ceiling.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) (http.Header, error) {
	target := c.resolve(path, query)

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = encoded
	}

	for attempt := 0; ; attempt++ {
		resp, respBody, err := c.send(ctx, method, target, payload)
		if err != nil {
			return nil, err
		}
		c.metrics.UpstreamRequest(string(c.platform), resp.StatusCode)

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt >= c.maxRetries {
				c.logger.Warn().
					Str("method", method).
					Str("path", path).
					Int("attempts", attempt+1).
					Msg("Rate limit retries exhausted")
				return resp.Header, c.upstreamError(method, path, resp.StatusCode, respBody, domain.ErrRateLimited)
			}
			delay := RetryAfter(resp.Header.Get("Retry-After"), c.retryDelay)
			c.metrics.UpstreamRetry(string(c.platform))
			c.logger.Info().
				Str("method", method).
				Str("path", path).
				Dur("delay", delay).
				Int("attempt", attempt+1).
				Msg("Rate limited, retrying")
			if err := c.sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("failed to wait for rate limit: %w", err)
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			c.logger.Error().
				Str("method", method).
				Str("path", path).
				Int("status", resp.StatusCode).
				Str("body", truncate(respBody)).
				Msg("Upstream request failed")
			return resp.Header, c.upstreamError(method, path, resp.StatusCode, respBody, nil)
		}

		if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return resp.Header, fmt.Errorf("failed to decode %s response: %w", path, err)
			}
		}
		return resp.Header, nil
	}
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to call %s: %w", c.platform, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s response: %w", c.platform, err)
	}
	return resp, respBody, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func (c *Client) upstreamError(method, path string, status int, body []byte, cause error) error {
	return &domain.UpstreamError{
		Platform:   c.platform,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       truncate(body),
		Err:        cause,
	}
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}
