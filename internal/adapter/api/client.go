package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/observability/metrics"
	"github.com/mmcdole/instrumenta/internal/query"
)

const (
	DefaultBaseURL = "http://localhost:3001/api"
	defaultTimeout = 10 * time.Second
	userAgent      = "Instrumenta/1.0"
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Debug      bool
	Notifier   domain.Notifier
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Client talks to the instruments API. It implements the domain client
// interfaces; every failure is surfaced once through the Notifier and
// returned as *domain.NetworkError or *domain.APIError.
type Client struct {
	baseURL    string
	rootURL    string // scheme://host, for the health endpoints
	httpClient *http.Client
	notifier   domain.Notifier
	logger     *slog.Logger
	debug      bool
}

var (
	_ domain.InstrumentClient = (*Client)(nil)
	_ domain.ReferenceClient  = (*Client)(nil)
	_ domain.RelationClient   = (*Client)(nil)
	_ domain.DiscoveryClient  = (*Client)(nil)
	_ domain.HealthClient     = (*Client)(nil)
)

// NewClient creates a new API client
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", base)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    base,
		rootURL:    u.Scheme + "://" + u.Host,
		httpClient: httpClient,
		notifier:   notifier,
		logger:     logger,
		debug:      opts.Debug,
	}, nil
}

// BaseURL returns the versioned API root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	root   bool // send to the unversioned root instead of the API base
}

// do performs the request and decodes a 2xx body into out (when non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	base := c.baseURL
	if r.root {
		base = c.rootURL
	}
	reqURL := base + r.path
	if len(r.query) > 0 {
		reqURL = reqURL + "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)

	if c.debug {
		c.logger.Debug("api request", "method", r.method, "url", reqURL, "request_id", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(r.method, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", r.method, r.path, ctxErr)
		}
		netErr := &domain.NetworkError{Op: r.method, URL: reqURL, Err: err}
		c.fail(ctx, requestID, netErr)
		return netErr
	}
	defer resp.Body.Close()
	metrics.ObserveRequest(r.method, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		netErr := &domain.NetworkError{Op: r.method, URL: reqURL, Err: err}
		c.fail(ctx, requestID, netErr)
		return netErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &domain.APIError{Status: resp.StatusCode, Method: r.method, Path: r.path}
		var failure struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(data, &failure) == nil {
			apiErr.Message = failure.Message
			apiErr.Detail = failure.Error
		}
		c.fail(ctx, requestID, apiErr)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error("JSON parse error", "path", r.path, "error", err, "bodyLen", len(data))
		return fmt.Errorf("failed to parse response from %s: %w", r.path, err)
	}
	return nil
}

// fail logs err and shows it to the user, unless a retry will follow.
func (c *Client) fail(ctx context.Context, requestID string, err error) {
	msg := domain.Message(err)
	if !query.FinalAttempt(ctx) {
		c.logger.Debug("api request failed, will retry", "error", msg, "request_id", requestID)
		return
	}
	c.logger.Error("api request failed", "error", msg, "request_id", requestID)
	metrics.IncNotification("error")
	c.notifier.Error(msg)
}

func (c *Client) succeed(msg string) {
	metrics.IncNotification("success")
	c.notifier.Success(msg)
}

func get[T any](ctx context.Context, c *Client, path string, q url.Values) (T, error) {
	var out T
	err := c.do(ctx, request{method: http.MethodGet, path: path, query: q}, &out)
	return out, err
}

func send[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	err := c.do(ctx, request{method: method, path: path, body: body}, &out)
	return out, err
}

// limitQuery is the common ?limit=n parameter; non-positive limits are omitted.
func limitQuery(limit int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	return q
}
