// Package transport issues HTTP requests against the upstream API. It injects
// the bearer token, enforces per-call timeouts, and surfaces connection-level
// failures as TransportError. It never retries; retry policy belongs to the
// poller and dispatcher where it stays visible.
package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/JakeFAU/brightdata-go/internal/metrics"
	"github.com/JakeFAU/brightdata-go/pkg/bderr"
)

// DefaultBaseURL is the upstream API root.
const DefaultBaseURL = "https://api.brightdata.com"

const userAgent = "brightdata-go/1.0 (+https://github.com/JakeFAU/brightdata-go)"

// Config controls client construction.
type Config struct {
	BaseURL string
	Token   string
	// Timeout is the default socket-level timeout applied when a request
	// carries none of its own.
	Timeout time.Duration
	// RateLimitRPS caps outgoing requests per second. Zero means unlimited.
	RateLimitRPS float64
	Logger       *zap.Logger
}

// Request describes one upstream round trip.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-marshaled when non-nil.
	Body any
	// Timeout overrides the client default for this call only.
	Timeout time.Duration
}

// Response is the raw upstream reply, untouched by any normalization.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	Duration   time.Duration
}

// Client wraps a resty client configured for the upstream API.
type Client struct {
	rest    *resty.Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  *zap.Logger
}

// New builds a Client. The token is attached to every request as a bearer
// Authorization header.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	rest := resty.New().
		SetBaseURL(base).
		SetAuthToken(cfg.Token).
		SetHeader("User-Agent", userAgent).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{rest: rest, limiter: limiter, timeout: timeout, logger: logger}
}

// Send performs one request. Connection, DNS, and timeout failures come back
// as *bderr.TransportError; HTTP error statuses do not — the raw response is
// returned for the normalizer to interpret.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.limiter != nil {
		start := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &bderr.TransportError{Op: req.Method, URL: req.Path, Err: err}
		}
		if waited := time.Since(start); waited > time.Millisecond {
			metrics.ObserveRateLimitDelay(waited)
		}
	}

	reqID := uuid.NewString()
	c.logger.Debug("sending upstream request",
		zap.String("request_id", reqID),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
	)

	r := c.rest.R().SetContext(ctx)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		c.logger.Debug("upstream request failed",
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		metrics.ObserveAPIRequest(req.Method, 0, 0)
		return nil, &bderr.TransportError{Op: req.Method, URL: req.Path, Err: err}
	}

	metrics.ObserveAPIRequest(req.Method, resp.StatusCode(), resp.Time())
	c.logger.Debug("upstream request complete",
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()),
	)

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Header:     resp.Header(),
		Duration:   resp.Time(),
	}, nil
}
