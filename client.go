// Package brightdata is a typed client for the Bright Data scraping and SERP
// APIs. A Client exposes the scrape and search namespaces as fixed nested
// services; every operation resolves to one entry in the internal catalog and
// one dispatch call.
package brightdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/brightdata-go/internal/catalog"
	"github.com/JakeFAU/brightdata-go/internal/dispatch"
	"github.com/JakeFAU/brightdata-go/internal/metrics"
	"github.com/JakeFAU/brightdata-go/internal/poll"
	"github.com/JakeFAU/brightdata-go/internal/transport"
	"github.com/JakeFAU/brightdata-go/pkg/bderr"
	"github.com/JakeFAU/brightdata-go/pkg/config"
	"github.com/JakeFAU/brightdata-go/pkg/result"
)

// Client is the entry point for all SDK operations. Configuration is fixed at
// construction and never mutated afterward, so a Client is safe for concurrent
// use.
type Client struct {
	cfg        config.Config
	dispatcher *dispatch.Dispatcher
	sender     dispatch.Sender
	logger     *zap.Logger

	// Scrape groups platform scrapers and generic web unlocking.
	Scrape *ScrapeService
	// Search groups SERP engines and parameter-based discovery.
	Search *SearchService
}

// Option customizes client construction.
type Option func(*settings)

type settings struct {
	cfg           config.Config
	token         string
	logger        *zap.Logger
	sender        dispatch.Sender
	poller        dispatch.Waiter
	validateToken bool
}

// WithToken sets the API token explicitly, overriding the environment.
func WithToken(token string) Option {
	return func(s *settings) { s.token = token }
}

// WithTimeout sets the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.cfg.HTTP.TimeoutSeconds = int(d / time.Second) }
}

// WithBaseURL points the client at a different API root, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) { s.cfg.BaseURL = baseURL }
}

// WithUnlockerZone selects the zone used for web-unlocking requests.
func WithUnlockerZone(zone string) Option {
	return func(s *settings) { s.cfg.Zones.Unlocker = zone }
}

// WithSerpZone selects the zone used for SERP requests.
func WithSerpZone(zone string) Option {
	return func(s *settings) { s.cfg.Zones.Serp = zone }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(s *settings) { s.cfg.HTTP.RateLimitRPS = rps }
}

// WithLogger attaches a zap logger. Components default to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithConfig seeds construction from a loaded configuration.
func WithConfig(cfg config.Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithTokenValidation makes New verify the token against the zones endpoint
// before returning.
func WithTokenValidation() Option {
	return func(s *settings) { s.validateToken = true }
}

// withSender and withPoller inject fakes in tests.
func withSender(sender dispatch.Sender) Option {
	return func(s *settings) { s.sender = sender }
}

func withPoller(poller dispatch.Waiter) Option {
	return func(s *settings) { s.poller = poller }
}

// New builds a Client. The token resolves from the explicit option first, then
// the BRIGHTDATA/BRIGHT_DATA environment variables, then a .env file; a missing
// token is a validation error raised before any network call.
func New(opts ...Option) (*Client, error) {
	s := settings{}
	var err error
	if s.cfg, err = config.Load(""); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(&s)
	}

	token := s.token
	if token == "" {
		token = s.cfg.Token
	}
	if token == "" {
		return nil, &bderr.ValidationError{Invalid: map[string]string{
			"token": fmt.Sprintf("API token required: pass WithToken or set one of %v", config.EnvTokenNames),
		}}
	}

	logger := s.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics.Init()

	sender := s.sender
	if sender == nil {
		sender = transport.New(transport.Config{
			BaseURL:      s.cfg.BaseURL,
			Token:        token,
			Timeout:      s.cfg.Timeout(),
			RateLimitRPS: s.cfg.HTTP.RateLimitRPS,
			Logger:       logger.Named("transport"),
		})
	}

	poller := s.poller
	if poller == nil {
		poller = poll.New(sender, poll.Config{
			InitialInterval:     s.cfg.PollInitialInterval(),
			MaxInterval:         s.cfg.PollMaxInterval(),
			MaxTransientRetries: s.cfg.Poll.MaxTransientRetries,
		}, logger.Named("poll"))
	}

	dispatcher := dispatch.New(sender, poller, dispatch.Config{
		UnlockerZone:     s.cfg.Zones.Unlocker,
		SerpZone:         s.cfg.Zones.Serp,
		BatchConcurrency: s.cfg.Batch.Concurrency,
	}, logger.Named("dispatch"))

	c := &Client{
		cfg:        s.cfg,
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
	}
	c.Scrape = newScrapeService(c)
	c.Search = newSearchService(c)

	if s.validateToken {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout())
		defer cancel()
		if _, err := c.ListZones(ctx); err != nil {
			return nil, fmt.Errorf("token validation: %w", err)
		}
	}
	return c, nil
}

// Execute runs an arbitrary catalog operation. The namespace facades are thin
// wrappers over this entry point; the CLI uses it directly.
func (c *Client) Execute(ctx context.Context, namespace, platform, operation string, params map[string]any, opts dispatch.Options) ([]result.Result, error) {
	spec, ok := catalog.Lookup(namespace, platform, operation)
	if !ok {
		return nil, &bderr.ValidationError{Invalid: map[string]string{
			"operation": fmt.Sprintf("unknown operation %s.%s.%s", namespace, platform, operation),
		}}
	}
	return c.dispatcher.Dispatch(ctx, spec, params, opts)
}

// ExecuteAsync is the non-blocking variant of Execute. Identical inputs yield
// identical results on either surface.
func (c *Client) ExecuteAsync(ctx context.Context, namespace, platform, operation string, params map[string]any, opts dispatch.Options) <-chan dispatch.Async {
	spec, ok := catalog.Lookup(namespace, platform, operation)
	if !ok {
		ch := make(chan dispatch.Async, 1)
		ch <- dispatch.Async{Err: &bderr.ValidationError{Invalid: map[string]string{
			"operation": fmt.Sprintf("unknown operation %s.%s.%s", namespace, platform, operation),
		}}}
		close(ch)
		return ch
	}
	return c.dispatcher.DispatchAsync(ctx, spec, params, opts)
}

// Zone describes one active zone in the account.
type Zone struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ListZones returns the active zones configured for the account.
func (c *Client) ListZones(ctx context.Context) ([]Zone, error) {
	resp, err := c.sender.Send(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/zone/get_active_zones",
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &bderr.UpstreamError{StatusCode: resp.StatusCode, Message: string(resp.Body)}
	}
	var zones []Zone
	if err := json.Unmarshal(resp.Body, &zones); err != nil {
		return nil, &bderr.UpstreamError{StatusCode: resp.StatusCode, Message: "unparseable zones response"}
	}
	return zones, nil
}

// TestConnection verifies credentials with a lightweight API call.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.ListZones(ctx)
	return err == nil
}

// AccountInfo summarizes account access. The provider has no dedicated account
// endpoint, so the zones list stands in for it.
type AccountInfo struct {
	Zones         []Zone `json:"zones"`
	ZoneCount     int    `json:"zone_count"`
	Authenticated bool   `json:"authenticated"`
}

// GetAccountInfo returns account metadata derived from the zones list.
func (c *Client) GetAccountInfo(ctx context.Context) (AccountInfo, error) {
	zones, err := c.ListZones(ctx)
	if err != nil {
		return AccountInfo{}, err
	}
	return AccountInfo{Zones: zones, ZoneCount: len(zones), Authenticated: true}, nil
}
