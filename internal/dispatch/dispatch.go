// Package dispatch maps catalog operations onto upstream HTTP calls. It
// validates parameters before any network traffic, resolves sync/async
// execution, fans list-valued parameters out to independent per-item requests,
// and normalizes every outcome into results.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/brightdata-go/internal/catalog"
	"github.com/JakeFAU/brightdata-go/internal/metrics"
	"github.com/JakeFAU/brightdata-go/internal/poll"
	"github.com/JakeFAU/brightdata-go/internal/transport"
	"github.com/JakeFAU/brightdata-go/pkg/bderr"
	"github.com/JakeFAU/brightdata-go/pkg/result"
)

// Mode selects the execution surface for an operation.
type Mode string

// Execution modes. ModeDefault picks sync when the operation supports it and
// async otherwise.
const (
	ModeDefault Mode = ""
	ModeSync    Mode = "sync"
	ModeAsync   Mode = "async"
)

// Sender is the transport surface the dispatcher needs.
type Sender interface {
	Send(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// Waiter is the polling surface the dispatcher needs.
type Waiter interface {
	Wait(ctx context.Context, handle poll.JobHandle, timeout time.Duration) (*transport.Response, poll.Outcome, error)
}

// Config carries the zone selection and fan-out knobs.
type Config struct {
	// UnlockerZone serves generic web-unlocking requests.
	UnlockerZone string
	// SerpZone serves search-engine requests.
	SerpZone string
	// BatchConcurrency bounds concurrent fan-out items. Defaults to 8.
	BatchConcurrency int
}

func (c Config) withDefaults() Config {
	if c.UnlockerZone == "" {
		c.UnlockerZone = "sdk_unlocker"
	}
	if c.SerpZone == "" {
		c.SerpZone = "sdk_serp"
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = 8
	}
	return c
}

// Options are per-call execution options.
type Options struct {
	Mode    Mode
	Timeout time.Duration
}

// Dispatcher is stateless between calls; it holds only read-only collaborators.
type Dispatcher struct {
	sender Sender
	poller Waiter
	cfg    Config
	logger *zap.Logger
}

// New builds a Dispatcher.
func New(sender Sender, poller Waiter, cfg Config, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sender: sender, poller: poller, cfg: cfg.withDefaults(), logger: logger}
}

// Dispatch executes one operation. List values in the spec's batch parameter
// fan out to one request per item; the returned slice preserves input order and
// carries per-item failures as failed results rather than aborting the batch.
// Validation and mode errors are returned before any network call.
func (d *Dispatcher) Dispatch(ctx context.Context, spec catalog.Spec, params map[string]any, opts Options) ([]result.Result, error) {
	items, err := validate(spec, params)
	if err != nil {
		return nil, err
	}

	// Mode resolution can only fail; execution shape follows the endpoint.
	if _, err := resolveMode(spec, opts.Mode); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = spec.DefaultTimeout
	}

	if len(items) == 1 {
		res, err := d.dispatchOne(ctx, spec, items[0], timeout)
		if err != nil {
			metrics.ObserveDispatch(spec.Key(), "error")
			return nil, err
		}
		metrics.ObserveDispatch(spec.Key(), outcome(res))
		return []result.Result{res}, nil
	}

	results := make([]result.Result, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.BatchConcurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			res, err := d.dispatchOne(gctx, spec, item, timeout)
			if err != nil {
				// Batch items fail independently; a raised error becomes a
				// failed result so the remaining items still run.
				res = result.FromError(err, spec.Platform, spec.Operation, result.Timing{})
			}
			metrics.ObserveBatchItem(outcome(res))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	metrics.ObserveDispatch(spec.Key(), batchOutcome(results))
	return results, nil
}

// DispatchAsync runs Dispatch in a goroutine and delivers the outcome on the
// returned channel. It is a thin execution-mode wrapper: identical inputs
// produce identical results on either surface.
func (d *Dispatcher) DispatchAsync(ctx context.Context, spec catalog.Spec, params map[string]any, opts Options) <-chan Async {
	ch := make(chan Async, 1)
	go func() {
		defer close(ch)
		results, err := d.Dispatch(ctx, spec, params, opts)
		ch <- Async{Results: results, Err: err}
	}()
	return ch
}

// Async is the outcome delivered by DispatchAsync.
type Async struct {
	Results []result.Result
	Err     error
}

func resolveMode(spec catalog.Spec, requested Mode) (Mode, error) {
	switch requested {
	case ModeDefault:
		if spec.SyncCapable {
			return ModeSync, nil
		}
		return ModeAsync, nil
	case ModeSync:
		if !spec.SyncCapable {
			return "", &bderr.UnsupportedModeError{Operation: spec.Key(), Mode: string(ModeSync)}
		}
		return ModeSync, nil
	case ModeAsync:
		return ModeAsync, nil
	default:
		return "", &bderr.UnsupportedModeError{Operation: spec.Key(), Mode: string(requested)}
	}
}

// dispatchOne executes a single already-validated item.
func (d *Dispatcher) dispatchOne(ctx context.Context, spec catalog.Spec, item map[string]any, timeout time.Duration) (result.Result, error) {
	if spec.Endpoint == catalog.EndpointDataset {
		return d.dispatchDataset(ctx, spec, item, timeout)
	}
	return d.dispatchImmediate(ctx, spec, item, timeout)
}

// dispatchImmediate handles unlocker and SERP operations: one POST /request.
func (d *Dispatcher) dispatchImmediate(ctx context.Context, spec catalog.Spec, item map[string]any, timeout time.Duration) (result.Result, error) {
	body, err := d.buildRequestBody(spec, item)
	if err != nil {
		return result.Result{}, err
	}

	timing := result.Timing{RequestSentAt: time.Now().UTC()}
	resp, err := d.sender.Send(ctx, transport.Request{
		Method:  http.MethodPost,
		Path:    "/request",
		Body:    body,
		Timeout: timeout,
	})
	if err != nil {
		return result.Result{}, err
	}
	return result.Normalize(resp, spec.Platform, spec.Operation, timing), nil
}

// dispatchDataset handles the trigger/poll workflow.
func (d *Dispatcher) dispatchDataset(ctx context.Context, spec catalog.Spec, item map[string]any, timeout time.Duration) (result.Result, error) {
	timing := result.Timing{RequestSentAt: time.Now().UTC()}

	query := url.Values{}
	query.Set("dataset_id", spec.DatasetID)
	query.Set("include_errors", "true")
	if spec.DiscoverBy != "" {
		query.Set("type", "discover_new")
		query.Set("discover_by", spec.DiscoverBy)
	}

	resp, err := d.sender.Send(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/datasets/v3/trigger",
		Query:  query,
		Body:   []map[string]any{datasetPayload(spec, item)},
	})
	if err != nil {
		return result.Result{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result.Normalize(resp, spec.Platform, spec.Operation, timing), nil
	}

	var trigger struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := json.Unmarshal(resp.Body, &trigger); err != nil || trigger.SnapshotID == "" {
		fail := &bderr.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    "trigger returned no snapshot_id",
		}
		return result.FromError(fail, spec.Platform, spec.Operation, timing), nil
	}

	now := time.Now().UTC()
	timing.SnapshotIDReceivedAt = &now
	d.logger.Debug("dataset collection triggered",
		zap.String("operation", spec.Key()),
		zap.String("snapshot_id", trigger.SnapshotID),
	)

	handle := poll.JobHandle{SnapshotID: trigger.SnapshotID, SubmittedAt: timing.RequestSentAt}
	snapshot, pollOutcome, err := d.poller.Wait(ctx, handle, timeout)
	timing.PollCount = pollOutcome.PollCount()
	timing.PollRounds = pollOutcome.PollRounds
	if err != nil {
		var (
			upstream    *bderr.UpstreamError
			pollTimeout *bderr.PollTimeoutError
		)
		if errors.As(err, &upstream) || errors.As(err, &pollTimeout) {
			// Terminal job failures and timeouts become failed results so
			// batch callers see partial success instead of an abort.
			return result.FromError(err, spec.Platform, spec.Operation, timing), nil
		}
		return result.Result{}, err
	}
	return result.Normalize(snapshot, spec.Platform, spec.Operation, timing), nil
}

// buildRequestBody assembles the /request body for unlocker and SERP specs.
func (d *Dispatcher) buildRequestBody(spec catalog.Spec, item map[string]any) (map[string]any, error) {
	zone := stringParam(item, "zone")
	if zone == "" {
		if spec.Endpoint == catalog.EndpointSERP {
			zone = d.cfg.SerpZone
		} else {
			zone = d.cfg.UnlockerZone
		}
	}

	target, err := targetURL(spec, item)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"zone":   zone,
		"url":    target,
		"format": "raw",
	}
	if spec.Endpoint == catalog.EndpointSERP {
		// SERP zones return parsed JSON when asked for it on the target URL;
		// the body format stays raw.
		body["format"] = "json"
	}
	if v := stringParam(item, "format"); v != "" {
		body["format"] = v
	}
	if v := stringParam(item, "method"); v != "" {
		body["method"] = v
	}
	if v := stringParam(item, "country"); v != "" && spec.Endpoint == catalog.EndpointUnlocker {
		body["country"] = v
	}
	return body, nil
}

func outcome(r result.Result) string {
	if r.Success {
		return "success"
	}
	return "failure"
}

func batchOutcome(results []result.Result) string {
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	switch succeeded {
	case len(results):
		return "success"
	case 0:
		return "failure"
	default:
		return "partial"
	}
}

func stringParam(item map[string]any, key string) string {
	v, ok := item[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func intParam(item map[string]any, key string, fallback int) int {
	v, ok := item[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}
