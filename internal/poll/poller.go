// Package poll drives the snapshot polling loop for trigger/poll operations.
package poll

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/brightdata-go/internal/metrics"
	"github.com/JakeFAU/brightdata-go/internal/transport"
	"github.com/JakeFAU/brightdata-go/pkg/bderr"
)

// State tracks where a polled job is in its lifecycle.
type State string

// Job lifecycle states.
const (
	StateSubmitted State = "submitted"
	StatePolling   State = "polling"
	StateDone      State = "done"
	StateFailed    State = "failed"
	StateTimedOut  State = "timed_out"
)

// Upstream progress statuses that mean the job is still running.
var pendingStatuses = map[string]bool{
	"running":    true,
	"building":   true,
	"collecting": true,
	"pending":    true,
	"starting":   true,
}

// JobHandle identifies a triggered dataset collection while it is polled.
type JobHandle struct {
	SnapshotID  string
	SubmittedAt time.Time
}

// Sender is the transport surface the poller needs.
type Sender interface {
	Send(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// Config tunes the polling loop.
type Config struct {
	// InitialInterval is the wait before the first poll; the interval doubles
	// each round up to MaxInterval to bound request volume on long jobs.
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxTransientRetries bounds consecutive failed poll requests before the
	// transport error is surfaced. Transient network blips must not abort a
	// job that is still running upstream.
	MaxTransientRetries int
}

func (c Config) withDefaults() Config {
	if c.InitialInterval <= 0 {
		c.InitialInterval = 2 * time.Second
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 30 * time.Second
	}
	if c.MaxTransientRetries <= 0 {
		c.MaxTransientRetries = 3
	}
	return c
}

// Outcome reports how the loop ended and what it observed along the way.
type Outcome struct {
	State      State
	PollRounds []time.Time
}

// PollCount returns the number of status requests issued.
func (o Outcome) PollCount() int { return len(o.PollRounds) }

// Poller polls the progress endpoint until a terminal state, then fetches the
// snapshot payload.
type Poller struct {
	sender Sender
	cfg    Config
	logger *zap.Logger

	// Injectable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Poller.
func New(sender Sender, cfg Config, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		sender: sender,
		cfg:    cfg.withDefaults(),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		sleep:  sleepCtx,
	}
}

// Wait blocks until the job behind handle reaches a terminal state or timeout
// elapses. On success the returned response is the fetched snapshot payload.
// On explicit upstream failure the error is *bderr.UpstreamError carrying the
// upstream message verbatim; on timeout it is *bderr.PollTimeoutError, never
// conflated with a job failure.
func (p *Poller) Wait(ctx context.Context, handle JobHandle, timeout time.Duration) (*transport.Response, Outcome, error) {
	outcome := Outcome{State: StateSubmitted}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	interval := p.cfg.InitialInterval
	transientFailures := 0

	for {
		if err := p.sleep(ctx, interval); err != nil {
			outcome.State = StateTimedOut
			metrics.ObservePollTimeout()
			return nil, outcome, &bderr.PollTimeoutError{
				SnapshotID: handle.SnapshotID,
				Timeout:    timeout,
				Polls:      outcome.PollCount(),
			}
		}

		outcome.State = StatePolling
		outcome.PollRounds = append(outcome.PollRounds, p.now())

		status, errMsg, err := p.checkProgress(ctx, handle.SnapshotID)
		if err != nil {
			if ctx.Err() != nil {
				outcome.State = StateTimedOut
				metrics.ObservePollTimeout()
				return nil, outcome, &bderr.PollTimeoutError{
					SnapshotID: handle.SnapshotID,
					Timeout:    timeout,
					Polls:      outcome.PollCount(),
				}
			}
			transientFailures++
			p.logger.Warn("poll round failed",
				zap.String("snapshot_id", handle.SnapshotID),
				zap.Int("consecutive_failures", transientFailures),
				zap.Error(err),
			)
			if transientFailures >= p.cfg.MaxTransientRetries {
				outcome.State = StateFailed
				return nil, outcome, err
			}
			continue
		}
		transientFailures = 0
		metrics.ObservePollRound(status)

		switch {
		case status == "ready":
			resp, err := p.fetchSnapshot(ctx, handle.SnapshotID)
			if err != nil {
				outcome.State = StateFailed
				return nil, outcome, err
			}
			outcome.State = StateDone
			return resp, outcome, nil
		case status == "failed" || status == "error":
			outcome.State = StateFailed
			return nil, outcome, &bderr.UpstreamError{Message: failureMessage(status, errMsg)}
		case pendingStatuses[status]:
			// keep polling
		default:
			p.logger.Debug("unrecognized snapshot status, continuing to poll",
				zap.String("snapshot_id", handle.SnapshotID),
				zap.String("status", status),
			)
		}

		interval *= 2
		if interval > p.cfg.MaxInterval {
			interval = p.cfg.MaxInterval
		}
	}
}

func (p *Poller) checkProgress(ctx context.Context, snapshotID string) (status, errMsg string, err error) {
	resp, err := p.sender.Send(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/datasets/v3/progress/" + snapshotID,
	})
	if err != nil {
		return "", "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", &bderr.UpstreamError{StatusCode: resp.StatusCode, Message: string(resp.Body)}
	}
	var progress struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &progress); err != nil {
		return "", "", &bderr.UpstreamError{StatusCode: resp.StatusCode, Message: "unparseable progress response"}
	}
	return progress.Status, progress.Error, nil
}

func (p *Poller) fetchSnapshot(ctx context.Context, snapshotID string) (*transport.Response, error) {
	query := url.Values{}
	query.Set("format", "json")
	return p.sender.Send(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/datasets/v3/snapshot/" + snapshotID,
		Query:  query,
	})
}

func failureMessage(status, errMsg string) string {
	if errMsg != "" {
		return errMsg
	}
	return "job reported status " + status
}

// sleepCtx waits for d or until ctx is done, abandoning the wait immediately
// on cancellation so no poll loop dangles past its timeout.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
