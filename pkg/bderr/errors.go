// Package bderr defines the error taxonomy shared by the SDK and its callers.
package bderr

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ValidationError reports missing or malformed operation parameters. It is
// always returned before any network call is issued.
type ValidationError struct {
	Missing []string
	Invalid map[string]string
}

// Error lists every offending key so callers can fix them in one pass.
func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		missing := append([]string(nil), e.Missing...)
		sort.Strings(missing)
		parts = append(parts, "missing required parameters: "+strings.Join(missing, ", "))
	}
	if len(e.Invalid) > 0 {
		keys := make([]string, 0, len(e.Invalid))
		for k := range e.Invalid {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("invalid parameter %q: %s", k, e.Invalid[k]))
		}
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// UnsupportedModeError reports a sync request against an operation that only
// supports the trigger/poll workflow.
type UnsupportedModeError struct {
	Operation string
	Mode      string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("operation %q does not support %s mode", e.Operation, e.Mode)
}

// TransportError wraps connection, DNS, and socket-timeout failures. It never
// represents an upstream HTTP error status.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError is a non-2xx response or an explicit job failure reported by
// the provider. Message carries the upstream text verbatim when present.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream error: status %d", e.StatusCode)
	}
	if e.StatusCode == 0 {
		return "upstream error: " + e.Message
	}
	return fmt.Sprintf("upstream error: status %d: %s", e.StatusCode, e.Message)
}

// PollTimeoutError is returned when polling exceeded the caller timeout without
// the job reaching a terminal state. Kept distinct from UpstreamError so callers
// can retry with a longer timeout.
type PollTimeoutError struct {
	SnapshotID string
	Timeout    time.Duration
	Polls      int
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("polling snapshot %q timed out after %s (%d polls)", e.SnapshotID, e.Timeout, e.Polls)
}
