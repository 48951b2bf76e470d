package result

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/JakeFAU/brightdata-go/internal/transport"
	"github.com/JakeFAU/brightdata-go/pkg/bderr"
)

// Header carrying per-request billing metadata when the zone reports it.
const costHeader = "X-Response-Cost"

// Normalize converts a raw upstream response into a Result. 2xx with a
// parseable JSON body becomes a success with the decoded payload; a 2xx
// non-JSON body is kept as a raw string. Everything else becomes a failure
// combining the status code with the upstream message. Normalize never fails.
func Normalize(resp *transport.Response, platform, operation string, timing Timing) Result {
	timing = stamp(timing)
	r := Result{Platform: platform, Operation: operation, Timing: timing}

	if resp == nil {
		r.Error = "no response received"
		r.ErrorKind = bderr.KindTransport
		return r
	}

	r.Cost = extractCost(resp)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		r.Success = true
		r.Data = decodeBody(resp.Body)
		return r
	}

	msg := upstreamMessage(resp.Body)
	if msg == "" {
		r.Error = "status " + strconv.Itoa(resp.StatusCode)
	} else {
		r.Error = "status " + strconv.Itoa(resp.StatusCode) + ": " + msg
	}
	r.ErrorKind = bderr.KindUpstream
	return r
}

// FromError converts a raised error into a failed Result. This is the only
// boundary permitted to swallow transport-level errors into data.
func FromError(err error, platform, operation string, timing Timing) Result {
	timing = stamp(timing)
	kind := bderr.Kind(err)
	if kind == "" {
		kind = bderr.KindTransport
	}
	return Result{
		Platform:  platform,
		Operation: operation,
		Error:     err.Error(),
		ErrorKind: kind,
		Timing:    timing,
	}
}

// stamp fills in the receive timestamp and elapsed milliseconds.
func stamp(t Timing) Timing {
	if t.DataReceivedAt.IsZero() {
		t.DataReceivedAt = time.Now().UTC()
	}
	if !t.RequestSentAt.IsZero() {
		t.ElapsedMS = t.DataReceivedAt.Sub(t.RequestSentAt).Milliseconds()
	}
	return t
}

func decodeBody(body []byte) any {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		return decoded
	}
	return trimmed
}

// upstreamMessage pulls a human-readable message out of an error body.
func upstreamMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			if v, ok := payload[key].(string); ok && v != "" {
				return v
			}
		}
	}
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}

func extractCost(resp *transport.Response) *float64 {
	if resp.Header == nil {
		return nil
	}
	raw := resp.Header.Get(costHeader)
	if raw == "" {
		return nil
	}
	cost, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &cost
}
