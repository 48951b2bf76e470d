// Package result defines the uniform outcome type every SDK operation returns,
// and the normalizer that maps raw upstream responses onto it.
package result

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Timing is the per-operation timing breakdown. For trigger/poll operations it
// also records each poll round.
type Timing struct {
	RequestSentAt        time.Time   `json:"request_sent_at"`
	SnapshotIDReceivedAt *time.Time  `json:"snapshot_id_received_at,omitempty"`
	DataReceivedAt       time.Time   `json:"data_received_at"`
	PollCount            int         `json:"poll_count,omitempty"`
	PollRounds           []time.Time `json:"poll_rounds,omitempty"`
	ElapsedMS            int64       `json:"elapsed_ms"`
}

// Result is the uniform outcome of one operation. Exactly one of Data or Error
// is populated, consistent with Success. Cost stays nil when the upstream
// response carried no billing metadata; nil means unknown, not free.
type Result struct {
	Success   bool     `json:"success"`
	Platform  string   `json:"platform"`
	Operation string   `json:"operation"`
	Data      any      `json:"data,omitempty"`
	Error     string   `json:"error,omitempty"`
	ErrorKind string   `json:"error_kind,omitempty"`
	Cost      *float64 `json:"cost,omitempty"`
	Timing    Timing   `json:"timing"`
}

// ToMap converts the result to a plain map using its stable JSON field names.
func (r Result) ToMap() (map[string]any, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal result map: %w", err)
	}
	return m, nil
}

// ToJSON renders the result as indented JSON.
func (r Result) ToJSON() ([]byte, error) {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return raw, nil
}

// Save writes the JSON form of the result to path.
func (r Result) Save(path string) error {
	raw, err := r.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}
	return nil
}

// FromMap reconstructs a Result from the map form produced by ToMap. Success,
// data, error, cost, platform, and operation round-trip without loss.
func FromMap(m map[string]any) (Result, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return Result{}, fmt.Errorf("marshal result map: %w", err)
	}
	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return Result{}, fmt.Errorf("unmarshal result: %w", err)
	}
	return r, nil
}
