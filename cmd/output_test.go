package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/brightdata-go/pkg/bderr"
	"github.com/JakeFAU/brightdata-go/pkg/result"
)

func sampleResults() []result.Result {
	cost := 0.01
	return []result.Result{
		{
			Success:   true,
			Platform:  "web",
			Operation: "url",
			Data:      map[string]any{"title": "X"},
			Cost:      &cost,
		},
		{
			Success:   false,
			Platform:  "web",
			Operation: "url",
			Error:     "status 403: zone denied",
			ErrorKind: bderr.KindUpstream,
		},
	}
}

func TestRenderJSONUnwrapsSingleResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResults(&buf, sampleResults()[:1], "json", ""))

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	require.Equal(t, true, m["success"])
	require.Equal(t, "web", m["platform"])
}

func TestRenderJSONKeepsMultipleResultsAsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResults(&buf, sampleResults(), "json", ""))

	var list []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &list))
	require.Len(t, list, 2)
}

func TestRenderPrettyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResults(&buf, sampleResults(), "pretty", ""))

	out := buf.String()
	require.Contains(t, out, "PLATFORM")
	require.Contains(t, out, "0.0100")
	require.Contains(t, out, "zone denied")
}

func TestRenderMinimal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResults(&buf, sampleResults(), "minimal", ""))

	out := buf.String()
	require.Contains(t, out, `{"title":"X"}`)
	require.Contains(t, out, "ERROR: status 403: zone denied")
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, renderResults(&buf, sampleResults(), "yaml", ""))
}

func TestRenderWritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	var buf bytes.Buffer
	require.NoError(t, renderResults(&buf, sampleResults(), "json", path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 2)
}
