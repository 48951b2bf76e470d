package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	brightdata "github.com/JakeFAU/brightdata-go"
	"github.com/JakeFAU/brightdata-go/pkg/config"
)

func findCommand(t *testing.T, root *cobra.Command, path ...string) *cobra.Command {
	t.Helper()
	cmd := root
	for _, name := range path {
		var next *cobra.Command
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				next = sub
				break
			}
		}
		require.NotNil(t, next, "command %q not found under %q", name, cmd.Name())
		cmd = next
	}
	return cmd
}

func TestCommandTreeMirrorsCatalog(t *testing.T) {
	root := newRootCmd()

	findCommand(t, root, "scrape", "web", "url")
	findCommand(t, root, "scrape", "amazon", "products")
	findCommand(t, root, "scrape", "amazon", "reviews")
	findCommand(t, root, "scrape", "amazon", "search")
	findCommand(t, root, "scrape", "linkedin", "profile")
	findCommand(t, root, "scrape", "chatgpt", "prompt")
	findCommand(t, root, "search", "google", "query")
	findCommand(t, root, "search", "bing", "query")
	findCommand(t, root, "search", "yandex", "query")
	findCommand(t, root, "search", "linkedin", "jobs")
	findCommand(t, root, "zones")
	findCommand(t, root, "account")
}

func TestOperationCommandDeclaresCatalogFlags(t *testing.T) {
	root := newRootCmd()

	google := findCommand(t, root, "search", "google", "query")
	require.NotNil(t, google.Flags().Lookup("num-results"))
	require.NotNil(t, google.Flags().Lookup("country"))
	require.NotNil(t, google.Flags().Lookup("language"))
	require.NotNil(t, google.Flags().Lookup("device"))
	require.Nil(t, google.Flags().Lookup("query"), "the primary parameter is positional")

	jobs := findCommand(t, root, "search", "linkedin", "jobs")
	require.NotNil(t, jobs.Flags().Lookup("location"))
	require.NotNil(t, jobs.Flags().Lookup("remote"))
}

func TestBatchOperationsAcceptMultipleArgs(t *testing.T) {
	root := newRootCmd()

	url := findCommand(t, root, "scrape", "web", "url")
	require.NoError(t, url.Args(url, []string{"https://a.test", "https://b.test"}))
	require.Error(t, url.Args(url, nil))

	jobs := findCommand(t, root, "search", "linkedin", "jobs")
	require.Error(t, jobs.Args(jobs, []string{"a", "b"}), "non-batch operations take exactly one argument")
}

// stubClientFactory points the CLI at a local test server.
func stubClientFactory(t *testing.T, handler http.Handler) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	prev := newClient
	newClient = func(config.Config, string, *zap.Logger) (*brightdata.Client, error) {
		return brightdata.New(
			brightdata.WithToken("test-token"),
			brightdata.WithBaseURL(srv.URL),
		)
	}
	t.Cleanup(func() { newClient = prev })
}

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile, apiKey, outputMode, outputFile = "", "", "json", ""
		timeout, verbose = 0, false
	})
}

func TestScrapeURLCommandEndToEnd(t *testing.T) {
	resetFlags(t)
	stubClientFactory(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/request", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"title": "X"}`))
	}))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"scrape", "web", "url", "https://example.com", "-o", "minimal"})

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), `{"title":"X"}`)
}

func TestScrapeURLCommandFailureExitsNonZero(t *testing.T) {
	resetFlags(t)
	stubClientFactory(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": "zone denied"}`))
	}))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"scrape", "web", "url", "https://example.com"})

	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 1 operations failed")
}
