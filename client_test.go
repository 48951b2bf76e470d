package brightdata

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/brightdata-go/internal/dispatch"
	"github.com/JakeFAU/brightdata-go/internal/poll"
	"github.com/JakeFAU/brightdata-go/internal/transport"
	"github.com/JakeFAU/brightdata-go/pkg/bderr"
)

// stubSender records requests and replies from a script keyed by path prefix.
type stubSender struct {
	mu       sync.Mutex
	requests []transport.Request
	respond  func(req transport.Request) (*transport.Response, error)
}

func (s *stubSender) Send(_ context.Context, req transport.Request) (*transport.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.respond == nil {
		return &transport.Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
	}
	return s.respond(req)
}

type stubPoller struct {
	resp *transport.Response
	err  error
}

func (p *stubPoller) Wait(context.Context, poll.JobHandle, time.Duration) (*transport.Response, poll.Outcome, error) {
	return p.resp, poll.Outcome{State: poll.StateDone, PollRounds: []time.Time{time.Now()}}, p.err
}

func clearTokenEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"BRIGHTDATA_API_TOKEN", "BRIGHTDATA_TOKEN",
		"BRIGHT_DATA_API_TOKEN", "BRIGHT_DATA_TOKEN",
	} {
		t.Setenv(name, "")
	}
}

func newTestClient(t *testing.T, sender *stubSender, poller *stubPoller, opts ...Option) *Client {
	t.Helper()
	all := append([]Option{WithToken("test-token"), withSender(sender)}, opts...)
	if poller != nil {
		all = append(all, withPoller(poller))
	}
	c, err := New(all...)
	require.NoError(t, err)
	return c
}

func TestNewWithoutTokenFailsBeforeAnyNetworkCall(t *testing.T) {
	clearTokenEnv(t)

	sender := &stubSender{}
	_, err := New(withSender(sender))

	var ve *bderr.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, err.Error(), "BRIGHTDATA_API_TOKEN")
	require.Empty(t, sender.requests)
}

func TestNewBuildsNamespaceFacades(t *testing.T) {
	c := newTestClient(t, &stubSender{}, nil)
	require.NotNil(t, c.Scrape)
	require.NotNil(t, c.Scrape.Amazon)
	require.NotNil(t, c.Scrape.LinkedIn)
	require.NotNil(t, c.Scrape.ChatGPT)
	require.NotNil(t, c.Search)
	require.NotNil(t, c.Search.LinkedIn)
}

func TestNewWithTokenValidation(t *testing.T) {
	denied := &stubSender{respond: func(transport.Request) (*transport.Response, error) {
		return &transport.Response{StatusCode: http.StatusUnauthorized, Body: []byte(`auth failed`)}, nil
	}}
	_, err := New(WithToken("bad"), withSender(denied), WithTokenValidation())
	require.Error(t, err)
	require.Len(t, denied.requests, 1)
	require.Equal(t, "/zone/get_active_zones", denied.requests[0].Path)

	ok := &stubSender{respond: func(transport.Request) (*transport.Response, error) {
		return &transport.Response{StatusCode: http.StatusOK, Body: []byte(`[]`)}, nil
	}}
	_, err = New(WithToken("good"), withSender(ok), WithTokenValidation())
	require.NoError(t, err)
}

func TestScrapeURLRoutesToUnlockerEndpoint(t *testing.T) {
	sender := &stubSender{respond: func(transport.Request) (*transport.Response, error) {
		return &transport.Response{StatusCode: http.StatusOK, Body: []byte(`{"title": "X"}`)}, nil
	}}
	c := newTestClient(t, sender, nil, WithUnlockerZone("custom_unlocker"))

	results, err := c.Scrape.URL(context.Background(), []string{"https://example.com"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Success)
	require.Equal(t, "web", results[0].Platform)
	require.Equal(t, "url", results[0].Operation)

	require.Len(t, sender.requests, 1)
	require.Equal(t, "/request", sender.requests[0].Path)
	body := sender.requests[0].Body.(map[string]any)
	require.Equal(t, "custom_unlocker", body["zone"])
	require.Equal(t, "https://example.com", body["url"])
}

func TestSearchGoogleUnwrapsSingleResult(t *testing.T) {
	sender := &stubSender{respond: func(transport.Request) (*transport.Response, error) {
		return &transport.Response{StatusCode: http.StatusOK, Body: []byte(`{"organic": []}`)}, nil
	}}
	c := newTestClient(t, sender, nil)

	res, err := c.Search.Google(context.Background(), "golang sdk", &SerpOptions{NumResults: 25})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "google", res.Platform)

	body := sender.requests[0].Body.(map[string]any)
	require.Contains(t, body["url"], "www.google.com/search")
	require.Contains(t, body["url"], "num=25")
}

func TestScrapeLinkedInProfileTriggersAndPolls(t *testing.T) {
	sender := &stubSender{respond: func(transport.Request) (*transport.Response, error) {
		return &transport.Response{StatusCode: http.StatusOK, Body: []byte(`{"snapshot_id": "snap-1"}`)}, nil
	}}
	poller := &stubPoller{resp: &transport.Response{StatusCode: http.StatusOK, Body: []byte(`{"name": "A"}`)}}
	c := newTestClient(t, sender, poller)

	results, err := c.Scrape.LinkedIn.Profile(context.Background(),
		[]string{"https://linkedin.com/in/someone"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Success)
	require.Equal(t, map[string]any{"name": "A"}, results[0].Data)
	require.Equal(t, 1, results[0].Timing.PollCount)
	require.Equal(t, "/datasets/v3/trigger", sender.requests[0].Path)
}

func TestSearchLinkedInJobsPassesDiscoveryParams(t *testing.T) {
	sender := &stubSender{respond: func(transport.Request) (*transport.Response, error) {
		return &transport.Response{StatusCode: http.StatusOK, Body: []byte(`{"snapshot_id": "snap-2"}`)}, nil
	}}
	poller := &stubPoller{resp: &transport.Response{StatusCode: http.StatusOK, Body: []byte(`[]`)}}
	c := newTestClient(t, sender, poller)

	_, err := c.Search.LinkedIn.Jobs(context.Background(), "site reliability engineer",
		&JobSearchOptions{Location: "Remote", Remote: true})
	require.NoError(t, err)

	req := sender.requests[0]
	require.Equal(t, "discover_new", req.Query.Get("type"))
	require.Equal(t, "keyword", req.Query.Get("discover_by"))
	payload := req.Body.([]map[string]any)[0]
	require.Equal(t, "site reliability engineer", payload["keyword"])
	require.Equal(t, "Remote", payload["location"])
	require.Equal(t, true, payload["remote"])
}

func TestExecuteUnknownOperation(t *testing.T) {
	c := newTestClient(t, &stubSender{}, nil)

	_, err := c.Execute(context.Background(), "scrape", "myspace", "profile", nil, dispatch.Options{})

	var ve *bderr.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, err.Error(), "scrape.myspace.profile")
}

func TestExecuteAsyncMatchesSyncSurface(t *testing.T) {
	sender := &stubSender{respond: func(transport.Request) (*transport.Response, error) {
		return &transport.Response{StatusCode: http.StatusOK, Body: []byte(`{"n": 1}`)}, nil
	}}
	c := newTestClient(t, sender, nil)
	params := map[string]any{"url": "https://example.com"}

	sync, err := c.Execute(context.Background(), "scrape", "web", "url", params, dispatch.Options{})
	require.NoError(t, err)

	async := <-c.ExecuteAsync(context.Background(), "scrape", "web", "url", params, dispatch.Options{})
	require.NoError(t, async.Err)

	require.Len(t, async.Results, len(sync))
	require.Equal(t, sync[0].Success, async.Results[0].Success)
	require.Equal(t, sync[0].Data, async.Results[0].Data)
}

func TestListZonesAndAccountInfo(t *testing.T) {
	sender := &stubSender{respond: func(transport.Request) (*transport.Response, error) {
		return &transport.Response{
			StatusCode: http.StatusOK,
			Body:       []byte(`[{"name": "sdk_unlocker", "type": "unblocker"}, {"name": "sdk_serp", "type": "serp"}]`),
		}, nil
	}}
	c := newTestClient(t, sender, nil)

	zones, err := c.ListZones(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 2)
	require.Equal(t, Zone{Name: "sdk_unlocker", Type: "unblocker"}, zones[0])

	info, err := c.GetAccountInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, info.ZoneCount)
	require.True(t, info.Authenticated)

	require.True(t, c.TestConnection(context.Background()))
}

func TestTestConnectionFalseOnAuthFailure(t *testing.T) {
	sender := &stubSender{respond: func(transport.Request) (*transport.Response, error) {
		return &transport.Response{StatusCode: http.StatusUnauthorized, Body: []byte(`auth failed`)}, nil
	}}
	c := newTestClient(t, sender, nil)
	require.False(t, c.TestConnection(context.Background()))
}
