package brightdata

import (
	"context"
	"time"

	"github.com/JakeFAU/brightdata-go/internal/dispatch"
	"github.com/JakeFAU/brightdata-go/pkg/result"
)

// SearchService groups the search namespace: SERP engines plus LinkedIn
// parameter-based discovery.
type SearchService struct {
	client *Client

	LinkedIn *LinkedInSearch
}

func newSearchService(c *Client) *SearchService {
	return &SearchService{client: c, LinkedIn: &LinkedInSearch{client: c}}
}

// SerpOptions tune a search-engine query.
type SerpOptions struct {
	Zone       string
	Country    string
	Language   string
	NumResults int
	// Device selects the result page variant, e.g. "desktop" or "mobile".
	Device  string
	Timeout time.Duration
}

func (o *SerpOptions) params() (map[string]any, time.Duration) {
	params := map[string]any{}
	var timeout time.Duration
	if o != nil {
		setIfNotEmpty(params, "zone", o.Zone)
		setIfNotEmpty(params, "country", o.Country)
		setIfNotEmpty(params, "language", o.Language)
		if o.NumResults > 0 {
			params["num_results"] = o.NumResults
		}
		setIfNotEmpty(params, "device", o.Device)
		timeout = o.Timeout
	}
	return params, timeout
}

func (s *SearchService) engineQuery(ctx context.Context, engine, query string, opts *SerpOptions) (result.Result, error) {
	params, timeout := opts.params()
	if engine != "google" {
		delete(params, "device")
	}
	params["query"] = query
	return first(s.client.Execute(ctx, "search", engine, "query", params, dispatch.Options{Timeout: timeout}))
}

// Google runs a Google search through the SERP zone.
func (s *SearchService) Google(ctx context.Context, query string, opts *SerpOptions) (result.Result, error) {
	return s.engineQuery(ctx, "google", query, opts)
}

// GoogleAsync is the non-blocking variant of Google. It accepts multiple
// queries; results preserve query order.
func (s *SearchService) GoogleAsync(ctx context.Context, queries []string, opts *SerpOptions) <-chan dispatch.Async {
	params, timeout := opts.params()
	params["query"] = queries
	return s.client.ExecuteAsync(ctx, "search", "google", "query", params, dispatch.Options{Timeout: timeout})
}

// Bing runs a Bing search through the SERP zone.
func (s *SearchService) Bing(ctx context.Context, query string, opts *SerpOptions) (result.Result, error) {
	return s.engineQuery(ctx, "bing", query, opts)
}

// Yandex runs a Yandex search through the SERP zone.
func (s *SearchService) Yandex(ctx context.Context, query string, opts *SerpOptions) (result.Result, error) {
	return s.engineQuery(ctx, "yandex", query, opts)
}

// LinkedInSearch discovers LinkedIn records by parameters instead of URLs.
type LinkedInSearch struct {
	client *Client
}

// JobSearchOptions tune a LinkedIn job discovery.
type JobSearchOptions struct {
	Location string
	Remote   bool
	Timeout  time.Duration
}

// Jobs discovers job postings matching a keyword.
func (l *LinkedInSearch) Jobs(ctx context.Context, keyword string, opts *JobSearchOptions) (result.Result, error) {
	params := map[string]any{"keyword": keyword}
	var timeout time.Duration
	if opts != nil {
		setIfNotEmpty(params, "location", opts.Location)
		if opts.Remote {
			params["remote"] = true
		}
		timeout = opts.Timeout
	}
	return first(l.client.Execute(ctx, "search", "linkedin", "jobs", params, dispatch.Options{Timeout: timeout}))
}

// ProfileSearchOptions tune a LinkedIn profile discovery.
type ProfileSearchOptions struct {
	LastName string
	Timeout  time.Duration
}

// Profiles discovers profiles by name.
func (l *LinkedInSearch) Profiles(ctx context.Context, firstName string, opts *ProfileSearchOptions) (result.Result, error) {
	params := map[string]any{"first_name": firstName}
	var timeout time.Duration
	if opts != nil {
		setIfNotEmpty(params, "last_name", opts.LastName)
		timeout = opts.Timeout
	}
	return first(l.client.Execute(ctx, "search", "linkedin", "profiles", params, dispatch.Options{Timeout: timeout}))
}

// PostSearchOptions tune a LinkedIn post discovery.
type PostSearchOptions struct {
	StartDate string
	EndDate   string
	Timeout   time.Duration
}

// Posts discovers posts published by a profile.
func (l *LinkedInSearch) Posts(ctx context.Context, profileURL string, opts *PostSearchOptions) (result.Result, error) {
	params := map[string]any{"profile_url": profileURL}
	var timeout time.Duration
	if opts != nil {
		setIfNotEmpty(params, "start_date", opts.StartDate)
		setIfNotEmpty(params, "end_date", opts.EndDate)
		timeout = opts.Timeout
	}
	return first(l.client.Execute(ctx, "search", "linkedin", "posts", params, dispatch.Options{Timeout: timeout}))
}
