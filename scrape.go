package brightdata

import (
	"context"
	"time"

	"github.com/JakeFAU/brightdata-go/internal/dispatch"
	"github.com/JakeFAU/brightdata-go/pkg/result"
)

// ScrapeService groups the scrape namespace: generic web unlocking plus the
// platform scrapers. It holds no state of its own; every method routes to one
// catalog operation.
type ScrapeService struct {
	client *Client

	Amazon   *AmazonScraper
	LinkedIn *LinkedInScraper
	ChatGPT  *ChatGPTScraper
}

func newScrapeService(c *Client) *ScrapeService {
	return &ScrapeService{
		client:   c,
		Amazon:   &AmazonScraper{client: c},
		LinkedIn: &LinkedInScraper{client: c},
		ChatGPT:  &ChatGPTScraper{client: c},
	}
}

// WebOptions tune a web-unlocker request.
type WebOptions struct {
	Zone    string
	Country string
	// Format selects the response body shape: "raw" HTML or "json".
	Format  string
	Method  string
	Timeout time.Duration
}

func (o *WebOptions) params() (map[string]any, time.Duration) {
	params := map[string]any{}
	var timeout time.Duration
	if o != nil {
		setIfNotEmpty(params, "zone", o.Zone)
		setIfNotEmpty(params, "country", o.Country)
		setIfNotEmpty(params, "format", o.Format)
		setIfNotEmpty(params, "method", o.Method)
		timeout = o.Timeout
	}
	return params, timeout
}

// URL scrapes one or more URLs through the Web Unlocker. Results preserve the
// order of the input URLs; a failed URL yields a failed result in its slot.
func (s *ScrapeService) URL(ctx context.Context, urls []string, opts *WebOptions) ([]result.Result, error) {
	params, timeout := opts.params()
	params["url"] = urls
	return s.client.Execute(ctx, "scrape", "web", "url", params, dispatch.Options{Timeout: timeout})
}

// URLAsync is the non-blocking variant of URL.
func (s *ScrapeService) URLAsync(ctx context.Context, urls []string, opts *WebOptions) <-chan dispatch.Async {
	params, timeout := opts.params()
	params["url"] = urls
	return s.client.ExecuteAsync(ctx, "scrape", "web", "url", params, dispatch.Options{Timeout: timeout})
}

// DatasetOptions tune a trigger/poll scrape.
type DatasetOptions struct {
	// Timeout bounds the whole trigger/poll workflow.
	Timeout time.Duration
}

func (o *DatasetOptions) timeout() time.Duration {
	if o == nil {
		return 0
	}
	return o.Timeout
}

// AmazonScraper exposes Amazon dataset scrapes and keyword search.
type AmazonScraper struct {
	client *Client
}

// Products scrapes Amazon product pages via the products dataset.
func (a *AmazonScraper) Products(ctx context.Context, urls []string, opts *DatasetOptions) ([]result.Result, error) {
	return a.client.Execute(ctx, "scrape", "amazon", "products",
		map[string]any{"url": urls}, dispatch.Options{Timeout: opts.timeout()})
}

// Reviews scrapes Amazon review pages via the reviews dataset.
func (a *AmazonScraper) Reviews(ctx context.Context, urls []string, opts *DatasetOptions) ([]result.Result, error) {
	return a.client.Execute(ctx, "scrape", "amazon", "reviews",
		map[string]any{"url": urls}, dispatch.Options{Timeout: opts.timeout()})
}

// Search scrapes an Amazon search-results page for a keyword.
func (a *AmazonScraper) Search(ctx context.Context, keyword string, opts *WebOptions) (result.Result, error) {
	params, timeout := opts.params()
	delete(params, "format")
	delete(params, "method")
	params["keyword"] = keyword
	return first(a.client.Execute(ctx, "scrape", "amazon", "search", params, dispatch.Options{Timeout: timeout}))
}

// LinkedInScraper exposes the LinkedIn datasets.
type LinkedInScraper struct {
	client *Client
}

// Profile scrapes LinkedIn profile pages.
func (l *LinkedInScraper) Profile(ctx context.Context, urls []string, opts *DatasetOptions) ([]result.Result, error) {
	return l.client.Execute(ctx, "scrape", "linkedin", "profile",
		map[string]any{"url": urls}, dispatch.Options{Timeout: opts.timeout()})
}

// Company scrapes LinkedIn company pages.
func (l *LinkedInScraper) Company(ctx context.Context, urls []string, opts *DatasetOptions) ([]result.Result, error) {
	return l.client.Execute(ctx, "scrape", "linkedin", "company",
		map[string]any{"url": urls}, dispatch.Options{Timeout: opts.timeout()})
}

// Job scrapes LinkedIn job postings.
func (l *LinkedInScraper) Job(ctx context.Context, urls []string, opts *DatasetOptions) ([]result.Result, error) {
	return l.client.Execute(ctx, "scrape", "linkedin", "job",
		map[string]any{"url": urls}, dispatch.Options{Timeout: opts.timeout()})
}

// PromptOptions tune a ChatGPT prompt scrape.
type PromptOptions struct {
	Country   string
	WebSearch bool
	Timeout   time.Duration
}

// ChatGPTScraper submits prompts through the ChatGPT dataset.
type ChatGPTScraper struct {
	client *Client
}

// Prompt submits one or more prompts. Results preserve prompt order.
func (c *ChatGPTScraper) Prompt(ctx context.Context, prompts []string, opts *PromptOptions) ([]result.Result, error) {
	params := map[string]any{"prompt": prompts}
	var timeout time.Duration
	if opts != nil {
		setIfNotEmpty(params, "country", opts.Country)
		if opts.WebSearch {
			params["web_search"] = true
		}
		timeout = opts.Timeout
	}
	return c.client.Execute(ctx, "scrape", "chatgpt", "prompt", params, dispatch.Options{Timeout: timeout})
}

func setIfNotEmpty(params map[string]any, key, value string) {
	if value != "" {
		params[key] = value
	}
}

// first unwraps single-item dispatch results.
func first(results []result.Result, err error) (result.Result, error) {
	if err != nil {
		return result.Result{}, err
	}
	if len(results) == 0 {
		return result.Result{}, nil
	}
	return results[0], nil
}
