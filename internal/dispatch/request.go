package dispatch

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/JakeFAU/brightdata-go/internal/catalog"
)

// targetURL resolves the URL the unlocker or SERP zone should fetch for one
// validated item. Dataset specs never call this.
func targetURL(spec catalog.Spec, item map[string]any) (string, error) {
	switch {
	case spec.Endpoint == catalog.EndpointSERP:
		return serpURL(spec.Platform, item)
	case spec.Platform == "amazon" && spec.Operation == "search":
		q := url.Values{}
		q.Set("k", stringParam(item, "keyword"))
		return "https://www.amazon.com/s?" + q.Encode(), nil
	default:
		target := stringParam(item, "url")
		if target == "" {
			return "", fmt.Errorf("operation %s has no target url", spec.Key())
		}
		return target, nil
	}
}

// serpURL builds the engine query URL. brd_json=1 asks the SERP zone for
// parsed JSON instead of the result page HTML.
func serpURL(engine string, item map[string]any) (string, error) {
	query := stringParam(item, "query")
	num := intParam(item, "num_results", 10)
	country := stringParam(item, "country")
	language := stringParam(item, "language")

	q := url.Values{}
	q.Set("brd_json", "1")

	switch engine {
	case "google":
		q.Set("q", query)
		if country != "" {
			q.Set("gl", country)
		}
		if language != "" {
			q.Set("hl", language)
		}
		q.Set("num", strconv.Itoa(num))
		if stringParam(item, "device") == "mobile" {
			q.Set("brd_mobile", "1")
		}
		return "https://www.google.com/search?" + q.Encode(), nil
	case "bing":
		q.Set("q", query)
		if country != "" {
			q.Set("cc", country)
		}
		if language != "" {
			q.Set("setlang", language)
		}
		q.Set("count", strconv.Itoa(num))
		return "https://www.bing.com/search?" + q.Encode(), nil
	case "yandex":
		q.Set("text", query)
		q.Set("numdoc", strconv.Itoa(num))
		return "https://yandex.com/search/?" + q.Encode(), nil
	default:
		return "", fmt.Errorf("unknown search engine %q", engine)
	}
}

// datasetPayload builds the single-item trigger payload. The provider expects
// parameter names as declared in the catalog, except discovery-by-profile
// operations where the profile URL travels as "url".
func datasetPayload(spec catalog.Spec, item map[string]any) map[string]any {
	payload := make(map[string]any, len(item))
	for k, v := range item {
		if k == "zone" {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		payload[k] = v
	}
	if spec.DiscoverBy == "profile_url" {
		if v, ok := payload["profile_url"]; ok {
			delete(payload, "profile_url")
			payload["url"] = v
		}
	}
	return payload
}
