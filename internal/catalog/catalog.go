// Package catalog holds the static table of operations the SDK can dispatch.
// Each entry encodes the subset of the upstream HTTP contract one operation
// needs: endpoint family, parameter declarations, and execution mode support.
package catalog

import "time"

// Endpoint identifies which upstream API family serves an operation.
type Endpoint string

// Upstream endpoint families.
const (
	// EndpointUnlocker is the Web Unlocker API: one synchronous POST /request.
	EndpointUnlocker Endpoint = "unlocker"
	// EndpointSERP is the SERP API: synchronous POST /request against a SERP zone.
	EndpointSERP Endpoint = "serp"
	// EndpointDataset is the Datasets v3 API: trigger, then poll a snapshot.
	EndpointDataset Endpoint = "dataset"
)

// ParamKind constrains the value accepted for a declared parameter.
type ParamKind string

// Parameter kinds understood by the dispatcher's validator.
const (
	KindString ParamKind = "string"
	KindInt    ParamKind = "int"
	KindBool   ParamKind = "bool"
	KindURL    ParamKind = "url"
)

// Param declares one named operation parameter.
type Param struct {
	Name    string
	Kind    ParamKind
	Default any
}

// Spec is the immutable descriptor of one callable operation. Specs are defined
// below at package level and never mutated; Lookup returns copies.
type Spec struct {
	Namespace string
	Platform  string
	Operation string

	Endpoint   Endpoint
	DatasetID  string
	DiscoverBy string // non-empty for dataset discovery operations

	Required []Param
	Optional []Param

	// BatchParam names the primary parameter that accepts a list of values.
	// List values fan out to one request per item.
	BatchParam string

	SyncCapable    bool
	DefaultTimeout time.Duration
}

// Key returns the canonical dotted identifier, e.g. "scrape.amazon.products".
func (s Spec) Key() string {
	return s.Namespace + "." + s.Platform + "." + s.Operation
}

const (
	syncTimeout    = 30 * time.Second
	datasetTimeout = 180 * time.Second
)

// Dataset identifiers assigned by the provider.
const (
	datasetAmazonProducts  = "gd_l7q7dkf244hwxbl93"
	datasetAmazonReviews   = "gd_le8e811kzy4ggddlq"
	datasetLinkedInProfile = "gd_l1viktl72bvl7bjuj0"
	datasetLinkedInCompany = "gd_l1vikfnt1wgvvqz95w"
	datasetLinkedInJob     = "gd_lpfll7v5hcqtkxl6l"
	datasetLinkedInPosts   = "gd_lyy3tktm25m4avu764"
	datasetChatGPT         = "gd_m7aof0k82r803d5bjm"
)

var specs = []Spec{
	{
		Namespace: "scrape", Platform: "web", Operation: "url",
		Endpoint: EndpointUnlocker,
		Required: []Param{{Name: "url", Kind: KindURL}},
		Optional: []Param{
			{Name: "zone", Kind: KindString},
			{Name: "country", Kind: KindString, Default: ""},
			{Name: "format", Kind: KindString, Default: "raw"},
			{Name: "method", Kind: KindString, Default: "GET"},
		},
		BatchParam: "url", SyncCapable: true, DefaultTimeout: syncTimeout,
	},
	{
		Namespace: "scrape", Platform: "amazon", Operation: "products",
		Endpoint: EndpointDataset, DatasetID: datasetAmazonProducts,
		Required:   []Param{{Name: "url", Kind: KindURL}},
		BatchParam: "url", DefaultTimeout: datasetTimeout,
	},
	{
		Namespace: "scrape", Platform: "amazon", Operation: "reviews",
		Endpoint: EndpointDataset, DatasetID: datasetAmazonReviews,
		Required:   []Param{{Name: "url", Kind: KindURL}},
		BatchParam: "url", DefaultTimeout: datasetTimeout,
	},
	{
		Namespace: "scrape", Platform: "amazon", Operation: "search",
		Endpoint: EndpointUnlocker,
		Required: []Param{{Name: "keyword", Kind: KindString}},
		Optional: []Param{
			{Name: "zone", Kind: KindString},
			{Name: "country", Kind: KindString, Default: ""},
		},
		SyncCapable: true, DefaultTimeout: syncTimeout,
	},
	{
		Namespace: "scrape", Platform: "linkedin", Operation: "profile",
		Endpoint: EndpointDataset, DatasetID: datasetLinkedInProfile,
		Required:   []Param{{Name: "url", Kind: KindURL}},
		BatchParam: "url", DefaultTimeout: datasetTimeout,
	},
	{
		Namespace: "scrape", Platform: "linkedin", Operation: "company",
		Endpoint: EndpointDataset, DatasetID: datasetLinkedInCompany,
		Required:   []Param{{Name: "url", Kind: KindURL}},
		BatchParam: "url", DefaultTimeout: datasetTimeout,
	},
	{
		Namespace: "scrape", Platform: "linkedin", Operation: "job",
		Endpoint: EndpointDataset, DatasetID: datasetLinkedInJob,
		Required:   []Param{{Name: "url", Kind: KindURL}},
		BatchParam: "url", DefaultTimeout: datasetTimeout,
	},
	{
		Namespace: "scrape", Platform: "chatgpt", Operation: "prompt",
		Endpoint: EndpointDataset, DatasetID: datasetChatGPT,
		Required: []Param{{Name: "prompt", Kind: KindString}},
		Optional: []Param{
			{Name: "country", Kind: KindString, Default: ""},
			{Name: "web_search", Kind: KindBool, Default: false},
		},
		BatchParam: "prompt", DefaultTimeout: datasetTimeout,
	},

	{
		Namespace: "search", Platform: "google", Operation: "query",
		Endpoint: EndpointSERP,
		Required: []Param{{Name: "query", Kind: KindString}},
		Optional: []Param{
			{Name: "zone", Kind: KindString},
			{Name: "country", Kind: KindString, Default: "us"},
			{Name: "language", Kind: KindString, Default: "en"},
			{Name: "num_results", Kind: KindInt, Default: 10},
			{Name: "device", Kind: KindString, Default: "desktop"},
		},
		BatchParam: "query", SyncCapable: true, DefaultTimeout: syncTimeout,
	},
	{
		Namespace: "search", Platform: "bing", Operation: "query",
		Endpoint: EndpointSERP,
		Required: []Param{{Name: "query", Kind: KindString}},
		Optional: []Param{
			{Name: "zone", Kind: KindString},
			{Name: "country", Kind: KindString, Default: "us"},
			{Name: "language", Kind: KindString, Default: "en"},
			{Name: "num_results", Kind: KindInt, Default: 10},
		},
		BatchParam: "query", SyncCapable: true, DefaultTimeout: syncTimeout,
	},
	{
		Namespace: "search", Platform: "yandex", Operation: "query",
		Endpoint: EndpointSERP,
		Required: []Param{{Name: "query", Kind: KindString}},
		Optional: []Param{
			{Name: "zone", Kind: KindString},
			{Name: "country", Kind: KindString, Default: "ru"},
			{Name: "language", Kind: KindString, Default: "ru"},
			{Name: "num_results", Kind: KindInt, Default: 10},
		},
		BatchParam: "query", SyncCapable: true, DefaultTimeout: syncTimeout,
	},
	{
		Namespace: "search", Platform: "linkedin", Operation: "jobs",
		Endpoint: EndpointDataset, DatasetID: datasetLinkedInJob, DiscoverBy: "keyword",
		Required: []Param{{Name: "keyword", Kind: KindString}},
		Optional: []Param{
			{Name: "location", Kind: KindString, Default: ""},
			{Name: "remote", Kind: KindBool, Default: false},
		},
		DefaultTimeout: datasetTimeout,
	},
	{
		Namespace: "search", Platform: "linkedin", Operation: "profiles",
		Endpoint: EndpointDataset, DatasetID: datasetLinkedInProfile, DiscoverBy: "name",
		Required: []Param{{Name: "first_name", Kind: KindString}},
		Optional: []Param{
			{Name: "last_name", Kind: KindString, Default: ""},
		},
		DefaultTimeout: datasetTimeout,
	},
	{
		Namespace: "search", Platform: "linkedin", Operation: "posts",
		Endpoint: EndpointDataset, DatasetID: datasetLinkedInPosts, DiscoverBy: "profile_url",
		Required: []Param{{Name: "profile_url", Kind: KindURL}},
		Optional: []Param{
			{Name: "start_date", Kind: KindString, Default: ""},
			{Name: "end_date", Kind: KindString, Default: ""},
		},
		DefaultTimeout: datasetTimeout,
	},
}

var byKey = func() map[string]Spec {
	m := make(map[string]Spec, len(specs))
	for _, s := range specs {
		m[s.Key()] = s
	}
	return m
}()

// Lookup returns the spec for a (namespace, platform, operation) tuple.
func Lookup(namespace, platform, operation string) (Spec, bool) {
	s, ok := byKey[namespace+"."+platform+"."+operation]
	return s, ok
}

// All returns every registered spec, for CLI help and tests.
func All() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}
