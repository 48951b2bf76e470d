package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupKnownOperations(t *testing.T) {
	t.Parallel()

	spec, ok := Lookup("scrape", "web", "url")
	require.True(t, ok)
	require.Equal(t, EndpointUnlocker, spec.Endpoint)
	require.True(t, spec.SyncCapable)
	require.Equal(t, "url", spec.BatchParam)

	spec, ok = Lookup("scrape", "amazon", "products")
	require.True(t, ok)
	require.Equal(t, EndpointDataset, spec.Endpoint)
	require.False(t, spec.SyncCapable)
	require.NotEmpty(t, spec.DatasetID)

	_, ok = Lookup("scrape", "amazon", "wishlist")
	require.False(t, ok)
}

func TestKeyFormat(t *testing.T) {
	t.Parallel()

	spec, ok := Lookup("search", "google", "query")
	require.True(t, ok)
	require.Equal(t, "search.google.query", spec.Key())
}

func TestSpecTableIsConsistent(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, spec := range All() {
		key := spec.Key()
		require.False(t, seen[key], "duplicate catalog key %s", key)
		seen[key] = true

		require.NotEmpty(t, spec.Required, "%s declares no required parameters", key)
		require.Positive(t, spec.DefaultTimeout, "%s has no default timeout", key)

		switch spec.Endpoint {
		case EndpointDataset:
			require.NotEmpty(t, spec.DatasetID, "%s is a dataset operation without a dataset id", key)
			require.False(t, spec.SyncCapable, "%s cannot be sync capable on the dataset endpoint", key)
		case EndpointUnlocker, EndpointSERP:
			require.Empty(t, spec.DatasetID, "%s should not carry a dataset id", key)
			require.Empty(t, spec.DiscoverBy, "%s should not carry a discovery key", key)
		default:
			t.Fatalf("%s has unknown endpoint %q", key, spec.Endpoint)
		}

		if spec.BatchParam != "" {
			found := false
			for _, p := range spec.Required {
				if p.Name == spec.BatchParam {
					found = true
				}
			}
			require.True(t, found, "%s batch parameter %q is not a required parameter", key, spec.BatchParam)
		}
	}
}

func TestDiscoveryOperationsDeclareTheirDiscoveryParam(t *testing.T) {
	t.Parallel()

	for _, spec := range All() {
		if spec.DiscoverBy == "" {
			continue
		}
		names := map[string]bool{}
		for _, p := range spec.Required {
			names[p.Name] = true
		}
		for _, p := range spec.Optional {
			names[p.Name] = true
		}
		// Name-based discovery splits into first and last name parameters.
		if spec.DiscoverBy == "name" {
			require.True(t, names["first_name"], "%s discovers by name without first_name", spec.Key())
			continue
		}
		require.True(t, names[spec.DiscoverBy],
			"%s discovers by %q but never declares it", spec.Key(), spec.DiscoverBy)
	}
}

func TestAllReturnsACopy(t *testing.T) {
	t.Parallel()

	first := All()
	first[0].Operation = "mutated"
	second := All()
	require.NotEqual(t, "mutated", second[0].Operation)
}
