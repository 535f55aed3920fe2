// Package opensearch provides the OpenSearch backend for searchkit.
//
// This backend uses opensearch-go (github.com/opensearch-project/opensearch-go/v4)
// as the underlying client. It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/searchkit/data/opensearch"
//
// OpenSearch keeps the Elasticsearch search, scroll and count APIs, so the
// pagination paths behave the same on both engines.
package opensearch

import (
	"fmt"

	"github.com/ncobase/searchkit/data/config"
	"github.com/ncobase/searchkit/data/opensearch/client"
	"github.com/ncobase/searchkit/data/search"
)

// NewBackend creates an OpenSearch backend from the search configuration.
//
// Example addresses:
//
//	[]string{"https://localhost:9200"}
//	[]string{"https://search-domain.us-east-1.es.amazonaws.com"}
func NewBackend(cfg *config.Search) (search.Backend, error) {
	if cfg == nil || cfg.OpenSearch == nil {
		return nil, fmt.Errorf("opensearch: configuration is missing")
	}
	osCfg := cfg.OpenSearch

	if len(osCfg.Addresses) == 0 {
		return nil, fmt.Errorf("opensearch: addresses are empty")
	}

	c, err := client.NewClient(osCfg.Addresses, osCfg.Username, osCfg.Password, osCfg.InsecureSkipTLS)
	if err != nil {
		return nil, fmt.Errorf("opensearch: failed to create client: %w", err)
	}

	return NewAdapter(c), nil
}

func init() {
	search.RegisterBackendFactory(search.OpenSearch, NewBackend)
}
