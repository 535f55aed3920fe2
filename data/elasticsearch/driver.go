// Package elasticsearch provides the Elasticsearch backend for searchkit.
//
// The backend uses go-elasticsearch/v8 (github.com/elastic/go-elasticsearch/v8)
// as the underlying client. It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/searchkit/data/elasticsearch"
//
// Example usage:
//
//	cfg := config.DefaultSearch()
//	cfg.Elasticsearch = &config.Elasticsearch{
//	    Addresses: []string{"http://localhost:9200"},
//	    Username:  "elastic",
//	    Password:  "password",
//	}
//
//	idx, err := search.New(ctx, cfg, search.IndexDefinition{IndexName: "articles"})
package elasticsearch

import (
	"fmt"

	"github.com/ncobase/searchkit/data/config"
	"github.com/ncobase/searchkit/data/elasticsearch/client"
	"github.com/ncobase/searchkit/data/search"
)

// NewBackend creates an Elasticsearch backend from the search configuration.
//
// The configuration must carry an Elasticsearch section with at least one
// address, for example:
//
//	[]string{"http://localhost:9200"}
//	[]string{"https://es1.example.com:9200", "https://es2.example.com:9200"}
func NewBackend(cfg *config.Search) (search.Backend, error) {
	if cfg == nil || cfg.Elasticsearch == nil {
		return nil, fmt.Errorf("elasticsearch: configuration is missing")
	}
	esCfg := cfg.Elasticsearch

	if len(esCfg.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch: addresses are empty")
	}

	c, err := client.NewClient(esCfg.Addresses, esCfg.Username, esCfg.Password)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	return NewAdapter(c), nil
}

// init registers the Elasticsearch backend with the search package.
// This function is called automatically when the package is imported.
func init() {
	search.RegisterBackendFactory(search.Elasticsearch, NewBackend)
}
