package search

import (
	"context"
	"time"
)

// Searcher is the read contract the pager needs from a backend.
type Searcher interface {
	Type() Engine
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) bool
	// Search runs one windowed query.
	Search(ctx context.Context, index string, body Query) (*SearchResponse, error)
	// OpenScroll runs the query and opens a cursor kept alive for ttl.
	OpenScroll(ctx context.Context, index string, body Query, ttl time.Duration, size int) (*SearchResponse, error)
	// Scroll advances a cursor. An empty page means it is exhausted.
	Scroll(ctx context.Context, scrollID string, ttl time.Duration) (*SearchResponse, error)
	// ClearScroll releases a cursor before it expires.
	ClearScroll(ctx context.Context, scrollID string) error
	Count(ctx context.Context, index string, body Query) (int64, error)
}

// Indexer is the index lifecycle and single-document write contract.
type Indexer interface {
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index string, body map[string]any) error
	IndexDocument(ctx context.Context, index, id string, doc map[string]any, refresh bool) (*WriteResult, error)
	DocumentExists(ctx context.Context, index, id string) (bool, error)
	UpdateDocument(ctx context.Context, index, id string, doc map[string]any, refresh bool) (*WriteResult, error)
	DeleteDocument(ctx context.Context, index, id string, refresh bool) (*WriteResult, error)
	DeleteByQuery(ctx context.Context, index string, body Query, refresh bool) (int64, error)
}

// Backend interface for search engine implementations
type Backend interface {
	Searcher
	Indexer
}
