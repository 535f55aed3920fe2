package search

// Engine represents search engine type
type Engine string

const (
	Elasticsearch Engine = "elasticsearch"
	OpenSearch    Engine = "opensearch"
)

// Query is a structured query body understood by the backend.
// A Query may also wrap the real body under a "body" key.
type Query map[string]any

// Hit is one document returned by the backend with its metadata.
type Hit struct {
	Index  string         `json:"_index,omitempty"`
	ID     string         `json:"_id"`
	Score  float64        `json:"_score"`
	Source map[string]any `json:"_source"`
}

// IsZero reports whether the hit carries nothing worth returning.
func (h *Hit) IsZero() bool {
	return h == nil || (h.ID == "" && len(h.Source) == 0)
}

// SearchResponse is the backend shape of a search, scroll-open or scroll-advance call.
// Hits may contain nil entries for null slots.
type SearchResponse struct {
	Total    int64
	Hits     []*Hit
	ScrollID string
}

// Result represents the unified result of a query.
// Total is the backend match count at query time, independent of len(Data).
type Result struct {
	Data        []Hit `json:"data"`
	Total       int64 `json:"total"`
	Unavailable bool  `json:"unavailable,omitempty"`
}

// WriteResult is the backend acknowledgement of a single-document write.
type WriteResult struct {
	Result     string `json:"result"`
	Successful int    `json:"successful"`
}

// Routes reported to the Collector
const (
	RouteWindow = "window"
	RouteScroll = "scroll"
	RouteExport = "export"
)
