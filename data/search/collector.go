package search

// Collector interface for metrics
type Collector interface {
	SearchQuery(engine string, err error)
	SearchIndex(engine, operation string)
	SearchRoute(engine, route string)
}

// NoOpCollector implementation
type NoOpCollector struct{}

func (NoOpCollector) SearchQuery(string, error)  {}
func (NoOpCollector) SearchIndex(string, string) {}
func (NoOpCollector) SearchRoute(string, string) {}
