package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector interface for search layer metrics
type Collector interface {
	SearchQuery(engine string, err error)
	SearchIndex(engine, operation string)
	SearchRoute(engine, route string)
	HealthCheck(component string, healthy bool)
}

// NoOpCollector implements Collector with no-op methods
type NoOpCollector struct{}

func (NoOpCollector) SearchQuery(string, error)  {}
func (NoOpCollector) SearchIndex(string, string) {}
func (NoOpCollector) SearchRoute(string, string) {}
func (NoOpCollector) HealthCheck(string, bool)   {}

// SearchCollector collects search layer metrics in memory
type SearchCollector struct {
	queries  atomic.Int64
	errors   atomic.Int64
	indexOps atomic.Int64

	routes   map[string]*atomic.Int64
	routesMu sync.RWMutex

	healthChecks map[string]*atomic.Bool
	healthMu     sync.RWMutex

	lastQuery atomic.Value // time.Time
}

// NewSearchCollector creates a new search collector
func NewSearchCollector() *SearchCollector {
	c := &SearchCollector{
		routes:       make(map[string]*atomic.Int64),
		healthChecks: make(map[string]*atomic.Bool),
	}
	c.lastQuery.Store(time.Time{})
	return c
}

// SearchQuery records one backend round trip
func (c *SearchCollector) SearchQuery(_ string, err error) {
	c.queries.Add(1)
	c.lastQuery.Store(time.Now())

	if err != nil {
		c.errors.Add(1)
	}
}

// SearchIndex records search index operation metrics
func (c *SearchCollector) SearchIndex(string, string) {
	c.indexOps.Add(1)
}

// SearchRoute records which pagination path served a read
func (c *SearchCollector) SearchRoute(_ string, route string) {
	c.routesMu.RLock()
	counter, ok := c.routes[route]
	c.routesMu.RUnlock()

	if !ok {
		c.routesMu.Lock()
		if counter, ok = c.routes[route]; !ok {
			counter = &atomic.Int64{}
			c.routes[route] = counter
		}
		c.routesMu.Unlock()
	}
	counter.Add(1)
}

// HealthCheck records health check metrics
func (c *SearchCollector) HealthCheck(component string, healthy bool) {
	c.healthMu.Lock()
	if _, exists := c.healthChecks[component]; !exists {
		c.healthChecks[component] = &atomic.Bool{}
	}
	healthCheck := c.healthChecks[component]
	c.healthMu.Unlock()

	healthCheck.Store(healthy)
}

// Snapshot is a point-in-time copy of the collected metrics
type Snapshot struct {
	Queries   int64            `json:"queries"`
	Errors    int64            `json:"errors"`
	IndexOps  int64            `json:"index_ops"`
	Routes    map[string]int64 `json:"routes"`
	Health    map[string]bool  `json:"health"`
	LastQuery time.Time        `json:"last_query"`
}

// Snapshot returns current statistics
func (c *SearchCollector) Snapshot() Snapshot {
	s := Snapshot{
		Queries:  c.queries.Load(),
		Errors:   c.errors.Load(),
		IndexOps: c.indexOps.Load(),
		Routes:   make(map[string]int64),
		Health:   make(map[string]bool),
	}
	if t, ok := c.lastQuery.Load().(time.Time); ok {
		s.LastQuery = t
	}

	c.routesMu.RLock()
	for route, n := range c.routes {
		s.Routes[route] = n.Load()
	}
	c.routesMu.RUnlock()

	c.healthMu.RLock()
	for component, status := range c.healthChecks {
		s.Health[component] = status.Load()
	}
	c.healthMu.RUnlock()

	return s
}

// Multi fans every observation out to several collectors.
type Multi []Collector

func (m Multi) SearchQuery(engine string, err error) {
	for _, c := range m {
		c.SearchQuery(engine, err)
	}
}

func (m Multi) SearchIndex(engine, operation string) {
	for _, c := range m {
		c.SearchIndex(engine, operation)
	}
}

func (m Multi) SearchRoute(engine, route string) {
	for _, c := range m {
		c.SearchRoute(engine, route)
	}
}

func (m Multi) HealthCheck(component string, healthy bool) {
	for _, c := range m {
		c.HealthCheck(component, healthy)
	}
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
