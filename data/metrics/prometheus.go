package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector exports search metrics as Prometheus counters.
type PrometheusCollector struct {
	queries  *prometheus.CounterVec
	indexOps *prometheus.CounterVec
	routes   *prometheus.CounterVec
	health   *prometheus.GaugeVec
}

// NewPrometheusCollector creates the counters and registers them on reg.
func NewPrometheusCollector(namespace string, reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Backend search round trips by engine and outcome.",
		}, []string{"engine", "success"}),
		indexOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "index_operations_total",
			Help:      "Index lifecycle and document write operations.",
		}, []string{"engine", "operation"}),
		routes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "routes_total",
			Help:      "Reads served per pagination path.",
		}, []string{"engine", "route"}),
		health: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "healthy",
			Help:      "1 when the component answered its last health check.",
		}, []string{"component"}),
	}

	for _, col := range []prometheus.Collector{c.queries, c.indexOps, c.routes, c.health} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *PrometheusCollector) SearchQuery(engine string, err error) {
	c.queries.WithLabelValues(engine, boolToString(err == nil)).Inc()
}

func (c *PrometheusCollector) SearchIndex(engine, operation string) {
	c.indexOps.WithLabelValues(engine, operation).Inc()
}

func (c *PrometheusCollector) SearchRoute(engine, route string) {
	c.routes.WithLabelValues(engine, route).Inc()
}

func (c *PrometheusCollector) HealthCheck(component string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1
	}
	c.health.WithLabelValues(component).Set(v)
}
