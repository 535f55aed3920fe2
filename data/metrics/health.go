package metrics

import (
	"context"
	"sync"
	"time"
)

// DefaultCheckTimeout bounds a single health probe
const DefaultCheckTimeout = 3 * time.Second

// HealthChecker interface for health checking
type HealthChecker interface {
	Name() string
	Healthy(ctx context.Context) bool
}

// CheckerFunc adapts a probe function to HealthChecker.
type CheckerFunc struct {
	ComponentName string
	Probe         func(ctx context.Context) bool
}

func (f CheckerFunc) Name() string                     { return f.ComponentName }
func (f CheckerFunc) Healthy(ctx context.Context) bool { return f.Probe(ctx) }

// HealthMonitor probes search components and reports results to a collector
type HealthMonitor struct {
	collector  Collector
	timeout    time.Duration
	mu         sync.RWMutex
	components map[string]HealthChecker
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor(collector Collector) *HealthMonitor {
	if collector == nil {
		collector = NoOpCollector{}
	}
	return &HealthMonitor{
		collector:  collector,
		timeout:    DefaultCheckTimeout,
		components: make(map[string]HealthChecker),
	}
}

// RegisterComponent registers a component for health monitoring
func (h *HealthMonitor) RegisterComponent(checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[checker.Name()] = checker
}

// CheckAll performs health check on all registered components
func (h *HealthMonitor) CheckAll(ctx context.Context) map[string]bool {
	h.mu.RLock()
	checkers := make([]HealthChecker, 0, len(h.components))
	for _, c := range h.components {
		checkers = append(checkers, c)
	}
	h.mu.RUnlock()

	results := make(map[string]bool, len(checkers))
	for _, checker := range checkers {
		results[checker.Name()] = h.check(ctx, checker)
	}
	return results
}

// Healthy reports whether every registered component is healthy.
func (h *HealthMonitor) Healthy(ctx context.Context) (bool, map[string]bool) {
	results := h.CheckAll(ctx)
	for _, ok := range results {
		if !ok {
			return false, results
		}
	}
	return true, results
}

func (h *HealthMonitor) check(ctx context.Context, checker HealthChecker) bool {
	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	healthy := checker.Healthy(checkCtx)
	h.collector.HealthCheck(checker.Name(), healthy)
	return healthy
}
