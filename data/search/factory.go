package search

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/searchkit/data/config"
)

// BackendFactory creates a backend from the search config
type BackendFactory func(cfg *config.Search) (Backend, error)

var (
	factoriesMu sync.RWMutex
	// Registry of backend factories by engine type
	backendFactories = make(map[Engine]BackendFactory)
)

// RegisterBackendFactory registers a factory for creating search backends.
// Driver packages call this from their init() functions.
func RegisterBackendFactory(engine Engine, factory BackendFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	backendFactories[engine] = factory
}

// GetBackendFactory returns the factory for a given engine
func GetBackendFactory(engine Engine) (BackendFactory, error) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	factory, ok := backendFactories[engine]
	if !ok {
		return nil, fmt.Errorf("%w: no factory registered for engine %q", ErrBackendNotFound, engine)
	}
	return factory, nil
}

// GetRegisteredEngines returns list of engines with registered factories
func GetRegisteredEngines() []Engine {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	engines := make([]Engine, 0, len(backendFactories))
	for engine := range backendFactories {
		engines = append(engines, engine)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i] < engines[j] })
	return engines
}

// NewBackend creates the backend selected by cfg.Engine
func NewBackend(cfg *config.Search) (Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("search config is nil")
	}
	factory, err := GetBackendFactory(Engine(cfg.Engine))
	if err != nil {
		return nil, err
	}
	return factory(cfg)
}
