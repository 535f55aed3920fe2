package logger

import (
	"fmt"
	"sync"

	"github.com/ncobase/searchkit/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// HookType names a log sink that ships entries off the host.
type HookType string

// HookElasticsearch indexes log entries into the search cluster.
const HookElasticsearch HookType = "elasticsearch"

// HookFactory builds a hook from the logger config.
type HookFactory func(cfg *config.Config) (logrus.Hook, error)

var hooks sync.Map // HookType -> HookFactory

// RegisterHookFactory makes a hook available to Init. Sink packages call it
// from init so a blank import is enough to enable them.
func RegisterHookFactory(t HookType, f HookFactory) { hooks.Store(t, f) }

// GetHookFactory looks up a registered hook factory.
func GetHookFactory(t HookType) (HookFactory, bool) {
	f, ok := hooks.Load(t)
	if !ok {
		return nil, false
	}
	return f.(HookFactory), true
}

// initSearchHooks attaches the Elasticsearch sink when it is configured and
// its package was linked in.
func (l *Logger) initSearchHooks(cfg *config.Config) error {
	if cfg == nil || cfg.Elasticsearch == nil || len(cfg.Elasticsearch.Addresses) == 0 {
		return nil
	}
	factory, ok := GetHookFactory(HookElasticsearch)
	if !ok {
		return nil
	}
	hook, err := factory(cfg)
	if err != nil {
		return fmt.Errorf("failed to create %s hook: %w", HookElasticsearch, err)
	}
	l.AddHook(hook)
	return nil
}
