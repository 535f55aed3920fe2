//go:build wireinject

package commands

import (
	"github.com/google/wire"
	"github.com/ncobase/searchkit/config"
	"github.com/ncobase/searchkit/data/search"
	"github.com/ncobase/searchkit/logging/logger"
)

// initRuntime builds the loaded config, the logger and the search backend.
// config.Init must have run first.
func initRuntime() (*runtime, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		logger.ProviderSet,
		search.ProviderSet,
		newRuntime,
	))
}
