package commands

import (
	"github.com/ncobase/searchkit/config"
	"github.com/ncobase/searchkit/data/search"
	"github.com/ncobase/searchkit/logging/logger"
)

// runtime is what every config-backed subcommand runs against.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	backend search.Backend
}

func newRuntime(cfg *config.Config, log *logger.Logger, backend search.Backend) *runtime {
	return &runtime{cfg: cfg, log: log, backend: backend}
}
