package logger

import (
	"fmt"

	"github.com/google/wire"
	"github.com/ncobase/searchkit/logging/logger/config"
	"github.com/ncobase/searchkit/version"
)

// ProviderSet is the wire provider set for the logger package
var ProviderSet = wire.NewSet(ProvideLogger)

// ProvideLogger initializes the standard logger and stamps the build version
// on every entry it writes.
func ProvideLogger(cfg *config.Config) (*Logger, func(), error) {
	cleanup, err := New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	l := StdLogger()
	l.SetVersion(version.GetVersionInfo().Version)
	return l, cleanup, nil
}
