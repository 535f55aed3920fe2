package config

import "github.com/google/wire"

// ProviderSet hands the loaded Config and its sections to wire injectors.
// Init must run before an injector that uses it.
var ProviderSet = wire.NewSet(
	GetConfig,
	ProvideLoggerConfig,
	ProvideDataConfig,
	ProvideSearchConfig,
)

// ProvideLoggerConfig returns the logger section, nil without a config.
func ProvideLoggerConfig(cfg *Config) *Logger {
	if cfg == nil {
		return nil
	}
	return cfg.Logger
}

// ProvideDataConfig returns the data section.
func ProvideDataConfig(cfg *Config) *Data {
	if cfg == nil {
		return nil
	}
	return cfg.Data
}

// ProvideSearchConfig returns the search backend section, nil when the data
// section is absent.
func ProvideSearchConfig(cfg *Config) *Search {
	if cfg == nil || cfg.Data == nil {
		return nil
	}
	return cfg.Data.Search
}
