package config

import "github.com/spf13/viper"

// Metrics search metrics config
type Metrics struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace"`
	Path      string `yaml:"path" json:"path"`
}

// getMetricsConfig returns metrics config
func getMetricsConfig(v *viper.Viper) *Metrics {
	return &Metrics{
		Enabled:   getBoolOrDefault(v, "data.metrics.enabled", true),
		Namespace: getStringOrDefault(v, "data.metrics.namespace", "searchkit"),
		Path:      getStringOrDefault(v, "data.metrics.path", "/metrics"),
	}
}
