package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config data config struct
type Config struct {
	Search  *Search  `yaml:"search" json:"search"`
	Metrics *Metrics `yaml:"metrics" json:"metrics"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Search:  GetSearchConfig(v),
		Metrics: getMetricsConfig(v),
	}
}

// getStringOrDefault returns string value or default
func getStringOrDefault(v *viper.Viper, key, defaultValue string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return defaultValue
}

// getIntOrDefault returns int value or default
func getIntOrDefault(v *viper.Viper, key string, defaultValue int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return defaultValue
}

// getBoolOrDefault returns bool value or default
func getBoolOrDefault(v *viper.Viper, key string, defaultValue bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return defaultValue
}

// getDurationOrDefault returns duration value or default
func getDurationOrDefault(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	if v.IsSet(key) {
		return v.GetDuration(key)
	}
	return defaultValue
}
