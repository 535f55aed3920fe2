package config

import (
	"time"

	"github.com/spf13/viper"
)

// Fallbacks for app_name and environment. They are not registered as viper
// defaults because the index prefix is derived from the configured values.
const (
	defaultAppName     = "searchkit"
	defaultEnvironment = "debug"
)

// setDefaults registers the server and tracer defaults. The data and logger
// sections apply their own defaults when read.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)

	v.SetDefault("observes.tracer.sampling_rate", 1.0)
	v.SetDefault("observes.tracer.max_export_batch_size", 512)
	v.SetDefault("observes.tracer.batch_timeout", 5*time.Second)
	v.SetDefault("observes.tracer.export_timeout", 30*time.Second)
}

func stringOr(v *viper.Viper, key, fallback string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	return fallback
}
