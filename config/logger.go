package config

import (
	lc "github.com/ncobase/searchkit/logging/logger/config"

	"github.com/spf13/viper"
)

// Logger logger config struct
type Logger = lc.Config

func getLoggerConfig(v *viper.Viper) *Logger {
	return lc.GetConfig(v)
}
