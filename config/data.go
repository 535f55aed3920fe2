package config

import (
	dc "github.com/ncobase/searchkit/data/config"

	"github.com/spf13/viper"
)

// Data represents the data configuration
type Data = dc.Config

// Search represents the search backend configuration
type Search = dc.Search

// getDataConfig returns data config
func getDataConfig(v *viper.Viper) *Data {
	return dc.GetConfig(v)
}
