package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config configuration struct
type Config struct {
	Level         int            `json:"level" yaml:"level"`
	Format        string         `json:"format" yaml:"format"`
	Output        string         `json:"output" yaml:"output"`
	OutputFile    string         `json:"output_file" yaml:"output_file"`
	IndexName     string         `json:"index_name" yaml:"index_name"`
	Elasticsearch *Elasticsearch `json:"elasticsearch" yaml:"elasticsearch"`
}

// Elasticsearch log shipping target
type Elasticsearch struct {
	Addresses []string `json:"addresses" yaml:"addresses"`
	Username  string   `json:"username" yaml:"username"`
	Password  string   `json:"password" yaml:"password"`
}

// Default returns the configuration used when no logger section exists
func Default() *Config {
	return &Config{
		Level:  4,
		Format: "text",
		Output: "stderr",
	}
}

// GetConfig returns the logger configuration
func GetConfig(v *viper.Viper) *Config {
	if !v.IsSet("logger") {
		return Default()
	}

	indexName := strings.ToLower(v.GetString("app_name") + "-" + v.GetString("environment") + "-log")
	if v.IsSet("logger.index_name") && v.GetString("logger.index_name") != "" {
		indexName = v.GetString("logger.index_name")
	}

	level := 4
	if v.IsSet("logger.level") {
		level = v.GetInt("logger.level")
	}

	return &Config{
		Level:         level,
		Format:        v.GetString("logger.format"),
		Output:        v.GetString("logger.output"),
		OutputFile:    v.GetString("logger.output_file"),
		IndexName:     indexName,
		Elasticsearch: getElasticsearchConfigs(v),
	}
}

// BuildIndexName returns the daily index for entries logged at t
func (c *Config) BuildIndexName(t time.Time) string {
	name := c.IndexName
	if name == "" {
		name = "searchkit-log"
	}
	return fmt.Sprintf("%s-%s", name, t.UTC().Format("2006.01.02"))
}

// getElasticsearchConfigs reads Elasticsearch configurations
func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	if !v.IsSet("logger.elasticsearch") {
		return nil
	}
	return &Elasticsearch{
		Addresses: v.GetStringSlice("logger.elasticsearch.addresses"),
		Username:  v.GetString("logger.elasticsearch.username"),
		Password:  v.GetString("logger.elasticsearch.password"),
	}
}
