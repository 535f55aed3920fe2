package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Supported engines
const (
	EngineElasticsearch = "elasticsearch"
	EngineOpenSearch    = "opensearch"
)

// Defaults
const (
	DefaultWindowLimit = 10000
	DefaultScrollTTL   = time.Minute
	DefaultTimeout     = 10 * time.Second
	DefaultIDField     = "_id"
)

// Search represents search backend configuration
type Search struct {
	Engine        string         `yaml:"engine" json:"engine" validate:"required,oneof=elasticsearch opensearch"`
	IndexPrefix   string         `yaml:"index_prefix" json:"index_prefix"`
	WindowLimit   int            `yaml:"window_limit" json:"window_limit" validate:"gt=0"`
	ScrollTTL     time.Duration  `yaml:"scroll_ttl" json:"scroll_ttl" validate:"gt=0"`
	Timeout       time.Duration  `yaml:"timeout" json:"timeout" validate:"gt=0"`
	Refresh       bool           `yaml:"refresh" json:"refresh"`
	IDField       string         `yaml:"id_field" json:"id_field" validate:"required"`
	IndexSettings *IndexSettings `yaml:"index_settings" json:"index_settings" validate:"required"`
	Breaker       *Breaker       `yaml:"breaker" json:"breaker" validate:"required"`
	Elasticsearch *Elasticsearch `yaml:"elasticsearch" json:"elasticsearch" validate:"-"`
	OpenSearch    *OpenSearch    `yaml:"opensearch" json:"opensearch" validate:"-"`
}

// IndexSettings represents default index configuration
type IndexSettings struct {
	Shards          int    `yaml:"shards" json:"shards" validate:"gte=1"`
	Replicas        int    `yaml:"replicas" json:"replicas" validate:"gte=0"`
	RefreshInterval string `yaml:"refresh_interval" json:"refresh_interval"`
}

// Breaker represents the connectivity circuit breaker configuration
type Breaker struct {
	MaxFailures      uint32        `yaml:"max_failures" json:"max_failures" validate:"gte=1"`
	OpenTimeout      time.Duration `yaml:"open_timeout" json:"open_timeout" validate:"gt=0"`
	HalfOpenRequests uint32        `yaml:"half_open_requests" json:"half_open_requests"`
}

// Elasticsearch elasticsearch config struct
type Elasticsearch struct {
	Addresses []string `json:"addresses" yaml:"addresses" validate:"required,min=1,dive,required"`
	Username  string   `json:"username" yaml:"username"`
	Password  string   `json:"password" yaml:"password"`
}

// OpenSearch opensearch config struct
type OpenSearch struct {
	Addresses       []string `json:"addresses" yaml:"addresses" validate:"required,min=1,dive,required"`
	Username        string   `json:"username" yaml:"username"`
	Password        string   `json:"password" yaml:"password"`
	InsecureSkipTLS bool     `json:"insecure_skip_tls" yaml:"insecure_skip_tls"`
}

var validate = validator.New()

// Validate checks the configuration of the selected engine.
func (s *Search) Validate() error {
	if s == nil {
		return fmt.Errorf("search config is nil")
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid search config: %w", err)
	}

	var target any
	switch s.Engine {
	case EngineElasticsearch:
		if s.Elasticsearch == nil {
			return fmt.Errorf("invalid search config: elasticsearch section required")
		}
		target = s.Elasticsearch
	case EngineOpenSearch:
		if s.OpenSearch == nil {
			return fmt.Errorf("invalid search config: opensearch section required")
		}
		target = s.OpenSearch
	}
	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("invalid %s config: %w", s.Engine, err)
	}
	return nil
}

// BuildIndexName builds full index name with prefix
func (s *Search) BuildIndexName(index string) string {
	if s == nil || s.IndexPrefix == "" {
		return index
	}
	return fmt.Sprintf("%s-%s", s.IndexPrefix, index)
}

// DefaultSearch returns a configuration with every default applied
func DefaultSearch() *Search {
	return &Search{
		Engine:        EngineElasticsearch,
		WindowLimit:   DefaultWindowLimit,
		ScrollTTL:     DefaultScrollTTL,
		Timeout:       DefaultTimeout,
		Refresh:       true,
		IDField:       DefaultIDField,
		IndexSettings: getDefaultIndexSettings(),
		Breaker:       &Breaker{MaxFailures: 5, OpenTimeout: 30 * time.Second, HalfOpenRequests: 1},
	}
}

// GetSearchConfig reads search configurations
func GetSearchConfig(v *viper.Viper) *Search {
	return &Search{
		Engine:        getStringOrDefault(v, "data.search.engine", EngineElasticsearch),
		IndexPrefix:   getSearchIndexPrefix(v),
		WindowLimit:   getIntOrDefault(v, "data.search.window_limit", DefaultWindowLimit),
		ScrollTTL:     getDurationOrDefault(v, "data.search.scroll_ttl", DefaultScrollTTL),
		Timeout:       getDurationOrDefault(v, "data.search.timeout", DefaultTimeout),
		Refresh:       getBoolOrDefault(v, "data.search.refresh", true),
		IDField:       getStringOrDefault(v, "data.search.id_field", DefaultIDField),
		IndexSettings: getSearchIndexSettings(v),
		Breaker: &Breaker{
			MaxFailures:      uint32(getIntOrDefault(v, "data.search.breaker.max_failures", 5)),
			OpenTimeout:      getDurationOrDefault(v, "data.search.breaker.open_timeout", 30*time.Second),
			HalfOpenRequests: uint32(getIntOrDefault(v, "data.search.breaker.half_open_requests", 1)),
		},
		Elasticsearch: getElasticsearchConfigs(v),
		OpenSearch:    getOpenSearchConfigs(v),
	}
}

// getSearchIndexPrefix gets search index prefix
func getSearchIndexPrefix(v *viper.Viper) string {
	if v.IsSet("data.search.index_prefix") {
		return v.GetString("data.search.index_prefix")
	}
	return getDefaultIndexPrefix(v)
}

// getDefaultIndexPrefix builds default index prefix from app info
func getDefaultIndexPrefix(v *viper.Viper) string {
	appName := v.GetString("app_name")
	environment := v.GetString("environment")

	if appName != "" && environment != "" {
		return strings.ToLower(fmt.Sprintf("%s-%s", appName, environment))
	}

	if appName != "" {
		return strings.ToLower(appName)
	}

	return ""
}

// getSearchIndexSettings gets search index settings
func getSearchIndexSettings(v *viper.Viper) *IndexSettings {
	if !v.IsSet("data.search.index_settings") {
		return getDefaultIndexSettings()
	}

	return &IndexSettings{
		Shards:          getIntOrDefault(v, "data.search.index_settings.shards", 1),
		Replicas:        getIntOrDefault(v, "data.search.index_settings.replicas", 0),
		RefreshInterval: getStringOrDefault(v, "data.search.index_settings.refresh_interval", "1s"),
	}
}

// getDefaultIndexSettings returns default index settings
func getDefaultIndexSettings() *IndexSettings {
	return &IndexSettings{
		Shards:          1,
		Replicas:        0,
		RefreshInterval: "1s",
	}
}

// getElasticsearchConfigs reads Elasticsearch configurations
func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	// Prefer `data.search.elasticsearch.*` but keep backward compatibility with `data.elasticsearch.*`.
	addresses := v.GetStringSlice("data.search.elasticsearch.addresses")
	if len(addresses) == 0 {
		addresses = v.GetStringSlice("data.elasticsearch.addresses")
	}

	username := v.GetString("data.search.elasticsearch.username")
	if username == "" {
		username = v.GetString("data.elasticsearch.username")
	}

	password := v.GetString("data.search.elasticsearch.password")
	if password == "" {
		password = v.GetString("data.elasticsearch.password")
	}

	return &Elasticsearch{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	}
}

// getOpenSearchConfigs reads OpenSearch configurations
func getOpenSearchConfigs(v *viper.Viper) *OpenSearch {
	addresses := v.GetStringSlice("data.search.opensearch.addresses")
	if len(addresses) == 0 {
		addresses = v.GetStringSlice("data.opensearch.addresses")
	}

	username := v.GetString("data.search.opensearch.username")
	if username == "" {
		username = v.GetString("data.opensearch.username")
	}

	password := v.GetString("data.search.opensearch.password")
	if password == "" {
		password = v.GetString("data.opensearch.password")
	}

	insecureSkipTLS := v.GetBool("data.search.opensearch.insecure_skip_tls")
	if !v.IsSet("data.search.opensearch.insecure_skip_tls") {
		insecureSkipTLS = v.GetBool("data.opensearch.insecure_skip_tls")
	}

	return &OpenSearch{
		Addresses:       addresses,
		Username:        username,
		Password:        password,
		InsecureSkipTLS: insecureSkipTLS,
	}
}
