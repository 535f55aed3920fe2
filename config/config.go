package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SEARCHKIT_SERVER_PORT.
const EnvPrefix = "SEARCHKIT"

var (
	config *Config
	path   string
	mu     sync.RWMutex
	v      *viper.Viper
)

// Config represents the application configuration.
type Config struct {
	AppName     string
	Environment string
	Host        string
	Port        int
	Logger      *Logger
	Data        *Data
	Observes    *Observes
	Viper       *viper.Viper
}

// Init loads the configuration from configPath and sets it globally.
// An empty path searches the default locations.
func Init(configPath string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	mu.Lock()
	config, path, v = cfg, configPath, cfg.Viper
	mu.Unlock()
	return cfg, nil
}

// GetConfig returns the configuration loaded by Init, loading the default
// locations on first use.
func GetConfig() (*Config, error) {
	mu.RLock()
	cfg := config
	mu.RUnlock()
	if cfg != nil {
		return cfg, nil
	}
	return Init("")
}

// LoadConfig loads the configuration from the file. Without an explicit
// path a missing file is not an error: defaults and environment apply.
func LoadConfig(configPath string) (*Config, error) {
	vp := viper.New()
	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()
	setDefaults(vp)

	if configPath != "" {
		vp.SetConfigFile(configPath)
	} else {
		ex, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		vp.SetConfigName("config")
		vp.AddConfigPath("/etc/searchkit")
		vp.AddConfigPath("$HOME/.searchkit")
		vp.AddConfigPath(".")
		vp.AddConfigPath(filepath.Dir(ex))
	}

	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		AppName:     stringOr(vp, "app_name", defaultAppName),
		Environment: stringOr(vp, "environment", defaultEnvironment),
		Host:        vp.GetString("server.host"),
		Port:        vp.GetInt("server.port"),
		Logger:      getLoggerConfig(vp),
		Data:        getDataConfig(vp),
		Observes:    getObservesConfig(vp),
		Viper:       vp,
	}, nil
}

// Validate checks the sections the search layer depends on.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Port)
	}
	if c.Data == nil || c.Data.Search == nil {
		return errors.New("data.search section is required")
	}
	return c.Data.Search.Validate()
}

// Address returns the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Reload reloads the configuration from the file.
func Reload() error {
	mu.RLock()
	p := path
	mu.RUnlock()

	cfg, err := LoadConfig(p)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	mu.Lock()
	config = cfg
	mu.Unlock()
	return nil
}

// Watch watches the configuration file and reloads it when it changes.
func Watch(callback func(*Config)) {
	mu.RLock()
	vp := v
	mu.RUnlock()
	if vp == nil || vp.ConfigFileUsed() == "" {
		return
	}

	vp.OnConfigChange(func(e fsnotify.Event) {
		if err := Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reloading config %s: %v\n", e.Name, err)
			return
		}
		mu.RLock()
		cfg := config
		mu.RUnlock()
		callback(cfg)
	})
	vp.WatchConfig()
}
