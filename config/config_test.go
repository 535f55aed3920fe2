package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYAML = `
app_name: Catalog
environment: test
server:
  host: 0.0.0.0
  port: 9090
logger:
  level: 5
  format: json
data:
  search:
    engine: opensearch
    window_limit: 500
    scroll_ttl: 2m
    opensearch:
      addresses: ["https://localhost:9200"]
      insecure_skip_tls: true
observes:
  tracer:
    endpoint: localhost:4317
    sampling_rate: 0.25
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.AppName != "Catalog" || cfg.Environment != "test" {
		t.Errorf("unexpected app info %q/%q", cfg.AppName, cfg.Environment)
	}
	if cfg.Address() != "0.0.0.0:9090" {
		t.Errorf("expected address 0.0.0.0:9090, got %s", cfg.Address())
	}
	if cfg.Logger.Level != 5 || cfg.Logger.Format != "json" {
		t.Errorf("unexpected logger config %+v", cfg.Logger)
	}

	s := cfg.Data.Search
	if s.Engine != "opensearch" || s.WindowLimit != 500 || s.ScrollTTL != 2*time.Minute {
		t.Errorf("unexpected search config %+v", s)
	}
	if s.IndexPrefix != "catalog-test" {
		t.Errorf("expected derived prefix catalog-test, got %q", s.IndexPrefix)
	}
	if s.OpenSearch == nil || !s.OpenSearch.InsecureSkipTLS {
		t.Errorf("expected opensearch section, got %+v", s.OpenSearch)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	tr := cfg.Observes.Tracer
	if tr.Endpoint != "localhost:4317" || tr.SamplingRate != 0.25 || tr.ServiceName != "Catalog" {
		t.Errorf("unexpected tracer config %+v", tr)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SEARCHKIT_SERVER_PORT", "7000")
	t.Setenv("SEARCHKIT_DATA_SEARCH_WINDOW_LIMIT", "42")

	cfg, err := LoadConfig(writeConfig(t, testYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 7000 {
		t.Errorf("expected env port 7000, got %d", cfg.Port)
	}
	if cfg.Data.Search.WindowLimit != 42 {
		t.Errorf("expected env window limit 42, got %d", cfg.Data.Search.WindowLimit)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for an explicit missing file")
	}

	cfg, err := LoadConfig(writeConfig(t, "server:\n  port: 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid port to fail validation")
	}
}

func TestInitAndProviders(t *testing.T) {
	cfg, err := Init(writeConfig(t, testYAML))
	if err != nil {
		t.Fatal(err)
	}
	got, err := GetConfig()
	if err != nil || got != cfg {
		t.Fatalf("expected GetConfig to return the loaded config, got %v, %v", got, err)
	}
	if ProvideSearchConfig(cfg) != cfg.Data.Search {
		t.Error("ProvideSearchConfig returned a different section")
	}
	if ProvideLoggerConfig(nil) != nil || ProvideDataConfig(nil) != nil {
		t.Error("providers must tolerate a nil config")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "data:\n  search:\n    elasticsearch:\n      addresses: [\"http://localhost:9200\"]\n"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.AppName != defaultAppName || cfg.Environment != defaultEnvironment {
		t.Errorf("expected default app info, got %q/%q", cfg.AppName, cfg.Environment)
	}
	if cfg.Address() != "127.0.0.1:8080" {
		t.Errorf("expected default address, got %s", cfg.Address())
	}
	if cfg.Data.Search.IndexPrefix != "" {
		t.Errorf("expected no index prefix without app_name, got %q", cfg.Data.Search.IndexPrefix)
	}

	tr := cfg.Observes.Tracer
	if tr.Endpoint != "" || tr.SamplingRate != 1 || tr.BatchTimeout != 5*time.Second || tr.MaxExportBatchSize != 512 {
		t.Errorf("unexpected tracer defaults %+v", tr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
