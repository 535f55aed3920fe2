package search

import (
	"fmt"
	"strings"

	"github.com/ncobase/searchkit/data/config"
)

// Definition describes the index a caller owns.
type Definition interface {
	// Name is the logical index name, without prefix.
	Name() string
	// Mapping returns the field properties; empty means no explicit mapping.
	Mapping() map[string]any
	// Settings returns index settings such as shards and replicas.
	Settings() map[string]any
}

// IndexDefinition is a value Definition
type IndexDefinition struct {
	IndexName     string
	Properties    map[string]any
	IndexSettings map[string]any
}

func (d IndexDefinition) Name() string             { return d.IndexName }
func (d IndexDefinition) Mapping() map[string]any  { return d.Properties }
func (d IndexDefinition) Settings() map[string]any { return d.IndexSettings }

// ValidateDefinition rejects definitions that cannot name an index
func ValidateDefinition(def Definition) error {
	if def == nil {
		return fmt.Errorf("%w: definition is nil", ErrInvalidDefinition)
	}
	if strings.TrimSpace(def.Name()) == "" {
		return fmt.Errorf("%w: index name is required", ErrInvalidDefinition)
	}
	return nil
}

// BuildIndexBody renders the create-index body for def.
func BuildIndexBody(def Definition) map[string]any {
	body := map[string]any{
		"mappings": map[string]any{
			"_source":    map[string]any{"enabled": true},
			"properties": def.Mapping(),
		},
	}
	if s := def.Settings(); len(s) > 0 {
		body["settings"] = s
	}
	return body
}

// SettingsFromConfig converts configured index settings into backend settings
func SettingsFromConfig(s *config.IndexSettings) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{
		"number_of_shards":   s.Shards,
		"number_of_replicas": s.Replicas,
	}
	if s.RefreshInterval != "" {
		out["refresh_interval"] = s.RefreshInterval
	}
	return out
}
