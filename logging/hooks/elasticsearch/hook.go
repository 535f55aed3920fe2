// Package elasticsearch provides a logrus hook for sending logs to Elasticsearch.
//
// Importing the package registers the hook with the logger; it is enabled
// when logger.elasticsearch.addresses is configured.
package elasticsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/searchkit/data/elasticsearch/client"
	"github.com/ncobase/searchkit/logging/logger"
	"github.com/ncobase/searchkit/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single shipped entry
const DefaultTimeout = 5 * time.Second

func init() {
	logger.RegisterHookFactory(logger.HookElasticsearch, NewHook)
}

// Hook is a logrus hook for Elasticsearch
type Hook struct {
	client  *client.Client
	cfg     *config.Config
	timeout time.Duration
	levels  []logrus.Level
}

// NewHook creates a new Elasticsearch hook from config
func NewHook(cfg *config.Config) (logrus.Hook, error) {
	if cfg == nil || cfg.Elasticsearch == nil {
		return nil, fmt.Errorf("elasticsearch config is nil")
	}

	c, err := client.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &Hook{
		client:  c,
		cfg:     cfg,
		timeout: DefaultTimeout,
		levels:  logrus.AllLevels,
	}, nil
}

// Fire sends the log entry to the daily index
func (h *Hook) Fire(entry *logrus.Entry) error {
	doc := make(map[string]any, len(entry.Data)+3)
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		doc[k] = v
	}
	doc["@timestamp"] = entry.Time.UTC().Format(time.RFC3339Nano)
	doc["level"] = entry.Level.String()
	doc["message"] = entry.Message

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	res, err := h.client.IndexDocument(ctx, h.cfg.BuildIndexName(entry.Time), "", doc, false)
	if err != nil {
		return fmt.Errorf("failed to index log entry: %w", err)
	}
	return client.Decode(res, "index", nil)
}

// Levels returns the log levels this hook fires for
func (h *Hook) Levels() []logrus.Level {
	return h.levels
}
