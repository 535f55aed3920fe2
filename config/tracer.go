package config

import (
	"time"

	"github.com/spf13/viper"
)

// Tracer configures the OTLP trace exporter. An empty Endpoint disables tracing.
type Tracer struct {
	Endpoint           string        `json:"endpoint" yaml:"endpoint"`
	ServiceName        string        `json:"service_name" yaml:"service_name"`
	ServiceVersion     string        `json:"service_version" yaml:"service_version"`
	Environment        string        `json:"environment" yaml:"environment"`
	SamplingRate       float64       `json:"sampling_rate" yaml:"sampling_rate"`
	MaxExportBatchSize int           `json:"max_export_batch_size" yaml:"max_export_batch_size"`
	BatchTimeout       time.Duration `json:"batch_timeout" yaml:"batch_timeout"`
	ExportTimeout      time.Duration `json:"export_timeout" yaml:"export_timeout"`
}

// Observes groups the observability sections
type Observes struct {
	Tracer *Tracer `json:"tracer" yaml:"tracer"`
}

func getObservesConfig(v *viper.Viper) *Observes {
	t := &Tracer{
		Endpoint:           v.GetString("observes.tracer.endpoint"),
		ServiceName:        v.GetString("observes.tracer.service_name"),
		ServiceVersion:     v.GetString("observes.tracer.service_version"),
		Environment:        v.GetString("observes.tracer.environment"),
		SamplingRate:       v.GetFloat64("observes.tracer.sampling_rate"),
		MaxExportBatchSize: v.GetInt("observes.tracer.max_export_batch_size"),
		BatchTimeout:       v.GetDuration("observes.tracer.batch_timeout"),
		ExportTimeout:      v.GetDuration("observes.tracer.export_timeout"),
	}
	if t.ServiceName == "" {
		t.ServiceName = stringOr(v, "app_name", defaultAppName)
	}
	if t.Environment == "" {
		t.Environment = stringOr(v, "environment", defaultEnvironment)
	}
	return &Observes{Tracer: t}
}
