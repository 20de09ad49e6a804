package instrumentation

import (
	"fmt"
	"time"
)

// Config controls metrics and tracing. It is decoded from the telemetry
// section of uptodo.yaml; ServiceVersion and Backend are filled in at startup.
type Config struct {
	Enabled         bool    `mapstructure:"enabled"`
	ServiceName     string  `mapstructure:"service_name"`
	MetricsExporter string  `mapstructure:"metrics_exporter"` // prometheus, otlp or stdout
	TracingExporter string  `mapstructure:"tracing_exporter"` // otlp, stdout or none
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`    // host:port, no scheme
	OTLPInsecure    bool    `mapstructure:"otlp_insecure"`
	SamplingRate    float64 `mapstructure:"sampling_rate"`

	// DetailedLabels adds the owner's e-mail domain to tool metrics.
	DetailedLabels bool `mapstructure:"detailed_labels"`

	ServiceVersion string `mapstructure:"-"`
	Backend        string `mapstructure:"-"`
}

// DefaultConfig returns the settings used when the telemetry section is absent.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		ServiceName:     DefaultServiceName,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
		SamplingRate:    0.1,
		ServiceVersion:  "unknown",
	}
}

// Validate checks exporter names, the sampling rate and the OTLP endpoint.
func (c Config) Validate() error {
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("sampling rate must be between 0.0 and 1.0, got %g", c.SamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.OTLPEndpoint == "" && (c.MetricsExporter == ExporterOTLP || c.TracingExporter == ExporterOTLP) {
		return fmt.Errorf("OTLP endpoint is required when an exporter is set to otlp")
	}
	return nil
}

// DefaultServiceName is the OpenTelemetry service.name.
const DefaultServiceName = "uptodo"

// Label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	BackendMemory      = "memory"
	BackendFirestore   = "firestore"
	BackendRedis       = "redis"
	BackendGoogleTasks = "googletasks"

	FocusResultFinished  = "finished"
	FocusResultStopped   = "stopped"
	FocusResultRestarted = "restarted"
)

// Exporter names.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// DefaultMetricInterval is the push interval of the periodic metric readers.
const DefaultMetricInterval = 10 * time.Second
