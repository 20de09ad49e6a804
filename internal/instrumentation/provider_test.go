package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(metrics, tracing string) Config {
	cfg := DefaultConfig()
	cfg.ServiceName = "uptodo-test"
	cfg.ServiceVersion = "1.0.0"
	cfg.Backend = BackendMemory
	cfg.MetricsExporter = metrics
	cfg.TracingExporter = tracing
	return cfg
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	assert.False(t, provider.HasPrometheusExporter())
	require.NotNil(t, provider.Metrics())
	assert.NotNil(t, provider.Tracer("test"))

	// A disabled recorder accepts calls.
	provider.Metrics().RecordFocusSession(context.Background(), FocusResultFinished)
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name           string
		metrics        string
		tracing        string
		wantPrometheus bool
	}{
		{name: "prometheus without tracing", metrics: ExporterPrometheus, tracing: ExporterNone, wantPrometheus: true},
		{name: "empty names use defaults", metrics: "", tracing: "", wantPrometheus: true},
		{name: "stdout", metrics: ExporterStdout, tracing: ExporterStdout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			provider, err := NewProvider(ctx, testConfig(tt.metrics, tt.tracing))
			require.NoError(t, err)
			defer func() { _ = provider.Shutdown(ctx) }()

			assert.True(t, provider.Enabled())
			assert.NotNil(t, provider.Metrics())
			assert.NotNil(t, provider.Tracer("test"))
			assert.Equal(t, tt.wantPrometheus, provider.HasPrometheusExporter())
		})
	}
}

func TestNewProvider_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown metrics exporter", cfg: testConfig("statsd", ExporterNone)},
		{name: "unknown tracing exporter", cfg: testConfig(ExporterPrometheus, "zipkin")},
		{name: "otlp tracing without endpoint", cfg: testConfig(ExporterPrometheus, ExporterOTLP)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestProvider_Shutdown(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, testConfig(ExporterPrometheus, ExporterNone))
	require.NoError(t, err)

	assert.NoError(t, provider.Shutdown(ctx))
}
