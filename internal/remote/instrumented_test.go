package remote_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/memory"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/remotetest"
)

func TestInstrumented_Contract(t *testing.T) {
	remotetest.Run(t, func(t *testing.T) remote.Service {
		return remote.Instrument(memory.New(), instrumentation.BackendMemory, nil)
	})
}

func TestInstrumented_RecordsSpansAndMetrics(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := instrumentation.NewMetrics(mp.Meter("test"), false)
	require.NoError(t, err)

	backend := memory.New()
	svc := remote.Instrument(backend, instrumentation.BackendMemory, metrics)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, model.Task{Title: "Buy milk", UserEmail: "a@x.io"})
	require.NoError(t, err)

	backend.FailNext("DeleteTask", errors.New("unavailable"))
	err = svc.DeleteTask(ctx, created.ID)
	require.Error(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"remote.memory.create_task", "remote.memory.delete_task"}, names)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	statuses := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "remote_operations_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				op, _ := dp.Attributes.Value("operation")
				status, _ := dp.Attributes.Value("status")
				statuses[op.AsString()+"/"+status.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{
		"create_task/success": 1,
		"delete_task/error":   1,
	}, statuses)
}

func TestInstrumented_Unwrap(t *testing.T) {
	backend := memory.New()
	svc := remote.Instrument(backend, instrumentation.BackendMemory, nil)
	assert.Same(t, backend, svc.Unwrap())
	assert.NoError(t, svc.Close())
}
