package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, detailed bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), detailed)
	require.NoError(t, err)
	return m, reader
}

// collectSum returns the summed value of counter name across data points
// whose attributes include every pair in match.
func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string, match ...attribute.KeyValue) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if hasAll(dp.Attributes, match) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func hasAll(set attribute.Set, match []attribute.KeyValue) bool {
	for _, kv := range match {
		v, ok := set.Value(kv.Key)
		if !ok || v.Emit() != kv.Value.Emit() {
			return false
		}
	}
	return true
}

func TestMetrics_RecordRemoteOperation(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordRemoteOperation(ctx, BackendRedis, OperationListTasks, StatusSuccess, 3*time.Millisecond)
	m.RecordRemoteOperation(ctx, BackendRedis, OperationListTasks, StatusSuccess, 5*time.Millisecond)
	m.RecordRemoteOperation(ctx, BackendRedis, OperationCreateTask, StatusError, time.Millisecond)

	assert.Equal(t, int64(2), collectSum(t, reader, "remote_operations_total",
		attribute.String(attrOperation, OperationListTasks)))
	assert.Equal(t, int64(1), collectSum(t, reader, "remote_operations_total",
		attribute.String(attrStatus, StatusError)))
}

func TestMetrics_StoreAndFocus(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordOptimisticConflict(ctx, OperationSetCompleted)
	m.RecordFocusSession(ctx, FocusResultFinished)
	m.RecordFocusSession(ctx, FocusResultStopped)
	m.RecordFocusSession(ctx, FocusResultFinished)

	assert.Equal(t, int64(1), collectSum(t, reader, "store_optimistic_conflicts_total"))
	assert.Equal(t, int64(2), collectSum(t, reader, "focus_sessions_total",
		attribute.String(attrResult, FocusResultFinished)))
}

func TestMetrics_RecordToolInvocationWithOwner(t *testing.T) {
	t.Run("owner dropped without detailed labels", func(t *testing.T) {
		m, reader := newTestMetrics(t, false)
		m.RecordToolInvocationWithOwner(context.Background(), "task_list", StatusSuccess, "ana@example.com", 10*time.Millisecond)

		assert.Equal(t, int64(1), collectSum(t, reader, "mcp_tool_invocations_total"))
		assert.Equal(t, int64(0), collectSum(t, reader, "mcp_tool_invocations_total",
			attribute.String(attrOwnerDomain, "example.com")))
	})

	t.Run("owner domain kept with detailed labels", func(t *testing.T) {
		m, reader := newTestMetrics(t, true)
		m.RecordToolInvocationWithOwner(context.Background(), "task_list", StatusSuccess, "ana@example.com", 10*time.Millisecond)

		assert.Equal(t, int64(1), collectSum(t, reader, "mcp_tool_invocations_total",
			attribute.String(attrOwnerDomain, "example.com")))
	})
}

func TestMetrics_NilAndZeroAreNoOps(t *testing.T) {
	ctx := context.Background()
	for _, m := range []*Metrics{nil, {}} {
		m.RecordHTTPRequest(ctx, "GET", "/mcp", 200, time.Millisecond)
		m.RecordRemoteOperation(ctx, BackendMemory, OperationDeleteTask, StatusSuccess, time.Millisecond)
		m.RecordOptimisticConflict(ctx, OperationSetCompleted)
		m.RecordFocusSession(ctx, FocusResultRestarted)
		m.RecordToolInvocation(ctx, "focus_status", StatusSuccess, time.Millisecond)
	}
}
