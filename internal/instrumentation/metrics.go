package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod      = "method"
	attrPath        = "path"
	attrStatus      = "status"
	attrOperation   = "operation"
	attrBackend     = "backend"
	attrResult      = "result"
	attrTool        = "tool"
	attrOwnerDomain = "owner_domain"
)

// Metrics provides methods for recording observability metrics.
// A nil or zero Metrics records nothing.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Remote data service metrics
	remoteOperationsTotal   metric.Int64Counter
	remoteOperationDuration metric.Float64Histogram

	// Store metrics
	optimisticConflictsTotal metric.Int64Counter

	// Focus timer metrics
	focusSessionsTotal metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.remoteOperationsTotal, err = meter.Int64Counter(
		"remote_operations_total",
		metric.WithDescription("Total number of remote data service operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote_operations_total counter: %w", err)
	}

	m.remoteOperationDuration, err = meter.Float64Histogram(
		"remote_operation_duration_seconds",
		metric.WithDescription("Remote data service operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote_operation_duration_seconds histogram: %w", err)
	}

	m.optimisticConflictsTotal, err = meter.Int64Counter(
		"store_optimistic_conflicts_total",
		metric.WithDescription("Optimistic local changes whose remote write failed"),
		metric.WithUnit("{conflict}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store_optimistic_conflicts_total counter: %w", err)
	}

	m.focusSessionsTotal, err = meter.Int64Counter(
		"focus_sessions_total",
		metric.WithDescription("Focus sessions ended, by result"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create focus_sessions_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordRemoteOperation records one call to the remote data service.
//
// Parameters:
//   - backend: memory, firestore or redis
//   - operation: one of the Operation* constants
//   - status: "success" or "error"
//   - duration: time taken for the call
func (m *Metrics) RecordRemoteOperation(ctx context.Context, backend, operation, status string, duration time.Duration) {
	if m == nil || m.remoteOperationsTotal == nil || m.remoteOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrBackend, backend),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.remoteOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.remoteOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordOptimisticConflict counts a local change that was kept after its
// remote write failed.
func (m *Metrics) RecordOptimisticConflict(ctx context.Context, operation string) {
	if m == nil || m.optimisticConflictsTotal == nil {
		return
	}

	m.optimisticConflictsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOperation, operation)))
}

// RecordFocusSession counts an ended focus session.
// Result should be one of: "finished", "stopped", "restarted"
func (m *Metrics) RecordFocusSession(ctx context.Context, result string) {
	if m == nil || m.focusSessionsTotal == nil {
		return
	}

	m.focusSessionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	m.RecordToolInvocationWithOwner(ctx, toolName, status, "", duration)
}

// RecordToolInvocationWithOwner records an MCP tool invocation. The owner's
// e-mail domain is attached only when detailed labels are enabled.
func (m *Metrics) RecordToolInvocationWithOwner(ctx context.Context, toolName, status, owner string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	if m.detailedLabels && owner != "" {
		attrs = append(attrs, attribute.String(attrOwnerDomain, OwnerDomain(owner)))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
