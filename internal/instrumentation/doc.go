// Package instrumentation provides OpenTelemetry metrics and tracing for
// uptodo.
//
// # Metrics
//
//   - http_requests_total, http_request_duration_seconds: MCP HTTP transport
//   - remote_operations_total, remote_operation_duration_seconds: calls to the
//     remote data service, by backend, operation and status
//   - store_optimistic_conflicts_total: optimistic completion toggles whose
//     remote write failed
//   - focus_sessions_total: focus sessions ended, by result
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds: MCP tools
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and remote calls
// (remote.<backend>.<operation>).
//
// # Configuration
//
// Config is decoded from the telemetry section of uptodo.yaml (or
// UPTODO_TELEMETRY_* variables): enabled, metrics_exporter (prometheus, otlp,
// stdout), tracing_exporter (otlp, stdout, none), otlp_endpoint,
// sampling_rate and detailed_labels.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, cfg.Telemetry)
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordRemoteOperation(ctx, "redis", instrumentation.OperationListTasks, "success", time.Since(start))
package instrumentation
