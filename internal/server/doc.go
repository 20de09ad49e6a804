// Package server wires the uptodo core into a running process.
//
// ServerContext owns the remote backend, the task and category stores, the
// focus timer and the owner provider, and tears them down together on
// Shutdown. OpenBackend and NewOwnerProvider build the backend and owner from
// configuration.
//
// HTTPServer exposes an MCP server over streamable HTTP at /mcp, next to the
// HealthChecker endpoints /healthz, /readyz and /healthz/detailed. Readiness
// includes a backend ping for backends that support one.
//
// MetricsServer serves Prometheus metrics on a dedicated port.
package server
