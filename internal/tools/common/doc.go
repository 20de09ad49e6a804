// Package common holds the helpers shared by the MCP tool packages: handler
// instrumentation, owner resolution, argument decoding and result encoding.
package common
