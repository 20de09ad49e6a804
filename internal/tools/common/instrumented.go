package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/logging"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
)

// errToolResult marks spans of tools that answered with an error result.
var errToolResult = errors.New("tool returned an error result")

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a span, invocation
// metrics and a debug log line.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		spanErr := err
		if spanErr == nil && result != nil && result.IsError {
			spanErr = errToolResult
		}
		status := instrumentation.StatusSuccess
		if spanErr != nil {
			status = instrumentation.StatusError
		}
		instrumentation.EndSpan(span, spanErr)

		owner, _ := request.GetArguments()[ArgOwner].(string)
		sc.Metrics().RecordToolInvocationWithOwner(ctx, toolName, status, owner, duration)

		sc.Logger().Debug("tool invoked",
			logging.Tool(toolName),
			logging.Status(status),
			logging.Duration(duration),
		)
		return result, err
	}
}
