package focus_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/osvaldocariege06/Up-ToDo/internal/focus"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/common"
)

// RegisterFocusTools registers the focus timer tools with the MCP server
func RegisterFocusTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	startTool := mcp.NewTool("focus_start",
		mcp.WithDescription("Start a focus session, replacing any running one. Give either seconds or a clock value (hours and minutes)."),
		mcp.WithNumber("seconds",
			mcp.Description("Session length in seconds"),
		),
		mcp.WithNumber("hours",
			mcp.Description("Clock hours, 0-23. The clock value H:M runs for H*60+M seconds."),
		),
		mcp.WithNumber("minutes",
			mcp.Description("Clock minutes, 0-59"),
		),
	)
	s.AddTool(startTool, common.InstrumentedToolHandler("focus_start", sc, handleStart(sc)))

	stopTool := mcp.NewTool("focus_stop",
		mcp.WithDescription("Stop the running focus session"),
	)
	s.AddTool(stopTool, common.InstrumentedToolHandler("focus_stop", sc, handleStop(sc)))

	statusTool := mcp.NewTool("focus_status",
		mcp.WithDescription("Show whether a focus session is running and the seconds left"),
	)
	s.AddTool(statusTool, common.InstrumentedToolHandler("focus_status", sc, handleStatus(sc)))

	return nil
}

func handleStart(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		seconds, err := sessionSeconds(request.GetArguments())
		if err != nil {
			return common.ErrorResult("start focus session", err), nil
		}
		if err := sc.Timer().Start(seconds); err != nil {
			return common.ErrorResult("start focus session", err), nil
		}
		return common.JSONResult(fmt.Sprintf("Focus session started for %d second(s)", seconds), sc.Timer().State())
	}
}

func handleStop(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sc.Timer().Stop()
		return common.JSONResult("Focus session stopped", sc.Timer().State())
	}
}

func handleStatus(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return common.JSONResult("", sc.Timer().State())
	}
}

// sessionSeconds reads either seconds or the hours/minutes clock pair.
func sessionSeconds(args map[string]any) (int, error) {
	seconds, hasSeconds, err := common.IntArg(args, "seconds")
	if err != nil {
		return 0, model.NewValidationError("seconds", err.Error())
	}
	hours, hasHours, err := common.IntArg(args, "hours")
	if err != nil {
		return 0, model.NewValidationError("hours", err.Error())
	}
	minutes, hasMinutes, err := common.IntArg(args, "minutes")
	if err != nil {
		return 0, model.NewValidationError("minutes", err.Error())
	}

	clock := hasHours || hasMinutes
	switch {
	case hasSeconds && clock:
		return 0, model.NewValidationError("seconds", "give either seconds or hours/minutes, not both")
	case hasSeconds:
		return seconds, nil
	case clock:
		return focus.DurationFromClock(hours, minutes)
	default:
		return 0, model.NewValidationError("seconds", "seconds or hours/minutes is required")
	}
}
