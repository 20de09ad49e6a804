package category_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/common"
)

// RegisterCategoryTools registers the category tools with the MCP server
func RegisterCategoryTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("category_list",
		mcp.WithDescription("List all task categories"),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("category_list", sc, handleListCategories(sc)))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("category_create",
		mcp.WithDescription("Create a task category"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Category title"),
		),
		mcp.WithString("color",
			mcp.Required(),
			mcp.Description("Hex color, #RGB or #RRGGBB. Suggested: "+strings.Join(model.DefaultCategoryColors, ", ")),
		),
		mcp.WithString("icon",
			mcp.Description("Icon name"),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("category_create", sc, handleCreateCategory(sc)))

	return nil
}

func handleListCategories(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := sc.Categories().LoadAll(ctx); err != nil {
			return common.ErrorResult("list categories", err), nil
		}
		categories := sc.Categories().Categories()
		return common.JSONResult(fmt.Sprintf("Found %d categories", len(categories)), categories)
	}
}

func handleCreateCategory(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		title, err := common.RequiredString(args, "title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		color, err := common.RequiredString(args, "color")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		icon, _ := common.StringArg(args, "icon")

		created, err := sc.Categories().Create(ctx, model.Category{Title: title, Color: color, Icon: icon})
		if err != nil {
			return common.ErrorResult("create category", err), nil
		}
		return common.JSONResult("Category created", created)
	}
}
