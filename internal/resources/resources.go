package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
	"github.com/osvaldocariege06/Up-ToDo/internal/store"
)

// Resource URIs.
const (
	URITasks      = "uptodo://tasks"
	URICategories = "uptodo://categories"
	URIFocus      = "uptodo://focus"
)

const mimeJSON = "application/json"

// ResourceHandler is the mcp-go resource handler signature.
type ResourceHandler = func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)

// RegisterResources registers the task, category and focus resources
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tasksResource := mcp.NewResource(
		URITasks,
		"My Tasks",
		mcp.WithResourceDescription("Tasks of the configured or signed-in owner"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(tasksResource, handleTasks(sc))

	categoriesResource := mcp.NewResource(
		URICategories,
		"Categories",
		mcp.WithResourceDescription("Every task category with its color and icon"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(categoriesResource, handleCategories(sc))

	focusResource := mcp.NewResource(
		URIFocus,
		"Focus Timer",
		mcp.WithResourceDescription("Whether a focus session is running and the seconds left"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(focusResource, handleFocus(sc))

	return nil
}

func handleTasks(sc *server.ServerContext) ResourceHandler {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		owner, err := sc.OwnerID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve owner: %w", err)
		}

		tasks := make([]model.Task, 0)
		err = sc.WithTasks(func(ts *store.TaskStore) error {
			if err := ts.LoadByOwner(ctx, owner); err != nil {
				return err
			}
			for _, t := range ts.Tasks() {
				if t.UserEmail == owner {
					tasks = append(tasks, t)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load tasks: %w", err)
		}
		return jsonContents(request.Params.URI, map[string]any{
			"owner": owner,
			"tasks": tasks,
		})
	}
}

func handleCategories(sc *server.ServerContext) ResourceHandler {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if err := sc.Categories().LoadAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to load categories: %w", err)
		}
		categories := sc.Categories().Categories()
		if categories == nil {
			categories = []model.Category{}
		}
		return jsonContents(request.Params.URI, categories)
	}
}

func handleFocus(sc *server.ServerContext) ResourceHandler {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, sc.Timer().State())
	}
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(jsonData),
		},
	}, nil
}
