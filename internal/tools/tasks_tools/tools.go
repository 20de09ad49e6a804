package tasks_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
	"github.com/osvaldocariege06/Up-ToDo/internal/store"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/batch"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/common"
)

const ownerDescription = "Owner e-mail. Defaults to the signed-in user."

// RegisterTaskTools registers all task tools with the MCP server
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("task_list",
		mcp.WithDescription("List tasks for an owner, optionally filtered by title text and completion"),
		mcp.WithString(common.ArgOwner,
			mcp.Description(ownerDescription),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive text the title must contain"),
		),
		mcp.WithBoolean("completed",
			mcp.Description("Only tasks with this completion state. Omit for all tasks."),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("task_list", sc, handleListTasks(sc)))

	rangeTool := mcp.NewTool("task_filter_range",
		mcp.WithDescription("List an owner's tasks whose due time lies within [start, end]"),
		mcp.WithString(common.ArgOwner,
			mcp.Description(ownerDescription),
		),
		mcp.WithString("start",
			mcp.Description("Range start (ISO-8601, e.g. 2024-05-01 or 2024-05-01T09:00:00Z). Omit for an open start."),
		),
		mcp.WithString("end",
			mcp.Description("Range end (ISO-8601). A bare date includes that whole day. Omit for an open end."),
		),
	)
	s.AddTool(rangeTool, common.InstrumentedToolHandler("task_filter_range", sc, handleFilterRange(sc)))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("task_create",
		mcp.WithDescription("Create a task. New tasks always start not completed."),
		mcp.WithString(common.ArgOwner,
			mcp.Description(ownerDescription),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("description",
			mcp.Description("Task description"),
		),
		mcp.WithString("time",
			mcp.Description("Due time (ISO-8601)"),
		),
		mcp.WithString("categoryId",
			mcp.Description("ID of the task's category"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority from \"0\" to \"10\""),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("task_create", sc, handleCreateTask(sc)))

	updateTool := mcp.NewTool("task_update",
		mcp.WithDescription("Update fields of a task. Only the fields given are changed."),
		mcp.WithString(common.ArgOwner,
			mcp.Description(ownerDescription),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("time",
			mcp.Description("New due time (ISO-8601)"),
		),
		mcp.WithString("categoryId",
			mcp.Description("New category ID"),
		),
		mcp.WithString("priority",
			mcp.Description("New priority from \"0\" to \"10\""),
		),
		mcp.WithBoolean("completed",
			mcp.Description("New completion state"),
		),
	)
	s.AddTool(updateTool, common.InstrumentedToolHandler("task_update", sc, handleUpdateTask(sc)))

	completeTool := mcp.NewTool("task_set_completed",
		mcp.WithDescription("Mark one or more tasks as completed or not completed"),
		mcp.WithString(common.ArgOwner,
			mcp.Description(ownerDescription),
		),
		mcp.WithString("ids",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs"),
		),
		mcp.WithBoolean("completed",
			mcp.Description("Completion state to set (default: true)"),
		),
	)
	s.AddTool(completeTool, common.InstrumentedToolHandler("task_set_completed", sc, handleSetCompleted(sc)))

	deleteTool := mcp.NewTool("task_delete",
		mcp.WithDescription("Delete one or more tasks"),
		mcp.WithString(common.ArgOwner,
			mcp.Description(ownerDescription),
		),
		mcp.WithString("ids",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to delete"),
		),
	)
	s.AddTool(deleteTool, common.InstrumentedToolHandler("task_delete", sc, handleDeleteTasks(sc)))

	return nil
}

func handleListTasks(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		owner, err := common.ResolveOwner(ctx, sc, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		completed, err := common.OptionalBool(args, "completed")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		search, _ := common.StringArg(args, "search")

		var tasks []model.Task
		err = sc.WithTasks(func(ts *store.TaskStore) error {
			if err := ts.LoadByOwner(ctx, owner); err != nil {
				return err
			}
			tasks = ownedBy(ts.FilterByTitleAndCompletion(search, completed), owner)
			return nil
		})
		if err != nil {
			return common.ErrorResult("list tasks", err), nil
		}

		return common.JSONResult(fmt.Sprintf("Found %d task(s)", len(tasks)), tasks)
	}
}

func handleFilterRange(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		owner, err := common.ResolveOwner(ctx, sc, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		start, err := timeArg(args, "start", model.ParseTime)
		if err != nil {
			return common.ErrorResult("filter tasks", err), nil
		}
		end, err := timeArg(args, "end", model.ParseRangeEnd)
		if err != nil {
			return common.ErrorResult("filter tasks", err), nil
		}

		var tasks []model.Task
		err = sc.WithTasks(func(ts *store.TaskStore) error {
			if err := ts.FilterByDateRange(ctx, start, end); err != nil {
				return err
			}
			tasks = ownedBy(ts.Tasks(), owner)
			return nil
		})
		if err != nil {
			return common.ErrorResult("filter tasks", err), nil
		}

		return common.JSONResult(fmt.Sprintf("Found %d task(s) in range", len(tasks)), tasks)
	}
}

func handleCreateTask(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		owner, err := common.ResolveOwner(ctx, sc, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		title, err := common.RequiredString(args, "title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		task := model.Task{Title: title, UserEmail: owner}
		task.Description, _ = common.StringArg(args, "description")
		task.Time, _ = common.StringArg(args, "time")
		task.CategoryID, _ = common.StringArg(args, "categoryId")
		task.Priority, _ = common.StringArg(args, "priority")

		created, err := sc.Tasks().Create(ctx, task)
		if err != nil {
			return common.ErrorResult("create task", err), nil
		}
		return common.JSONResult("Task created", created)
	}
}

func handleUpdateTask(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		owner, err := common.ResolveOwner(ctx, sc, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id, err := common.RequiredString(args, "id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		completed, err := common.OptionalBool(args, "completed")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		patch := model.TaskPatch{
			Title:       common.OptionalString(args, "title"),
			Description: common.OptionalString(args, "description"),
			Completed:   completed,
			Time:        common.OptionalString(args, "time"),
			CategoryID:  common.OptionalString(args, "categoryId"),
			Priority:    common.OptionalString(args, "priority"),
		}
		var (
			updated model.Task
			known   bool
		)
		err = sc.WithTasks(func(ts *store.TaskStore) error {
			if err := checkOwner(ts, id, owner); err != nil {
				return err
			}
			if err := ts.Update(ctx, id, patch); err != nil {
				return err
			}
			updated, known = ts.Get(id)
			return nil
		})
		if err != nil {
			return common.ErrorResult("update task", err), nil
		}

		if known {
			return common.JSONResult("Task updated", updated)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Task %s updated", id)), nil
	}
}

func handleSetCompleted(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		owner, err := common.ResolveOwner(ctx, sc, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ids, err := batch.ParseIDs(args["ids"], "ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		completed := true
		if v, err := common.OptionalBool(args, "completed"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		} else if v != nil {
			completed = *v
		}

		state := "not completed"
		if completed {
			state = "completed"
		}
		var results []batch.Result
		_ = sc.WithTasks(func(ts *store.TaskStore) error {
			results = batch.Process(ctx, ids, func(ctx context.Context, id string) (string, error) {
				if err := checkOwner(ts, id, owner); err != nil {
					return "", err
				}
				if err := ts.SetCompleted(ctx, id, completed); err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %s marked %s", id, state), nil
			})
			return nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	}
}

func handleDeleteTasks(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		owner, err := common.ResolveOwner(ctx, sc, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		ids, err := batch.ParseIDs(args["ids"], "ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var results []batch.Result
		_ = sc.WithTasks(func(ts *store.TaskStore) error {
			results = batch.Process(ctx, ids, func(ctx context.Context, id string) (string, error) {
				if err := checkOwner(ts, id, owner); err != nil {
					return "", err
				}
				if err := ts.Remove(ctx, id); err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %s deleted successfully", id), nil
			})
			return nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	}
}

// timeArg parses an optional ISO-8601 argument with parse. Absent or empty is
// the zero time, which the store treats as an open bound.
func timeArg(args map[string]any, name string, parse func(string) (time.Time, error)) (time.Time, error) {
	s, ok := common.StringArg(args, name)
	if !ok || s == "" {
		return time.Time{}, nil
	}
	t, err := parse(s)
	if err != nil {
		return time.Time{}, model.NewValidationError(name, "must be an ISO-8601 timestamp")
	}
	return t, nil
}

// checkOwner rejects an id whose loaded task belongs to someone else. Ids not
// in the collection are left to the backend. Another owner's task is reported
// as not found, the same way the list tools hide it.
func checkOwner(ts *store.TaskStore, id, owner string) error {
	if t, ok := ts.Get(id); ok && t.UserEmail != owner {
		return &model.NotFoundError{Resource: "task", ID: id}
	}
	return nil
}

// ownedBy keeps the tasks belonging to owner. A date range load returns every
// owner's tasks.
func ownedBy(tasks []model.Task, owner string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.UserEmail == owner {
			out = append(out, t)
		}
	}
	return out
}
