// Package tasks_tools exposes the session's task store as MCP tools.
//
// # Available Tools
//
// Read-only, always registered:
//   - task_list: List an owner's tasks, optionally filtered by title and completion
//   - task_filter_range: List an owner's tasks due within a time range
//
// Write, registered only when the server is not read-only:
//   - task_create: Create a task
//   - task_update: Change fields of a task
//   - task_set_completed: Mark one or more tasks done or not done
//   - task_delete: Delete one or more tasks
//
// # Owner
//
// Every tool accepts an optional 'owner' e-mail. When omitted, the owner of
// the session (configured or taken from the stored Google token) is used.
// Write tools refuse ids whose loaded task belongs to another owner and
// report them as not found.
package tasks_tools
