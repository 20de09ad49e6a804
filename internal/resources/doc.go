// Package resources provides MCP resources for uptodo.
//
// Resources are read-only JSON snapshots an assistant can attach as context
// without calling a tool:
//   - uptodo://tasks: the current owner's tasks
//   - uptodo://categories: every category
//   - uptodo://focus: the focus timer state
//
// They are registered in read-only mode too.
package resources
