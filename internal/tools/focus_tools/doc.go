// Package focus_tools exposes the focus timer as MCP tools.
//
// The timer lives in the server process and is shared by every client, so
// focus_start replaces a session another client started. The tools only
// touch in-process state and are registered in read-only mode too.
package focus_tools
