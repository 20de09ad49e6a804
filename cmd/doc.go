// Package cmd implements the command-line interface for uptodo.
//
// This package provides the following commands:
//   - task: list, search, add, edit, complete and delete tasks
//   - category: list and create task categories
//   - focus: run a focus countdown in the terminal
//   - auth: sign in with Google to identify the task owner
//   - serve: Start the MCP server to provide tools for AI assistants
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// Every command reads the same configuration (see internal/config) and prints
// text, JSON or YAML depending on --output.
package cmd
