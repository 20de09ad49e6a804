// Package category_tools exposes the category store as MCP tools:
// category_list (always registered) and category_create (write mode only).
package category_tools
