// Package batch lets a tool act on one id or on a list of ids in a single
// call and report a per-id outcome.
//
// Tools such as task_set_completed and task_delete accept either "id": "t1"
// or "ids": ["t1", "t2"]. Each id is processed independently, so one
// failure does not stop the rest; the aggregated Summary carries counts and
// per-id results for the MCP client.
package batch
