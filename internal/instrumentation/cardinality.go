package instrumentation

import "strings"

// OwnerDomain returns the domain of an owner e-mail, or "unknown". Owner
// labels never carry the full address.
func OwnerDomain(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return "unknown"
	}
	return domain
}

// Remote data service operations, used as metric labels and span names.
const (
	OperationListTasks        = "list_tasks"
	OperationListTasksByOwner = "list_tasks_by_owner"
	OperationListTasksByTime  = "list_tasks_by_time"
	OperationCreateTask       = "create_task"
	OperationUpdateTask       = "update_task"
	OperationSetCompleted     = "set_task_completed"
	OperationDeleteTask       = "delete_task"
	OperationListCategories   = "list_categories"
	OperationCreateCategory   = "create_category"
)
