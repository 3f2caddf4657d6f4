package employee

import "context"

// Directory is the read-only view of the external employee/department system.
// The engine consumes it for shift resolution, department-scoped authorization
// and summary fan-out; employee record management lives elsewhere.
type Directory interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive returns employees eligible for attendance processing.
	ListActive(ctx context.Context) ([]Employee, error)

	// DepartmentOf is a cheap lookup used by correction review authorization.
	DepartmentOf(ctx context.Context, employeeID string) (string, error)
}
