package shift

import (
	"context"
	"time"
)

type PolicyRepository interface {
	Create(ctx context.Context, policy Policy) (Policy, error)
	GetByID(ctx context.Context, id string) (Policy, error)
	GetByCode(ctx context.Context, code string) (*Policy, error)
	List(ctx context.Context) ([]Policy, error)

	// Update applies prospectively; callers must not rewrite historical records.
	Update(ctx context.Context, policy Policy) error
}

type AssignmentRepository interface {
	// Assign deactivates any currently-active assignment for the employee and
	// inserts the new one in a single transaction, upholding the one-active
	// invariant.
	Assign(ctx context.Context, assignment Assignment) (Assignment, error)

	// GetActiveForDate resolves the assignment in effect for the employee on
	// the given day, honoring effective dating. Returns nil when none covers it.
	GetActiveForDate(ctx context.Context, employeeID string, date time.Time) (*Assignment, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Assignment, error)
}
