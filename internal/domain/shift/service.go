package shift

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
)

// Service manages shift policies and effective-dated employee assignments.
type Service interface {
	CreatePolicy(ctx context.Context, actor auth.Context, req CreatePolicyRequest) (PolicyResponse, error)
	UpdatePolicy(ctx context.Context, actor auth.Context, req UpdatePolicyRequest) (PolicyResponse, error)
	GetPolicy(ctx context.Context, id string) (PolicyResponse, error)
	ListPolicies(ctx context.Context) ([]PolicyResponse, error)

	AssignShift(ctx context.Context, actor auth.Context, req AssignShiftRequest) (AssignmentResponse, error)
	ListAssignments(ctx context.Context, employeeID string) ([]AssignmentResponse, error)

	// ResolveActiveShift returns the policy governing the employee on the given
	// day, or ErrNoActiveShift. The check-in path treats the latter as a
	// warning, not a failure.
	ResolveActiveShift(ctx context.Context, employeeID string, date time.Time) (*Policy, error)
}
