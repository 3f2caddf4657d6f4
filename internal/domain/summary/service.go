package summary

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
)

// Service aggregates attendance records into monthly summaries. Generation
// is idempotent: recomputing a period after new corrections lands the same
// row with fresh totals.
type Service interface {
	Generate(ctx context.Context, actor auth.Context, req GenerateRequest) (Response, error)
	GenerateAll(ctx context.Context, actor auth.Context, req GenerateAllRequest) (ListResponse, error)
	Get(ctx context.Context, actor auth.Context, employeeID string, month, year int) (Response, error)
	List(ctx context.Context, actor auth.Context, filter Filter) (ListResponse, error)
}
