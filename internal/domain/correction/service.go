package correction

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
)

// Service is the approval workflow over correction requests. Reviews for
// different requests proceed in parallel; a single request transitions
// exactly once.
type Service interface {
	// RequestCorrection snapshots the day's record (if any) and files the
	// appeal on behalf of the acting employee.
	RequestCorrection(ctx context.Context, actor auth.Context, req RequestCorrectionRequest) (Response, error)

	// Review decides a pending request. The reviewer must share the
	// requester's department; re-reviewing a terminal request fails.
	Review(ctx context.Context, actor auth.Context, req ReviewRequest) (Response, error)

	Get(ctx context.Context, actor auth.Context, id string) (Response, error)
	List(ctx context.Context, actor auth.Context, filter Filter) (ListResponse, error)
	MyRequests(ctx context.Context, actor auth.Context, filter Filter) (ListResponse, error)
}
