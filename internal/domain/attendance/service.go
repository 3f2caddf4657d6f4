package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
)

// Service is the check-in/check-out state machine plus the administrative
// surface over the record store.
type Service interface {
	CheckIn(ctx context.Context, actor auth.Context, req CheckInRequest) (CheckInResponse, error)
	CheckOut(ctx context.Context, actor auth.Context, req CheckOutRequest) (CheckOutResponse, error)

	// MarkAbsent and MarkOnLeave are administrative side-states; they
	// overwrite any existing same-day record.
	MarkAbsent(ctx context.Context, actor auth.Context, req MarkAbsentRequest) (RecordResponse, error)
	MarkOnLeave(ctx context.Context, actor auth.Context, req MarkOnLeaveRequest) (RecordResponse, error)

	// ManualEntry follows the live computation path and flags the record.
	ManualEntry(ctx context.Context, actor auth.Context, req ManualEntryRequest) (RecordResponse, error)

	// Bulk operations are never atomic across ids; each id succeeds or fails
	// on its own and the result reports both sets.
	BulkCheckIn(ctx context.Context, actor auth.Context, req BulkCheckInRequest) (BulkResult, error)
	BulkMarkAbsent(ctx context.Context, actor auth.Context, req BulkMarkAbsentRequest) (BulkResult, error)

	Get(ctx context.Context, actor auth.Context, id string) (RecordResponse, error)
	List(ctx context.Context, actor auth.Context, filter Filter) (ListResponse, error)
	MyAttendance(ctx context.Context, actor auth.Context, filter Filter) (ListResponse, error)

	Purge(ctx context.Context, actor auth.Context, id string) error
}
