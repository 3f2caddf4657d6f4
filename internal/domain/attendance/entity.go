package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/timecalc"
)

// Record is the per-employee-per-day attendance outcome. (EmployeeID, Date) is
// the unique key; Date is the working day, not a timestamp. Status is derived
// by the time computation engine, except for the administrative side-states
// absent and on_leave.
type Record struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	ShiftPolicyID *string

	CheckIn  *time.Time
	CheckOut *time.Time

	WorkingMinutes  int
	BreakMinutes    int
	OvertimeMinutes int

	Status                timecalc.Status
	IsLate                bool
	LateMinutes           int
	IsEarlyDeparture      bool
	EarlyDepartureMinutes int

	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	LocationID        *string
	LocationName      *string

	Notes         *string
	IsManualEntry bool
	ApprovedBy    *string
	ApprovedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName   *string
	EmployeeCode   *string
	DepartmentName *string
}

// Day truncates a timestamp to its working-day key in the given location.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
