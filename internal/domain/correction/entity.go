package correction

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether the request can no longer transition.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type RequestType string

const (
	TypeMissingCheckIn  RequestType = "missing_check_in"
	TypeMissingCheckOut RequestType = "missing_check_out"
	TypeWrongTime       RequestType = "wrong_time"
)

var validRequestTypes = []RequestType{TypeMissingCheckIn, TypeMissingCheckOut, TypeWrongTime}

// Request is an employee-initiated appeal to amend a day's recorded times.
// Original* snapshot the record at request time; the request transitions
// exactly once from pending to a terminal state.
type Request struct {
	ID           string
	EmployeeID   string
	AttendanceID *string // nil when no record existed yet for that day
	Date         time.Time
	RequestType  RequestType

	OriginalCheckIn   *time.Time
	OriginalCheckOut  *time.Time
	RequestedCheckIn  *time.Time
	RequestedCheckOut *time.Time

	Reason string

	Status      Status
	ReviewedBy  *string
	ReviewedAt  *time.Time
	ReviewNotes *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName   *string
	DepartmentID   *string
	DepartmentName *string
}
