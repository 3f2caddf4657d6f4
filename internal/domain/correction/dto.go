package correction

import (
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type RequestCorrectionRequest struct {
	Date              string  `json:"date"` // YYYY-MM-DD
	RequestType       string  `json:"request_type"`
	RequestedCheckIn  *string `json:"requested_check_in,omitempty"`  // RFC3339
	RequestedCheckOut *string `json:"requested_check_out,omitempty"` // RFC3339
	Reason            string  `json:"reason"`
}

func (r *RequestCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}

	typeOK := false
	for _, t := range validRequestTypes {
		if RequestType(r.RequestType) == t {
			typeOK = true
			break
		}
	}
	if !typeOK {
		errs = append(errs, validator.ValidationError{Field: "request_type", Message: "request_type must be one of: missing_check_in, missing_check_out, wrong_time"})
	}

	if r.RequestedCheckIn == nil && r.RequestedCheckOut == nil {
		errs = append(errs, validator.ValidationError{Field: "requested_check_in", Message: "at least one requested time is required"})
	}
	if r.RequestedCheckIn != nil {
		if _, ok := validator.IsValidDateTime(*r.RequestedCheckIn); !ok {
			errs = append(errs, validator.ValidationError{Field: "requested_check_in", Message: "requested_check_in must be an RFC3339 datetime"})
		}
	}
	if r.RequestedCheckOut != nil {
		if _, ok := validator.IsValidDateTime(*r.RequestedCheckOut); !ok {
			errs = append(errs, validator.ValidationError{Field: "requested_check_out", Message: "requested_check_out must be an RFC3339 datetime"})
		}
	}
	if r.RequestedCheckIn != nil && r.RequestedCheckOut != nil {
		in, inOK := validator.IsValidDateTime(*r.RequestedCheckIn)
		out, outOK := validator.IsValidDateTime(*r.RequestedCheckOut)
		if inOK && outOK && !out.After(in) {
			errs = append(errs, validator.ValidationError{Field: "requested_check_out", Message: "requested_check_out must be after requested_check_in"})
		}
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewRequest struct {
	RequestID   string  `json:"-"`
	Decision    string  `json:"decision"` // approve | reject
	ReviewNotes *string `json:"review_notes,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{Field: "request_id", Message: "request_id is required"})
	}
	if !validator.IsInSlice(r.Decision, []string{"approve", "reject"}) {
		errs = append(errs, validator.ValidationError{Field: "decision", Message: "decision must be approve or reject"})
	}
	if r.Decision == "reject" && (r.ReviewNotes == nil || validator.IsEmpty(*r.ReviewNotes)) {
		errs = append(errs, validator.ValidationError{Field: "review_notes", Message: "review_notes are required when rejecting"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Filter struct {
	EmployeeID   *string `json:"employee_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Status       *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{"pending", "approved", "rejected"}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: pending, approved, rejected"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Response struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      *string `json:"employee_name,omitempty"`
	AttendanceID      *string `json:"attendance_id,omitempty"`
	Date              string  `json:"date"`
	RequestType       string  `json:"request_type"`
	OriginalCheckIn   *string `json:"original_check_in,omitempty"`
	OriginalCheckOut  *string `json:"original_check_out,omitempty"`
	RequestedCheckIn  *string `json:"requested_check_in,omitempty"`
	RequestedCheckOut *string `json:"requested_check_out,omitempty"`
	Reason            string  `json:"reason"`
	Status            string  `json:"status"`
	ReviewedBy        *string `json:"reviewed_by,omitempty"`
	ReviewedAt        *string `json:"reviewed_at,omitempty"`
	ReviewNotes       *string `json:"review_notes,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

type ListResponse struct {
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Requests   []Response `json:"requests"`
}
