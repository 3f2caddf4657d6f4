package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type CheckInRequest struct {
	EmployeeID string   `json:"employee_id"`
	Timestamp  string   `json:"timestamp,omitempty"` // RFC3339; server time when empty
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	parsedTimestamp time.Time
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.Timestamp != "" {
		t, ok := validator.IsValidDateTime(r.Timestamp)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "timestamp must be an RFC3339 datetime"})
		} else {
			r.parsedTimestamp = t
		}
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{Field: "location", Message: "latitude and longitude must be provided together"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EffectiveTimestamp returns the validated timestamp, or now when the request
// carried none.
func (r *CheckInRequest) EffectiveTimestamp(now time.Time) time.Time {
	if r.parsedTimestamp.IsZero() {
		return now
	}
	return r.parsedTimestamp
}

type CheckOutRequest struct {
	EmployeeID string   `json:"employee_id"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	parsedTimestamp time.Time
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.Timestamp != "" {
		t, ok := validator.IsValidDateTime(r.Timestamp)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "timestamp must be an RFC3339 datetime"})
		} else {
			r.parsedTimestamp = t
		}
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CheckOutRequest) EffectiveTimestamp(now time.Time) time.Time {
	if r.parsedTimestamp.IsZero() {
		return now
	}
	return r.parsedTimestamp
}

type MarkAbsentRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Reason     string `json:"reason"`
}

func (r *MarkAbsentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkOnLeaveRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

func (r *MarkOnLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ManualEntryRequest is an admin-supplied check-in/out pair. It runs through
// the same computation path as live events and is flagged as manual.
type ManualEntryRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	CheckIn    string  `json:"check_in"`  // RFC3339
	CheckOut   string  `json:"check_out"` // RFC3339
	Notes      *string `json:"notes,omitempty"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	checkIn, inOK := validator.IsValidDateTime(r.CheckIn)
	if !inOK {
		errs = append(errs, validator.ValidationError{Field: "check_in", Message: "check_in must be an RFC3339 datetime"})
	}
	checkOut, outOK := validator.IsValidDateTime(r.CheckOut)
	if !outOK {
		errs = append(errs, validator.ValidationError{Field: "check_out", Message: "check_out must be an RFC3339 datetime"})
	}
	if inOK && outOK && !checkOut.After(checkIn) {
		errs = append(errs, validator.ValidationError{Field: "check_out", Message: "check_out must be after check_in"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkCheckInRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	Timestamp   string   `json:"timestamp,omitempty"`
}

func (r *BulkCheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "employee_ids must not be empty"})
	}
	if r.Timestamp != "" {
		if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
			errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "timestamp must be an RFC3339 datetime"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkMarkAbsentRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	Date        string   `json:"date"`
	Reason      string   `json:"reason"`
}

func (r *BulkMarkAbsentRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "employee_ids must not be empty"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Filter struct {
	EmployeeID   *string `json:"employee_id,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Date         *string `json:"date,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	Status       *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
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
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}

	if f.Status != nil && !timecalc.IsValidStatus(*f.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: present, late, absent, half_day, on_leave, early_departure"})
	}

	if f.Date != nil && *f.Date != "" {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}
	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "employee_name", "check_in", "check_out", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by must be one of: date, employee_name, check_in, check_out, status"})
		}
	} else {
		f.SortBy = "date"
	}
	if f.SortOrder != "" && !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be asc or desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID                    string   `json:"id"`
	EmployeeID            string   `json:"employee_id"`
	EmployeeName          *string  `json:"employee_name,omitempty"`
	EmployeeCode          *string  `json:"employee_code,omitempty"`
	DepartmentName        *string  `json:"department_name,omitempty"`
	Date                  string   `json:"date"`
	ShiftPolicyID         *string  `json:"shift_policy_id,omitempty"`
	CheckIn               *string  `json:"check_in,omitempty"`
	CheckOut              *string  `json:"check_out,omitempty"`
	WorkingMinutes        int      `json:"working_minutes"`
	BreakMinutes          int      `json:"break_minutes"`
	OvertimeMinutes       int      `json:"overtime_minutes"`
	Status                string   `json:"status"`
	IsLate                bool     `json:"is_late"`
	LateMinutes           int      `json:"late_minutes"`
	IsEarlyDeparture      bool     `json:"is_early_departure"`
	EarlyDepartureMinutes int      `json:"early_departure_minutes"`
	LocationID            *string  `json:"location_id,omitempty"`
	LocationName          *string  `json:"location_name,omitempty"`
	CheckInLatitude       *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude      *float64 `json:"check_in_longitude,omitempty"`
	Notes                 *string  `json:"notes,omitempty"`
	IsManualEntry         bool     `json:"is_manual_entry"`
	ApprovedBy            *string  `json:"approved_by,omitempty"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

type CheckInResponse struct {
	Record        RecordResponse `json:"record"`
	IsLate        bool           `json:"is_late"`
	LateMinutes   int            `json:"late_minutes"`
	NoActiveShift bool           `json:"no_active_shift,omitempty"`
	OutsideFence  bool           `json:"outside_geofence,omitempty"`
}

type CheckOutResponse struct {
	Record           RecordResponse `json:"record"`
	IsEarlyDeparture bool           `json:"is_early_departure"`
	OvertimeMinutes  int            `json:"overtime_minutes"`
}

type BulkFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// BulkResult reports per-id outcomes; a bulk operation never aborts as a whole.
type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

type ListResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}
