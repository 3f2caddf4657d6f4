package report

import (
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type ExportRequest struct {
	EmployeeID   string `json:"employee_id"`
	DepartmentID string `json:"department_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

func (r ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "Employee ID must be a valid UUID",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "Start date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "End date must be in YYYY-MM-DD format",
		})
	} else if startOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "End date must not be before start date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Row is one exported attendance line. Times are rendered in the engine's
// local timezone; WorkingHours is the "{H}h {M}m" rendering of the stored
// minutes.
type Row struct {
	Date                  string `json:"date"`
	EmployeeName          string `json:"employee_name"`
	EmployeeCode          string `json:"employee_code"`
	Department            string `json:"department"`
	CheckIn               string `json:"check_in"`
	CheckOut              string `json:"check_out"`
	WorkingHours          string `json:"working_hours"`
	Status                string `json:"status"`
	LateMinutes           int    `json:"late_minutes"`
	EarlyDepartureMinutes int    `json:"early_departure_minutes"`
	OvertimeMinutes       int    `json:"overtime_minutes"`
	Location              string `json:"location"`
	Notes                 string `json:"notes"`
}

type ExportResponse struct {
	Rows []Row `json:"rows"`
}
