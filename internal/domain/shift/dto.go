package shift

import (
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type CreatePolicyRequest struct {
	Name                           string `json:"name"`
	Code                           string `json:"code"`
	StartTime                      string `json:"start_time"`
	EndTime                        string `json:"end_time"`
	GracePeriodMinutes             int    `json:"grace_period_minutes"`
	EarlyDepartureThresholdMinutes int    `json:"early_departure_threshold_minutes"`
	OvertimeStartAfterMinutes      int    `json:"overtime_start_after_minutes"`
	MinimumWorkMinutes             int    `json:"minimum_work_minutes"`
	HalfDayThresholdMinutes        int    `json:"half_day_threshold_minutes"`
	BreakMinutes                   int    `json:"break_minutes"`
	IsNightShift                   bool   `json:"is_night_shift"`
}

func (r *CreatePolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code is required"})
	}
	if !validator.IsValidTimeOfDay(r.StartTime) {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be in HH:MM format"})
	}
	if !validator.IsValidTimeOfDay(r.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be in HH:MM format"})
	}
	if r.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "grace_period_minutes", Message: "grace_period_minutes must not be negative"})
	}
	if r.EarlyDepartureThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "early_departure_threshold_minutes", Message: "early_departure_threshold_minutes must not be negative"})
	}
	if r.OvertimeStartAfterMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "overtime_start_after_minutes", Message: "overtime_start_after_minutes must not be negative"})
	}
	if r.MinimumWorkMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "minimum_work_minutes", Message: "minimum_work_minutes must not be negative"})
	}
	if r.HalfDayThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "half_day_threshold_minutes", Message: "half_day_threshold_minutes must not be negative"})
	}
	if r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_minutes", Message: "break_minutes must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdatePolicyRequest applies prospectively only; already-computed records are
// never re-derived from the new values.
type UpdatePolicyRequest struct {
	ID                             string  `json:"-"`
	Name                           *string `json:"name,omitempty"`
	StartTime                      *string `json:"start_time,omitempty"`
	EndTime                        *string `json:"end_time,omitempty"`
	GracePeriodMinutes             *int    `json:"grace_period_minutes,omitempty"`
	EarlyDepartureThresholdMinutes *int    `json:"early_departure_threshold_minutes,omitempty"`
	OvertimeStartAfterMinutes      *int    `json:"overtime_start_after_minutes,omitempty"`
	MinimumWorkMinutes             *int    `json:"minimum_work_minutes,omitempty"`
	HalfDayThresholdMinutes        *int    `json:"half_day_threshold_minutes,omitempty"`
	BreakMinutes                   *int    `json:"break_minutes,omitempty"`
	IsNightShift                   *bool   `json:"is_night_shift,omitempty"`
}

func (r *UpdatePolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "policy id is required"})
	}
	if r.StartTime != nil && !validator.IsValidTimeOfDay(*r.StartTime) {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be in HH:MM format"})
	}
	if r.EndTime != nil && !validator.IsValidTimeOfDay(*r.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be in HH:MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignShiftRequest struct {
	EmployeeID    string  `json:"employee_id"`
	ShiftPolicyID string  `json:"shift_policy_id"`
	EffectiveFrom string  `json:"effective_from"` // YYYY-MM-DD
	EffectiveTo   *string `json:"effective_to,omitempty"`
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if validator.IsEmpty(r.ShiftPolicyID) {
		errs = append(errs, validator.ValidationError{Field: "shift_policy_id", Message: "shift_policy_id is required"})
	}
	from, fromOK := validator.IsValidDate(r.EffectiveFrom)
	if !fromOK {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "effective_from must be in YYYY-MM-DD format"})
	}
	if r.EffectiveTo != nil {
		to, toOK := validator.IsValidDate(*r.EffectiveTo)
		if !toOK {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must be in YYYY-MM-DD format"})
		} else if fromOK && to.Before(from) {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "effective_to must not be before effective_from"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PolicyResponse struct {
	ID                             string `json:"id"`
	Name                           string `json:"name"`
	Code                           string `json:"code"`
	StartTime                      string `json:"start_time"`
	EndTime                        string `json:"end_time"`
	GracePeriodMinutes             int    `json:"grace_period_minutes"`
	EarlyDepartureThresholdMinutes int    `json:"early_departure_threshold_minutes"`
	OvertimeStartAfterMinutes      int    `json:"overtime_start_after_minutes"`
	MinimumWorkMinutes             int    `json:"minimum_work_minutes"`
	HalfDayThresholdMinutes        int    `json:"half_day_threshold_minutes"`
	BreakMinutes                   int    `json:"break_minutes"`
	IsNightShift                   bool   `json:"is_night_shift"`
	CreatedAt                      string `json:"created_at"`
	UpdatedAt                      string `json:"updated_at"`
}

type AssignmentResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	ShiftPolicyID string  `json:"shift_policy_id"`
	PolicyName    *string `json:"policy_name,omitempty"`
	PolicyCode    *string `json:"policy_code,omitempty"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
	IsActive      bool    `json:"is_active"`
}
