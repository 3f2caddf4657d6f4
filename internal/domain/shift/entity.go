package shift

import (
	"time"
)

// Policy is a named, time-boxed work policy. Policies referenced by historical
// attendance records are treated as immutable: updates only affect days
// processed after the change.
type Policy struct {
	ID                             string
	Name                           string
	Code                           string
	StartTime                      string // "HH:MM" time of day
	EndTime                        string // "HH:MM"; at or before StartTime means night shift
	GracePeriodMinutes             int
	EarlyDepartureThresholdMinutes int
	OvertimeStartAfterMinutes      int
	MinimumWorkMinutes             int
	HalfDayThresholdMinutes        int
	BreakMinutes                   int
	IsNightShift                   bool
	CreatedAt                      time.Time
	UpdatedAt                      time.Time
}

// Assignment binds an employee to a policy with effective dating. At most one
// assignment per employee is active at any instant.
type Assignment struct {
	ID            string
	EmployeeID    string
	ShiftPolicyID string
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	PolicyName *string
	PolicyCode *string
}

// CoversDate reports whether the assignment is in effect on the given day.
func (a Assignment) CoversDate(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if day.Before(a.EffectiveFrom.Truncate(24 * time.Hour)) {
		return false
	}
	if a.EffectiveTo != nil && day.After(a.EffectiveTo.Truncate(24*time.Hour)) {
		return false
	}
	return true
}
