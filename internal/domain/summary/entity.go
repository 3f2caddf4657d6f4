package summary

// Summary is the per-employee monthly rollup. Regeneration for the same
// (employee, month, year) overwrites the previous row; with no intervening
// record changes the regenerated summary is identical to the stored one,
// so the struct carries derived values only, no generation timestamp.
type Summary struct {
	ID                   string  `json:"id"`
	EmployeeID           string  `json:"employee_id"`
	Month                int     `json:"month"`
	Year                 int     `json:"year"`
	WorkingDays          int     `json:"working_days"`
	PresentDays          int     `json:"present_days"`
	LateDays             int     `json:"late_days"`
	AbsentDays           int     `json:"absent_days"`
	LeaveDays            int     `json:"leave_days"`
	HalfDays             int     `json:"half_days"`
	EarlyDepartureDays   int     `json:"early_departure_days"`
	TotalWorkingMinutes  int     `json:"total_working_minutes"`
	TotalOvertimeMinutes int     `json:"total_overtime_minutes"`
	TotalLateMinutes     int     `json:"total_late_minutes"`
	AttendancePercentage float64 `json:"attendance_percentage"`

	// Join field for list responses.
	EmployeeName string `json:"employee_name,omitempty"`
}
