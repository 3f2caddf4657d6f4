package alert

import "time"

type Kind string

const (
	KindLateArrival       Kind = "late_arrival"
	KindEarlyDeparture    Kind = "early_departure"
	KindContinuousAbsence Kind = "continuous_absence"
)

type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert is an append-only flag raised against an employee's attendance.
// Alerts are never mutated after creation; resolution happens outside the
// engine.
type Alert struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Kind       Kind      `json:"kind"`
	Severity   Severity  `json:"severity"`
	Date       time.Time `json:"date"`
	Message    string    `json:"message"`
	Minutes    int       `json:"minutes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	EmployeeName string `json:"employee_name,omitempty"`
}
