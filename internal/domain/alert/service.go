package alert

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
)

// Thresholds for raising and escalating alerts.
const (
	LateHighSeverityMinutes  = 30
	EarlyHighSeverityMinutes = 30
	AbsenceWindowDays        = 7
	AbsenceHighCount         = 3
)

// Service raises attendance alerts. Raising is best-effort from the
// caller's point of view: attendance operations fire the evaluation in the
// background and never fail on alert errors.
type Service interface {
	// LateArrival records a late-arrival alert. Lateness above
	// LateHighSeverityMinutes escalates to high severity.
	LateArrival(ctx context.Context, employeeID string, date time.Time, minutes int) error

	// EarlyDeparture records an early-departure alert. Minutes above
	// EarlyHighSeverityMinutes escalate to high severity.
	EarlyDeparture(ctx context.Context, employeeID string, date time.Time, minutes int) error

	// EvaluateAbsence checks the trailing AbsenceWindowDays window ending
	// at date and raises a high-severity alert when absences reach
	// AbsenceHighCount.
	EvaluateAbsence(ctx context.Context, employeeID string, date time.Time) error

	List(ctx context.Context, actor auth.Context, filter Filter) (ListResponse, error)
}
