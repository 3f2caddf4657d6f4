package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/summary"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrMissingIdentity):
		Unauthorized(w, "Missing identity")
	case errors.Is(err, auth.ErrForbidden):
		Forbidden(w, "Operation not allowed")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Administrative role required")

	// Attendance state machine
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in for this date")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		NotFound(w, "No check-in recorded for this date")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out for this date")
	case errors.Is(err, attendance.ErrCheckOutBeforeIn):
		BadRequest(w, "Check-out must be after check-in", nil)
	case errors.Is(err, attendance.ErrHolidayMutation):
		Conflict(w, "Attendance mutations are not allowed on holidays")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAdminOnly):
		Forbidden(w, "Administrative role required")
	case errors.Is(err, attendance.ErrNotOwnRecord):
		Forbidden(w, "Attendance record belongs to another employee")

	// Shift
	case errors.Is(err, shift.ErrPolicyNotFound):
		NotFound(w, "Shift policy not found")
	case errors.Is(err, shift.ErrPolicyCodeExists):
		Conflict(w, "Shift policy code already exists")
	case errors.Is(err, shift.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, shift.ErrNoActiveShift):
		NotFound(w, "No active shift for this date")

	// Correction
	case errors.Is(err, correction.ErrRequestNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, correction.ErrAlreadyReviewed):
		Conflict(w, "Correction request has already been reviewed")
	case errors.Is(err, correction.ErrReviewerForbidden):
		Forbidden(w, "Reviewer must belong to the requester's department")
	case errors.Is(err, correction.ErrReviewNotesMissing):
		BadRequest(w, "Review notes are required when rejecting", nil)

	// Geofence
	case errors.Is(err, geofence.ErrLocationNotFound):
		NotFound(w, "Location not found")
	case errors.Is(err, geofence.ErrLocationNameTaken):
		Conflict(w, "Location name already exists")
	case errors.Is(err, geofence.ErrInvalidCoordinate):
		BadRequest(w, "Coordinate out of range", nil)

	// Summary
	case errors.Is(err, summary.ErrSummaryNotFound):
		NotFound(w, "Summary not found")
	case errors.Is(err, summary.ErrInvalidPeriod):
		BadRequest(w, "Invalid summary period", nil)

	// Calendar / directory
	case errors.Is(err, calendar.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
