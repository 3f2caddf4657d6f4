package attendance

import "errors"

var (
	// Check-in/out state machine
	ErrAlreadyCheckedIn  = errors.New("already checked in for this date")
	ErrNotCheckedIn      = errors.New("not checked in yet, check in first")
	ErrAlreadyCheckedOut = errors.New("already checked out for this date")

	// General
	ErrRecordNotFound   = errors.New("attendance record not found")
	ErrCheckOutBeforeIn = errors.New("check-out must be after check-in")
	ErrHolidayMutation  = errors.New("attendance mutations are not allowed on holidays")
	ErrAdminOnly        = errors.New("administrative role required for this operation")
	ErrNotOwnRecord     = errors.New("attendance record belongs to another employee")
)
