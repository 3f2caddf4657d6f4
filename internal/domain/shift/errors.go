package shift

import "errors"

var (
	ErrPolicyNotFound     = errors.New("shift policy not found")
	ErrPolicyCodeExists   = errors.New("shift policy code already exists")
	ErrAssignmentNotFound = errors.New("no shift assignment found for employee")
	ErrNoActiveShift      = errors.New("no active shift assignment for this date")
)
