package auth

import "errors"

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrMissingIdentity = errors.New("caller identity missing from context")
	ErrForbidden       = errors.New("operation not allowed for this actor")
	ErrAdminRequired   = errors.New("administrative role required")
)
