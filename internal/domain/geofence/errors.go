package geofence

import "errors"

var (
	ErrLocationNotFound  = errors.New("location not found")
	ErrLocationNameTaken = errors.New("location name already exists")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
)
