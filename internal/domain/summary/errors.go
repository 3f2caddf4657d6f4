package summary

import "errors"

var (
	ErrSummaryNotFound = errors.New("summary not found")
	ErrInvalidPeriod   = errors.New("invalid summary period")
)
