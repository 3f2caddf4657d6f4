package correction

import "errors"

var (
	ErrRequestNotFound    = errors.New("correction request not found")
	ErrAlreadyReviewed    = errors.New("correction request has already been reviewed")
	ErrReviewerForbidden  = errors.New("reviewer must belong to the requester's department")
	ErrReviewNotesMissing = errors.New("review notes are required when rejecting")
)
