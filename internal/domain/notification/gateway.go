package notification

import "context"

// Message kinds published by the engine.
const (
	KindCorrectionApproved = "correction_approved"
	KindCorrectionRejected = "correction_rejected"
	KindLateArrival        = "late_arrival"
	KindEarlyDeparture     = "early_departure"
	KindContinuousAbsence  = "continuous_absence"
)

type Message struct {
	RecipientID string                 `json:"recipient_id"`
	Kind        string                 `json:"kind"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// Gateway is the external best-effort delivery transport. Publish errors are
// logged by callers and never propagated into the mutation that produced the
// message.
type Gateway interface {
	Publish(ctx context.Context, msg Message) error
}
