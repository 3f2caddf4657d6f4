package queue

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
)

// LogGateway is the fallback transport used when no broker is configured.
// Messages are logged and dropped.
type LogGateway struct{}

func NewLogGateway() *LogGateway {
	return &LogGateway{}
}

// Publish implements notification.Gateway.
func (g *LogGateway) Publish(_ context.Context, msg notification.Message) error {
	slog.Info("notification (no broker configured)",
		"recipient_id", msg.RecipientID,
		"kind", msg.Kind,
		"title", msg.Title,
	)
	return nil
}
