package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationQueue is the queue the engine publishes to and the notifier
// worker consumes from.
const NotificationQueue = "attendance_notifications"

// Declare sets up the durable notification queue on the given channel. Both
// the publisher and the consumer declare it so startup order does not matter.
func Declare(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(
		NotificationQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Publisher pushes notification messages onto RabbitMQ. It satisfies
// notification.Gateway; delivery failures surface to the caller, who treats
// them as best-effort.
type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(ch *amqp.Channel) (*Publisher, error) {
	if _, err := Declare(ch); err != nil {
		return nil, fmt.Errorf("failed to declare notification queue: %w", err)
	}
	return &Publisher{ch: ch}, nil
}

// Publish implements notification.Gateway.
func (p *Publisher) Publish(ctx context.Context, msg notification.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = p.ch.PublishWithContext(
		ctx,
		"",
		NotificationQueue,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   uuid.NewString(),
			Timestamp:   time.Now().UTC(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}
