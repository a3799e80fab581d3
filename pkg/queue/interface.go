package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ClientInterface is the slice of AMQP behaviour the publisher and consumer
// rely on.
type ClientInterface interface {
	// Push publishes data and waits for the broker confirmation.
	Push(ctx context.Context, data []byte) error

	// Consume streams deliveries; each one must be acked or nacked.
	Consume() (<-chan amqp.Delivery, error)

	Close() error
}

var _ ClientInterface = (*Client)(nil)
