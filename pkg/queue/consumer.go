package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/metrics"
	"liyu1981.xyz/safezone-service/pkg/models"
)

const DefaultEvaluationTimeout = 30 * time.Second

type Evaluator interface {
	EvaluateEvent(ctx context.Context, event models.LocationEvent) error
}

// Consumer feeds queued location events into the geofence evaluator.
type Consumer struct {
	client    ClientInterface
	evaluator Evaluator
	timeout   time.Duration
	logger    *zap.Logger
	done      chan struct{}
}

// NewConsumer bounds each evaluation by timeout, DefaultEvaluationTimeout
// when it is not positive.
func NewConsumer(client ClientInterface, evaluator Evaluator, timeout time.Duration) (*Consumer, error) {
	if client == nil {
		return nil, fmt.Errorf("queue client cannot be nil")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("evaluator cannot be nil")
	}
	if timeout <= 0 {
		timeout = DefaultEvaluationTimeout
	}
	return &Consumer{
		client:    client,
		evaluator: evaluator,
		timeout:   timeout,
		logger:    common.GetLoggerWith(common.LoggerNameQueue),
		done:      make(chan struct{}),
	}, nil
}

// Start subscribes and processes deliveries until ctx is cancelled or the
// delivery channel closes.
func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.client.Consume()
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("Consumer started")
	go c.processMessages(ctx, deliveries)
	return nil
}

// Done is closed once message processing stops.
func (c *Consumer) Done() <-chan struct{} {
	return c.done
}

func (c *Consumer) processMessages(ctx context.Context, deliveries <-chan amqp.Delivery) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Context canceled, consumer stopping")
			return
		case delivery, ok := <-deliveries:
			if !ok {
				c.logger.Warn("Delivery channel closed")
				return
			}
			c.handleDelivery(ctx, delivery)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	var event models.LocationEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil || event.DeviceID == "" {
		metrics.Alerts.QueueMessages.WithLabelValues("consumed", "rejected").Inc()
		c.logger.Error("Dropping undecodable location event", zap.Error(err), zap.ByteString("body", delivery.Body))
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			c.logger.Error("Failed to nack message", zap.Error(nackErr))
		}
		return
	}

	logger := c.logger.With(zap.String("device_id", event.DeviceID))

	// a failed evaluation is not redelivered, the next reading re-evaluates
	if err := c.evaluate(ctx, event); err != nil {
		metrics.Alerts.QueueMessages.WithLabelValues("consumed", "error").Inc()
		logger.Error("Evaluation failed", zap.Error(err))
	} else {
		metrics.Alerts.QueueMessages.WithLabelValues("consumed", "ok").Inc()
	}

	if err := delivery.Ack(false); err != nil {
		logger.Error("Failed to ack message", zap.Error(err))
	}
}

// evaluate turns a panic into an error so one bad event cannot stop the
// consumer.
func (c *Consumer) evaluate(ctx context.Context, event models.LocationEvent) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("evaluation panicked: %v", p)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.evaluator.EvaluateEvent(ctx, event)
}
