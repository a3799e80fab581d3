package queue

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/metrics"
	"liyu1981.xyz/safezone-service/pkg/models"
)

const DefaultPublishTimeout = 5 * time.Second

// Publisher hands location events to the broker. It satisfies the ingestion
// path's sink contract: Submit returns before the broker confirms.
type Publisher struct {
	client  ClientInterface
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

func NewPublisher(client ClientInterface, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Publisher{
		client:  client,
		timeout: timeout,
		logger:  common.GetLoggerWith(common.LoggerNameQueue),
	}
}

func (p *Publisher) Submit(event models.LocationEvent) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		_ = p.Publish(ctx, event)
	}()
}

// Publish encodes and pushes a single event, waiting for the confirmation.
func (p *Publisher) Publish(ctx context.Context, event models.LocationEvent) error {
	logger := p.logger.With(zap.String("device_id", event.DeviceID))

	body, err := json.Marshal(event)
	if err != nil {
		metrics.Alerts.QueueMessages.WithLabelValues("published", "error").Inc()
		logger.Error("Failed to encode location event", zap.Error(err))
		return err
	}

	if err := p.client.Push(ctx, body); err != nil {
		metrics.Alerts.QueueMessages.WithLabelValues("published", "error").Inc()
		logger.Error("Failed to publish location event", zap.Error(err))
		return err
	}

	metrics.Alerts.QueueMessages.WithLabelValues("published", "ok").Inc()
	logger.Debug("Published location event")
	return nil
}

// Wait blocks until every submitted event has been pushed or has failed.
func (p *Publisher) Wait() {
	p.wg.Wait()
}
