package iot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/metrics"
	"liyu1981.xyz/safezone-service/pkg/models"
)

const DefaultEvaluationTimeout = 30 * time.Second

type EvaluateFunc func(ctx context.Context, event models.LocationEvent) error

// EvaluationRunner evaluates submitted readings off the caller's goroutine.
// Each device gets one worker draining its readings in submission order, so
// readings of the same device never evaluate concurrently or out of order.
type EvaluationRunner struct {
	evaluate EvaluateFunc
	timeout  time.Duration

	mu     sync.Mutex
	queues map[string][]models.LocationEvent
	wg     sync.WaitGroup
}

var _ LocationSink = (*EvaluationRunner)(nil)

func NewEvaluationRunner(evaluate EvaluateFunc, timeout time.Duration) *EvaluationRunner {
	if timeout <= 0 {
		timeout = DefaultEvaluationTimeout
	}
	return &EvaluationRunner{
		evaluate: evaluate,
		timeout:  timeout,
		queues:   make(map[string][]models.LocationEvent),
	}
}

func (r *EvaluationRunner) Submit(event models.LocationEvent) {
	r.wg.Add(1)

	r.mu.Lock()
	pending, working := r.queues[event.DeviceID]
	r.queues[event.DeviceID] = append(pending, event)
	r.mu.Unlock()

	if !working {
		go r.drain(event.DeviceID)
	}
}

// drain evaluates the device's readings until its queue is empty. The queue
// entry stays in the map while the worker runs, which marks it as busy.
func (r *EvaluationRunner) drain(deviceID string) {
	for {
		r.mu.Lock()
		pending := r.queues[deviceID]
		if len(pending) == 0 {
			delete(r.queues, deviceID)
			r.mu.Unlock()
			return
		}
		event := pending[0]
		r.queues[deviceID] = pending[1:]
		r.mu.Unlock()

		r.run(event)
	}
}

func (r *EvaluationRunner) run(event models.LocationEvent) {
	defer r.wg.Done()

	logger := common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryGeofence).
		With(zap.String("device_id", event.DeviceID))

	defer func() {
		if p := recover(); p != nil {
			logger.Error("Location evaluation panicked", zap.Any("panic", p))
		}
	}()

	metrics.Alerts.EvaluationsInFlight.Inc()
	defer metrics.Alerts.EvaluationsInFlight.Dec()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.evaluate(ctx, event); err != nil {
		logger.Error("Location evaluation failed", zap.Error(err))
	}
}

func (r *EvaluationRunner) pendingDevices() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queues)
}

// Wait blocks until every submitted evaluation has finished.
func (r *EvaluationRunner) Wait() {
	r.wg.Wait()
}

// Shutdown waits for in-flight evaluations or gives up when ctx is done.
func (r *EvaluationRunner) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
