package notify

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/metrics"
)

type BreakerOpts struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
}

var DefaultBreakerOpts = BreakerOpts{
	ConsecutiveFailures: 5,
	OpenTimeout:         time.Minute,
}

func newBreaker(name string, opts BreakerOpts) *gobreaker.CircuitBreaker[struct{}] {
	if opts.ConsecutiveFailures == 0 {
		opts.ConsecutiveFailures = DefaultBreakerOpts.ConsecutiveFailures
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = DefaultBreakerOpts.OpenTimeout
	}

	metrics.Alerts.BreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.ConsecutiveFailures
		},
		// a missing credential is our misconfiguration, not a provider outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMissingCredential)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.Alerts.BreakerState.WithLabelValues(name).Set(float64(to))
			common.GetLoggerWith(common.LoggerNameNotify).Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

type breakerEmailSender struct {
	next EmailSender
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// WithEmailBreaker fails fast once the email provider keeps erroring.
func WithEmailBreaker(next EmailSender, opts BreakerOpts) EmailSender {
	return &breakerEmailSender{next: next, cb: newBreaker("email", opts)}
}

func (b *breakerEmailSender) SendEmail(ctx context.Context, from string, to []string, subject, html string) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.SendEmail(ctx, from, to, subject, html)
	})
	return err
}

type breakerWhatsAppSender struct {
	next WhatsAppSender
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func WithWhatsAppBreaker(next WhatsAppSender, opts BreakerOpts) WhatsAppSender {
	return &breakerWhatsAppSender{next: next, cb: newBreaker("whatsapp", opts)}
}

func (b *breakerWhatsAppSender) SendWhatsAppMessage(ctx context.Context, phoneNumber, text string) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.SendWhatsAppMessage(ctx, phoneNumber, text)
	})
	return err
}
