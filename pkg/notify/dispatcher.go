package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/metrics"
)

const (
	DefaultTransportTimeout = 10 * time.Second
	maxParallelWhatsApp     = 8
)

type Dispatcher struct {
	email    EmailSender
	whatsApp WhatsAppSender
	from     string
	timeout  time.Duration
}

type DispatcherOpts struct {
	Email     EmailSender
	WhatsApp  WhatsAppSender
	EmailFrom string
	// Timeout bounds every single transport call.
	Timeout time.Duration
}

func NewDispatcher(opts DispatcherOpts) *Dispatcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTransportTimeout
	}
	return &Dispatcher{
		email:    opts.Email,
		whatsApp: opts.WhatsApp,
		from:     opts.EmailFrom,
		timeout:  timeout,
	}
}

func observe(channel string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.Alerts.DispatchAttempts.WithLabelValues(channel, result).Inc()
}

// SendEmailAlert sends one email addressed to every recipient.
func (d *Dispatcher) SendEmailAlert(ctx context.Context, recipients []string, alert AlertContext) error {
	if len(recipients) == 0 {
		return nil
	}

	logger := common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryDispatch).
		With(zap.String("channel", ChannelEmail), zap.String("device_id", alert.DeviceID))

	timer := prometheus.NewTimer(metrics.Alerts.DispatchDuration.WithLabelValues(ChannelEmail))
	defer timer.ObserveDuration()

	err := d.sendEmail(ctx, recipients, alert)
	observe(ChannelEmail, err)

	if err != nil {
		logger.Error("Email alert failed", zap.Int("recipients", len(recipients)), zap.Error(err))
		return err
	}

	logger.Info("Email alert sent", zap.Int("recipients", len(recipients)))
	return nil
}

func (d *Dispatcher) sendEmail(ctx context.Context, recipients []string, alert AlertContext) error {
	if d.email == nil {
		return fmt.Errorf("email: %w", ErrTransportNotConfigured)
	}

	subject, err := RenderEmailSubject(alert)
	if err != nil {
		return fmt.Errorf("render email subject: %w", err)
	}
	html, err := RenderEmailHTML(alert)
	if err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return d.email.SendEmail(ctx, d.from, recipients, subject, html)
}

// SendWhatsAppAlert messages each recipient separately and in parallel; one
// failing number never stops the others.
func (d *Dispatcher) SendWhatsAppAlert(ctx context.Context, recipients []string, alert AlertContext) error {
	if len(recipients) == 0 {
		return nil
	}

	logger := common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryDispatch).
		With(zap.String("channel", ChannelWhatsApp), zap.String("device_id", alert.DeviceID))

	timer := prometheus.NewTimer(metrics.Alerts.DispatchDuration.WithLabelValues(ChannelWhatsApp))
	defer timer.ObserveDuration()

	if d.whatsApp == nil {
		err := fmt.Errorf("whatsapp: %w", ErrTransportNotConfigured)
		observe(ChannelWhatsApp, err)
		logger.Error("WhatsApp alert failed", zap.Int("recipients", len(recipients)), zap.Error(err))
		return err
	}

	text, err := RenderWhatsAppText(alert)
	if err != nil {
		err = fmt.Errorf("render whatsapp text: %w", err)
		observe(ChannelWhatsApp, err)
		logger.Error("WhatsApp alert failed", zap.Error(err))
		return err
	}

	var (
		mu     sync.Mutex
		errs   error
		sent   int
		fanout errgroup.Group
	)
	fanout.SetLimit(maxParallelWhatsApp)

	for _, phone := range recipients {
		fanout.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			err := d.whatsApp.SendWhatsAppMessage(callCtx, phone, text)
			observe(ChannelWhatsApp, err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("WhatsApp message failed", zap.String("phone", phone), zap.Error(err))
				errs = multierr.Append(errs, fmt.Errorf("whatsapp %s: %w", phone, err))
				return nil
			}
			sent++
			return nil
		})
	}
	_ = fanout.Wait()

	if errs != nil {
		logger.Error("WhatsApp alert partially failed",
			zap.Int("recipients", len(recipients)), zap.Int("sent", sent), zap.Error(errs))
		if sent > 0 {
			return &PartialDeliveryError{Sent: sent, Err: errs}
		}
		return errs
	}

	logger.Info("WhatsApp alert sent", zap.Int("recipients", len(recipients)))
	return nil
}

// PartialDeliveryError means some, but not all, recipients were reached.
type PartialDeliveryError struct {
	Sent int
	Err  error
}

func (e *PartialDeliveryError) Error() string {
	return fmt.Sprintf("delivered to %d recipients: %v", e.Sent, e.Err)
}

func (e *PartialDeliveryError) Unwrap() error {
	return e.Err
}
