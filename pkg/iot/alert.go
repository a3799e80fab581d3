package iot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/metrics"
	"liyu1981.xyz/safezone-service/pkg/models"
	"liyu1981.xyz/safezone-service/pkg/notify"
)

// recordTimeout bounds the post-dispatch writes, which run detached from the
// evaluation context.
const recordTimeout = 5 * time.Second

// Outcome is why the policy engine did or did not send an alert.
type Outcome string

const (
	OutcomeSent          Outcome = "sent"
	OutcomeNoConfig      Outcome = "no_config"
	OutcomeDisabled      Outcome = "disabled"
	OutcomeNoRecipients  Outcome = "no_recipients"
	OutcomePaused        Outcome = "paused"
	OutcomeAccompanied   Outcome = "accompanied"
	OutcomeThrottled     Outcome = "throttled"
	OutcomeDeviceMissing Outcome = "device_missing"
	OutcomeStoreError    Outcome = "store_error"
)

func (i *IOT) maybeNotify(ctx context.Context, deviceID string, lat, lon float64) {
	outcome := i.decide(ctx, deviceID, lat, lon)
	metrics.Alerts.PolicyOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (i *IOT) decide(ctx context.Context, deviceID string, lat, lon float64) Outcome {
	logger := common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryPolicy).
		With(zap.String("device_id", deviceID))
	now := i.now()

	config, created, err := i.Config.GetOrCreateAlertConfig(ctx, deviceID)
	if err != nil {
		logger.Error("Failed to load alert config", zap.Error(err))
		return OutcomeStoreError
	}
	if created {
		logger.Info("No alert config yet, created default and skipped alert")
		return OutcomeNoConfig
	}

	if !config.Enabled {
		logger.Info("Alerts disabled, skipped alert")
		return OutcomeDisabled
	}

	emails, phones := models.PartitionRecipients(config.DecodedRecipients())
	if len(emails) == 0 && len(phones) == 0 {
		logger.Info("No recipients configured, skipped alert")
		return OutcomeNoRecipients
	}

	status, err := i.Status.GetOrCreateAlertStatus(ctx, deviceID, true)
	if err != nil {
		logger.Error("Failed to load alert status", zap.Error(err))
		return OutcomeStoreError
	}

	if status.IsPaused(now) {
		logger.Info("Alerts paused, skipped alert", zap.Timep("paused_until", status.PausedUntil))
		return OutcomePaused
	}

	if status.IsAccompanied(now) {
		logger.Info("Accompanied mode active, skipped alert", zap.Timep("accompanied_until", status.AccompaniedModeUntil))
		return OutcomeAccompanied
	}

	if status.IsThrottled(now, config.Frequency()) {
		logger.Info("Alert throttled",
			zap.Timep("last_alert_sent_at", status.LastAlertSentAt),
			zap.Duration("interval", config.Frequency()),
		)
		return OutcomeThrottled
	}

	device, err := i.Store.GetDevice(ctx, deviceID)
	if err != nil {
		logger.Error("Failed to load device", zap.Error(err))
		return OutcomeStoreError
	}
	if device == nil {
		logger.Error("Device missing for alert status, skipped alert")
		return OutcomeDeviceMissing
	}

	alert := notify.AlertContext{
		DeviceID:    deviceID,
		DeviceName:  device.Name,
		PatientName: device.PatientName,
		Timestamp:   now,
		Latitude:    lat,
		Longitude:   lon,
		PauseLink:   i.PauseLink(deviceID),
	}

	delivered := i.dispatch(ctx, logger, emails, phones, alert)

	// a transport that ate the evaluation deadline must not also skip the
	// throttle mark and history row
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if delivered || i.Options.AdvanceThrottleOnFailure {
		if err := i.markAlertSent(recordCtx, deviceID, now); err != nil {
			logger.Error("Failed to advance last_alert_sent_at", zap.Error(err))
		}
	} else {
		logger.Warn("Every channel failed, throttle clock left unchanged")
	}

	history := &models.AlertHistory{
		DeviceID:        deviceID,
		AlertType:       models.AlertTypeGeofenceViolation,
		Latitude:        lat,
		Longitude:       lon,
		EmailRecipients: emails,
		PhoneRecipients: phones,
		SentAt:          now,
	}
	if err := i.Store.AppendAlertHistory(recordCtx, history); err != nil {
		logger.Error("Failed to append alert history", zap.Error(err))
	}

	logger.Info("Alert dispatched",
		zap.Bool("delivered", delivered),
		zap.Int("email_recipients", len(emails)),
		zap.Int("phone_recipients", len(phones)),
	)
	return OutcomeSent
}

// dispatch runs both channels side by side and reports whether at least one
// of them reached somebody.
func (i *IOT) dispatch(ctx context.Context, logger *zap.Logger, emails, phones []string, alert notify.AlertContext) bool {
	if i.Notifier == nil {
		logger.Error("Notifier not configured, alert not delivered")
		return false
	}

	var (
		channels    errgroup.Group
		emailErr    error
		whatsAppErr error
	)

	if len(emails) > 0 {
		channels.Go(func() error {
			emailErr = i.Notifier.SendEmailAlert(ctx, emails, alert)
			return nil
		})
	}
	if len(phones) > 0 {
		channels.Go(func() error {
			whatsAppErr = i.Notifier.SendWhatsAppAlert(ctx, phones, alert)
			return nil
		})
	}
	_ = channels.Wait()

	var partial *notify.PartialDeliveryError
	emailOK := len(emails) > 0 && emailErr == nil
	whatsAppOK := len(phones) > 0 && (whatsAppErr == nil || errors.As(whatsAppErr, &partial))

	if err := multierr.Combine(
		wrapChannel(notify.ChannelEmail, emailErr),
		wrapChannel(notify.ChannelWhatsApp, whatsAppErr),
	); err != nil {
		logger.Warn("Alert dispatch had failures", zap.Error(err))
	}

	return emailOK || whatsAppOK
}

func wrapChannel(channel string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", channel, err)
}

// PauseLink is the deep link caregivers follow to pause alerts for an hour.
func (i *IOT) PauseLink(deviceID string) string {
	return fmt.Sprintf("%s/devices/%s/pause", strings.TrimRight(i.Options.PublicURL, "/"), url.PathEscape(deviceID))
}

func (i *IOT) getDeviceAlertHistory(ctx context.Context, deviceID string) ([]models.AlertHistory, error) {
	return i.Store.ListAlertHistory(ctx, deviceID)
}

type IAlertImpl struct {
	iot *IOT
}

func (ia *IAlertImpl) MaybeNotify(ctx context.Context, deviceID string, lat, lon float64) {
	ia.iot.maybeNotify(ctx, deviceID, lat, lon)
}

func (ia *IAlertImpl) GetDeviceAlertHistory(ctx context.Context, deviceID string) ([]models.AlertHistory, error) {
	return ia.iot.getDeviceAlertHistory(ctx, deviceID)
}

func (i *IOT) GetIAlert() IAlert {
	return &IAlertImpl{iot: i}
}
