package iot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/models"
)

// getOrCreateAlertStatus is the one place a status record is materialised.
// defaultOutside seeds is_outside_geofence for a brand new record.
func (i *IOT) getOrCreateAlertStatus(ctx context.Context, deviceID string, defaultOutside bool) (*models.AlertStatus, error) {
	unlock := i.statusLocks.Lock(deviceID)
	defer unlock()
	return i.loadOrCreateStatus(ctx, deviceID, defaultOutside)
}

// loadOrCreateStatus expects the caller to hold the device's status lock.
func (i *IOT) loadOrCreateStatus(ctx context.Context, deviceID string, defaultOutside bool) (*models.AlertStatus, error) {
	status, err := i.Store.GetAlertStatus(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("load alert status: %w", err)
	}
	if status != nil {
		return status, nil
	}

	status = &models.AlertStatus{DeviceID: deviceID, IsOutsideGeofence: defaultOutside}
	if err := i.Store.UpsertAlertStatus(ctx, status); err != nil {
		return nil, fmt.Errorf("create alert status: %w", err)
	}
	return status, nil
}

// getAlertStatus never writes; a device without a record reads as inside
// with no suppression.
func (i *IOT) getAlertStatus(ctx context.Context, deviceID string) (*models.AlertStatus, error) {
	if _, err := i.getDevice(ctx, deviceID); err != nil {
		return nil, err
	}

	status, err := i.Store.GetAlertStatus(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("load alert status: %w", err)
	}
	if status == nil {
		return &models.AlertStatus{DeviceID: deviceID}, nil
	}
	return status, nil
}

// mutateStatus applies fn to the device's status under its lock and persists
// the result.
func (i *IOT) mutateStatus(ctx context.Context, deviceID string, fn func(status *models.AlertStatus)) (*models.AlertStatus, error) {
	if _, err := i.getDevice(ctx, deviceID); err != nil {
		return nil, err
	}

	unlock := i.statusLocks.Lock(deviceID)
	defer unlock()

	status, err := i.loadOrCreateStatus(ctx, deviceID, false)
	if err != nil {
		return nil, err
	}

	fn(status)
	status.UpdatedAt = i.now()

	if err := i.Store.UpsertAlertStatus(ctx, status); err != nil {
		return nil, fmt.Errorf("update alert status: %w", err)
	}
	return status, nil
}

func (i *IOT) pauseAlerts(ctx context.Context, deviceID string, until time.Time) (*models.AlertStatus, error) {
	if !until.After(i.now()) {
		return nil, ErrInvalidWindow
	}

	status, err := i.mutateStatus(ctx, deviceID, func(status *models.AlertStatus) {
		status.PausedUntil = &until
	})
	if err != nil {
		return nil, err
	}

	common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryStatus).
		Info("Paused alerts", zap.String("device_id", deviceID), zap.Time("paused_until", until))
	return status, nil
}

func (i *IOT) resumeAlerts(ctx context.Context, deviceID string) (*models.AlertStatus, error) {
	status, err := i.mutateStatus(ctx, deviceID, func(status *models.AlertStatus) {
		status.PausedUntil = nil
	})
	if err != nil {
		return nil, err
	}

	common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryStatus).
		Info("Resumed alerts", zap.String("device_id", deviceID))
	return status, nil
}

func (i *IOT) setAccompaniedMode(ctx context.Context, deviceID string, enabled bool, until *time.Time) (*models.AlertStatus, error) {
	if enabled && (until == nil || !until.After(i.now())) {
		return nil, ErrInvalidWindow
	}

	status, err := i.mutateStatus(ctx, deviceID, func(status *models.AlertStatus) {
		status.AccompaniedModeEnabled = enabled
		if enabled {
			status.AccompaniedModeUntil = until
		} else {
			status.AccompaniedModeUntil = nil
		}
	})
	if err != nil {
		return nil, err
	}

	common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryStatus).
		Info("Set accompanied mode",
			zap.String("device_id", deviceID),
			zap.Bool("enabled", enabled),
			zap.Timep("until", status.AccompaniedModeUntil),
		)
	return status, nil
}

// markAlertSent advances the throttle clock.
func (i *IOT) markAlertSent(ctx context.Context, deviceID string, at time.Time) error {
	unlock := i.statusLocks.Lock(deviceID)
	defer unlock()

	status, err := i.loadOrCreateStatus(ctx, deviceID, true)
	if err != nil {
		return err
	}
	status.LastAlertSentAt = &at
	status.UpdatedAt = i.now()
	return i.Store.UpsertAlertStatus(ctx, status)
}

type IStatusImpl struct {
	iot *IOT
}

func (is *IStatusImpl) GetOrCreateAlertStatus(ctx context.Context, deviceID string, defaultOutside bool) (*models.AlertStatus, error) {
	return is.iot.getOrCreateAlertStatus(ctx, deviceID, defaultOutside)
}

func (is *IStatusImpl) GetAlertStatus(ctx context.Context, deviceID string) (*models.AlertStatus, error) {
	return is.iot.getAlertStatus(ctx, deviceID)
}

func (is *IStatusImpl) PauseAlerts(ctx context.Context, deviceID string, until time.Time) (*models.AlertStatus, error) {
	return is.iot.pauseAlerts(ctx, deviceID, until)
}

func (is *IStatusImpl) ResumeAlerts(ctx context.Context, deviceID string) (*models.AlertStatus, error) {
	return is.iot.resumeAlerts(ctx, deviceID)
}

func (is *IStatusImpl) SetAccompaniedMode(ctx context.Context, deviceID string, enabled bool, until *time.Time) (*models.AlertStatus, error) {
	return is.iot.setAccompaniedMode(ctx, deviceID, enabled, until)
}

func (i *IOT) GetIStatus() IStatus {
	return &IStatusImpl{iot: i}
}
