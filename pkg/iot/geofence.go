package iot

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/geo"
	"liyu1981.xyz/safezone-service/pkg/metrics"
	"liyu1981.xyz/safezone-service/pkg/models"
)

const (
	stateInside  = "inside"
	stateOutside = "outside"
	stateUnknown = "unknown"
)

func stateName(outside bool) string {
	if outside {
		return stateOutside
	}
	return stateInside
}

func (i *IOT) evaluate(ctx context.Context, deviceID string, lat, lon float64) (bool, error) {
	logger := common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryGeofence).
		With(zap.String("device_id", deviceID))

	geofences, err := i.Store.GetGeofencesByDevice(ctx, deviceID)
	if err != nil {
		metrics.Alerts.Evaluations.WithLabelValues("error").Inc()
		logger.Error("Failed to load geofences", zap.Error(err))
		return false, fmt.Errorf("load geofences: %w", err)
	}

	// no safe zone configured yet is never a violation
	isOutside := false
	result := "no_geofence"
	if len(geofences) > 0 {
		circles := common.Mapper(geofences, func(g models.Geofence) geo.Circle {
			return geo.Circle{
				CenterLatitude:  g.CenterLatitude,
				CenterLongitude: g.CenterLongitude,
				RadiusMeters:    g.RadiusMeters,
			}
		})
		isOutside = !geo.InsideAny(lat, lon, circles)
		result = stateName(isOutside)
	}

	previous, err := i.recordContainment(ctx, deviceID, isOutside)
	if err != nil {
		metrics.Alerts.Evaluations.WithLabelValues("error").Inc()
		logger.Error("Failed to persist alert status", zap.Error(err))
		return isOutside, fmt.Errorf("persist alert status: %w", err)
	}
	metrics.Alerts.Evaluations.WithLabelValues(result).Inc()

	if current := stateName(isOutside); previous != current {
		metrics.Alerts.StateTransitions.WithLabelValues(previous, current).Inc()
		if isOutside {
			logger.Warn("Device left every safe zone",
				zap.String("from", previous), zap.Float64("latitude", lat), zap.Float64("longitude", lon))
		} else {
			logger.Info("Device is inside a safe zone", zap.String("from", previous))
		}
	}

	if isOutside {
		i.handOff(ctx, deviceID, lat, lon)
	}

	return isOutside, nil
}

// recordContainment upserts the inside/outside flag and reports the state it
// replaced.
func (i *IOT) recordContainment(ctx context.Context, deviceID string, isOutside bool) (string, error) {
	unlock := i.statusLocks.Lock(deviceID)
	defer unlock()

	status, err := i.Store.GetAlertStatus(ctx, deviceID)
	if err != nil {
		return stateUnknown, err
	}

	previous := stateUnknown
	if status == nil {
		status = &models.AlertStatus{DeviceID: deviceID}
	} else {
		previous = stateName(status.IsOutsideGeofence)
	}
	status.IsOutsideGeofence = isOutside
	status.UpdatedAt = i.now()

	return previous, i.Store.UpsertAlertStatus(ctx, status)
}

// handOff runs the policy engine. Nothing it does may change the evaluation
// result.
func (i *IOT) handOff(ctx context.Context, deviceID string, lat, lon float64) {
	defer func() {
		if p := recover(); p != nil {
			common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryPolicy).
				Error("Alert policy panicked", zap.String("device_id", deviceID), zap.Any("panic", p))
		}
	}()

	if i.Alert == nil {
		common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryPolicy).
			Error("Alert service not available", zap.String("device_id", deviceID))
		return
	}
	i.Alert.MaybeNotify(ctx, deviceID, lat, lon)
}

func (i *IOT) createGeofence(ctx context.Context, deviceID string, input *models.Geofence) (*models.Geofence, error) {
	logger := common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryGeofence).
		With(zap.String("device_id", deviceID))

	if input.RadiusMeters < models.MinGeofenceRadiusMeters || input.RadiusMeters > models.MaxGeofenceRadiusMeters {
		return nil, fmt.Errorf("%w: radius %.1fm outside %.0f..%.0f", ErrInvalidGeofence,
			input.RadiusMeters, models.MinGeofenceRadiusMeters, models.MaxGeofenceRadiusMeters)
	}

	if _, err := i.getDevice(ctx, deviceID); err != nil {
		return nil, err
	}

	geofence := models.Geofence{
		DeviceID:        deviceID,
		Name:            input.Name,
		CenterLatitude:  input.CenterLatitude,
		CenterLongitude: input.CenterLongitude,
		RadiusMeters:    input.RadiusMeters,
	}
	if err := i.Store.CreateGeofence(ctx, &geofence); err != nil {
		return nil, fmt.Errorf("create geofence: %w", err)
	}

	logger.Info("Created geofence", zap.Uint("geofence_id", geofence.ID), zap.Float64("radius_meters", geofence.RadiusMeters))
	return &geofence, nil
}

func (i *IOT) listGeofences(ctx context.Context, deviceID string) ([]models.Geofence, error) {
	return i.Store.GetGeofencesByDevice(ctx, deviceID)
}

func (i *IOT) deleteGeofence(ctx context.Context, deviceID string, geofenceID uint) error {
	deleted, err := i.Store.DeleteGeofence(ctx, deviceID, geofenceID)
	if err != nil {
		return fmt.Errorf("delete geofence: %w", err)
	}
	if !deleted {
		return ErrGeofenceNotFound
	}

	common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryGeofence).
		Info("Deleted geofence", zap.String("device_id", deviceID), zap.Uint("geofence_id", geofenceID))
	return nil
}

type IGeofenceImpl struct {
	iot *IOT
}

func (ig *IGeofenceImpl) Evaluate(ctx context.Context, deviceID string, lat, lon float64) (bool, error) {
	return ig.iot.evaluate(ctx, deviceID, lat, lon)
}

func (ig *IGeofenceImpl) CreateGeofence(ctx context.Context, deviceID string, input *models.Geofence) (*models.Geofence, error) {
	return ig.iot.createGeofence(ctx, deviceID, input)
}

func (ig *IGeofenceImpl) ListGeofences(ctx context.Context, deviceID string) ([]models.Geofence, error) {
	return ig.iot.listGeofences(ctx, deviceID)
}

func (ig *IGeofenceImpl) DeleteGeofence(ctx context.Context, deviceID string, geofenceID uint) error {
	return ig.iot.deleteGeofence(ctx, deviceID, geofenceID)
}

func (i *IOT) GetIGeofence() IGeofence {
	return &IGeofenceImpl{iot: i}
}
