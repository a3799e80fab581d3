package iot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/metrics"
	"liyu1981.xyz/safezone-service/pkg/models"
	"liyu1981.xyz/safezone-service/pkg/store"
)

type sourceKey struct{}

const (
	SourceHTTP = "http"
	SourceGRPC = "grpc"
)

// WithSource tags ctx with the surface a reading arrived on.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func sourceFrom(ctx context.Context) string {
	if source, ok := ctx.Value(sourceKey{}).(string); ok {
		return source
	}
	return "unknown"
}

func (i *IOT) ingestLocation(ctx context.Context, deviceID string, input *models.Location) (*models.Location, error) {
	logger := common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryIngest).
		With(zap.String("device_id", deviceID))
	source := sourceFrom(ctx)

	location, err := i.recordLocation(ctx, deviceID, input)
	if err != nil {
		metrics.Alerts.LocationsIngested.WithLabelValues(source, "error").Inc()
		logger.Warn("Rejected location", zap.Error(err))
		return nil, err
	}
	metrics.Alerts.LocationsIngested.WithLabelValues(source, "stored").Inc()

	logger.Info("Stored location",
		zap.Float64("latitude", location.Latitude),
		zap.Float64("longitude", location.Longitude),
		zap.Time("timestamp", location.Timestamp),
	)

	i.onLocationIngested(models.LocationEvent{
		DeviceID:  deviceID,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
		Timestamp: location.Timestamp,
	})

	return location, nil
}

func (i *IOT) recordLocation(ctx context.Context, deviceID string, input *models.Location) (*models.Location, error) {
	device, err := i.Store.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("load device: %w", err)
	}
	if device == nil {
		return nil, ErrDeviceNotFound
	}

	now := i.now()
	location := models.Location{
		DeviceID:     deviceID,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		BatteryLevel: input.BatteryLevel,
		Timestamp:    input.Timestamp,
	}
	if location.Timestamp.IsZero() {
		location.Timestamp = now
	}

	if err := i.Store.RecordLocation(ctx, &location, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("record location: %w", err)
	}
	return &location, nil
}

// onLocationIngested hands the reading to the sink; the caller never waits
// for the evaluation.
func (i *IOT) onLocationIngested(event models.LocationEvent) {
	if i.Sink == nil {
		common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryIngest).
			Warn("No location sink configured, skipping evaluation", zap.String("device_id", event.DeviceID))
		return
	}
	i.Sink.Submit(event)
}

func (i *IOT) getRecentLocations(ctx context.Context, deviceID string, limit int) ([]models.Location, error) {
	return i.Store.ListLocations(ctx, deviceID, limit)
}

type ILocationImpl struct {
	iot *IOT
}

func (il *ILocationImpl) IngestLocation(ctx context.Context, deviceID string, input *models.Location) (*models.Location, error) {
	return il.iot.ingestLocation(ctx, deviceID, input)
}

func (il *ILocationImpl) GetRecentLocations(ctx context.Context, deviceID string, limit int) ([]models.Location, error) {
	return il.iot.getRecentLocations(ctx, deviceID, limit)
}

func (i *IOT) GetILocation() ILocation {
	return &ILocationImpl{iot: i}
}
