// Package store is the record store the alert engine reads and writes.
//
// Lookups of single records return (nil, nil) when the record does not
// exist; an error always means the store itself failed.
package store

import (
	"context"
	"errors"
	"time"

	"liyu1981.xyz/safezone-service/pkg/models"
)

// ErrNotFound is returned by writes that require an existing parent record.
var ErrNotFound = errors.New("record not found")

type Store interface {
	GetGeofencesByDevice(ctx context.Context, deviceID string) ([]models.Geofence, error)
	GetDevice(ctx context.Context, deviceID string) (*models.Device, error)
	GetAlertConfig(ctx context.Context, deviceID string) (*models.AlertConfig, error)
	UpsertAlertConfig(ctx context.Context, config *models.AlertConfig) error
	GetAlertStatus(ctx context.Context, deviceID string) (*models.AlertStatus, error)
	UpsertAlertStatus(ctx context.Context, status *models.AlertStatus) error
	AppendAlertHistory(ctx context.Context, entry *models.AlertHistory) error

	CreateDevice(ctx context.Context, device *models.Device) error
	RecordLocation(ctx context.Context, location *models.Location, receivedAt time.Time) error
	ListLocations(ctx context.Context, deviceID string, limit int) ([]models.Location, error)
	CreateGeofence(ctx context.Context, geofence *models.Geofence) error
	DeleteGeofence(ctx context.Context, deviceID string, geofenceID uint) (bool, error)
	ListAlertHistory(ctx context.Context, deviceID string) ([]models.AlertHistory, error)
}
