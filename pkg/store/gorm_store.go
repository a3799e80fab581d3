package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/safezone-service/pkg/db"
	"liyu1981.xyz/safezone-service/pkg/models"
)

type GormStore struct {
	Db *db.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(d *db.DB) *GormStore {
	return &GormStore{Db: d}
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.Db.Conn.WithContext(ctx)
}

// first maps gorm's not-found into the (nil, nil) contract.
func first[T any](q *gorm.DB, conds ...any) (*T, error) {
	var record T
	err := q.First(&record, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *GormStore) GetGeofencesByDevice(ctx context.Context, deviceID string) ([]models.Geofence, error) {
	var geofences []models.Geofence
	err := s.conn(ctx).
		Where("device_id = ?", deviceID).
		Order("id asc").
		Find(&geofences).Error
	return geofences, err
}

func (s *GormStore) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	return first[models.Device](s.conn(ctx), "id = ?", deviceID)
}

func (s *GormStore) GetAlertConfig(ctx context.Context, deviceID string) (*models.AlertConfig, error) {
	return first[models.AlertConfig](s.conn(ctx), "device_id = ?", deviceID)
}

func (s *GormStore) UpsertAlertConfig(ctx context.Context, config *models.AlertConfig) error {
	return s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "recipients", "alert_frequency_minutes", "updated_at"}),
	}).Create(config).Error
}

func (s *GormStore) GetAlertStatus(ctx context.Context, deviceID string) (*models.AlertStatus, error) {
	return first[models.AlertStatus](s.conn(ctx), "device_id = ?", deviceID)
}

func (s *GormStore) UpsertAlertStatus(ctx context.Context, status *models.AlertStatus) error {
	return s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_outside_geofence",
			"last_alert_sent_at",
			"paused_until",
			"accompanied_mode_enabled",
			"accompanied_mode_until",
			"updated_at",
		}),
	}).Create(status).Error
}

func (s *GormStore) AppendAlertHistory(ctx context.Context, entry *models.AlertHistory) error {
	return s.conn(ctx).Create(entry).Error
}

func (s *GormStore) CreateDevice(ctx context.Context, device *models.Device) error {
	return s.conn(ctx).Create(device).Error
}

// RecordLocation stores the reading and refreshes the device's last-known
// battery and location time together.
func (s *GormStore) RecordLocation(ctx context.Context, location *models.Location, receivedAt time.Time) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(location).Error; err != nil {
			return err
		}

		updates := map[string]any{"last_location_at": receivedAt}
		if location.BatteryLevel != nil {
			updates["battery_level"] = *location.BatteryLevel
		}

		res := tx.Model(&models.Device{}).Where("id = ?", location.DeviceID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) ListLocations(ctx context.Context, deviceID string, limit int) ([]models.Location, error) {
	var locations []models.Location
	q := s.conn(ctx).Where("device_id = ?", deviceID).Order("timestamp desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&locations).Error
	return locations, err
}

func (s *GormStore) CreateGeofence(ctx context.Context, geofence *models.Geofence) error {
	return s.conn(ctx).Create(geofence).Error
}

func (s *GormStore) DeleteGeofence(ctx context.Context, deviceID string, geofenceID uint) (bool, error) {
	res := s.conn(ctx).
		Where("device_id = ? AND id = ?", deviceID, geofenceID).
		Delete(&models.Geofence{})
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) ListAlertHistory(ctx context.Context, deviceID string) ([]models.AlertHistory, error) {
	var entries []models.AlertHistory
	err := s.conn(ctx).
		Where("device_id = ?", deviceID).
		Order("sent_at desc").
		Find(&entries).Error
	return entries, err
}
