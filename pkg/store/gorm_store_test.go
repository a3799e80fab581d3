package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/db"
	"liyu1981.xyz/safezone-service/pkg/models"
	_ "liyu1981.xyz/safezone-service/pkg/testing"
)

func newTestStore(t *testing.T) (*GormStore, *models.Device) {
	common.SetTestLoggerNop()

	s := NewGormStore(db.GetInstance(db.UseMemorySqliteDialector()))
	device := &models.Device{
		ID:          uuid.NewString(),
		UserID:      uuid.NewString(),
		HardwareID:  uuid.NewString(),
		Name:        "Pulseira",
		PatientName: "Maria",
	}
	require.NoError(t, s.CreateDevice(context.Background(), device))
	return s, device
}

func TestGormStore_AbsentRecords(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	missing := uuid.NewString()

	device, err := s.GetDevice(ctx, missing)
	assert.NoError(t, err)
	assert.Nil(t, device)

	config, err := s.GetAlertConfig(ctx, missing)
	assert.NoError(t, err)
	assert.Nil(t, config)

	status, err := s.GetAlertStatus(ctx, missing)
	assert.NoError(t, err)
	assert.Nil(t, status)

	geofences, err := s.GetGeofencesByDevice(ctx, missing)
	assert.NoError(t, err)
	assert.Empty(t, geofences)
}

func TestGormStore_UpsertAlertConfig(t *testing.T) {
	s, device := newTestStore(t)
	ctx := context.Background()

	config := models.NewDefaultAlertConfig(device.ID)
	require.NoError(t, s.UpsertAlertConfig(ctx, config))

	config = &models.AlertConfig{
		DeviceID:              device.ID,
		Enabled:               false,
		Recipients:            []string{"a@x.com", "phone:5511999999999"},
		AlertFrequencyMinutes: 30,
	}
	require.NoError(t, s.UpsertAlertConfig(ctx, config))

	saved, err := s.GetAlertConfig(ctx, device.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.False(t, saved.Enabled)
	assert.Equal(t, []string{"a@x.com", "phone:5511999999999"}, saved.Recipients)
	assert.Equal(t, 30, saved.AlertFrequencyMinutes)
}

func TestGormStore_UpsertAlertStatus(t *testing.T) {
	s, device := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	paused := now.Add(30 * time.Minute)

	require.NoError(t, s.UpsertAlertStatus(ctx, &models.AlertStatus{
		DeviceID:          device.ID,
		IsOutsideGeofence: true,
		LastAlertSentAt:   &now,
		PausedUntil:       &paused,
	}))

	require.NoError(t, s.UpsertAlertStatus(ctx, &models.AlertStatus{
		DeviceID:          device.ID,
		IsOutsideGeofence: false,
		LastAlertSentAt:   &now,
	}))

	saved, err := s.GetAlertStatus(ctx, device.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.False(t, saved.IsOutsideGeofence)
	require.NotNil(t, saved.LastAlertSentAt)
	assert.True(t, now.Equal(*saved.LastAlertSentAt))
	assert.Nil(t, saved.PausedUntil, "upsert writes the whole state")
}

func TestGormStore_RecordLocation(t *testing.T) {
	s, device := newTestStore(t)
	ctx := context.Background()

	battery := 77
	receivedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.RecordLocation(ctx, &models.Location{
		DeviceID:     device.ID,
		Latitude:     -23.55,
		Longitude:    -46.63,
		BatteryLevel: &battery,
		Timestamp:    receivedAt.Add(-time.Minute),
	}, receivedAt))

	saved, err := s.GetDevice(ctx, device.ID)
	require.NoError(t, err)
	require.NotNil(t, saved.BatteryLevel)
	assert.Equal(t, 77, *saved.BatteryLevel)
	require.NotNil(t, saved.LastLocationAt)
	assert.True(t, receivedAt.Equal(*saved.LastLocationAt))

	locations, err := s.ListLocations(ctx, device.ID, 10)
	require.NoError(t, err)
	assert.Len(t, locations, 1)

	err = s.RecordLocation(ctx, &models.Location{DeviceID: uuid.NewString(), Timestamp: receivedAt}, receivedAt)
	assert.Error(t, err)
}

func TestGormStore_Geofences(t *testing.T) {
	s, device := newTestStore(t)
	ctx := context.Background()

	home := &models.Geofence{DeviceID: device.ID, Name: "Casa", CenterLatitude: 0, CenterLongitude: 0, RadiusMeters: 100}
	park := &models.Geofence{DeviceID: device.ID, Name: "Parque", CenterLatitude: 0, CenterLongitude: 0.01, RadiusMeters: 200}
	require.NoError(t, s.CreateGeofence(ctx, home))
	require.NoError(t, s.CreateGeofence(ctx, park))

	geofences, err := s.GetGeofencesByDevice(ctx, device.ID)
	require.NoError(t, err)
	assert.Len(t, geofences, 2)

	deleted, err := s.DeleteGeofence(ctx, device.ID, home.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteGeofence(ctx, uuid.NewString(), park.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "geofences are scoped by device")

	geofences, err = s.GetGeofencesByDevice(ctx, device.ID)
	require.NoError(t, err)
	require.Len(t, geofences, 1)
	assert.Equal(t, "Parque", geofences[0].Name)
}

func TestGormStore_AlertHistory(t *testing.T) {
	s, device := newTestStore(t)
	ctx := context.Background()

	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	for _, sentAt := range []time.Time{older, newer} {
		require.NoError(t, s.AppendAlertHistory(ctx, &models.AlertHistory{
			DeviceID:        device.ID,
			AlertType:       models.AlertTypeGeofenceViolation,
			EmailRecipients: []string{"a@x.com"},
			PhoneRecipients: []string{},
			SentAt:          sentAt,
		}))
	}

	entries, err := s.ListAlertHistory(ctx, device.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].SentAt.After(entries[1].SentAt))
	assert.Equal(t, []string{"a@x.com"}, entries[0].EmailRecipients)
}
