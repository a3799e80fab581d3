package iot

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"

	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/models"
	_ "liyu1981.xyz/safezone-service/pkg/testing"
)

func TestEvaluate_NoGeofenceIsNeverAViolation(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, mockAlert, _, _ := GetMockIOTWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()
	ctx := context.Background()

	device := seedDevice(t, iotObj)
	mockAlert.EXPECT().MaybeNotify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	for _, point := range [][2]float64{{0, 0}, {89.9, 179.9}, {-45, -120}} {
		isOutside, err := iotObj.Geofence.Evaluate(ctx, device.ID, point[0], point[1])
		require.NoError(t, err)
		assert.False(t, isOutside)
	}

	// still persisted for observability
	status := loadStatus(t, iotObj, device.ID)
	assert.False(t, status.IsOutsideGeofence)
}

func TestEvaluate_UnionOfGeofences(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, mockAlert, _, _ := GetMockIOTWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()
	ctx := context.Background()

	device := seedDevice(t, iotObj)
	seedGeofence(t, iotObj, device.ID, 0, 0, 100)
	seedGeofence(t, iotObj, device.ID, 0, 0.01, 200)

	// inside the second zone only
	isOutside, err := iotObj.Geofence.Evaluate(ctx, device.ID, 0, 0.0101)
	require.NoError(t, err)
	assert.False(t, isOutside)

	// inside the first zone only
	isOutside, err = iotObj.Geofence.Evaluate(ctx, device.ID, 0.0001, 0)
	require.NoError(t, err)
	assert.False(t, isOutside)

	mockAlert.EXPECT().MaybeNotify(gomock.Any(), device.ID, outsideLat, outsideLon).Times(1)
	isOutside, err = iotObj.Geofence.Evaluate(ctx, device.ID, outsideLat, outsideLon)
	require.NoError(t, err)
	assert.True(t, isOutside)
}

func TestEvaluate_InsideResetsStatusWithoutAlert(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, mockAlert, _, _ := GetMockIOTWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()
	ctx := context.Background()

	device := seedDevice(t, iotObj)
	seedGeofence(t, iotObj, device.ID, 0, 0, 100)

	mockAlert.EXPECT().MaybeNotify(gomock.Any(), device.ID, gomock.Any(), gomock.Any()).Times(1)
	_, err := iotObj.Geofence.Evaluate(ctx, device.ID, outsideLat, outsideLon)
	require.NoError(t, err)
	assert.True(t, loadStatus(t, iotObj, device.ID).IsOutsideGeofence)

	_, err = iotObj.Geofence.Evaluate(ctx, device.ID, 0, 0)
	require.NoError(t, err)
	assert.False(t, loadStatus(t, iotObj, device.ID).IsOutsideGeofence)
}

func TestEvaluate_LogsTransitions(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	ctrl, iotObj, mockAlert, _, _ := GetMockIOTWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()
	ctx := context.Background()

	device := seedDevice(t, iotObj)
	seedGeofence(t, iotObj, device.ID, 0, 0, 100)
	mockAlert.EXPECT().MaybeNotify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	_, err := iotObj.Geofence.Evaluate(ctx, device.ID, outsideLat, outsideLon)
	require.NoError(t, err)
	_, err = iotObj.Geofence.Evaluate(ctx, device.ID, 0, 0)
	require.NoError(t, err)

	logs := ParseLogs(&buf)

	left := findLog(logs, "Device left every safe zone")
	require.NotNil(t, left)
	assert.Equal(t, "warn", left["level"])
	assert.Equal(t, device.ID, left["device_id"])
	assert.Equal(t, "unknown", left["from"])
	assert.Equal(t, common.LoggerCategoryGeofence, left[common.LoggerFieldCategory])

	back := findLog(logs, "Device is inside a safe zone")
	require.NotNil(t, back)
	assert.Equal(t, "outside", back["from"])
}

func TestEvaluate_StoreErrorSkipsAlerting(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, mockAlert, _, _ := GetMockIOTWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	device := seedDevice(t, iotObj)
	iotObj.Store = &failingStore{Store: iotObj.Store, failGeofences: true}
	mockAlert.EXPECT().MaybeNotify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := iotObj.Geofence.Evaluate(context.Background(), device.ID, outsideLat, outsideLon)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestEvaluate_HandOffPanicDoesNotEscape(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, mockAlert, _, _ := GetMockIOTWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	device := seedDevice(t, iotObj)
	seedGeofence(t, iotObj, device.ID, 0, 0, 100)
	mockAlert.EXPECT().MaybeNotify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(context.Context, string, float64, float64) { panic("boom") })

	isOutside, err := iotObj.Geofence.Evaluate(context.Background(), device.ID, outsideLat, outsideLon)
	assert.NoError(t, err)
	assert.True(t, isOutside)
}

func TestGeofenceCRUD(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ctx := context.Background()

	device := seedDevice(t, iotObj)

	_, err := iotObj.Geofence.CreateGeofence(ctx, device.ID, &models.Geofence{Name: "Tiny", RadiusMeters: 5})
	assert.ErrorIs(t, err, ErrInvalidGeofence)

	_, err = iotObj.Geofence.CreateGeofence(ctx, "missing", &models.Geofence{Name: "Home", RadiusMeters: 100})
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	created, err := iotObj.Geofence.CreateGeofence(ctx, device.ID, &models.Geofence{
		Name: "Home", CenterLatitude: -23.55, CenterLongitude: -46.63, RadiusMeters: 150,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	geofences, err := iotObj.Geofence.ListGeofences(ctx, device.ID)
	require.NoError(t, err)
	require.Len(t, geofences, 1)
	assert.Equal(t, "Home", geofences[0].Name)

	require.NoError(t, iotObj.Geofence.DeleteGeofence(ctx, device.ID, created.ID))
	assert.ErrorIs(t, iotObj.Geofence.DeleteGeofence(ctx, device.ID, created.ID), ErrGeofenceNotFound)
}
