package iot

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/models"
	_ "liyu1981.xyz/safezone-service/pkg/testing"
)

func TestUpsertAlertConfig(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	ctx := context.Background()

	device := seedDevice(t, iotObj)

	config, err := iotObj.Config.UpsertAlertConfig(ctx, device.ID, &models.AlertConfig{
		Enabled:               true,
		Recipients:            []string{" a@x.com ", "", "phone: +5511999999999"},
		AlertFrequencyMinutes: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MinAlertFrequencyMinutes, config.AlertFrequencyMinutes)
	assert.Equal(t, []string{"a@x.com", "phone:+5511999999999"}, config.Recipients)

	stored, err := iotObj.Store.GetAlertConfig(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, config.Recipients, stored.Recipients)

	config, err = iotObj.Config.UpsertAlertConfig(ctx, device.ID, &models.AlertConfig{
		Enabled:               false,
		AlertFrequencyMinutes: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaxAlertFrequencyMinutes, config.AlertFrequencyMinutes)

	stored, err = iotObj.Store.GetAlertConfig(ctx, device.ID)
	require.NoError(t, err)
	assert.False(t, stored.Enabled)
	assert.Empty(t, stored.Recipients)

	entry := findLog(ParseLogs(&buf), "Upserted alert config")
	require.NotNil(t, entry)
	assert.Equal(t, common.LoggerCategoryConfig, entry[common.LoggerFieldCategory])
	assert.Equal(t, float64(models.MaxAlertFrequencyMinutes), entry["alert_frequency_minutes"])
}

func TestUpsertAlertConfigUnknownDevice(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	_, err := iotObj.Config.UpsertAlertConfig(context.Background(), "missing", &models.AlertConfig{Enabled: true})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestGetOrCreateAlertConfig(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, iotObj, _, _, _ := GetMockIOTWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()
	iotObj.Options.DefaultAlertFrequencyMinutes = 30
	ctx := context.Background()

	device := seedDevice(t, iotObj)

	config, created, err := iotObj.Config.GetOrCreateAlertConfig(ctx, device.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, config.Enabled)
	assert.Equal(t, 30, config.AlertFrequencyMinutes)

	config, created, err = iotObj.Config.GetOrCreateAlertConfig(ctx, device.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 30, config.AlertFrequencyMinutes)
}
