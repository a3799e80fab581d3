package iot

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/models"
)

func (i *IOT) upsertAlertConfig(ctx context.Context, deviceID string, input *models.AlertConfig) (*models.AlertConfig, error) {
	logger := common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryConfig).
		With(zap.String("device_id", deviceID))

	if _, err := i.getDevice(ctx, deviceID); err != nil {
		return nil, err
	}

	config := models.AlertConfig{
		DeviceID:              deviceID,
		Enabled:               input.Enabled,
		AlertFrequencyMinutes: models.ClampAlertFrequency(input.AlertFrequencyMinutes),
	}
	// normalise through the tagged form so stored entries are always trimmed
	config.SetRecipients(models.ParseRecipients(input.Recipients))

	if err := i.Store.UpsertAlertConfig(ctx, &config); err != nil {
		return nil, fmt.Errorf("upsert alert config: %w", err)
	}

	emails, phones := models.PartitionRecipients(config.DecodedRecipients())
	logger.Info("Upserted alert config",
		zap.Bool("enabled", config.Enabled),
		zap.Int("email_recipients", len(emails)),
		zap.Int("phone_recipients", len(phones)),
		zap.Int("alert_frequency_minutes", config.AlertFrequencyMinutes),
	)
	return &config, nil
}

// getOrCreateAlertConfig is the one place a default config is materialised.
// created reports whether this call wrote it.
func (i *IOT) getOrCreateAlertConfig(ctx context.Context, deviceID string) (*models.AlertConfig, bool, error) {
	config, err := i.Store.GetAlertConfig(ctx, deviceID)
	if err != nil {
		return nil, false, fmt.Errorf("load alert config: %w", err)
	}
	if config != nil {
		return config, false, nil
	}

	config = models.NewDefaultAlertConfig(deviceID)
	if i.Options.DefaultAlertFrequencyMinutes != 0 {
		config.AlertFrequencyMinutes = models.ClampAlertFrequency(i.Options.DefaultAlertFrequencyMinutes)
	}
	if err := i.Store.UpsertAlertConfig(ctx, config); err != nil {
		return nil, false, fmt.Errorf("create default alert config: %w", err)
	}

	common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryConfig).
		Info("Created default alert config", zap.String("device_id", deviceID))
	return config, true, nil
}

type IConfigImpl struct {
	iot *IOT
}

func (ic *IConfigImpl) UpsertAlertConfig(ctx context.Context, deviceID string, input *models.AlertConfig) (*models.AlertConfig, error) {
	return ic.iot.upsertAlertConfig(ctx, deviceID, input)
}

func (ic *IConfigImpl) GetOrCreateAlertConfig(ctx context.Context, deviceID string) (*models.AlertConfig, bool, error) {
	return ic.iot.getOrCreateAlertConfig(ctx, deviceID)
}

func (i *IOT) GetIConfig() IConfig {
	return &IConfigImpl{iot: i}
}
