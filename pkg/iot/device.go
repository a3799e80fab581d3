package iot

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/models"
)

func (i *IOT) registerDevice(ctx context.Context, input *models.Device) (*models.Device, error) {
	logger := common.GetCategoryLogger(common.LoggerNameAlertEngine, common.LoggerCategoryIngest)

	device := models.Device{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		HardwareID:  input.HardwareID,
		Name:        input.Name,
		PatientName: input.PatientName,
	}

	if err := i.Store.CreateDevice(ctx, &device); err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}

	logger.Info("Registered device",
		zap.String("device_id", device.ID),
		zap.String("hardware_id", device.HardwareID),
	)
	return &device, nil
}

func (i *IOT) getDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	device, err := i.Store.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, ErrDeviceNotFound
	}
	return device, nil
}

type IDeviceImpl struct {
	iot *IOT
}

func (id *IDeviceImpl) RegisterDevice(ctx context.Context, input *models.Device) (*models.Device, error) {
	return id.iot.registerDevice(ctx, input)
}

func (id *IDeviceImpl) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	return id.iot.getDevice(ctx, deviceID)
}

func (i *IOT) GetIDevice() IDevice {
	return &IDeviceImpl{iot: i}
}
