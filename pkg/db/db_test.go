package db

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/models"
	_ "liyu1981.xyz/safezone-service/pkg/testing"

	"gorm.io/gorm"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	dialector := UseMemorySqliteDialector()

	instance := GetInstance(dialector)
	if instance == nil {
		t.Fatal("Expected non-nil DB instance")
	}

	var tables = []string{"devices", "locations", "geofences", "alert_configs", "alert_statuses", "alert_histories"}
	for _, table := range tables {
		if !tableExists(instance.Conn, table) {
			t.Errorf("Expected table %q to exist after migration", table)
		}
	}
}

func TestSingletonConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	const goroutineCount = 20

	var wg sync.WaitGroup
	instances := make(chan *DB, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instance := GetInstance(UseMemorySqliteDialector())
			instances <- instance
		}()
	}

	wg.Wait()
	close(instances)

	var first *DB
	for inst := range instances {
		if first == nil {
			first = inst
			continue
		}
		if inst != first {
			t.Error("Expected all instances to be the same (singleton), but found different ones")
		}
	}
}

func createDevice(t *testing.T, conn *gorm.DB) *models.Device {
	device := &models.Device{ID: uuid.NewString(), HardwareID: uuid.NewString(), Name: "Blue watch"}
	if err := conn.Create(device).Error; err != nil {
		t.Fatalf("Failed to create device: %v", err)
	}
	return device
}

func TestGeofenceRadiusMustBePositive(t *testing.T) {
	common.SetTestLoggerNop()

	conn := GetInstance(UseMemorySqliteDialector()).Conn
	device := createDevice(t, conn)

	for _, radius := range []float64{0, -25} {
		err := conn.Create(&models.Geofence{DeviceID: device.ID, Name: "Home", RadiusMeters: radius}).Error
		if err == nil {
			t.Errorf("Expected radius %v to be rejected by the check constraint", radius)
		}
	}

	if err := conn.Create(&models.Geofence{DeviceID: device.ID, Name: "Home", RadiusMeters: 50}).Error; err != nil {
		t.Errorf("Expected a positive radius to be stored, got %v", err)
	}
}

func TestOneRowPerDevice(t *testing.T) {
	common.SetTestLoggerNop()

	conn := GetInstance(UseMemorySqliteDialector()).Conn
	device := createDevice(t, conn)

	duplicate := &models.Device{ID: uuid.NewString(), HardwareID: device.HardwareID}
	if err := conn.Create(duplicate).Error; err == nil {
		t.Error("Expected a second device with the same hardware id to be rejected")
	}

	if err := conn.Create(models.NewDefaultAlertConfig(device.ID)).Error; err != nil {
		t.Fatalf("Failed to create alert config: %v", err)
	}
	if err := conn.Create(models.NewDefaultAlertConfig(device.ID)).Error; err == nil {
		t.Error("Expected a second alert config for the same device to be rejected")
	}

	if err := conn.Create(&models.AlertStatus{DeviceID: device.ID}).Error; err != nil {
		t.Fatalf("Failed to create alert status: %v", err)
	}
	if err := conn.Create(&models.AlertStatus{DeviceID: device.ID, IsOutsideGeofence: true}).Error; err == nil {
		t.Error("Expected a second alert status for the same device to be rejected")
	}
}
