package iot

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/safezone-service/pkg/db"
	"liyu1981.xyz/safezone-service/pkg/iot/mocks"
	"liyu1981.xyz/safezone-service/pkg/models"
	"liyu1981.xyz/safezone-service/pkg/store"
)

// testClock is a settable clock shared by the engine and the test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func GetMockIOTWithMemorySqliteDialector(t *testing.T, useMockIAlert bool) (
	*gomock.Controller,
	*IOT,
	*mocks.MockIAlert,
	*mocks.MockINotifier,
	*testClock,
) {
	ctrl := gomock.NewController(t)

	mockIAlert := mocks.NewMockIAlert(ctrl)
	mockINotifier := mocks.NewMockINotifier(ctrl)
	clock := newTestClock()

	dbInstance := db.GetInstance(db.UseMemorySqliteDialector()) // ensure migrations
	iotInstance := New(store.NewGormStore(dbInstance), mockINotifier, DefaultOptions())
	iotInstance.Now = clock.Now

	if useMockIAlert {
		iotInstance.WithServices(ServiceOpts{Alert: mockIAlert})
	}

	return ctrl, iotInstance, mockIAlert, mockINotifier, clock
}

func seedDevice(t *testing.T, i *IOT) *models.Device {
	device, err := i.Device.RegisterDevice(context.Background(), &models.Device{
		UserID:      uuid.NewString(),
		HardwareID:  uuid.NewString(),
		Name:        "Blue watch",
		PatientName: "Maria",
	})
	require.NoError(t, err)
	return device
}

func seedGeofence(t *testing.T, i *IOT, deviceID string, lat, lon, radius float64) {
	_, err := i.Geofence.CreateGeofence(context.Background(), deviceID, &models.Geofence{
		Name:            "Home",
		CenterLatitude:  lat,
		CenterLongitude: lon,
		RadiusMeters:    radius,
	})
	require.NoError(t, err)
}

func seedAlertConfig(t *testing.T, i *IOT, deviceID string, recipients []string, frequencyMinutes int) {
	_, err := i.Config.UpsertAlertConfig(context.Background(), deviceID, &models.AlertConfig{
		Enabled:               true,
		Recipients:            recipients,
		AlertFrequencyMinutes: frequencyMinutes,
	})
	require.NoError(t, err)
}

// failingStore breaks a single read of an otherwise working store.
type failingStore struct {
	store.Store
	failGeofences bool
	failConfig    bool
}

var errStoreDown = errors.New("store down")

func (s *failingStore) GetGeofencesByDevice(ctx context.Context, deviceID string) ([]models.Geofence, error) {
	if s.failGeofences {
		return nil, errStoreDown
	}
	return s.Store.GetGeofencesByDevice(ctx, deviceID)
}

func (s *failingStore) GetAlertConfig(ctx context.Context, deviceID string) (*models.AlertConfig, error) {
	if s.failConfig {
		return nil, errStoreDown
	}
	return s.Store.GetAlertConfig(ctx, deviceID)
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

// findLog returns the first captured entry whose msg contains substr.
func findLog(logs []any, substr string) map[string]any {
	for _, l := range logs {
		entry, ok := l.(map[string]any)
		if !ok {
			continue
		}
		if msg, _ := entry["msg"].(string); strings.Contains(msg, substr) {
			return entry
		}
	}
	return nil
}
