package models

import "time"

type AlertType string

const (
	AlertTypeGeofenceViolation AlertType = "GEOFENCE_VIOLATION"
)

const (
	DefaultAlertFrequencyMinutes = 15
	MinAlertFrequencyMinutes     = 5
	MaxAlertFrequencyMinutes     = 120

	MinGeofenceRadiusMeters = 10.0
	MaxGeofenceRadiusMeters = 10000.0
)

type Device struct {
	ID             string `gorm:"primaryKey"`
	UserID         string `gorm:"index"`
	HardwareID     string `gorm:"uniqueIndex;not null"`
	Name           string
	PatientName    string
	BatteryLevel   *int
	LastLocationAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Locations []Location     `gorm:"foreignKey:DeviceID;references:ID"`
	Geofences []Geofence     `gorm:"foreignKey:DeviceID;references:ID"`
	AlertLogs []AlertHistory `gorm:"foreignKey:DeviceID;references:ID"`
}

// Location is an immutable reading; Timestamp is the device clock.
type Location struct {
	ID           uint   `gorm:"primaryKey"`
	DeviceID     string `gorm:"index:idx_location_device_timestamp;not null"`
	Latitude     float64
	Longitude    float64
	BatteryLevel *int
	Timestamp    time.Time `gorm:"index:idx_location_device_timestamp"`
	CreatedAt    time.Time
}

type Geofence struct {
	ID              uint   `gorm:"primaryKey"`
	DeviceID        string `gorm:"index;not null"`
	Name            string
	CenterLatitude  float64
	CenterLongitude float64
	RadiusMeters    float64 `gorm:"check:radius_meters > 0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type AlertConfig struct {
	DeviceID              string `gorm:"primaryKey"`
	Enabled               bool
	Recipients            []string `gorm:"serializer:json"`
	AlertFrequencyMinutes int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewDefaultAlertConfig is what a device gets before its caregiver configures
// anything: enabled, nobody to notify.
func NewDefaultAlertConfig(deviceID string) *AlertConfig {
	return &AlertConfig{
		DeviceID:              deviceID,
		Enabled:               true,
		Recipients:            []string{},
		AlertFrequencyMinutes: DefaultAlertFrequencyMinutes,
	}
}

func (c *AlertConfig) DecodedRecipients() []Recipient {
	return ParseRecipients(c.Recipients)
}

func (c *AlertConfig) SetRecipients(recipients []Recipient) {
	c.Recipients = EncodeRecipients(recipients)
}

func (c *AlertConfig) Frequency() time.Duration {
	return time.Duration(ClampAlertFrequency(c.AlertFrequencyMinutes)) * time.Minute
}

// ClampAlertFrequency keeps the interval inside the supported window; zero
// means "use the default".
func ClampAlertFrequency(minutes int) int {
	switch {
	case minutes == 0:
		return DefaultAlertFrequencyMinutes
	case minutes < MinAlertFrequencyMinutes:
		return MinAlertFrequencyMinutes
	case minutes > MaxAlertFrequencyMinutes:
		return MaxAlertFrequencyMinutes
	default:
		return minutes
	}
}

type AlertStatus struct {
	DeviceID               string `gorm:"primaryKey"`
	IsOutsideGeofence      bool
	LastAlertSentAt        *time.Time
	PausedUntil            *time.Time
	AccompaniedModeEnabled bool
	AccompaniedModeUntil   *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (s *AlertStatus) IsPaused(now time.Time) bool {
	return s.PausedUntil != nil && s.PausedUntil.After(now)
}

func (s *AlertStatus) IsAccompanied(now time.Time) bool {
	return s.AccompaniedModeEnabled && s.AccompaniedModeUntil != nil && s.AccompaniedModeUntil.After(now)
}

// IsThrottled reports whether fewer than interval has elapsed since the last
// alert went out.
func (s *AlertStatus) IsThrottled(now time.Time, interval time.Duration) bool {
	if s.LastAlertSentAt == nil {
		return false
	}
	return now.Sub(*s.LastAlertSentAt) < interval
}

type AlertHistory struct {
	ID              uint      `gorm:"primaryKey"`
	DeviceID        string    `gorm:"index:idx_alert_history_device_sent;not null"`
	AlertType       AlertType `gorm:"type:varchar(32)"`
	Latitude        float64
	Longitude       float64
	EmailRecipients []string  `gorm:"serializer:json"`
	PhoneRecipients []string  `gorm:"serializer:json"`
	SentAt          time.Time `gorm:"index:idx_alert_history_device_sent"`
}

// LocationEvent is what the ingestion path hands to the detached evaluator.
type LocationEvent struct {
	DeviceID  string    `json:"device_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}
