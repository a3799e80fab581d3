package http

import (
	"time"

	"liyu1981.xyz/safezone-service/pkg/models"
)

type DeviceResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	HardwareID     string     `json:"hardware_id"`
	Name           string     `json:"name"`
	PatientName    string     `json:"patient_name"`
	BatteryLevel   *int       `json:"battery_level"`
	LastLocationAt *time.Time `json:"last_location_at"`
}

func toDeviceResponse(d *models.Device) DeviceResponse {
	return DeviceResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		HardwareID:     d.HardwareID,
		Name:           d.Name,
		PatientName:    d.PatientName,
		BatteryLevel:   d.BatteryLevel,
		LastLocationAt: d.LastLocationAt,
	}
}

type LocationResponse struct {
	ID           uint      `json:"id"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	BatteryLevel *int      `json:"battery_level"`
	Timestamp    time.Time `json:"timestamp"`
}

func toLocationResponse(l models.Location) LocationResponse {
	return LocationResponse{
		ID:           l.ID,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		BatteryLevel: l.BatteryLevel,
		Timestamp:    l.Timestamp,
	}
}

type GeofenceResponse struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	CenterLatitude  float64 `json:"center_latitude"`
	CenterLongitude float64 `json:"center_longitude"`
	RadiusMeters    float64 `json:"radius_meters"`
}

func toGeofenceResponse(g models.Geofence) GeofenceResponse {
	return GeofenceResponse{
		ID:              g.ID,
		Name:            g.Name,
		CenterLatitude:  g.CenterLatitude,
		CenterLongitude: g.CenterLongitude,
		RadiusMeters:    g.RadiusMeters,
	}
}

// AlertConfigResponse exposes recipients already split by channel; the
// phone prefix never leaves the store.
type AlertConfigResponse struct {
	DeviceID              string   `json:"device_id"`
	Enabled               bool     `json:"enabled"`
	Emails                []string `json:"emails"`
	Phones                []string `json:"phones"`
	AlertFrequencyMinutes int      `json:"alert_frequency_minutes"`
}

func toAlertConfigResponse(c *models.AlertConfig) AlertConfigResponse {
	emails, phones := models.PartitionRecipients(c.DecodedRecipients())
	return AlertConfigResponse{
		DeviceID:              c.DeviceID,
		Enabled:               c.Enabled,
		Emails:                emails,
		Phones:                phones,
		AlertFrequencyMinutes: c.AlertFrequencyMinutes,
	}
}

type AlertStatusResponse struct {
	DeviceID               string     `json:"device_id"`
	IsOutsideGeofence      bool       `json:"is_outside_geofence"`
	LastAlertSentAt        *time.Time `json:"last_alert_sent_at"`
	PausedUntil            *time.Time `json:"paused_until"`
	AccompaniedModeEnabled bool       `json:"accompanied_mode_enabled"`
	AccompaniedModeUntil   *time.Time `json:"accompanied_mode_until"`
	Paused                 bool       `json:"paused"`
	Accompanied            bool       `json:"accompanied"`
}

func toAlertStatusResponse(s *models.AlertStatus, now time.Time) AlertStatusResponse {
	return AlertStatusResponse{
		DeviceID:               s.DeviceID,
		IsOutsideGeofence:      s.IsOutsideGeofence,
		LastAlertSentAt:        s.LastAlertSentAt,
		PausedUntil:            s.PausedUntil,
		AccompaniedModeEnabled: s.AccompaniedModeEnabled,
		AccompaniedModeUntil:   s.AccompaniedModeUntil,
		Paused:                 s.IsPaused(now),
		Accompanied:            s.IsAccompanied(now),
	}
}

type AlertHistoryResponse struct {
	ID              uint      `json:"id"`
	AlertType       string    `json:"alert_type"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	EmailRecipients []string  `json:"email_recipients"`
	PhoneRecipients []string  `json:"phone_recipients"`
	SentAt          time.Time `json:"sent_at"`
}

func toAlertHistoryResponse(h models.AlertHistory) AlertHistoryResponse {
	return AlertHistoryResponse{
		ID:              h.ID,
		AlertType:       string(h.AlertType),
		Latitude:        h.Latitude,
		Longitude:       h.Longitude,
		EmailRecipients: h.EmailRecipients,
		PhoneRecipients: h.PhoneRecipients,
		SentAt:          h.SentAt,
	}
}
