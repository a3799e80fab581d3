// Package notify renders safe-zone alerts and hands them to the email and
// WhatsApp transports.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

var (
	ErrMissingCredential      = errors.New("transport credential not configured")
	ErrTransportNotConfigured = errors.New("transport not configured")
)

type EmailSender interface {
	SendEmail(ctx context.Context, from string, to []string, subject, html string) error
}

type WhatsAppSender interface {
	SendWhatsAppMessage(ctx context.Context, phoneNumber, text string) error
}

// AlertContext is everything a rendered alert shows.
type AlertContext struct {
	DeviceID    string
	DeviceName  string
	PatientName string
	Timestamp   time.Time
	Latitude    float64
	Longitude   float64
	PauseLink   string
}

func (a AlertContext) Patient() string {
	if a.PatientName != "" {
		return a.PatientName
	}
	return a.DeviceName
}

func (a AlertContext) Coordinates() string {
	return fmt.Sprintf("%.6f, %.6f", a.Latitude, a.Longitude)
}

func (a AlertContext) MapLink() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%.6f,%.6f", a.Latitude, a.Longitude)
}

func (a AlertContext) FormattedTime() string {
	return a.Timestamp.UTC().Format("2006-01-02 15:04:05 MST")
}

// TransportError is a non-2xx answer from a provider API.
type TransportError struct {
	Channel    string
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport returned status %d: %s", e.Channel, e.StatusCode, e.Body)
}
