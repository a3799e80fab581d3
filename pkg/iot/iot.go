// Package iot is the safe-zone engine: it ingests device readings, evaluates
// them against the device's geofences and decides whether caregivers are
// notified.
package iot

import (
	"context"
	"time"

	"liyu1981.xyz/safezone-service/pkg/models"
	"liyu1981.xyz/safezone-service/pkg/notify"
	"liyu1981.xyz/safezone-service/pkg/store"
)

type IDevice interface {
	RegisterDevice(ctx context.Context, input *models.Device) (*models.Device, error)
	GetDevice(ctx context.Context, deviceID string) (*models.Device, error)
}

type ILocation interface {
	IngestLocation(ctx context.Context, deviceID string, input *models.Location) (*models.Location, error)
	GetRecentLocations(ctx context.Context, deviceID string, limit int) ([]models.Location, error)
}

type IGeofence interface {
	Evaluate(ctx context.Context, deviceID string, lat, lon float64) (bool, error)
	CreateGeofence(ctx context.Context, deviceID string, input *models.Geofence) (*models.Geofence, error)
	ListGeofences(ctx context.Context, deviceID string) ([]models.Geofence, error)
	DeleteGeofence(ctx context.Context, deviceID string, geofenceID uint) error
}

type IAlert interface {
	MaybeNotify(ctx context.Context, deviceID string, lat, lon float64)
	GetDeviceAlertHistory(ctx context.Context, deviceID string) ([]models.AlertHistory, error)
}

type IConfig interface {
	UpsertAlertConfig(ctx context.Context, deviceID string, input *models.AlertConfig) (*models.AlertConfig, error)
	GetOrCreateAlertConfig(ctx context.Context, deviceID string) (*models.AlertConfig, bool, error)
}

type IStatus interface {
	GetOrCreateAlertStatus(ctx context.Context, deviceID string, defaultOutside bool) (*models.AlertStatus, error)
	GetAlertStatus(ctx context.Context, deviceID string) (*models.AlertStatus, error)
	PauseAlerts(ctx context.Context, deviceID string, until time.Time) (*models.AlertStatus, error)
	ResumeAlerts(ctx context.Context, deviceID string) (*models.AlertStatus, error)
	SetAccompaniedMode(ctx context.Context, deviceID string, enabled bool, until *time.Time) (*models.AlertStatus, error)
}

// INotifier delivers a rendered alert over one channel.
type INotifier interface {
	SendEmailAlert(ctx context.Context, recipients []string, alert notify.AlertContext) error
	SendWhatsAppAlert(ctx context.Context, recipients []string, alert notify.AlertContext) error
}

// LocationSink takes a freshly stored reading away from the ingestion path.
// Submit must not wait for the evaluation to finish.
type LocationSink interface {
	Submit(event models.LocationEvent)
}

type Options struct {
	// PublicURL prefixes the pause link embedded in alerts.
	PublicURL string
	// DefaultAlertFrequencyMinutes seeds lazily created alert configs.
	DefaultAlertFrequencyMinutes int
	// AdvanceThrottleOnFailure advances last_alert_sent_at even when every
	// channel failed.
	AdvanceThrottleOnFailure bool
	// EvaluationTimeout bounds one detached evaluation.
	EvaluationTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		PublicURL:                    "http://localhost:8080",
		DefaultAlertFrequencyMinutes: models.DefaultAlertFrequencyMinutes,
		AdvanceThrottleOnFailure:     true,
		EvaluationTimeout:            DefaultEvaluationTimeout,
	}
}

type IOT struct {
	Store    store.Store
	Notifier INotifier
	Sink     LocationSink
	Now      func() time.Time
	Options  Options

	Device   IDevice
	Location ILocation
	Geofence IGeofence
	Alert    IAlert
	Config   IConfig
	Status   IStatus

	statusLocks keyedMutex
}

type ServiceOpts struct {
	Device   IDevice
	Location ILocation
	Geofence IGeofence
	Alert    IAlert
	Config   IConfig
	Status   IStatus
}

// New wires the default services and an in-process evaluation runner.
func New(st store.Store, notifier INotifier, opts Options) *IOT {
	i := &IOT{Store: st, Notifier: notifier, Options: opts}
	i.WithServices(ServiceOpts{
		Device:   i.GetIDevice(),
		Location: i.GetILocation(),
		Geofence: i.GetIGeofence(),
		Alert:    i.GetIAlert(),
		Config:   i.GetIConfig(),
		Status:   i.GetIStatus(),
	})
	i.Sink = NewEvaluationRunner(i.EvaluateEvent, opts.EvaluationTimeout)
	return i
}

func (i *IOT) WithServices(opts ServiceOpts) *IOT {
	if opts.Device != nil {
		i.Device = opts.Device
	}
	if opts.Location != nil {
		i.Location = opts.Location
	}
	if opts.Geofence != nil {
		i.Geofence = opts.Geofence
	}
	if opts.Alert != nil {
		i.Alert = opts.Alert
	}
	if opts.Config != nil {
		i.Config = opts.Config
	}
	if opts.Status != nil {
		i.Status = opts.Status
	}
	return i
}

func (i *IOT) WithSink(sink LocationSink) *IOT {
	i.Sink = sink
	return i
}

func (i *IOT) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

// EvaluateEvent runs the geofence evaluation for a reading handed over by a
// LocationSink.
func (i *IOT) EvaluateEvent(ctx context.Context, event models.LocationEvent) error {
	_, err := i.Geofence.Evaluate(ctx, event.DeviceID, event.Latitude, event.Longitude)
	return err
}
