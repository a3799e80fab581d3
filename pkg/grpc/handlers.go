package grpc

import (
	"context"
	"fmt"
	"time"

	z "github.com/Oudwins/zog"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/iot"
	"liyu1981.xyz/safezone-service/pkg/models"
)

const fieldDeviceID = "device_id"

type ReportLocationRequest struct {
	DeviceID     string    `zog:"device_id"`
	Latitude     float64   `zog:"latitude"`
	Longitude    float64   `zog:"longitude"`
	BatteryLevel *int      `zog:"battery_level"`
	Timestamp    time.Time `zog:"timestamp"`
}

var reportLocationSchema = z.Struct(z.Shape{
	"DeviceID":     z.String().Min(1).Required(),
	"Latitude":     z.Float64().GTE(-90).LTE(90).Required(),
	"Longitude":    z.Float64().GTE(-180).LTE(180).Required(),
	"BatteryLevel": z.Ptr(z.Int().GTE(0).LTE(100)),
	"Timestamp":    z.Time(),
})

type DeviceRequest struct {
	DeviceID string `zog:"device_id"`
}

var deviceRequestSchema = z.Struct(z.Shape{
	"DeviceID": z.String().Min(1).Required(),
})

type SetLimiterRequest struct {
	DeviceID string  `zog:"device_id"`
	Rate     float64 `zog:"rate"`
	Burst    int     `zog:"burst"`
}

var setLimiterSchema = z.Struct(z.Shape{
	"DeviceID": z.String().Min(1).Required(),
	"Rate":     z.Float64().GT(0).Required(),
	"Burst":    z.Int().GTE(1).Required(),
})

func statusReply(success bool, message string, extra map[string]any) (*structpb.Struct, error) {
	fields := map[string]any{
		"success": success,
		"message": message,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return structpb.NewStruct(fields)
}

func validationReply(issues z.ZogIssueMap) (*structpb.Struct, error) {
	return statusReply(false, fmt.Sprintf("validation error: %v", issues), nil)
}

func (s *LocationServer) ReportLocation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ReportLocationRequest
	if issues := reportLocationSchema.Parse(in.AsMap(), &req); issues != nil {
		return validationReply(issues)
	}

	location, err := s.Iot.Location.IngestLocation(iot.WithSource(ctx, iot.SourceGRPC), req.DeviceID, &models.Location{
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		BatteryLevel: req.BatteryLevel,
		Timestamp:    req.Timestamp,
	})
	if err != nil {
		return statusReply(false, err.Error(), nil)
	}

	return statusReply(true, "OK", map[string]any{
		"location_id": float64(location.ID),
		"timestamp":   location.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}

func toAlertValue(h models.AlertHistory) any {
	return map[string]any{
		"id":               float64(h.ID),
		"alert_type":       string(h.AlertType),
		"latitude":         h.Latitude,
		"longitude":        h.Longitude,
		"email_recipients": common.Mapper(h.EmailRecipients, func(r string) any { return r }),
		"phone_recipients": common.Mapper(h.PhoneRecipients, func(r string) any { return r }),
		"sent_at":          h.SentAt.UTC().Format(time.RFC3339Nano),
	}
}

func (s *LocationServer) GetAlerts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DeviceRequest
	if issues := deviceRequestSchema.Parse(in.AsMap(), &req); issues != nil {
		return validationReply(issues)
	}

	history, err := s.Iot.Alert.GetDeviceAlertHistory(ctx, req.DeviceID)
	if err != nil {
		return statusReply(false, err.Error(), nil)
	}

	return statusReply(true, "OK", map[string]any{
		"alerts": common.Mapper(history, toAlertValue),
	})
}

func (s *LocationServer) SetLimiter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SetLimiterRequest
	if issues := setLimiterSchema.Parse(in.AsMap(), &req); issues != nil {
		return validationReply(issues)
	}

	if s.RateLimiterStore == nil {
		return statusReply(false, "RateLimiterStore is not used. No effect.", nil)
	}

	s.RateLimiterStore.SetLimiter(req.DeviceID, rate.Limit(req.Rate), req.Burst)
	return statusReply(true, "OK", nil)
}
