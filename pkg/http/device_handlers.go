package http

import (
	"net/http"
	"strconv"
	"time"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"github.com/gin-gonic/gin"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/iot"
	"liyu1981.xyz/safezone-service/pkg/models"
)

type DeviceRequest struct {
	UserID      string `json:"user_id" zog:"user_id"`
	HardwareID  string `json:"hardware_id" zog:"hardware_id"`
	Name        string `json:"name" zog:"name"`
	PatientName string `json:"patient_name" zog:"patient_name"`
}

var deviceRequestSchema = z.Struct(z.Shape{
	"UserID":      z.String().Min(1).Required(),
	"HardwareID":  z.String().Min(1).Required(),
	"Name":        z.String().Min(1).Required(),
	"PatientName": z.String(),
})

func (rs *RestfulServer) PostDevice(c *gin.Context) {
	var req DeviceRequest
	if err := deviceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	device, err := rs.Iot.Device.RegisterDevice(c.Request.Context(), &models.Device{
		UserID:      req.UserID,
		HardwareID:  req.HardwareID,
		Name:        req.Name,
		PatientName: req.PatientName,
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDeviceResponse(device))
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	device, err := rs.Iot.Device.GetDevice(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDeviceResponse(device))
}

type LocationRequest struct {
	Latitude     float64   `json:"latitude" zog:"latitude"`
	Longitude    float64   `json:"longitude" zog:"longitude"`
	BatteryLevel *int      `json:"battery_level" zog:"battery_level"`
	Timestamp    time.Time `json:"timestamp" zog:"timestamp"`
}

var locationRequestSchema = z.Struct(z.Shape{
	"Latitude":     z.Float64().GTE(-90).LTE(90).Required(),
	"Longitude":    z.Float64().GTE(-180).LTE(180).Required(),
	"BatteryLevel": z.Ptr(z.Int().GTE(0).LTE(100)),
	"Timestamp":    z.Time(),
})

// PostLocation answers as soon as the reading is stored; evaluation runs
// detached.
func (rs *RestfulServer) PostLocation(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LocationRequest
	if err := locationRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	ctx := iot.WithSource(c.Request.Context(), iot.SourceHTTP)
	location, err := rs.Iot.Location.IngestLocation(ctx, deviceID, &models.Location{
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		BatteryLevel: req.BatteryLevel,
		Timestamp:    req.Timestamp,
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLocationResponse(*location))
}

const defaultLocationLimit = 50

func (rs *RestfulServer) GetLocations(c *gin.Context) {
	limit := defaultLocationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
			return
		}
		limit = n
	}

	locations, err := rs.Iot.Location.GetRecentLocations(c.Request.Context(), c.Param("device_id"), limit)
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.Mapper(locations, toLocationResponse))
}

type GeofenceRequest struct {
	Name            string  `json:"name" zog:"name"`
	CenterLatitude  float64 `json:"center_latitude" zog:"center_latitude"`
	CenterLongitude float64 `json:"center_longitude" zog:"center_longitude"`
	RadiusMeters    float64 `json:"radius_meters" zog:"radius_meters"`
}

var geofenceRequestSchema = z.Struct(z.Shape{
	"Name":            z.String().Min(1).Required(),
	"CenterLatitude":  z.Float64().GTE(-90).LTE(90).Required(),
	"CenterLongitude": z.Float64().GTE(-180).LTE(180).Required(),
	"RadiusMeters":    z.Float64().GTE(models.MinGeofenceRadiusMeters).LTE(models.MaxGeofenceRadiusMeters).Required(),
})

func (rs *RestfulServer) PostGeofence(c *gin.Context) {
	var req GeofenceRequest
	if err := geofenceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	geofence, err := rs.Iot.Geofence.CreateGeofence(c.Request.Context(), c.Param("device_id"), &models.Geofence{
		Name:            req.Name,
		CenterLatitude:  req.CenterLatitude,
		CenterLongitude: req.CenterLongitude,
		RadiusMeters:    req.RadiusMeters,
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toGeofenceResponse(*geofence))
}

func (rs *RestfulServer) GetGeofences(c *gin.Context) {
	geofences, err := rs.Iot.Geofence.ListGeofences(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		rs.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.Mapper(geofences, toGeofenceResponse))
}

func (rs *RestfulServer) DeleteGeofence(c *gin.Context) {
	geofenceID, err := strconv.ParseUint(c.Param("geofence_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid geofence id"})
		return
	}

	if err := rs.Iot.Geofence.DeleteGeofence(c.Request.Context(), c.Param("device_id"), uint(geofenceID)); err != nil {
		rs.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
