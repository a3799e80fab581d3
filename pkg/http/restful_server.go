package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/iot"
	"liyu1981.xyz/safezone-service/pkg/metrics"
)

type RestfulServer struct {
	Server           *gin.Engine
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	}
	return rs.RateLimiterStore.GetLimiter(deviceID)
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

// DeviceRateLimit rejects requests once the device in the path is over its
// budget.
func (rs *RestfulServer) DeviceRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.Param("device_id")
		if !rs.CheckDeviceLimiter(deviceID) {
			common.GetLoggerWith(common.LoggerNameRestfulServer).
				Warn("Rate limit exceeded", zap.String("device_id", deviceID), zap.String("path", c.FullPath()))
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(metrics.Handler()))

	rs.Server.POST("/devices", rs.PostDevice)

	// limiter changes are not themselves rate limited
	rs.Server.POST("/devices/:device_id/limiter", rs.PostLimiter)

	devices := rs.Server.Group("/devices/:device_id", rs.DeviceRateLimit())
	{
		devices.GET("", rs.GetDevice)

		devices.POST("/locations", rs.PostLocation)
		devices.GET("/locations", rs.GetLocations)

		devices.GET("/geofences", rs.GetGeofences)
		devices.POST("/geofences", rs.PostGeofence)
		devices.DELETE("/geofences/:geofence_id", rs.DeleteGeofence)

		devices.GET("/alert-config", rs.GetAlertConfig)
		devices.POST("/alert-config", rs.PostAlertConfig)
		devices.GET("/alert-status", rs.GetAlertStatus)

		devices.POST("/pause", rs.PauseAlerts)
		devices.GET("/pause", rs.PauseConfirm)
		devices.DELETE("/pause", rs.ResumeAlerts)

		devices.POST("/accompanied", rs.StartAccompanied)
		devices.DELETE("/accompanied", rs.StopAccompanied)

		devices.GET("/alerts", rs.GetAlerts)
	}
}
