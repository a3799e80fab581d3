package grpc

import (
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"liyu1981.xyz/safezone-service/pkg/iot"
)

type LocationServer struct {
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore
}

func (s *LocationServer) GetLimiter(deviceID string) *rate.Limiter {
	if s.RateLimiterStore == nil {
		return nil
	} else {
		return s.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (s *LocationServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := s.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

// NewGrpcServer builds a server with the location service, the standard
// health service and per-device rate limiting on the device scoped calls.
func (s *LocationServer) NewGrpcServer(opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	interceptor := s.CreateRateLimitInterceptor([]string{
		ReportLocationMethod,
		GetAlertsMethod,
	})
	server := grpc.NewServer(append(opts, grpc.UnaryInterceptor(interceptor))...)

	RegisterLocationServiceServer(server, s)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	return server, healthServer
}
