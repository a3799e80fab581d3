package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"gorm.io/gorm"

	"liyu1981.xyz/safezone-service/pkg/common"
	"liyu1981.xyz/safezone-service/pkg/config"
	"liyu1981.xyz/safezone-service/pkg/db"
	iotGrpc "liyu1981.xyz/safezone-service/pkg/grpc"
	iotHttp "liyu1981.xyz/safezone-service/pkg/http"
	"liyu1981.xyz/safezone-service/pkg/iot"
	"liyu1981.xyz/safezone-service/pkg/notify"
	"liyu1981.xyz/safezone-service/pkg/queue"
	"liyu1981.xyz/safezone-service/pkg/store"
)

const (
	shutdownTimeout   = 15 * time.Second
	limiterPruneEvery = 10 * time.Minute
	limiterIdleAfter  = 30 * time.Minute
	amqpReadyTimeout  = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, and optionally the gRPC API and the AMQP consumer",
	RunE:  runServe,
}

// flag name -> config key
var serveFlags = map[string]string{
	"http":          "http.host_port",
	"grpc":          "grpc.host_port",
	"db-type":       "db.type",
	"dispatch-mode": "dispatch.mode",
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("http", "", "HTTP listen address")
	cmd.Flags().String("grpc", "", "gRPC listen address, empty disables gRPC")
	cmd.Flags().String("db-type", "", "database: file, memory or postgres")
	cmd.Flags().String("dispatch-mode", "", "where readings are evaluated: inprocess or amqp")
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func dialectorFor(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.Type {
	case config.DBTypeMemory:
		return db.UseMemorySqliteDialector()
	case config.DBTypePostgres:
		return db.UsePostgresDialector(cfg.DB.PostgresDSN)
	default:
		return db.UseSqliteDialector()
	}
}

func newDispatcher(cfg *config.Config) *notify.Dispatcher {
	timeout := cfg.Transport.Timeout
	return notify.NewDispatcher(notify.DispatcherOpts{
		Email: notify.WithEmailBreaker(
			notify.NewEmailAPIClient(cfg.Email.APIURL, cfg.Email.APIKey, timeout),
			notify.DefaultBreakerOpts,
		),
		WhatsApp: notify.WithWhatsAppBreaker(
			notify.NewWhatsAppClient(cfg.WhatsApp.APIURL, cfg.WhatsApp.Token, cfg.WhatsApp.PhoneNumberID, timeout),
			notify.DefaultBreakerOpts,
		),
		EmailFrom: cfg.Email.From,
		Timeout:   timeout,
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	for flag, key := range serveFlags {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger := common.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DB.Type == config.DBTypeFile {
		// read by db.UseSqliteDialector
		if err := os.Setenv(common.EnvKeyDBPath, cfg.DB.Path); err != nil {
			return err
		}
	}
	dbInstance := db.GetInstance(dialectorFor(cfg))

	opts := iot.DefaultOptions()
	opts.PublicURL = cfg.HTTP.PublicURL
	opts.DefaultAlertFrequencyMinutes = cfg.Alert.FrequencyMinutes
	opts.AdvanceThrottleOnFailure = cfg.Alert.AdvanceThrottleOnFailure
	opts.EvaluationTimeout = cfg.Alert.EvaluationTimeout

	iotCore := iot.New(store.NewGormStore(dbInstance), newDispatcher(cfg), opts)
	runner := iotCore.Sink.(*iot.EvaluationRunner)

	var (
		amqpClient *queue.Client
		publisher  *queue.Publisher
	)
	if cfg.Dispatch.Mode == config.DispatchModeAMQP {
		amqpClient = queue.NewClient(cfg.AMQP.Queue, cfg.AMQP.URL)
		publisher = queue.NewPublisher(amqpClient, queue.DefaultPublishTimeout)
		iotCore.WithSink(publisher)

		consumer, err := queue.NewConsumer(amqpClient, iotCore, cfg.Alert.EvaluationTimeout)
		if err != nil {
			return err
		}
		go func() {
			readyCtx, cancel := context.WithTimeout(ctx, amqpReadyTimeout)
			defer cancel()
			if err := amqpClient.WaitReady(readyCtx); err != nil {
				logger.Error("AMQP broker not reachable, consumer not started", zap.Error(err))
				return
			}
			if err := consumer.Start(ctx); err != nil {
				logger.Error("Failed to start AMQP consumer", zap.Error(err))
			}
		}()
		logger.Info("Readings are evaluated through AMQP", zap.String("queue", cfg.AMQP.Queue))
	}

	httpLimiters := iot.NewRateLimiterStore(rate.Limit(cfg.Limiter.Rate), cfg.Limiter.Burst)
	grpcLimiters := iot.NewRateLimiterStore(rate.Limit(cfg.Limiter.Rate), cfg.Limiter.Burst)
	logger.Info("Rate limiter configured",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.Limiter.Rate, cfg.Limiter.Burst)))

	errCh := make(chan error, 2)

	var grpcServer *grpc.Server
	if cfg.GRPC.HostPort != "" {
		locationServer := &iotGrpc.LocationServer{Iot: iotCore, RateLimiterStore: grpcLimiters}
		var healthServer *health.Server
		grpcServer, healthServer = locationServer.NewGrpcServer()
		defer healthServer.Shutdown()

		listener, err := net.Listen("tcp", cfg.GRPC.HostPort)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		go func() {
			logger.Info("Starting gRPC server on " + cfg.GRPC.HostPort)
			if err := grpcServer.Serve(listener); err != nil {
				errCh <- fmt.Errorf("grpc server failed to serve: %w", err)
			}
		}()
	}

	rs := &iotHttp.RestfulServer{
		Server:           gin.Default(),
		Iot:              iotCore,
		RateLimiterStore: httpLimiters,
	}
	rs.Setup()
	httpServer := &nethttp.Server{Addr: cfg.HTTP.HostPort, Handler: rs.Server}
	go func() {
		logger.Info("Starting HTTP server on " + cfg.HTTP.HostPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed to serve: %w", err)
		}
	}()

	go pruneLimiters(ctx, logger, httpLimiters, grpcLimiters)

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err = <-errCh:
		logger.Error("Server stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("HTTP shutdown incomplete", zap.Error(shutdownErr))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if shutdownErr := runner.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("Pending evaluations abandoned", zap.Error(shutdownErr))
	}
	if publisher != nil {
		publisher.Wait()
	}
	if amqpClient != nil {
		if closeErr := amqpClient.Close(); closeErr != nil && !errors.Is(closeErr, queue.ErrAlreadyClosed) {
			logger.Warn("AMQP close failed", zap.Error(closeErr))
		}
	}

	return err
}

func pruneLimiters(ctx context.Context, logger *zap.Logger, stores ...*iot.RateLimiterStore) {
	ticker := time.NewTicker(limiterPruneEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruned := 0
			for _, s := range stores {
				pruned += s.Prune(limiterIdleAfter)
			}
			if pruned > 0 {
				logger.Debug("Pruned idle rate limiters", zap.Int("count", pruned))
			}
		}
	}
}
