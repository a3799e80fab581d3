package main

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	iotGrpc "liyu1981.xyz/safezone-service/pkg/grpc"
)

type simulateOpts struct {
	httpHostPort string
	grpcHostPort string
	devices      int
	steps        int
	interval     time.Duration
	radius       float64
}

var simOpts simulateOpts

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive synthetic wearables in and out of their safe zones against a running server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSimulate(cmd.Context(), simOpts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simOpts.httpHostPort, "http", "127.0.0.1:1080", "HTTP address of the server")
	simulateCmd.Flags().StringVar(&simOpts.grpcHostPort, "grpc", "", "gRPC address; when set, half of the readings go over gRPC")
	simulateCmd.Flags().IntVar(&simOpts.devices, "devices", 100, "number of simulated devices")
	simulateCmd.Flags().IntVar(&simOpts.steps, "steps", 20, "readings per device")
	simulateCmd.Flags().DurationVar(&simOpts.interval, "interval", 100*time.Millisecond, "pause between readings of one device")
	simulateCmd.Flags().Float64Var(&simOpts.radius, "radius", 200, "safe zone radius in meters")
	rootCmd.AddCommand(simulateCmd)
}

type simulator struct {
	opts       simulateOpts
	baseURL    string
	httpClient *http.Client
	grpcClient *iotGrpc.LocationServiceClient

	sent     atomic.Int64
	failed   atomic.Int64
	limited  atomic.Int64
	outsides atomic.Int64
}

type simDevice struct {
	id                string
	homeLat, homeLon  float64
	distance, bearing float64
	battery           int
}

func runSimulate(ctx context.Context, opts simulateOpts) error {
	s := &simulator{
		opts:       opts,
		baseURL:    "http://" + opts.httpHostPort,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	resp, err := s.httpClient.Get(s.baseURL + "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to HTTP server: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP server not available: %s", resp.Status)
	}
	fmt.Printf("http server verified\n")

	if opts.grpcHostPort != "" {
		conn, err := grpc.NewClient(opts.grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("failed to connect to gRPC server: %w", err)
		}
		defer conn.Close()
		s.grpcClient = iotGrpc.NewLocationServiceClient(conn)
		fmt.Printf("gRPC client ready\n")
	}

	startTime := time.Now()
	devices := make([]*simDevice, opts.devices)
	var wg sync.WaitGroup
	var setupErr atomic.Value
	for i := range opts.devices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			device, err := s.setupDevice(ctx)
			if err != nil {
				setupErr.Store(err)
				return
			}
			devices[i] = device
		}()
	}
	wg.Wait()
	if err, ok := setupErr.Load().(error); ok {
		return fmt.Errorf("device setup failed: %w", err)
	}
	usedTime := time.Since(startTime)
	fmt.Printf("set up %v devices: used time=%v seconds\n", opts.devices, usedTime.Seconds())

	startTime = time.Now()
	for _, device := range devices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.walk(ctx, device)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	total := s.sent.Load() + s.failed.Load() + s.limited.Load()
	fmt.Printf(
		"sent %v readings (%v outside, %v rate limited, %v failed): used time=%v seconds, throughput=%v readings/second\n",
		s.sent.Load(), s.outsides.Load(), s.limited.Load(), s.failed.Load(),
		usedTime.Seconds(), float64(total)/usedTime.Seconds(),
	)
	return nil
}

func (s *simulator) postJSON(ctx context.Context, path string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.Bytes(), nil
}

func (s *simulator) setupDevice(ctx context.Context) (*simDevice, error) {
	code, body, err := s.postJSON(ctx, "/devices", map[string]any{
		"user_id":      gofakeit.UUID(),
		"hardware_id":  gofakeit.UUID(),
		"name":         gofakeit.Color() + " watch",
		"patient_name": gofakeit.Name(),
	})
	if err != nil {
		return nil, err
	}
	if code != http.StatusCreated {
		return nil, fmt.Errorf("register device: %d %s", code, body)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, err
	}

	device := &simDevice{
		id:      created.ID,
		homeLat: gofakeit.Float64Range(-60, 60),
		homeLon: gofakeit.Float64Range(-180, 180),
		bearing: gofakeit.Float64Range(0, 2*math.Pi),
		battery: gofakeit.IntRange(40, 100),
	}

	code, body, err = s.postJSON(ctx, "/devices/"+device.id+"/geofences", map[string]any{
		"name":             gofakeit.Street(),
		"center_latitude":  device.homeLat,
		"center_longitude": device.homeLon,
		"radius_meters":    s.opts.radius,
	})
	if err != nil {
		return nil, err
	}
	if code != http.StatusCreated {
		return nil, fmt.Errorf("create geofence: %d %s", code, body)
	}

	code, body, err = s.postJSON(ctx, "/devices/"+device.id+"/alert-config", map[string]any{
		"emails":                  []string{gofakeit.Email()},
		"phones":                  []string{"+" + gofakeit.Numerify("55###########")},
		"alert_frequency_minutes": gofakeit.IntRange(5, 30),
	})
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("configure alerts: %d %s", code, body)
	}

	return device, nil
}

// position moves the device distance meters from home along bearing.
func (d *simDevice) position() (lat, lon float64) {
	const metersPerDegree = 111_320.0
	lat = d.homeLat + d.distance*math.Cos(d.bearing)/metersPerDegree
	lon = d.homeLon + d.distance*math.Sin(d.bearing)/(metersPerDegree*math.Cos(d.homeLat*math.Pi/180))
	return lat, lon
}

func (s *simulator) walk(ctx context.Context, device *simDevice) {
	for range s.opts.steps {
		if ctx.Err() != nil {
			return
		}

		// wander mostly around the zone boundary
		device.distance = math.Max(0, device.distance+gofakeit.Float64Range(-0.5, 0.6)*s.opts.radius)
		device.bearing += gofakeit.Float64Range(-0.3, 0.3)
		if gofakeit.IntRange(0, 9) == 0 && device.battery > 0 {
			device.battery--
		}
		if device.distance > s.opts.radius {
			s.outsides.Add(1)
		}

		lat, lon := device.position()
		if s.grpcClient != nil && gofakeit.Bool() {
			s.reportGrpc(ctx, device, lat, lon)
		} else {
			s.reportHttp(ctx, device, lat, lon)
		}

		time.Sleep(s.opts.interval)
	}
}

func (s *simulator) reportHttp(ctx context.Context, device *simDevice, lat, lon float64) {
	code, _, err := s.postJSON(ctx, "/devices/"+device.id+"/locations", map[string]any{
		"latitude":      lat,
		"longitude":     lon,
		"battery_level": device.battery,
		"timestamp":     time.Now().UTC().Format(time.RFC3339Nano),
	})
	switch {
	case err != nil:
		s.failed.Add(1)
	case code == http.StatusTooManyRequests:
		s.limited.Add(1)
	case code != http.StatusOK:
		s.failed.Add(1)
	default:
		s.sent.Add(1)
	}
}

func (s *simulator) reportGrpc(ctx context.Context, device *simDevice, lat, lon float64) {
	req, err := structpb.NewStruct(map[string]any{
		"device_id":     device.id,
		"latitude":      lat,
		"longitude":     lon,
		"battery_level": device.battery,
		"timestamp":     time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		s.failed.Add(1)
		return
	}

	resp, err := s.grpcClient.ReportLocation(ctx, req)
	switch {
	case status.Code(err) == codes.ResourceExhausted:
		s.limited.Add(1)
	case err != nil:
		s.failed.Add(1)
	case !resp.GetFields()["success"].GetBoolValue():
		s.failed.Add(1)
	default:
		s.sent.Add(1)
	}
}
