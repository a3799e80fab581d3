package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AlertMetrics covers the path from an ingested reading to a delivered alert.
type AlertMetrics struct {
	LocationsIngested   *prometheus.CounterVec
	Evaluations         *prometheus.CounterVec
	StateTransitions    *prometheus.CounterVec
	PolicyOutcomes      *prometheus.CounterVec
	DispatchAttempts    *prometheus.CounterVec
	DispatchDuration    *prometheus.HistogramVec
	QueueMessages       *prometheus.CounterVec
	BreakerState        *prometheus.GaugeVec
	EvaluationsInFlight prometheus.Gauge
}

func NewAlertMetrics(namespace string) *AlertMetrics {
	m := &AlertMetrics{
		LocationsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ingest",
				Name:      "locations_total",
				Help:      "Total number of location readings received",
			},
			[]string{"source", "status"}, // source: http, grpc
		),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "geofence",
				Name:      "evaluations_total",
				Help:      "Total number of geofence evaluations",
			},
			[]string{"result"}, // inside, outside, no_geofence, error
		),
		StateTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "geofence",
				Name:      "state_transitions_total",
				Help:      "Total number of inside/outside transitions",
			},
			[]string{"from", "to"},
		),
		PolicyOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "policy",
				Name:      "outcomes_total",
				Help:      "Alert policy decisions by outcome",
			},
			[]string{"outcome"},
		),
		DispatchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "attempts_total",
				Help:      "Notification transport calls by channel and result",
			},
			[]string{"channel", "result"}, // result: success, error
		),
		DispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "duration_seconds",
				Help:      "Duration of a channel dispatch",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"channel"},
		),
		QueueMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "messages_total",
				Help:      "Location events published and consumed over AMQP",
			},
			[]string{"direction", "status"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "circuit_breaker_state",
				Help:      "Transport circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		EvaluationsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "geofence",
				Name:      "evaluations_in_flight",
				Help:      "Detached evaluations currently running",
			},
		),
	}

	MustRegister(
		m.LocationsIngested,
		m.Evaluations,
		m.StateTransitions,
		m.PolicyOutcomes,
		m.DispatchAttempts,
		m.DispatchDuration,
		m.QueueMessages,
		m.BreakerState,
		m.EvaluationsInFlight,
	)

	return m
}
