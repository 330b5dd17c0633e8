package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the arena's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "arena").
	Namespace string

	// Buckets are the histogram buckets for dispatch duration.
	// Default: microsecond to 10ms range.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	Registry prometheus.Registerer
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "arena",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		Registry:  prometheus.NewRegistry(),
	}
}

// Metrics holds the counters the hub and sessions update.
type Metrics struct {
	connections      prometheus.Gauge
	players          prometheus.Gauge
	foodConsumed     prometheus.Counter
	staleClaims      prometheus.Counter
	orphanMessages   prometheus.Counter
	broadcasts       *prometheus.CounterVec
	received         *prometheus.CounterVec
	decodeErrors     *prometheus.CounterVec
	queueOverflows   prometheus.Counter
	dispatchDuration *prometheus.HistogramVec
}

// NewMetrics registers the arena metrics with config.Registry.
//
// Metrics collected:
//   - arena_connections: open websocket sessions
//   - arena_players: joined players
//   - arena_food_consumed_total: successful consumptions
//   - arena_stale_claims_total: claims on food that was already gone
//   - arena_orphan_messages_total: reports from identities without a player record
//   - arena_broadcasts_total{event}: fan-outs by event
//   - arena_messages_received_total{event}: decoded inbound messages by event
//   - arena_decode_errors_total{code}: dropped frames by error code
//   - arena_send_queue_overflows_total: sessions closed for a full send queue
//   - arena_dispatch_duration_seconds{event}: time spent handling one message
func NewMetrics(config MetricsConfig) *Metrics {
	defaults := defaultMetricsConfig()
	if config.Namespace == "" {
		config.Namespace = defaults.Namespace
	}
	if len(config.Buckets) == 0 {
		config.Buckets = defaults.Buckets
	}
	if config.Registry == nil {
		config.Registry = defaults.Registry
	}

	factory := promauto.With(config.Registry)
	ns := config.Namespace

	return &Metrics{
		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "connections",
			Help:      "Number of open websocket sessions",
		}),
		players: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "players",
			Help:      "Number of joined players",
		}),
		foodConsumed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "food_consumed_total",
			Help:      "Total number of successful food consumptions",
		}),
		staleClaims: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "stale_claims_total",
			Help:      "Total number of claims on food that was already consumed",
		}),
		orphanMessages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "orphan_messages_total",
			Help:      "Total number of reports from identities with no player record",
		}),
		broadcasts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "broadcasts_total",
			Help:      "Total number of broadcasts by event",
		}, []string{"event"}),
		received: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "messages_received_total",
			Help:      "Total number of decoded inbound messages by event",
		}, []string{"event"}),
		decodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "decode_errors_total",
			Help:      "Total number of dropped inbound frames by error code",
		}, []string{"code"}),
		queueOverflows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "send_queue_overflows_total",
			Help:      "Total number of sessions closed because their send queue was full",
		}),
		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent handling one inbound message",
			Buckets:   config.Buckets,
		}, []string{"event"}),
	}
}

// newRegistry returns a registry preloaded with the Go runtime and process collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
