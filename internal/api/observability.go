package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the debug surface's Prometheus instruments, all
// registered against an explicit prometheus.Registerer so tests and
// multiple matches in the same process never collide on metric names.
type Metrics struct {
	TickDuration        prometheus.Histogram
	RequestLatency      *prometheus.HistogramVec
	RequestTotal        *prometheus.CounterVec
	ConnectionRejected  *prometheus.CounterVec
	WSConnectionsActive prometheus.Gauge
	WSMessagesTotal     prometheus.Counter
}

// NewMetrics registers this package's instruments against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fightcore_api_tick_duration_seconds",
			Help:    "Time spent servicing one tick-driven request cycle",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fightcore_api_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		RequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fightcore_api_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		ConnectionRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fightcore_api_connection_rejected_total",
			Help: "Connections rejected by rate limiter or origin check",
		}, []string{"reason"}), // bounded: "rate_limit", "origin", "ws_limit"
		WSConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fightcore_api_websocket_connections_active",
			Help: "Currently active WebSocket hash-stream connections",
		}),
		WSMessagesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fightcore_api_websocket_messages_total",
			Help: "Total hash-stream messages sent",
		}),
	}
}

// RecordRequest records HTTP request metrics.
func (m *Metrics) RecordRequest(method, endpoint string, status int, duration time.Duration) {
	m.RequestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.RequestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// ObservabilityConfig configures the debug server.
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // should be "127.0.0.1:6060" outside development
	BasicAuthUser string
	BasicAuthPass string
}

// DefaultObservabilityConfig returns safe defaults.
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// StartDebugServer starts the internal pprof/metrics server.
// CRITICAL: this must bind to localhost only to prevent pprof-based DoS.
func StartDebugServer(cfg ObservabilityConfig, reg *prometheus.Registry) error {
	if !cfg.Enabled {
		log.Println("debug server disabled")
		return nil
	}

	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		if os.Getenv("FIGHTCORE_ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Println("debug server forced to localhost for security")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = mux
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}

	go func() {
		log.Printf("debug server starting on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
			log.Printf("debug server error: %v", err)
		}
	}()

	return nil
}

func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
