package api

import (
	"net/http"
	"time"

	"fightcore/internal/simcore"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ControllerInterface defines the rollback controller methods the
// debug/embedder API calls. Kept minimal so tests can supply a fake
// without constructing a real simulation.
type ControllerInterface interface {
	CurrentFrame() int32
	GetState(frame int32) (simcore.GameState, error)
	StateHashAt(frame int32) (uint32, error)
	SubmitRemoteInputs(frame int32, remotePlayer int, remoteInput uint16) error
	CheckPeerHash(frame int32, peerHash uint32) error
}

// RouterConfig contains the dependencies needed to construct the HTTP
// router. Designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Controller: fakeController,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // high limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg, nil)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Controller is the rollback controller (required).
	Controller ControllerInterface

	// Metrics is the Prometheus instrument set for this router. If nil,
	// request instrumentation is skipped.
	Metrics *Metrics

	// MetricsRegistry backs the /metrics endpoint. If nil, /metrics is
	// not registered.
	MetricsRegistry *prometheus.Registry

	// RateLimiter is an optional pre-configured IP rate limiter. If
	// nil, a new one is created from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig configures a new RateLimiter if RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// PlayerLimiter rate-limits /remote-inputs and /peer-hash per
	// player index. If nil, a permissive default is created.
	PlayerLimiter *PlayerRateLimiter

	// CORSOrigins overrides the default allowed CORS origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware, useful
	// for benchmarks and quiet test output.
	DisableLogging bool
}

type routerHandlers struct {
	controller    ControllerInterface
	metrics       *Metrics
	playerLimiter *PlayerRateLimiter
	hub           *HashHub
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// It opens no network listeners. When cfg.RateLimiter is nil it builds
// an IPRateLimiter, which starts that limiter's cleanup goroutine;
// otherwise no goroutines are started.
//
// This makes it safe to use in tests with httptest.NewServer. hub may
// be nil, in which case /ws/hashes is not registered.
func NewRouter(cfg RouterConfig, hub *HashHub) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg, cfg.Metrics)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = AllowedOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	playerLimiter := cfg.PlayerLimiter
	if playerLimiter == nil {
		playerLimiter = NewPlayerRateLimiter(120, 240)
	}

	h := &routerHandlers{
		controller:    cfg.Controller,
		metrics:       cfg.Metrics,
		playerLimiter: playerLimiter,
		hub:           hub,
	}

	r.Get("/frame/current", h.withMetrics("frame_current", h.handleFrameCurrent))
	r.Get("/state/{frame}", h.withMetrics("state", h.handleGetStateAt))
	r.Get("/hash/{frame}", h.withMetrics("hash", h.handleGetHashAt))
	r.Post("/remote-inputs", h.withMetrics("remote_inputs", h.handleRemoteInputs))
	r.Post("/peer-hash", h.withMetrics("peer_hash", h.handlePeerHash))

	if hub != nil {
		r.Get("/ws/hashes", hub.HandleWebSocket)
	}

	if cfg.MetricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":"fightcore"}`))
	})

	return r
}

// withMetrics wraps a handler with latency/count instrumentation,
// labeled by a bounded endpoint name (never the raw request path, to
// keep metric cardinality bounded).
func (h *routerHandlers) withMetrics(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next(w, r)
			return
		}
		start := time.Now()
		sw := &statusCapturingWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		h.metrics.RecordRequest(r.Method, endpoint, sw.status, time.Since(start))
	}
}

type statusCapturingWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusCapturingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
