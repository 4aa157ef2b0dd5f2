package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Server combines the HTTP router with the hash-stream hub for
// real-time desync-watching tooling.
type Server struct {
	controller  ControllerInterface
	router      *chi.Mux
	hub         *HashHub
	rateLimiter *IPRateLimiter
}

// NewServer creates an API server with default production
// configuration, registering its metrics against reg.
//
// The hash hub and the HTTP listener do not start until Start() is
// called; the IP rate limiter built here starts its cleanup goroutine
// immediately. No network listener is opened before Start().
func NewServer(controller ControllerInterface, reg *prometheus.Registry) *Server {
	metrics := NewMetrics(reg)
	hub := NewHashHub(controller, metrics)

	rateLimiter := NewIPRateLimiter(DefaultRateLimitConfig, metrics)

	router := NewRouter(RouterConfig{
		Controller:      controller,
		Metrics:         metrics,
		MetricsRegistry: reg,
		RateLimiter:     rateLimiter,
	}, hub)

	return &Server{
		controller:  controller,
		router:      router,
		hub:         hub,
		rateLimiter: rateLimiter,
	}
}

// Start begins the HTTP server AND starts background workers (the
// hash-stream hub's dispatch loop and broadcast ticker).
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	go s.hub.Run()
	s.hub.StartBroadcastLoop()

	log.Printf("fightcore debug API starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
//
// Example:
//
//	server := api.NewServer(controller, reg)
//	ts := httptest.NewServer(server.Router())
//	defer ts.Close()
//	resp, _ := http.Get(ts.URL + "/frame/current")
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.hub.Stop()
}
