// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all simulation and transport
// settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"time"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds tick-rate and rollback-window settings shared between
// the rollback controller and the relay.
type SimConfig struct {
	TickRate    int   // simulation ticks per second
	WindowSize  int32 // rollback ring buffer depth, in frames
	HashCadence int32 // frames between outgoing state-hash broadcasts
	DevMode     bool  // passed to the controller as MatchConfig.IsDevelopment
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:    60,
		WindowSize:  120,
		HashCadence: 1,
		DevMode:     false,
	}
}

// SimFromEnv returns simulation configuration with environment variable
// overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("FIGHTCORE_TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if ws := getEnvInt("FIGHTCORE_WINDOW_SIZE", 0); ws > 0 {
		cfg.WindowSize = int32(ws)
	}
	if hc := getEnvInt("FIGHTCORE_HASH_CADENCE", 0); hc > 0 {
		cfg.HashCadence = int32(hc)
	}
	if os.Getenv("FIGHTCORE_DEV_MODE") == "true" {
		cfg.DevMode = true
	}

	return cfg
}

// TickInterval returns the wall-clock duration of one simulation tick.
func (c SimConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and performance limits on the
// debug/embedder API surface.
type ResourceLimits struct {
	MaxProjectiles     int // hard cap mirrored from simcore.MaxProjectiles
	MaxEventsPerSec    int // global diagnostic event rate limit
	MaxEventsPerPlayer int // per-player diagnostic event rate limit
	MaxRequestsPerSec  int // HTTP API per-IP rate limit
	MaxWSConnections   int // concurrent websocket hash-stream subscribers
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxProjectiles:     32,
		MaxEventsPerSec:    2000,
		MaxEventsPerPlayer: 200,
		MaxRequestsPerSec:  50,
		MaxWSConnections:   16,
	}
}

// =============================================================================
// NETWORK RELAY CONFIGURATION
// =============================================================================

// RelayConfig holds the Unix socket relay's settings.
type RelayConfig struct {
	SocketPath string
}

// DefaultRelay returns the default relay configuration.
func DefaultRelay() RelayConfig {
	return RelayConfig{
		SocketPath: "/tmp/fightcore-relay.sock",
	}
}

// RelayFromEnv returns relay configuration with environment variable
// overrides.
func RelayFromEnv() RelayConfig {
	cfg := DefaultRelay()
	if p := os.Getenv("FIGHTCORE_SOCKET_PATH"); p != "" {
		cfg.SocketPath = p
	}
	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds the debug/embedder HTTP server's settings.
type ServerConfig struct {
	Addr string
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr: ":8080",
	}
}

// ServerFromEnv returns server configuration with environment variable
// overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()
	if addr := os.Getenv("FIGHTCORE_HTTP_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimConfig
	Limits ResourceLimits
	Relay  RelayConfig
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
// Callers that want .env support should call godotenv.Load() before
// calling Load, matching how the rest of this codebase bootstraps
// environment variables.
func Load() AppConfig {
	return AppConfig{
		Sim:    SimFromEnv(),
		Limits: DefaultLimits(),
		Relay:  RelayFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
