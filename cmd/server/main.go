// Command server hosts a live rollback match and the debug/embedder
// HTTP API around it. It is a harness, not a game client: real input
// capture and rendering are external collaborators the core never
// touches (spec.md §1), so the local player's input defaults to idle
// and the remote player's input is expected to arrive over the debug
// API's /remote-inputs endpoint, exactly the way a real embedder's
// network layer would call SubmitRemoteInputs.
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fightcore/internal/config"
	"fightcore/internal/rollback"
	"fightcore/internal/simcore"

	"fightcore/internal/api"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	appConfig := config.Load()
	simCfg := appConfig.Sim

	log.Printf("fightcore starting: %d tps, window=%d frames, dev=%v, hash every %d frames",
		simCfg.TickRate, simCfg.WindowSize, simCfg.DevMode, simCfg.HashCadence)

	character := simcore.DefaultCharacter().ResolveActionIDs()
	library := simcore.DefaultActionLibrary(character)

	eventLog := simcore.NewEventLog()
	eventLogPath := getEnvWithDefault("FIGHTCORE_EVENT_LOG_PATH", "events.jsonl")
	if err := eventLog.Start(eventLogPath); err != nil {
		log.Printf("event log disabled: %v", err)
	}
	defer eventLog.Stop()

	registry := prometheus.NewRegistry()

	controller := rollback.NewRollbackController(rollback.MatchConfig{
		Map:           simcore.DefaultStage(),
		CharacterDefs: [2]simcore.CharacterDef{character, character},
		Library:       library,
		WindowSize:    simCfg.WindowSize,
		IsDevelopment: simCfg.DevMode,
		EventLog:      eventLog,
		Registry:      registry,
	})

	server := api.NewServer(controller, registry)

	go func() {
		addr := appConfig.Server.Addr
		log.Printf("debug API listening on %s", addr)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("debug API failed: %v", err)
		}
	}()

	stop := make(chan struct{})
	go runLocalMatch(controller, simCfg.TickInterval(), stop)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	close(stop)
	server.Stop()
}

// runLocalMatch ticks the controller at the configured rate, local
// player 0 idle (no input source wired in this harness) predicting
// for remote player 1. A real embedder replaces this loop with one
// driven by actual input capture; everything downstream (the rollback
// controller, Simulation.Tick) is unchanged either way.
func runLocalMatch(controller *rollback.Controller, tickInterval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			controller.TickPrediction(0, 0)
		case <-stop:
			return
		}
	}
}

func getEnvWithDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
