/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the reporting engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse environment config
  2. Apply command-line flag overrides
  3. Initialize SQLite store
  4. Wire the reporting service, lock manager and API handler
  5. Start server with graceful shutdown

CONFIGURATION:
  Environment (or .env):
    PORT                HTTP server port (default: 8080)
    DB_PATH             SQLite database path (default: reports.db)
    SYSTEM_START_YEAR   Earliest year the system reports on (default: 2015)
    LOG_LEVEL           debug | info | warn | error (default: info)
  Flags -port and -db override the environment.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/clockwise/reporting-engine/api"
	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/closing"
	"github.com/clockwise/reporting-engine/report"
	"github.com/clockwise/reporting-engine/store/sqlite"
)

func main() {
	// .env is optional; the environment wins when both are set.
	_ = godotenv.Load()

	var cfg api.Config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse configuration", "error", err)
		os.Exit(1)
	}

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path (\":memory:\" for in-memory)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Wire the engine
	cal := calendar.NewDefaultService(cfg.StartYear)
	closings := closing.NewManager(store.Closings())
	reports := report.NewService(
		store.Entries(),
		store.Contributors(),
		store.Users(),
		closings,
		cal,
	)

	handler := &api.Handler{
		Reports:  reports,
		Closings: closings,
		OnCall:   store.Windows(),
		Windows:  store,
		Calendar: cal,
	}
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr, "db", *dbPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
