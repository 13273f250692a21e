/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift scheduling server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Initialize SQLite store
  3. Build the scheduling service with the configured period scheme
  4. Create API handler and router
  5. Optionally load the demo roster
  6. Start the quota monitor
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS (environment variable in brackets):
  -port              HTTP server port [PORT] (default: 8080)
  -db                SQLite database path [DATABASE_PATH] (default: shifts.db)
                     Use ":memory:" for in-memory database
  -log-level         debug, info, warn, error [LOG_LEVEL]
  -quota-period      four_week or calendar_month [QUOTA_PERIOD_SCHEME]
  -leave-counting    per_shift or per_calendar_day [LEAVE_COUNTING]
  -cors-origins      Comma-separated origins [CORS_ORIGINS]
  -shutdown-timeout  Graceful shutdown budget [SHUTDOWN_TIMEOUT] (default: 30s)
  -seed-demo         Load the staff-roster scenario at startup [SEED_DEMO]
  -quota-check-interval  Quota monitor period, 0 disables [QUOTA_CHECK_INTERVAL] (default: 1h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (shutdown timeout)
  3. Stop the quota monitor
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/shifts.db"

  # Run in memory with demo data
  ./server -db=":memory:" -seed-demo

SEE ALSO:
  - config/config.go: Configuration sources
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/shift-engine/api"
	"github.com/warp/shift-engine/config"
	"github.com/warp/shift-engine/scheduling"
	"github.com/warp/shift-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	logger := cfg.NewLogger()

	// Initialize store
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer store.Close()

	svc := scheduling.NewService(store, scheduling.Options{
		Scheme:      cfg.Scheme(),
		LeavePolicy: cfg.LeaveCounting,
		Logger:      logger,
	})
	handler := api.NewHandler(svc, logger)

	if cfg.SeedDemo {
		if err := handler.LoadScenarioByID(context.Background(), "staff-roster"); err != nil {
			logger.WithError(err).Warn("Failed to load demo data")
		}
	}

	monitor := api.NewQuotaMonitor(svc, logger)
	monitor.CheckInterval = cfg.QuotaCheckInterval
	monitor.Start()

	router := api.NewRouter(handler, api.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.CORSOrigins,
		Monitor:        monitor,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":           cfg.Port,
			"db":             cfg.DatabasePath,
			"quota_period":   svc.Scheme().Name(),
			"leave_counting": svc.LeavePolicy(),
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	monitor.Stop()

	logger.Info("Server stopped")
}
