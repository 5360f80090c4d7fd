/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the rent-roll server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Set up structured logging
  3. Initialize SQLite store and document storage
  4. Create API handler, router, and alert scanner
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: rentroll.db)
             Use ":memory:" for an in-memory database
  -uploads   Directory for uploaded documents (default: ./uploads)
  -scan      Alert scan interval (default: 1h, 0 disables the scanner)

ENVIRONMENT:
  LOG_LEVEL  debug|info|warn|error (default: info)
  Flags win over .env values; .env exists for docker-compose setups.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the alert scanner, close the database
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Alert scanner
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

	"github.com/joho/godotenv"

	"github.com/gharbeti/rentroll/api"
	"github.com/gharbeti/rentroll/logging"
	"github.com/gharbeti/rentroll/storage"
	"github.com/gharbeti/rentroll/store/sqlite"
)

func main() {
	// .env is optional; absence is not an error
	godotenv.Load()

	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "rentroll.db", "SQLite database path")
	uploadsDir := flag.String("uploads", "./uploads", "directory for uploaded documents")
	scanInterval := flag.Duration("scan", time.Hour, "alert scan interval (0 disables)")
	flag.Parse()

	logging.Setup()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		logging.Fatal("failed to initialize database", "error", err)
	}
	defer store.Close()

	files := storage.NewLocal(*uploadsDir, "/uploads")
	handler := api.NewHandler(store, files)
	router := api.NewRouter(handler)

	scanner := api.NewAlertScanner(store)
	if *scanInterval <= 0 {
		scanner.Enabled = false
	} else {
		scanner.CheckInterval = *scanInterval
	}
	scanner.Start()
	defer scanner.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", fmt.Sprintf("http://localhost:%d", *port), "db", *dbPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Fatal("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped")
}
