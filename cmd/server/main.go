/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the practice reports server: configuration,
  dependency wiring, graceful shutdown.

STARTUP SEQUENCE:
  1. Load optional .env, parse command-line flags
  2. Open the SQLite reporting store (or the seeded in-memory demo book)
  3. Wire cache -> orchestrator -> handler -> router
  4. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080, env PORT)
  -db      SQLite database path (default: practice.db, env DATABASE_PATH)
  -demo    Serve the seeded in-memory demo book instead of SQLite

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain active requests
  (30s timeout), stop the cache janitor, close the store.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arden/practice-engine/api"
	"github.com/arden/practice-engine/cache"
	"github.com/arden/practice-engine/reports"
	"github.com/arden/practice-engine/store/memory"
	"github.com/arden/practice-engine/store/sqlite"
)

func main() {
	// .env is optional; flags and real env win.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DATABASE_PATH", "practice.db"), "SQLite database path")
	demo := flag.Bool("demo", false, "serve the seeded in-memory demo book")
	flag.Parse()

	var (
		ledger    reports.LedgerReader
		directory reports.EmployeeDirectory
		closeFn   = func() error { return nil }
	)

	if *demo {
		mem := memory.New()
		memory.Seed(mem, time.Now().UTC())
		ledger, directory = mem, mem
		log.Println("Serving seeded demo book (no database)")
	} else {
		store, err := sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		ledger, directory = store, store
		closeFn = store.Close
	}
	defer closeFn()

	kv := cache.NewMemory()
	kv.StartJanitor(5 * time.Minute)
	defer kv.StopJanitor()

	reportCache := reports.NewReportCache(kv, reports.NewFiscalCalendar())
	orchestrator := reports.NewOrchestrator(ledger, directory, reportCache)
	handler := api.NewHandler(orchestrator, directory)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Reports server listening on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
