/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the receivables dashboard server: snapshot store,
  initial refresh, background refresher, HTTP router, graceful shutdown.

COMMAND-LINE FLAGS:
  -port              HTTP server port (default: 8080, env PORT)
  -db                SQLite snapshot database path (default: polizas.db,
                     env DB_PATH; use ":memory:" for in-memory)
  -seed              Load the demo portfolio into the store on startup
  -import            Import a JSON snapshot file before serving
  -refresh-interval  Background refresh interval (default: 10m; 0 disables)

ENVIRONMENT:
  A .env file is loaded when present (PORT, DB_PATH). Flags win over env.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop the refresher, stop accepting connections, wait
  up to 30s for active requests, close the store.
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

	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/api"
	"github.com/hugooswaldo23/ProSistemaSeguros-sub004/store/sqlite"
)

func main() {
	// .env is optional; flags take precedence over environment values.
	if err := godotenv.Load(); err == nil {
		log.Println("[Server] Loaded configuration from .env")
	}

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envString("DB_PATH", "polizas.db"), "SQLite snapshot database path")
	seed := flag.Bool("seed", false, "load the demo portfolio on startup")
	importPath := flag.String("import", "", "JSON snapshot file to import before serving")
	refreshEvery := flag.Duration("refresh-interval", 10*time.Minute, "background refresh interval (0 disables)")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if *seed {
		if err := store.SeedDemo(ctx); err != nil {
			log.Fatalf("Failed to seed demo portfolio: %v", err)
		}
		log.Println("[Server] Seeded demo portfolio")
	}
	if *importPath != "" {
		if err := store.ImportFile(ctx, *importPath); err != nil {
			log.Fatalf("Failed to import snapshot %s: %v", *importPath, err)
		}
		log.Printf("[Server] Imported snapshot from %s", *importPath)
	}

	handler := api.NewHandler(store)
	if _, err := handler.Refresh(ctx); err != nil {
		log.Printf("Warning: initial refresh failed: %v", err)
	}

	refresher := api.NewRefresher(handler, *refreshEvery)
	refresher.Start()
	defer refresher.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Server] Listening on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
