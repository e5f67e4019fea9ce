package handler

import (
	"context"
	"log"
	"net/http"
	"sync"

	"portfolio-api/internal/config"
	"portfolio-api/internal/server"
)

var (
	handler     http.Handler
	mu          sync.Mutex
	initErr     error
	initialized bool
)

// initHandler initializes the HTTP handler once and reuses it across invocations.
// Only a configuration error fails initialization; missing storage credentials
// produce a working handler that serves an empty gallery.
//
// Note: the storage client is not explicitly closed as Vercel's serverless
// runtime handles resource cleanup on function termination.
func initHandler() error {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return initErr
	}

	ctx := context.Background()

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		initErr = err
		initialized = true
		return err
	}

	svcs := server.InitServices(ctx, cfg)
	handler = server.CreateHandler(ctx, svcs, cfg)
	initialized = true
	initErr = nil

	log.Println("Handler initialized successfully")
	return nil
}

// Handler is the Vercel serverless function entry point
func Handler(w http.ResponseWriter, r *http.Request) {
	// Attempt initialization (will succeed immediately if already initialized)
	if err := initHandler(); err != nil {
		log.Printf("Handler initialization failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Delegate to the initialized handler
	handler.ServeHTTP(w, r)
}
