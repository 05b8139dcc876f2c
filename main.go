// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	_ "time/tzdata"

	"poscounter/internal/catalog"
	"poscounter/internal/config"
	"poscounter/internal/data"
	"poscounter/internal/logger"
	"poscounter/internal/security"
	"poscounter/internal/session"
	"poscounter/internal/web"
)

type App struct {
	addr          string
	handler       http.Handler
	connections   sync.WaitGroup
	totalRequests int64
	stop          chan struct{}
}

func main() {
	// Step 1: Setup configuration first
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Step 2: Setup logging
	if err := logger.SetupLogger(cfg.LoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.LogInfo("Environment loaded. Logger ready.")
	config.LogCurrentEnvironment()

	// Step 3: Open the transaction log
	if err := data.InitDB(cfg.DBPath); err != nil {
		logger.LogFatal("Failed to open database: %v", err)
	}
	if err := data.CreateTables(); err != nil {
		logger.LogFatal("Failed to create tables: %v", err)
	}
	repo, err := data.NewHistoryRepository()
	if err != nil {
		logger.LogFatal("Failed to prepare history repository: %v", err)
	}

	// Step 4: Load the menu
	menu := catalog.NewService()
	if cfg.CatalogPath != "" {
		if err := menu.LoadFromFile(cfg.CatalogPath); err != nil {
			logger.LogFatal("Failed to load catalog: %v", err)
		}
	}

	// Step 5: Setup app
	sessions := session.NewStore(cfg.SessionTTL)
	csrf := security.NewTokenStore(time.Hour)
	srv := web.NewServer(web.Options{
		Catalog:  menu,
		Store:    repo,
		Sessions: sessions,
		CSRF:     csrf,
		Location: cfg.Location(),
	})

	app := &App{
		addr:    cfg.Address(),
		handler: srv.Router(),
		stop:    make(chan struct{}),
	}

	// Step 6: Start background tasks
	sessions.StartSweeper(10*time.Minute, app.stop)
	go csrf.CleanExpiredTokens(10*time.Minute, app.stop)

	// Step 7: Run server
	app.Run()
}

// Run starts the HTTP server and blocks until a shutdown signal is handled.
func (a *App) Run() {
	server := &http.Server{
		Addr:         a.addr,
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for shutdown signals
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.LogInfo("Starting server on %s", a.addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogFatal("Server failed: %v", err)
		}
	}()

	<-sig
	logger.LogInfo("Shutdown signal received")
	close(a.stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.LogError("Server shutdown error: %v", err)
	}

	logger.LogInfo("Waiting for active connections to finish...")
	a.connections.Wait()
	logger.LogInfo("All connections closed. Total requests handled: %d", atomic.LoadInt64(&a.totalRequests))

	if err := data.CloseDB(); err != nil {
		logger.LogError("Failed to close database: %v", err)
	}
	logger.LogInfo("Server shut down gracefully")
}

// Handler wraps the router with connection tracking and a request timeout.
func (a *App) Handler() http.Handler {
	handler := a.trackConnections(a.handler)
	return withTimeout(handler, 15*time.Second)
}

// Middleware: timeout handler
func withTimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.TimeoutHandler(h, timeout, "Request timed out")
}

// Middleware: track active connections and total requests
func (a *App) trackConnections(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.connections.Add(1)
		atomic.AddInt64(&a.totalRequests, 1)
		defer a.connections.Done()

		h.ServeHTTP(w, r)
	})
}
