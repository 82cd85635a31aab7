package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jwebster45206/adventure-client/internal/config"
	"github.com/jwebster45206/adventure-client/internal/gameapi"
	"github.com/jwebster45206/adventure-client/internal/handlers"
	"github.com/jwebster45206/adventure-client/internal/logger"
	"github.com/jwebster45206/adventure-client/internal/session"
	"github.com/jwebster45206/adventure-client/pkg/viewstate"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg, os.Stdout)

	log.Info("Starting adventure web client",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"api_base_url", cfg.APIBaseURL,
		"stale_guard", cfg.StaleGuard)

	client := gameapi.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, log)
	store := session.NewStore(func() *viewstate.Controller {
		return viewstate.New(client,
			viewstate.WithLogger(log),
			viewstate.WithStaleGuard(cfg.StaleGuard))
	}, cfg.SessionIdleTimeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout + 5*time.Second))
	}

	handlers.NewGameHandler(store, log).RegisterRoutes(r)
	r.Handle("/health", handlers.NewHealthHandler(store, cfg.APIBaseURL, log))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
