package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wadrando/wadrando/internal/config"
	"github.com/wadrando/wadrando/internal/logger"
	"github.com/wadrando/wadrando/internal/relay"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting tuning relay",
		"port", cfg.RelayPort,
		"environment", cfg.Environment,
		"tuning_dir", cfg.TuningDir)

	server := &http.Server{
		Addr:        ":" + cfg.RelayPort,
		Handler:     relay.NewServer(cfg, log).Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
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
