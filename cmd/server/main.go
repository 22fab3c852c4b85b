package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/adcraft/server/internal/config"
	"codeberg.org/adcraft/server/internal/logger"
)

// @title AdCraft API
// @version 1.0
// @description Generates tone-specific ad copy for image and video creatives
// @description
// @description Features:
// @description - Five copy variants per creative, one per persuasion tone
// @description - Daily free allowance with paid plans for unlimited use
// @description - CSV export of the latest result

// @contact.name API Support
// @contact.url https://codeberg.org/adcraft/server

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token from /api/v1/auth/anonymous. Format: Bearer {token}

func main() {
	logger.Info("starting adcraft server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	srv, err := NewServer(context.Background(), cfg)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	// a response may wait for a full generation
	writeTimeout := cfg.GenerationTimeout + 15*time.Second

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// in-flight generations get the full timeout to finish
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GenerationTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	srv.Close()

	logger.Info("server stopped")
}
