package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pixora-dev/pixora/frontend/internal/router"
	"github.com/pixora-dev/pixora/frontend/internal/setup"
	"github.com/pixora-dev/pixora/shared/config"
	"github.com/pixora-dev/pixora/shared/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to set up dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.CancelFunc()

	server := &http.Server{
		Addr:              ":" + cfg.Public.Port,
		Handler:           router.New(deps),
		ReadTimeout:       cfg.Public.ReadTimeout,
		ReadHeaderTimeout: cfg.Public.ReadTimeout,
		WriteTimeout:      cfg.Public.WriteTimeout,
		IdleTimeout:       2 * cfg.Public.WriteTimeout,
	}

	go func() {
		logger.Log.Info("starting frontend", "addr", server.Addr, "api_origin", cfg.Public.APIOrigin)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}
