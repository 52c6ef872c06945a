package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"demographics/internal/platform/config"
	"demographics/internal/platform/httpserver"
	"demographics/internal/platform/logger"
	"demographics/internal/platform/metrics"
	"demographics/internal/registry/mockserver"
)

// main serves canned HCIM_IN_GetDemographics replies for local development.
func main() {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		logger.New("error", "text").Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	metrics.Register(router)
	mockserver.New(log).Register(router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(cfg.MockRegistryAddr, router)
	log.Info("starting mock registry", "addr", cfg.MockRegistryAddr, "path", mockserver.Path)
	if err := httpserver.Run(ctx, srv, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
