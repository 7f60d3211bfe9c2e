// Command airspace-viewer serves OpenAir airspace files as GeoJSON and
// KML over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airspacelab/airspace-viewer/internal/api"
	"github.com/airspacelab/airspace-viewer/internal/config"
	"github.com/airspacelab/airspace-viewer/internal/openair"
	"github.com/airspacelab/airspace-viewer/internal/render"
	"github.com/airspacelab/airspace-viewer/internal/service"
	"github.com/airspacelab/airspace-viewer/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the TOML config file")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	log, err := logger.New(logger.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		File:           cfg.Logging.File,
		FileMaxSizeMB:  cfg.Logging.FileMaxSizeMB,
		FileMaxBackups: cfg.Logging.FileMaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Airspace Viewer",
		logger.String("addr", cfg.Server.Addr()),
		logger.String("default_file", cfg.Airspace.DefaultFile))

	airspaces := service.New(
		openair.NewFileParser(log),
		render.NewGeoJSON(log),
		render.NewKML(log),
		cfg.Airspace.DefaultFile,
		log,
	)

	// Load the default file up front so the first request is served from
	// the cache.
	airspaces.Load("")

	router := api.NewRouter(airspaces, cfg, log)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("HTTP server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", logger.Error(err))
	}
}
