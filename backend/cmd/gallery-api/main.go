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

	"github.com/itchan-dev/gallery/backend/internal/router"
	"github.com/itchan-dev/gallery/backend/internal/setup"
	"github.com/itchan-dev/gallery/shared/config"
	"github.com/itchan-dev/gallery/shared/logger"
	"github.com/spf13/afero"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)

	deps, err := setup.SetupDependencies(cfg, afero.NewOsFs())
	if err != nil {
		logger.Log.Error("failed to setup dependencies", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	deps.TempCollector.StartBackgroundCleanup(ctx, cfg.Public.Cleanup.Interval)
	deps.PublicLimiter.StartSweeper(ctx.Done())
	deps.AdminLimiter.StartSweeper(ctx.Done())

	srv := &http.Server{
		Addr:              cfg.Public.ListenAddr,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Log.Info("server started",
			"addr", cfg.Public.ListenAddr,
			"root", cfg.Public.Root,
			"images_dir", cfg.Public.ImagesDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down")

	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}
