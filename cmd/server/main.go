package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vedsatt/scan-dashboard/internal/config"
	"github.com/vedsatt/scan-dashboard/internal/memstore"
	"github.com/vedsatt/scan-dashboard/internal/repository"
	"github.com/vedsatt/scan-dashboard/internal/seed"
	"github.com/vedsatt/scan-dashboard/internal/service"
	"github.com/vedsatt/scan-dashboard/internal/simulation"
	"github.com/vedsatt/scan-dashboard/internal/transport"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// storage is what the server needs from either driver.
type storage interface {
	service.Repository
	ImportSeed(ctx context.Context, data *seed.Data) error
	CloseConnection()
}

type App struct {
	Server          *http.Server
	Repository      storage
	Tracker         *simulation.Tracker
	ShutdownTimeout time.Duration
}

func main() {
	zapCfg := zap.NewProductionConfig()
	logger, _ := zapCfg.Build()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	app := &App{}

	cfg, err := config.NewConfig()
	if err != nil {
		zap.L().Fatal("failed to get config", zap.Error(err))
	}
	app.ShutdownTimeout = cfg.ShutdownTimeout

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		zap.L().Warn("unknown log level, keeping info", zap.String("level", cfg.LogLevel))
	} else {
		zapCfg.Level.SetLevel(level)
	}

	repository, err := newStorage(cfg)
	if err != nil {
		zap.L().Fatal("failed to create repository", zap.Error(err))
	}
	app.Repository = repository

	app.Tracker = simulation.NewTracker(cfg.SimulationTick)
	service := service.NewService(repository, app.Tracker)

	zap.L().Info("starting server...",
		zap.String("port", cfg.HTTPPort),
		zap.String("storage", cfg.StorageDriver))
	server := transport.StartServer(cfg, service)
	app.Server = server

	app.gracefulShutdown()
}

func newStorage(cfg *config.Config) (storage, error) {
	ctx := context.Background()

	if cfg.StorageDriver == config.StoragePostgres {
		repo, err := repository.NewRepository(ctx, cfg.PostgresCfg)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	store := memstore.New()
	if !cfg.SeedOnStart {
		return store, nil
	}

	data, err := seed.Load(cfg.SeedPath, time.Now())
	if err != nil {
		return nil, err
	}
	if err := store.ImportSeed(ctx, data); err != nil {
		return nil, err
	}

	zap.L().Info("sample data loaded",
		zap.Int("projects", len(data.Projects)),
		zap.Int("issues", len(data.Issues)),
		zap.Int("llm_fixes", len(data.LlmFixes)))
	return store, nil
}

func (app *App) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-quit
	zap.L().Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer cancel()

	zap.L().Info("shutting down HTTP server...")
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("failed to shutdown HTTP server", zap.Error(err))
	}

	zap.L().Info("stopping simulations...")
	app.Tracker.Stop()

	zap.L().Info("closing storage...")
	app.Repository.CloseConnection()

	zap.L().Info("app shutdown completed")
}
