package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/retrovault/backend/internal/bootstrap"
	"github.com/retrovault/backend/internal/config"
	"github.com/retrovault/backend/internal/handlers"
	"github.com/retrovault/backend/internal/middleware"
	"github.com/retrovault/backend/internal/response"
	"github.com/retrovault/backend/internal/router"
	"github.com/retrovault/backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(ctx, cfg, logger.NewCloudRunHandler)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	if err := bs.WithFirebase(ctx, cfg.ProjectID); err != nil {
		if cfg.SyncRequireAuth {
			exitOnError("firebase init failed", err, bs.Log)
		}
		bs.Log.Warn("firebase unavailable, identity lookup disabled", "error", err)
	}

	svcs := bs.Services(cfg)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = response.New(bs.Log)
	deps.Validator = handlers.NewValidator()
	deps.SyncSvc = svcs.Sync

	var auth *middleware.Middleware
	if cfg.SyncRequireAuth {
		auth = middleware.NewMiddleware(bs.Firebase)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(deps, auth),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Warn("graceful shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("sync server listening", "port", cfg.Port, "auth", cfg.SyncRequireAuth)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		exitOnError("server start failed", err, bs.Log)
	}
}
