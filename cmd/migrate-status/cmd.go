// Command migrate-status reports how many users are still Pending and then
// runs the full migration.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/retrovault/backend/internal/bootstrap"
	"github.com/retrovault/backend/internal/config"
	"github.com/retrovault/backend/pkg/helpers"
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

	cfg := config.New()
	bs, err := bootstrap.Run(ctx, cfg, logger.NewConsoleHandler)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ctx = logger.ToContext(ctx, bs.Log)
	svc := bs.Services(cfg).Migration

	report, err := svc.StatusReport(ctx)
	exitOnError("status check failed", err, bs.Log)
	bs.Log.Info("migration status",
		"total", report.Total,
		"pending", report.Pending,
		"migrated", report.Migrated)

	if report.Pending == 0 {
		bs.Log.Info("all users already migrated")
	}

	summary, err := svc.MigrateAll(ctx)
	if summary != nil {
		exitOnError("failed to write summary", helpers.PrintJSON(os.Stdout, summary), bs.Log)
	}
	exitOnError("migration aborted", err, bs.Log)
}
