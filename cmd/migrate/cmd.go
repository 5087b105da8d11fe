// Command migrate copies every user's nested documents into the flat
// collections. With a user id argument it re-runs a single user.
//
// It exits 0 when the run completes, even if some users failed; the JSON
// summary on stdout lists them.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/retrovault/backend/internal/bootstrap"
	"github.com/retrovault/backend/internal/config"
	"github.com/retrovault/backend/internal/dto"
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

	var summary *dto.MigrationSummary
	if len(os.Args) > 1 {
		summary, err = svc.MigrateOne(ctx, os.Args[1])
	} else {
		summary, err = svc.MigrateAll(ctx)
	}
	if summary != nil {
		exitOnError("failed to write summary", helpers.PrintJSON(os.Stdout, summary), bs.Log)
	}
	exitOnError("migration aborted", err, bs.Log)
}
