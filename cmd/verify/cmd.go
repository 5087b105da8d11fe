// Command verify prints flat and nested document counts for one user.
// It never writes.
package main

import (
	"context"
	"fmt"
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
	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintf(os.Stderr, "usage: %s <user-id>\n", os.Args[0])
		os.Exit(2)
	}
	uid := os.Args[1]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.New()
	bs, err := bootstrap.Run(ctx, cfg, logger.NewConsoleHandler)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	log, ctx := logger.With(logger.ToContext(ctx, bs.Log), "uid", uid)
	svc := bs.Services(cfg).Migration

	res, err := svc.Verify(ctx, uid)
	exitOnError("verification failed", err, log)
	exitOnError("failed to write report", helpers.PrintJSON(os.Stdout, res), log)
}
