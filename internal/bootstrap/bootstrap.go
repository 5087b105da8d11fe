package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"

	"github.com/retrovault/backend/internal/config"
	"github.com/retrovault/backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
}

// Run builds the logger and the Firestore client. The returned Bootstrap is
// never nil so callers can log a failure with bs.Log.
func Run(ctx context.Context, cfg *config.Config, handler func(slog.Level) slog.Handler) (*Bootstrap, error) {
	var err error
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, handler)
	bs.Firestore, err = InitFirestore(ctx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	return bs, nil
}

// WithFirebase adds the Firebase Auth client. Only the sync server needs it.
func (bs *Bootstrap) WithFirebase(ctx context.Context, projectID string) error {
	var err error
	bs.Firebase, err = InitFirebase(ctx, projectID)
	return err
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("failed to close firestore client", "error", err)
		}
	}
}
