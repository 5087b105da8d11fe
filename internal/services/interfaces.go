package services

import (
	"context"

	"github.com/retrovault/backend/internal/dto"
	"github.com/retrovault/backend/internal/models"
)

// Migrator is the surface the migration CLIs drive.
type Migrator interface {
	MigrateAll(ctx context.Context) (*dto.MigrationSummary, error)
	MigrateOne(ctx context.Context, uid string) (*dto.MigrationSummary, error)
	Status(ctx context.Context, uid string) (models.MigrationStatus, error)
	StatusReport(ctx context.Context) (dto.StatusReport, error)
	Verify(ctx context.Context, uid string) (dto.VerificationReport, error)
	Rollback(ctx context.Context, uid string) (dto.RollbackResult, error)
	Cleanup(ctx context.Context, uid string) (dto.CleanupResult, error)
}

type Syncer interface {
	Sync(ctx context.Context, req dto.SyncRequest) (dto.SyncResult, error)
}

var (
	_ Migrator = (*migrationService)(nil)
	_ Syncer   = (*syncService)(nil)
)
