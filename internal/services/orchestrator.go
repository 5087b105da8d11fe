package services

import (
	"context"

	"github.com/retrovault/backend/internal/dto"
	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
	"github.com/retrovault/backend/pkg/logger"
)

// userRun carries state between the steps of one user's migration.
type userRun struct {
	runID  string
	uid    string
	links  map[string]string
	result *dto.UserMigrationResult
}

// MigrateAll migrates every user sequentially and then seeds the category
// catalog. A failing user is recorded and the run moves on; only a failure
// to enumerate users is returned as an error.
func (s *migrationService) MigrateAll(ctx context.Context) (*dto.MigrationSummary, error) {
	runID := s.newRunID()
	log, ctx := logger.With(ctx, "run_id", runID)

	uids, err := s.Profiles.ListUserIDs(ctx)
	if err != nil {
		log.Error("failed to enumerate users", "error", err)
		return nil, err
	}
	log.Info("migration started", "users", len(uids))

	return s.run(ctx, runID, uids)
}

// MigrateOne is the targeted re-run for a single user.
func (s *migrationService) MigrateOne(ctx context.Context, uid string) (*dto.MigrationSummary, error) {
	if uid == "" {
		return nil, errs.NewValidationError("user id is required")
	}
	runID := s.newRunID()
	_, ctx = logger.With(ctx, "run_id", runID)
	return s.run(ctx, runID, []string{uid})
}

func (s *migrationService) run(ctx context.Context, runID string, uids []string) (*dto.MigrationSummary, error) {
	log := logger.FromContext(ctx)

	summary := &dto.MigrationSummary{
		RunID:      runID,
		TotalUsers: len(uids),
		Results:    make([]dto.UserMigrationResult, 0, len(uids)),
		StartedAt:  s.clockNow(),
	}

	for _, uid := range uids {
		if err := ctx.Err(); err != nil {
			log.Warn("migration interrupted", "processed", len(summary.Results), "error", err)
			summary.FinishedAt = s.clockNow()
			return summary, err
		}

		res := s.migrateUserResult(ctx, runID, uid)
		if res.Success {
			summary.Migrated++
		} else {
			summary.Errors++
		}
		summary.Results = append(summary.Results, res)
	}

	seeded, err := s.SeedCategories(ctx)
	if err != nil {
		log.Error("category seeding failed", "error", err)
		summary.CategoryError = err.Error()
	}
	summary.CategoriesSeeded = seeded
	summary.FinishedAt = s.clockNow()

	log.Info("migration finished",
		"total_users", summary.TotalUsers,
		"migrated", summary.Migrated,
		"errors", summary.Errors,
		"categories", summary.CategoriesSeeded)
	return summary, nil
}

// MigrateUser runs every step for one user and never returns an error: a
// failure is reported in the result.
func (s *migrationService) MigrateUser(ctx context.Context, uid string) dto.UserMigrationResult {
	return s.migrateUserResult(ctx, s.newRunID(), uid)
}

func (s *migrationService) migrateUserResult(ctx context.Context, runID, uid string) dto.UserMigrationResult {
	log, ctx := logger.With(ctx, "uid", uid)
	res := dto.UserMigrationResult{UserID: uid}

	if err := s.migrateUser(ctx, &userRun{runID: runID, uid: uid, result: &res}); err != nil {
		log.Error("user migration failed", "error", err)
		res.Error = err.Error()
		return res
	}

	res.Success = true
	log.Info("user migrated",
		"accounts", res.Accounts,
		"transactions", res.Transactions,
		"budgets", res.Budgets,
		"goals", res.Goals,
		"resumed", res.Resumed)
	return res
}

func (s *migrationService) migrateUser(ctx context.Context, run *userRun) error {
	cp, err := s.beginCheckpoint(ctx, run)
	if err != nil {
		return err
	}

	for _, step := range models.MigrationSteps {
		if cp.Done(step) {
			logger.FromContext(ctx).Debug("step already completed, skipping", "step", step)
			continue
		}
		if err := s.runStep(ctx, step, run); err != nil {
			return errs.NewMigrationStepError(string(step), err)
		}
		if cp != nil && step != models.StepFinalize {
			if err := s.Checkpoints.MarkStep(ctx, run.uid, step); err != nil {
				return err
			}
		}
	}

	if cp != nil {
		return s.Checkpoints.Delete(ctx, run.uid)
	}
	return nil
}

// beginCheckpoint resumes an interrupted run or starts a fresh checkpoint.
// It returns nil when checkpointing is disabled.
func (s *migrationService) beginCheckpoint(ctx context.Context, run *userRun) (*models.Checkpoint, error) {
	if !s.opts.Checkpoints {
		return nil, nil
	}

	cp, err := s.Checkpoints.Get(ctx, run.uid)
	if err != nil {
		return nil, err
	}
	if cp != nil {
		run.result.Resumed = true
		logger.FromContext(ctx).Info("resuming migration", "previous_run_id", cp.RunID, "completed_steps", cp.CompletedSteps)
		return cp, nil
	}

	now := s.clockNow()
	cp = &models.Checkpoint{
		UID:       run.uid,
		RunID:     run.runID,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := s.Checkpoints.Start(ctx, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (s *migrationService) runStep(ctx context.Context, step models.MigrationStep, run *userRun) error {
	switch step {
	case models.StepProfile:
		_, err := s.MigrateProfile(ctx, run.uid)
		return err

	case models.StepAccounts:
		r, err := s.MigrateAccounts(ctx, run.uid)
		if err != nil {
			return err
		}
		run.links = r.Links
		run.result.Accounts = r.Count

	case models.StepTransactions:
		r, err := s.migrateTransactions(ctx, run.uid, run.links)
		if err != nil {
			return err
		}
		run.result.Transactions = r.Count

	case models.StepBudgets:
		r, err := s.MigrateBudgets(ctx, run.uid)
		if err != nil {
			return err
		}
		run.result.Budgets = r.Count

	case models.StepGoals:
		r, err := s.MigrateGoals(ctx, run.uid)
		if err != nil {
			return err
		}
		run.result.Goals = r.Count

	case models.StepAggregates:
		_, err := s.aggregates.Recompute(ctx, run.uid)
		return err

	case models.StepFinalize:
		return s.finalize(ctx, run.uid)
	}
	return nil
}

// finalize flips dataVersion to 2.0 with the flat counts.
func (s *migrationService) finalize(ctx context.Context, uid string) error {
	accounts, err := s.Accounts.CountByUser(ctx, uid)
	if err != nil {
		return err
	}
	txs, err := s.Transactions.CountByUser(ctx, uid)
	if err != nil {
		return err
	}
	return s.Profiles.MarkMigrated(ctx, uid, accounts, txs, s.clockNow())
}
