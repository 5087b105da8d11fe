package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/retrovault/backend/internal/dto"
	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
	"github.com/retrovault/backend/pkg/logger"
)

// Status derives Pending/Migrated from the profile; a missing profile is Pending.
func (s *migrationService) Status(ctx context.Context, uid string) (models.MigrationStatus, error) {
	p, err := s.profile(ctx, uid)
	if err != nil {
		return models.StatusPending, err
	}
	return p.Status(), nil
}

func (s *migrationService) StatusReport(ctx context.Context) (dto.StatusReport, error) {
	var report dto.StatusReport

	uids, err := s.Profiles.ListUserIDs(ctx)
	if err != nil {
		return report, err
	}
	for _, uid := range uids {
		st, err := s.Status(ctx, uid)
		if err != nil {
			return report, err
		}
		report.Total++
		if st == models.StatusMigrated {
			report.Migrated++
			continue
		}
		report.Pending++
		report.PendingUsers = append(report.PendingUsers, uid)
	}
	return report, nil
}

// Verify re-counts the user's flat and nested documents. It only reads;
// comparing the numbers is left to the caller.
func (s *migrationService) Verify(ctx context.Context, uid string) (dto.VerificationReport, error) {
	report := dto.VerificationReport{UserID: uid}

	p, err := s.profile(ctx, uid)
	if err != nil {
		return report, err
	}
	report.Status = p.Status()
	if p != nil {
		summary := p.FinancialSummary
		report.FinancialSummary = &summary
	}

	if report.Flat, err = s.flatCounts(ctx, uid); err != nil {
		return report, err
	}
	if report.Legacy, err = s.Legacy.Counts(ctx, uid); err != nil {
		return report, err
	}
	return report, nil
}

// Rollback deletes the user's flat accounts, transactions, budgets and goals.
// The profile (including dataVersion and the financial summary) and the
// nested source are not touched.
func (s *migrationService) Rollback(ctx context.Context, uid string) (dto.RollbackResult, error) {
	log := logger.FromContext(ctx)
	res := dto.RollbackResult{UserID: uid}
	var err error

	if res.Deleted.Accounts, err = s.Accounts.DeleteByUser(ctx, uid); err != nil {
		return res, err
	}
	if res.Deleted.Transactions, err = s.Transactions.DeleteByUser(ctx, uid); err != nil {
		return res, err
	}
	if res.Deleted.Budgets, err = s.Budgets.DeleteByUser(ctx, uid); err != nil {
		return res, err
	}
	if res.Deleted.Goals, err = s.Goals.DeleteByUser(ctx, uid); err != nil {
		return res, err
	}

	log.Warn("migration rolled back",
		"uid", uid,
		"accounts", res.Deleted.Accounts,
		"transactions", res.Deleted.Transactions,
		"budgets", res.Deleted.Budgets,
		"goals", res.Deleted.Goals)
	return res, nil
}

// Cleanup deletes the nested source once verification shows the flat copy
// is complete.
func (s *migrationService) Cleanup(ctx context.Context, uid string) (dto.CleanupResult, error) {
	res := dto.CleanupResult{UserID: uid}

	report, err := s.Verify(ctx, uid)
	if err != nil {
		return res, err
	}
	if err := checkCleanup(report); err != nil {
		return res, err
	}

	if res.Deleted, err = s.Legacy.DeleteAll(ctx, uid); err != nil {
		return res, err
	}
	logger.FromContext(ctx).Info("legacy data removed",
		"uid", uid,
		"accounts", res.Deleted.Accounts,
		"transactions", res.Deleted.Transactions,
		"goals", res.Deleted.Goals)
	return res, nil
}

func checkCleanup(r dto.VerificationReport) error {
	if r.Status != models.StatusMigrated {
		return errs.NewValidationError(fmt.Sprintf("user %s is not migrated", r.UserID))
	}
	switch {
	case r.Flat.Accounts < r.Legacy.Accounts:
		return errs.NewValidationError(fmt.Sprintf("accounts incomplete: %d flat, %d nested", r.Flat.Accounts, r.Legacy.Accounts))
	case r.Flat.Transactions < r.Legacy.Transactions:
		return errs.NewValidationError(fmt.Sprintf("transactions incomplete: %d flat, %d nested", r.Flat.Transactions, r.Legacy.Transactions))
	case r.Flat.Goals < r.Legacy.Goals:
		return errs.NewValidationError(fmt.Sprintf("goals incomplete: %d flat, %d nested", r.Flat.Goals, r.Legacy.Goals))
	}
	return nil
}

func (s *migrationService) flatCounts(ctx context.Context, uid string) (dto.CollectionCounts, error) {
	var out dto.CollectionCounts
	var err error

	if out.Accounts, err = s.Accounts.CountByUser(ctx, uid); err != nil {
		return out, err
	}
	if out.Transactions, err = s.Transactions.CountByUser(ctx, uid); err != nil {
		return out, err
	}
	if out.Budgets, err = s.Budgets.CountByUser(ctx, uid); err != nil {
		return out, err
	}
	if out.Goals, err = s.Goals.CountByUser(ctx, uid); err != nil {
		return out, err
	}
	return out, nil
}

// profile returns nil, nil for a user with no profile document.
func (s *migrationService) profile(ctx context.Context, uid string) (*models.UserProfile, error) {
	p, err := s.Profiles.GetProfile(ctx, uid)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}
