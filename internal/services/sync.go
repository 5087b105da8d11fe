package services

import (
	"context"
	"errors"
	"time"

	"github.com/retrovault/backend/internal/dto"
	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
	"github.com/retrovault/backend/internal/transform"
	"github.com/retrovault/backend/pkg/logger"
)

type profileSyncStore interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	CreateProfile(ctx context.Context, p *models.UserProfile) error
	UpdateSyncStatus(ctx context.Context, uid string, st models.SyncStatus) error
}

// legacySyncStore reports whether nested data still waits to be migrated.
type legacySyncStore interface {
	Counts(ctx context.Context, uid string) (dto.CollectionCounts, error)
}

type categorySyncStore interface {
	Upsert(ctx context.Context, cats []models.Category) (int, error)
}

// IdentityLookup is the Firebase Auth adapter surface used to fill in a new
// profile when the caller sends no userInfo.
type IdentityLookup interface {
	LookupUser(ctx context.Context, uid string) (dto.UserInfo, error)
}

type syncService struct {
	profiles   profileSyncStore
	legacy     legacySyncStore
	categories categorySyncStore
	aggregates aggregateRecomputer
	identity   IdentityLookup
	clockNow   func() time.Time
}

func NewSyncService(profiles profileSyncStore, legacy legacySyncStore, categories categorySyncStore, aggregates aggregateRecomputer, identity IdentityLookup) *syncService {
	return &syncService{
		profiles:   profiles,
		legacy:     legacy,
		categories: categories,
		aggregates: aggregates,
		identity:   identity,
		clockNow:   time.Now,
	}
}

// Sync makes sure the user has a flat profile, refreshes the cached
// aggregates when asked to (or when the profile is flagged), and stamps the
// sync status.
func (s *syncService) Sync(ctx context.Context, req dto.SyncRequest) (dto.SyncResult, error) {
	if req.UserID == "" {
		return dto.SyncResult{}, errs.NewValidationError("userId is required")
	}
	log, ctx := logger.With(ctx, "uid", req.UserID)
	result := dto.SyncResult{UserID: req.UserID}

	profile, err := s.profiles.GetProfile(ctx, req.UserID)
	var nf *errs.NotFoundError
	switch {
	case errors.As(err, &nf):
		if profile, err = s.seedUser(ctx, req); err != nil {
			return result, err
		}
		result.Created = true
	case err != nil:
		return result, err
	}

	if req.ForceRefresh || profile.SyncStatus.NeedsRefresh {
		agg, err := s.aggregates.Recompute(ctx, req.UserID)
		if err != nil {
			return result, err
		}
		if !agg.Skipped {
			profile.FinancialSummary = agg.Summary
		}
		result.Refreshed = true
	}

	st := models.SyncStatus{
		LastSync:     s.clockNow(),
		IsConsistent: true,
		NeedsRefresh: false,
		Version:      profile.SyncStatus.Version + 1,
	}
	if err := s.profiles.UpdateSyncStatus(ctx, req.UserID, st); err != nil {
		return result, err
	}

	result.Status = profile.Status()
	result.FinancialSummary = profile.FinancialSummary
	result.SyncStatus = st

	log.Info("user synced", "created", result.Created, "refreshed", result.Refreshed, "version", st.Version)
	return result, nil
}

// seedUser creates a profile directly in the flat layout and makes sure the
// shared category catalog exists. A brand-new user is born migrated; a user
// whose nested subcollections still hold data stays Pending until the
// migration runs.
func (s *syncService) seedUser(ctx context.Context, req dto.SyncRequest) (*models.UserProfile, error) {
	log := logger.FromContext(ctx)

	counts, err := s.legacy.Counts(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	pending := !counts.Empty()
	info := s.userInfo(ctx, req)

	now := s.clockNow()
	profile := transform.Profile(models.LegacyProfile{
		Name:     nonEmpty(info.DisplayName),
		Email:    nonEmpty(info.Email),
		PhotoURL: nonEmpty(info.PhotoURL),
	}, req.UserID, now)
	if !pending {
		profile.Metadata.DataVersion = models.DataVersionMigrated
	}

	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		var exists *errs.AlreadyExistsError
		if !errors.As(err, &exists) {
			return nil, err
		}
		// lost a race with another sync; use the stored profile
		return s.profiles.GetProfile(ctx, req.UserID)
	}

	if _, err := s.categories.Upsert(ctx, transform.DefaultCategories()); err != nil {
		return nil, err
	}

	log.Info("new user seeded", "email", profile.Email, "legacy_pending", pending)
	return profile, nil
}

func (s *syncService) userInfo(ctx context.Context, req dto.SyncRequest) dto.UserInfo {
	if !req.UserInfo.Empty() {
		return *req.UserInfo
	}
	if s.identity == nil {
		return dto.UserInfo{}
	}
	info, err := s.identity.LookupUser(ctx, req.UserID)
	if err != nil {
		logger.FromContext(ctx).Warn("identity lookup failed, using defaults", "error", err)
		return dto.UserInfo{}
	}
	return info
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
