package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retrovault/backend/internal/dto"
	"github.com/retrovault/backend/internal/models"
	"github.com/retrovault/backend/internal/transform"
	"github.com/retrovault/backend/pkg/logger"
)

// --- Dependencies (minimal interfaces scoped to the migration) ---

type legacyMigrationStore interface {
	GetProfileData(ctx context.Context, uid string) (map[string]any, error)
	ListAccounts(ctx context.Context, uid string) ([]models.RawDocument, error)
	ListTransactions(ctx context.Context, uid string) ([]models.RawDocument, error)
	ListGoals(ctx context.Context, uid string) ([]models.RawDocument, error)
	GetBudgets(ctx context.Context, uid string) (map[string]any, error)
	Counts(ctx context.Context, uid string) (dto.CollectionCounts, error)
	DeleteAll(ctx context.Context, uid string) (dto.CollectionCounts, error)
}

type profileMigrationStore interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, p *models.UserProfile) error
	MarkMigrated(ctx context.Context, uid string, accounts, txs int, at time.Time) error
}

// flatOwnedStore is shared by every userId-scoped flat collection.
type flatOwnedStore interface {
	CountByUser(ctx context.Context, uid string) (int, error)
	DeleteByUser(ctx context.Context, uid string) (int, error)
}

type accountMigrationStore interface {
	flatOwnedStore
	Create(ctx context.Context, a *models.Account) (string, error)
	NessieIDs(ctx context.Context, uid string) (map[string]string, error)
}

type transactionMigrationStore interface {
	flatOwnedStore
	CreateBatch(ctx context.Context, txs []*models.Transaction) error
	NessieIDs(ctx context.Context, uid string) (map[string]string, error)
}

type budgetMigrationStore interface {
	flatOwnedStore
	Create(ctx context.Context, b *models.Budget) (string, error)
	ActiveCategories(ctx context.Context, uid string) (map[string]bool, error)
}

type goalMigrationStore interface {
	flatOwnedStore
	Create(ctx context.Context, g *models.Goal) (string, error)
	NessieIDs(ctx context.Context, uid string) (map[string]string, error)
}

type categoryMigrationStore interface {
	Upsert(ctx context.Context, cats []models.Category) (int, error)
}

type checkpointMigrationStore interface {
	Get(ctx context.Context, uid string) (*models.Checkpoint, error)
	Start(ctx context.Context, cp *models.Checkpoint) error
	MarkStep(ctx context.Context, uid string, step models.MigrationStep) error
	Delete(ctx context.Context, uid string) error
}

type aggregateRecomputer interface {
	Recompute(ctx context.Context, uid string) (dto.AggregateResult, error)
}

type MigrationStores struct {
	Legacy       legacyMigrationStore
	Profiles     profileMigrationStore
	Accounts     accountMigrationStore
	Transactions transactionMigrationStore
	Budgets      budgetMigrationStore
	Goals        goalMigrationStore
	Categories   categoryMigrationStore
	Checkpoints  checkpointMigrationStore
}

type MigrationOptions struct {
	// SkipExisting skips records whose (userId, nessieId) is already in the
	// flat layout, and budgets whose category already has an active budget.
	SkipExisting bool
	// Checkpoints records completed steps in migrations/{uid} so an
	// interrupted user resumes instead of starting over.
	Checkpoints bool
}

type migrationService struct {
	MigrationStores
	aggregates aggregateRecomputer
	opts       MigrationOptions
	clockNow   func() time.Time
	newRunID   func() string
}

func NewMigrationService(stores MigrationStores, aggregates aggregateRecomputer, opts MigrationOptions) *migrationService {
	return &migrationService{
		MigrationStores: stores,
		aggregates:      aggregates,
		opts:            opts,
		clockNow:        time.Now,
		newRunID:        uuid.NewString,
	}
}

// --- Per-entity migrators ---

// MigrateProfile reshapes users/{uid} in place.
func (s *migrationService) MigrateProfile(ctx context.Context, uid string) (dto.EntityMigrationResult, error) {
	data, err := s.Legacy.GetProfileData(ctx, uid)
	if err != nil {
		return dto.EntityMigrationResult{}, err
	}

	profile := transform.Profile(transform.DecodeProfile(data), uid, s.clockNow())
	if err := s.Profiles.SaveProfile(ctx, profile); err != nil {
		return dto.EntityMigrationResult{}, err
	}

	logger.FromContext(ctx).Debug("profile migrated", "had_legacy_doc", data != nil)
	return dto.EntityMigrationResult{Count: 1, IDs: []string{uid}}, nil
}

func (s *migrationService) MigrateAccounts(ctx context.Context, uid string) (dto.AccountMigrationResult, error) {
	res := dto.AccountMigrationResult{Links: map[string]string{}}

	docs, err := s.Legacy.ListAccounts(ctx, uid)
	if err != nil {
		return res, err
	}
	if len(docs) == 0 {
		return res, nil
	}

	existing, err := s.existing(ctx, uid, s.Accounts.NessieIDs)
	if err != nil {
		return res, err
	}

	now := s.clockNow()
	for _, doc := range docs {
		if id, ok := existing[doc.ID]; ok {
			res.Links[doc.ID] = id
			res.Skipped++
			continue
		}

		acct := transform.Account(transform.DecodeAccount(doc), uid, now)
		id, err := s.Accounts.Create(ctx, acct)
		if err != nil {
			return res, err
		}
		res.Links[doc.ID] = id
		res.IDs = append(res.IDs, id)
		res.Accounts = append(res.Accounts, acct)
		res.Count++
	}

	logger.FromContext(ctx).Info("accounts migrated", "count", res.Count, "skipped", res.Skipped)
	return res, nil
}

// MigrateTransactions relinks accountId through the user's flat accounts.
func (s *migrationService) MigrateTransactions(ctx context.Context, uid string) (dto.EntityMigrationResult, error) {
	return s.migrateTransactions(ctx, uid, nil)
}

func (s *migrationService) migrateTransactions(ctx context.Context, uid string, links map[string]string) (dto.EntityMigrationResult, error) {
	var res dto.EntityMigrationResult

	docs, err := s.Legacy.ListTransactions(ctx, uid)
	if err != nil {
		return res, err
	}
	if len(docs) == 0 {
		return res, nil
	}

	if links == nil {
		if links, err = s.Accounts.NessieIDs(ctx, uid); err != nil {
			return res, err
		}
	}
	existing, err := s.existing(ctx, uid, s.Transactions.NessieIDs)
	if err != nil {
		return res, err
	}

	now := s.clockNow()
	txs := make([]*models.Transaction, 0, len(docs))
	for _, doc := range docs {
		if _, ok := existing[doc.ID]; ok {
			res.Skipped++
			continue
		}
		txs = append(txs, transform.Transaction(transform.DecodeTransaction(doc), uid, links, now))
	}
	if len(txs) == 0 {
		return res, nil
	}

	if err := s.Transactions.CreateBatch(ctx, txs); err != nil {
		return res, err
	}
	for _, t := range txs {
		res.IDs = append(res.IDs, t.TransactionID)
	}
	res.Count = len(txs)

	logger.FromContext(ctx).Info("transactions migrated", "count", res.Count, "skipped", res.Skipped)
	return res, nil
}

// MigrateBudgets turns the settings/budgets {category: amount} document into
// one Budget per positive numeric entry.
func (s *migrationService) MigrateBudgets(ctx context.Context, uid string) (dto.EntityMigrationResult, error) {
	var res dto.EntityMigrationResult

	data, err := s.Legacy.GetBudgets(ctx, uid)
	if err != nil {
		return res, err
	}
	entries := transform.BudgetEntries(data)
	if len(entries) == 0 {
		return res, nil
	}

	active := map[string]bool{}
	if s.opts.SkipExisting {
		if active, err = s.Budgets.ActiveCategories(ctx, uid); err != nil {
			return res, err
		}
	}

	now := s.clockNow()
	for _, entry := range entries {
		if active[entry.Category] {
			res.Skipped++
			continue
		}
		id, err := s.Budgets.Create(ctx, transform.Budget(entry, uid, now))
		if err != nil {
			return res, err
		}
		res.IDs = append(res.IDs, id)
		res.Count++
	}

	logger.FromContext(ctx).Info("budgets migrated", "count", res.Count, "skipped", res.Skipped, "ignored", len(data)-len(entries))
	return res, nil
}

func (s *migrationService) MigrateGoals(ctx context.Context, uid string) (dto.EntityMigrationResult, error) {
	var res dto.EntityMigrationResult

	docs, err := s.Legacy.ListGoals(ctx, uid)
	if err != nil {
		return res, err
	}
	if len(docs) == 0 {
		return res, nil
	}

	existing, err := s.existing(ctx, uid, s.Goals.NessieIDs)
	if err != nil {
		return res, err
	}

	now := s.clockNow()
	for _, doc := range docs {
		if _, ok := existing[doc.ID]; ok {
			res.Skipped++
			continue
		}
		id, err := s.Goals.Create(ctx, transform.Goal(transform.DecodeGoal(doc), uid, now))
		if err != nil {
			return res, err
		}
		res.IDs = append(res.IDs, id)
		res.Count++
	}

	logger.FromContext(ctx).Info("goals migrated", "count", res.Count, "skipped", res.Skipped)
	return res, nil
}

// SeedCategories upserts the default catalog keyed by name slug.
func (s *migrationService) SeedCategories(ctx context.Context) (int, error) {
	return s.Categories.Upsert(ctx, transform.DefaultCategories())
}

// existing returns nil unless SkipExisting is on.
func (s *migrationService) existing(ctx context.Context, uid string, lookup func(context.Context, string) (map[string]string, error)) (map[string]string, error) {
	if !s.opts.SkipExisting {
		return nil, nil
	}
	return lookup(ctx, uid)
}
