package bootstrap

import (
	identityclient "github.com/retrovault/backend/internal/client/identity"
	"github.com/retrovault/backend/internal/config"
	"github.com/retrovault/backend/internal/services"
	"github.com/retrovault/backend/internal/store"
)

type Services struct {
	Migration services.Migrator
	Sync      services.Syncer
}

// Services wires the Firestore stores into the migration and sync
// services. Without a Firebase client, new sync profiles are seeded from the
// request body alone.
func (bs *Bootstrap) Services(cfg *config.Config) *Services {
	// stores
	lstore := store.NewLegacyStore(bs.Firestore)
	pstore := store.NewProfileStore(bs.Firestore)
	astore := store.NewAccountStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore, cfg.BatchSize)
	bstore := store.NewBudgetStore(bs.Firestore)
	gstore := store.NewGoalStore(bs.Firestore)
	cstore := store.NewCategoryStore(bs.Firestore)
	ckstore := store.NewCheckpointStore(bs.Firestore)

	// services
	aggserv := services.NewAggregateService(tstore, pstore)
	migserv := services.NewMigrationService(services.MigrationStores{
		Legacy:       lstore,
		Profiles:     pstore,
		Accounts:     astore,
		Transactions: tstore,
		Budgets:      bstore,
		Goals:        gstore,
		Categories:   cstore,
		Checkpoints:  ckstore,
	}, aggserv, services.MigrationOptions{
		SkipExisting: cfg.SkipExisting,
		Checkpoints:  cfg.Checkpoints,
	})

	var identity services.IdentityLookup
	if bs.Firebase != nil {
		identity = identityclient.NewAdapter(bs.Firebase)
	}
	syncserv := services.NewSyncService(pstore, lstore, cstore, aggserv, identity)

	return &Services{Migration: migserv, Sync: syncserv}
}
