package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
	"github.com/retrovault/backend/internal/transform"
	"github.com/retrovault/backend/pkg/helpers"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestMigrationService(db *memDB, opts MigrationOptions) *migrationService {
	agg := NewAggregateService(memTransactions{db}, memProfiles{db})
	agg.clockNow = func() time.Time { return fixedNow }

	svc := NewMigrationService(db.stores(), agg, opts)
	svc.clockNow = func() time.Time { return fixedNow }
	svc.newRunID = func() string { return "run-1" }
	return svc
}

// seedAlice loads the nested layout for one user with one account and two
// transactions.
func seedAlice(db *memDB, uid string) {
	db.legacyProfiles[uid] = map[string]any{"name": "Alice", "balance": 100.0}
	db.legacyAccounts[uid] = []models.RawDocument{
		{ID: "old-acct-1", Data: map[string]any{"type": "Checking", "balance": 500.0}},
	}
	db.legacyTxs[uid] = []models.RawDocument{
		{ID: "old-tx-1", Data: map[string]any{"type": "income", "amount": 1000.0, "accountId": "old-acct-1"}},
		{ID: "old-tx-2", Data: map[string]any{"type": "expense", "amount": 300.0, "accountId": "old-acct-1"}},
	}
}

func TestMigrateUser_EndToEnd(t *testing.T) {
	db := newMemDB()
	seedAlice(db, "alice")
	svc := newTestMigrationService(db, MigrationOptions{})

	res := svc.MigrateUser(helpers.TestCtx(), "alice")
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Accounts != 1 || res.Transactions != 2 {
		t.Fatalf("unexpected counts: %+v", res)
	}

	if len(db.accounts) != 1 {
		t.Fatalf("expected 1 flat account, got %d", len(db.accounts))
	}
	var acctID string
	for id, acct := range db.accounts {
		acctID = id
		if acct.UserID != "alice" || acct.Balance != 500 || acct.NessieID != "old-acct-1" {
			t.Fatalf("unexpected account: %+v", acct)
		}
	}

	if len(db.txs) != 2 {
		t.Fatalf("expected 2 flat transactions, got %d", len(db.txs))
	}
	for _, tx := range db.txs {
		if tx.AccountID != acctID {
			t.Fatalf("expected transaction relinked to %s, got %s", acctID, tx.AccountID)
		}
	}

	p := db.profiles["alice"]
	if p == nil {
		t.Fatalf("expected profile")
	}
	want := models.FinancialSummary{TotalIncome: 1000, TotalExpenses: 300, TotalSavings: 700, TotalBalance: 700, LastUpdated: fixedNow}
	if p.FinancialSummary != want {
		t.Fatalf("unexpected summary: %+v", p.FinancialSummary)
	}
	if p.Metadata.DataVersion != models.DataVersionMigrated {
		t.Fatalf("expected dataVersion 2.0, got %q", p.Metadata.DataVersion)
	}
	if p.Metadata.AccountsCount != 1 || p.Metadata.TransactionsCount != 2 {
		t.Fatalf("unexpected metadata: %+v", p.Metadata)
	}
	if p.DisplayName != "Alice" {
		t.Fatalf("expected display name Alice, got %q", p.DisplayName)
	}
}

func TestMigrateTransactions_NoneIsNoWrite(t *testing.T) {
	db := newMemDB()
	svc := newTestMigrationService(db, MigrationOptions{})

	res, err := svc.MigrateTransactions(helpers.TestCtx(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 0 || db.batchCommits != 0 || db.writes != 0 {
		t.Fatalf("expected no writes, got count=%d commits=%d writes=%d", res.Count, db.batchCommits, db.writes)
	}
}

func TestMigrateUser_NoTransactionsKeepsLegacyBalance(t *testing.T) {
	db := newMemDB()
	db.legacyProfiles["bob"] = map[string]any{"name": "Bob", "balance": 42.5}
	svc := newTestMigrationService(db, MigrationOptions{})

	res := svc.MigrateUser(helpers.TestCtx(), "bob")
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	p := db.profiles["bob"]
	if p.FinancialSummary.TotalBalance != 42.5 || p.FinancialSummary.TotalIncome != 0 {
		t.Fatalf("unexpected summary: %+v", p.FinancialSummary)
	}
	if p.Status() != models.StatusMigrated {
		t.Fatalf("expected migrated, got %s", p.Status())
	}
}

func TestMigrateBudgets_SkipsNonPositiveAndNonNumeric(t *testing.T) {
	db := newMemDB()
	db.legacyBudgets["carol"] = map[string]any{
		"Food":      200.0,
		"Transport": -5.0,
		"Shopping":  "n/a",
		"Bills":     0.0,
	}
	svc := newTestMigrationService(db, MigrationOptions{})

	res, err := svc.MigrateBudgets(helpers.TestCtx(), "carol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 1 || len(db.budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d (%d stored)", res.Count, len(db.budgets))
	}
	for _, b := range db.budgets {
		if b.Category != "Food" || b.Amount != 200 || b.Spent != 0 || b.Period != "monthly" || !b.IsActive {
			t.Fatalf("unexpected budget: %+v", b)
		}
	}
}

func TestMigrateGoals_Defaults(t *testing.T) {
	db := newMemDB()
	db.legacyGoals["dan"] = []models.RawDocument{
		{ID: "g1", Data: map[string]any{"targetAmount": 100.0, "currentAmount": 150.0}},
		{ID: "g2", Data: map[string]any{"name": "Car"}},
	}
	svc := newTestMigrationService(db, MigrationOptions{})

	res, err := svc.MigrateGoals(helpers.TestCtx(), "dan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 2 {
		t.Fatalf("expected 2 goals, got %d", res.Count)
	}
	for _, g := range db.goals {
		switch g.NessieID {
		case "g1":
			if !g.IsCompleted {
				t.Fatalf("expected g1 completed")
			}
		case "g2":
			if g.IsCompleted || g.Name != "Car" || !g.TargetDate.Equal(fixedNow.AddDate(1, 0, 0)) {
				t.Fatalf("unexpected g2: %+v", g)
			}
		}
	}
}

func TestMigrateAll_RerunDuplicates(t *testing.T) {
	db := newMemDB()
	seedAlice(db, "alice")
	svc := newTestMigrationService(db, MigrationOptions{})
	ctx := helpers.TestCtx()

	if _, err := svc.MigrateAll(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := svc.MigrateAll(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(db.accounts) != 2 || len(db.txs) != 4 {
		t.Fatalf("expected doubled counts, got accounts=%d txs=%d", len(db.accounts), len(db.txs))
	}
}

func TestMigrateAll_SkipExistingDoesNotDuplicate(t *testing.T) {
	db := newMemDB()
	seedAlice(db, "alice")
	db.legacyBudgets["alice"] = map[string]any{"Food": 200.0}
	db.legacyGoals["alice"] = []models.RawDocument{{ID: "g1", Data: map[string]any{"name": "Trip"}}}
	svc := newTestMigrationService(db, MigrationOptions{SkipExisting: true})
	ctx := helpers.TestCtx()

	for i := 0; i < 2; i++ {
		if _, err := svc.MigrateAll(ctx); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if len(db.accounts) != 1 || len(db.txs) != 2 || len(db.budgets) != 1 || len(db.goals) != 1 {
		t.Fatalf("expected no duplicates, got accounts=%d txs=%d budgets=%d goals=%d",
			len(db.accounts), len(db.txs), len(db.budgets), len(db.goals))
	}
	// summary is recomputed from the deduplicated set
	if got := db.profiles["alice"].FinancialSummary.TotalSavings; got != 700 {
		t.Fatalf("expected savings 700, got %v", got)
	}
}

func TestMigrateAll_IsolatesFailingUser(t *testing.T) {
	db := newMemDB()
	seedAlice(db, "alice")
	seedAlice(db, "bob")
	db.fail = func(op, uid string) error {
		if op == "accounts.create" && uid == "alice" {
			return errors.New("boom")
		}
		return nil
	}
	svc := newTestMigrationService(db, MigrationOptions{})

	summary, err := svc.MigrateAll(helpers.TestCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalUsers != 2 || summary.Migrated != 1 || summary.Errors != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Results[0].UserID != "alice" || summary.Results[0].Success {
		t.Fatalf("expected alice to fail: %+v", summary.Results[0])
	}
	if summary.Results[0].Error != "accounts migration failed: boom" {
		t.Fatalf("unexpected error text %q", summary.Results[0].Error)
	}
	if db.profiles["alice"].Status() != models.StatusPending {
		t.Fatalf("expected alice to stay pending")
	}
	if db.profiles["bob"].Status() != models.StatusMigrated {
		t.Fatalf("expected bob migrated")
	}
	if summary.CategoriesSeeded != len(transform.DefaultCategories()) {
		t.Fatalf("expected categories seeded after users, got %d", summary.CategoriesSeeded)
	}
}

func TestMigrateAll_EnumerationError(t *testing.T) {
	db := newMemDB()
	db.fail = func(op, _ string) error {
		if op == "users.list" {
			return errs.NewDatabaseError("list users", "failed to list users", errors.New("unavailable"))
		}
		return nil
	}
	svc := newTestMigrationService(db, MigrationOptions{})

	summary, err := svc.MigrateAll(helpers.TestCtx())
	if err == nil || summary != nil {
		t.Fatalf("expected enumeration error, got summary=%v err=%v", summary, err)
	}
	var dbErr *errs.DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %T", err)
	}
}

func TestMigrateAll_CategoryFailureIsReported(t *testing.T) {
	db := newMemDB()
	seedAlice(db, "alice")
	db.fail = func(op, _ string) error {
		if op == "categories.upsert" {
			return errors.New("denied")
		}
		return nil
	}
	svc := newTestMigrationService(db, MigrationOptions{})

	summary, err := svc.MigrateAll(helpers.TestCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Migrated != 1 || summary.CategoryError != "denied" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestMigrateAll_CancelledContext(t *testing.T) {
	db := newMemDB()
	seedAlice(db, "alice")
	svc := newTestMigrationService(db, MigrationOptions{})

	ctx, cancel := context.WithCancel(helpers.TestCtx())
	cancel()

	summary, err := svc.MigrateAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary == nil || len(summary.Results) != 0 {
		t.Fatalf("expected empty partial summary, got %+v", summary)
	}
	if len(db.accounts) != 0 {
		t.Fatalf("expected no writes after cancel")
	}
}

func TestMigrateOne_RequiresUID(t *testing.T) {
	svc := newTestMigrationService(newMemDB(), MigrationOptions{})

	_, err := svc.MigrateOne(helpers.TestCtx(), "")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestMigrateUser_ResumesFromCheckpoint(t *testing.T) {
	db := newMemDB()
	seedAlice(db, "alice")
	failing := true
	db.fail = func(op, uid string) error {
		if op == "transactions.batch" && failing {
			return errors.New("deadline exceeded")
		}
		return nil
	}
	svc := newTestMigrationService(db, MigrationOptions{Checkpoints: true})
	ctx := helpers.TestCtx()

	first := svc.MigrateUser(ctx, "alice")
	if first.Success {
		t.Fatalf("expected first attempt to fail")
	}
	cp := db.checkpoints["alice"]
	if cp == nil || !cp.Done(models.StepAccounts) || cp.Done(models.StepTransactions) {
		t.Fatalf("unexpected checkpoint: %+v", cp)
	}
	if db.profiles["alice"].Status() != models.StatusPending {
		t.Fatalf("expected pending after failure")
	}

	failing = false
	second := svc.MigrateUser(ctx, "alice")
	if !second.Success || !second.Resumed {
		t.Fatalf("expected resumed success, got %+v", second)
	}
	if len(db.accounts) != 1 {
		t.Fatalf("accounts step re-ran: %d accounts", len(db.accounts))
	}
	if len(db.txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(db.txs))
	}
	for _, tx := range db.txs {
		if _, ok := db.accounts[tx.AccountID]; !ok {
			t.Fatalf("transaction not relinked after resume: %s", tx.AccountID)
		}
	}
	if _, ok := db.checkpoints["alice"]; ok {
		t.Fatalf("expected checkpoint removed after success")
	}
	if db.profiles["alice"].Status() != models.StatusMigrated {
		t.Fatalf("expected migrated after resume")
	}
}

func TestSeedCategories_Idempotent(t *testing.T) {
	db := newMemDB()
	svc := newTestMigrationService(db, MigrationOptions{})
	ctx := helpers.TestCtx()

	for i := 0; i < 2; i++ {
		if _, err := svc.SeedCategories(ctx); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	if len(db.categories) != len(transform.DefaultCategories()) {
		t.Fatalf("expected %d categories, got %d", len(transform.DefaultCategories()), len(db.categories))
	}
}
