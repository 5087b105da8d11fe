package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/retrovault/backend/internal/dto"
	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
)

// memDB is an in-memory stand-in for both Firestore layouts. fail, when set,
// is consulted before every operation and can inject an error for a given
// operation and user.
type memDB struct {
	seq int

	legacyProfiles map[string]map[string]any
	legacyAccounts map[string][]models.RawDocument
	legacyTxs      map[string][]models.RawDocument
	legacyGoals    map[string][]models.RawDocument
	legacyBudgets  map[string]map[string]any

	profiles    map[string]*models.UserProfile
	accounts    map[string]*models.Account
	txs         map[string]*models.Transaction
	budgets     map[string]*models.Budget
	goals       map[string]*models.Goal
	categories  map[string]models.Category
	checkpoints map[string]*models.Checkpoint

	writes       int
	batchCommits int
	calls        []string

	fail func(op, uid string) error
}

func newMemDB() *memDB {
	return &memDB{
		legacyProfiles: map[string]map[string]any{},
		legacyAccounts: map[string][]models.RawDocument{},
		legacyTxs:      map[string][]models.RawDocument{},
		legacyGoals:    map[string][]models.RawDocument{},
		legacyBudgets:  map[string]map[string]any{},
		profiles:       map[string]*models.UserProfile{},
		accounts:       map[string]*models.Account{},
		txs:            map[string]*models.Transaction{},
		budgets:        map[string]*models.Budget{},
		goals:          map[string]*models.Goal{},
		categories:     map[string]models.Category{},
		checkpoints:    map[string]*models.Checkpoint{},
	}
}

func (db *memDB) check(op, uid string) error {
	db.calls = append(db.calls, op+":"+uid)
	if db.fail != nil {
		return db.fail(op, uid)
	}
	return nil
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

func (db *memDB) stores() MigrationStores {
	return MigrationStores{
		Legacy:       memLegacy{db},
		Profiles:     memProfiles{db},
		Accounts:     memAccounts{db},
		Transactions: memTransactions{db},
		Budgets:      memBudgets{db},
		Goals:        memGoals{db},
		Categories:   memCategories{db},
		Checkpoints:  memCheckpoints{db},
	}
}

func countOwned[T any](m map[string]T, owner func(T) string, uid string) int {
	n := 0
	for _, v := range m {
		if owner(v) == uid {
			n++
		}
	}
	return n
}

func deleteOwned[T any](m map[string]T, owner func(T) string, uid string) int {
	n := 0
	for id, v := range m {
		if owner(v) == uid {
			delete(m, id)
			n++
		}
	}
	return n
}

// --- legacy ---

type memLegacy struct{ db *memDB }

func (l memLegacy) GetProfileData(_ context.Context, uid string) (map[string]any, error) {
	if err := l.db.check("legacy.profile", uid); err != nil {
		return nil, err
	}
	return l.db.legacyProfiles[uid], nil
}

func (l memLegacy) ListAccounts(_ context.Context, uid string) ([]models.RawDocument, error) {
	if err := l.db.check("legacy.accounts", uid); err != nil {
		return nil, err
	}
	return l.db.legacyAccounts[uid], nil
}

func (l memLegacy) ListTransactions(_ context.Context, uid string) ([]models.RawDocument, error) {
	if err := l.db.check("legacy.transactions", uid); err != nil {
		return nil, err
	}
	return l.db.legacyTxs[uid], nil
}

func (l memLegacy) ListGoals(_ context.Context, uid string) ([]models.RawDocument, error) {
	if err := l.db.check("legacy.goals", uid); err != nil {
		return nil, err
	}
	return l.db.legacyGoals[uid], nil
}

func (l memLegacy) GetBudgets(_ context.Context, uid string) (map[string]any, error) {
	if err := l.db.check("legacy.budgets", uid); err != nil {
		return nil, err
	}
	return l.db.legacyBudgets[uid], nil
}

func (l memLegacy) Counts(_ context.Context, uid string) (dto.CollectionCounts, error) {
	if err := l.db.check("legacy.counts", uid); err != nil {
		return dto.CollectionCounts{}, err
	}
	return dto.CollectionCounts{
		Accounts:     len(l.db.legacyAccounts[uid]),
		Transactions: len(l.db.legacyTxs[uid]),
		Goals:        len(l.db.legacyGoals[uid]),
		Budgets:      len(l.db.legacyBudgets[uid]),
	}, nil
}

func (l memLegacy) DeleteAll(ctx context.Context, uid string) (dto.CollectionCounts, error) {
	counts, err := l.Counts(ctx, uid)
	if err != nil {
		return counts, err
	}
	if err := l.db.check("legacy.delete", uid); err != nil {
		return dto.CollectionCounts{}, err
	}
	delete(l.db.legacyAccounts, uid)
	delete(l.db.legacyTxs, uid)
	delete(l.db.legacyGoals, uid)
	delete(l.db.legacyBudgets, uid)
	return counts, nil
}

// --- profiles ---

type memProfiles struct{ db *memDB }

func (p memProfiles) ListUserIDs(_ context.Context) ([]string, error) {
	if err := p.db.check("users.list", ""); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for uid := range p.db.legacyProfiles {
		seen[uid] = true
	}
	for uid := range p.db.legacyAccounts {
		seen[uid] = true
	}
	for uid := range p.db.profiles {
		seen[uid] = true
	}
	ids := make([]string, 0, len(seen))
	for uid := range seen {
		ids = append(ids, uid)
	}
	sort.Strings(ids)
	return ids, nil
}

func (p memProfiles) GetProfile(_ context.Context, uid string) (*models.UserProfile, error) {
	if err := p.db.check("profile.get", uid); err != nil {
		return nil, err
	}
	prof, ok := p.db.profiles[uid]
	if !ok {
		return nil, errs.NewNotFoundError("user profile not found")
	}
	cp := *prof
	return &cp, nil
}

func (p memProfiles) SaveProfile(_ context.Context, prof *models.UserProfile) error {
	if err := p.db.check("profile.save", prof.UID); err != nil {
		return err
	}
	cp := *prof
	p.db.profiles[prof.UID] = &cp
	p.db.writes++
	return nil
}

func (p memProfiles) CreateProfile(ctx context.Context, prof *models.UserProfile) error {
	if _, ok := p.db.profiles[prof.UID]; ok {
		return errs.NewAlreadyExistsError("user profile already exists")
	}
	return p.SaveProfile(ctx, prof)
}

func (p memProfiles) UpdateSummary(_ context.Context, uid string, sum models.FinancialSummary, txCount int) error {
	if err := p.db.check("profile.summary", uid); err != nil {
		return err
	}
	prof, ok := p.db.profiles[uid]
	if !ok {
		return errs.NewNotFoundError("user profile not found")
	}
	prof.FinancialSummary = sum
	prof.Metadata.TransactionsCount = txCount
	prof.Metadata.LastDataUpdate = sum.LastUpdated
	p.db.writes++
	return nil
}

func (p memProfiles) MarkMigrated(_ context.Context, uid string, accounts, txs int, at time.Time) error {
	if err := p.db.check("profile.finalize", uid); err != nil {
		return err
	}
	prof, ok := p.db.profiles[uid]
	if !ok {
		return errs.NewNotFoundError("user profile not found")
	}
	prof.Metadata.DataVersion = models.DataVersionMigrated
	prof.Metadata.AccountsCount = accounts
	prof.Metadata.TransactionsCount = txs
	prof.Metadata.LastDataUpdate = at
	p.db.writes++
	return nil
}

func (p memProfiles) UpdateSyncStatus(_ context.Context, uid string, st models.SyncStatus) error {
	if err := p.db.check("profile.sync", uid); err != nil {
		return err
	}
	prof, ok := p.db.profiles[uid]
	if !ok {
		return errs.NewNotFoundError("user profile not found")
	}
	prof.SyncStatus = st
	p.db.writes++
	return nil
}

// --- accounts ---

type memAccounts struct{ db *memDB }

func accountOwner(a *models.Account) string { return a.UserID }

func (a memAccounts) Create(_ context.Context, acct *models.Account) (string, error) {
	if err := a.db.check("accounts.create", acct.UserID); err != nil {
		return "", err
	}
	acct.AccountID = a.db.nextID("acct")
	cp := *acct
	a.db.accounts[acct.AccountID] = &cp
	a.db.writes++
	return acct.AccountID, nil
}

func (a memAccounts) NessieIDs(_ context.Context, uid string) (map[string]string, error) {
	if err := a.db.check("accounts.nessie", uid); err != nil {
		return nil, err
	}
	out := map[string]string{}
	for id, acct := range a.db.accounts {
		if acct.UserID == uid && acct.NessieID != "" {
			out[acct.NessieID] = id
		}
	}
	return out, nil
}

func (a memAccounts) CountByUser(_ context.Context, uid string) (int, error) {
	return countOwned(a.db.accounts, accountOwner, uid), nil
}

func (a memAccounts) DeleteByUser(_ context.Context, uid string) (int, error) {
	if err := a.db.check("accounts.delete", uid); err != nil {
		return 0, err
	}
	return deleteOwned(a.db.accounts, accountOwner, uid), nil
}

// --- transactions ---

type memTransactions struct{ db *memDB }

func txOwner(t *models.Transaction) string { return t.UserID }

func (t memTransactions) CreateBatch(_ context.Context, txs []*models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	if err := t.db.check("transactions.batch", txs[0].UserID); err != nil {
		return err
	}
	for _, tx := range txs {
		tx.TransactionID = t.db.nextID("tx")
		cp := *tx
		t.db.txs[tx.TransactionID] = &cp
	}
	t.db.batchCommits++
	t.db.writes += len(txs)
	return nil
}

func (t memTransactions) StreamByUser(_ context.Context, uid string, fn func(*models.Transaction) error) error {
	if err := t.db.check("transactions.stream", uid); err != nil {
		return err
	}
	ids := make([]string, 0, len(t.db.txs))
	for id := range t.db.txs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		tx := t.db.txs[id]
		if tx.UserID != uid {
			continue
		}
		cp := *tx
		if err := fn(&cp); err != nil {
			return err
		}
	}
	return nil
}

func (t memTransactions) NessieIDs(_ context.Context, uid string) (map[string]string, error) {
	out := map[string]string{}
	for id, tx := range t.db.txs {
		if tx.UserID == uid && tx.NessieID != "" {
			out[tx.NessieID] = id
		}
	}
	return out, nil
}

func (t memTransactions) CountByUser(_ context.Context, uid string) (int, error) {
	return countOwned(t.db.txs, txOwner, uid), nil
}

func (t memTransactions) DeleteByUser(_ context.Context, uid string) (int, error) {
	if err := t.db.check("transactions.delete", uid); err != nil {
		return 0, err
	}
	return deleteOwned(t.db.txs, txOwner, uid), nil
}

// --- budgets ---

type memBudgets struct{ db *memDB }

func budgetOwner(b *models.Budget) string { return b.UserID }

func (b memBudgets) Create(_ context.Context, budget *models.Budget) (string, error) {
	if err := b.db.check("budgets.create", budget.UserID); err != nil {
		return "", err
	}
	budget.BudgetID = b.db.nextID("budget")
	cp := *budget
	b.db.budgets[budget.BudgetID] = &cp
	b.db.writes++
	return budget.BudgetID, nil
}

func (b memBudgets) ActiveCategories(_ context.Context, uid string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, budget := range b.db.budgets {
		if budget.UserID == uid && budget.IsActive {
			out[budget.Category] = true
		}
	}
	return out, nil
}

func (b memBudgets) CountByUser(_ context.Context, uid string) (int, error) {
	return countOwned(b.db.budgets, budgetOwner, uid), nil
}

func (b memBudgets) DeleteByUser(_ context.Context, uid string) (int, error) {
	return deleteOwned(b.db.budgets, budgetOwner, uid), nil
}

// --- goals ---

type memGoals struct{ db *memDB }

func goalOwner(g *models.Goal) string { return g.UserID }

func (g memGoals) Create(_ context.Context, goal *models.Goal) (string, error) {
	if err := g.db.check("goals.create", goal.UserID); err != nil {
		return "", err
	}
	goal.GoalID = g.db.nextID("goal")
	cp := *goal
	g.db.goals[goal.GoalID] = &cp
	g.db.writes++
	return goal.GoalID, nil
}

func (g memGoals) NessieIDs(_ context.Context, uid string) (map[string]string, error) {
	out := map[string]string{}
	for id, goal := range g.db.goals {
		if goal.UserID == uid && goal.NessieID != "" {
			out[goal.NessieID] = id
		}
	}
	return out, nil
}

func (g memGoals) CountByUser(_ context.Context, uid string) (int, error) {
	return countOwned(g.db.goals, goalOwner, uid), nil
}

func (g memGoals) DeleteByUser(_ context.Context, uid string) (int, error) {
	return deleteOwned(g.db.goals, goalOwner, uid), nil
}

// --- categories ---

type memCategories struct{ db *memDB }

func (c memCategories) Upsert(_ context.Context, cats []models.Category) (int, error) {
	if err := c.db.check("categories.upsert", ""); err != nil {
		return 0, err
	}
	for _, cat := range cats {
		c.db.categories[cat.CategoryID] = cat
	}
	return len(cats), nil
}

// --- checkpoints ---

type memCheckpoints struct{ db *memDB }

func (c memCheckpoints) Get(_ context.Context, uid string) (*models.Checkpoint, error) {
	cp, ok := c.db.checkpoints[uid]
	if !ok {
		return nil, nil
	}
	out := *cp
	out.CompletedSteps = append([]models.MigrationStep(nil), cp.CompletedSteps...)
	return &out, nil
}

func (c memCheckpoints) Start(_ context.Context, cp *models.Checkpoint) error {
	stored := *cp
	c.db.checkpoints[cp.UID] = &stored
	return nil
}

func (c memCheckpoints) MarkStep(_ context.Context, uid string, step models.MigrationStep) error {
	cp, ok := c.db.checkpoints[uid]
	if !ok {
		return errs.NewNotFoundError("checkpoint not found")
	}
	cp.CompletedSteps = append(cp.CompletedSteps, step)
	return nil
}

func (c memCheckpoints) Delete(_ context.Context, uid string) error {
	delete(c.db.checkpoints, uid)
	return nil
}
