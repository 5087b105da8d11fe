package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/retrovault/backend/internal/dto"
	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
)

// legacyStore reads (and, for cleanup, deletes) the nested per-user layout:
// users/{uid}/accounts, users/{uid}/transactions, users/{uid}/goals and the
// users/{uid}/settings/budgets document.
type legacyStore struct {
	client *firestore.Client
}

func NewLegacyStore(client *firestore.Client) *legacyStore {
	return &legacyStore{client: client}
}

func (s *legacyStore) userDoc(uid string) *firestore.DocumentRef {
	return s.client.Collection(UsersCollection).Doc(uid)
}

func (s *legacyStore) sub(uid, name string) *firestore.CollectionRef {
	return s.userDoc(uid).Collection(name)
}

func (s *legacyStore) budgetsDoc(uid string) *firestore.DocumentRef {
	return s.sub(uid, "settings").Doc("budgets")
}

// GetProfileData returns the raw users/{uid} fields, or nil when the user
// only exists as a parent of subcollections.
func (s *legacyStore) GetProfileData(ctx context.Context, uid string) (map[string]any, error) {
	snap, err := s.userDoc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to read legacy profile", err)
	}
	return snap.Data(), nil
}

func (s *legacyStore) ListAccounts(ctx context.Context, uid string) ([]models.RawDocument, error) {
	return s.list(ctx, s.sub(uid, AccountsCollection), "accounts")
}

func (s *legacyStore) ListTransactions(ctx context.Context, uid string) ([]models.RawDocument, error) {
	return s.list(ctx, s.sub(uid, TransactionsCollection), "transactions")
}

func (s *legacyStore) ListGoals(ctx context.Context, uid string) ([]models.RawDocument, error) {
	return s.list(ctx, s.sub(uid, GoalsCollection), "goals")
}

// GetBudgets returns the {category: amount} settings document, nil if absent.
func (s *legacyStore) GetBudgets(ctx context.Context, uid string) (map[string]any, error) {
	snap, err := s.budgetsDoc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to read legacy budgets", err)
	}
	return snap.Data(), nil
}

func (s *legacyStore) Counts(ctx context.Context, uid string) (dto.CollectionCounts, error) {
	var out dto.CollectionCounts
	var err error

	if out.Accounts, err = countQuery(ctx, s.sub(uid, AccountsCollection).Query, "legacy accounts"); err != nil {
		return out, err
	}
	if out.Transactions, err = countQuery(ctx, s.sub(uid, TransactionsCollection).Query, "legacy transactions"); err != nil {
		return out, err
	}
	if out.Goals, err = countQuery(ctx, s.sub(uid, GoalsCollection).Query, "legacy goals"); err != nil {
		return out, err
	}
	budgets, err := s.GetBudgets(ctx, uid)
	if err != nil {
		return out, err
	}
	out.Budgets = len(budgets)
	return out, nil
}

// DeleteAll removes the nested documents. The users/{uid} document itself
// is the flat profile and is left alone.
func (s *legacyStore) DeleteAll(ctx context.Context, uid string) (dto.CollectionCounts, error) {
	var out dto.CollectionCounts
	var err error

	if out.Accounts, err = deleteQuery(ctx, s.client, s.sub(uid, AccountsCollection).Query, "legacy accounts"); err != nil {
		return out, err
	}
	if out.Transactions, err = deleteQuery(ctx, s.client, s.sub(uid, TransactionsCollection).Query, "legacy transactions"); err != nil {
		return out, err
	}
	if out.Goals, err = deleteQuery(ctx, s.client, s.sub(uid, GoalsCollection).Query, "legacy goals"); err != nil {
		return out, err
	}

	budgets, err := s.GetBudgets(ctx, uid)
	if err != nil {
		return out, err
	}
	if budgets != nil {
		if _, err := s.budgetsDoc(uid).Delete(ctx); err != nil {
			return out, errs.NewDatabaseError("delete", "failed to delete legacy budgets", err)
		}
		out.Budgets = len(budgets)
	}
	return out, nil
}

func (s *legacyStore) list(ctx context.Context, coll *firestore.CollectionRef, name string) ([]models.RawDocument, error) {
	iter := coll.Documents(ctx)
	defer iter.Stop()

	var out []models.RawDocument
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list legacy "+name, err)
		}
		out = append(out, models.RawDocument{ID: doc.Ref.ID, Data: doc.Data()})
	}
	return out, nil
}
