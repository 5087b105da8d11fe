package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
)

type accountStore struct {
	flatCollection
}

func NewAccountStore(client *firestore.Client) *accountStore {
	return &accountStore{flatCollection{client: client, name: AccountsCollection}}
}

// Create adds the account under a generated id and sets a.AccountID.
func (s *accountStore) Create(ctx context.Context, a *models.Account) (string, error) {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	ref, _, err := s.collection().Add(ctx, a)
	if err != nil {
		return "", errs.NewDatabaseError("create", "failed to create account", err)
	}
	a.AccountID = ref.ID
	return ref.ID, nil
}

func (s *accountStore) ListByUser(ctx context.Context, uid string) ([]*models.Account, error) {
	docs, err := s.byUser(uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list accounts", err)
	}
	accounts := make([]*models.Account, 0, len(docs))
	for _, d := range docs {
		var a models.Account
		if err := d.DataTo(&a); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse account data", err)
		}
		a.AccountID = d.Ref.ID
		accounts = append(accounts, &a)
	}
	return accounts, nil
}
