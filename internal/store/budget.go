package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
)

type budgetStore struct {
	flatCollection
}

func NewBudgetStore(client *firestore.Client) *budgetStore {
	return &budgetStore{flatCollection{client: client, name: BudgetsCollection}}
}

func (s *budgetStore) Create(ctx context.Context, b *models.Budget) (string, error) {
	ref, _, err := s.collection().Add(ctx, b)
	if err != nil {
		return "", errs.NewDatabaseError("create", "failed to create budget", err)
	}
	b.BudgetID = ref.ID
	return ref.ID, nil
}

// ActiveCategories returns the categories that already have an active budget.
func (s *budgetStore) ActiveCategories(ctx context.Context, uid string) (map[string]bool, error) {
	docs, err := s.byUser(uid).Where("isActive", "==", true).Select("category").Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list active budgets", err)
	}
	out := make(map[string]bool, len(docs))
	for _, d := range docs {
		if c, ok := d.Data()["category"].(string); ok {
			out[c] = true
		}
	}
	return out, nil
}
