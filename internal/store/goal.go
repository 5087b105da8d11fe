package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
)

type goalStore struct {
	flatCollection
}

func NewGoalStore(client *firestore.Client) *goalStore {
	return &goalStore{flatCollection{client: client, name: GoalsCollection}}
}

func (s *goalStore) Create(ctx context.Context, g *models.Goal) (string, error) {
	ref, _, err := s.collection().Add(ctx, g)
	if err != nil {
		return "", errs.NewDatabaseError("create", "failed to create goal", err)
	}
	g.GoalID = ref.ID
	return ref.ID, nil
}
