package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
)

type checkpointStore struct {
	collection *firestore.CollectionRef
}

func NewCheckpointStore(client *firestore.Client) *checkpointStore {
	return &checkpointStore{collection: client.Collection(MigrationsCollection)}
}

// Get returns nil, nil when the user has no migration in flight.
func (s *checkpointStore) Get(ctx context.Context, uid string) (*models.Checkpoint, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to read checkpoint", err)
	}
	var cp models.Checkpoint
	if err := doc.DataTo(&cp); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse checkpoint", err)
	}
	return &cp, nil
}

func (s *checkpointStore) Start(ctx context.Context, cp *models.Checkpoint) error {
	if _, err := s.collection.Doc(cp.UID).Set(ctx, cp); err != nil {
		return errs.NewDatabaseError("create", "failed to start checkpoint", err)
	}
	return nil
}

func (s *checkpointStore) MarkStep(ctx context.Context, uid string, step models.MigrationStep) error {
	_, err := s.collection.Doc(uid).Update(ctx, []firestore.Update{
		{Path: "completedSteps", Value: firestore.ArrayUnion(string(step))},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to record migration step", err)
	}
	return nil
}

func (s *checkpointStore) Delete(ctx context.Context, uid string) error {
	if _, err := s.collection.Doc(uid).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to clear checkpoint", err)
	}
	return nil
}
