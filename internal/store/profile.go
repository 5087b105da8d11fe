package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
)

// profileFields are the top-level fields owned by the flat profile. Saving a
// profile merges only these, so any old-layout fields on users/{uid} survive.
var profileFields = []string{
	"uid", "displayName", "email", "photoURL",
	"financialSummary", "syncStatus", "preferences", "metadata",
	"createdAt", "updatedAt",
}

type profileStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewProfileStore(client *firestore.Client) *profileStore {
	return &profileStore{
		client:     client,
		collection: client.Collection(UsersCollection),
	}
}

// ListUserIDs enumerates users/*, including ids that only exist as parents
// of old nested subcollections.
func (s *profileStore) ListUserIDs(ctx context.Context) ([]string, error) {
	iter := s.collection.DocumentRefs(ctx)

	var ids []string
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list users", err)
		}
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

func (s *profileStore) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user profile not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user profile", err)
	}

	var p models.UserProfile
	if err := doc.DataTo(&p); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user profile", err)
	}
	if p.UID == "" {
		p.UID = uid
	}
	return &p, nil
}

func (s *profileStore) CreateProfile(ctx context.Context, p *models.UserProfile) error {
	_, err := s.collection.Doc(p.UID).Create(ctx, p)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("user profile already exists")
		}
		return errs.NewDatabaseError("create", "failed to create user profile", err)
	}
	return nil
}

func (s *profileStore) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	paths := make([]firestore.FieldPath, 0, len(profileFields))
	for _, f := range profileFields {
		paths = append(paths, firestore.FieldPath{f})
	}
	_, err := s.collection.Doc(p.UID).Set(ctx, p, firestore.Merge(paths...))
	if err != nil {
		return errs.NewDatabaseError("update", "failed to save user profile", err)
	}
	return nil
}

// UpdateSummary writes only the aggregate fields.
func (s *profileStore) UpdateSummary(ctx context.Context, uid string, sum models.FinancialSummary, txCount int) error {
	return s.update(ctx, uid, "failed to update financial summary", []firestore.Update{
		{Path: "financialSummary.totalBalance", Value: sum.TotalBalance},
		{Path: "financialSummary.totalIncome", Value: sum.TotalIncome},
		{Path: "financialSummary.totalExpenses", Value: sum.TotalExpenses},
		{Path: "financialSummary.totalSavings", Value: sum.TotalSavings},
		{Path: "financialSummary.lastUpdated", Value: sum.LastUpdated},
		{Path: "metadata.transactionsCount", Value: txCount},
		{Path: "metadata.lastDataUpdate", Value: sum.LastUpdated},
	})
}

func (s *profileStore) MarkMigrated(ctx context.Context, uid string, accounts, txs int, at time.Time) error {
	return s.update(ctx, uid, "failed to mark profile migrated", []firestore.Update{
		{Path: "metadata.dataVersion", Value: models.DataVersionMigrated},
		{Path: "metadata.accountsCount", Value: accounts},
		{Path: "metadata.transactionsCount", Value: txs},
		{Path: "metadata.lastDataUpdate", Value: at},
		{Path: "updatedAt", Value: at},
	})
}

func (s *profileStore) UpdateSyncStatus(ctx context.Context, uid string, st models.SyncStatus) error {
	return s.update(ctx, uid, "failed to update sync status", []firestore.Update{
		{Path: "syncStatus", Value: st},
		{Path: "updatedAt", Value: st.LastSync},
	})
}

func (s *profileStore) update(ctx context.Context, uid, msg string, updates []firestore.Update) error {
	_, err := s.collection.Doc(uid).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("user profile not found")
		}
		return errs.NewDatabaseError("update", msg, err)
	}
	return nil
}
