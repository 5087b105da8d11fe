package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
	"github.com/retrovault/backend/pkg/logger"
)

type categoryStore struct {
	client *firestore.Client
}

func NewCategoryStore(client *firestore.Client) *categoryStore {
	return &categoryStore{client: client}
}

func (s *categoryStore) collection() *firestore.CollectionRef {
	return s.client.Collection(CategoriesCollection)
}

// categoryFields are merged on upsert; other fields on an existing
// category document are left alone.
var categoryFields = []string{"name", "type", "color", "icon", "isDefault"}

// Upsert merges each category into categories/{CategoryID}.
func (s *categoryStore) Upsert(ctx context.Context, cats []models.Category) (int, error) {
	if len(cats) == 0 {
		return 0, nil
	}
	log := logger.FromContext(ctx)

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(cats))
	for _, c := range cats {
		job, err := bw.Set(s.collection().Doc(c.CategoryID), c, firestore.Merge(categoryPaths(c)...))
		if err != nil {
			bw.End()
			return 0, errs.NewDatabaseError("update", "failed to schedule category upsert", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			log.Error("failed to upsert category", "category_id", cats[i].CategoryID, "error", err)
			return i, errs.NewDatabaseError("update", "failed to upsert category", err)
		}
	}
	return len(jobs), nil
}

// categoryPaths lists the merge paths present in c. Merge rejects a path
// that has no value, and the omitempty fields are absent when empty.
func categoryPaths(c models.Category) []firestore.FieldPath {
	paths := make([]firestore.FieldPath, 0, len(categoryFields)+2)
	for _, f := range categoryFields {
		paths = append(paths, firestore.FieldPath{f})
	}
	if len(c.Subcategories) > 0 {
		paths = append(paths, firestore.FieldPath{"subcategories"})
	}
	if len(c.Rules) > 0 {
		paths = append(paths, firestore.FieldPath{"rules"})
	}
	return paths
}
