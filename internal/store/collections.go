package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"

	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/pkg/logger"
)

// Collection names. Old layout lives under users/{uid}/...
const (
	UsersCollection        = "users"
	AccountsCollection     = "accounts"
	TransactionsCollection = "transactions"
	BudgetsCollection      = "budgets"
	GoalsCollection        = "goals"
	CategoriesCollection   = "categories"
	MigrationsCollection   = "migrations"

	// Firestore caps a single commit at 500 writes.
	MaxBatchSize = 500
)

// flatCollection holds the queries shared by every top-level collection
// whose documents carry a userId owner field.
type flatCollection struct {
	client *firestore.Client
	name   string
}

func (c flatCollection) collection() *firestore.CollectionRef {
	return c.client.Collection(c.name)
}

func (c flatCollection) byUser(uid string) firestore.Query {
	return c.collection().Where("userId", "==", uid)
}

func (c flatCollection) CountByUser(ctx context.Context, uid string) (int, error) {
	return countQuery(ctx, c.byUser(uid), c.name)
}

// NessieIDs maps nessieId -> flat doc id for the user's documents.
func (c flatCollection) NessieIDs(ctx context.Context, uid string) (map[string]string, error) {
	iter := c.byUser(uid).Select("nessieId").Documents(ctx)
	defer iter.Stop()

	out := map[string]string{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list "+c.name+" nessie ids", err)
		}
		if id, ok := doc.Data()["nessieId"].(string); ok && id != "" {
			out[id] = doc.Ref.ID
		}
	}
	return out, nil
}

func (c flatCollection) DeleteByUser(ctx context.Context, uid string) (int, error) {
	return deleteQuery(ctx, c.client, c.byUser(uid), c.name)
}

func countQuery(ctx context.Context, q firestore.Query, name string) (int, error) {
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to count "+name, err)
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, errs.NewDatabaseError("read", "unexpected count result for "+name, nil)
	}
	return int(v.GetIntegerValue()), nil
}

// deleteQuery removes every document matched by q through one BulkWriter.
func deleteQuery(ctx context.Context, client *firestore.Client, q firestore.Query, name string) (int, error) {
	refs, err := q.Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to list "+name+" for delete", err)
	}
	return deleteRefs(ctx, client, refsOf(refs), name)
}

func refsOf(docs []*firestore.DocumentSnapshot) []*firestore.DocumentRef {
	refs := make([]*firestore.DocumentRef, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, d.Ref)
	}
	return refs
}

func deleteRefs(ctx context.Context, client *firestore.Client, refs []*firestore.DocumentRef, name string) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	log := logger.FromContext(ctx)

	bw := client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return 0, errs.NewDatabaseError("delete", "failed to schedule "+name+" delete", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	deleted := 0
	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			log.Error("failed to delete document", "collection", name, "doc_id", refs[i].ID, "error", err)
			return deleted, errs.NewDatabaseError("delete", "failed to delete "+name, err)
		}
		deleted++
	}
	return deleted, nil
}
