package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/models"
	"github.com/retrovault/backend/pkg/logger"
)

type transactionStore struct {
	flatCollection
	batchSize int
}

func NewTransactionStore(client *firestore.Client, batchSize int) *transactionStore {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	return &transactionStore{
		flatCollection: flatCollection{client: client, name: TransactionsCollection},
		batchSize:      batchSize,
	}
}

// CreateBatch writes txs atomically, one Firestore transaction per chunk of
// batchSize documents, and sets each TransactionID. Nothing is written for
// an empty slice.
func (s *transactionStore) CreateBatch(ctx context.Context, txs []*models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)
	now := time.Now()

	for start := 0; start < len(txs); start += s.batchSize {
		end := min(start+s.batchSize, len(txs))
		chunk := txs[start:end]

		refs := make([]*firestore.DocumentRef, len(chunk))
		for i, t := range chunk {
			refs[i] = s.collection().NewDoc()
			if t.CreatedAt.IsZero() {
				t.CreatedAt = now
			}
			if t.UpdatedAt.IsZero() {
				t.UpdatedAt = now
			}
		}

		err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			for i, t := range chunk {
				if err := tx.Create(refs[i], t); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return errs.NewDatabaseError("create", "failed to commit transactions", err)
		}

		for i, t := range chunk {
			t.TransactionID = refs[i].ID
		}
		log.Debug("committed transaction chunk", "size", len(chunk), "offset", start)
	}
	return nil
}

// StreamByUser calls fn for each of the user's flat transactions.
func (s *transactionStore) StreamByUser(ctx context.Context, uid string, fn func(*models.Transaction) error) error {
	iter := s.byUser(uid).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to query transactions", err)
		}
		var t models.Transaction
		if err := doc.DataTo(&t); err != nil {
			return errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		t.TransactionID = doc.Ref.ID
		if err := fn(&t); err != nil {
			return err
		}
	}
}
