package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retrovault/backend/internal/dto"
	"github.com/retrovault/backend/internal/models"
	"github.com/retrovault/backend/internal/transform"
	"github.com/retrovault/backend/pkg/logger"
)

type transactionAggregateStore interface {
	StreamByUser(ctx context.Context, uid string, fn func(*models.Transaction) error) error
}

type profileAggregateStore interface {
	UpdateSummary(ctx context.Context, uid string, sum models.FinancialSummary, txCount int) error
}

type aggregateService struct {
	txs      transactionAggregateStore
	profiles profileAggregateStore
	clockNow func() time.Time
}

func NewAggregateService(txs transactionAggregateStore, profiles profileAggregateStore) *aggregateService {
	return &aggregateService{
		txs:      txs,
		profiles: profiles,
		clockNow: time.Now,
	}
}

// Recompute sums the user's flat transactions and writes the financial
// summary back onto the profile. Users with no transactions are left as is.
// Balance equals savings; there is no opening balance to carry forward.
func (s *aggregateService) Recompute(ctx context.Context, uid string) (dto.AggregateResult, error) {
	log := logger.FromContext(ctx)

	income := decimal.Zero
	expenses := decimal.Zero
	count := 0

	err := s.txs.StreamByUser(ctx, uid, func(tx *models.Transaction) error {
		count++
		amount := decimal.NewFromFloat(tx.Amount)
		switch {
		case transform.IsIncome(tx.Type):
			income = income.Add(amount)
		case transform.IsExpense(tx.Type):
			expenses = expenses.Add(amount)
		}
		return nil
	})
	if err != nil {
		return dto.AggregateResult{}, err
	}
	if count == 0 {
		log.Debug("no transactions, aggregates unchanged")
		return dto.AggregateResult{Skipped: true}, nil
	}

	// savings is derived from the stored floats so that
	// totalSavings == totalIncome - totalExpenses holds on the document.
	inc := income.InexactFloat64()
	exp := expenses.InexactFloat64()
	sum := models.FinancialSummary{
		TotalIncome:   inc,
		TotalExpenses: exp,
		TotalSavings:  inc - exp,
		TotalBalance:  inc - exp,
		LastUpdated:   s.clockNow(),
	}
	if err := s.profiles.UpdateSummary(ctx, uid, sum, count); err != nil {
		return dto.AggregateResult{}, err
	}

	log.Info("aggregates recomputed",
		"transactions", count,
		"total_income", sum.TotalIncome,
		"total_expenses", sum.TotalExpenses,
		"total_savings", sum.TotalSavings)

	return dto.AggregateResult{TransactionsCount: count, Summary: sum}, nil
}
