package services

import (
	"errors"
	"testing"
	"time"

	"github.com/retrovault/backend/internal/models"
	"github.com/retrovault/backend/pkg/helpers"
)

func newTestAggregateService(db *memDB) *aggregateService {
	svc := NewAggregateService(memTransactions{db}, memProfiles{db})
	svc.clockNow = func() time.Time { return fixedNow }
	return svc
}

func addTx(db *memDB, uid, typ string, amount float64) {
	id := db.nextID("tx")
	db.txs[id] = &models.Transaction{TransactionID: id, UserID: uid, Type: typ, Amount: amount}
}

func TestRecompute_AcceptsSynonyms(t *testing.T) {
	db := newMemDB()
	db.profiles["u1"] = &models.UserProfile{UID: "u1"}
	addTx(db, "u1", "income", 1000)
	addTx(db, "u1", "deposit", 250.25)
	addTx(db, "u1", "expense", 300)
	addTx(db, "u1", "withdrawal", 0.1)
	addTx(db, "u1", "transfer", 999)
	addTx(db, "u2", "income", 5)

	res, err := newTestAggregateService(db).Recompute(helpers.TestCtx(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Skipped || res.TransactionsCount != 5 {
		t.Fatalf("unexpected result: %+v", res)
	}

	sum := db.profiles["u1"].FinancialSummary
	if sum.TotalIncome != 1250.25 || sum.TotalExpenses != 300.1 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if sum.TotalSavings != sum.TotalIncome-sum.TotalExpenses || sum.TotalBalance != sum.TotalSavings {
		t.Fatalf("unexpected savings: %+v", sum)
	}
	if db.profiles["u1"].Metadata.TransactionsCount != 5 {
		t.Fatalf("expected transaction count on metadata")
	}
}

func TestRecompute_StoredSavingsMatchStoredTotals(t *testing.T) {
	tests := []struct {
		name     string
		income   []float64
		expenses []float64
	}{
		{"tenths", []float64{0.3}, []float64{0.1}},
		{"mixed cents", []float64{100.7}, []float64{0.35}},
		{"many small amounts", []float64{0.1, 0.2, 0.7}, []float64{0.3, 0.05}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := newMemDB()
			db.profiles["u1"] = &models.UserProfile{UID: "u1"}
			for _, a := range tc.income {
				addTx(db, "u1", "income", a)
			}
			for _, a := range tc.expenses {
				addTx(db, "u1", "expense", a)
			}

			if _, err := newTestAggregateService(db).Recompute(helpers.TestCtx(), "u1"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			sum := db.profiles["u1"].FinancialSummary
			if sum.TotalSavings != sum.TotalIncome-sum.TotalExpenses {
				t.Fatalf("savings %v != income %v - expenses %v", sum.TotalSavings, sum.TotalIncome, sum.TotalExpenses)
			}
			if sum.TotalBalance != sum.TotalSavings {
				t.Fatalf("balance %v != savings %v", sum.TotalBalance, sum.TotalSavings)
			}
		})
	}
}

func TestRecompute_NoTransactionsSkipsWrite(t *testing.T) {
	db := newMemDB()
	db.profiles["u1"] = &models.UserProfile{UID: "u1", FinancialSummary: models.FinancialSummary{TotalBalance: 42}}

	res, err := newTestAggregateService(db).Recompute(helpers.TestCtx(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Skipped || db.writes != 0 {
		t.Fatalf("expected skip without write, got %+v writes=%d", res, db.writes)
	}
	if db.profiles["u1"].FinancialSummary.TotalBalance != 42 {
		t.Fatalf("summary changed")
	}
}

func TestRecompute_StreamError(t *testing.T) {
	db := newMemDB()
	db.fail = func(op, _ string) error {
		if op == "transactions.stream" {
			return errors.New("unavailable")
		}
		return nil
	}

	if _, err := newTestAggregateService(db).Recompute(helpers.TestCtx(), "u1"); err == nil {
		t.Fatalf("expected error")
	}
}
