package models

import (
	"time"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

type Transaction struct {
	TransactionID string              `firestore:"-" json:"transactionId"` // flat collection doc ID
	UserID        string              `firestore:"userId" json:"userId"`
	AccountID     string              `firestore:"accountId" json:"accountId"`
	NessieID      string              `firestore:"nessieId" json:"nessieId"`
	Amount        float64             `firestore:"amount" json:"amount"`
	Type          string              `firestore:"type" json:"type"` // income | expense
	Category      string              `firestore:"category" json:"category"`
	Subcategory   string              `firestore:"subcategory" json:"subcategory"`
	Description   string              `firestore:"description" json:"description"`
	Merchant      string              `firestore:"merchant" json:"merchant"`
	Date          time.Time           `firestore:"date" json:"date"`
	Metadata      TransactionMetadata `firestore:"metadata" json:"metadata"`
	CreatedAt     time.Time           `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `firestore:"updatedAt" json:"updatedAt"`
}

type TransactionMetadata struct {
	Location      string `firestore:"location" json:"location"`
	PaymentMethod string `firestore:"paymentMethod" json:"paymentMethod"`
	Notes         string `firestore:"notes" json:"notes"`
	SyncSource    string `firestore:"syncSource" json:"syncSource"`
}
