package models

import (
	"time"
)

type Account struct {
	AccountID     string          `firestore:"-" json:"accountId"` // flat collection doc ID
	UserID        string          `firestore:"userId" json:"userId"`
	NessieID      string          `firestore:"nessieId" json:"nessieId"` // nested doc ID it was migrated from
	Name          string          `firestore:"name" json:"name"`
	Type          string          `firestore:"type" json:"type"`
	Balance       float64         `firestore:"balance" json:"balance"`
	Currency      string          `firestore:"currency" json:"currency"`
	Institution   string          `firestore:"institution" json:"institution"`
	AccountNumber string          `firestore:"accountNumber" json:"accountNumber"`
	IsActive      bool            `firestore:"isActive" json:"isActive"`
	Metadata      AccountMetadata `firestore:"metadata" json:"metadata"`
	CreatedAt     time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time       `firestore:"updatedAt" json:"updatedAt"`
}

type AccountMetadata struct {
	SyncSource string    `firestore:"syncSource" json:"syncSource"`
	LastSynced time.Time `firestore:"lastSynced" json:"lastSynced"`
}
