package models

import "time"

type Budget struct {
	BudgetID  string    `firestore:"-" json:"budgetId"`
	UserID    string    `firestore:"userId" json:"userId"`
	Category  string    `firestore:"category" json:"category"`
	Amount    float64   `firestore:"amount" json:"amount"` // monthly limit
	Spent     float64   `firestore:"spent" json:"spent"`
	Period    string    `firestore:"period" json:"period"`
	IsActive  bool      `firestore:"isActive" json:"isActive"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
