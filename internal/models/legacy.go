package models

import "time"

// RawDocument is an untyped nested-layout document.
type RawDocument struct {
	ID   string
	Data map[string]any
}

// Legacy* types describe the nested per-user layout. Every field is
// optional; nil means absent or not of the expected type.

type LegacyProfile struct {
	Name     *string
	Email    *string
	PhotoURL *string
	Balance  *float64
	Currency *string
	Timezone *string
	Created  *time.Time
}

type LegacyAccount struct {
	ID            string
	Name          *string
	Type          *string
	Balance       *float64
	Currency      *string
	Institution   *string
	AccountNumber *string
	Created       *time.Time
}

type LegacyTransaction struct {
	ID            string
	AccountID     *string
	Amount        *float64
	Type          *string
	Category      *string
	Subcategory   *string
	Description   *string
	Merchant      *string
	Date          *time.Time
	Location      *string
	PaymentMethod *string
	Notes         *string
}

type LegacyGoal struct {
	ID            string
	Name          *string
	TargetAmount  *float64
	CurrentAmount *float64
	TargetDate    *time.Time
	Category      *string
	Priority      *string
	IsCompleted   *bool
	Created       *time.Time
}

// BudgetEntry is one usable {category: amount} pair from users/{uid}/settings/budgets.
type BudgetEntry struct {
	Category string
	Amount   float64
}
