package dto

import (
	"time"

	"github.com/retrovault/backend/internal/models"
)

// EntityMigrationResult is what each per-entity migrator returns.
type EntityMigrationResult struct {
	Count   int      `json:"count"`
	Skipped int      `json:"skipped,omitempty"`
	IDs     []string `json:"ids,omitempty"`
}

// AccountMigrationResult also carries nessieId -> flat account id, used to
// relink transactions.
type AccountMigrationResult struct {
	EntityMigrationResult
	Accounts []*models.Account `json:"accounts,omitempty"`
	Links    map[string]string `json:"-"`
}

type AggregateResult struct {
	Skipped           bool                    `json:"skipped"`
	TransactionsCount int                     `json:"transactionsCount"`
	Summary           models.FinancialSummary `json:"financialSummary"`
}

type UserMigrationResult struct {
	UserID       string `json:"userId"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	Accounts     int    `json:"accounts"`
	Transactions int    `json:"transactions"`
	Budgets      int    `json:"budgets"`
	Goals        int    `json:"goals"`
	Resumed      bool   `json:"resumed,omitempty"`
}

type MigrationSummary struct {
	RunID            string                `json:"runId"`
	TotalUsers       int                   `json:"totalUsers"`
	Migrated         int                   `json:"migrated"`
	Errors           int                   `json:"errors"`
	Results          []UserMigrationResult `json:"results"`
	CategoriesSeeded int                   `json:"categoriesSeeded"`
	CategoryError    string                `json:"categoryError,omitempty"`
	StartedAt        time.Time             `json:"startedAt"`
	FinishedAt       time.Time             `json:"finishedAt"`
}

// CollectionCounts counts documents per entity kind for one user.
type CollectionCounts struct {
	Accounts     int `json:"accounts"`
	Transactions int `json:"transactions"`
	Budgets      int `json:"budgets"`
	Goals        int `json:"goals"`
}

func (c CollectionCounts) Empty() bool {
	return c.Accounts == 0 && c.Transactions == 0 && c.Budgets == 0 && c.Goals == 0
}

type VerificationReport struct {
	UserID           string                   `json:"userId"`
	Status           models.MigrationStatus   `json:"status"`
	Flat             CollectionCounts         `json:"flat"`
	Legacy           CollectionCounts         `json:"legacy"`
	FinancialSummary *models.FinancialSummary `json:"financialSummary,omitempty"`
}

type RollbackResult struct {
	UserID  string           `json:"userId"`
	Deleted CollectionCounts `json:"deleted"`
}

type CleanupResult struct {
	UserID  string           `json:"userId"`
	Deleted CollectionCounts `json:"deleted"`
}

type StatusReport struct {
	Total        int      `json:"total"`
	Pending      int      `json:"pending"`
	Migrated     int      `json:"migrated"`
	PendingUsers []string `json:"pendingUsers,omitempty"`
}
