package models

import (
	"time"
)

// DataVersionMigrated marks a profile whose data lives in the flat layout.
const DataVersionMigrated = "2.0"

type UserProfile struct {
	UID              string           `firestore:"uid" json:"uid"`
	DisplayName      string           `firestore:"displayName" json:"displayName"`
	Email            string           `firestore:"email" json:"email"`
	PhotoURL         string           `firestore:"photoURL" json:"photoURL"`
	FinancialSummary FinancialSummary `firestore:"financialSummary" json:"financialSummary"`
	SyncStatus       SyncStatus       `firestore:"syncStatus" json:"syncStatus"`
	Preferences      Preferences      `firestore:"preferences" json:"preferences"`
	Metadata         ProfileMetadata  `firestore:"metadata" json:"metadata"`
	CreatedAt        time.Time        `firestore:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time        `firestore:"updatedAt" json:"updatedAt"`
}

// FinancialSummary is the denormalized aggregate cached on the profile.
// TotalSavings is always TotalIncome - TotalExpenses.
type FinancialSummary struct {
	TotalBalance  float64   `firestore:"totalBalance" json:"totalBalance"`
	TotalIncome   float64   `firestore:"totalIncome" json:"totalIncome"`
	TotalExpenses float64   `firestore:"totalExpenses" json:"totalExpenses"`
	TotalSavings  float64   `firestore:"totalSavings" json:"totalSavings"`
	LastUpdated   time.Time `firestore:"lastUpdated" json:"lastUpdated"`
}

type SyncStatus struct {
	LastSync     time.Time `firestore:"lastSync" json:"lastSync"`
	IsConsistent bool      `firestore:"isConsistent" json:"isConsistent"`
	NeedsRefresh bool      `firestore:"needsRefresh" json:"needsRefresh"`
	Version      int       `firestore:"version" json:"version"`
}

type Preferences struct {
	Currency      string                  `firestore:"currency" json:"currency"`
	Timezone      string                  `firestore:"timezone" json:"timezone"`
	Categories    []string                `firestore:"categories" json:"categories"`
	Notifications NotificationPreferences `firestore:"notifications" json:"notifications"`
}

type NotificationPreferences struct {
	Email         bool `firestore:"email" json:"email"`
	Push          bool `firestore:"push" json:"push"`
	BudgetAlerts  bool `firestore:"budgetAlerts" json:"budgetAlerts"`
	GoalReminders bool `firestore:"goalReminders" json:"goalReminders"`
}

type ProfileMetadata struct {
	AccountsCount     int       `firestore:"accountsCount" json:"accountsCount"`
	TransactionsCount int       `firestore:"transactionsCount" json:"transactionsCount"`
	LastDataUpdate    time.Time `firestore:"lastDataUpdate" json:"lastDataUpdate"`
	DataVersion       string    `firestore:"dataVersion" json:"dataVersion"`
}

// Status derives the migration state from the dataVersion marker.
func (p *UserProfile) Status() MigrationStatus {
	if p == nil {
		return StatusPending
	}
	return StatusFromDataVersion(p.Metadata.DataVersion)
}
