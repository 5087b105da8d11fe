package transform

import (
	"math"
	"strings"
	"time"

	"github.com/retrovault/backend/internal/models"
	"github.com/retrovault/backend/pkg/helpers"
)

const (
	SyncSourceMigration = "migration"

	defaultAccountName  = "Account"
	defaultAccountType  = "Checking"
	defaultCurrency     = "USD"
	defaultTimezone     = "UTC"
	defaultInstitution  = "Unknown"
	defaultCategory     = "Other"
	defaultDescription  = "Transaction"
	defaultDisplayName  = "User"
	defaultGoalName     = "Goal"
	defaultGoalCategory = "Savings"
	defaultGoalPriority = "medium"
	defaultBudgetPeriod = "monthly"
	profileSyncVersion  = 1
)

// DefaultPreferenceCategories seeds preferences.categories on new profiles.
var DefaultPreferenceCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Income",
	"Other",
}

// Profile builds the flat profile. dataVersion is left empty; it is set
// only once every step of the migration has completed.
func Profile(old models.LegacyProfile, uid string, now time.Time) *models.UserProfile {
	return &models.UserProfile{
		UID:         uid,
		DisplayName: helpers.ValueOr(old.Name, defaultDisplayName),
		Email:       helpers.Value(old.Email),
		PhotoURL:    helpers.Value(old.PhotoURL),
		FinancialSummary: models.FinancialSummary{
			TotalBalance: helpers.ValueOr(old.Balance, 0),
			LastUpdated:  now,
		},
		SyncStatus: models.SyncStatus{
			LastSync:     now,
			IsConsistent: true,
			Version:      profileSyncVersion,
		},
		Preferences: DefaultPreferences(helpers.ValueOr(old.Currency, defaultCurrency), helpers.ValueOr(old.Timezone, defaultTimezone)),
		Metadata: models.ProfileMetadata{
			LastDataUpdate: now,
		},
		CreatedAt: helpers.ValueOr(old.Created, now),
		UpdatedAt: now,
	}
}

func DefaultPreferences(currency, timezone string) models.Preferences {
	return models.Preferences{
		Currency:   currency,
		Timezone:   timezone,
		Categories: append([]string(nil), DefaultPreferenceCategories...),
		Notifications: models.NotificationPreferences{
			Email:         true,
			Push:          false,
			BudgetAlerts:  true,
			GoalReminders: true,
		},
	}
}

func Account(old models.LegacyAccount, uid string, now time.Time) *models.Account {
	return &models.Account{
		UserID:        uid,
		NessieID:      old.ID,
		Name:          helpers.FirstOr(defaultAccountName, old.Name, old.Type),
		Type:          helpers.ValueOr(old.Type, defaultAccountType),
		Balance:       helpers.ValueOr(old.Balance, 0),
		Currency:      helpers.ValueOr(old.Currency, defaultCurrency),
		Institution:   helpers.ValueOr(old.Institution, defaultInstitution),
		AccountNumber: helpers.Value(old.AccountNumber),
		IsActive:      true,
		Metadata: models.AccountMetadata{
			SyncSource: SyncSourceMigration,
			LastSynced: now,
		},
		CreatedAt: helpers.ValueOr(old.Created, now),
		UpdatedAt: now,
	}
}

// Transaction maps an old transaction. links translates old nested account
// ids to flat account ids; unknown ids are carried over unchanged.
func Transaction(old models.LegacyTransaction, uid string, links map[string]string, now time.Time) *models.Transaction {
	amount := helpers.ValueOr(old.Amount, 0)

	accountID := helpers.Value(old.AccountID)
	if flatID, ok := links[accountID]; ok && accountID != "" {
		accountID = flatID
	}

	return &models.Transaction{
		UserID:      uid,
		AccountID:   accountID,
		NessieID:    old.ID,
		Amount:      math.Abs(amount),
		Type:        NormalizeType(helpers.Value(old.Type)),
		Category:    helpers.ValueOr(old.Category, defaultCategory),
		Subcategory: helpers.Value(old.Subcategory),
		Description: helpers.ValueOr(old.Description, defaultDescription),
		Merchant:    helpers.Value(old.Merchant),
		Date:        helpers.ValueOr(old.Date, now),
		Metadata: models.TransactionMetadata{
			Location:      helpers.Value(old.Location),
			PaymentMethod: helpers.Value(old.PaymentMethod),
			Notes:         helpers.Value(old.Notes),
			SyncSource:    SyncSourceMigration,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeType folds the legacy deposit/withdrawal tags into income/expense.
// A missing or unknown tag is an expense.
func NormalizeType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "income", "deposit", "credit":
		return models.TransactionIncome
	default:
		return models.TransactionExpense
	}
}

// IsIncome and IsExpense accept the legacy synonyms as well, for flat
// documents written by older clients.
func IsIncome(t string) bool {
	switch strings.ToLower(t) {
	case "income", "deposit":
		return true
	}
	return false
}

func IsExpense(t string) bool {
	switch strings.ToLower(t) {
	case "expense", "withdrawal":
		return true
	}
	return false
}

func Budget(entry models.BudgetEntry, uid string, now time.Time) *models.Budget {
	return &models.Budget{
		UserID:    uid,
		Category:  entry.Category,
		Amount:    entry.Amount,
		Period:    defaultBudgetPeriod,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func Goal(old models.LegacyGoal, uid string, now time.Time) *models.Goal {
	target := helpers.ValueOr(old.TargetAmount, 0)
	current := helpers.ValueOr(old.CurrentAmount, 0)

	return &models.Goal{
		UserID:        uid,
		NessieID:      old.ID,
		Name:          helpers.ValueOr(old.Name, defaultGoalName),
		TargetAmount:  target,
		CurrentAmount: current,
		TargetDate:    helpers.ValueOr(old.TargetDate, now.AddDate(1, 0, 0)),
		Category:      helpers.ValueOr(old.Category, defaultGoalCategory),
		Priority:      helpers.ValueOr(old.Priority, defaultGoalPriority),
		IsCompleted:   helpers.ValueOr(old.IsCompleted, target > 0 && current >= target),
		CreatedAt:     helpers.ValueOr(old.Created, now),
		UpdatedAt:     now,
	}
}
