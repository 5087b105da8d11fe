// Package transform maps nested-layout documents onto the flat schema.
// Nothing here touches Firestore and nothing here returns an error:
// absent or malformed fields decode to nil and are defaulted later.
package transform

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/retrovault/backend/internal/models"
)

// DecodeProfile also understands an already-flat profile, so re-running the
// profile step does not reset preferences or the cached balance.
func DecodeProfile(data map[string]any) models.LegacyProfile {
	prefs := nested(data, "preferences")
	summary := nested(data, "financialSummary")

	p := models.LegacyProfile{
		Name:     stringField(data, "name", "displayName"),
		Email:    stringField(data, "email"),
		PhotoURL: stringField(data, "photoURL", "photo"),
		Balance:  numberField(data, "balance"),
		Currency: stringField(data, "currency"),
		Timezone: stringField(data, "timezone"),
		Created:  timeField(data, "createdAt"),
	}
	if p.Balance == nil {
		p.Balance = numberField(summary, "totalBalance")
	}
	if p.Currency == nil {
		p.Currency = stringField(prefs, "currency")
	}
	if p.Timezone == nil {
		p.Timezone = stringField(prefs, "timezone")
	}
	return p
}

func DecodeAccount(doc models.RawDocument) models.LegacyAccount {
	return models.LegacyAccount{
		ID:            doc.ID,
		Name:          stringField(doc.Data, "name", "nickname"),
		Type:          stringField(doc.Data, "type"),
		Balance:       numberField(doc.Data, "balance"),
		Currency:      stringField(doc.Data, "currency"),
		Institution:   stringField(doc.Data, "institution", "bank"),
		AccountNumber: stringField(doc.Data, "accountNumber", "account_number"),
		Created:       timeField(doc.Data, "createdAt"),
	}
}

func DecodeTransaction(doc models.RawDocument) models.LegacyTransaction {
	return models.LegacyTransaction{
		ID:            doc.ID,
		AccountID:     stringField(doc.Data, "accountId", "account_id"),
		Amount:        numberField(doc.Data, "amount"),
		Type:          stringField(doc.Data, "type"),
		Category:      stringField(doc.Data, "category"),
		Subcategory:   stringField(doc.Data, "subcategory"),
		Description:   stringField(doc.Data, "description"),
		Merchant:      stringField(doc.Data, "merchant"),
		Date:          timeField(doc.Data, "date", "transaction_date"),
		Location:      stringField(doc.Data, "location"),
		PaymentMethod: stringField(doc.Data, "paymentMethod", "medium"),
		Notes:         stringField(doc.Data, "notes"),
	}
}

func DecodeGoal(doc models.RawDocument) models.LegacyGoal {
	return models.LegacyGoal{
		ID:            doc.ID,
		Name:          stringField(doc.Data, "name", "title"),
		TargetAmount:  numberField(doc.Data, "targetAmount", "target"),
		CurrentAmount: numberField(doc.Data, "currentAmount", "current"),
		TargetDate:    timeField(doc.Data, "targetDate", "deadline"),
		Category:      stringField(doc.Data, "category"),
		Priority:      stringField(doc.Data, "priority"),
		IsCompleted:   boolField(doc.Data, "isCompleted", "completed"),
		Created:       timeField(doc.Data, "createdAt"),
	}
}

// BudgetEntries keeps the {category: amount} pairs whose amount is numeric
// and strictly positive, sorted by category for a stable write order.
func BudgetEntries(data map[string]any) []models.BudgetEntry {
	entries := make([]models.BudgetEntry, 0, len(data))
	for category, raw := range data {
		if strings.TrimSpace(category) == "" {
			continue
		}
		amount, ok := toFloat(raw)
		if !ok || amount <= 0 {
			continue
		}
		entries = append(entries, models.BudgetEntry{Category: category, Amount: amount})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Category < entries[j].Category })
	return entries
}

// ---- field readers ----

func nested(data map[string]any, key string) map[string]any {
	m, _ := data[key].(map[string]any)
	return m
}

// blank strings count as absent
func stringField(data map[string]any, keys ...string) *string {
	for _, k := range keys {
		if s, ok := data[k].(string); ok && strings.TrimSpace(s) != "" {
			return &s
		}
	}
	return nil
}

func numberField(data map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		if f, ok := toFloat(data[k]); ok {
			return &f
		}
	}
	return nil
}

func boolField(data map[string]any, keys ...string) *bool {
	for _, k := range keys {
		if b, ok := data[k].(bool); ok {
			return &b
		}
	}
	return nil
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func timeField(data map[string]any, keys ...string) *time.Time {
	for _, k := range keys {
		switch v := data[k].(type) {
		case time.Time:
			if !v.IsZero() {
				return &v
			}
		case string:
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return &t
				}
			}
		}
	}
	return nil
}

// Firestore hands back int64 for integers and float64 for doubles; the
// other kinds show up in maps built by hand.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
