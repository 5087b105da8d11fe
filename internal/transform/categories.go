package transform

import (
	"strings"
	"unicode"

	"github.com/retrovault/backend/internal/models"
)

// DefaultCategories is the shared catalog seeded after a migration run and
// for new users.
func DefaultCategories() []models.Category {
	cats := []models.Category{
		{
			Name: "Food & Dining", Type: models.TransactionExpense, Color: "#FF6B6B", Icon: "utensils",
			Subcategories: []string{"Groceries", "Restaurants", "Coffee"},
			Rules: []models.CategoryRule{
				{Keyword: "grocery", Subcategory: "Groceries"},
				{Keyword: "restaurant", Subcategory: "Restaurants"},
				{Keyword: "coffee", Subcategory: "Coffee"},
			},
		},
		{
			Name: "Transportation", Type: models.TransactionExpense, Color: "#4ECDC4", Icon: "car",
			Subcategories: []string{"Fuel", "Public Transit", "Rideshare"},
			Rules: []models.CategoryRule{
				{Keyword: "gas", Subcategory: "Fuel"},
				{Keyword: "uber", Subcategory: "Rideshare"},
				{Keyword: "metro", Subcategory: "Public Transit"},
			},
		},
		{
			Name: "Shopping", Type: models.TransactionExpense, Color: "#45B7D1", Icon: "shopping-bag",
			Subcategories: []string{"Clothing", "Electronics", "Online"},
			Rules:         []models.CategoryRule{{Keyword: "amazon", Subcategory: "Online"}},
		},
		{
			Name: "Entertainment", Type: models.TransactionExpense, Color: "#96CEB4", Icon: "film",
			Subcategories: []string{"Streaming", "Games", "Events"},
			Rules:         []models.CategoryRule{{Keyword: "netflix", Subcategory: "Streaming"}},
		},
		{
			Name: "Bills & Utilities", Type: models.TransactionExpense, Color: "#FFEAA7", Icon: "file-invoice",
			Subcategories: []string{"Electricity", "Internet", "Phone", "Rent"},
			Rules: []models.CategoryRule{
				{Keyword: "electric", Subcategory: "Electricity"},
				{Keyword: "rent", Subcategory: "Rent"},
			},
		},
		{
			Name: "Healthcare", Type: models.TransactionExpense, Color: "#DDA0DD", Icon: "heartbeat",
			Subcategories: []string{"Pharmacy", "Doctor", "Insurance"},
			Rules:         []models.CategoryRule{{Keyword: "pharmacy", Subcategory: "Pharmacy"}},
		},
		{
			Name: "Income", Type: models.TransactionIncome, Color: "#2ECC71", Icon: "dollar-sign",
			Subcategories: []string{"Salary", "Freelance", "Interest"},
			Rules: []models.CategoryRule{
				{Keyword: "payroll", Subcategory: "Salary"},
				{Keyword: "interest", Subcategory: "Interest"},
			},
		},
		{
			Name: "Other", Type: models.TransactionExpense, Color: "#95A5A6", Icon: "ellipsis-h",
		},
	}
	for i := range cats {
		cats[i].CategoryID = Slug(cats[i].Name)
		cats[i].IsDefault = true
	}
	return cats
}

// Slug turns a category name into its document id: "Bills & Utilities"
// becomes "bills-utilities".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
