package models

// Category is a global catalog entry, stored at categories/{slug}.
type Category struct {
	CategoryID    string         `firestore:"-" json:"categoryId"`
	Name          string         `firestore:"name" json:"name"`
	Type          string         `firestore:"type" json:"type"` // income | expense
	Color         string         `firestore:"color" json:"color"`
	Icon          string         `firestore:"icon" json:"icon"`
	Subcategories []string       `firestore:"subcategories,omitempty" json:"subcategories,omitempty"`
	Rules         []CategoryRule `firestore:"rules,omitempty" json:"rules,omitempty"`
	IsDefault     bool           `firestore:"isDefault" json:"isDefault"`
}

// CategoryRule auto-assigns a transaction whose description contains Keyword.
type CategoryRule struct {
	Keyword     string `firestore:"keyword" json:"keyword"`
	Subcategory string `firestore:"subcategory,omitempty" json:"subcategory,omitempty"`
}
