package classifier

// Category is one entry of the fixed accounting taxonomy. The set is
// loaded at startup and never mutated by classification; only explicit
// training-data edits may touch it.
type Category struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Color    string   `json:"color"`
	Icon     string   `json:"icon"`
}

// DefaultCategories returns the built-in taxonomy in stable order.
func DefaultCategories() []Category {
	return []Category{
		{
			Key:      "office_supplies",
			Name:     "Office Supplies",
			Keywords: []string{"office", "supplies", "paper", "printer", "ink", "pens", "staples"},
			Color:    "#1976d2",
			Icon:     "ic-office",
		},
		{
			Key:      "travel",
			Name:     "Travel",
			Keywords: []string{"travel", "hotel", "flight", "uber", "lyft", "taxi", "gas", "fuel"},
			Color:    "#388e3c",
			Icon:     "ic-travel",
		},
		{
			Key:      "meals",
			Name:     "Meals & Dining",
			Keywords: []string{"restaurant", "food", "meal", "lunch", "dinner", "breakfast", "coffee"},
			Color:    "#f57c00",
			Icon:     "ic-food",
		},
		{
			Key:      "marketing",
			Name:     "Marketing",
			Keywords: []string{"advertising", "marketing", "social media", "google ads", "facebook ads"},
			Color:    "#7b1fa2",
			Icon:     "ic-marketing",
		},
		{
			Key:      "software",
			Name:     "Software & Subscriptions",
			Keywords: []string{"software", "subscription", "saas", "app", "tool", "platform"},
			Color:    "#0288d1",
			Icon:     "ic-software",
		},
		{
			Key:      "utilities",
			Name:     "Utilities",
			Keywords: []string{"electricity", "water", "internet", "phone", "utility", "bill"},
			Color:    "#d32f2f",
			Icon:     "ic-utility",
		},
		{
			Key:      "equipment",
			Name:     "Equipment",
			Keywords: []string{"computer", "laptop", "equipment", "hardware", "device", "machine"},
			Color:    "#5d4037",
			Icon:     "ic-equipment",
		},
		{
			Key:      "professional_services",
			Name:     "Professional Services",
			Keywords: []string{"consulting", "legal", "accounting", "service", "professional"},
			Color:    "#455a64",
			Icon:     "ic-service",
		},
	}
}
