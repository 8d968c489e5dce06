package classifier

import "time"

// Example is one labeled training sample. Examples accumulate in an
// ordered in-process sequence; each append triggers a synchronous
// whole-model refit, an accepted tradeoff at the small volumes this
// service sees.
type Example struct {
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultTrainingSet returns the hand-labeled bootstrap examples used
// when Train is called with no data.
func DefaultTrainingSet() []Example {
	samples := []struct {
		text     string
		category string
	}{
		{"Office Depot printer paper", "office_supplies"},
		{"Staples office supplies", "office_supplies"},
		{"Amazon pens and notebooks", "office_supplies"},
		{"Walmart office equipment", "office_supplies"},

		{"Marriott hotel stay", "travel"},
		{"Uber ride to airport", "travel"},
		{"Shell gas station", "travel"},
		{"Delta airline ticket", "travel"},
		{"Hertz car rental", "travel"},

		{"McDonald's lunch", "meals"},
		{"Starbucks coffee", "meals"},
		{"Pizza Hut dinner", "meals"},
		{"Subway sandwich", "meals"},
		{"Chipotle burrito", "meals"},

		{"Google Ads advertising", "marketing"},
		{"Facebook marketing campaign", "marketing"},
		{"LinkedIn ads", "marketing"},
		{"Print advertising", "marketing"},

		{"Adobe Creative Suite subscription", "software"},
		{"Microsoft Office 365", "software"},
		{"Slack premium plan", "software"},
		{"Zoom pro subscription", "software"},

		{"Electricity bill", "utilities"},
		{"Water utility payment", "utilities"},
		{"Internet service provider", "utilities"},
		{"Phone bill", "utilities"},

		{"Apple MacBook Pro", "equipment"},
		{"Dell computer purchase", "equipment"},
		{"Canon printer", "equipment"},
		{"Samsung monitor", "equipment"},

		{"Legal consultation", "professional_services"},
		{"Accounting services", "professional_services"},
		{"Business consulting", "professional_services"},
		{"IT support services", "professional_services"},
	}

	examples := make([]Example, len(samples))
	for i, s := range samples {
		examples[i] = Example{Text: s.text, Category: s.category}
	}
	return examples
}
