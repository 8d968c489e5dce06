package receipt

import (
	"regexp"
	"strings"
)

// Currency indicators gate every numeric rule: a number without one is
// never read as money. Extend these lists to recognize more markets.
var (
	currencySymbols = []string{"$", "€", "£", "¥", "₹", "₱", "₽", "₩", "₺", "R$", "C$", "A$"}
	currencyCodes   = []string{
		"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "MXN", "CHF",
		"CNY", "RMB", "SEK", "NOK", "DKK", "ZAR", "INR", "BRL",
	}
)

// merchantRules are tried in order against the first non-empty line;
// the first capture group that matches wins.
var merchantRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^([A-Z][A-Z\s&]+)`),
	regexp.MustCompile(`(?i)^([A-Z][a-z\s]+(?:STORE|SHOP|MARKET|DEPOT))`),
}

// dateRules are tried in order against the whole text; first match wins.
var dateRules = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}`),
	regexp.MustCompile(`\d{4}[/\-]\d{1,2}[/\-]\d{1,2}`),
	regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},?\s+\d{4}`),
}

// Label anchors for the amount fields.
var (
	totalLabelRule    = regexp.MustCompile(`(?i)TOTAL|AMOUNT|BALANCE|GRAND\s+TOTAL`)
	taxLabelRule      = regexp.MustCompile(`(?i)TAX|SALES\s+TAX|VAT|GST|IVA`)
	subtotalLabelRule = regexp.MustCompile(`(?i)SUB\s*TOTAL`)
)

// headerFooterKeywords disqualify a line from being read as a purchased
// item; they mark summary, payment and boilerplate lines.
var headerFooterKeywords = []string{
	"TOTAL", "TAX", "SUBTOTAL", "CHANGE", "CASH", "CARD",
	"RECEIPT", "THANK", "WELCOME", "STORE", "PHONE",
}

var (
	currencyGroup = buildCurrencyGroup()

	// currencyRule detects the presence of any currency indicator.
	currencyRule = regexp.MustCompile(`(?i)` + currencyGroup)

	// amountRule matches "<currency><number>" or "<number><currency>".
	amountRule = regexp.MustCompile(
		`(?i)` + currencyGroup + `\s?(` + numberGroup + `)|(` + numberGroup + `)\s?` + currencyGroup)

	// itemRule matches "<description> <currency amount>" at line end.
	itemRule = regexp.MustCompile(
		`(?i)^(.+?)\s+(?:` + currencyGroup + `\s?(` + numberGroup + `)|(` + numberGroup + `)\s?` + currencyGroup + `)$`)
)

const numberGroup = `[0-9]{1,3}(?:[0-9,]*)(?:\.[0-9]{2})?`

func buildCurrencyGroup() string {
	parts := make([]string, 0, len(currencySymbols)+len(currencyCodes))
	for _, s := range currencySymbols {
		parts = append(parts, regexp.QuoteMeta(s))
	}
	parts = append(parts, currencyCodes...)
	return `(?:` + strings.Join(parts, "|") + `)`
}
