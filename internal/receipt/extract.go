// Package receipt derives structured fields from raw OCR text.
//
// Extraction works on the unfiltered engine output because line
// structure carries most of the signal. Every field has an ordered
// rule list with first-match-wins semantics; fields are independent,
// so a parse failure in one never aborts the others.
package receipt

import (
	"strconv"
	"strings"
)

// UnknownMerchant is returned when no line yields a merchant name.
const UnknownMerchant = "Unknown Merchant"

// Item is one purchased line on the receipt.
type Item struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Receipt holds the structured fields extracted from one receipt.
// Nil pointers mean the field was absent; Tax defaults to 0.
type Receipt struct {
	Merchant string   `json:"merchant"`
	Date     *string  `json:"date"`
	Total    *float64 `json:"total"`
	Subtotal *float64 `json:"subtotal"`
	Tax      float64  `json:"tax"`
	Items    []Item   `json:"items"`
}

// Extract runs every field extractor over the text. Deterministic and
// side-effect free: the same text always yields the same Receipt.
func Extract(text string) Receipt {
	return Receipt{
		Merchant: ExtractMerchant(text),
		Date:     ExtractDate(text),
		Total:    ExtractTotal(text),
		Subtotal: ExtractSubtotal(text),
		Tax:      ExtractTax(text),
		Items:    ExtractItems(text),
	}
}

// ExtractMerchant reads the merchant from the first non-empty line.
func ExtractMerchant(text string) string {
	first := firstNonEmptyLine(text)
	if first == "" {
		return UnknownMerchant
	}
	for _, rule := range merchantRules {
		if m := rule.FindStringSubmatch(first); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return first
}

// ExtractDate returns the first date-looking substring, trying the
// numeric day-first form, then year-first, then month names.
func ExtractDate(text string) *string {
	for _, rule := range dateRules {
		if m := rule.FindString(text); m != "" {
			return &m
		}
	}
	return nil
}

// ExtractTotal scans label-anchored lines carrying a currency amount
// and returns the maximum candidate (the grand total is rarely beaten
// by a sub-amount on the same receipt). When no labeled line matches,
// it falls back to the last line with a currency amount.
func ExtractTotal(text string) *float64 {
	lines := splitLines(text)
	var candidates []float64
	for _, line := range lines {
		if !totalLabelRule.MatchString(line) || !currencyRule.MatchString(line) {
			continue
		}
		if amount := amountFromLine(line); amount != nil {
			candidates = append(candidates, *amount)
		}
	}

	if len(candidates) == 0 {
		for i := len(lines) - 1; i >= 0; i-- {
			if !currencyRule.MatchString(lines[i]) {
				continue
			}
			if amount := amountFromLine(lines[i]); amount != nil {
				candidates = append(candidates, *amount)
				break
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c > best {
			best = c
		}
	}
	return &best
}

// ExtractTax returns the first labeled tax amount, or 0 when absent.
func ExtractTax(text string) float64 {
	for _, line := range splitLines(text) {
		if !taxLabelRule.MatchString(line) || !currencyRule.MatchString(line) {
			continue
		}
		if amount := amountFromLine(line); amount != nil {
			return *amount
		}
	}
	return 0
}

// ExtractSubtotal returns the first labeled subtotal amount, or nil.
func ExtractSubtotal(text string) *float64 {
	for _, line := range splitLines(text) {
		if !subtotalLabelRule.MatchString(line) || !currencyRule.MatchString(line) {
			continue
		}
		if amount := amountFromLine(line); amount != nil {
			return amount
		}
	}
	return nil
}

// ExtractItems reads "<description> <price>" lines, skipping any whose
// description contains a header/footer keyword so summary lines are
// never misread as purchases.
func ExtractItems(text string) []Item {
	var items []Item
	for _, line := range splitLines(text) {
		m := itemRule.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[1])
		if isHeaderOrFooter(desc) {
			continue
		}
		amountStr := m[2]
		if amountStr == "" {
			amountStr = m[3]
		}
		price, err := parseAmount(amountStr)
		if err != nil {
			continue
		}
		items = append(items, Item{Description: desc, Price: price})
	}
	return items
}

func isHeaderOrFooter(desc string) bool {
	upper := strings.ToUpper(desc)
	for _, keyword := range headerFooterKeywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}

// amountFromLine extracts the first currency-adjacent amount in the
// line. Returns nil if nothing matches or the number fails to parse.
func amountFromLine(line string) *float64 {
	m := amountRule.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	amountStr := m[1]
	if amountStr == "" {
		amountStr = m[2]
	}
	amount, err := parseAmount(amountStr)
	if err != nil {
		return nil
	}
	return &amount
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

func splitLines(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

func firstNonEmptyLine(text string) string {
	lines := splitLines(text)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
