package fusion

import "github.com/ledgerlens/ledgerlens/internal/engine"

// Per-field merge policy. Each function encodes an explicit precedence
// order rather than any averaging or voting, so the rules stay
// independently testable.

// mergeItems prefers the backend's canonical order table, then its
// loosely structured items, else nothing.
func mergeItems(backend *BackendResult) []LineItem {
	if backend == nil {
		return nil
	}
	if backend.Canonical != nil && len(backend.Canonical.OrderDetails) > 0 {
		items := make([]LineItem, len(backend.Canonical.OrderDetails))
		for i, row := range backend.Canonical.OrderDetails {
			items[i] = canonicalLineItem(row)
		}
		return items
	}
	if backend.Structured != nil && len(backend.Structured.Items) > 0 {
		items := make([]LineItem, len(backend.Structured.Items))
		for i, it := range backend.Structured.Items {
			items[i] = LineItem{Description: it.Description, Price: it.Price}
		}
		return items
	}
	return nil
}

func canonicalLineItem(row CanonicalItem) LineItem {
	item := LineItem{
		No:          row.No,
		Description: row.Product,
		Variation:   row.Variation,
		UnitPrice:   row.ProductPrice,
		Qty:         row.Qty,
		Subtotal:    row.Subtotal,
	}
	switch {
	case row.Subtotal != nil:
		item.Price = *row.Subtotal
	case row.ProductPrice != nil:
		item.Price = *row.ProductPrice
	}
	return item
}

// mergeCurrency prefers the canonical currency over the structured one.
func mergeCurrency(backend *BackendResult) string {
	if backend == nil {
		return ""
	}
	if backend.Canonical != nil && backend.Canonical.Fields.Currency != "" {
		return backend.Canonical.Fields.Currency
	}
	if backend.Structured != nil {
		return backend.Structured.Currency
	}
	return ""
}

// mergeGrandTotal prefers canonical grand total, then structured grand
// total, then the structured plain total.
func mergeGrandTotal(backend *BackendResult) *float64 {
	if backend == nil {
		return nil
	}
	if backend.Canonical != nil && backend.Canonical.Amounts.GrandTotal != nil {
		return backend.Canonical.Amounts.GrandTotal
	}
	if backend.Structured != nil {
		if backend.Structured.GrandTotal != nil {
			return backend.Structured.GrandTotal
		}
		return backend.Structured.Total
	}
	return nil
}

// mergeText prefers the local engine's text, which is typically more
// complete for free-form receipt text, over the backend's.
func mergeText(local *engine.Result, backend *BackendResult) string {
	if local != nil {
		if local.Text != "" {
			return local.Text
		}
		if local.RawText != "" {
			return local.RawText
		}
	}
	if backend != nil {
		return backend.Text
	}
	return ""
}
