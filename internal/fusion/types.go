package fusion

import (
	"encoding/json"

	"github.com/ledgerlens/ledgerlens/internal/engine"
	"github.com/ledgerlens/ledgerlens/internal/receipt"
)

// BackendResult is the typed payload the document-analysis backend
// returns inside its {success, data} envelope. Every section is
// optional; nil means the backend had nothing to say about it.
type BackendResult struct {
	Success     bool               `json:"success"`
	Text        string             `json:"text"`
	Structured  *StructuredPayload `json:"structured"`
	Canonical   *CanonicalPayload  `json:"canonical"`
	Warnings    []string           `json:"warnings"`
	Diagnostics json.RawMessage    `json:"diagnostics,omitempty"`
}

// StructuredPayload is the backend's loosely structured field block.
type StructuredPayload struct {
	Items      []StructuredItem `json:"items"`
	Currency   string           `json:"currency"`
	GrandTotal *float64         `json:"grandTotal"`
	Total      *float64         `json:"total"`
}

// StructuredItem is one loosely structured line item.
type StructuredItem struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CanonicalPayload is the backend's table-derived canonical block,
// preferred over the structured one when present.
type CanonicalPayload struct {
	Fields struct {
		Currency string `json:"currency"`
	} `json:"fields"`
	Amounts struct {
		GrandTotal *float64 `json:"grandTotal"`
	} `json:"amounts"`
	OrderDetails []CanonicalItem `json:"order_details"`
}

// CanonicalItem is one row of the backend's canonical order table.
type CanonicalItem struct {
	No           *int     `json:"no"`
	Product      string   `json:"product"`
	Variation    string   `json:"variation"`
	ProductPrice *float64 `json:"product_price"`
	Qty          *float64 `json:"qty"`
	Subtotal     *float64 `json:"subtotal"`
}

// LineItem is the unified item shape exposed to callers regardless of
// which engine produced it. Optional columns stay nil when the source
// did not provide them.
type LineItem struct {
	No          *int     `json:"no,omitempty"`
	Description string   `json:"description"`
	Variation   string   `json:"variation,omitempty"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
	Qty         *float64 `json:"qty,omitempty"`
	Subtotal    *float64 `json:"subtotal,omitempty"`
	Price       float64  `json:"price"`
}

// Result is the unified dual-engine recognition output. Success is
// true if either branch produced usable output; callers must not
// assume both engines succeeded. Local and Backend keep the raw branch
// outputs for diagnostics.
type Result struct {
	Success     bool               `json:"success"`
	Text        string             `json:"text"`
	Currency    string             `json:"currency,omitempty"`
	GrandTotal  *float64           `json:"grandTotal"`
	Items       []LineItem         `json:"items"`
	Structured  *StructuredPayload `json:"structured"`
	Canonical   *CanonicalPayload  `json:"canonical"`
	Receipt     *receipt.Receipt   `json:"receipt,omitempty"`
	Warnings    []string           `json:"warnings"`
	Diagnostics json.RawMessage    `json:"diagnostics,omitempty"`
	Local       *engine.Result     `json:"local"`
	Backend     *BackendResult     `json:"backend"`
}
