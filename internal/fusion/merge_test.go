package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/internal/engine"
)

func f64(v float64) *float64 { return &v }

func TestMergeItems_CanonicalWinsOverStructured(t *testing.T) {
	backend := &BackendResult{
		Canonical: &CanonicalPayload{
			OrderDetails: []CanonicalItem{
				{Product: "Canon A", ProductPrice: f64(10), Subtotal: f64(20), Qty: f64(2)},
			},
		},
		Structured: &StructuredPayload{
			Items: []StructuredItem{{Description: "Struct B", Price: 5}},
		},
	}

	items := mergeItems(backend)
	require.Len(t, items, 1)
	assert.Equal(t, "Canon A", items[0].Description)
	assert.InDelta(t, 20, items[0].Price, 0.001)
}

func TestMergeItems_StructuredFallback(t *testing.T) {
	backend := &BackendResult{
		Canonical:  &CanonicalPayload{},
		Structured: &StructuredPayload{Items: []StructuredItem{{Description: "Struct B", Price: 5}}},
	}

	items := mergeItems(backend)
	require.Len(t, items, 1)
	assert.Equal(t, "Struct B", items[0].Description)
}

func TestMergeItems_NilBackend(t *testing.T) {
	assert.Empty(t, mergeItems(nil))
}

func TestCanonicalLineItem_PriceFallsBackToUnitPrice(t *testing.T) {
	item := canonicalLineItem(CanonicalItem{Product: "X", ProductPrice: f64(3.5)})
	assert.InDelta(t, 3.5, item.Price, 0.001)
}

func TestMergeCurrency_Precedence(t *testing.T) {
	backend := &BackendResult{
		Structured: &StructuredPayload{Currency: "USD"},
	}
	backend.Canonical = &CanonicalPayload{}
	backend.Canonical.Fields.Currency = "PHP"

	assert.Equal(t, "PHP", mergeCurrency(backend))

	backend.Canonical.Fields.Currency = ""
	assert.Equal(t, "USD", mergeCurrency(backend))

	assert.Empty(t, mergeCurrency(nil))
}

func TestMergeGrandTotal_Precedence(t *testing.T) {
	backend := &BackendResult{
		Structured: &StructuredPayload{GrandTotal: f64(90), Total: f64(80)},
	}
	backend.Canonical = &CanonicalPayload{}
	backend.Canonical.Amounts.GrandTotal = f64(100)

	require.NotNil(t, mergeGrandTotal(backend))
	assert.InDelta(t, 100, *mergeGrandTotal(backend), 0.001)

	backend.Canonical.Amounts.GrandTotal = nil
	assert.InDelta(t, 90, *mergeGrandTotal(backend), 0.001)

	backend.Structured.GrandTotal = nil
	assert.InDelta(t, 80, *mergeGrandTotal(backend), 0.001)

	assert.Nil(t, mergeGrandTotal(nil))
}

func TestMergeText_LocalPreferred(t *testing.T) {
	local := &engine.Result{Success: true, Text: "local filtered", RawText: "local raw"}
	backend := &BackendResult{Text: "backend text"}

	assert.Equal(t, "local filtered", mergeText(local, backend))
	assert.Equal(t, "backend text", mergeText(nil, backend))
	assert.Equal(t, "backend text", mergeText(&engine.Result{}, backend))
	assert.Empty(t, mergeText(nil, nil))
}
